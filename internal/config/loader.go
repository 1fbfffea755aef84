package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadAtlantis loads the Atlantis configuration.
// Search order: customPath -> ~/.objarcade/configs/atlantis.yaml ->
// ./configs/atlantis.yaml -> embedded default.
func LoadAtlantis(customPath string) (AtlantisConfig, error) {
	var cfg AtlantisConfig

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath("atlantis.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile("configs/atlantis.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(defaultAtlantisYAML, &cfg); err != nil {
		return DefaultAtlantisConfig(), nil
	}
	return cfg, nil
}

// LoadAbyss loads the Abyss configuration with the same search order as
// LoadAtlantis.
func LoadAbyss(customPath string) (AbyssConfig, error) {
	var cfg AbyssConfig

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath("abyss.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile("configs/abyss.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(defaultAbyssYAML, &cfg); err != nil {
		return DefaultAbyssConfig(), nil
	}
	return cfg, nil
}

// userConfigPath returns the path of a config file in the user config
// directory, or "" if the home directory cannot be resolved.
func userConfigPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".objarcade", "configs", name)
}
