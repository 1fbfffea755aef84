// Package storage provides SQLite-based persistence for episode results
// and state checkpoints. Uses the pure-Go modernc.org/sqlite driver to
// avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Episode is one finished or truncated rollout record.
type Episode struct {
	ID        int64
	GameID    string
	Seed      int64
	Steps     int
	Score     int
	Terminal  bool
	Digest    string // hex digest of the visited state sequence
	CreatedAt time.Time
}

// Checkpoint is one encoded mid-episode state, keyed by game, seed, and
// tick so a run can be resumed or replayed from any saved point.
type Checkpoint struct {
	ID        int64
	GameID    string
	Seed      int64
	Tick      uint64
	State     []byte
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			score INTEGER NOT NULL,
			terminal INTEGER NOT NULL DEFAULT 0,
			digest TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_game_id ON episodes(game_id);
		CREATE INDEX IF NOT EXISTS idx_episodes_top ON episodes(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS checkpoints (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			tick INTEGER NOT NULL,
			state BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(game_id, seed, tick)
		);
		CREATE INDEX IF NOT EXISTS idx_checkpoints_run ON checkpoints(game_id, seed, tick);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveEpisode records one finished rollout. Returns the ID of the
// inserted record.
func (s *Store) SaveEpisode(e Episode) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO episodes (game_id, seed, steps, score, terminal, digest)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.GameID, e.Seed, e.Steps, e.Score, e.Terminal, e.Digest,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save episode: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopEpisodes retrieves the N best-scoring episodes for the given game.
func (s *Store) TopEpisodes(gameID string, limit int) ([]Episode, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, seed, steps, score, terminal, digest, created_at
		 FROM episodes
		 WHERE game_id = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var entries []Episode
	for rows.Next() {
		var e Episode
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Seed, &e.Steps, &e.Score, &e.Terminal, &e.Digest, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best episode score for the given game.
// Returns 0 if no episodes exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM episodes WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearEpisodes deletes all episode records for the given game.
func (s *Store) ClearEpisodes(gameID string) error {
	_, err := s.db.Exec("DELETE FROM episodes WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear episodes: %w", err)
	}
	return nil
}

// SaveCheckpoint stores one encoded state. Saving the same (game, seed,
// tick) again overwrites the previous blob.
func (s *Store) SaveCheckpoint(c Checkpoint) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO checkpoints (game_id, seed, tick, state)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(game_id, seed, tick) DO UPDATE SET state = excluded.state`,
		c.GameID, c.Seed, c.Tick, c.State,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save checkpoint: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// LoadCheckpoint retrieves the encoded state at a specific tick.
// Returns nil if no such checkpoint exists.
func (s *Store) LoadCheckpoint(gameID string, seed int64, tick uint64) (*Checkpoint, error) {
	var c Checkpoint
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, game_id, seed, tick, state, created_at
		 FROM checkpoints
		 WHERE game_id = ? AND seed = ? AND tick = ?`,
		gameID, seed, tick,
	).Scan(&c.ID, &c.GameID, &c.Seed, &c.Tick, &c.State, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query checkpoint: %w", err)
	}

	c.CreatedAt = parseTimestamp(createdAt)
	return &c, nil
}

// LatestCheckpoint retrieves the highest-tick checkpoint of a run.
// Returns nil if the run has no checkpoints.
func (s *Store) LatestCheckpoint(gameID string, seed int64) (*Checkpoint, error) {
	var c Checkpoint
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, game_id, seed, tick, state, created_at
		 FROM checkpoints
		 WHERE game_id = ? AND seed = ?
		 ORDER BY tick DESC
		 LIMIT 1`,
		gameID, seed,
	).Scan(&c.ID, &c.GameID, &c.Seed, &c.Tick, &c.State, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query checkpoint: %w", err)
	}

	c.CreatedAt = parseTimestamp(createdAt)
	return &c, nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	Episodes   int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0)
		 FROM episodes WHERE game_id = ?`,
		gameID,
	).Scan(&stats.Episodes, &stats.HighScore, &stats.AvgScore, &stats.TotalScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM episodes WHERE game_id = ? ORDER BY created_at DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// GetAllGamesStats retrieves statistics for all games with episodes.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(created_at)
		 FROM episodes
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var gs GameStats
		var lastPlayed any
		if err := rows.Scan(&gs.GameID, &gs.Episodes, &gs.HighScore, &gs.AvgScore, &gs.TotalScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		gs.LastPlayed = parseTimestamp(lastPlayed)
		stats[gs.GameID] = &gs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTimestamp handles the driver returning DATETIME columns as either
// time.Time or a formatted string.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
