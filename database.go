package main

import (
	"database/sql"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// CommanderRow represents an account record
type CommanderRow struct {
	ID        int64
	Username  string
	Email     string
	PassHash  string
	IsGuest   bool
	CreatedAt time.Time
}

// StatsRow holds a commander's lifetime totals
type StatsRow struct {
	CommanderID int64
	Matches     int
	Kills       int
	Rams        int
	PowerUps    int
	Playtime    float64 // seconds
}

// MatchRow represents one completed match
type MatchRow struct {
	ID          int64
	CommanderID int64
	Score       int
	Kills       int
	Rams        int
	Duration    float64
	CreatedAt   time.Time
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commanders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		pass_hash TEXT NOT NULL DEFAULT '',
		is_guest INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS stats (
		commander_id INTEGER PRIMARY KEY REFERENCES commanders(id),
		matches INTEGER NOT NULL DEFAULT 0,
		kills INTEGER NOT NULL DEFAULT 0,
		rams INTEGER NOT NULL DEFAULT 0,
		powerups INTEGER NOT NULL DEFAULT 0,
		playtime REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS scores (
		commander_id INTEGER PRIMARY KEY REFERENCES commanders(id),
		high_score INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		commander_id INTEGER NOT NULL REFERENCES commanders(id),
		score INTEGER NOT NULL DEFAULT 0,
		kills INTEGER NOT NULL DEFAULT 0,
		rams INTEGER NOT NULL DEFAULT 0,
		duration REAL NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS achievements (
		commander_id INTEGER NOT NULL REFERENCES commanders(id),
		achievement_id TEXT NOT NULL,
		unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (commander_id, achievement_id)
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		commander_id INTEGER,
		session_id TEXT,
		data TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_matches_commander ON matches(commander_id);
	CREATE INDEX IF NOT EXISTS idx_commanders_username ON commanders(username);
	CREATE INDEX IF NOT EXISTS idx_analytics_created ON analytics_events(created_at);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Error("migration failed", "err", err)
	}
	return err
}

// GetSetting returns a settings value, or "" if absent
func (db *DB) GetSetting(key string) string {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if err != nil {
		return ""
	}
	return v
}

// SetSetting upserts a settings value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// CreateCommander creates a registered account (returns its ID)
func (db *DB) CreateCommander(username, email, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO commanders (username, email, pass_hash) VALUES (?, ?, ?)",
		username, email, passHash,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, db.seedRows(id)
}

// CreateGuest creates a guest account (no password, no email)
func (db *DB) CreateGuest(username string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO commanders (username, is_guest) VALUES (?, 1)",
		username,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, db.seedRows(id)
}

func (db *DB) seedRows(id int64) error {
	if _, err := db.conn.Exec("INSERT INTO stats (commander_id) VALUES (?)", id); err != nil {
		return err
	}
	_, err := db.conn.Exec("INSERT INTO scores (commander_id) VALUES (?)", id)
	return err
}

// GetCommanderByUsername returns an account by username, nil if absent
func (db *DB) GetCommanderByUsername(username string) (*CommanderRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, pass_hash, is_guest, created_at FROM commanders WHERE username = ?",
		username,
	)
	return scanCommander(row)
}

// GetCommanderByID returns an account by ID, nil if absent
func (db *DB) GetCommanderByID(id int64) (*CommanderRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, pass_hash, is_guest, created_at FROM commanders WHERE id = ?",
		id,
	)
	return scanCommander(row)
}

func scanCommander(row *sql.Row) (*CommanderRow, error) {
	c := &CommanderRow{}
	var guest int
	err := row.Scan(&c.ID, &c.Username, &c.Email, &c.PassHash, &guest, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	c.IsGuest = guest != 0
	return c, err
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM commanders WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// GetHighScore returns the stored best score for a commander
func (db *DB) GetHighScore(commanderID int64) (int, error) {
	var hs int
	err := db.conn.QueryRow("SELECT high_score FROM scores WHERE commander_id = ?", commanderID).Scan(&hs)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return hs, err
}

// SetHighScore stores score if it beats the current best. The stored
// value only ever goes up. Reports whether a new best was set.
func (db *DB) SetHighScore(commanderID int64, score int) (bool, error) {
	res, err := db.conn.Exec(`
		UPDATE scores SET high_score = ?, updated_at = CURRENT_TIMESTAMP
		WHERE commander_id = ? AND high_score < ?`,
		score, commanderID, score,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetStats returns lifetime totals, nil if absent
func (db *DB) GetStats(commanderID int64) (*StatsRow, error) {
	row := db.conn.QueryRow(
		"SELECT commander_id, matches, kills, rams, powerups, playtime FROM stats WHERE commander_id = ?",
		commanderID,
	)
	s := &StatsRow{}
	err := row.Scan(&s.CommanderID, &s.Matches, &s.Kills, &s.Rams, &s.PowerUps, &s.Playtime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// RecordMatch stores a completed match, bumps lifetime totals, and
// returns the match ID.
func (db *DB) RecordMatch(commanderID int64, score, kills, rams, powerups int, duration float64) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO matches (commander_id, score, kills, rams, duration) VALUES (?, ?, ?, ?, ?)",
		commanderID, score, kills, rams, duration,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	_, err = db.conn.Exec(`
		UPDATE stats SET
			matches = matches + 1,
			kills = kills + ?,
			rams = rams + ?,
			powerups = powerups + ?,
			playtime = playtime + ?
		WHERE commander_id = ?`,
		kills, rams, powerups, duration, commanderID,
	)
	return id, err
}

// GetMatchHistory returns recent matches for a commander
func (db *DB) GetMatchHistory(commanderID int64, limit int) ([]MatchRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, commander_id, score, kills, rams, duration, created_at
		FROM matches WHERE commander_id = ?
		ORDER BY created_at DESC LIMIT ?`,
		commanderID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MatchRow
	for rows.Next() {
		var m MatchRow
		if err := rows.Scan(&m.ID, &m.CommanderID, &m.Score, &m.Kills, &m.Rams, &m.Duration, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// LeaderboardEntry represents one row in the leaderboard
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Username  string `json:"username"`
	HighScore int    `json:"highScore"`
	Matches   int    `json:"matches"`
	Kills     int    `json:"kills"`
}

// GetLeaderboard returns the top registered commanders by high score
func (db *DB) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	rows, err := db.conn.Query(`
		SELECT c.username, sc.high_score, st.matches, st.kills
		FROM scores sc
		JOIN commanders c ON c.id = sc.commander_id
		JOIN stats st ON st.commander_id = sc.commander_id
		WHERE c.is_guest = 0
		ORDER BY sc.high_score DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.HighScore, &e.Matches, &e.Kills); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetAchievements returns unlocked achievement IDs for a commander
func (db *DB) GetAchievements(commanderID int64) ([]string, error) {
	rows, err := db.conn.Query(
		"SELECT achievement_id FROM achievements WHERE commander_id = ?",
		commanderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, rows.Err()
}

// UnlockAchievement records an unlock; reports whether it was new
func (db *DB) UnlockAchievement(commanderID int64, achievementID string) (bool, error) {
	res, err := db.conn.Exec(
		"INSERT OR IGNORE INTO achievements (commander_id, achievement_id) VALUES (?, ?)",
		commanderID, achievementID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
