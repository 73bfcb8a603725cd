package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/lingofeed/internal/config"
)

// DB is the global database connection.
var DB *sqlx.DB

// dbType selects query variants ("postgres" or "sqlite").
var dbType = "postgres"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Connect establishes a connection to the configured database and ensures
// the schema exists.
func Connect(cfg config.Database) error {
	switch cfg.Type {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}
		db, err := sqlx.Connect("sqlite3", cfg.Path)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		DB = db
		dbType = "sqlite"
	default:
		dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.Name, cfg.User, cfg.Password)
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		DB = db
		dbType = "postgres"
	}
	return initializeSchema()
}

// Close closes the database connection.
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist.
func initializeSchema() error {
	serial := "BIGSERIAL PRIMARY KEY"
	if dbType == "sqlite" {
		serial = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS learners (
				id %s,
				auth_type TEXT NOT NULL,
				auth_ref TEXT NOT NULL,
				nickname TEXT NOT NULL,
				chat_id BIGINT DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS learning_units (
				id %s,
				kind TEXT NOT NULL,
				text TEXT NOT NULL,
				url_normal TEXT DEFAULT '',
				url_slow TEXT DEFAULT '',
				remark TEXT DEFAULT ''
			)`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS quiz_sets (
				id %s,
				title TEXT NOT NULL,
				type TEXT NOT NULL,
				set_order INTEGER NOT NULL,
				item_count INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(set_order)
			)`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS quiz_items (
				id %s,
				set_id BIGINT NOT NULL REFERENCES quiz_sets(id),
				type TEXT NOT NULL,
				prompt1 BIGINT,
				prompt2 BIGINT,
				answer1 BIGINT,
				answer2 BIGINT,
				answer_sq TEXT,
				answer_ox TEXT
			)`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS quiz_sessions (
				id %s,
				learner_id BIGINT NOT NULL REFERENCES learners(id),
				set_id BIGINT NOT NULL REFERENCES quiz_sets(id),
				done BOOLEAN NOT NULL DEFAULT FALSE,
				started_at TIMESTAMP NOT NULL,
				ended_at TIMESTAMP,
				time_spent INTEGER DEFAULT 0,
				total_items INTEGER NOT NULL,
				correct_items INTEGER NOT NULL DEFAULT 0,
				accuracy_rate NUMERIC(5,2) NOT NULL DEFAULT 0.00
			)`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS quiz_attempts (
				id %s,
				session_id BIGINT NOT NULL REFERENCES quiz_sessions(id),
				item_id BIGINT NOT NULL REFERENCES quiz_items(id),
				given_answer TEXT,
				correct BOOLEAN,
				attempt_count INTEGER DEFAULT 1,
				time_spent INTEGER DEFAULT 0,
				started_at TIMESTAMP,
				ended_at TIMESTAMP,
				attempt_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS hashtags (
				id %s,
				code TEXT NOT NULL DEFAULT '',
				name TEXT NOT NULL UNIQUE
			)`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS quiz_set_hashtags (
				id %s,
				set_id BIGINT NOT NULL REFERENCES quiz_sets(id),
				hashtag_id BIGINT NOT NULL REFERENCES hashtags(id),
				UNIQUE(set_id, hashtag_id)
			)`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS unit_hashtags (
				id %s,
				unit_id BIGINT NOT NULL REFERENCES learning_units(id),
				hashtag_id BIGINT NOT NULL REFERENCES hashtags(id),
				UNIQUE(unit_id, hashtag_id)
			)`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS feedback_records (
				id %s,
				learner_id BIGINT NOT NULL REFERENCES learners(id),
				feedback_date VARCHAR(10) NOT NULL,
				message TEXT NOT NULL,
				tags TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(learner_id, feedback_date)
			)`, serial),
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}
	return nil
}
