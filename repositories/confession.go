//go:generate go run go.uber.org/mock/mockgen -source=confession.go -destination=../mocks/mock_confession_repository.go -package=mocks
package repositories

import (
	"chat-relay/domain"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type IConfessionRepository interface {
	Store(confession domain.Confession) (domain.Confession, error)
	Latest(limit int) ([]domain.Confession, error)
}

// ConfessionRepository persists anonymous posts in SQLite.
// It shares nothing with the message store or the offline queue.
type ConfessionRepository struct {
	db *sql.DB
}

func NewConfessionRepository(dbPath string) (*ConfessionRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers, SQLite would otherwise answer SQLITE_BUSY
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS confessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			language TEXT NOT NULL DEFAULT '',
			posted_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_confessions_posted_at ON confessions(posted_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &ConfessionRepository{db: db}, nil
}

func (r *ConfessionRepository) Close() error {
	return r.db.Close()
}

// Store inserts the confession and returns it with its assigned ID.
func (r *ConfessionRepository) Store(confession domain.Confession) (domain.Confession, error) {
	res, err := r.db.Exec(`
		INSERT INTO confessions (text, language, posted_at)
		VALUES (?, ?, ?)
	`, confession.Text, confession.Language, confession.PostedAt.UnixNano())
	if err != nil {
		return domain.Confession{}, fmt.Errorf("failed to store confession: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Confession{}, fmt.Errorf("failed to read confession id: %w", err)
	}
	confession.ID = id
	return confession, nil
}

// Latest returns at most limit confessions, newest first.
func (r *ConfessionRepository) Latest(limit int) ([]domain.Confession, error) {
	rows, err := r.db.Query(`
		SELECT id, text, language, posted_at
		FROM confessions
		ORDER BY posted_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query confessions: %w", err)
	}
	defer rows.Close()

	confessions := make([]domain.Confession, 0)
	for rows.Next() {
		var c domain.Confession
		var postedAt int64
		if err = rows.Scan(&c.ID, &c.Text, &c.Language, &postedAt); err != nil {
			return nil, fmt.Errorf("failed to scan confession: %w", err)
		}
		c.PostedAt = time.Unix(0, postedAt).UTC()
		confessions = append(confessions, c)
	}
	return confessions, rows.Err()
}
