package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"auth-backend/internal/biz"

	_ "modernc.org/sqlite"
)

// sqliteUserRepo is the sqlite-backed user directory.
type sqliteUserRepo struct {
	db *sql.DB
}

// NewSQLiteUserRepo opens (or creates) the user database at dbPath.
func NewSQLiteUserRepo(dbPath string) (biz.UserRepo, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			subject_id TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}

	return &sqliteUserRepo{db: db}, nil
}

// FindBySubject returns the user for a provider subject id, or nil when no
// record exists.
func (r *sqliteUserRepo) FindBySubject(ctx context.Context, subjectID string) (*biz.User, error) {
	var u biz.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, subject_id, email, name, avatar_url
		FROM users WHERE subject_id = ?
	`, subjectID).Scan(&u.ID, &u.SubjectID, &u.Email, &u.Name, &u.AvatarURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find by subject: %v", biz.ErrDirectoryUnavailable, err)
	}
	return &u, nil
}

// Upsert creates the user on first login for a subject id and overwrites the
// mutable profile fields on every later one. The subject id itself is never
// rewritten and rows are never deleted.
func (r *sqliteUserRepo) Upsert(ctx context.Context, subjectID, email, name, avatarURL string) (*biz.User, error) {
	var u biz.User
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (subject_id, email, name, avatar_url)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(subject_id) DO UPDATE SET
			email      = excluded.email,
			name       = excluded.name,
			avatar_url = excluded.avatar_url,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, subject_id, email, name, avatar_url
	`, subjectID, email, name, avatarURL).Scan(&u.ID, &u.SubjectID, &u.Email, &u.Name, &u.AvatarURL)
	if err != nil {
		return nil, fmt.Errorf("%w: upsert: %v", biz.ErrDirectoryUnavailable, err)
	}
	return &u, nil
}

func (r *sqliteUserRepo) Close() error {
	return r.db.Close()
}
