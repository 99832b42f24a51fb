package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Staff is a back-office account with access to the orders admin surface.
// There is no public registration path; accounts are seeded at startup or
// created by an existing operator.
type Staff struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	TokenVersion int
	CreatedAt    time.Time
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, s Staff) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO staff (id, username, email, password_hash)
		VALUES (?, ?, ?, ?)
	`, s.ID, s.Username, s.Email, s.PasswordHash)
	if err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*Staff, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, token_version, created_at
		FROM staff
		WHERE LOWER(email) = ?
	`, email)
	return scanStaff(row)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Staff, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, token_version, created_at
		FROM staff
		WHERE id = ?
	`, id)
	return scanStaff(row)
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count staff: %w", err)
	}
	return n, nil
}

func (r *Repo) GetTokenVersion(ctx context.Context, id string) (int, error) {
	var v int
	err := r.DB.QueryRowContext(ctx, `SELECT token_version FROM staff WHERE id = ?`, id).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("get token version: %w", err)
	}
	return v, nil
}

// BumpTokenVersion invalidates every outstanding token for the account.
func (r *Repo) BumpTokenVersion(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `
		UPDATE staff SET token_version = token_version + 1 WHERE id = ?
	`, id); err != nil {
		return fmt.Errorf("bump token version: %w", err)
	}
	return nil
}

func (r *Repo) UpdatePasswordAndBumpTokenVersion(ctx context.Context, id, hash string) error {
	if _, err := r.DB.ExecContext(ctx, `
		UPDATE staff SET password_hash = ?, token_version = token_version + 1 WHERE id = ?
	`, hash, id); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func scanStaff(row *sql.Row) (*Staff, error) {
	var s Staff
	if err := row.Scan(&s.ID, &s.Username, &s.Email, &s.PasswordHash, &s.TokenVersion, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan staff: %w", err)
	}
	return &s, nil
}
