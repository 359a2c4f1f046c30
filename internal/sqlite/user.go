package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/pmdash/internal/domain/session"
	"github.com/rpggio/pmdash/internal/repository"
)

// UserRepository implements repository.UserRepository for SQLite
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new account. Emails are unique.
func (r *UserRepository) Create(ctx context.Context, acct *session.Account) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, created_at, last_login)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		acct.ID,
		acct.Email,
		acct.Name,
		acct.PasswordHash,
		acct.CreatedAt,
		nullTime(acct.LastLogin),
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Get retrieves an account by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*session.Account, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

// GetByEmail retrieves an account by its normalized email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*session.Account, error) {
	return r.getOne(ctx, `WHERE email = ?`, email)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*session.Account, error) {
	query := `
		SELECT id, email, name, password_hash, created_at, last_login
		FROM users
	` + where

	var acct session.Account
	var lastLogin sql.NullTime
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&acct.ID,
		&acct.Email,
		&acct.Name,
		&acct.PasswordHash,
		&acct.CreatedAt,
		&lastLogin,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if lastLogin.Valid {
		acct.LastLogin = lastLogin.Time
	}

	return &acct, nil
}

// Update writes the email, name and password hash of an existing account
func (r *UserRepository) Update(ctx context.Context, acct *session.Account) error {
	query := `
		UPDATE users
		SET email = ?, name = ?, password_hash = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, acct.Email, acct.Name, acct.PasswordHash, acct.ID)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// TouchLastLogin stamps the account's last sign-in time
func (r *UserRepository) TouchLastLogin(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
