package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fitfolio/internal/auth"

	"github.com/jmoiron/sqlx"
)

// ErrUserNotFound satisfies errors.Is(err, auth.ErrNoIdentity).
var ErrUserNotFound = fmt.Errorf("user not found: %w", auth.ErrNoIdentity)

const userColumns = `id, email, name, photo_url, role, created_at, last_login_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, name, email, photoURL string) (*User, bool, error) {
	query := `
		INSERT INTO users (email, name, photo_url, role)
		VALUES ($1, $2, $3, 'member')
		ON CONFLICT (email) DO UPDATE SET last_login_at = NOW()
		RETURNING ` + userColumns + `, (xmax = 0) AS inserted
	`

	var row struct {
		User
		Inserted bool `db:"inserted"`
	}
	if err := r.db.GetContext(ctx, &row, query, email, name, photoURL); err != nil {
		return nil, false, err
	}

	return &row.User, row.Inserted, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) ListByRole(ctx context.Context, role string) ([]User, error) {
	users := []User{}
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY id`, role)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) SetRole(ctx context.Context, email, role string) error {
	return SetRole(ctx, r.db, email, role)
}

// SetRole updates a user's role through ex, which may be a transaction.
func SetRole(ctx context.Context, ex sqlx.ExecerContext, email, role string) error {
	result, err := ex.ExecContext(ctx, `UPDATE users SET role = $1 WHERE email = $2`, role, email)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
