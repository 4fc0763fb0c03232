package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrOpenSession is returned when a delete would orphan an open rental session.
	ErrOpenSession = errors.New("user has an open rental session")
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, username, email, passwordHash string) (User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, createUserQuery, uuid.New(), username, email, passwordHash)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

const createUserQuery = `
INSERT INTO users (id, username, email, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING *
`

func (r *Repository) GetUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.SelectContext(ctx, &users, getUsersQuery)
	return users, err
}

const getUsersQuery = `SELECT * FROM users ORDER BY id`

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, getUserQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

const getUserQuery = `SELECT * FROM users WHERE id = $1`

// UpdateParams carries a partial update. Nil fields keep their stored value.
type UpdateParams struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

// Update applies only the fields set in params, coalescing the rest
// server-side with bound parameters.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, updateUserQuery, id, params.Username, params.Email, params.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("update user %s: %w", id, err)
	}
	return u, nil
}

const updateUserQuery = `
UPDATE users SET
  username      = COALESCE($2, username),
  email         = COALESCE($3, email),
  password_hash = COALESCE($4, password_hash)
WHERE id = $1
RETURNING *
`

// Delete removes a user unless an open rental session still references them.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var openIDs []uuid.UUID
	err = tx.SelectContext(ctx, &openIDs, openSessionsQuery, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if len(openIDs) > 0 {
		return ErrOpenSession
	}

	res, err := tx.ExecContext(ctx, deleteUserQuery, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

const openSessionsQuery = `
SELECT id FROM rental_sessions
WHERE user_id = $1 AND NOT returned AND cancelled_at IS NULL
FOR UPDATE
`

const deleteUserQuery = `DELETE FROM users WHERE id = $1`
