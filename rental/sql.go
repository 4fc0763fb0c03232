package rental

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jmoiron/sqlx"

	"github.com/elan19/vteam/scooter"
	"github.com/elan19/vteam/user"
)

// Repository is the sqlx-backed Store. Every lifecycle mutation runs in a
// transaction that locks the rows it transitions, so a scooter can never be
// double-booked regardless of caller interleaving.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

func (r *Repository) StartSession(ctx context.Context, userID, scooterID uuid.UUID, startTime time.Time) (Session, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return Session{}, err
	}
	defer tx.Rollback()

	var uid uuid.UUID
	err = tx.GetContext(ctx, &uid, verifyUserQuery, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, user.ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("start session for user %s: %w", userID, err)
	}

	var status scooter.Status
	err = tx.GetContext(ctx, &status, lockScooterStatusQuery, scooterID)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, scooter.ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("start session for scooter %s: %w", scooterID, err)
	}
	if status != scooter.Available {
		return Session{}, scooter.ErrNotAvailable
	}

	var s Session
	err = tx.GetContext(ctx, &s, insertSessionQuery, uuid.New(), userID, scooterID, startTime)
	if err != nil {
		return Session{}, fmt.Errorf("start session for scooter %s: %w", scooterID, err)
	}

	_, err = tx.ExecContext(ctx, markScooterInUseQuery, scooterID)
	if err != nil {
		return Session{}, fmt.Errorf("start session for scooter %s: %w", scooterID, err)
	}

	return s, tx.Commit()
}

const verifyUserQuery = `SELECT id FROM users WHERE id = $1`

const lockScooterStatusQuery = `SELECT status FROM scooters WHERE id = $1 FOR UPDATE`

const insertSessionQuery = `
INSERT INTO rental_sessions (id, user_id, scooter_id, start_time, returned)
VALUES ($1, $2, $3, $4, false)
RETURNING *
`

const markScooterInUseQuery = `UPDATE scooters SET status = 'in-use' WHERE id = $1`

func (r *Repository) GetSession(ctx context.Context, id uuid.UUID) (Session, error) {
	var s Session
	err := r.db.GetContext(ctx, &s, getSessionQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	return s, err
}

const getSessionQuery = `SELECT * FROM rental_sessions WHERE id = $1`

func (r *Repository) GetSessions(ctx context.Context) ([]Session, error) {
	var sessions []Session
	err := r.db.SelectContext(ctx, &sessions, getSessionsQuery)
	return sessions, err
}

const getSessionsQuery = `SELECT * FROM rental_sessions ORDER BY id`

// GetSessionsByUser fetches a user's rental history, oldest first.
func (r *Repository) GetSessionsByUser(ctx context.Context, userID uuid.UUID) ([]Session, error) {
	var sessions []Session
	err := r.db.SelectContext(ctx, &sessions, getSessionsByUserQuery, userID)
	return sessions, err
}

const getSessionsByUserQuery = `SELECT * FROM rental_sessions WHERE user_id = $1 ORDER BY start_time ASC`

// lockSession fetches a session FOR UPDATE and classifies its state
// against the transition the caller is about to apply.
func lockSession(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (Session, error) {
	var s Session
	err := tx.GetContext(ctx, &s, lockSessionQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("lock session %s: %w", id, err)
	}
	return s, nil
}

const lockSessionQuery = `SELECT * FROM rental_sessions WHERE id = $1 FOR UPDATE`

func (r *Repository) RecordStop(ctx context.Context, id uuid.UUID, stopTime time.Time, pricePerMinute, totalPrice int64) (Session, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return Session{}, err
	}
	defer tx.Rollback()

	s, err := lockSession(ctx, tx, id)
	if err != nil {
		return Session{}, err
	}
	switch s.State() {
	case StateCancelled:
		return Session{}, ErrCancelled
	case StateCompleted:
		return Session{}, ErrAlreadyReturned
	case StateStopped:
		return Session{}, ErrAlreadyStopped
	}

	err = tx.GetContext(ctx, &s, recordStopQuery, id, stopTime, pricePerMinute, totalPrice)
	if err != nil {
		return Session{}, fmt.Errorf("stop session %s: %w", id, err)
	}

	return s, tx.Commit()
}

const recordStopQuery = `
UPDATE rental_sessions
SET stop_time = $2, price_per_minute = $3, total_price = $4
WHERE id = $1 AND stop_time IS NULL AND NOT returned AND cancelled_at IS NULL
RETURNING *
`

func (r *Repository) RecordReturn(ctx context.Context, id uuid.UUID, returnTime time.Time, loc scooter.Point) (Session, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return Session{}, err
	}
	defer tx.Rollback()

	s, err := lockSession(ctx, tx, id)
	if err != nil {
		return Session{}, err
	}
	switch s.State() {
	case StateCancelled:
		return Session{}, ErrCancelled
	case StateCompleted:
		return Session{}, ErrAlreadyReturned
	case StateActive:
		return Session{}, ErrNotStopped
	}

	err = tx.GetContext(ctx, &s, recordReturnQuery, id, returnTime)
	if err != nil {
		return Session{}, fmt.Errorf("return session %s: %w", id, err)
	}

	point := pgtype.Point{P: pgtype.Vec2{X: loc.Lat, Y: loc.Lon}, Valid: true}
	_, err = tx.ExecContext(ctx, releaseScooterQuery, s.ScooterID, point)
	if err != nil {
		return Session{}, fmt.Errorf("return session %s: %w", id, err)
	}

	return s, tx.Commit()
}

const recordReturnQuery = `
UPDATE rental_sessions
SET return_time = $2, returned = true
WHERE id = $1 AND stop_time IS NOT NULL AND NOT returned AND cancelled_at IS NULL
RETURNING *
`

const releaseScooterQuery = `UPDATE scooters SET status = 'available', location = $2 WHERE id = $1`

func (r *Repository) RecordCancel(ctx context.Context, id uuid.UUID, at time.Time) (Session, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return Session{}, err
	}
	defer tx.Rollback()

	s, err := lockSession(ctx, tx, id)
	if err != nil {
		return Session{}, err
	}
	switch s.State() {
	case StateCancelled:
		return Session{}, ErrCancelled
	case StateCompleted:
		return Session{}, ErrAlreadyReturned
	case StateStopped:
		return Session{}, ErrAlreadyStopped
	}

	err = tx.GetContext(ctx, &s, recordCancelQuery, id, at)
	if err != nil {
		return Session{}, fmt.Errorf("cancel session %s: %w", id, err)
	}

	_, err = tx.ExecContext(ctx, freeScooterQuery, s.ScooterID)
	if err != nil {
		return Session{}, fmt.Errorf("cancel session %s: %w", id, err)
	}

	return s, tx.Commit()
}

const recordCancelQuery = `
UPDATE rental_sessions
SET cancelled_at = $2
WHERE id = $1 AND stop_time IS NULL AND NOT returned AND cancelled_at IS NULL
RETURNING *
`

const freeScooterQuery = `UPDATE scooters SET status = 'available' WHERE id = $1`

// UpdateParams carries a partial update. Nil fields keep their stored
// value. Price fields are deliberately absent: prices are derived by the
// lifecycle, never written by callers.
type UpdateParams struct {
	UserID     *uuid.UUID
	ScooterID  *uuid.UUID
	StartTime  *time.Time
	StopTime   *time.Time
	ReturnTime *time.Time
	Returned   *bool
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Session, error) {
	var s Session
	err := r.db.GetContext(ctx, &s, updateSessionQuery, id,
		params.UserID, params.ScooterID, params.StartTime, params.StopTime, params.ReturnTime, params.Returned)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("update session %s: %w", id, err)
	}
	return s, nil
}

const updateSessionQuery = `
UPDATE rental_sessions SET
  user_id     = COALESCE($2, user_id),
  scooter_id  = COALESCE($3, scooter_id),
  start_time  = COALESCE($4, start_time),
  stop_time   = COALESCE($5, stop_time),
  return_time = COALESCE($6, return_time),
  returned    = COALESCE($7, returned)
WHERE id = $1
RETURNING *
`

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, deleteSessionQuery, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const deleteSessionQuery = `DELETE FROM rental_sessions WHERE id = $1`
