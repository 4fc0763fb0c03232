package scooter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound     = errors.New("scooter not found")
	ErrNotAvailable = errors.New("scooter not available")
	// ErrOpenSession is returned when a delete would orphan an open rental session.
	ErrOpenSession = errors.New("scooter has an open rental session")
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, loc Point, battery int, status Status, cityID *uuid.UUID) (Scooter, error) {
	var s Scooter
	err := r.db.GetContext(ctx, &s, createScooterQuery,
		uuid.New(), pgtype.Point{P: pgtype.Vec2{X: loc.Lat, Y: loc.Lon}, Valid: true}, battery, status, cityID)
	if err != nil {
		return Scooter{}, fmt.Errorf("create scooter: %w", err)
	}
	return s, nil
}

const createScooterQuery = `
INSERT INTO scooters (id, location, battery, status, city_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING *
`

func (r *Repository) GetScooters(ctx context.Context) ([]Scooter, error) {
	var scooters []Scooter
	err := r.db.SelectContext(ctx, &scooters, getScootersQuery)
	return scooters, err
}

const getScootersQuery = `SELECT * FROM scooters ORDER BY id`

// GetScootersByCity fetches all scooters scoped to one city.
func (r *Repository) GetScootersByCity(ctx context.Context, cityID uuid.UUID) ([]Scooter, error) {
	var scooters []Scooter
	err := r.db.SelectContext(ctx, &scooters, getScootersByCityQuery, cityID)
	return scooters, err
}

const getScootersByCityQuery = `SELECT * FROM scooters WHERE city_id = $1 ORDER BY id`

func (r *Repository) GetScooter(ctx context.Context, id uuid.UUID) (Scooter, error) {
	var s Scooter
	err := r.db.GetContext(ctx, &s, getScooterQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Scooter{}, ErrNotFound
	}
	return s, err
}

const getScooterQuery = `SELECT * FROM scooters WHERE id = $1`

// UpdateParams carries a partial update. Nil fields keep their stored value.
type UpdateParams struct {
	Location *Point
	Battery  *int
	Status   *Status
	CityID   *uuid.UUID
}

// Update applies only the fields set in params, coalescing the rest
// server-side with bound parameters.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Scooter, error) {
	var loc *pgtype.Point
	if params.Location != nil {
		loc = &pgtype.Point{P: pgtype.Vec2{X: params.Location.Lat, Y: params.Location.Lon}, Valid: true}
	}

	var s Scooter
	err := r.db.GetContext(ctx, &s, updateScooterQuery, id, loc, params.Battery, params.Status, params.CityID)
	if errors.Is(err, sql.ErrNoRows) {
		return Scooter{}, ErrNotFound
	}
	if err != nil {
		return Scooter{}, fmt.Errorf("update scooter %s: %w", id, err)
	}
	return s, nil
}

const updateScooterQuery = `
UPDATE scooters SET
  location = COALESCE($2, location),
  battery  = COALESCE($3, battery),
  status   = COALESCE($4, status),
  city_id  = COALESCE($5, city_id)
WHERE id = $1
RETURNING *
`

// Delete removes a scooter unless an open rental session still references it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var openIDs []uuid.UUID
	err = tx.SelectContext(ctx, &openIDs, openSessionsQuery, id)
	if err != nil {
		return fmt.Errorf("delete scooter %s: %w", id, err)
	}
	if len(openIDs) > 0 {
		return ErrOpenSession
	}

	res, err := tx.ExecContext(ctx, deleteScooterQuery, id)
	if err != nil {
		return fmt.Errorf("delete scooter %s: %w", id, err)
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
WHERE scooter_id = $1 AND NOT returned AND cancelled_at IS NULL
FOR UPDATE
`

const deleteScooterQuery = `DELETE FROM scooters WHERE id = $1`
