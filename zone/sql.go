package zone

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("zone not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, name string, typ Type, coords Coordinates, cityID *uuid.UUID) (Zone, error) {
	var z Zone
	err := r.db.GetContext(ctx, &z, createZoneQuery, uuid.New(), name, typ, coords, cityID)
	if err != nil {
		return Zone{}, fmt.Errorf("create zone: %w", err)
	}
	return z, nil
}

const createZoneQuery = `
INSERT INTO zones (id, name, type, coordinates, city_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING *
`

func (r *Repository) GetZones(ctx context.Context) ([]Zone, error) {
	var zones []Zone
	err := r.db.SelectContext(ctx, &zones, getZonesQuery)
	return zones, err
}

const getZonesQuery = `SELECT * FROM zones ORDER BY id`

// GetZonesByCity fetches all zones scoped to one city.
func (r *Repository) GetZonesByCity(ctx context.Context, cityID uuid.UUID) ([]Zone, error) {
	var zones []Zone
	err := r.db.SelectContext(ctx, &zones, getZonesByCityQuery, cityID)
	return zones, err
}

const getZonesByCityQuery = `SELECT * FROM zones WHERE city_id = $1 ORDER BY id`

func (r *Repository) GetZone(ctx context.Context, id uuid.UUID) (Zone, error) {
	var z Zone
	err := r.db.GetContext(ctx, &z, getZoneQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Zone{}, ErrNotFound
	}
	return z, err
}

const getZoneQuery = `SELECT * FROM zones WHERE id = $1`

// UpdateParams carries a partial update. Nil fields keep their stored value.
type UpdateParams struct {
	Name        *string
	Type        *Type
	Coordinates Coordinates
	CityID      *uuid.UUID
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Zone, error) {
	var coords any
	if params.Coordinates != nil {
		coords = params.Coordinates
	}

	var z Zone
	err := r.db.GetContext(ctx, &z, updateZoneQuery, id, params.Name, params.Type, coords, params.CityID)
	if errors.Is(err, sql.ErrNoRows) {
		return Zone{}, ErrNotFound
	}
	if err != nil {
		return Zone{}, fmt.Errorf("update zone %s: %w", id, err)
	}
	return z, nil
}

const updateZoneQuery = `
UPDATE zones SET
  name        = COALESCE($2, name),
  type        = COALESCE($3, type),
  coordinates = COALESCE($4, coordinates),
  city_id     = COALESCE($5, city_id)
WHERE id = $1
RETURNING *
`

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, deleteZoneQuery, id)
	if err != nil {
		return fmt.Errorf("delete zone %s: %w", id, err)
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

const deleteZoneQuery = `DELETE FROM zones WHERE id = $1`
