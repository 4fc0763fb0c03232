package city

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("city not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, name string) (City, error) {
	var c City
	err := r.db.GetContext(ctx, &c, createCityQuery, uuid.New(), name)
	if err != nil {
		return City{}, fmt.Errorf("create city: %w", err)
	}
	return c, nil
}

const createCityQuery = `INSERT INTO cities (id, name) VALUES ($1, $2) RETURNING *`

func (r *Repository) GetCities(ctx context.Context) ([]City, error) {
	var cities []City
	err := r.db.SelectContext(ctx, &cities, getCitiesQuery)
	return cities, err
}

const getCitiesQuery = `SELECT * FROM cities ORDER BY id`

func (r *Repository) GetCity(ctx context.Context, id uuid.UUID) (City, error) {
	var c City
	err := r.db.GetContext(ctx, &c, getCityQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return City{}, ErrNotFound
	}
	return c, err
}

const getCityQuery = `SELECT * FROM cities WHERE id = $1`

// GetCityByName resolves a city by its unique name. The map frontend
// looks cities up this way before placing a scooter.
func (r *Repository) GetCityByName(ctx context.Context, name string) (City, error) {
	var c City
	err := r.db.GetContext(ctx, &c, getCityByNameQuery, name)
	if errors.Is(err, sql.ErrNoRows) {
		return City{}, ErrNotFound
	}
	return c, err
}

const getCityByNameQuery = `SELECT * FROM cities WHERE name = $1`

type UpdateParams struct {
	Name *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (City, error) {
	var c City
	err := r.db.GetContext(ctx, &c, updateCityQuery, id, params.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return City{}, ErrNotFound
	}
	if err != nil {
		return City{}, fmt.Errorf("update city %s: %w", id, err)
	}
	return c, nil
}

const updateCityQuery = `
UPDATE cities
SET name = COALESCE($2, name)
WHERE id = $1
RETURNING *`

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, deleteCityQuery, id)
	if err != nil {
		return fmt.Errorf("delete city %s: %w", id, err)
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

const deleteCityQuery = `DELETE FROM cities WHERE id = $1`
