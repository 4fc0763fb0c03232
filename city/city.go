// Package city holds the cities scooters and zones are scoped to.
package city

import (
	"time"

	"github.com/google/uuid"
)

type City struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}
