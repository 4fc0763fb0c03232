// Package scooter
package scooter

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Status is the availability state machine value for a scooter. It gates
// whether a new rental session can start.
type Status int

const (
	Available Status = iota
	InUse
	Unavailable
)

func (s Status) String() string {
	return [...]string{"available", "in-use", "unavailable"}[s]
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return s.parse(v)
}

func (s *Status) Scan(i any) error {
	switch v := i.(type) {
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	}
	return fmt.Errorf("cannot scan %T into scooter status", i)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

func (s *Status) parse(v string) error {
	switch v {
	case "available":
		*s = Available
	case "in-use":
		*s = InUse
	case "unavailable":
		*s = Unavailable
	default:
		return fmt.Errorf("unknown scooter status %q", v)
	}
	return nil
}

type Scooter struct {
	// ID is an internal identifier for a scooter.
	ID uuid.UUID `db:"id"`

	// Location is stored as a Postgres point, X = latitude, Y = longitude.
	Location pgtype.Point `db:"location"`

	// Battery is a charge percentage, 0-100.
	Battery int `db:"battery"`

	Status Status `db:"status"`

	// CityID scopes the scooter to a city. Lookup only, no ownership.
	CityID *uuid.UUID `db:"city_id"`

	CreatedAt time.Time `db:"created_at"`
}

// Point is a plain lat/lon pair used at the package boundary where
// pgtype.Point would leak driver details.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
