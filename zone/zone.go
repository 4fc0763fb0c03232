// Package zone holds geographic areas associated with a city. Zones are
// city-scoping metadata only; no containment logic is applied to them.
package zone

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type Type int

const (
	Parking Type = iota
	Charging
	Slow
)

func (t Type) String() string {
	return [...]string{"parking", "charging", "slow"}[t]
}

func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Type) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return t.parse(v)
}

func (t *Type) Scan(i any) error {
	switch v := i.(type) {
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	}
	return fmt.Errorf("cannot scan %T into zone type", i)
}

func (t Type) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *Type) parse(v string) error {
	switch v {
	case "parking":
		*t = Parking
	case "charging":
		*t = Charging
	case "slow":
		*t = Slow
	default:
		return fmt.Errorf("unknown zone type %q", v)
	}
	return nil
}

// Coordinate is one vertex of a zone boundary.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Coordinates is a zone boundary, persisted as jsonb.
type Coordinates []Coordinate

func (c Coordinates) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *Coordinates) Scan(i any) error {
	switch v := i.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	}
	return fmt.Errorf("cannot scan %T into zone coordinates", i)
}

type Zone struct {
	ID          uuid.UUID   `db:"id"`
	Name        string      `db:"name"`
	Type        Type        `db:"type"`
	Coordinates Coordinates `db:"coordinates"`

	// CityID scopes the zone to a city. Lookup only, no ownership.
	CityID *uuid.UUID `db:"city_id"`

	CreatedAt time.Time `db:"created_at"`
}
