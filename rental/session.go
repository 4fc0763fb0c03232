// Package rental implements the rental session lifecycle: one session ties
// a user to a scooter over an interval, derives its price from the elapsed
// duration, and releases the scooter when the session completes.
package rental

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type State string

const (
	// StateActive: session started, scooter is out.
	StateActive State = "active"
	// StateStopped: riding has ended, price is fixed, scooter not yet returned.
	StateStopped State = "stopped"
	// StateCompleted: scooter returned, session closed.
	StateCompleted State = "completed"
	// StateCancelled: session aborted before stop, no charge.
	StateCancelled State = "cancelled"
)

type Session struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	ScooterID uuid.UUID `db:"scooter_id"`

	StartTime   time.Time    `db:"start_time"`
	StopTime    sql.NullTime `db:"stop_time"`
	ReturnTime  sql.NullTime `db:"return_time"`
	CancelledAt sql.NullTime `db:"cancelled_at"`

	// PricePerMinute and TotalPrice are in the smallest currency unit.
	// Both are set when the stop is recorded, never supplied by callers.
	PricePerMinute sql.NullInt64 `db:"price_per_minute"`
	TotalPrice     sql.NullInt64 `db:"total_price"`

	Returned  bool      `db:"returned"`
	CreatedAt time.Time `db:"created_at"`
}

// State derives the session state from the session's recorded data.
func (s Session) State() State {
	if s.CancelledAt.Valid {
		return StateCancelled
	}
	if s.Returned {
		return StateCompleted
	}
	if s.StopTime.Valid {
		return StateStopped
	}
	return StateActive
}

// Open reports whether the session still holds its scooter.
func (s Session) Open() bool {
	st := s.State()
	return st == StateActive || st == StateStopped
}
