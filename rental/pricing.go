package rental

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidInterval is returned when a stop or return time precedes the
// timestamp it must follow.
var ErrInvalidInterval = errors.New("interval end precedes its start")

// Schedule is the configured rate card. Amounts are in the smallest
// currency unit; the values come from configuration, never from callers.
type Schedule struct {
	UnlockFeeCents int64
	PerMinuteCents int64
}

// Quote is the price derived for one session.
type Quote struct {
	Minutes        int64
	PerMinuteCents int64
	TotalCents     int64
}

// Quote prices a ride of the given duration. Started minutes are billed in
// full, so a 14m30s ride bills 15 minutes.
func (s Schedule) Quote(d time.Duration) (Quote, error) {
	if d < 0 {
		return Quote{}, ErrInvalidInterval
	}

	minutes := int64(math.Ceil(d.Seconds() / 60))
	return Quote{
		Minutes:        minutes,
		PerMinuteCents: s.PerMinuteCents,
		TotalCents:     s.UnlockFeeCents + s.PerMinuteCents*minutes,
	}, nil
}
