package rental_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/elan19/vteam/rental"
)

func TestScheduleQuote(t *testing.T) {
	s := rental.Schedule{UnlockFeeCents: 100, PerMinuteCents: 15}

	tests := []struct {
		name        string
		d           time.Duration
		wantMinutes int64
		wantTotal   int64
	}{
		{"zero duration bills unlock only", 0, 0, 100},
		{"exact quarter hour", 15 * time.Minute, 15, 100 + 15*15},
		{"started minute billed in full", 14*time.Minute + 30*time.Second, 15, 100 + 15*15},
		{"one second opens a minute", time.Second, 1, 115},
		{"full day", 24 * time.Hour, 1440, 100 + 15*1440},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := s.Quote(tt.d)
			require.NoError(t, err)
			require.Equal(t, tt.wantMinutes, q.Minutes)
			require.Equal(t, tt.wantTotal, q.TotalCents)
			require.Equal(t, int64(15), q.PerMinuteCents)
		})
	}
}

func TestScheduleQuoteNegativeDuration(t *testing.T) {
	s := rental.Schedule{PerMinuteCents: 15}
	_, err := s.Quote(-time.Minute)
	require.ErrorIs(t, err, rental.ErrInvalidInterval)
}

func TestScheduleQuoteMonotonic(t *testing.T) {
	s := rental.Schedule{UnlockFeeCents: 50, PerMinuteCents: 12}

	var prev int64 = -1
	for d := time.Duration(0); d <= 3*time.Hour; d += 47 * time.Second {
		q, err := s.Quote(d)
		require.NoError(t, err)
		require.GreaterOrEqual(t, q.TotalCents, int64(0))
		require.GreaterOrEqual(t, q.TotalCents, prev, "total must not decrease with duration %s", d)
		prev = q.TotalCents
	}
}
