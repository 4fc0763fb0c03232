package rental_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/elan19/vteam/rental"
)

func TestParseTimestamp(t *testing.T) {
	t.Run("rfc3339", func(t *testing.T) {
		got, err := rental.ParseTimestamp("2024-01-15T09:30:00+01:00")
		require.NoError(t, err)
		require.Equal(t, 2024, got.Year())
		require.Equal(t, 8, got.UTC().Hour())
	})

	t.Run("legacy local-time form", func(t *testing.T) {
		got, err := rental.ParseTimestamp("2024-01-15 09:30:00")
		require.NoError(t, err)
		want := time.Date(2024, 1, 15, 9, 30, 0, 0, time.Local)
		require.True(t, got.Equal(want))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := rental.ParseTimestamp("not a timestamp")
		require.Error(t, err)
	})
}
