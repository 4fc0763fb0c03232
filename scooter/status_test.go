package scooter_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/elan19/vteam/scooter"
)

func TestStatusRoundTrip(t *testing.T) {
	for _, status := range []scooter.Status{scooter.Available, scooter.InUse, scooter.Unavailable} {
		b, err := json.Marshal(status)
		require.NoError(t, err)

		var got scooter.Status
		require.NoError(t, json.Unmarshal(b, &got))
		require.Equal(t, status, got)

		v, err := status.Value()
		require.NoError(t, err)
		var scanned scooter.Status
		require.NoError(t, scanned.Scan(v))
		require.Equal(t, status, scanned)
	}
}

func TestStatusRejectsUnknown(t *testing.T) {
	var s scooter.Status
	require.Error(t, s.Scan("broken"))
	require.Error(t, json.Unmarshal([]byte(`"parked"`), &s))
	require.Error(t, s.Scan(42))
}
