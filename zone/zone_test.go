package zone_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/elan19/vteam/zone"
)

func TestTypeCodec(t *testing.T) {
	b, err := json.Marshal(zone.Charging)
	require.NoError(t, err)
	require.JSONEq(t, `"charging"`, string(b))

	var typ zone.Type
	require.NoError(t, typ.Scan("slow"))
	require.Equal(t, zone.Slow, typ)

	require.Error(t, typ.Scan("residential"))
}

func TestCoordinatesCodec(t *testing.T) {
	coords := zone.Coordinates{
		{Lat: 59.3, Lon: 18.0},
		{Lat: 59.4, Lon: 18.1},
		{Lat: 59.3, Lon: 18.2},
	}

	v, err := coords.Value()
	require.NoError(t, err)

	var got zone.Coordinates
	require.NoError(t, got.Scan(v))
	require.Equal(t, coords, got)

	require.Error(t, got.Scan(3.14))
}
