package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var london = Coordinate{Latitude: 51.505, Longitude: -0.09}

func TestParseCoordinate(t *testing.T) {
	t.Parallel()

	c, err := ParseCoordinate("51.505, -0.09")
	require.NoError(t, err)
	require.Equal(t, london, c)

	c, err = ParseCoordinate("  -33.8688 151.2093 ")
	require.NoError(t, err)
	require.Equal(t, Coordinate{Latitude: -33.8688, Longitude: 151.2093}, c)

	_, err = ParseCoordinate("51.505")
	require.ErrorIs(t, err, ErrNoCoordinate)

	_, err = ParseCoordinate("north, south")
	require.ErrorIs(t, err, ErrNoCoordinate)

	_, err = ParseCoordinate("91, 0")
	require.Error(t, err, "latitude beyond the pole")
}

func TestCoordinateString(t *testing.T) {
	t.Parallel()
	require.Equal(t, "51.5050, -0.0900", london.String())
}

type failingSensor struct{ calls int }

func (f *failingSensor) Sense(context.Context) (Coordinate, error) {
	f.calls++
	return Coordinate{}, errors.New("permission denied")
}

func TestFallbackSourceSubstitutesOnFailure(t *testing.T) {
	t.Parallel()

	sensor := &failingSensor{}
	src := FallbackSource{Sensor: sensor, Fallback: london}
	res := src.Resolve(context.Background())
	require.True(t, res.Fallback)
	require.Equal(t, london, res.Coordinate)
	require.Equal(t, 1, sensor.calls, "single shot, no retries")

	res = FallbackSource{Sensor: NoSensor{}, Fallback: london}.Resolve(context.Background())
	require.True(t, res.Fallback)
	require.Equal(t, london, res.Coordinate)

	res = FallbackSource{Fallback: london}.Resolve(context.Background())
	require.True(t, res.Fallback)
}

func TestFallbackSourceUsesSensedPoint(t *testing.T) {
	t.Parallel()

	sydney := Coordinate{Latitude: -33.8688, Longitude: 151.2093}
	res := FallbackSource{Sensor: StaticSensor{Point: sydney}, Fallback: london}.Resolve(context.Background())
	require.False(t, res.Fallback)
	require.Equal(t, sydney, res.Coordinate)

	// out-of-range readings are treated as failures
	res = FallbackSource{Sensor: StaticSensor{Point: Coordinate{Latitude: 200}}, Fallback: london}.Resolve(context.Background())
	require.True(t, res.Fallback)
}

func TestIPSensor(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ip":"203.0.113.9","latitude":48.8566,"longitude":2.3522}`))
	}))
	t.Cleanup(srv.Close)

	s := NewIPSensor(srv.Client(), srv.URL, time.Second)
	c, err := s.Sense(context.Background())
	require.NoError(t, err)
	require.Equal(t, Coordinate{Latitude: 48.8566, Longitude: 2.3522}, c)
}

func TestIPSensorFailuresTripBreaker(t *testing.T) {
	t.Parallel()

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	s := NewIPSensor(srv.Client(), srv.URL, time.Second)
	for i := 0; i < 3; i++ {
		_, err := s.Sense(context.Background())
		require.ErrorIs(t, err, errUnexpectedStatus)
	}
	_, err := s.Sense(context.Background())
	require.ErrorIs(t, err, ErrSensingUnavailable)
	require.Equal(t, 3, hits, "open breaker short-circuits the request")

	res := FallbackSource{Sensor: s, Fallback: london}.Resolve(context.Background())
	require.True(t, res.Fallback)
	require.Equal(t, london, res.Coordinate)
}

func TestIPSensorMissingFields(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":true,"reason":"RateLimited"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewIPSensor(srv.Client(), srv.URL, time.Second).Sense(context.Background())
	require.ErrorIs(t, err, ErrNoCoordinate)
}

func TestGoogleLookupDisabledWithoutKey(t *testing.T) {
	t.Parallel()

	g := NewGoogleLookup("  ")
	require.False(t, g.Enabled())
	_, err := g.Lookup(context.Background(), "10 Downing Street, London")
	require.ErrorIs(t, err, ErrGeocoderDisabled)
}
