package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

var errUnexpectedStatus = errors.New("unexpected status code")

// IPSensor approximates the device position from its public IP address.
// It expects a JSON body carrying "latitude" and "longitude".
type IPSensor struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	circuit  *gobreaker.CircuitBreaker
}

// NewIPSensor builds a sensor for endpoint. A nil client uses http.DefaultClient.
func NewIPSensor(client *http.Client, endpoint string, timeout time.Duration) *IPSensor {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ip-geolocation",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &IPSensor{endpoint: endpoint, client: client, timeout: timeout, circuit: cb}
}

func (s *IPSensor) Sense(ctx context.Context) (Coordinate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
		}

		var payload struct {
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode ip location: %w", err)
		}
		if payload.Latitude == nil || payload.Longitude == nil {
			return nil, fmt.Errorf("ip location response: %w", ErrNoCoordinate)
		}
		return Coordinate{Latitude: *payload.Latitude, Longitude: *payload.Longitude}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Coordinate{}, fmt.Errorf("%w: %v", ErrSensingUnavailable, err)
		}
		return Coordinate{}, fmt.Errorf("sense %s: %w", s.endpoint, err)
	}
	c, ok := result.(Coordinate)
	if !ok {
		return Coordinate{}, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return c, nil
}
