package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"
)

// ErrGeocoderDisabled is returned when no geocoding key is configured.
var ErrGeocoderDisabled = errors.New("address lookup disabled: no geocoder key")

// AddressLookup turns a free-form address into a coordinate.
type AddressLookup interface {
	Lookup(ctx context.Context, address string) (Coordinate, error)
}

// geocoder keeps its key in a package variable.
var geocoderMu sync.Mutex

// GoogleLookup resolves addresses through the Google Geocoding API.
type GoogleLookup struct {
	apiKey string
}

// NewGoogleLookup returns a lookup bound to apiKey.
func NewGoogleLookup(apiKey string) *GoogleLookup {
	return &GoogleLookup{apiKey: strings.TrimSpace(apiKey)}
}

// Enabled reports whether a key is present.
func (g *GoogleLookup) Enabled() bool { return g != nil && g.apiKey != "" }

func (g *GoogleLookup) Lookup(ctx context.Context, address string) (Coordinate, error) {
	if !g.Enabled() {
		return Coordinate{}, ErrGeocoderDisabled
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return Coordinate{}, fmt.Errorf("lookup: empty address: %w", ErrNoCoordinate)
	}

	type outcome struct {
		c   Coordinate
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		geocoderMu.Lock()
		defer geocoderMu.Unlock()
		geocoder.ApiKey = g.apiKey
		loc, err := geocoder.Geocoding(geocoder.Address{Street: address})
		if err != nil {
			done <- outcome{err: fmt.Errorf("geocode %q: %w", address, err)}
			return
		}
		done <- outcome{c: Coordinate{Latitude: loc.Latitude, Longitude: loc.Longitude}}
	}()

	select {
	case <-ctx.Done():
		return Coordinate{}, ctx.Err()
	case o := <-done:
		if o.err != nil {
			return Coordinate{}, o.err
		}
		if err := o.c.Validate(); err != nil {
			return Coordinate{}, err
		}
		return o.c, nil
	}
}
