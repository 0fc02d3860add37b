package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrNoCoordinate is returned when text does not hold a latitude/longitude pair.
var ErrNoCoordinate = errors.New("no coordinate")

var validate = validator.New()

// Coordinate is a resolved geographic point. Both fields are always set together.
type Coordinate struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Validate checks that the coordinate lies on the globe.
func (c Coordinate) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("coordinate %s: %w", c, err)
	}
	return nil
}

// String renders the coordinate the way every screen displays it.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
}

// Ptr returns a pointer to a copy of c.
func (c Coordinate) Ptr() *Coordinate { return &c }

// ParseCoordinate reads "lat,lon" or "lat lon".
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	if len(parts) != 2 {
		return Coordinate{}, fmt.Errorf("parse %q: %w", s, ErrNoCoordinate)
	}
	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parse latitude %q: %w", parts[0], ErrNoCoordinate)
	}
	lon, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parse longitude %q: %w", parts[1], ErrNoCoordinate)
	}
	c := Coordinate{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}
