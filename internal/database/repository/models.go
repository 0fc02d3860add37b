package repository

import (
	"time"

	"github.com/jask/ecoscope/internal/geo"
)

// Place represents a gazetteer row.
type Place struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Region    string    `json:"region,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

func (p Place) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
}

// Label is the display form used by pickers and CLI listings.
func (p Place) Label() string {
	if p.Region == "" {
		return p.Name
	}
	return p.Name + ", " + p.Region
}
