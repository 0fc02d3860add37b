package database

import (
	"context"
	"database/sql"

	"github.com/jask/ecoscope/internal/database/repository"
)

// DefaultPlaces seed the gazetteer. London sits on the default fallback coordinate.
var DefaultPlaces = []repository.Place{
	{Name: "London", Region: "United Kingdom", Latitude: 51.505, Longitude: -0.09},
	{Name: "Paris", Region: "France", Latitude: 48.8566, Longitude: 2.3522},
	{Name: "Berlin", Region: "Germany", Latitude: 52.52, Longitude: 13.405},
	{Name: "Nairobi", Region: "Kenya", Latitude: -1.2921, Longitude: 36.8219},
	{Name: "Manaus", Region: "Brazil", Latitude: -3.119, Longitude: -60.0217},
	{Name: "Jakarta", Region: "Indonesia", Latitude: -6.2088, Longitude: 106.8456},
	{Name: "New Delhi", Region: "India", Latitude: 28.6139, Longitude: 77.209},
	{Name: "Sydney", Region: "Australia", Latitude: -33.8688, Longitude: 151.2093},
	{Name: "Reykjavik", Region: "Iceland", Latitude: 64.1466, Longitude: -21.9426},
	{Name: "Vancouver", Region: "Canada", Latitude: 49.2827, Longitude: -123.1207},
	{Name: "Cape Town", Region: "South Africa", Latitude: -33.9249, Longitude: 18.4241},
	{Name: "Lima", Region: "Peru", Latitude: -12.0464, Longitude: -77.0428},
}

// SeedDefaults ensures baseline places exist for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	repo := repository.NewPlaceRepo(db)
	existing, err := repo.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	return WithTx(db, func(tx *sql.Tx) error {
		for _, p := range DefaultPlaces {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO places(id, name, region, latitude, longitude) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING;
			`, repository.PlaceID(p.Name), p.Name, p.Region, p.Latitude, p.Longitude); err != nil {
				return err
			}
		}
		return nil
	})
}
