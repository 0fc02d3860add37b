package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
)

// PlaceID derives a stable id from a place name so re-adding a place updates it.
func PlaceID(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("place:"+key)).String()
}

// PlaceRepo handles the gazetteer.
type PlaceRepo struct {
	db *sql.DB
}

func NewPlaceRepo(db *sql.DB) *PlaceRepo { return &PlaceRepo{db: db} }

func (r *PlaceRepo) Upsert(ctx context.Context, p Place) error {
	if p.ID == "" {
		p.ID = PlaceID(p.Name)
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO places(id, name, region, latitude, longitude)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 region=excluded.region,
	 latitude=excluded.latitude,
	 longitude=excluded.longitude;
	`, p.ID, strings.TrimSpace(p.Name), p.Region, p.Latitude, p.Longitude)
	return err
}

// Get returns nil, nil when the place does not exist.
func (r *PlaceRepo) Get(ctx context.Context, id string) (*Place, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, region, latitude, longitude, created_at FROM places WHERE id = ?`, id)
	var p Place
	if err := row.Scan(&p.ID, &p.Name, &p.Region, &p.Latitude, &p.Longitude, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ByName matches case-insensitively; nil, nil when absent.
func (r *PlaceRepo) ByName(ctx context.Context, name string) (*Place, error) {
	return r.Get(ctx, PlaceID(name))
}

func (r *PlaceRepo) List(ctx context.Context) ([]Place, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, region, latitude, longitude, created_at FROM places ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Place
	for rows.Next() {
		var p Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Region, &p.Latitude, &p.Longitude, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PlaceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM places WHERE id = ?`, id)
	return err
}

// Search ranks places against q: prefix matches first, then substrings, then
// names within a small edit distance. An empty query lists everything.
func (r *PlaceRepo) Search(ctx context.Context, q string, limit int) ([]Place, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return clip(all, limit), nil
	}

	type scored struct {
		p     Place
		score int
	}
	var hits []scored
	for _, p := range all {
		if s, ok := matchScore(q, strings.ToLower(p.Name)); ok {
			hits = append(hits, scored{p: p, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score < hits[j].score })

	out := make([]Place, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.p)
	}
	return clip(out, limit), nil
}

func matchScore(q, name string) (int, bool) {
	switch {
	case name == q:
		return 0, true
	case strings.HasPrefix(name, q):
		return 1, true
	case strings.Contains(name, q):
		return 2, true
	}
	// compare against the same-length head too, so "lond" still finds "london"
	dist := levenshtein.ComputeDistance(q, name)
	n := utf8.RuneCountInString(q)
	if runes := []rune(name); len(runes) > n {
		if d := levenshtein.ComputeDistance(q, string(runes[:n])); d < dist {
			dist = d
		}
	}
	if float64(dist)/float64(n) < 0.4 {
		return 3 + dist, true
	}
	return 0, false
}

func clip(ps []Place, limit int) []Place {
	if limit > 0 && len(ps) > limit {
		return ps[:limit]
	}
	return ps
}
