package prefs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const hintsFile = "hints.json"

// HintsPath is the per-user hint list file.
func HintsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ecoscope", hintsFile), nil
}

// LoadHints returns the saved hint list, or nil when none was saved.
func LoadHints() ([]string, error) {
	path, err := HintsPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var hints []string
	if err := json.Unmarshal(data, &hints); err != nil {
		return nil, err
	}
	return clean(hints), nil
}

// SaveHints replaces the hint list.
func SaveHints(hints []string) error {
	path, err := HintsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(clean(hints), "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// AddHint appends hint to the saved list, seeding it from base on first use.
func AddHint(base []string, hint string) ([]string, error) {
	current, err := LoadHints()
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = base
	}
	next := clean(append(append([]string(nil), current...), hint))
	return next, SaveHints(next)
}

// ResetHints removes the saved list so the configured defaults apply again.
func ResetHints() error {
	path, err := HintsPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Resolve picks the saved hints when present, otherwise the fallback.
func Resolve(fallback []string) []string {
	hints, err := LoadHints()
	if err != nil || len(hints) == 0 {
		return fallback
	}
	return hints
}

// clean trims entries and drops blanks and case-insensitive duplicates.
func clean(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, h := range in {
		h = strings.TrimSpace(h)
		key := strings.ToLower(h)
		if h == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}
