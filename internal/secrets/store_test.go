package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProviderKeyLifecycle(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	_, err := FetchProviderKey(ProviderGeocoder)
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, StoreProviderKey(" Geocoder ", "AIza-test-key"))
	got, err := FetchProviderKey(ProviderGeocoder)
	require.NoError(t, err)
	require.Equal(t, "AIza-test-key", got)

	raw, err := os.ReadFile(filepath.Join(dir, "ecoscope", fileName))
	require.NoError(t, err)
	require.NotContains(t, string(raw), "AIza-test-key")

	info, err := os.Stat(filepath.Join(dir, "ecoscope", fileName))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, DeleteProviderKey(ProviderGeocoder))
	_, err = FetchProviderKey(ProviderGeocoder)
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestProviderRequired(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.ErrorIs(t, StoreProviderKey("  ", "k"), ErrProviderRequired)
	_, err := FetchProviderKey("")
	require.ErrorIs(t, err, ErrProviderRequired)
	require.ErrorIs(t, DeleteProviderKey(""), ErrProviderRequired)
}

func TestTamperedKeyFails(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, StoreProviderKey(ProviderGeocoder, "k"))

	path := filepath.Join(dir, "ecoscope", fileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"keys":{"geocoder":"AAAA"}}`), 0o600))
	_, err := FetchProviderKey(ProviderGeocoder)
	require.Error(t, err)
}
