package api

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials")
	store := NewTokenStore(path, testLogger())

	require.Empty(t, store.Token())

	require.NoError(t, store.Save("tok-abc"))
	require.Equal(t, "tok-abc", store.Token())

	require.NoError(t, store.Clear())
	require.Empty(t, store.Token())
	require.NoError(t, store.Clear(), "clearing a missing file is not an error")
}

func TestTokenStoreEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials")
	store := NewTokenStore(path, testLogger())
	require.NoError(t, store.Save("from-file"))

	t.Setenv(tokenEnv, "from-env")
	require.Equal(t, "from-env", store.Token())
}

func TestTokenStoreIgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials")
	store := NewTokenStore(path, testLogger())
	require.NoError(t, store.Save("good"))

	// Opaque non-JWT tokens must pass through without expiry inspection noise.
	require.Equal(t, "good", store.Token())
}
