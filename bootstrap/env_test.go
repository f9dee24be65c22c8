package bootstrap

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the duration of the test, restoring the
// previous working directory on cleanup. Equivalent to t.Chdir, which
// requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestNewEnvDefaults(t *testing.T) {
	// Run from an empty directory so no .env file is picked up.
	chdir(t, t.TempDir())

	env := NewEnv()
	assert.Equal(t, ":8080", env.ServerAddress)
	assert.Equal(t, "goodbooks-10k", env.DataDir)
	assert.Equal(t, "https://www.goodreads.com/book/show/", env.CatalogBaseURL)
	assert.Equal(t, 10, env.DefaultTopN)
	assert.Equal(t, 2000, env.YearCutoff)
	assert.Equal(t, 100, env.MinUserActivity)
	assert.InDelta(t, 0.55, env.VoteQuantile, 1e-9)
	assert.Equal(t, 100, env.SVDFactors)
	assert.Equal(t, 20, env.SVDEpochs)
	assert.False(t, env.CrossValidate)
	assert.Equal(t, 5, env.CrossValidateFolds)
}

func TestNewEnvReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(".env", []byte(
		"SERVER_ADDRESS=:9000\nDATA_DIR=/srv/goodbooks\nYEAR_CUTOFF=1990\n",
	), 0o644))

	env := NewEnv()
	assert.Equal(t, ":9000", env.ServerAddress)
	assert.Equal(t, "/srv/goodbooks", env.DataDir)
	assert.Equal(t, 1990, env.YearCutoff)
	// untouched keys keep their defaults
	assert.Equal(t, 10, env.DefaultTopN)
}
