package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkmsoft/porterstemmer/pkg/engine"
)

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "engine.yaml", `
algorithm: snowball
stop_words: [the, a, an]
page_size: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, engine.AlgorithmSnowball, cfg.Algorithm)
	assert.Equal(t, []string{"the", "a", "an"}, cfg.StopWords)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, DefaultMultiplier, cfg.WorkersMultiplier)
	assert.Equal(t, DefaultDataDirectory, cfg.DataDirectory)

	opts := cfg.IndexerOptions()
	assert.Equal(t, engine.AlgorithmSnowball, opts.Algorithm)
	assert.Equal(t, 10, opts.PageSize)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown algorithm", "algorithm: lancaster\n"},
		{"negative page size", "page_size: -1\n"},
		{"zero multiplier", "workers_multiplier: 0\n"},
		{"empty data directory", "data_directory: \"\"\n"},
		{"malformed yaml", "algorithm: [porter\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "engine.yaml", tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadEnv(t *testing.T) {
	path := writeFile(t, ".env", "PORTER_TEST_HOST=example.org\nPORTER_TEST_PORT=4444\nPORTER_TEST_CLEAN=true\n")
	t.Setenv("PORTER_TEST_HOST", "")
	os.Unsetenv("PORTER_TEST_HOST")
	t.Setenv("PORTER_TEST_PORT", "5555")

	require.NoError(t, LoadEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	t.Cleanup(func() {
		os.Unsetenv("PORTER_TEST_HOST")
		os.Unsetenv("PORTER_TEST_CLEAN")
	})

	assert.Equal(t, "example.org", String("PORTER_TEST_HOST", "localhost"))
	// Variables already set are not overridden.
	assert.Equal(t, 5555, Int("PORTER_TEST_PORT", 3333))
	assert.True(t, Bool("PORTER_TEST_CLEAN", false))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("PORTER_TEST_BAD_INT", "many")
	t.Setenv("PORTER_TEST_BAD_BOOL", "perhaps")

	assert.Equal(t, "localhost", String("PORTER_TEST_UNSET", "localhost"))
	assert.Equal(t, 3333, Int("PORTER_TEST_BAD_INT", 3333))
	assert.False(t, Bool("PORTER_TEST_BAD_BOOL", false))
}
