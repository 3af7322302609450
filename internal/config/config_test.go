package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"NEO4J_URI", "NEO4J_USERNAME", "NEO4J_PASSWORD", "NEO4J_DATABASE",
	"API_PORT", "PORT", "BROWSER_WAIT_SECONDS", "RUNLOG_DATABASE_URL",
}

// clearEnv unsets keys for the test. godotenv never overrides a variable
// that exists, even when empty, so t.Setenv("", ...) is not enough.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedKeys {
		if prev, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, prev) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func writeSecrets(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "neo4j.env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load secrets file")
}

func TestLoadFile_Defaults(t *testing.T) {
	clearEnv(t)
	path := writeSecrets(t, "NEO4J_URI=neo4j+s://example.databases.neo4j.io\nNEO4J_USERNAME=neo4j\nNEO4J_PASSWORD=secret\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "neo4j+s://example.databases.neo4j.io", cfg.Neo4jURI)
	assert.Equal(t, "neo4j", cfg.Neo4jUsername)
	assert.Equal(t, "secret", cfg.Neo4jPassword)
	assert.Equal(t, "neo4j", cfg.Neo4jDatabase)
	assert.Equal(t, 5000, cfg.APIPort)
	assert.Equal(t, 10*time.Second, cfg.WaitTimeout)
	assert.Empty(t, cfg.RunLogDatabaseURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFile_MissingCredentials(t *testing.T) {
	clearEnv(t)
	path := writeSecrets(t, "NEO4J_URI=bolt://localhost:7687\n")

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEO4J_USERNAME, NEO4J_PASSWORD")
}

func TestLoadFile_Overrides(t *testing.T) {
	clearEnv(t)
	path := writeSecrets(t, "NEO4J_URI=bolt://localhost:7687\nNEO4J_USERNAME=u\nNEO4J_PASSWORD=p\nNEO4J_DATABASE=tennis\nAPI_PORT=8080\nBROWSER_WAIT_SECONDS=20\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "tennis", cfg.Neo4jDatabase)
	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, 20*time.Second, cfg.WaitTimeout)
}
