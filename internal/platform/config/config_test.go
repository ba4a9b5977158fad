package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Second, cfg.OutboxPollInterval)
	assert.True(t, cfg.ElectionAuthorityCanValidate)
	assert.True(t, cfg.EnableMirrorConsumer)
}

func TestLoadReadsEnvFileWithoutOverridingEnvironment(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"HTTP_PORT=9090\nKAFKA_BROKERS=a:1, b:2\nELECTION_AUTHORITY_CAN_VALIDATE=false\n",
	), 0o600))
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("ELECTION_AUTHORITY_CAN_VALIDATE", "")
	// t.Setenv restores on cleanup; unset so the file can supply the values.
	require.NoError(t, os.Unsetenv("KAFKA_BROKERS"))
	require.NoError(t, os.Unsetenv("ELECTION_AUTHORITY_CAN_VALIDATE"))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.HTTPPort)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
	assert.False(t, cfg.ElectionAuthorityCanValidate)
}

func TestLoadIgnoresMissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestLoadRejectsInvalidStorage(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	_, err = Load("")
	require.ErrorContains(t, err, "POSTGRES_DSN")
}

func TestLoadRequiresSharedMirrorStoreForPostgres(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/ledgervote")
	t.Setenv("MONGO_URI", "")
	_, err := Load("")
	require.ErrorContains(t, err, "MONGO_URI")

	t.Setenv("ENABLE_MIRROR_CONSUMER", "false")
	_, err = Load("")
	require.NoError(t, err)

	t.Setenv("ENABLE_MIRROR_CONSUMER", "true")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
}
