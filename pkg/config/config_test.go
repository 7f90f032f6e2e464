package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434", cfg.Ollama.Host)
	assert.Equal(t, "mistral", cfg.Ollama.Model)
	assert.Equal(t, "ollama", cfg.Summarizer.Backend)
	assert.Equal(t, 0.2, cfg.Summarizer.Temperature)
	assert.Equal(t, "whisper", cfg.Transcriber.Backend)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 30*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "local", cfg.Export.Backend)
	assert.Equal(t, int64(2048), cfg.Server.MaxUploadMB)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OLLAMA_HOST", "http://ollama:11434")
	t.Setenv("OLLAMA_MODEL", "llama3")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("SESSION_TTL", "90m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://ollama:11434", cfg.Ollama.Host)
	assert.Equal(t, "llama3", cfg.Ollama.Model)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 90*time.Minute, cfg.Session.TTL)
	assert.Contains(t, cfg.GetDatabaseDSN(), "dbname=meetnotes")
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SUMMARIZER_BACKEND", "openai")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUMMARIZER_BACKEND")
}

func TestValidate_RequiresAPIKeys(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	cfg.Transcriber.Backend = "assemblyai"
	assert.ErrorContains(t, cfg.Validate(), "ASSEMBLYAI_API_KEY")

	cfg.Assembly.APIKey = "key"
	assert.NoError(t, cfg.Validate())

	cfg.Summarizer.Backend = "groq"
	assert.ErrorContains(t, cfg.Validate(), "GROQ_API_KEY")
}

func TestGetDatabaseDSN_SQLiteEnablesForeignKeys(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: DriverSQLite, Path: "/tmp/m.db"}}
	assert.Equal(t, "/tmp/m.db?_foreign_keys=on&_busy_timeout=5000", cfg.GetDatabaseDSN())
}
