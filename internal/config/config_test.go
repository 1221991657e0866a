package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Should apply defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:8082", cfg.Addr())
		assert.Equal(t, "sqlite", cfg.DatabaseType)
		assert.Equal(t, "election-results-official", cfg.CKANPackageID)
		assert.Equal(t, 60*time.Second, cfg.HTTPTimeout)
		assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
		assert.False(t, cfg.Profiling)
	})

	t.Run("Should read the environment", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("PORT", "9000")
		t.Setenv("DATABASE_TYPE", "postgres")
		t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
		t.Setenv("HTTP_TIMEOUT", "5s")
		t.Setenv("PPROF", "true")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Profiling)
		assert.Equal(t, 9000, cfg.Port)
		assert.Equal(t, "postgres", cfg.DatabaseType)
		assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	})

	t.Run("Should reject an unknown database type", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("DATABASE_TYPE", "mysql")
		_, err := Load()
		assert.ErrorContains(t, err, "DatabaseType")
	})

	t.Run("Should reject a bad timeout", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("HTTP_TIMEOUT", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "HTTP_TIMEOUT")
	})
}

func TestSetupLogger(t *testing.T) {
	cfg := Config{LogLevel: "nonsense", LogFile: filepath.Join(t.TempDir(), "logs", "x.log")}
	logger := SetupLogger(cfg)
	logger.Info().Msg("hello")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
