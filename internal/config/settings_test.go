package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "::", s.SSHHost)
	assert.Equal(t, "2222", s.SSHPort)
	assert.Equal(t, "/app/keys/host_key", s.SSHHostKey)
	assert.Equal(t, "0.0.0.0", s.WebHost)
	assert.Equal(t, "8080", s.WebPort)
	assert.Empty(t, s.DatabaseURL)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "normal", s.Difficulty)
	assert.Equal(t, "[::]:2222", s.SSHAddr())
	assert.Equal(t, "0.0.0.0:8080", s.WebAddr())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SSH_PORT", "2022")
	t.Setenv("WEB_PORT", "9000")
	t.Setenv("STARSTRIKE_WEB_PORT", "9100")
	t.Setenv("DATABASE_URL", "postgres://localhost/starstrike")
	t.Setenv("LOG_LEVEL", "DEBUG")

	s, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "2022", s.SSHPort)
	assert.Equal(t, "9100", s.WebPort, "prefixed variable wins")
	assert.Equal(t, "postgres://localhost/starstrike", s.DatabaseURL)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte("web:\n  port: \"7070\"\ngame:\n  difficulty: Hard\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigName+".yaml"), data, 0o644))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "7070", s.WebPort)
	assert.Equal(t, "hard", s.Difficulty)

	t.Setenv("DIFFICULTY", "insane")
	s, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "insane", s.Difficulty, "environment overrides the file")
}

func TestLoad_Errors(t *testing.T) {
	t.Run("invalid log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "chatty")
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigName+".yaml"), []byte("web: [unclosed"), 0o644))
		_, err := Load(dir)
		assert.Error(t, err)
	})
}

func TestSettings_NewLogger(t *testing.T) {
	s := &Settings{LogLevel: "warn"}
	logger := s.NewLogger(os.Stderr, "test")
	assert.Equal(t, log.WarnLevel, logger.GetLevel())

	s.LogLevel = "bogus"
	assert.Equal(t, log.InfoLevel, s.NewLogger(os.Stderr, "").GetLevel())
}
