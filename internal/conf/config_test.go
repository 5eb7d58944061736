package conf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestSettings() *Settings {
	return &Settings{
		Main:   MainConfig{Name: "WildSnap"},
		Server: ServerConfig{Host: "127.0.0.1", Port: "8080"},
		Output: OutputConfig{
			SQLite: SQLiteConfig{Enabled: true, Path: "wildsnap.db"},
		},
		Vision: VisionConfig{
			Provider:      "gemini",
			Model:         "gemini-1.5-flash",
			BaseURL:       "https://generativelanguage.googleapis.com",
			Timeout:       60 * time.Second,
			MaxUploadSize: 5 * 1024 * 1024,
		},
	}
}

func TestValidateSettings(t *testing.T) {
	t.Run("valid settings", func(t *testing.T) {
		require.NoError(t, ValidateSettings(validTestSettings()))
	})

	t.Run("invalid port", func(t *testing.T) {
		s := validTestSettings()
		s.Server.Port = "notaport"
		err := ValidateSettings(s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.port")
	})

	t.Run("both outputs enabled", func(t *testing.T) {
		s := validTestSettings()
		s.Output.MySQL.Enabled = true
		s.Output.MySQL.Database = "wildsnap"
		s.Output.MySQL.Host = "localhost"
		err := ValidateSettings(s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only one output backend")
	})

	t.Run("sqlite without path", func(t *testing.T) {
		s := validTestSettings()
		s.Output.SQLite.Path = ""
		require.Error(t, ValidateSettings(s))
	})

	t.Run("unsupported vision provider", func(t *testing.T) {
		s := validTestSettings()
		s.Vision.Provider = "openai"
		err := ValidateSettings(s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported provider")
	})

	t.Run("missing API key is not an error", func(t *testing.T) {
		s := validTestSettings()
		s.Vision.APIKey = ""
		assert.NoError(t, ValidateSettings(s))
	})

	t.Run("zero max upload size", func(t *testing.T) {
		s := validTestSettings()
		s.Vision.MaxUploadSize = 0
		require.Error(t, ValidateSettings(s))
	})
}
