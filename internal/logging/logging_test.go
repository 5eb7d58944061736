package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildsnap/wildsnap-go/internal/conf"
)

func TestRotationPolicy(t *testing.T) {
	tests := []struct {
		name       string
		logConf    conf.LogConfig
		maxSizeMB  int
		maxBackups int
		maxAge     int
		known      bool
	}{
		{
			name:       "unset rotation uses size-based defaults",
			logConf:    conf.LogConfig{},
			maxSizeMB:  100,
			maxBackups: 3,
			maxAge:     28,
			known:      true,
		},
		{
			name:       "size rotation with configured max size",
			logConf:    conf.LogConfig{Rotation: conf.RotationSize, MaxSize: 10 * 1024 * 1024},
			maxSizeMB:  10,
			maxBackups: 3,
			maxAge:     28,
			known:      true,
		},
		{
			name:       "daily rotation",
			logConf:    conf.LogConfig{Rotation: conf.RotationDaily},
			maxSizeMB:  100,
			maxBackups: 30,
			maxAge:     1,
			known:      true,
		},
		{
			name:       "weekly rotation",
			logConf:    conf.LogConfig{Rotation: conf.RotationWeekly},
			maxSizeMB:  100,
			maxBackups: 4,
			maxAge:     7,
			known:      true,
		},
		{
			name:       "unknown rotation reported",
			logConf:    conf.LogConfig{Rotation: "hourly"},
			maxSizeMB:  100,
			maxBackups: 3,
			maxAge:     28,
			known:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maxSizeMB, maxBackups, maxAge, known := rotationPolicy(tt.logConf)
			assert.Equal(t, tt.maxSizeMB, maxSizeMB)
			assert.Equal(t, tt.maxBackups, maxBackups)
			assert.Equal(t, tt.maxAge, maxAge)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestNewFileLogger(t *testing.T) {
	settings := &conf.Settings{}
	conf.SetTestSettings(settings)

	path := filepath.Join(t.TempDir(), "logs", "service.log")
	logger, closeFn, err := NewFileLogger(path, "testsvc", nil)
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("hello")
	require.NoError(t, closeFn())

	assert.FileExists(t, path)
}
