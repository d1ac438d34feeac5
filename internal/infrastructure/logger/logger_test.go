package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "zero config defaults", cfg: Config{}},
		{name: "json to stdout", cfg: Config{Level: "info", Format: "json", Output: "stdout"}},
		{name: "console to stderr", cfg: Config{Level: "debug", Format: "console", Output: "stderr"}},
		{name: "unknown level", cfg: Config{Level: "loud"}, wantErr: true},
		{name: "unwritable file sink", cfg: Config{Output: "/nonexistent/dir/app.log"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("written to file")
	require.NoError(t, log.Sync())

	assert.FileExists(t, path)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
		wantErr  bool
	}{
		{input: "debug", expected: zapcore.DebugLevel},
		{input: "DEBUG", expected: zapcore.DebugLevel},
		{input: "info", expected: zapcore.InfoLevel},
		{input: "warn", expected: zapcore.WarnLevel},
		{input: "warning", expected: zapcore.WarnLevel},
		{input: "error", expected: zapcore.ErrorLevel},
		{input: "fatal", expected: zapcore.FatalLevel},
		{input: "", expected: zapcore.InfoLevel},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := parseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestNamed(t *testing.T) {
	log, err := New(&Config{})
	require.NoError(t, err)

	named := Named(log, "audit")
	assert.NotNil(t, named)
	assert.NotEqual(t, log, named)
}

func TestSync(t *testing.T) {
	log, err := New(&Config{})
	require.NoError(t, err)

	// Syncing stdout may fail depending on the platform, it must not
	// panic either way.
	assert.NotPanics(t, func() {
		_ = Sync(log)
	})
}

func TestLevelFiltering(t *testing.T) {
	log, err := New(&Config{Level: "warn"})
	require.NoError(t, err)

	core := log.Core()
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.WarnLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))
}
