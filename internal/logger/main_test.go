package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DishDash-Admin/DishDash-Admin/internal/logger"
)

func TestLevelWriterSplitsByLevel(t *testing.T) {
	var errBuf, infoBuf, traceBuf, warnBuf bytes.Buffer

	lw := &logger.LevelWriter{
		ErrorWriter: &errBuf,
		InfoWriter:  &infoBuf,
		TraceWriter: &traceBuf,
		WarnWriter:  &warnBuf,
	}

	l := zerolog.New(lw).Level(zerolog.TraceLevel)
	l.Trace().Msg("t")
	l.Debug().Msg("d")
	l.Info().Msg("i")
	l.Warn().Msg("w")
	l.Error().Msg("e")

	assert.Contains(t, traceBuf.String(), `"message":"t"`)
	assert.Contains(t, infoBuf.String(), `"message":"d"`)
	assert.Contains(t, infoBuf.String(), `"message":"i"`)
	assert.Contains(t, warnBuf.String(), `"message":"w"`)
	assert.Contains(t, errBuf.String(), `"message":"e"`)
	assert.NotContains(t, infoBuf.String(), `"message":"e"`)
}

func TestLevelWriterMissingTarget(t *testing.T) {
	lw := &logger.LevelWriter{}

	n, err := lw.WriteLevel(zerolog.InfoLevel, []byte("dropped"))
	require.NoError(t, err)
	assert.Equal(t, len("dropped"), n)

	n, err = lw.WriteLevel(zerolog.Disabled, []byte("dropped"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInitValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  logger.Log
		want error
	}{
		{
			name: "service name missing",
			cfg:  logger.Log{LogLevel: "info", AppName: "dishdash"},
			want: logger.ErrServiceNameIsEmpty,
		},
		{
			name: "app name missing",
			cfg:  logger.Log{LogLevel: "info", ServiceName: "admin"},
			want: logger.ErrAppNameIsEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, logger.Init(tt.cfg), tt.want)
		})
	}

	t.Run("unknown level", func(t *testing.T) {
		err := logger.Init(logger.Log{LogLevel: "loud", AppName: "a", ServiceName: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loglevel loud is not supported")
	})
}

func TestInitFileLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	err := logger.Init(logger.Log{
		LogLevel:    "debug",
		AppName:     "dishdash",
		ServiceName: "admin-console",
		LogEnv:      "test",
		File: logger.LogFile{
			Enabled:  true,
			Path:     dir,
			ErrorLog: "error.log",
			InfoLog:  "info.log",
			TraceLog: "trace.log",
			WarnLog:  "warn.log",
		},
	})
	require.NoError(t, err)

	t.Cleanup(func() { log.Logger = zerolog.Nop() })

	log.Info().Str("role", "restaurant").Msg("signed in")
	log.Error().Msg("upstream down")

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), `"message":"signed in"`)
	assert.Contains(t, string(info), `"app":"dishdash"`)
	assert.Contains(t, string(info), `"env":"test"`)
	assert.NotContains(t, string(info), "upstream down")

	errLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "upstream down")
}
