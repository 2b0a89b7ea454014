package stdlogger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DishDash-Admin/DishDash-Admin/internal/logger/adapter/stdlogger"
)

type line struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component"`
}

func capture(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	prev, prevLevel := log.Logger, zerolog.GlobalLevel()

	log.Logger = zerolog.New(buf)
	zerolog.SetGlobalLevel(level)

	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	return buf
}

func decode(t *testing.T, buf *bytes.Buffer) []line {
	t.Helper()

	var out []line

	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}

		var l line
		require.NoError(t, json.Unmarshal([]byte(raw), &l))
		out = append(out, l)
	}

	return out
}

func TestLevels(t *testing.T) {
	buf := capture(t, zerolog.InfoLevel)
	l := stdlogger.New()

	l.Debugf("hidden %s", "debug")
	l.Infof("info %d", 1)
	l.Warningf("warn %d", 2)
	l.Errorf("error %d", 3)

	got := decode(t, buf)
	require.Len(t, got, 3)
	assert.Equal(t, line{Level: "info", Message: "info 1"}, got[0])
	assert.Equal(t, line{Level: "warn", Message: "warn 2"}, got[1])
	assert.Equal(t, line{Level: "error", Message: "error 3"}, got[2])
}

func TestPrintf(t *testing.T) {
	buf := capture(t, zerolog.DebugLevel)

	stdlogger.New().Named("cron").Printf("start %s\n", "sweep")
	stdlogger.New().Named("gorm").WithPrintLevel(zerolog.DebugLevel).Printf("[%.3fms] %s", 1.5, "SELECT 1")

	got := decode(t, buf)
	require.Len(t, got, 2)
	assert.Equal(t, line{Level: "info", Message: "start sweep", Component: "cron"}, got[0])
	assert.Equal(t, line{Level: "debug", Message: "[1.500ms] SELECT 1", Component: "gorm"}, got[1])
}
