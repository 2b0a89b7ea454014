// Package stdlogger adapts the global zerolog logger to printf style logger
// interfaces, as used by cron and gorm.
package stdlogger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger forwards printf style calls to zerolog.
type Logger struct {
	component string
	level     zerolog.Level
}

// New returns a Logger writing Printf output at info level.
func New() *Logger {
	return &Logger{level: zerolog.InfoLevel}
}

// Named returns a copy tagging every line with component.
func (l *Logger) Named(component string) *Logger {
	c := *l
	c.component = component

	return &c
}

// WithPrintLevel returns a copy writing Printf output at level.
func (l *Logger) WithPrintLevel(level zerolog.Level) *Logger {
	c := *l
	c.level = level

	return &c
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, v ...any) {
	l.send(zerolog.DebugLevel, format, v...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, v ...any) {
	l.send(zerolog.InfoLevel, format, v...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, v ...any) {
	l.send(zerolog.WarnLevel, format, v...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, v ...any) {
	l.send(zerolog.ErrorLevel, format, v...)
}

// Printf implements the cron and gorm writer interfaces.
func (l *Logger) Printf(format string, v ...any) {
	l.send(l.level, format, v...)
}

func (l *Logger) send(level zerolog.Level, format string, v ...any) {
	e := log.WithLevel(level)
	if l.component != "" {
		e = e.Str("component", l.component)
	}

	e.Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
