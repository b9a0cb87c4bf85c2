// Package logger wraps zerolog with file rotation for gokons.
package logger

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	Init(path string)
	InitMultiWriter(path string)

	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Debug(msg string)

	WithStr(key, value string) Logger
	WithInt(key string, value int) Logger
	WithAny(key string, value any) Logger
}

type logger struct {
	base    zerolog.Logger
	context map[string]any
	path    string
}

func New() Logger {
	return &logger{
		path: "./logs/gokons.log",
	}
}

// Nop returns a logger that discards everything. Library callers that
// do not care about logs pass this instead of nil.
func Nop() Logger {
	return &logger{base: zerolog.Nop()}
}

func (l *logger) Init(path string) {
	if path != "" {
		l.path = path
	}

	l.base = zerolog.New(l.rotatingWriter()).
		With().
		Timestamp().
		Logger()
}

func (l *logger) InitMultiWriter(path string) {
	if path != "" {
		l.path = path
	}

	multi := io.MultiWriter(os.Stderr, l.rotatingWriter())

	l.base = zerolog.New(multi).
		With().
		Timestamp().
		Logger()
}

func (l *logger) rotatingWriter() io.Writer {
	return &lumberjack.Logger{
		Filename:   l.path,
		MaxSize:    5,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
}

func (l *logger) Info(msg string) {
	l.event(l.base.Info()).Msg(msg)
}

func (l *logger) Warn(msg string) {
	l.event(l.base.Warn()).Msg(msg)
}

func (l *logger) Error(msg string) {
	l.event(l.base.Error()).Msg(msg)
}

func (l *logger) Debug(msg string) {
	l.event(l.base.Debug()).Msg(msg)
}

func (l *logger) event(e *zerolog.Event) *zerolog.Event {
	for k, v := range l.context {
		e = e.Any(k, v)
	}
	return e
}

func (l *logger) WithStr(key, value string) Logger {
	return l.withField(key, value)
}

func (l *logger) WithInt(key string, value int) Logger {
	return l.withField(key, value)
}

func (l *logger) WithAny(key string, value any) Logger {
	return l.withField(key, value)
}

func (l *logger) withField(key string, value any) Logger {
	newCtx := make(map[string]any, len(l.context)+1)
	maps.Copy(newCtx, l.context)
	newCtx[key] = value

	return &logger{
		base:    l.base,
		context: newCtx,
		path:    l.path,
	}
}

// LogPath resolves the default log file location under the user's home
// directory, creating the directory if needed.
func LogPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	logDir := filepath.Join(homeDir, ".gokons")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	return filepath.Join(logDir, "gokons.log"), nil
}
