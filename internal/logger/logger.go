// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger wraps zerolog for the vault sync server and client.
//
// Every entry is JSON with a "role" naming the process, a timestamp and a
// "func" field holding the calling function. Request handlers take their
// logger from the context (FromContext, FromRequest) so that trace and user
// ids attached by middleware travel along.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// rotation of the optional log file
const (
	defaultMaxSizeMB  = 50
	defaultMaxBackups = 5
	defaultMaxAgeDays = 28
)

// Logger embeds zerolog.Logger, so the whole zerolog API is available on it.
type Logger struct {
	zerolog.Logger
}

type options struct {
	level   zerolog.Level
	logFile string
	stdout  bool
}

// Option customises a logger built by NewLogger.
type Option func(*options)

// WithLevel sets the global level from its textual name ("debug", "info",
// ...). Unknown names keep the default debug level.
func WithLevel(level string) Option {
	return func(o *options) {
		if parsed, err := zerolog.ParseLevel(level); err == nil && level != "" {
			o.level = parsed
		}
	}
}

// WithFile additionally writes entries to a size-rotated file.
func WithFile(path string) Option {
	return func(o *options) { o.logFile = path }
}

// WithoutStdout disables console output. It only has an effect together
// with WithFile.
func WithoutStdout() Option {
	return func(o *options) { o.stdout = false }
}

func callerFuncName(pc uintptr, _ string, _ int) string {
	return runtime.FuncForPC(pc).Name()
}

// NewLogger builds the logger of one process; role tells processes apart
// when their logs are collected together. The level set by WithLevel is
// global to zerolog.
func NewLogger(role string, opts ...Option) *Logger {
	o := options{level: zerolog.DebugLevel, stdout: true}
	for _, opt := range opts {
		opt(&o)
	}

	zerolog.SetGlobalLevel(o.level)
	zerolog.CallerFieldName = "func"
	zerolog.CallerMarshalFunc = callerFuncName

	zl := zerolog.New(o.writer()).
		With().
		Timestamp().
		Str("role", role).
		Caller().
		Logger()

	return &Logger{Logger: zl}
}

// NewClientLogger builds the logger of the command-line client. The client
// prints its results to stdout, so logs only go to the rotating file, or
// nowhere when logFile is empty.
func NewClientLogger(role, logFile string) *Logger {
	if logFile == "" {
		return Nop()
	}
	return NewLogger(role, WithFile(logFile), WithoutStdout())
}

func (o options) writer() io.Writer {
	if o.logFile == "" {
		return os.Stdout
	}

	rotating := &lumberjack.Logger{
		Filename:   o.logFile,
		MaxSize:    defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
		MaxAge:     defaultMaxAgeDays,
		Compress:   true,
	}
	if o.stdout {
		return zerolog.MultiLevelWriter(os.Stdout, rotating)
	}
	return rotating
}

// Nop discards everything. Meant for tests.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// GetChildLogger copies l. Fields added to the copy do not show up on l.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{Logger: l.With().Logger()}
}

// FromRequest is FromContext for the request's context.
func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}

// FromContext returns the logger stored in ctx with zerolog's WithContext.
// Without one it falls back to zerolog's default context logger, never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{Logger: *log.Ctx(ctx)}
}
