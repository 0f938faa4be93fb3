// Package log provides the default slog-backed implementation of the Logger
// interface.
//
// This file wires the package-level GetLogger / GetLoggerWithName accessors
// used throughout the codebase to a swappable LoggerProvider. The default
// provider delegates to slog.Default(), so SetupLogger configures the output
// for every component at once.

package log

import (
	"context"
	"log/slog"
	"sync"
)

// slogLogger adapts *slog.Logger to the Logger interface.
// An optional minimum level allows the provider to gate records before they
// reach the underlying handler.
type slogLogger struct {
	logger *slog.Logger
	min    *slog.LevelVar
}

// Debug implements Logger.Debug.
func (l *slogLogger) Debug(msg string, fields ...any) {
	l.log(slog.LevelDebug, msg, fields...)
}

// Info implements Logger.Info.
func (l *slogLogger) Info(msg string, fields ...any) {
	l.log(slog.LevelInfo, msg, fields...)
}

// Warn implements Logger.Warn.
func (l *slogLogger) Warn(msg string, fields ...any) {
	l.log(slog.LevelWarn, msg, fields...)
}

// Error implements Logger.Error.
// If the first field is an error value it is converted to the standard
// error attribute so ErrFmtHandler can extract its stack trace.
func (l *slogLogger) Error(msg string, fields ...any) {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			converted := make([]any, 0, len(fields))
			converted = append(converted, ErrAttr(err))
			converted = append(converted, fields[1:]...)
			fields = converted
		}
	}
	l.log(slog.LevelError, msg, fields...)
}

// With implements Logger.With.
func (l *slogLogger) With(fields ...any) Logger {
	return &slogLogger{logger: l.logger.With(fields...), min: l.min}
}

// Enabled implements Logger.Enabled.
func (l *slogLogger) Enabled(ctx context.Context, level Level) bool {
	if l.min != nil && slog.Level(level) < l.min.Level() {
		return false
	}
	return l.logger.Enabled(ctx, slog.Level(level))
}

func (l *slogLogger) log(level slog.Level, msg string, fields ...any) {
	if l.min != nil && level < l.min.Level() {
		return
	}
	l.logger.Log(context.Background(), level, msg, fields...)
}

// slogProvider is the default LoggerProvider backed by slog.Default().
type slogProvider struct {
	min *slog.LevelVar
}

// NewSlogProvider creates the default slog-backed provider.
// The provider picks up slog.Default() at call time, so it respects later
// SetupLogger calls.
func NewSlogProvider() LoggerProvider {
	return &slogProvider{min: &slog.LevelVar{}}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *slogProvider) GetLogger() Logger {
	return &slogLogger{logger: slog.Default(), min: p.min}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *slogProvider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *slogProvider) SetLevel(level Level) {
	p.min.Set(slog.Level(level))
}

var (
	providerMu      sync.RWMutex
	defaultProvider LoggerProvider = NewSlogProvider()
)

// SetLoggerProvider replaces the package-level provider.
// Tests use this to capture log output through a TestLoggerProvider.
func SetLoggerProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	defaultProvider = p
}

// GetLogger returns the default logger instance.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns a logger tagged with a component identifier.
//
// Example:
//
//	logger := log.GetLoggerWithName("label.annotator")
//	logger.Info("Applying labeling functions", log.CandidatesKey, len(cands))
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLoggerWithName(name)
}

// SetLevel sets the minimum level on the current provider.
func SetLevel(level Level) {
	providerMu.RLock()
	defer providerMu.RUnlock()
	defaultProvider.SetLevel(level)
}
