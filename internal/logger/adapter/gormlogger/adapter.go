// Package gormlogger adapts the zerolog global logger to gorm's logger interface
// so database activity shows up in the application log streams.
package gormlogger

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	gormlog "gorm.io/gorm/logger"
)

// SlowThreshold marks queries slower than this as warnings.
const SlowThreshold = 200 * time.Millisecond

// Logger implements gorm's logger.Interface on top of zerolog.
type Logger struct {
	level gormlog.LogLevel
}

// New creates a gorm logger adapter at the given gorm log level.
func New(level gormlog.LogLevel) *Logger {
	return &Logger{level: level}
}

// LogMode implements gorm's logger.Interface.
func (l *Logger) LogMode(level gormlog.LogLevel) gormlog.Interface {
	return &Logger{level: level}
}

// Info implements gorm's logger.Interface.
func (l *Logger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlog.Info {
		log.Info().Msgf(msg, args...)
	}
}

// Warn implements gorm's logger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlog.Warn {
		log.Warn().Msgf(msg, args...)
	}
}

// Error implements gorm's logger.Interface.
func (l *Logger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlog.Error {
		log.Error().Msgf(msg, args...)
	}
}

// Trace implements gorm's logger.Interface. Slow queries are logged as
// warnings, failed queries as errors, everything else at trace level.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlog.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && l.level >= gormlog.Error:
		log.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case elapsed > SlowThreshold && l.level >= gormlog.Warn:
		log.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	case l.level >= gormlog.Info:
		log.Trace().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
