// Package log provides structured logging with invocation context.
//
// Two logger variants are available:
//   - Logger: Non-sugared zap.Logger for resolution internals (structured fields)
//   - SugaredLogger: Printf-style logging for CLI surfaces
//
// Output goes to stderr and is quiet by default: only warnings and errors
// are emitted unless debug logging is requested (BROWSERSLIST_DEBUG), so
// the browser list on stdout stays machine-readable.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pithecene-io/browserslist/types"
)

// DebugEnvVar enables debug-level logging when set to a non-empty value.
const DebugEnvVar = "BROWSERSLIST_DEBUG"

// Logger provides structured logging with invocation context.
// All log entries include the working directory and program version.
type Logger struct {
	zap *zap.Logger
}

// SugaredLogger provides printf-style logging for CLI surfaces.
type SugaredLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a logger for the given environment.
// Output defaults to os.Stderr.
func NewLogger(env types.Environment) *Logger {
	return newLoggerWithWriter(env, os.Stderr)
}

// NewLoggerWithWriter creates a logger writing to w (for testing).
func NewLoggerWithWriter(env types.Environment, w io.Writer) *Logger {
	return newLoggerWithWriter(env, w)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
}

// levelFor picks the minimum level from the environment.
func levelFor(env types.Environment) zapcore.Level {
	if env.Get(DebugEnvVar) != "" {
		return zapcore.DebugLevel
	}
	return zapcore.WarnLevel
}

func newLoggerWithWriter(env types.Environment, w io.Writer) *Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(w),
		levelFor(env),
	)

	zapLogger := zap.New(core).With(
		zap.String("program", types.Name),
		zap.String("version", types.Version),
		zap.String("cwd", env.Cwd),
	)
	return &Logger{zap: zapLogger}
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, fields map[string]any) {
	l.zap.Debug(message, zap.Any("fields", fields))
}

// Info logs an info message.
func (l *Logger) Info(message string, fields map[string]any) {
	l.zap.Info(message, zap.Any("fields", fields))
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, fields map[string]any) {
	l.zap.Warn(message, zap.Any("fields", fields))
}

// Sync flushes buffered entries. Errors are ignored; stderr sync commonly
// fails with EINVAL on terminals.
func (l *Logger) Sync() {
	_ = l.zap.Sync()
}

// Sugar returns a SugaredLogger for printf-style logging.
func (l *Logger) Sugar() *SugaredLogger {
	return &SugaredLogger{sugar: l.zap.Sugar()}
}

// Debugf logs a debug message with printf-style formatting.
func (s *SugaredLogger) Debugf(template string, args ...any) {
	s.sugar.Debugf(template, args...)
}

// Infof logs an info message with printf-style formatting.
func (s *SugaredLogger) Infof(template string, args ...any) {
	s.sugar.Infof(template, args...)
}

// With returns a SugaredLogger with additional context fields.
func (s *SugaredLogger) With(args ...any) *SugaredLogger {
	return &SugaredLogger{sugar: s.sugar.With(args...)}
}
