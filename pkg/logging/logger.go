package logging

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"k8s.io/klog/v2"
	runtimelog "sigs.k8s.io/controller-runtime/pkg/log"
)

type (
	Level  int8
	Format string
)

const (
	// Zap accepts levels outside of the ones it defines constants for. That is
	// how the Discard and Trace levels are implemented.
	DiscardLevel Level = Level(zapcore.FatalLevel + 1)
	ErrorLevel   Level = Level(zapcore.ErrorLevel)
	InfoLevel    Level = Level(zapcore.InfoLevel)
	DebugLevel   Level = Level(zapcore.DebugLevel)
	TraceLevel   Level = DebugLevel - 1

	ConsoleFormat Format = "console"
	JSONFormat    Format = "json"
	DefaultFormat Format = ConsoleFormat

	LogLevelEnvVar  = "LOG_LEVEL"
	LogFormatEnvVar = "LOG_FORMAT"
	KlogLevelEnvVar = "KLOG_LEVEL"
)

var (
	writer       zapcore.WriteSyncer
	globalLogger *Logger
)

func init() {
	level := InfoLevel
	if l := os.Getenv(LogLevelEnvVar); l != "" {
		var err error
		if level, err = ParseLevel(l); err != nil {
			panic(err)
		}
	}

	format := DefaultFormat
	if f := os.Getenv(LogFormatEnvVar); f != "" {
		format = Format(f)
	}

	// Every logger, klog included, shares one write syncer so that output from
	// the bot, controller-runtime and client-go is never interleaved mid-line.
	var err error
	if writer, _, err = zap.Open("stderr"); err != nil {
		panic(err)
	}

	if globalLogger, err = newLoggerInternal(level, format, writer); err != nil {
		panic(err)
	}

	klog.InitFlags(nil)
	klog.SetOutput(writer)
	klogLevel := "0"
	if k := os.Getenv(KlogLevelEnvVar); k != "" {
		klogLevel = k
	}
	if err = flag.Set("v", klogLevel); err != nil {
		panic(err)
	}

	runtimelog.SetLogger(globalLogger.Logr())
}

// Logger is a thin, leveled wrapper around a zap.SugaredLogger. Key/value
// pairs passed to any of its methods are attached to the emitted entry as
// structured fields.
type Logger struct {
	logger *zap.SugaredLogger
}

// NewDiscardLoggerOrDie returns a *Logger that drops everything. It is mainly
// useful in tests.
func NewDiscardLoggerOrDie() *Logger {
	return NewLoggerOrDie(DiscardLevel, ConsoleFormat)
}

// NewLoggerOrDie is like NewLogger but panics on error.
func NewLoggerOrDie(level Level, format Format) *Logger {
	logger, err := NewLogger(level, format)
	if err != nil {
		panic(err)
	}
	return logger
}

// NewLogger returns a new *Logger writing at the provided level and in the
// provided format.
func NewLogger(level Level, format Format) (*Logger, error) {
	return newLoggerInternal(level, format, writer)
}

func newLoggerInternal(
	level Level,
	format Format,
	w io.Writer,
) (*Logger, error) {
	if level == DiscardLevel {
		return &Logger{logger: zap.NewNop().Sugar()}, nil
	}
	if level < TraceLevel || level > ErrorLevel {
		return nil, fmt.Errorf("invalid log level: %d", level)
	}
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		zapcore.RFC3339TimeEncoder(t.UTC(), enc)
	}
	encCfg.EncodeLevel = traceEncoder

	var encoder zapcore.Encoder
	switch format {
	case ConsoleFormat:
		encoder = zapcore.NewConsoleEncoder(encCfg)
	case JSONFormat:
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(zapcore.Level(level)),
	)
	return Wrap(zap.New(core, zap.AddCaller())), nil
}

func traceEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if level == zapcore.Level(TraceLevel) {
		enc.AppendString("TRACE")
		return
	}
	zapcore.CapitalLevelEncoder(level, enc)
}

// Wrap returns a *Logger wrapping the provided zap.Logger.
func Wrap(zapLogger *zap.Logger) *Logger {
	return &Logger{
		logger: zapLogger.Sugar().WithOptions(zap.AddCallerSkip(1)),
	}
}

// WithValues returns a child *Logger that attaches the given key/value pairs to
// every entry.
func (l *Logger) WithValues(keysAndValues ...any) *Logger {
	return &Logger{logger: l.logger.With(keysAndValues...)}
}

// Error logs msg at the error level. A non-nil err is attached under the
// "error" key.
func (l *Logger) Error(err error, msg string, keysAndValues ...any) {
	if err != nil {
		keysAndValues = append(keysAndValues, "error", err.Error())
	}
	l.logger.Errorw(msg, keysAndValues...)
}

// Info logs at the info level.
func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.logger.Infow(msg, keysAndValues...)
}

// Debug logs at the debug level.
func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

// Trace logs at the custom trace level, one step below debug.
func (l *Logger) Trace(msg string, keysAndValues ...any) {
	l.logger.With(keysAndValues...).Log(zapcore.Level(TraceLevel), msg)
}

// Logr exposes the underlying zap.Logger as a logr.Logger for libraries, such
// as controller-runtime, that only understand logr.
func (l *Logger) Logr() logr.Logger {
	return zapr.NewLogger(l.logger.Desugar().WithOptions(zap.AddCallerSkip(-1)))
}
