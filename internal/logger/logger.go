// Package logger builds the zap loggers used across libreveal.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured logging.
const (
	FieldComponent   = "component"
	FieldLibrary     = "library"
	FieldPath        = "path"
	FieldSource      = "source"
	FieldStatus      = "status"
	FieldDigest      = "digest"
	FieldError       = "error"
	FieldDurationMS  = "duration_ms"
	FieldLibraries   = "libraries"
	FieldExpressions = "expressions"
	FieldSkipped     = "skipped"
	FieldBytes       = "bytes"
)

// Verbosity levels for the -v flag count.
const (
	VerbosityUser  = 0 // warnings and errors only
	VerbosityInfo  = 1 // + progress
	VerbosityDebug = 2 // + per-component details
)

// Options configures New.
type Options struct {
	// JSON selects zap's production JSON encoder instead of the console one.
	JSON bool
	// Verbosity is the -v flag count.
	Verbosity int
}

// VerbosityToLevel maps -v counts to zap levels.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// New returns a sugared logger writing to stderr, so stdout stays reserved
// for the command's status output.
func New(opts Options) (*zap.SugaredLogger, error) {
	level := zap.NewAtomicLevelAt(VerbosityToLevel(opts.Verbosity))

	if opts.JSON {
		config := zap.NewProductionConfig()
		config.Level = level
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}
		l, err := config.Build()
		if err != nil {
			return nil, err
		}
		return l.Sugar(), nil
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core).Sugar(), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// Component returns a named child logger tagged with its component.
func Component(parent *zap.SugaredLogger, name string) *zap.SugaredLogger {
	if parent == nil {
		parent = Nop()
	}
	return parent.Named(name).With(FieldComponent, name)
}
