// Package logging provides structured logging for the telemetry core.
//
// Call Initialize or InitializeFromEnv once at process start. Library code
// (internal/protocol, internal/transport) calls the package-level helpers
// directly; until Initialize is called the logger is silent, so importing
// this package has no observable side effect for callers embedding the core.
package logging

import (
	"encoding/hex"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "VENTCORE_LOG_LEVEL"

// Initialize creates a new logger at the given level. If level is empty, it
// checks VENTCORE_LOG_LEVEL. If neither is set, logging stays silent.
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// InitializeFromEnv initializes the logger from VENTCORE_LOG_LEVEL. This is
// the recommended way to initialize logging in host binaries that want
// silent-by-default behavior.
func InitializeFromEnv() error {
	return Initialize("")
}

// GetLogger returns the global logger, falling back to a silent one.
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func Info(msg string, fields ...zap.Field)  { GetLogger().Info(msg, fields...) }
func Debug(msg string, fields ...zap.Field) { GetLogger().Debug(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { GetLogger().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { GetLogger().Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { GetLogger().Fatal(msg, fields...) }

// LogSessionEvent logs a transport session lifecycle transition (§5 state
// machine): closed/configuring/streaming/terminated.
func LogSessionEvent(adapter string, from, to string) {
	Info("session state transition",
		zap.String("adapter", adapter),
		zap.String("from", from),
		zap.String("to", to),
	)
}

// LogCrcMismatch logs a rejected frame whose embedded CRC did not match the
// freshly computed one, per the error taxonomy in §7.
func LogCrcMismatch(expected, computed uint32, consumed int) {
	Warn("crc mismatch, discarding frame",
		zap.Uint32("expected", expected),
		zap.Uint32("computed", computed),
		zap.Int("consumed", consumed),
	)
}

// LogUnsupportedVersion logs a frame whose protocol version exceeds what
// this build understands.
func LogUnsupportedVersion(maxSupported, found uint8) {
	Warn("unsupported protocol version",
		zap.Uint8("maximum_supported", maxSupported),
		zap.Uint8("found", found),
	)
}

// LogRawBytes logs raw bytes at debug level, useful when diagnosing garbage
// on the wire ahead of a resync.
func LogRawBytes(label string, data []byte) {
	Debug(label,
		zap.Int("length", len(data)),
		zap.String("hex", hexDump(data)),
		zap.String("ascii", asciiDump(data)),
	)
}

func hexDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > 256 {
		return hex.EncodeToString(data[:256]) + "..."
	}
	return hex.EncodeToString(data)
}

func asciiDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > 256 {
		data = data[:256]
	}
	result := make([]byte, len(data))
	for i, b := range data {
		if b >= 32 && b <= 126 {
			result[i] = b
		} else {
			result[i] = '.'
		}
	}
	return string(result)
}

// Sync flushes any buffered log entries.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
