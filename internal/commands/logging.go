package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/diogo/ragchat/internal/config"
)

// Command annotation selecting where logs go
const logAnnotation = "log"

const (
	logToStderr  = "stderr"
	logToFile    = "file"
	logToService = "service"
)

func logTarget(cmd *cobra.Command) string {
	if target, ok := cmd.Annotations[logAnnotation]; ok {
		return target
	}
	return logToStderr
}

// newLogger builds the process logger. The chat screen logs to a file so
// output does not tear the alternate screen; the service logs JSON at info;
// everything else logs warnings to stderr. Verbose lowers the level to debug.
func newLogger(cfg config.Config, target string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.DisableStacktrace = true
	zcfg.Sampling = nil
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.WarnLevel
	switch target {
	case logToService:
		level = zapcore.InfoLevel
	case logToFile:
		level = zapcore.InfoLevel
		path, err := config.GetLogPath(cfg)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		zcfg.OutputPaths = []string{path}
		zcfg.ErrorOutputPaths = []string{path}
	default:
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
