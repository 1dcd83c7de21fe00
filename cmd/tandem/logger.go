package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stefanpenner/tandem/pkg/config"
)

// newLogger builds the zap logger described by lc, writing to logFile and,
// when toStderr is set, to stderr as well. verbose forces debug level.
func newLogger(lc config.LoggingConfig, verbose bool, logFile string, toStderr bool) (*zap.Logger, error) {
	var zc zap.Config
	if strings.EqualFold(lc.Format, "json") {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}

	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if verbose {
		zc.Level.SetLevel(zapcore.DebugLevel)
	}

	zc.OutputPaths = []string{logFile}
	zc.ErrorOutputPaths = []string{logFile}
	if toStderr {
		zc.OutputPaths = append(zc.OutputPaths, "stderr")
		zc.ErrorOutputPaths = append(zc.ErrorOutputPaths, "stderr")
	}

	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}
