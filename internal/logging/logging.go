// Package logging configures the application's rotating file logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogDir = "~/Library/Logs/peakhodler"
	fileName      = "PeakHODLer.log"

	// Rotation policy: 5 MiB per file, two rotated backups kept.
	maxSizeMB  = 5
	maxBackups = 2
)

// Open builds a zap logger that appends human-readable lines to a
// size-rotated log file under dir, creating the directory as needed. An
// empty dir selects ~/Library/Logs/peakhodler. The log file path is
// returned alongside the logger so the Show Log menu action can read it
// back.
func Open(dir string) (*zap.Logger, string, error) {
	resolved, err := resolveDir(dir)
	if err != nil {
		return nil, "", fmt.Errorf("resolve log dir: %w", err)
	}
	if err := os.MkdirAll(resolved, 0o755); err != nil {
		return nil, "", fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(resolved, fileName)

	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		LocalTime:  true,
	})

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, zap.InfoLevel)

	return zap.New(core), path, nil
}

func resolveDir(dir string) (string, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		trimmed = defaultLogDir
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
