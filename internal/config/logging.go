package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

// NewLogger builds the process logger. Development mode logs at debug
// level; LOG_FILE additionally writes JSON lines to a rotated file.
func NewLogger(c *App) (*logrus.Logger, error) {
	log := logrus.New()

	level := logrus.InfoLevel
	if c.Development {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: c.Development})

	if c.LogFile != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   c.LogFile,
			MaxSize:    c.LogMaxSizeMB,
			MaxBackups: c.LogMaxBackups,
			MaxAge:     c.LogMaxAgeDays,
			Level:      level,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return nil, fmt.Errorf("unable to set up log file %s: %w", c.LogFile, err)
		}
		log.AddHook(hook)
	}

	return log, nil
}
