package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"tanukibot/internal/config"
)

// setupLogging: LOG_LEVEL задает уровень, LOG_FORMAT=json включает JSON.
func setupLogging(cfg *config.Config) {
	logrus.SetOutput(os.Stdout)
	if strings.EqualFold(cfg.LogFormat, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level := logrus.InfoLevel
	if cfg.LogLevel != "" {
		parsed, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logrus.WithField("value", cfg.LogLevel).Warn("Некорректный LOG_LEVEL, используется info.")
		} else {
			level = parsed
		}
	}
	logrus.SetLevel(level)
}
