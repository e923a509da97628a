package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the application logger. Lambda output is JSON so CloudWatch
// can index the fields; local output stays human readable.
func NewLogger(level string, serverless bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if serverless {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}
