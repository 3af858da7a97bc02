package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	if err := newRootCommand(logger.WithField("service", "suggest-cli")).Execute(); err != nil {
		os.Exit(1)
	}
}
