package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// DebugEnv enables debug logging when set to "1".
const DebugEnv = "TINYGIT_DEBUG"

func setupLogging(verbose bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	level := log.WarnLevel
	if verbose || os.Getenv(DebugEnv) == "1" {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}
