package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

func getLogFilePath() (string, error) {
	dir, err := gap.NewScope(gap.User, "readalong").CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "readalong.log"), nil
}

// setupLog sends log output to a file in the user cache dir so it never
// draws over the TUI.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	logFile, err := getLogFilePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		// log disabled
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		// log disabled
		return func() error { return nil }, nil
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	return f.Close, nil
}

// setLogLevel applies a configured level name, keeping the current level
// when the name is unknown.
func setLogLevel(name string) {
	level, err := log.ParseLevel(name)
	if err != nil {
		log.Warn("Unknown log level", "level", name)
		return
	}
	log.SetLevel(level)
}
