package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var version = "dev"

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "photocat",
	Short: "Catalog photos and videos by capture date",
	Long: `photocat - media cataloging by capture date

Organizes photos, RAW files, and videos into a YYYY/YYYY-MM-DD
directory layout keyed on capture metadata, removing exact duplicates
along the way. Trip directories of symlinks can be built on top of
the catalog with 'photocat trips'.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO",
		"Log level (DEBUG, INFO, WARNING, ERROR, CRITICAL)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("photocat {{.Version}}\n")
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(logLevel),
	}))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARNING":
		return slog.LevelWarn
	case "ERROR", "CRITICAL":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
