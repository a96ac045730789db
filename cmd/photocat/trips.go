package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/photocat/internal/trips"
)

var tripsDryRun bool

var tripsCmd = &cobra.Command{
	Use:   "trips CONFIG",
	Short: "Build trip directories of symlinks from a TOML config",
	Long: `Trips reads a TOML config naming a cataloged source tree, a target
root, and a list of named date ranges. For each range it creates
TARGET/YYYY/<trip-name>/ and symlinks every file from the matching
SOURCE/YYYY/YYYY-MM-DD day directories. Day directories matching no
trip are recorded back into the config as auto-generated entries for
later curation.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrips,
}

func init() {
	tripsCmd.Flags().BoolVar(&tripsDryRun, "dry-run", false,
		"Show what would be done without creating anything")
	rootCmd.AddCommand(tripsCmd)
}

func runTrips(cmd *cobra.Command, args []string) error {
	log := newLogger()
	if tripsDryRun {
		log.Info("dry run: no files will be changed")
	}

	cfg, err := trips.LoadConfig(args[0])
	if err != nil {
		return err
	}
	log.Info("trips config loaded", "source", cfg.Source, "target", cfg.Target, "trips", len(cfg.Trips))

	days, err := trips.ScanDays(cfg.Source)
	if err != nil {
		return err
	}

	cfg.Reconcile(days)
	if !tripsDryRun {
		if err := cfg.Save(args[0]); err != nil {
			return fmt.Errorf("write updated config: %w", err)
		}
		log.Info("updated config written", "config", args[0], "missing_trips", len(cfg.MissingTrips))
	}

	return trips.NewLinker(cfg, tripsDryRun, log).Run(days)
}
