package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/photocat/internal/catalog"
	"github.com/vmunix/photocat/internal/datestamp"
	"github.com/vmunix/photocat/internal/exifdata"
)

var organizeOpts catalog.Options

var organizeCmd = &cobra.Command{
	Use:   "organize SOURCE DEST",
	Short: "Move or copy media files into DEST/YYYY/YYYY-MM-DD",
	Long: `Organize walks SOURCE recursively, resolves each supported media
file's capture date (EXIF first, modification time as fallback), and
moves it into DEST/YYYY/YYYY-MM-DD. Exact duplicates anywhere under
DEST are skipped; same-named files with different content get a
numeric suffix.`,
	Args: cobra.ExactArgs(2),
	RunE: runOrganize,
}

func init() {
	organizeCmd.Flags().BoolVar(&organizeOpts.Copy, "copy", false,
		"Copy files instead of moving them, preserving metadata")
	organizeCmd.Flags().BoolVar(&organizeOpts.DeleteSourceDuplicates, "delete-source-duplicates", false,
		"Delete source files proven to be exact duplicates of cataloged files")
	organizeCmd.Flags().BoolVar(&organizeOpts.DryRun, "dry-run", false,
		"Simulate the run without changing any files")
	rootCmd.AddCommand(organizeCmd)
}

func runOrganize(cmd *cobra.Command, args []string) error {
	log := newLogger()
	if organizeOpts.DryRun {
		log.Info("dry run: no files will be changed")
	}
	if organizeOpts.Copy && organizeOpts.DeleteSourceDuplicates {
		log.Warn("--copy with --delete-source-duplicates: source files proven to be duplicates will be deleted")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolver := datestamp.NewResolver(exifdata.NewReader(), log)
	organizer := catalog.New(args[0], args[1], organizeOpts, resolver, log)
	_, err := organizer.Run(ctx)
	return err
}
