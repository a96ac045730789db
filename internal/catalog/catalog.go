// Package catalog places media files into a date-based destination
// layout, deduplicating by content digest.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vmunix/photocat/internal/datestamp"
	"github.com/vmunix/photocat/internal/digest"
	"github.com/vmunix/photocat/internal/media"
)

// Options configure one organizer run.
type Options struct {
	// Copy copies files instead of moving them, preserving permission
	// bits and modification time.
	Copy bool
	// DeleteSourceDuplicates removes source files proven to be exact
	// duplicates of files already in the destination, and prunes
	// directories left empty afterwards.
	DeleteSourceDuplicates bool
	// DryRun simulates the run: no filesystem mutation, but counters
	// and the in-memory index grow exactly as they would for real, so
	// the report matches what a real run would do.
	DryRun bool
}

// Organizer drives one full run end to end: seed the destination
// index, walk the source tree, and place each supported file. An
// Organizer and its index belong to exactly one run; concurrent runs
// against the same destination root are not supported.
type Organizer struct {
	source   string
	dest     string
	opts     Options
	resolver *datestamp.Resolver
	log      *slog.Logger
}

// New returns an organizer for one run from source into dest.
func New(source, dest string, opts Options, resolver *datestamp.Resolver, log *slog.Logger) *Organizer {
	return &Organizer{
		source:   source,
		dest:     dest,
		opts:     opts,
		resolver: resolver,
		log:      log,
	}
}

// Run executes the placement loop. Only structural failures (missing
// source, uncreatable destination) return an error; per-file failures
// are logged, counted in Stats.Errored, and the run continues. The
// context is checked between file operations, never mid-transfer, so
// an interrupt leaves already placed files final and later files
// untouched in the source.
func (o *Organizer) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	info, err := os.Stat(o.source)
	if err != nil {
		return stats, fmt.Errorf("source directory %q: %w", o.source, err)
	}
	if !info.IsDir() {
		return stats, fmt.Errorf("source %q: %w", o.source, ErrNotDirectory)
	}
	if err := o.ensureDest(); err != nil {
		return stats, err
	}

	index := digest.NewIndex()
	if !o.opts.DryRun {
		o.log.Info("hashing existing destination files", "dest", o.dest)
		if err := digest.Seed(ctx, index, o.dest, o.log); err != nil {
			return stats, fmt.Errorf("seed destination index: %w", err)
		}
		o.log.Info("destination index ready", "unique_files", index.Len())
	}
	namer := NewNamer(o.dest, index)

	o.log.Info("scanning source directory", "source", o.source)
	walkErr := filepath.WalkDir(o.source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			o.log.Warn("cannot access source path, skipping", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			o.log.Debug("skipping non-regular entry", "path", path)
			return nil
		}
		if !media.IsSupported(d.Name()) {
			o.log.Debug("skipping unsupported extension", "path", path)
			return nil
		}

		stats.Scanned++
		o.placeFile(path, namer, &stats)
		return nil
	})
	if walkErr != nil {
		if !errors.Is(walkErr, context.Canceled) {
			return stats, fmt.Errorf("walk source: %w", walkErr)
		}
		o.log.Warn("interrupted, stopping between files")
	}

	if walkErr == nil && o.opts.DeleteSourceDuplicates && !o.opts.DryRun {
		o.pruneEmptyDirs()
	}

	stats.Log(o.log)
	return stats, walkErr
}

// placeFile handles one supported source file: resolve its date, hash
// it, pick a destination, and transfer. Failures count toward Errored
// and never abort the run.
func (o *Organizer) placeFile(path string, namer *Namer, stats *Stats) {
	resolved := o.resolver.Resolve(path)

	sum, err := digest.Hash(path)
	if err != nil {
		o.log.Error("cannot hash file, skipping", "path", path, "error", err)
		stats.Errored++
		return
	}

	placement, err := namer.Place(filepath.Base(path), resolved, sum)
	if errors.Is(err, ErrDuplicate) {
		o.log.Info("exact duplicate, skipping", "path", path, "digest", sum)
		stats.SkippedDuplicates++
		o.deleteDuplicateSource(path, stats)
		return
	}
	if err != nil {
		o.log.Error("cannot resolve placement, skipping", "path", path, "error", err)
		stats.Errored++
		return
	}

	if err := o.ensureDayDir(filepath.Dir(placement.Path)); err != nil {
		o.log.Error("cannot create day directory, skipping file", "path", path, "error", err)
		stats.Errored++
		return
	}

	if o.opts.DryRun {
		o.log.Info("would transfer", "action", o.action(), "src", path, "dest", placement.Path)
	} else {
		if err := o.transfer(path, placement.Path); err != nil {
			o.log.Error("transfer failed, source left untouched",
				"src", path, "dest", placement.Path, "error", err)
			stats.Errored++
			return
		}
		o.log.Info("transferred", "action", o.action(), "src", path, "dest", placement.Path)
	}

	namer.Claim(placement.Path, sum)
	stats.Transferred++
	if placement.Renamed {
		o.log.Info("name collision, renamed", "src", path, "dest", placement.Path)
		stats.Renamed++
	}
}

// deleteDuplicateSource removes a source file proven to be a duplicate
// when that mode is on. A failed deletion is the safe direction, so it
// is only a warning.
func (o *Organizer) deleteDuplicateSource(path string, stats *Stats) {
	if !o.opts.DeleteSourceDuplicates {
		return
	}
	if o.opts.DryRun {
		o.log.Info("would delete duplicate source file", "path", path)
		stats.DuplicatesRemoved++
		return
	}
	if err := os.Remove(path); err != nil {
		o.log.Warn("cannot delete duplicate source file", "path", path, "error", err)
		return
	}
	o.log.Info("deleted duplicate source file", "path", path)
	stats.DuplicatesRemoved++
}

func (o *Organizer) ensureDest() error {
	info, err := os.Stat(o.dest)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("destination %q: %w", o.dest, ErrNotDirectory)
		}
		return nil
	case os.IsNotExist(err):
		if o.opts.DryRun {
			o.log.Info("would create destination root", "dest", o.dest)
			return nil
		}
		if err := os.MkdirAll(o.dest, 0o755); err != nil {
			return fmt.Errorf("create destination root: %w", err)
		}
		o.log.Info("created destination root", "dest", o.dest)
		return nil
	default:
		return fmt.Errorf("stat destination %q: %w", o.dest, err)
	}
}

// ensureDayDir creates the day directory unless this is a dry run. A
// path that exists but is not a directory is an error for the one file
// only.
func (o *Organizer) ensureDayDir(dir string) error {
	if info, err := os.Stat(dir); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("day directory %q: %w", dir, ErrNotDirectory)
	}
	if o.opts.DryRun {
		o.log.Debug("would create directory", "dir", dir)
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (o *Organizer) transfer(src, dst string) error {
	var err error
	if o.opts.Copy {
		err = copyFile(src, dst)
	} else {
		err = moveFile(src, dst)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	return nil
}

func (o *Organizer) action() string {
	if o.opts.Copy {
		return "copy"
	}
	return "move"
}
