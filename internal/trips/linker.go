package trips

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Linker creates trip directories of symlinks under the target root.
type Linker struct {
	cfg    *Config
	dryRun bool
	log    *slog.Logger
}

// NewLinker returns a linker for cfg. With dryRun set, it logs what it
// would create and touches nothing.
func NewLinker(cfg *Config, dryRun bool, log *slog.Logger) *Linker {
	return &Linker{cfg: cfg, dryRun: dryRun, log: log}
}

// Run links every configured trip against the given day directories.
// Per-trip failures are logged and the remaining trips still run; only
// an uncreatable target root aborts.
func (l *Linker) Run(days []DayDir) error {
	if l.dryRun {
		l.log.Info("would ensure target root exists", "target", l.cfg.Target)
	} else if err := os.MkdirAll(l.cfg.Target, 0o755); err != nil {
		return fmt.Errorf("create target root: %w", err)
	}

	for i, trip := range l.cfg.Trips {
		name := trip.Name
		if name == "" {
			name = fmt.Sprintf("trip_%d", i+1)
		}
		l.linkTrip(trip, name, days)
	}
	return nil
}

func (l *Linker) linkTrip(trip Trip, name string, days []DayDir) {
	start, err := trip.Start()
	if err != nil {
		l.log.Warn("skipping trip with bad start_date", "trip", name, "error", err)
		return
	}
	end, err := trip.End()
	if err != nil {
		l.log.Warn("skipping trip with bad end_date", "trip", name, "error", err)
		return
	}

	dir := filepath.Join(l.cfg.Target, trip.StartDate[:4], SanitizeName(name))
	if l.dryRun {
		l.log.Info("would create trip directory", "trip", name, "dir", dir)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		l.log.Warn("cannot create trip directory, skipping trip", "trip", name, "dir", dir, "error", err)
		return
	}

	linked := 0
	for _, day := range days {
		if day.Date.Before(start) || day.Date.After(end) {
			continue
		}
		l.log.Debug("matching day directory", "trip", name, "day", day.Path)
		linked += l.linkDay(dir, day)
	}

	if linked == 0 {
		l.log.Info("no photos linked for trip",
			"trip", name, "start", trip.StartDate, "end", trip.EndDate)
		return
	}
	l.log.Info("trip linked", "trip", name, "dir", dir, "links", linked)
}

// linkDay symlinks every regular, non-symlink file in the day
// directory into the trip directory. Existing names are skipped.
func (l *Linker) linkDay(tripDir string, day DayDir) int {
	entries, err := os.ReadDir(day.Path)
	if err != nil {
		l.log.Warn("cannot read day directory", "dir", day.Path, "error", err)
		return 0
	}

	linked := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		src, err := filepath.Abs(filepath.Join(day.Path, e.Name()))
		if err != nil {
			l.log.Warn("cannot resolve source path", "path", e.Name(), "error", err)
			continue
		}
		link := filepath.Join(tripDir, e.Name())

		if _, err := os.Lstat(link); err == nil {
			l.log.Warn("link name already exists, skipping", "path", link)
			continue
		}

		if l.dryRun {
			l.log.Info("would link", "src", src, "link", link)
			linked++
			continue
		}
		if err := os.Symlink(src, link); err != nil {
			l.log.Error("cannot create symlink", "src", src, "link", link, "error", err)
			continue
		}
		l.log.Debug("linked", "src", src, "link", link)
		linked++
	}
	return linked
}
