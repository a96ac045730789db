package catalog

import "log/slog"

// Stats accumulates the counters for one organizer run. Counters only
// grow; they are reported at the end of the run and never persisted.
type Stats struct {
	// Scanned counts supported media files seen in the source tree.
	Scanned int
	// Transferred counts files moved or copied into the destination.
	Transferred int
	// SkippedDuplicates counts files whose content already existed.
	SkippedDuplicates int
	// Renamed counts files given a collision suffix, once per file.
	Renamed int
	// DuplicatesRemoved counts duplicate source files deleted.
	DuplicatesRemoved int
	// Errored counts files skipped because of a recoverable failure.
	Errored int
}

// Log emits the end-of-run summary.
func (s Stats) Log(log *slog.Logger) {
	log.Info("organization summary",
		"scanned", s.Scanned,
		"transferred", s.Transferred,
		"skipped_duplicates", s.SkippedDuplicates,
		"renamed", s.Renamed,
		"duplicates_removed", s.DuplicatesRemoved,
		"errored", s.Errored,
	)
}
