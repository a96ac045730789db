package catalog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/photocat/internal/datestamp"
	"github.com/vmunix/photocat/internal/digest"
	"github.com/vmunix/photocat/internal/exifdata"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubReader serves canned capture metadata by path. Paths not in the
// map read as metadata-free, which sends the resolver to the
// modification time.
type stubReader struct {
	captures map[string]exifdata.Capture
}

func (s stubReader) Extract(path string) exifdata.Capture {
	return s.captures[path]
}

func writeMedia(t *testing.T, path, content string, mtime time.Time) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func mustHash(t *testing.T, path string) string {
	t.Helper()
	sum, err := digest.Hash(path)
	require.NoError(t, err)
	return sum
}

func newOrganizer(source, dest string, opts Options, captures map[string]exifdata.Capture) *Organizer {
	log := testLogger()
	resolver := datestamp.NewResolver(stubReader{captures: captures}, log)
	return New(source, dest, opts, resolver, log)
}

func dayDirFor(dest string, t time.Time) string {
	return filepath.Join(dest, t.Format("2006"), t.Format("2006-01-02"))
}

func TestRun_MoveDedupAndRename(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(t.TempDir(), "catalog")
	day := time.Date(2023, 7, 15, 12, 0, 0, 0, time.Local)

	writeMedia(t, filepath.Join(source, "dirA", "a.jpg"), "alpha", day)
	writeMedia(t, filepath.Join(source, "dirA", "sub", "a_copy.jpg"), "alpha", day)
	writeMedia(t, filepath.Join(source, "dirB", "IMG_001.JPG"), "one", day)
	writeMedia(t, filepath.Join(source, "dirC", "img_001.jpg"), "two", day)
	writeMedia(t, filepath.Join(source, "notes.txt"), "not media", day)

	stats, err := newOrganizer(source, dest, Options{}, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{
		Scanned:           4,
		Transferred:       3,
		SkippedDuplicates: 1,
		Renamed:           1,
	}, stats)

	dayDir := dayDirFor(dest, day)
	assert.FileExists(t, filepath.Join(dayDir, "a.jpg"))
	assert.FileExists(t, filepath.Join(dayDir, "IMG_001.JPG"))
	// same name, different content, compared case-insensitively
	assert.FileExists(t, filepath.Join(dayDir, "img_001_1.jpg"))

	// moved files are gone; the skipped duplicate stays without
	// --delete-source-duplicates; unsupported files are never touched
	assert.NoFileExists(t, filepath.Join(source, "dirA", "a.jpg"))
	assert.FileExists(t, filepath.Join(source, "dirA", "sub", "a_copy.jpg"))
	assert.FileExists(t, filepath.Join(source, "notes.txt"))
}

func TestRun_DryRunReportsLikeRealRunAndTouchesNothing(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(t.TempDir(), "catalog")
	day := time.Date(2023, 7, 15, 12, 0, 0, 0, time.Local)

	writeMedia(t, filepath.Join(source, "dirA", "a.jpg"), "alpha", day)
	writeMedia(t, filepath.Join(source, "dirA", "sub", "a_copy.jpg"), "alpha", day)
	writeMedia(t, filepath.Join(source, "dirB", "IMG_001.JPG"), "one", day)
	writeMedia(t, filepath.Join(source, "dirC", "img_001.jpg"), "two", day)

	dryStats, err := newOrganizer(source, dest, Options{DryRun: true}, nil).Run(context.Background())
	require.NoError(t, err)

	assert.NoDirExists(t, dest)
	assert.FileExists(t, filepath.Join(source, "dirA", "a.jpg"))
	assert.FileExists(t, filepath.Join(source, "dirC", "img_001.jpg"))

	realStats, err := newOrganizer(source, dest, Options{}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, realStats, dryStats)
}

func TestRun_CopyKeepsSource(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(t.TempDir(), "catalog")
	day := time.Date(2023, 7, 15, 12, 0, 0, 0, time.Local)
	src := writeMedia(t, filepath.Join(source, "a.jpg"), "alpha", day)

	stats, err := newOrganizer(source, dest, Options{Copy: true}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Transferred)

	placed := filepath.Join(dayDirFor(dest, day), "a.jpg")
	assert.FileExists(t, src)
	require.FileExists(t, placed)

	got, err := os.ReadFile(placed)
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(got))

	info, err := os.Stat(placed)
	require.NoError(t, err)
	assert.WithinDuration(t, day, info.ModTime(), time.Second)
}

func TestRun_SkipsContentAlreadyInDestination(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	day := time.Date(2023, 7, 15, 12, 0, 0, 0, time.Local)

	// already cataloged under a different name and day
	writeMedia(t, filepath.Join(dest, "2020", "2020-01-01", "orig.jpg"), "alpha", day)
	src := writeMedia(t, filepath.Join(source, "dup.jpg"), "alpha", day)

	stats, err := newOrganizer(source, dest, Options{}, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{Scanned: 1, SkippedDuplicates: 1}, stats)
	assert.FileExists(t, src)
	assert.NoDirExists(t, dayDirFor(dest, day))
}

func TestRun_DeleteSourceDuplicatesPrunesEmptyDirs(t *testing.T) {
	parent := t.TempDir()
	source := filepath.Join(parent, "incoming")
	dest := t.TempDir()
	day := time.Date(2023, 7, 15, 12, 0, 0, 0, time.Local)

	writeMedia(t, filepath.Join(dest, "2023", "2023-07-15", "orig.jpg"), "alpha", day)
	writeMedia(t, filepath.Join(source, "sub", "dup.jpg"), "alpha", day)

	stats, err := newOrganizer(source, dest, Options{DeleteSourceDuplicates: true}, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{Scanned: 1, SkippedDuplicates: 1, DuplicatesRemoved: 1}, stats)
	// the emptied tree is pruned, source root included
	assert.NoDirExists(t, source)
}

func TestRun_MetadataDateWinsOverModTime(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(t.TempDir(), "catalog")
	src := writeMedia(t, filepath.Join(source, "a.jpg"), "alpha",
		time.Date(2020, 3, 3, 12, 0, 0, 0, time.Local))

	captures := map[string]exifdata.Capture{
		src: {DateTimeOriginal: "2023:07:15 14:30:00", OffsetTimeOriginal: "-04:00"},
	}
	_, err := newOrganizer(source, dest, Options{}, captures).Run(context.Background())
	require.NoError(t, err)

	// 14:30 at -04:00 is 18:30 UTC, still July 15th
	assert.FileExists(t, filepath.Join(dest, "2023", "2023-07-15", "a.jpg"))
}

func TestRun_VideoPlacedByModTime(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(t.TempDir(), "catalog")
	day := time.Date(2022, 1, 1, 9, 0, 0, 0, time.Local)
	src := writeMedia(t, filepath.Join(source, "clip.MOV"), "video bytes", day)

	// metadata exists but must be ignored for video containers
	captures := map[string]exifdata.Capture{
		src: {DateTimeOriginal: "1999:09:09 09:09:09"},
	}
	_, err := newOrganizer(source, dest, Options{}, captures).Run(context.Background())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dayDirFor(dest, day), "clip.MOV"))
}

// A regular file squatting on the day directory path fails that one
// file only; it is counted as errored and the run keeps going.
func TestRun_BlockedDayDirCountsErrored(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	blockedDay := time.Date(2023, 7, 15, 12, 0, 0, 0, time.Local)
	goodDay := time.Date(2023, 7, 16, 12, 0, 0, 0, time.Local)

	require.NoError(t, os.MkdirAll(filepath.Join(dest, "2023"), 0o755))
	require.NoError(t, os.WriteFile(dayDirFor(dest, blockedDay), []byte("squatter"), 0o644))

	blocked := writeMedia(t, filepath.Join(source, "blocked.jpg"), "alpha", blockedDay)
	writeMedia(t, filepath.Join(source, "good.jpg"), "beta", goodDay)

	stats, err := newOrganizer(source, dest, Options{}, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{Scanned: 2, Transferred: 1, Errored: 1}, stats)
	assert.FileExists(t, blocked)
	assert.FileExists(t, filepath.Join(dayDirFor(dest, goodDay), "good.jpg"))
}

func TestRun_UnreadableFileCountsErrored(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not apply to root")
	}
	source := t.TempDir()
	dest := filepath.Join(t.TempDir(), "catalog")
	day := time.Date(2023, 7, 15, 12, 0, 0, 0, time.Local)

	unreadable := writeMedia(t, filepath.Join(source, "locked.jpg"), "alpha", day)
	require.NoError(t, os.Chmod(unreadable, 0o000))
	writeMedia(t, filepath.Join(source, "ok.jpg"), "beta", day)

	stats, err := newOrganizer(source, dest, Options{}, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{Scanned: 2, Transferred: 1, Errored: 1}, stats)
	assert.FileExists(t, unreadable)
	assert.FileExists(t, filepath.Join(dayDirFor(dest, day), "ok.jpg"))
}

func TestRun_SourceMissing(t *testing.T) {
	_, err := newOrganizer(filepath.Join(t.TempDir(), "nope"), t.TempDir(), Options{}, nil).
		Run(context.Background())
	assert.Error(t, err)
}

func TestRun_SourceNotDirectory(t *testing.T) {
	source := writeMedia(t, filepath.Join(t.TempDir(), "file.jpg"), "x", time.Now())

	_, err := newOrganizer(source, t.TempDir(), Options{}, nil).Run(context.Background())
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestRun_DestNotDirectory(t *testing.T) {
	dest := writeMedia(t, filepath.Join(t.TempDir(), "file.jpg"), "x", time.Now())

	_, err := newOrganizer(t.TempDir(), dest, Options{}, nil).Run(context.Background())
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestRun_CanceledContextStopsBetweenFiles(t *testing.T) {
	source := t.TempDir()
	writeMedia(t, filepath.Join(source, "a.jpg"), "alpha", time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := newOrganizer(source, filepath.Join(t.TempDir(), "catalog"), Options{DryRun: true}, nil).
		Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Transferred)
}
