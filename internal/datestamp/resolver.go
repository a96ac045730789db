// Package datestamp resolves the authoritative capture timestamp for a
// media file: embedded capture metadata first, filesystem modification
// time as the fallback.
package datestamp

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/photocat/internal/exifdata"
	"github.com/vmunix/photocat/internal/media"
)

// Epoch is the timestamp assigned when capture metadata is present but
// cannot be parsed. The file still gets placed; it just lands under
// 1970-01-01.
var Epoch = time.Unix(0, 0).UTC()

// layouts accepted for the capture time string. Camera firmware is
// inconsistent about the separator in the date portion.
var layouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
}

var offsetPattern = regexp.MustCompile(`^([+-]?)(\d{2}):(\d{2})$`)

// A strategy inspects one source of date information for a file. ok
// reports whether it produced a timestamp; the resolver tries the next
// strategy otherwise.
type strategy func(path string) (t time.Time, ok bool)

// Resolver derives a single timestamp per file by running an ordered
// chain of strategies. It never fails outright; see Resolve.
type Resolver struct {
	reader exifdata.Reader
	log    *slog.Logger
	chain  []strategy
}

// NewResolver returns a resolver that prefers capture metadata read
// through reader and falls back to filesystem modification time.
func NewResolver(reader exifdata.Reader, log *slog.Logger) *Resolver {
	r := &Resolver{reader: reader, log: log}
	r.chain = []strategy{r.fromCaptureMetadata, r.fromModTime}
	return r
}

// Resolve returns the capture timestamp for path. Metadata timestamps
// are converted to UTC using the recorded offset; modification times
// are kept local with no offset conversion, so day-directory formatting
// honors whichever frame produced the value. Metadata is authoritative
// when present because it survives file copies; modification time
// reflects transfer time and is last resort.
func (r *Resolver) Resolve(path string) time.Time {
	for _, s := range r.chain {
		if t, ok := s(path); ok {
			return t
		}
	}
	// Nothing was readable, not even a stat. Epoch keeps the run
	// going; the file will surface as errored once hashing fails too.
	return Epoch
}

// fromCaptureMetadata reads DateTimeOriginal and OffsetTimeOriginal.
// Video containers are skipped entirely; their embedded metadata is
// not trusted for capture time.
func (r *Resolver) fromCaptureMetadata(path string) (time.Time, bool) {
	if media.IsVideo(path) {
		return time.Time{}, false
	}

	c := r.reader.Extract(path)
	if c.DateTimeOriginal == "" {
		return time.Time{}, false
	}

	local, err := parseCaptureTime(c.DateTimeOriginal)
	if err != nil {
		r.log.Error("unparseable capture time, resolving to epoch",
			"path", path, "value", c.DateTimeOriginal, "error", err)
		return Epoch, true
	}
	return local.Add(-parseOffset(c.OffsetTimeOriginal)), true
}

func (r *Resolver) fromModTime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func parseCaptureTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized capture time %q", s)
}

// parseOffset turns a ±HH:MM UTC offset into a duration to subtract
// from the local capture time. Missing, malformed, or partially blank
// offsets (some cameras write a bare ":30") are treated as zero. The
// sign applies to the whole offset, minutes included.
func parseOffset(s string) time.Duration {
	m := offsetPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	hh, _ := strconv.Atoi(m[2])
	mm, _ := strconv.Atoi(m[3])
	d := time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute
	if m[1] == "-" {
		d = -d
	}
	return d
}
