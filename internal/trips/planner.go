package trips

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

var (
	yearPattern = regexp.MustCompile(`^\d{4}$`)
	dayPattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// DayDir is one source/YYYY/YYYY-MM-DD directory.
type DayDir struct {
	Date time.Time
	Path string
}

// ScanDays returns every day directory under source, sorted by date.
// Directories not matching the YYYY/YYYY-MM-DD pattern are ignored.
func ScanDays(source string) ([]DayDir, error) {
	years, err := os.ReadDir(source)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	var days []DayDir
	for _, y := range years {
		if !y.IsDir() || !yearPattern.MatchString(y.Name()) {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(source, y.Name()))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() || !dayPattern.MatchString(e.Name()) {
				continue
			}
			date, err := time.Parse(dateLayout, e.Name())
			if err != nil {
				continue
			}
			days = append(days, DayDir{
				Date: date,
				Path: filepath.Join(source, y.Name(), e.Name()),
			})
		}
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days, nil
}

// Reconcile matches each found day directory against the configured
// trips. A day inside a trip's range needs nothing; a day adjacent to a
// trip extends that trip; anything else is merged into MissingTrips as
// an auto-generated single- or multi-day entry for later curation.
// Days must be sorted ascending so adjacent dates chain.
func (c *Config) Reconcile(days []DayDir) {
	for _, day := range days {
		if c.matchTrip(day.Date) {
			continue
		}
		c.recordMissing(day.Date)
	}
}

func (c *Config) matchTrip(day time.Time) bool {
	for i := range c.Trips {
		if c.Trips[i].Contains(day) {
			return true
		}
		if c.Trips[i].Adjacent(day) {
			c.Trips[i].Extend(day)
			return true
		}
	}
	return false
}

func (c *Config) recordMissing(day time.Time) {
	for i := range c.MissingTrips {
		entry := &c.MissingTrips[i]
		start, err1 := entry.Start()
		end, err2 := entry.End()
		if err1 != nil || err2 != nil {
			continue
		}
		if day.Before(start.AddDate(0, 0, -1)) || day.After(end.AddDate(0, 0, 1)) {
			continue
		}
		entry.Extend(day)
		entry.Name = missingName(*entry)
		return
	}

	c.MissingTrips = append(c.MissingTrips, Trip{
		Name:      day.Format(dateLayout) + " day trip",
		StartDate: day.Format(dateLayout),
		EndDate:   day.Format(dateLayout),
	})
}

func missingName(t Trip) string {
	if t.StartDate == t.EndDate {
		return t.StartDate + " day"
	}
	start, _ := t.Start()
	end, _ := t.End()
	days := int(end.Sub(start).Hours()/24) + 1
	return fmt.Sprintf("%s to %s (%d days)", t.StartDate, t.EndDate, days)
}
