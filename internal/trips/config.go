// Package trips groups cataloged day directories into named trip
// directories of symlinks. It reuses the organizer's YYYY/YYYY-MM-DD
// layout as an input contract and does no hashing or date resolution
// of its own.
package trips

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

const dateLayout = "2006-01-02"

// Trip is one named date range, dates in YYYY-MM-DD.
type Trip struct {
	Name      string `toml:"name"`
	StartDate string `toml:"start_date"`
	EndDate   string `toml:"end_date"`
}

// Start returns the parsed start date.
func (t Trip) Start() (time.Time, error) {
	return time.Parse(dateLayout, t.StartDate)
}

// End returns the parsed end date.
func (t Trip) End() (time.Time, error) {
	return time.Parse(dateLayout, t.EndDate)
}

// Contains reports whether day falls inside the trip's range,
// endpoints included.
func (t Trip) Contains(day time.Time) bool {
	start, err1 := t.Start()
	end, err2 := t.End()
	if err1 != nil || err2 != nil {
		return false
	}
	return !day.Before(start) && !day.After(end)
}

// Adjacent reports whether day is exactly one day before the trip's
// start or one day after its end.
func (t Trip) Adjacent(day time.Time) bool {
	start, err1 := t.Start()
	end, err2 := t.End()
	if err1 != nil || err2 != nil {
		return false
	}
	return day.Equal(start.AddDate(0, 0, -1)) || day.Equal(end.AddDate(0, 0, 1))
}

// Extend widens the trip's range to include day.
func (t *Trip) Extend(day time.Time) {
	if start, err := t.Start(); err == nil && day.Before(start) {
		t.StartDate = day.Format(dateLayout)
	}
	if end, err := t.End(); err == nil && day.After(end) {
		t.EndDate = day.Format(dateLayout)
	}
}

// Config describes one trip-grouping run: where the cataloged photos
// live, where the trip directories go, and the named date ranges.
// MissingTrips is maintained by Reconcile: day directories matching no
// trip are recorded there for later curation.
type Config struct {
	Source       string `toml:"source"`
	Target       string `toml:"target"`
	Trips        []Trip `toml:"trips"`
	MissingTrips []Trip `toml:"missing_trips,omitempty"`
}

// LoadConfig reads and validates a trips config file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing trips config: %w", err)
	}
	if cfg.Source == "" || cfg.Target == "" {
		return nil, errors.New("trips config must set source and target")
	}
	for i, trip := range append(append([]Trip{}, cfg.Trips...), cfg.MissingTrips...) {
		if _, err := trip.Start(); err != nil {
			return nil, fmt.Errorf("trip %d (%q): bad start_date: %w", i+1, trip.Name, err)
		}
		if _, err := trip.End(); err != nil {
			return nil, fmt.Errorf("trip %d (%q): bad end_date: %w", i+1, trip.Name, err)
		}
	}
	return &cfg, nil
}

// Save writes the config back to path, so auto-recorded missing trips
// survive for the next run.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing trips config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding trips config: %w", err)
	}
	return f.Close()
}
