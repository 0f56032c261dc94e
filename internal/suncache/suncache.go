// Package suncache persists the most recently computed sunrise/sunset pair
// so the estimator only runs once per calendar day.
package suncache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/duskpaper/internal/persist"
	"github.com/jmylchreest/duskpaper/internal/solar"
)

// record is the on-disk layout. Times are ISO-8601 with offset.
type record struct {
	Date     string `yaml:"date"`
	Sunrise  string `yaml:"sunrise"`
	Sunset   string `yaml:"sunset"`
	Timezone string `yaml:"timezone"`
}

// File is a YAML-backed solar time cache.
type File struct {
	Path   string
	Logger hclog.Logger
}

// New creates a cache stored at path.
func New(path string, logger hclog.Logger) *File {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &File{Path: path, Logger: logger}
}

// Load returns the cached times. A missing or empty file is reported as
// found == false with no error.
func (f *File) Load() (solar.Times, bool, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.Logger.Debug("no solar cache file", "path", f.Path)
			return solar.Times{}, false, nil
		}
		return solar.Times{}, false, persist.Wrap("read", f.Path, err)
	}

	var rec record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return solar.Times{}, false, persist.Wrap("decode", f.Path, err)
	}
	if rec == (record{}) {
		return solar.Times{}, false, nil
	}

	st, err := rec.times()
	if err != nil {
		return solar.Times{}, false, persist.Wrap("decode", f.Path, err)
	}

	f.Logger.Debug("loaded solar cache", "date", rec.Date, "sunrise", rec.Sunrise, "sunset", rec.Sunset)
	return st, true, nil
}

// Store writes st, replacing any previous record.
func (f *File) Store(st solar.Times) error {
	data, err := yaml.Marshal(newRecord(st))
	if err != nil {
		return persist.Wrap("encode", f.Path, err)
	}
	if err := persist.WriteFileAtomic(f.Path, data); err != nil {
		return err
	}
	f.Logger.Debug("stored solar cache", "path", f.Path, "date", st.Date.String())
	return nil
}

func newRecord(st solar.Times) record {
	zone := st.Zone
	if zone == nil {
		zone = st.Sunrise.Location()
	}
	return record{
		Date:     st.Date.String(),
		Sunrise:  st.Sunrise.Format(time.RFC3339),
		Sunset:   st.Sunset.Format(time.RFC3339),
		Timezone: zone.String(),
	}
}

func (r record) times() (solar.Times, error) {
	date, err := civil.ParseDate(r.Date)
	if err != nil {
		return solar.Times{}, fmt.Errorf("invalid date: %w", err)
	}
	zone, err := solar.LoadZone(r.Timezone)
	if err != nil {
		return solar.Times{}, err
	}
	rise, err := time.Parse(time.RFC3339, r.Sunrise)
	if err != nil {
		return solar.Times{}, fmt.Errorf("invalid sunrise: %w", err)
	}
	set, err := time.Parse(time.RFC3339, r.Sunset)
	if err != nil {
		return solar.Times{}, fmt.Errorf("invalid sunset: %w", err)
	}
	return solar.Times{
		Date:    date,
		Sunrise: rise.In(zone),
		Sunset:  set.In(zone),
		Zone:    zone,
	}, nil
}
