// Package classify splits a wallpaper catalog into images that suit the night
// and images that suit the day.
package classify

import (
	"errors"
	"fmt"

	"github.com/jmylchreest/duskpaper/internal/catalog"
)

var (
	// ErrEmptyNightSet means no catalog entry passes the night thresholds.
	ErrEmptyNightSet = errors.New("no catalog entries match the night criteria")
	// ErrEmptyDaySet means every catalog entry was classed as night.
	ErrEmptyDaySet = errors.New("no catalog entries match the day criteria")
)

// Thresholds decide which entries are night wallpapers. An entry is night iff
// Red < MaxRed, Blue < MaxBlue and Light > MinLight.
type Thresholds struct {
	MaxRed   float64 `yaml:"maxRed"`
	MaxBlue  float64 `yaml:"maxBlue"`
	MinLight float64 `yaml:"minLight"`
}

// DefaultThresholds returns the standard night criteria.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxRed:   0.15,
		MaxBlue:  0.10,
		MinLight: 0.15,
	}
}

// Validate checks that every threshold is a fraction.
func (t Thresholds) Validate() error {
	for name, v := range map[string]float64{"maxRed": t.MaxRed, "maxBlue": t.MaxBlue, "minLight": t.MinLight} {
		if v < 0 || v > 1 {
			return fmt.Errorf("night threshold %s must be within [0,1], got %v", name, v)
		}
	}
	return nil
}

// IsNight reports whether e passes the night criteria.
func (t Thresholds) IsNight(e catalog.Entry) bool {
	return e.Red < t.MaxRed && e.Blue < t.MaxBlue && e.Light > t.MinLight
}

// Classifier partitions catalogs.
type Classifier struct {
	Thresholds Thresholds
}

// New creates a Classifier with the given thresholds.
func New(t Thresholds) *Classifier {
	return &Classifier{Thresholds: t}
}

// Classify returns the night and day subsets of c in catalog order. Every
// entry lands in exactly one subset. An empty night subset is an error.
func (cl *Classifier) Classify(c *catalog.Catalog) (night, day []catalog.Entry, err error) {
	for _, e := range c.Entries() {
		if cl.Thresholds.IsNight(e) {
			night = append(night, e)
		} else {
			day = append(day, e)
		}
	}
	if len(night) == 0 {
		return nil, day, ErrEmptyNightSet
	}
	return night, day, nil
}
