// Package selector picks the wallpaper to show right now.
package selector

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/duskpaper/internal/catalog"
	"github.com/jmylchreest/duskpaper/internal/classify"
	"github.com/jmylchreest/duskpaper/internal/image"
)

// ErrEmptyCatalog is returned when there is nothing to choose from.
var ErrEmptyCatalog = errors.New("wallpaper catalog is empty")

// Oracle reports whether a given instant is night.
type Oracle interface {
	IsNight(now time.Time) (bool, error)
}

// Classifier partitions a catalog into night and day subsets.
type Classifier interface {
	Classify(c *catalog.Catalog) (night, day []catalog.Entry, err error)
}

// Rand draws a uniform integer in [0, n).
type Rand interface {
	IntN(n int) int
}

// Selector combines the day/night verdict with catalog classification.
type Selector struct {
	Oracle     Oracle
	Classifier Classifier
	Rand       Rand
	Now        func() time.Time
	Logger     hclog.Logger
}

// New creates a Selector using the wall clock and a crypto-backed random source.
func New(oracle Oracle, classifier Classifier) *Selector {
	return &Selector{
		Oracle:     oracle,
		Classifier: classifier,
		Rand:       image.CryptoRand{},
		Now:        time.Now,
		Logger:     hclog.NewNullLogger(),
	}
}

// Select returns override unchanged when it is non-empty. Otherwise it draws
// one path uniformly from the catalog subset matching the current period.
// The catalog is not modified.
func (s *Selector) Select(c *catalog.Catalog, override string) (string, error) {
	logger := s.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if override != "" {
		logger.Debug("using explicit wallpaper", "path", override)
		return override, nil
	}

	if c.Len() == 0 {
		return "", ErrEmptyCatalog
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	night, err := s.Oracle.IsNight(now())
	if err != nil {
		return "", fmt.Errorf("failed to determine time of day: %w", err)
	}

	nightSet, daySet, err := s.Classifier.Classify(c)
	if err != nil {
		return "", fmt.Errorf("failed to classify catalog: %w", err)
	}

	subset, period := daySet, "day"
	if night {
		subset, period = nightSet, "night"
	}
	if len(subset) == 0 {
		// Classify guarantees a non-empty night set.
		return "", classify.ErrEmptyDaySet
	}

	chosen := subset[s.Rand.IntN(len(subset))]
	logger.Debug("selected wallpaper",
		"period", period,
		"candidates", len(subset),
		"night_entries", len(nightSet),
		"day_entries", len(daySet),
		"path", chosen.Path)
	return chosen.Path, nil
}
