// Package daynight decides whether it is currently night at a location,
// reusing the cached sunrise/sunset pair when it belongs to today.
package daynight

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/duskpaper/internal/solar"
)

// Estimator computes sunrise and sunset for a date.
type Estimator interface {
	Estimate(latitude, longitude float64, date civil.Date) (solar.Times, error)
}

// Cache loads and stores a single solar.Times record.
type Cache interface {
	Load() (solar.Times, bool, error)
	Store(st solar.Times) error
}

// Location is a point on Earth in signed degrees, longitude west-negative.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Oracle answers the day/night question.
type Oracle struct {
	Estimator Estimator
	Cache     Cache
	Location  Location
	Zones     solar.ZoneResolver
	Logger    hclog.Logger
}

// New creates an Oracle. cache may be nil, in which case times are computed
// on every call.
func New(est Estimator, cache Cache, loc Location, zones solar.ZoneResolver) *Oracle {
	return &Oracle{
		Estimator: est,
		Cache:     cache,
		Location:  loc,
		Zones:     zones,
		Logger:    hclog.NewNullLogger(),
	}
}

// Times returns the sunrise/sunset pair for the calendar day containing now.
// The cached record is used only when it exists and its date is today;
// otherwise the pair is recomputed and written back before returning.
func (o *Oracle) Times(now time.Time) (solar.Times, error) {
	zone, err := o.zone()
	if err != nil {
		return solar.Times{}, fmt.Errorf("failed to resolve time zone: %w", err)
	}
	today := civil.DateOf(now.In(zone))
	logger := o.logger()

	if o.Cache != nil {
		cached, found, err := o.Cache.Load()
		if err != nil {
			return solar.Times{}, fmt.Errorf("failed to load solar cache: %w", err)
		}
		if found && cached.Date == today {
			logger.Debug("using cached sun times", "date", today.String())
			return cached, nil
		}
		if found {
			logger.Debug("solar cache is stale", "cached", cached.Date.String(), "today", today.String())
		}
	}

	st, err := o.Estimator.Estimate(o.Location.Latitude, o.Location.Longitude, today)
	if err != nil {
		return solar.Times{}, fmt.Errorf("failed to estimate sun times: %w", err)
	}

	if o.Cache != nil {
		if err := o.Cache.Store(st); err != nil {
			return solar.Times{}, fmt.Errorf("failed to store solar cache: %w", err)
		}
	}
	return st, nil
}

// IsNight reports whether now lies outside [sunrise, sunset).
func (o *Oracle) IsNight(now time.Time) (bool, error) {
	st, err := o.Times(now)
	if err != nil {
		return false, err
	}
	night := !st.IsDay(now)
	o.logger().Debug("day/night verdict",
		"now", now.Format(time.RFC3339),
		"sunrise", st.Sunrise.Format(time.RFC3339),
		"sunset", st.Sunset.Format(time.RFC3339),
		"night", night)
	return night, nil
}

func (o *Oracle) zone() (*time.Location, error) {
	if o.Zones == nil {
		return time.Local, nil
	}
	return o.Zones.Zone()
}

func (o *Oracle) logger() hclog.Logger {
	if o.Logger == nil {
		return hclog.NewNullLogger()
	}
	return o.Logger
}
