package cli

import (
	"github.com/jmylchreest/duskpaper/internal/catalog"
	"github.com/jmylchreest/duskpaper/internal/classify"
	"github.com/jmylchreest/duskpaper/internal/config"
	"github.com/jmylchreest/duskpaper/internal/daynight"
	"github.com/jmylchreest/duskpaper/internal/selector"
	"github.com/jmylchreest/duskpaper/internal/solar"
	"github.com/jmylchreest/duskpaper/internal/suncache"
)

func (a *app) estimator() *solar.Estimator {
	est := solar.NewEstimator(a.env.zones)
	est.Logger = a.logger.Named("solar")
	return est
}

func (a *app) oracle(cfg *config.Config) *daynight.Oracle {
	o := daynight.New(
		a.estimator(),
		suncache.New(cfg.CacheFile, a.logger.Named("suncache")),
		daynight.Location{Latitude: cfg.Latitude, Longitude: cfg.Longitude},
		a.env.zones,
	)
	o.Logger = a.logger.Named("daynight")
	return o
}

func (a *app) catalogStore(cfg *config.Config) *catalog.Store {
	return catalog.NewStore(cfg.CSVFile, cfg.Precision, a.logger.Named("catalog"))
}

func (a *app) selector(cfg *config.Config) *selector.Selector {
	s := selector.New(a.oracle(cfg), classify.New(cfg.Night))
	s.Now = a.env.now
	s.Logger = a.logger.Named("selector")
	if a.env.rand != nil {
		s.Rand = a.env.rand
	}
	return s
}
