// Package solar estimates sunrise and sunset times using the sunrise equation
// in its Julian-day formulation. Results are accurate to a few minutes at
// non-polar latitudes, which is all a wallpaper schedule needs.
package solar

import (
	"errors"
	"fmt"
	"math"
	"time"

	"cloud.google.com/go/civil"
	"github.com/hashicorp/go-hclog"
)

// ErrNoSolarSolution is returned when the sun does not cross the horizon on
// the requested date (polar day or polar night).
var ErrNoSolarSolution = errors.New("no sunrise or sunset on this date")

// PolarError carries the details of a date without a sunrise/sunset pair.
type PolarError struct {
	Date     civil.Date
	Latitude float64
	// PolarDay is true when the sun stays above the horizon all day.
	PolarDay bool
}

// Error implements the error interface.
func (e *PolarError) Error() string {
	kind := "polar night"
	if e.PolarDay {
		kind = "polar day"
	}
	return fmt.Sprintf("%s at latitude %.4f on %s: %v", kind, e.Latitude, e.Date, ErrNoSolarSolution)
}

// Is reports whether target is ErrNoSolarSolution.
func (e *PolarError) Is(target error) bool {
	return target == ErrNoSolarSolution
}

// Params holds the constants of the sunrise equation. Angles are in degrees.
type Params struct {
	J2000            float64 // Julian date of the J2000 epoch
	NoonOffset       float64 // fractional day offset for the mean solar noon convention
	TransitEpoch     float64 // epoch used when computing the solar transit
	AnomalyBase      float64
	AnomalyRate      float64 // degrees per day
	CentreCoeffs     [3]float64
	Perihelion       float64 // argument of perihelion
	TransitAnomaly   float64 // sin(M) coefficient in the transit equation
	TransitLongitude float64 // sin(2λ) coefficient in the transit equation
	Obliquity        float64 // axial tilt
	Elevation        float64 // solar elevation at sunrise/sunset, refraction plus disc radius
}

// DefaultParams returns the standard constants.
func DefaultParams() Params {
	return Params{
		J2000:            2451545.0,
		NoonOffset:       0.0008,
		TransitEpoch:     2451545.5,
		AnomalyBase:      357.5291,
		AnomalyRate:      0.98560028,
		CentreCoeffs:     [3]float64{1.9148, 0.0200, 0.0003},
		Perihelion:       102.9372,
		TransitAnomaly:   0.0053,
		TransitLongitude: 0.0069,
		Obliquity:        23.44,
		Elevation:        -0.83,
	}
}

// Times is the sunrise/sunset pair for one date and location.
type Times struct {
	Date    civil.Date
	Sunrise time.Time
	Sunset  time.Time
	Zone    *time.Location
}

// IsDay reports whether t falls in [Sunrise, Sunset).
func (st Times) IsDay(t time.Time) bool {
	return !t.Before(st.Sunrise) && t.Before(st.Sunset)
}

// Estimator computes Times for a location and date.
type Estimator struct {
	Params Params
	Zones  ZoneResolver
	Logger hclog.Logger
}

// NewEstimator creates an Estimator with the default constants.
func NewEstimator(zones ZoneResolver) *Estimator {
	return &Estimator{
		Params: DefaultParams(),
		Zones:  zones,
		Logger: hclog.NewNullLogger(),
	}
}

// Estimate returns sunrise and sunset for the given latitude, longitude
// (west-negative) and date. The result depends only on its inputs and the
// zone reported by the resolver.
func (e *Estimator) Estimate(latitude, longitude float64, date civil.Date) (Times, error) {
	if !date.IsValid() {
		return Times{}, fmt.Errorf("invalid date: %s", date)
	}
	p := e.Params
	logger := e.logger()

	jdn := float64(JulianDayNumber(date))
	n := jdn - p.J2000 + p.NoonOffset
	jStar := n - longitude/360

	m := mod360(p.AnomalyBase + p.AnomalyRate*jStar)
	c := p.CentreCoeffs[0]*sinDeg(m) + p.CentreCoeffs[1]*sinDeg(2*m) + p.CentreCoeffs[2]*sinDeg(3*m)
	lambda := mod360(m + c + 180 + p.Perihelion)
	transit := p.TransitEpoch + jStar + p.TransitAnomaly*sinDeg(m) - p.TransitLongitude*sinDeg(2*lambda)
	declination := degrees(math.Asin(sinDeg(lambda) * sinDeg(p.Obliquity)))

	logger.Debug("solar position",
		"date", date.String(),
		"jdn", jdn,
		"mean_noon", jStar,
		"mean_anomaly", m,
		"centre", c,
		"ecliptic_longitude", lambda,
		"transit", transit,
		"declination", declination)

	cosOmega := (sinDeg(p.Elevation) - sinDeg(latitude)*sinDeg(declination)) /
		(cosDeg(latitude) * cosDeg(declination))
	if cosOmega < -1 || cosOmega > 1 || math.IsNaN(cosOmega) {
		return Times{}, &PolarError{Date: date, Latitude: latitude, PolarDay: cosOmega < -1}
	}
	omega := degrees(math.Acos(cosOmega))

	jRise := transit - omega/360
	jSet := transit + omega/360

	loc, err := e.zone()
	if err != nil {
		return Times{}, fmt.Errorf("failed to resolve time zone: %w", err)
	}

	midnight := date.In(time.UTC)
	st := Times{
		Date:    date,
		Sunrise: midnight.Add(dayFraction(jRise - jdn)).In(loc),
		Sunset:  midnight.Add(dayFraction(jSet - jdn)).In(loc),
		Zone:    loc,
	}

	logger.Debug("sun times",
		"hour_angle", omega,
		"sunrise", st.Sunrise.Format(time.RFC3339),
		"sunset", st.Sunset.Format(time.RFC3339),
		"zone", loc.String())

	return st, nil
}

func (e *Estimator) zone() (*time.Location, error) {
	if e.Zones == nil {
		return time.UTC, nil
	}
	return e.Zones.Zone()
}

func (e *Estimator) logger() hclog.Logger {
	if e.Logger == nil {
		return hclog.NewNullLogger()
	}
	return e.Logger
}

// JulianDayNumber converts a Gregorian calendar date to its Julian Day Number
// using integer arithmetic.
func JulianDayNumber(d civil.Date) int {
	y, m, day := d.Year, int(d.Month), d.Day
	a := (m - 14) / 12
	return (1461*(y+4800+a))/4 +
		(367*(m-2-12*a))/12 -
		(3*((y+4900+a)/100))/4 +
		day - 32075
}

// dayFraction converts a fraction of a day to a duration truncated to whole
// minutes. Fractions outside [0,1) are allowed; they land on the previous or
// next UTC day.
func dayFraction(f float64) time.Duration {
	return time.Duration(math.Floor(f*24*60)) * time.Minute
}

func mod360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func sinDeg(deg float64) float64 { return math.Sin(deg * math.Pi / 180) }

func cosDeg(deg float64) float64 { return math.Cos(deg * math.Pi / 180) }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
