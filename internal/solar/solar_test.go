package solar

import (
	"errors"
	"math"
	"testing"
	"time"
	_ "time/tzdata" // Zone lookups must not depend on the host database

	"cloud.google.com/go/civil"
	"github.com/nathan-osman/go-sunrise"
)

func newUTCEstimator() *Estimator {
	return NewEstimator(FixedZone{Location: time.UTC})
}

func TestJulianDayNumber(t *testing.T) {
	tests := []struct {
		date civil.Date
		want int
	}{
		{civil.Date{Year: 2000, Month: time.January, Day: 1}, 2451545},
		{civil.Date{Year: 1970, Month: time.January, Day: 1}, 2440588},
		{civil.Date{Year: 2024, Month: time.January, Day: 1}, 2460311},
		{civil.Date{Year: 2024, Month: time.March, Day: 1}, 2460371},
		{civil.Date{Year: 1858, Month: time.November, Day: 17}, 2400001},
	}

	for _, tt := range tests {
		t.Run(tt.date.String(), func(t *testing.T) {
			if got := JulianDayNumber(tt.date); got != tt.want {
				t.Errorf("JulianDayNumber(%s) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestEstimateDeterministic(t *testing.T) {
	e := newUTCEstimator()
	date := civil.Date{Year: 2025, Month: time.March, Day: 14}

	first, err := e.Estimate(40.7, -74.0, date)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := e.Estimate(40.7, -74.0, date)
		if err != nil {
			t.Fatalf("Estimate failed: %v", err)
		}
		if !again.Sunrise.Equal(first.Sunrise) || !again.Sunset.Equal(first.Sunset) {
			t.Fatalf("Estimate not deterministic: %v/%v vs %v/%v",
				again.Sunrise, again.Sunset, first.Sunrise, first.Sunset)
		}
	}
}

func TestEstimateLondonGolden(t *testing.T) {
	e := newUTCEstimator()
	date := civil.Date{Year: 2024, Month: time.June, Day: 21}

	got, err := e.Estimate(51.5, -0.13, date)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	// Published times for London on the June solstice: 04:43 and 21:21 BST.
	wantRise := time.Date(2024, time.June, 21, 3, 43, 0, 0, time.UTC)
	wantSet := time.Date(2024, time.June, 21, 20, 21, 0, 0, time.UTC)
	assertWithin(t, "sunrise", got.Sunrise, wantRise, 5*time.Minute)
	assertWithin(t, "sunset", got.Sunset, wantSet, 5*time.Minute)

	if got.Date != date {
		t.Errorf("Expected date %s, got %s", date, got.Date)
	}
	if got.Zone != time.UTC {
		t.Errorf("Expected UTC zone, got %s", got.Zone)
	}
}

func TestEstimateMatchesReferenceLibrary(t *testing.T) {
	e := newUTCEstimator()

	locations := []struct {
		name     string
		lat, lon float64
	}{
		{"London", 51.5, -0.13},
		{"New York", 40.71, -74.01},
		{"Sydney", -33.87, 151.21},
		{"Nairobi", -1.29, 36.82},
		{"Reykjavik", 64.15, -21.94},
		{"Quito", -0.18, -78.47},
	}
	dates := []civil.Date{
		{Year: 2024, Month: time.January, Day: 15},
		{Year: 2024, Month: time.March, Day: 20},
		{Year: 2024, Month: time.June, Day: 21},
		{Year: 2024, Month: time.September, Day: 22},
		{Year: 2025, Month: time.December, Day: 21},
	}

	for _, loc := range locations {
		for _, date := range dates {
			t.Run(loc.name+"/"+date.String(), func(t *testing.T) {
				got, err := e.Estimate(loc.lat, loc.lon, date)
				if err != nil {
					t.Fatalf("Estimate failed: %v", err)
				}
				rise, set := sunrise.SunriseSunset(loc.lat, loc.lon, date.Year, date.Month, date.Day)
				assertWithin(t, "sunrise", got.Sunrise, rise, 5*time.Minute)
				assertWithin(t, "sunset", got.Sunset, set, 5*time.Minute)
			})
		}
	}
}

func TestEstimateConvertsToResolvedZone(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("LoadLocation failed: %v", err)
	}
	e := NewEstimator(FixedZone{Location: london})

	got, err := e.Estimate(51.5, -0.13, civil.Date{Year: 2024, Month: time.June, Day: 21})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	if got.Sunrise.Location() != london || got.Sunset.Location() != london {
		t.Errorf("Expected times in Europe/London, got %s and %s", got.Sunrise.Location(), got.Sunset.Location())
	}
	if got.Sunrise.Hour() != 4 {
		t.Errorf("Expected sunrise around 04:4x BST, got %s", got.Sunrise.Format(time.Kitchen))
	}
	if got.Sunrise.Second() != 0 || got.Sunset.Second() != 0 {
		t.Error("Expected times truncated to whole minutes")
	}
}

func TestEstimatePolar(t *testing.T) {
	e := newUTCEstimator()

	tests := []struct {
		name     string
		date     civil.Date
		polarDay bool
	}{
		{"midsummer", civil.Date{Year: 2024, Month: time.June, Day: 21}, true},
		{"midwinter", civil.Date{Year: 2024, Month: time.December, Day: 21}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Estimate(78.22, 15.65, tt.date)
			if !errors.Is(err, ErrNoSolarSolution) {
				t.Fatalf("Expected ErrNoSolarSolution, got %v", err)
			}
			var polar *PolarError
			if !errors.As(err, &polar) {
				t.Fatalf("Expected *PolarError, got %T", err)
			}
			if polar.PolarDay != tt.polarDay {
				t.Errorf("Expected PolarDay=%v, got %v", tt.polarDay, polar.PolarDay)
			}
		})
	}
}

func TestEstimateInvalidDate(t *testing.T) {
	_, err := newUTCEstimator().Estimate(51.5, 0, civil.Date{Year: 2024, Month: time.February, Day: 30})
	if err == nil {
		t.Error("Expected error for invalid date")
	}
}

func TestTimesIsDay(t *testing.T) {
	rise := time.Date(2024, time.June, 21, 3, 43, 0, 0, time.UTC)
	set := time.Date(2024, time.June, 21, 20, 21, 0, 0, time.UTC)
	st := Times{Sunrise: rise, Sunset: set, Zone: time.UTC}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"at sunrise", rise, true},
		{"before sunrise", rise.Add(-time.Second), false},
		{"noon", rise.Add(8 * time.Hour), true},
		{"just before sunset", set.Add(-time.Second), true},
		{"at sunset", set, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := st.IsDay(tt.at); got != tt.want {
				t.Errorf("IsDay(%s) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestDayFraction(t *testing.T) {
	tests := []struct {
		f    float64
		want time.Duration
	}{
		{0.5, 12 * time.Hour},
		{0.25 + 0.5/1440, 6 * time.Hour},
		{-0.25, -6 * time.Hour},
		{1.5, 36 * time.Hour},
	}

	for _, tt := range tests {
		if got := dayFraction(tt.f); got != tt.want {
			t.Errorf("dayFraction(%v) = %v, want %v", tt.f, got, tt.want)
		}
	}
}

func assertWithin(t *testing.T, label string, got, want time.Time, tolerance time.Duration) {
	t.Helper()
	diff := time.Duration(math.Abs(float64(got.Sub(want))))
	if diff > tolerance {
		t.Errorf("%s: got %s, want %s (off by %s, tolerance %s)",
			label, got.UTC().Format(time.RFC3339), want.UTC().Format(time.RFC3339), diff, tolerance)
	}
}
