package classify

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/jmylchreest/duskpaper/internal/catalog"
)

func TestThresholdLaw(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name  string
		entry catalog.Entry
		night bool
	}{
		{"dark low red low blue", catalog.Entry{Red: 0.05, Blue: 0.05, Light: 0.20}, true},
		{"too red", catalog.Entry{Red: 0.30, Blue: 0.05, Light: 0.20}, false},
		{"too blue", catalog.Entry{Red: 0.05, Blue: 0.20, Light: 0.20}, false},
		{"not light enough", catalog.Entry{Red: 0.05, Blue: 0.05, Light: 0.10}, false},
		{"red at limit", catalog.Entry{Red: 0.15, Blue: 0.05, Light: 0.20}, false},
		{"blue at limit", catalog.Entry{Red: 0.05, Blue: 0.10, Light: 0.20}, false},
		{"light at limit", catalog.Entry{Red: 0.05, Blue: 0.05, Light: 0.15}, false},
		{"green is ignored", catalog.Entry{Red: 0, Green: 0.9, Blue: 0, Light: 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := th.IsNight(tt.entry); got != tt.night {
				t.Errorf("IsNight(%+v) = %v, want %v", tt.entry, got, tt.night)
			}
		})
	}
}

func TestClassifyPartition(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	cl := New(DefaultThresholds())

	for round := 0; round < 20; round++ {
		c := catalog.New()
		n := 1 + rng.IntN(50)
		for i := 0; i < n; i++ {
			c.Add(catalog.Entry{
				Path:  fmt.Sprintf("/w/%d-%d.jpg", round, i),
				Red:   rng.Float64() * 0.3,
				Blue:  rng.Float64() * 0.2,
				Light: rng.Float64() * 0.4,
			})
		}
		// Guarantee at least one night entry.
		c.Add(catalog.Entry{Path: "/w/night.jpg", Red: 0.01, Blue: 0.01, Light: 0.5})

		night, day, err := cl.Classify(c)
		if err != nil {
			t.Fatalf("Classify failed: %v", err)
		}

		seen := make(map[string]int)
		for _, e := range night {
			seen[e.Path]++
		}
		for _, e := range day {
			seen[e.Path]++
		}
		if len(seen) != c.Len() {
			t.Fatalf("Union has %d paths, catalog has %d", len(seen), c.Len())
		}
		for path, count := range seen {
			if count != 1 {
				t.Errorf("Path %s appears in %d subsets", path, count)
			}
			if _, ok := c.Get(path); !ok {
				t.Errorf("Path %s not in catalog", path)
			}
		}
	}
}

func TestClassifyPreservesOrder(t *testing.T) {
	c := catalog.New(
		catalog.Entry{Path: "/3.jpg", Light: 0.5},
		catalog.Entry{Path: "/1.jpg", Red: 0.9},
		catalog.Entry{Path: "/2.jpg", Light: 0.6},
	)
	night, day, err := New(DefaultThresholds()).Classify(c)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if len(night) != 2 || night[0].Path != "/3.jpg" || night[1].Path != "/2.jpg" {
		t.Errorf("Unexpected night subset: %+v", night)
	}
	if len(day) != 1 || day[0].Path != "/1.jpg" {
		t.Errorf("Unexpected day subset: %+v", day)
	}
}

func TestClassifyEmptyNightSet(t *testing.T) {
	c := catalog.New(
		catalog.Entry{Path: "/a.jpg", Red: 0.5, Light: 0.5},
		catalog.Entry{Path: "/b.jpg", Blue: 0.5, Light: 0.5},
	)
	_, day, err := New(DefaultThresholds()).Classify(c)
	if !errors.Is(err, ErrEmptyNightSet) {
		t.Fatalf("Expected ErrEmptyNightSet, got %v", err)
	}
	if len(day) != 2 {
		t.Errorf("Expected day subset to still be reported, got %d", len(day))
	}

	if _, _, err := New(DefaultThresholds()).Classify(catalog.New()); !errors.Is(err, ErrEmptyNightSet) {
		t.Errorf("Expected ErrEmptyNightSet for empty catalog, got %v", err)
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	c := catalog.New(catalog.Entry{Path: "/a.jpg", Red: 0.30, Blue: 0.05, Light: 0.20})
	cl := New(Thresholds{MaxRed: 0.5, MaxBlue: 0.10, MinLight: 0.15})

	night, _, err := cl.Classify(c)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if len(night) != 1 {
		t.Errorf("Expected raised red limit to admit entry, got %d night entries", len(night))
	}
}

func TestThresholdsValidate(t *testing.T) {
	if err := DefaultThresholds().Validate(); err != nil {
		t.Errorf("Default thresholds invalid: %v", err)
	}
	if err := (Thresholds{MaxRed: 1.5}).Validate(); err == nil {
		t.Error("Expected error for threshold above 1")
	}
	if err := (Thresholds{MinLight: -0.1}).Validate(); err == nil {
		t.Error("Expected error for negative threshold")
	}
}
