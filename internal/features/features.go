// Package features measures how much of an image is red, green or blue and
// how much of it is light or dark. The five fractions are what wallpaper
// classification works from.
package features

import (
	"errors"
	"fmt"
	stdimage "image"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/duskpaper/internal/catalog"
	"github.com/jmylchreest/duskpaper/internal/image"
)

// ErrUnreadableImage is returned when a file does not decode as an image.
var ErrUnreadableImage = errors.New("unreadable image")

// Band is an inclusive hue range on the 0-179 scale.
type Band struct {
	Min, Max uint8
}

// Contains reports whether h lies in the band.
func (b Band) Contains(h uint8) bool {
	return h >= b.Min && h <= b.Max
}

// Thresholds configures pixel classification.
type Thresholds struct {
	Red   []Band
	Green []Band
	Blue  []Band

	// Hue bands only count pixels at or above these.
	MinSaturation uint8
	MinValue      uint8

	// Pixels with value >= Light are light, value <= Dark are dark.
	Light uint8
	Dark  uint8
}

// DefaultThresholds returns the standard bands. Red wraps around 0.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Red:           []Band{{Min: 0, Max: 14}, {Min: 164, Max: 179}},
		Green:         []Band{{Min: 44, Max: 74}},
		Blue:          []Band{{Min: 104, Max: 134}},
		MinSaturation: 80,
		MinValue:      80,
		Light:         170,
		Dark:          80,
	}
}

// Validate checks that the light and dark ranges cannot overlap.
func (t Thresholds) Validate() error {
	if t.Light <= t.Dark {
		return fmt.Errorf("light threshold (%d) must be greater than dark threshold (%d)", t.Light, t.Dark)
	}
	return nil
}

// Fractions holds the share of pixels in each class. Hue fractions are
// independent of each other and need not sum to 1.
type Fractions struct {
	Red, Green, Blue float64
	Light, Dark      float64
}

// Extractor computes Fractions for images.
type Extractor struct {
	Loader     image.Loader
	Thresholds Thresholds
	// MaxDimension downsamples larger images before analysis. 0 disables it.
	MaxDimension int
	Logger       hclog.Logger
}

// NewExtractor creates an Extractor with the default thresholds that reads
// full-resolution images from disk.
func NewExtractor() *Extractor {
	return &Extractor{
		Loader:     image.NewFileLoader(),
		Thresholds: DefaultThresholds(),
		Logger:     hclog.NewNullLogger(),
	}
}

// Extract loads the image at path and returns its catalog entry.
func (e *Extractor) Extract(path string) (catalog.Entry, error) {
	img, err := e.Loader.Load(path)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, path, err)
	}

	f, err := e.Analyse(img)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("%s: %w", path, err)
	}

	if e.Logger != nil {
		e.Logger.Debug("analysed image", "path", path,
			"red", f.Red, "green", f.Green, "blue", f.Blue, "light", f.Light, "dark", f.Dark)
	}

	return catalog.Entry{
		Path:  path,
		Red:   f.Red,
		Green: f.Green,
		Blue:  f.Blue,
		Light: f.Light,
		Dark:  f.Dark,
	}, nil
}

// Analyse classifies every pixel of img. Alpha is ignored.
func (e *Extractor) Analyse(img stdimage.Image) (Fractions, error) {
	if err := e.Thresholds.Validate(); err != nil {
		return Fractions{}, err
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return Fractions{}, fmt.Errorf("%w: image has no pixels", ErrUnreadableImage)
	}
	if md := e.MaxDimension; md > 0 && (bounds.Dx() > md || bounds.Dy() > md) {
		img = imaging.Fit(img, md, md, imaging.Box)
	}

	nrgba := imaging.Clone(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()

	var red, green, blue, light, dark int
	t := e.Thresholds
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			c := ToHSV(row[x], row[x+1], row[x+2])

			if c.V >= t.Light {
				light++
			} else if c.V <= t.Dark {
				dark++
			}

			if c.S < t.MinSaturation || c.V < t.MinValue {
				continue
			}
			if inAny(t.Red, c.H) {
				red++
			}
			if inAny(t.Green, c.H) {
				green++
			}
			if inAny(t.Blue, c.H) {
				blue++
			}
		}
	}

	total := float64(w * h)
	return Fractions{
		Red:   float64(red) / total,
		Green: float64(green) / total,
		Blue:  float64(blue) / total,
		Light: float64(light) / total,
		Dark:  float64(dark) / total,
	}, nil
}

func inAny(bands []Band, h uint8) bool {
	for _, b := range bands {
		if b.Contains(h) {
			return true
		}
	}
	return false
}
