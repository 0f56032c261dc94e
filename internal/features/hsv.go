package features

import "math"

// HSV is a colour on the 8-bit scales used by common image libraries:
// hue 0-179 (degrees halved), saturation and value 0-255.
type HSV struct {
	H, S, V uint8
}

// ToHSV converts 8-bit RGB to HSV.
func ToHSV(r, g, b uint8) HSV {
	maxVal := max(r, g, b)
	minVal := min(r, g, b)
	delta := float64(maxVal) - float64(minVal)

	if maxVal == 0 {
		return HSV{}
	}

	s := uint8(math.Round(255 * delta / float64(maxVal)))
	if delta == 0 {
		// Achromatic (grey).
		return HSV{H: 0, S: s, V: maxVal}
	}

	rf, gf, bf := float64(r), float64(g), float64(b)
	var h float64
	switch maxVal {
	case r:
		h = 60 * (gf - bf) / delta
	case g:
		h = 120 + 60*(bf-rf)/delta
	default:
		h = 240 + 60*(rf-gf)/delta
	}
	if h < 0 {
		h += 360
	}

	hue := int(math.Round(h/2)) % 180
	return HSV{H: uint8(hue), S: s, V: maxVal}
}
