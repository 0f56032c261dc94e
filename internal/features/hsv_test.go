package features

import "testing"

func TestToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    HSV
	}{
		{"black", 0, 0, 0, HSV{0, 0, 0}},
		{"white", 255, 255, 255, HSV{0, 0, 255}},
		{"grey", 128, 128, 128, HSV{0, 0, 128}},
		{"red", 255, 0, 0, HSV{0, 255, 255}},
		{"green", 0, 255, 0, HSV{60, 255, 255}},
		{"blue", 0, 0, 255, HSV{120, 255, 255}},
		{"yellow", 255, 255, 0, HSV{30, 255, 255}},
		{"magenta", 255, 0, 255, HSV{150, 255, 255}},
		{"crimson wraps high", 255, 0, 10, HSV{179, 255, 255}},
		{"near-red wraps to zero", 255, 0, 1, HSV{0, 255, 255}},
		{"dark navy", 0, 0, 64, HSV{120, 255, 64}},
		{"pale pink", 200, 180, 180, HSV{0, 26, 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHSV(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("ToHSV(%d,%d,%d) = %+v, want %+v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}
