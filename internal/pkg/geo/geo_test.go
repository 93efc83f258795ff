package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{name: "same point", lat1: 13.736717, lon1: 100.523186, lat2: 13.736717, lon2: 100.523186, want: 0, tolerance: 0.001},
		{name: "one degree latitude at equator", lat1: 0, lon1: 0, lat2: 1, lon2: 0, want: 111194.9, tolerance: 1},
		{name: "small latitude offset near 50m", lat1: 0, lon1: 0, lat2: 0.00045, lon2: 0, want: 50.04, tolerance: 0.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Distance() = %v, want %v (±%v)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := Distance(13.736717, 100.523186, 13.737, 100.524)
	b := Distance(13.737, 100.524, 13.736717, 100.523186)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("Distance not symmetric: %v != %v", a, b)
	}
}
