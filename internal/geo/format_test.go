package geo_test

import (
	"testing"

	"siteproof/internal/domain"
	"siteproof/internal/geo"
)

func TestFormatDMS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		axis  domain.DMSAxis
		isLat bool
		want  string
	}{
		{
			name:  "northern latitude",
			axis:  domain.DMSAxis{Degrees: 40, Minutes: 26, Seconds: 46.00},
			isLat: true,
			want:  "40° 26' 46.00\" N",
		},
		{
			// The numeric degree keeps its sign even though the hemisphere
			// letter encodes it too.
			name:  "western longitude keeps signed degrees",
			axis:  domain.DMSAxis{Degrees: -3, Minutes: 42, Seconds: 51.67},
			isLat: false,
			want:  "-3° 42' 51.67\" W",
		},
		{
			name:  "southern latitude",
			axis:  domain.DMSAxis{Degrees: -33, Minutes: 51, Seconds: 54.5},
			isLat: true,
			want:  "-33° 51' 54.50\" S",
		},
		{
			name:  "zero degrees is north-east",
			axis:  domain.DMSAxis{Degrees: 0, Minutes: 0, Seconds: 0},
			isLat: false,
			want:  "0° 0' 0.00\" E",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := geo.FormatDMS(tt.axis, tt.isLat); got != tt.want {
				t.Fatalf("FormatDMS: got=%q want=%q", got, tt.want)
			}
		})
	}
}

func TestFormatCoordinate(t *testing.T) {
	t.Parallel()

	if got := geo.FormatCoordinate(nil); got != geo.UnknownLocation {
		t.Fatalf("nil coordinate: got=%q want=%q", got, geo.UnknownLocation)
	}

	c := &domain.GeoCoordinate{
		Latitude:  domain.DMSAxis{Degrees: 40, Minutes: 26, Seconds: 46},
		Longitude: domain.DMSAxis{Degrees: -3, Minutes: 42, Seconds: 51.67},
	}
	want := "40° 26' 46.00\" N, -3° 42' 51.67\" W"
	if got := geo.FormatCoordinate(c); got != want {
		t.Fatalf("FormatCoordinate: got=%q want=%q", got, want)
	}
}
