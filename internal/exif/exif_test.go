package exif

import (
	"bytes"
	"testing"

	"siteproof/internal/domain"
)

func TestExtract_NoMetadataFallsBack(t *testing.T) {
	t.Parallel()

	inputs := [][]byte{
		nil,
		{},
		[]byte("definitely not an image"),
		bytes.Repeat([]byte{0xff, 0xd8, 0x00}, 64), // jpeg-ish garbage
	}

	for _, in := range inputs {
		meta, err := Extract(in)
		if err == nil {
			t.Fatalf("expected error for %d unreadable bytes", len(in))
		}
		if meta.Timestamp != domain.UnknownDate {
			t.Fatalf("timestamp: got=%q want=%q", meta.Timestamp, domain.UnknownDate)
		}
		if meta.Coordinate != nil {
			t.Fatalf("expected nil coordinate, got %+v", meta.Coordinate)
		}
	}
}

func TestDMSFromRationals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                     string
		degN, degD, minN, minD   int64
		secN                     int64
		want                     domain.DMSAxis
	}{
		{
			name: "plain triple",
			degN: 40, degD: 1, minN: 26, minD: 1, secN: 4600,
			want: domain.DMSAxis{Degrees: 40, Minutes: 26, Seconds: 46.00},
		},
		{
			name: "fractional seconds",
			degN: 3, degD: 1, minN: 42, minD: 1, secN: 5167,
			want: domain.DMSAxis{Degrees: 3, Minutes: 42, Seconds: 51.67},
		},
		{
			// Seconds decode is numerator/100 by policy, whatever the tag's
			// denominator claims.
			name: "denominator-independent seconds",
			degN: 55, degD: 1, minN: 45, minD: 1, secN: 2050,
			want: domain.DMSAxis{Degrees: 55, Minutes: 45, Seconds: 20.50},
		},
		{
			name: "non-unit degree denominator",
			degN: 80, degD: 2, minN: 30, minD: 2, secN: 0,
			want: domain.DMSAxis{Degrees: 40, Minutes: 15, Seconds: 0},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := dmsFromRationals(tt.degN, tt.degD, tt.minN, tt.minD, tt.secN)
			if got != tt.want {
				t.Fatalf("dmsFromRationals: got=%+v want=%+v", got, tt.want)
			}
		})
	}
}
