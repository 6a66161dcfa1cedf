package geo

import (
	"fmt"

	"siteproof/internal/domain"
)

// UnknownLocation is stamped when an image carries no usable GPS block,
// mirroring the Unknown Date timestamp fallback.
const UnknownLocation = "Unknown Location"

// FormatDMS renders one axis as `{deg}° {min}' {sec:.2f}" {hemisphere}`.
// The hemisphere letter comes from the sign of Degrees and the numeric field
// keeps that sign, so southern/western axes read like `-3° 42' 51.67" W`.
// Pure and total: degrees and minutes pass through unvalidated.
func FormatDMS(a domain.DMSAxis, isLatitude bool) string {
	var hemi string
	if isLatitude {
		hemi = "N"
		if a.Degrees < 0 {
			hemi = "S"
		}
	} else {
		hemi = "E"
		if a.Degrees < 0 {
			hemi = "W"
		}
	}
	return fmt.Sprintf("%d° %d' %.2f\" %s", a.Degrees, a.Minutes, a.Seconds, hemi)
}

// FormatCoordinate renders a full coordinate as "lat, lon".
func FormatCoordinate(c *domain.GeoCoordinate) string {
	if c == nil {
		return UnknownLocation
	}
	return FormatDMS(c.Latitude, true) + ", " + FormatDMS(c.Longitude, false)
}
