package domain

// UnknownDate stamps photos whose EXIF block is missing or unreadable.
const UnknownDate = "Unknown Date"

// DMSAxis is one coordinate axis in degrees/minutes/seconds. Degrees carries
// the hemisphere as its sign (applied from the EXIF ref tag at decode time);
// minutes and seconds stay in [0,60).
type DMSAxis struct {
	Degrees int
	Minutes int
	Seconds float64
}

type GeoCoordinate struct {
	Latitude  DMSAxis
	Longitude DMSAxis
}

// CaptureMetadata is produced once per image by the extractor and never
// mutated afterwards. Timestamp is the raw EXIF descriptive string, passed
// through unparsed.
type CaptureMetadata struct {
	Timestamp  string
	Coordinate *GeoCoordinate
}

// FallbackMetadata is what every parse failure degrades to. The orchestrator
// applies it at a single boundary so metadata errors never fail a batch.
func FallbackMetadata() CaptureMetadata {
	return CaptureMetadata{Timestamp: UnknownDate}
}
