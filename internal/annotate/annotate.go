package annotate

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"siteproof/pkg/e"
)

const (
	DefaultBoxWidth  = 1280
	DefaultBoxHeight = 1280
	DefaultQuality   = 85

	// The caption panel keeps a fixed pixel size regardless of the photo's
	// dimensions after resizing.
	panelWidth   = 480.0
	panelHeight  = 56.0
	panelOpacity = 0.6
	textInset    = 10.0
	lineHeight   = 22.0
)

// Annotator resizes photos to fit a bounding box and burns a caption panel
// into the bottom-right corner.
type Annotator struct {
	boxWidth  int
	boxHeight int
	quality   int
}

func New(boxWidth, boxHeight, quality int) *Annotator {
	if boxWidth <= 0 {
		boxWidth = DefaultBoxWidth
	}
	if boxHeight <= 0 {
		boxHeight = DefaultBoxHeight
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Annotator{boxWidth: boxWidth, boxHeight: boxHeight, quality: quality}
}

// Annotate decodes the photo, fits it into the bounding box without ever
// upscaling, composites the semi-transparent caption panel with the given
// lines, and re-encodes as JPEG. Caption overflow is clipped against the
// panel, never an error. Undecodable input fails with e.ErrImageDecode.
func (a *Annotator) Annotate(data []byte, lines []string) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, e.Wrap("annotate.Decode", e.ErrImageDecode)
	}

	fitted := fit(src, a.boxWidth, a.boxHeight)

	dc := gg.NewContextForImage(fitted)
	w := float64(dc.Width())
	h := float64(dc.Height())

	// Panel anchored south-east.
	px := w - panelWidth
	py := h - panelHeight

	dc.SetRGBA(0, 0, 0, panelOpacity)
	dc.DrawRectangle(px, py, panelWidth, panelHeight)
	dc.Fill()

	dc.Push()
	dc.DrawRectangle(px, py, panelWidth, panelHeight)
	dc.Clip()
	dc.SetRGBA(1, 1, 1, 1)
	for i, line := range lines {
		dc.DrawString(line, px+textInset, py+float64(i+1)*lineHeight)
	}
	dc.ResetClip()
	dc.Pop()

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dc.Image(), imaging.JPEG, imaging.JPEGQuality(a.quality)); err != nil {
		return nil, e.Wrap("annotate.Encode", err)
	}
	return buf.Bytes(), nil
}

// fit scales the image down to the bounding box preserving aspect ratio.
// Images already inside the box pass through untouched (no upscaling).
func fit(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return img
	}
	return imaging.Fit(img, w, h, imaging.Lanczos)
}
