package annotator

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"phenoserver/internal/models"
)

const (
	strokeWidth  = 3
	labelPadding = 5
	fontSize     = 16

	// Deterministic label sizing for when no font face is available.
	fallbackCharWidth = 8
	fallbackLabelH    = 25
)

// Annotator draws detection boxes and label strips onto copies of uploaded
// images. It never modifies the caller's image.
type Annotator struct {
	table *models.ClassTable
	face  font.Face // nil when the bundled font could not be parsed
}

// New creates an Annotator over the given class table. When the bundled
// font fails to parse, drawing falls back to the context's default face and
// labels are sized by the deterministic approximation.
func New(table *models.ClassTable) *Annotator {
	a := &Annotator{table: table}
	if parsed, err := truetype.Parse(goregular.TTF); err == nil {
		a.face = truetype.NewFace(parsed, &truetype.Options{Size: fontSize})
	}
	return a
}

// Annotate returns a copy of img with every valid detection drawn as an
// outlined box in its stage color plus a filled label strip. An empty
// detection list returns the input image itself. Boxes with unordered
// corners are skipped, not drawn.
func (a *Annotator) Annotate(img image.Image, detections []models.Detection) image.Image {
	if len(detections) == 0 {
		return img
	}

	canvas := imaging.Clone(img)
	dc := gg.NewContextForImage(canvas)
	if a.face != nil {
		dc.SetFontFace(a.face)
	}

	for _, det := range detections {
		if det.X1 >= det.X2 || det.Y1 >= det.Y2 {
			continue
		}
		a.drawDetection(dc, det)
	}

	return dc.Image()
}

func (a *Annotator) drawDetection(dc *gg.Context, det models.Detection) {
	cls := a.table.Lookup(det.ClassID)

	dc.SetColor(cls.Color)
	dc.SetLineWidth(strokeWidth)
	dc.DrawRectangle(float64(det.X1), float64(det.Y1), float64(det.Width()), float64(det.Height()))
	dc.Stroke()

	label := fmt.Sprintf("%s %.2f", cls.DisplayName, det.Confidence)
	textW, textH := a.measure(dc, label)
	stripW := textW + 2*labelPadding
	stripH := textH + 2

	// Strip sits above the box top edge, or below it when that would leave
	// the canvas; either way it is clamped inside the image.
	x := float64(det.X1)
	y := float64(det.Y1) - stripH
	if y < 0 {
		y = float64(det.Y1)
	}
	if x+stripW > float64(dc.Width()) {
		x = float64(dc.Width()) - stripW
		if x < 0 {
			x = 0
		}
	}
	if y+stripH > float64(dc.Height()) {
		y = float64(dc.Height()) - stripH
		if y < 0 {
			y = 0
		}
	}

	dc.SetColor(cls.Color)
	dc.DrawRectangle(x, y, stripW, stripH)
	dc.Fill()

	dc.SetColor(color.White)
	dc.DrawStringAnchored(label, x+labelPadding, y+stripH/2, 0, 0.35)
}

// measure returns the rendered label size, falling back to character-count
// sizing when no font face was loaded.
func (a *Annotator) measure(dc *gg.Context, label string) (float64, float64) {
	if a.face == nil {
		return float64(len(label) * fallbackCharWidth), fallbackLabelH
	}
	w, h := dc.MeasureString(label)
	return w, h
}
