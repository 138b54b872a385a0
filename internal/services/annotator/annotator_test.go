package annotator

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"phenoserver/internal/models"
)

func createTestImage(t *testing.T, width, height int, fill color.RGBA) *image.RGBA {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)
	return img
}

func pixelsEqual(t *testing.T, a, b image.Image) bool {
	t.Helper()

	if a.Bounds() != b.Bounds() {
		return false
	}
	bounds := a.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ca := color.RGBAModel.Convert(a.At(x, y))
			cb := color.RGBAModel.Convert(b.At(x, y))
			if ca != cb {
				return false
			}
		}
	}
	return true
}

func TestAnnotate_EmptyListReturnsInputImage(t *testing.T) {
	a := New(models.DefaultClassTable())
	img := createTestImage(t, 120, 100, color.RGBA{R: 30, G: 60, B: 90, A: 255})

	got := a.Annotate(img, nil)
	if got != image.Image(img) {
		t.Error("Expected the input image itself for an empty detection list")
	}
}

func TestAnnotate_DoesNotMutateInput(t *testing.T) {
	a := New(models.DefaultClassTable())
	img := createTestImage(t, 200, 160, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	before := make([]uint8, len(img.Pix))
	copy(before, img.Pix)

	detections := []models.Detection{
		{X1: 40, Y1: 50, X2: 140, Y2: 130, Confidence: 0.88, ClassID: models.StageRipening},
	}
	got := a.Annotate(img, detections)

	for i := range before {
		if img.Pix[i] != before[i] {
			t.Fatal("Input image pixels were modified")
		}
	}
	if got == image.Image(img) {
		t.Error("Expected a new image, got the input itself")
	}
}

func TestAnnotate_DrawsOnCopyWithSameBounds(t *testing.T) {
	a := New(models.DefaultClassTable())
	img := createTestImage(t, 640, 480, color.RGBA{R: 200, G: 200, B: 200, A: 255})

	detections := []models.Detection{
		{X1: 100, Y1: 120, X2: 260, Y2: 280, Confidence: 0.91, ClassID: models.StageElongation},
	}
	got := a.Annotate(img, detections)

	if got.Bounds() != img.Bounds() {
		t.Errorf("Annotated bounds = %v, expected %v", got.Bounds(), img.Bounds())
	}
	if pixelsEqual(t, got, img) {
		t.Error("Expected the annotated image to differ from the input")
	}
}

func TestAnnotate_SkipsMalformedBoxes(t *testing.T) {
	a := New(models.DefaultClassTable())
	img := createTestImage(t, 160, 120, color.RGBA{R: 90, G: 90, B: 90, A: 255})

	detections := []models.Detection{
		{X1: 100, Y1: 50, X2: 80, Y2: 150, Confidence: 0.9, ClassID: models.StageDecline},
	}
	got := a.Annotate(img, detections)

	// Nothing valid to draw: the copy must stay pixel-identical to the input.
	if !pixelsEqual(t, got, img) {
		t.Error("Malformed box was drawn")
	}
}

func TestAnnotate_LabelAtTopEdgeStaysInCanvas(t *testing.T) {
	a := New(models.DefaultClassTable())
	background := color.RGBA{R: 15, G: 15, B: 15, A: 255}
	img := createTestImage(t, 320, 240, background)

	detections := []models.Detection{
		{X1: 10, Y1: 0, X2: 150, Y2: 90, Confidence: 0.85, ClassID: models.StageElongation},
	}
	got := a.Annotate(img, detections)

	if got.Bounds() != img.Bounds() {
		t.Fatalf("Annotated bounds = %v, expected %v", got.Bounds(), img.Bounds())
	}

	// The strip cannot sit above y=0, so it must be filled just below the
	// box top edge. A pixel inside the strip, left of the text start, is
	// solid stage color.
	green := color.RGBA{R: 0, G: 255, B: 0, A: 255}
	if got := color.RGBAModel.Convert(got.At(12, 3)); got != green {
		t.Errorf("Pixel inside the label strip = %v, expected %v", got, green)
	}
}
