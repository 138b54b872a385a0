package ai

import (
	"image"
	"math/rand"
	"time"

	"phenoserver/internal/models"
)

const (
	mockMargin  = 50 // keep boxes away from the image border when feasible
	mockMinSide = 100
	mockMaxSide = 200
	mockMaxDets = 4
)

// MockProvider generates randomized detections so the demo works without a
// trained model. Boxes start at least mockMargin pixels from the left/top
// edge and stay within the right/bottom margin when the image is large
// enough; confidence is uniform in [0.70, 0.95]; the stage is uniform over
// the known classes.
type MockProvider struct {
	rng *rand.Rand

	// FixedCount pins the number of generated detections. Zero keeps the
	// random 1-4 range; tests use this to make runs deterministic.
	FixedCount int
}

// NewMockProvider creates a mock provider. A zero seed uses the current time.
func NewMockProvider(seed int64) *MockProvider {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockProvider{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Name identifies the provider kind.
func (p *MockProvider) Name() string {
	return "mock"
}

// Detect generates random candidate detections for the image.
func (p *MockProvider) Detect(img image.Image) ([]models.RawDetection, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	count := p.FixedCount
	if count <= 0 {
		count = 1 + p.rng.Intn(mockMaxDets)
	}

	detections := make([]models.RawDetection, 0, count)
	for i := 0; i < count; i++ {
		x1, x2 := p.randomSpan(width)
		y1, y2 := p.randomSpan(height)

		detections = append(detections, models.RawDetection{
			X1:         float64(x1),
			Y1:         float64(y1),
			X2:         float64(x2),
			Y2:         float64(y2),
			Confidence: 0.70 + p.rng.Float64()*0.25,
			ClassID:    p.rng.Intn(models.StageCount),
		})
	}

	return detections, nil
}

// randomSpan picks one box dimension. For images wide enough for the margins
// it returns [margin+minSide, extent-margin] spans; smaller images degrade
// to any valid span inside the extent.
func (p *MockProvider) randomSpan(extent int) (int, int) {
	maxStart := extent - mockMargin - mockMinSide
	if maxStart < mockMargin {
		// Image too small for margin constraints.
		start := p.rng.Intn(max(1, extent/2))
		end := start + 1 + p.rng.Intn(max(1, extent-start-1))
		return start, end
	}

	start := mockMargin + p.rng.Intn(maxStart-mockMargin+1)
	side := mockMinSide + p.rng.Intn(mockMaxSide-mockMinSide+1)
	end := start + side
	if end > extent-mockMargin {
		end = extent - mockMargin
	}
	return start, end
}
