package ai

import (
	"image"
	"os"

	"phenoserver/internal/models"
)

// Provider produces candidate detections for a decoded image. The contract
// is the replacement seam between the randomized generator and a trained
// model: image in, unordered detection candidates out. Implementations are
// constructed once at startup and reused across requests; they must not be
// mutated after construction.
type Provider interface {
	// Detect returns candidate detections for the image, possibly none.
	Detect(img image.Image) ([]models.RawDetection, error)

	// Name identifies the provider kind ("mock" or "model") for reporting.
	Name() string
}

// ArtifactSize stats a model artifact so startup can report what it found.
func ArtifactSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
