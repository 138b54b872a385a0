package ai

import (
	"math"

	"phenoserver/internal/models"
)

// Normalize converts provider candidates into canonical detections.
// Coordinates are rounded to pixels and confidence is clamped into [0,1].
// Candidates whose corners are not strictly ordered (x1>=x2 or y1>=y2) are
// returned separately so the caller can report each skip; they never become
// canonical detections. Out-of-bounds boxes are kept as-is; clamping for
// label placement is the annotator's concern.
func Normalize(raws []models.RawDetection) (valid []models.Detection, rejected []models.RawDetection) {
	for _, raw := range raws {
		x1 := int(math.Round(raw.X1))
		y1 := int(math.Round(raw.Y1))
		x2 := int(math.Round(raw.X2))
		y2 := int(math.Round(raw.Y2))

		if x1 >= x2 || y1 >= y2 {
			rejected = append(rejected, raw)
			continue
		}

		confidence := raw.Confidence
		if confidence < 0 {
			confidence = 0
		} else if confidence > 1 {
			confidence = 1
		}

		valid = append(valid, models.Detection{
			X1:         x1,
			Y1:         y1,
			X2:         x2,
			Y2:         y2,
			Confidence: confidence,
			ClassID:    raw.ClassID,
		})
	}

	return valid, rejected
}
