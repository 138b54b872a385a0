package services

import (
	"phenoserver/internal/models"
)

// ComputeStatistics aggregates a detection set: total count, occurrences per
// stage display name, and mean confidence. The empty set yields zero counts
// and an average of 0, never NaN. Deterministic, no side effects.
func ComputeStatistics(detections []models.Detection, table *models.ClassTable) models.Statistics {
	stats := models.Statistics{
		ByStage: make(map[string]int),
	}

	if len(detections) == 0 {
		return stats
	}

	sum := 0.0
	for _, det := range detections {
		stats.ByStage[table.Lookup(det.ClassID).DisplayName]++
		sum += det.Confidence
	}

	stats.TotalCount = len(detections)
	stats.AvgConfidence = sum / float64(len(detections))
	return stats
}
