package dto

import (
	"fmt"

	"phenoserver/internal/models"
)

// DetectionJSON is the wire shape of one canonical detection. Display name
// and color are resolved through the class table at construction, never
// stored on the detection itself.
type DetectionJSON struct {
	BBox        [4]int  `json:"bbox"`
	Confidence  float64 `json:"confidence"`
	ClassID     int     `json:"class_id"`
	DisplayName string  `json:"display_name"`
	Color       string  `json:"color"`
}

// NewDetectionJSON builds the wire shape for a detection, resolving stage
// metadata by class id.
func NewDetectionJSON(det models.Detection, table *models.ClassTable) DetectionJSON {
	cls := table.Lookup(det.ClassID)
	return DetectionJSON{
		BBox:        [4]int{det.X1, det.Y1, det.X2, det.Y2},
		Confidence:  det.Confidence,
		ClassID:     det.ClassID,
		DisplayName: cls.DisplayName,
		Color:       fmt.Sprintf("#%02x%02x%02x", cls.Color.R, cls.Color.G, cls.Color.B),
	}
}

// DetectResponse is the full payload returned for one upload: the canonical
// detections, the statistics, and the annotated image as base64 JPEG.
type DetectResponse struct {
	FileName       string            `json:"fileName"`
	FileSizeBytes  int64             `json:"fileSizeBytes"`
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	Detections     []DetectionJSON   `json:"detections"`
	Stats          models.Statistics `json:"stats"`
	AnnotatedImage string            `json:"annotatedImage"`
	Warning        string            `json:"warning,omitempty"`
	CompletedAt    string            `json:"completedAt"`
}

// RunEvent is broadcast to websocket viewers after each detection run.
type RunEvent struct {
	Source        string  `json:"source"`
	TotalCount    int     `json:"totalCount"`
	AvgConfidence float64 `json:"avgConfidence"`
	CompletedAt   string  `json:"completedAt"`
}
