package ai

import (
	"image"
	"testing"

	"phenoserver/internal/models"
)

func TestMockProvider_GeneratedDetections(t *testing.T) {
	provider := NewMockProvider(42)
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))

	for run := 0; run < 25; run++ {
		detections, err := provider.Detect(img)
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}
		if len(detections) < 1 || len(detections) > 4 {
			t.Fatalf("Run %d: got %d detections, expected 1-4", run, len(detections))
		}

		for i, det := range detections {
			if det.X1 >= det.X2 || det.Y1 >= det.Y2 {
				t.Errorf("Run %d detection %d: malformed box %+v", run, i, det)
			}
			if det.X1 < 50 || det.Y1 < 50 {
				t.Errorf("Run %d detection %d: box starts inside the margin: %+v", run, i, det)
			}
			if det.X2 > 640-50 || det.Y2 > 480-50 {
				t.Errorf("Run %d detection %d: box crosses the far margin: %+v", run, i, det)
			}
			if det.Confidence < 0.70 || det.Confidence > 0.95 {
				t.Errorf("Run %d detection %d: confidence %v outside [0.70, 0.95]", run, i, det.Confidence)
			}
			if det.ClassID < 0 || det.ClassID >= models.StageCount {
				t.Errorf("Run %d detection %d: class id %d outside known stages", run, i, det.ClassID)
			}
		}
	}
}

func TestMockProvider_FixedCount(t *testing.T) {
	provider := NewMockProvider(7)
	provider.FixedCount = 3
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))

	for run := 0; run < 5; run++ {
		detections, err := provider.Detect(img)
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}
		if len(detections) != 3 {
			t.Errorf("Run %d: got %d detections, expected exactly 3", run, len(detections))
		}
	}
}

func TestMockProvider_SmallImage(t *testing.T) {
	provider := NewMockProvider(11)
	img := image.NewRGBA(image.Rect(0, 0, 80, 60))

	for run := 0; run < 25; run++ {
		detections, err := provider.Detect(img)
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}
		for i, det := range detections {
			if det.X1 >= det.X2 || det.Y1 >= det.Y2 {
				t.Errorf("Run %d detection %d: malformed box %+v", run, i, det)
			}
			if det.X1 < 0 || det.Y1 < 0 || det.X2 > 80 || det.Y2 > 60 {
				t.Errorf("Run %d detection %d: box outside small canvas: %+v", run, i, det)
			}
		}
	}
}

func TestMockProvider_Name(t *testing.T) {
	if name := NewMockProvider(1).Name(); name != "mock" {
		t.Errorf("Name() = %q, expected %q", name, "mock")
	}
}
