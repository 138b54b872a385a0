package ai

import (
	"testing"

	"phenoserver/internal/models"
)

func TestNormalize_ValidCandidates(t *testing.T) {
	raws := []models.RawDetection{
		{X1: 10.4, Y1: 20.6, X2: 110, Y2: 220, Confidence: 0.85, ClassID: 1},
		{X1: 0, Y1: 0, X2: 50, Y2: 50, Confidence: 0.7, ClassID: 0},
	}

	valid, rejected := Normalize(raws)
	if len(rejected) != 0 {
		t.Fatalf("Expected no rejects, got %d", len(rejected))
	}
	if len(valid) != 2 {
		t.Fatalf("Expected 2 detections, got %d", len(valid))
	}

	first := valid[0]
	if first.X1 != 10 || first.Y1 != 21 || first.X2 != 110 || first.Y2 != 220 {
		t.Errorf("Coordinates not rounded as expected: %+v", first)
	}
	if first.Confidence != 0.85 {
		t.Errorf("Confidence = %v, expected 0.85", first.Confidence)
	}
	if first.ClassID != 1 {
		t.Errorf("ClassID = %d, expected 1", first.ClassID)
	}
}

func TestNormalize_RejectsMalformedBoxes(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawDetection
	}{
		{"x1 greater than x2", models.RawDetection{X1: 100, Y1: 50, X2: 80, Y2: 150, Confidence: 0.9}},
		{"y1 greater than y2", models.RawDetection{X1: 10, Y1: 200, X2: 90, Y2: 100, Confidence: 0.9}},
		{"zero width", models.RawDetection{X1: 40, Y1: 10, X2: 40, Y2: 90, Confidence: 0.9}},
		{"zero height", models.RawDetection{X1: 10, Y1: 40, X2: 90, Y2: 40, Confidence: 0.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, rejected := Normalize([]models.RawDetection{tt.raw})
			if len(valid) != 0 {
				t.Errorf("Expected no valid detections, got %d", len(valid))
			}
			if len(rejected) != 1 {
				t.Errorf("Expected 1 reject, got %d", len(rejected))
			}
		})
	}
}

func TestNormalize_MalformedDoesNotAbortRemaining(t *testing.T) {
	raws := []models.RawDetection{
		{X1: 10, Y1: 10, X2: 60, Y2: 60, Confidence: 0.8, ClassID: 0},
		{X1: 100, Y1: 50, X2: 80, Y2: 150, Confidence: 0.9, ClassID: 1},
		{X1: 200, Y1: 200, X2: 300, Y2: 320, Confidence: 0.75, ClassID: 2},
	}

	valid, rejected := Normalize(raws)
	if len(valid) != 2 {
		t.Errorf("Expected 2 valid detections, got %d", len(valid))
	}
	if len(rejected) != 1 {
		t.Errorf("Expected 1 reject, got %d", len(rejected))
	}
}

func TestNormalize_ClampsConfidence(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{1.2, 1},
		{-0.5, 0},
		{0.5, 0.5},
	}

	for _, tt := range tests {
		valid, _ := Normalize([]models.RawDetection{
			{X1: 0, Y1: 0, X2: 10, Y2: 10, Confidence: tt.input},
		})
		if len(valid) != 1 {
			t.Fatalf("Expected 1 detection for confidence %v", tt.input)
		}
		if valid[0].Confidence != tt.expected {
			t.Errorf("Confidence %v normalized to %v, expected %v", tt.input, valid[0].Confidence, tt.expected)
		}
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	valid, rejected := Normalize(nil)
	if len(valid) != 0 || len(rejected) != 0 {
		t.Errorf("Expected empty results, got %d valid, %d rejected", len(valid), len(rejected))
	}
}
