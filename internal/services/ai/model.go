package ai

import (
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"

	"phenoserver/internal/config"
	"phenoserver/internal/logger"
	"phenoserver/internal/models"
)

// ModelProvider wraps a YOLO-family detection network loaded through the
// OpenCV DNN module. The image is letterboxed into a square, run through the
// network at the configured input size, and the output candidates are
// filtered by confidence and non-maximum suppression before being scaled
// back to image pixels. Class indices the network emits are passed through
// unchanged; the normalizer maps unknown ones to the fallback stage.
type ModelProvider struct {
	net           gocv.Net
	inputSize     int
	confThreshold float32
	iouThreshold  float32
	logger        *logger.Logger
}

// NewModelProvider loads the network from the configured artifact. It fails
// when the artifact is missing or the network cannot be initialized; the
// caller decides whether to fall back to the mock provider.
func NewModelProvider(cfg *config.Config, log *logger.Logger) (*ModelProvider, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNet(cfg.ModelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("failed to load network from %s", cfg.ModelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set preferable backend or target")
	}

	log.Info("Detection network initialized from %s", cfg.ModelPath)

	return &ModelProvider{
		net:           net,
		inputSize:     cfg.ModelInputSize,
		confThreshold: float32(cfg.ConfidenceThreshold),
		iouThreshold:  float32(cfg.IOUThreshold),
		logger:        log,
	}, nil
}

// Name identifies the provider kind.
func (p *ModelProvider) Name() string {
	return "model"
}

// Close releases the network.
func (p *ModelProvider) Close() {
	p.net.Close()
}

// Detect runs one inference pass over the image.
func (p *ModelProvider) Detect(img image.Image) ([]models.RawDetection, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %v", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("converted image is empty")
	}

	height, width := mat.Rows(), mat.Cols()
	maxDim := max(height, width)

	// Letterbox into a square so aspect ratio survives the resize.
	square := gocv.NewMatWithSize(maxDim, maxDim, gocv.MatTypeCV8UC3)
	defer square.Close()
	roi := square.Region(image.Rect(0, 0, width, height))
	mat.CopyTo(&roi)
	roi.Close()

	scale := float64(maxDim) / float64(p.inputSize)

	blob := gocv.BlobFromImage(square, 1.0/255.0, image.Pt(p.inputSize, p.inputSize),
		gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	p.net.SetInput(blob, "")
	output := p.net.Forward("")
	defer output.Close()

	return p.parseOutput(&output, scale), nil
}

// parseOutput reads the YOLO output tensor (1 x 4+classes x candidates),
// keeps candidates above the confidence threshold and suppresses overlaps.
func (p *ModelProvider) parseOutput(output *gocv.Mat, scale float64) []models.RawDetection {
	sizes := output.Size()
	if len(sizes) != 3 || sizes[1] <= 4 {
		p.logger.Warning("Unexpected network output shape %v", sizes)
		return nil
	}
	numClasses := sizes[1] - 4
	candidates := sizes[2]

	var boxes []image.Rectangle
	var scores []float32
	var classIDs []int

	for c := 0; c < candidates; c++ {
		bestClass := 0
		bestScore := float32(0)
		for k := 0; k < numClasses; k++ {
			if s := output.GetFloatAt3(0, 4+k, c); s > bestScore {
				bestScore = s
				bestClass = k
			}
		}
		if bestScore < p.confThreshold {
			continue
		}

		cx := output.GetFloatAt3(0, 0, c)
		cy := output.GetFloatAt3(0, 1, c)
		w := output.GetFloatAt3(0, 2, c)
		h := output.GetFloatAt3(0, 3, c)

		x1 := int(float64(cx-w/2) * scale)
		y1 := int(float64(cy-h/2) * scale)
		x2 := int(float64(cx+w/2) * scale)
		y2 := int(float64(cy+h/2) * scale)

		boxes = append(boxes, image.Rect(x1, y1, x2, y2))
		scores = append(scores, bestScore)
		classIDs = append(classIDs, bestClass)
	}

	if len(boxes) == 0 {
		return nil
	}

	indices := gocv.NMSBoxes(boxes, scores, p.confThreshold, p.iouThreshold)

	detections := make([]models.RawDetection, 0, len(indices))
	for _, i := range indices {
		box := boxes[i]
		detections = append(detections, models.RawDetection{
			X1:         float64(box.Min.X),
			Y1:         float64(box.Min.Y),
			X2:         float64(box.Max.X),
			Y2:         float64(box.Max.Y),
			Confidence: float64(scores[i]),
			ClassID:    classIDs[i],
		})
	}

	return detections
}
