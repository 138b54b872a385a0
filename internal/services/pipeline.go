package services

import (
	"encoding/json"
	"image"
	"time"

	"phenoserver/internal/dto"
	"phenoserver/internal/logger"
	"phenoserver/internal/models"
	"phenoserver/internal/services/ai"
	"phenoserver/internal/services/annotator"
	"phenoserver/internal/services/websocket"
)

// Pipeline runs one synchronous detection pass per uploaded image:
// provider -> normalizer -> {annotator, statistics}. The provider and class
// table are constructed once at startup and reused; nothing in a run
// survives the request.
type Pipeline struct {
	provider  ai.Provider
	table     *models.ClassTable
	annotator *annotator.Annotator
	hub       *websocket.HubService
	logger    *logger.Logger
}

// Result carries everything the presentation layer consumes from one run.
type Result struct {
	Detections []models.Detection
	Annotated  image.Image
	Stats      models.Statistics
	// ProviderErr is set when detection failed; Detections is then empty and
	// Annotated is the original image.
	ProviderErr error
}

// NewPipeline wires the detection pipeline. The hub may be nil, in which
// case run events are not broadcast.
func NewPipeline(provider ai.Provider, table *models.ClassTable, hub *websocket.HubService, log *logger.Logger) *Pipeline {
	return &Pipeline{
		provider:  provider,
		table:     table,
		annotator: annotator.New(table),
		hub:       hub,
		logger:    log,
	}
}

// Provider exposes the active detection provider.
func (p *Pipeline) Provider() ai.Provider {
	return p.provider
}

// Table exposes the class table used for metadata lookups.
func (p *Pipeline) Table() *models.ClassTable {
	return p.table
}

// Process runs the full pipeline over one decoded image. Provider failures
// do not abort the run: the result degrades to an empty detection set over
// the original image, with ProviderErr set for reporting.
func (p *Pipeline) Process(img image.Image, source string) *Result {
	result := &Result{}

	raws, err := p.provider.Detect(img)
	if err != nil {
		p.logger.Error("Detection failed for %s: %v", source, err)
		result.ProviderErr = err
		raws = nil
	}

	valid, rejected := ai.Normalize(raws)
	for _, r := range rejected {
		p.logger.Warning("Skipping malformed detection box [%.0f %.0f %.0f %.0f] from %s",
			r.X1, r.Y1, r.X2, r.Y2, source)
	}
	p.warnOutOfBounds(valid, img.Bounds(), source)

	result.Detections = valid
	result.Annotated = p.annotator.Annotate(img, valid)
	result.Stats = ComputeStatistics(valid, p.table)

	p.broadcast(source, result.Stats)
	return result
}

// warnOutOfBounds reports boxes extending past the canvas. They are still
// drawn; only label placement gets clamped.
func (p *Pipeline) warnOutOfBounds(detections []models.Detection, bounds image.Rectangle, source string) {
	for _, det := range detections {
		if det.X1 < bounds.Min.X || det.Y1 < bounds.Min.Y ||
			det.X2 > bounds.Max.X || det.Y2 > bounds.Max.Y {
			p.logger.Warning("Detection box [%d %d %d %d] extends outside the %dx%d canvas in %s",
				det.X1, det.Y1, det.X2, det.Y2, bounds.Dx(), bounds.Dy(), source)
		}
	}
}

func (p *Pipeline) broadcast(source string, stats models.Statistics) {
	if p.hub == nil {
		return
	}

	event := dto.RunEvent{
		Source:        source,
		TotalCount:    stats.TotalCount,
		AvgConfidence: stats.AvgConfidence,
		CompletedAt:   time.Now().Format("2006-01-02 15:04:05"),
	}
	message, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Error encoding run event: %v", err)
		return
	}
	p.hub.Broadcast(message)
}
