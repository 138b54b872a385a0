package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"net/http"
	"time"

	"phenoserver/internal/dto"
	"phenoserver/internal/logger"
	"phenoserver/internal/services"
)

const maxUploadBytes = 32 << 20

// DetectHandler accepts one image upload (multipart field "image"), runs the
// detection pipeline once, and responds with the canonical detections, the
// statistics, and the annotated image as base64 JPEG.
func DetectHandler(pipeline *services.Pipeline, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			http.Error(w, "No image file provided. Use 'image' as the form field name", http.StatusBadRequest)
			return
		}
		defer file.Close()

		img, format, err := image.Decode(file)
		if err != nil {
			http.Error(w, "Invalid image format. Supported: JPEG, PNG", http.StatusBadRequest)
			return
		}

		log.Info("Received %s (%d bytes, %s, %dx%d)",
			header.Filename, header.Size, format, img.Bounds().Dx(), img.Bounds().Dy())

		result := pipeline.Process(img, header.Filename)

		annotated, err := encodeJPEGBase64(result.Annotated)
		if err != nil {
			log.Error("Failed to encode annotated image: %v", err)
			http.Error(w, "Failed to encode annotated image", http.StatusInternalServerError)
			return
		}

		detections := make([]dto.DetectionJSON, 0, len(result.Detections))
		for _, det := range result.Detections {
			detections = append(detections, dto.NewDetectionJSON(det, pipeline.Table()))
		}

		response := dto.DetectResponse{
			FileName:       header.Filename,
			FileSizeBytes:  header.Size,
			Width:          img.Bounds().Dx(),
			Height:         img.Bounds().Dy(),
			Detections:     detections,
			Stats:          result.Stats,
			AnnotatedImage: annotated,
			CompletedAt:    time.Now().Format("2006-01-02 15:04:05"),
		}
		if result.ProviderErr != nil {
			response.Warning = "Detection failed; showing the original image with no results"
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Error("Error encoding JSON response: %v", err)
		}
	}
}

func encodeJPEGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
