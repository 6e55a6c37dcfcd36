package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"asset-forge/core/generator"
	"asset-forge/core/models"
	"asset-forge/core/scheduler"
)

// AssetHandler handles generation-related HTTP requests
type AssetHandler struct {
	scheduler *scheduler.Scheduler
	generator *generator.Generator
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(sched *scheduler.Scheduler, gen *generator.Generator, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{
		scheduler: sched,
		generator: gen,
		validate:  validator.New(),
		logger:    logger,
	}
}

// GenerateRequest represents the request to generate an asset. Unset
// numeric parameters fall back to the documented defaults.
type GenerateRequest struct {
	Prompt        string   `json:"prompt" validate:"required"`
	Seed          *int     `json:"seed"`
	Steps         *int     `json:"steps" validate:"omitempty,gte=1"`
	GuidanceScale *float64 `json:"guidance_scale" validate:"omitempty,gte=0"`
	Sync          bool     `json:"sync"`
}

// GenerateResponse represents the response after submitting a generation
type GenerateResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// parameters applies the defaults for fields the request left unset
func (r *GenerateRequest) parameters() models.Parameters {
	params := models.DefaultParameters()
	if r.Seed != nil {
		params.Seed = *r.Seed
	}
	if r.Steps != nil {
		params.Steps = *r.Steps
	}
	if r.GuidanceScale != nil {
		params.GuidanceScale = *r.GuidanceScale
	}
	return params
}

// Generate handles POST /generate
func (h *AssetHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request: "+err.Error())
		return
	}
	params := req.parameters()

	if req.Sync {
		jobID := uuid.New().String()
		if _, err := h.generator.Run(jobID, req.Prompt, params); err != nil {
			h.logger.Error("synchronous generation failed",
				zap.String("job_id", jobID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Generation failed: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, GenerateResponse{
			JobID:   jobID,
			Status:  "completed",
			Message: "Asset generated successfully",
		})
		return
	}

	jobID := h.scheduler.Submit(req.Prompt, params)
	writeJSON(w, http.StatusOK, GenerateResponse{
		JobID:   jobID,
		Status:  "pending",
		Message: "Job submitted successfully",
	})
}

// GetStatus handles GET /status/{job_id}
func (h *AssetHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["job_id"]

	view, err := h.scheduler.Status(jobID)
	if err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ListJobs handles GET /jobs
func (h *AssetHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scheduler.List())
}

// Test handles GET /test: a synchronous smoke-test generation with fixed
// parameters. It always answers 200, reporting success or error in the body.
func (h *AssetHandler) Test(w http.ResponseWriter, r *http.Request) {
	jobID := uuid.New().String()
	params := models.Parameters{Seed: 42, Steps: 10, GuidanceScale: 5.0}

	bundle, err := h.generator.Run(jobID, "test cube", params)
	if err != nil {
		h.logger.Error("test generation failed", zap.String("job_id", jobID), zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "error",
			"message": "Test generation failed: " + err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Test generation completed",
		"result":  bundle,
	})
}

// Health handles GET /health
func (h *AssetHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "API is running",
	})
}

// Root handles GET / with basic service information
func (h *AssetHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Asset Forge API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"generate": "/generate",
			"status":   "/status/{job_id}",
			"jobs":     "/jobs",
			"health":   "/health",
			"test":     "/test",
			"metrics":  "/metrics",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
