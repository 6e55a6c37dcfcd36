package generator

import (
	"fmt"

	"go.uber.org/zap"

	"asset-forge/core/metrics"
	"asset-forge/core/models"
	"asset-forge/core/postprocess"
	"asset-forge/storage"
)

const (
	mainFile       = "main.glb"
	screenshotFile = "screenshot.png"
)

// Generator executes one generation job end to end and produces a Bundle
type Generator struct {
	backend Backend
	store   *storage.ArtifactStore
	post    *postprocess.PostProcessor
	engine  *metrics.Engine
	rules   metrics.Rules
	logger  *zap.Logger
}

// NewGenerator creates a new generator
func NewGenerator(
	backend Backend,
	store *storage.ArtifactStore,
	post *postprocess.PostProcessor,
	engine *metrics.Engine,
	rules metrics.Rules,
	logger *zap.Logger,
) *Generator {
	return &Generator{
		backend: backend,
		store:   store,
		post:    post,
		engine:  engine,
		rules:   rules,
		logger:  logger,
	}
}

// Run generates the asset for one job: backend mesh, persisted main file,
// two LOD variants, best-effort screenshot, metrics and metadata.json. Any
// error before the metadata write aborts the job; partial artifacts are
// left in place.
func (g *Generator) Run(jobID, prompt string, params models.Parameters) (*models.Bundle, error) {
	g.logger.Info("generating asset",
		zap.String("job_id", jobID),
		zap.String("prompt", prompt),
		zap.Int("seed", params.Seed))

	m, err := g.backend.GenerateMesh(prompt, params.Steps, params.GuidanceScale, params.Seed)
	if err != nil {
		return nil, fmt.Errorf("generation backend: %w", err)
	}

	if err := g.store.WriteMesh(jobID, mainFile, m, "glb"); err != nil {
		return nil, fmt.Errorf("persist main mesh: %w", err)
	}

	// Both LOD targets derive from the original face count, so lod2 is not
	// a further reduction of lod1.
	baseFaces := m.FaceCount()
	lods := make([]string, 0, 2)
	for i, divisor := range []int{2, 4} {
		target := baseFaces / divisor
		if target < 1 {
			target = 1
		}
		lod := g.post.Decimate(m, target)
		name := fmt.Sprintf("lod%d.glb", i+1)
		if err := g.store.WriteMesh(jobID, name, lod, "glb"); err != nil {
			return nil, fmt.Errorf("persist %s: %w", name, err)
		}
		lods = append(lods, name)
	}

	screenshot := screenshotFile
	if err := g.writeScreenshot(jobID, m); err != nil {
		g.logger.Warn("screenshot generation failed",
			zap.String("job_id", jobID), zap.Error(err))
		screenshot = ""
	}

	rec := g.engine.Compute(m, g.store.ArtifactPath(jobID, mainFile))

	if report := g.engine.Validate(rec, g.rules); !report.Passed {
		g.logger.Warn("generated asset failed acceptance checks",
			zap.String("job_id", jobID),
			zap.Strings("errors", report.Errors))
	}

	bundle := &models.Bundle{
		JobID:      jobID,
		Prompt:     prompt,
		Parameters: params,
		Files: models.BundleFiles{
			Main:       mainFile,
			LODs:       lods,
			Screenshot: screenshot,
		},
		Metrics: rec,
		Status:  "completed",
	}
	if err := g.store.WriteMetadata(jobID, bundle); err != nil {
		return nil, fmt.Errorf("persist metadata: %w", err)
	}

	g.logger.Info("asset generated",
		zap.String("job_id", jobID),
		zap.Int("vertices", rec.VertexCount),
		zap.Int("faces", rec.FaceCount))
	return bundle, nil
}
