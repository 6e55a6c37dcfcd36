package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asset-forge/api/rest/handlers"
	"asset-forge/api/rest/routes"
	"asset-forge/core/generator"
	"asset-forge/core/metrics"
	"asset-forge/core/models"
	"asset-forge/core/postprocess"
	"asset-forge/core/scheduler"
	"asset-forge/storage"
)

func newTestServer(t *testing.T) (*httptest.Server, *scheduler.Scheduler) {
	t.Helper()
	logger := zap.NewNop()
	store, err := storage.NewArtifactStore(t.TempDir())
	require.NoError(t, err)
	gen := generator.NewGenerator(
		generator.NewProceduralBackend(),
		store,
		postprocess.NewPostProcessor(logger),
		metrics.NewEngine(),
		metrics.DefaultRules(),
		logger,
	)
	sched := scheduler.NewScheduler(gen, nil, logger, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go sched.Start(ctx)

	router := mux.NewRouter()
	routes.SetupRoutes(router, handlers.NewAssetHandler(sched, gen, logger))
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv, sched
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestGenerateAsync(t *testing.T) {
	srv, sched := newTestServer(t)

	resp := postJSON(t, srv.URL+"/generate", map[string]interface{}{"prompt": "a cube"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "Job submitted successfully", body["message"])

	jobID, ok := body["job_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, jobID)

	require.Eventually(t, func() bool {
		view, err := sched.Status(jobID)
		return err == nil && view.Status.Terminal()
	}, 10*time.Second, 5*time.Millisecond)
}

func TestGenerateSync(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/generate", map[string]interface{}{
		"prompt": "a sphere",
		"sync":   true,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "completed", body["status"])
	assert.NotEmpty(t, body["job_id"])
}

func TestGenerateSyncFailure(t *testing.T) {
	srv, _ := newTestServer(t)

	// steps 0 slips past request validation and fails in the pipeline
	resp := postJSON(t, srv.URL+"/generate", map[string]interface{}{
		"prompt": "a sphere",
		"steps":  0,
		"sync":   true,
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Contains(t, body["detail"], "Generation failed")
}

func TestGenerateMissingPrompt(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/generate", map[string]interface{}{"seed": 7})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Contains(t, body["detail"], "Invalid request")
}

func TestGenerateMalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/generate", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

func TestStatusLifecycle(t *testing.T) {
	srv, sched := newTestServer(t)

	resp := postJSON(t, srv.URL+"/generate", map[string]interface{}{"prompt": "a small cube"})
	jobID := decodeBody(t, resp)["job_id"].(string)

	require.Eventually(t, func() bool {
		view, err := sched.Status(jobID)
		return err == nil && view.Status.Terminal()
	}, 10*time.Second, 5*time.Millisecond)

	statusResp, err := http.Get(srv.URL + "/status/" + jobID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, statusResp.StatusCode)
	body := decodeBody(t, statusResp)
	assert.Equal(t, "completed", body["status"])
	assert.Equal(t, jobID, body["job_id"])

	// completed jobs flatten the result bundle into the status document
	assert.Contains(t, body, "files")
	assert.Contains(t, body, "metrics")
	assert.Contains(t, body, "prompt")
}

func TestStatusPendingHasNoResultFields(t *testing.T) {
	// no worker running, so the job stays pending
	sched := scheduler.NewScheduler(nil, nil, zap.NewNop(), 10*time.Millisecond)

	jobID := sched.Submit("queued prompt", models.DefaultParameters())
	view, err := sched.Status(jobID)
	require.NoError(t, err)
	data, err := json.Marshal(view)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.NotContains(t, body, "metrics")
	assert.NotContains(t, body, "error")
}

func TestStatusUnknownJob(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/status/does-not-exist")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Job not found", body["detail"])
}

func TestListJobs(t *testing.T) {
	srv, _ := newTestServer(t)

	postJSON(t, srv.URL+"/generate", map[string]interface{}{"prompt": "one"}).Body.Close()
	postJSON(t, srv.URL+"/generate", map[string]interface{}{"prompt": "two"}).Body.Close()

	resp, err := http.Get(srv.URL + "/jobs")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Len(t, body, 2)
}

func TestSmokeTestEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/test")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Test generation completed", body["message"])

	result, ok := body["result"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "test cube", result["prompt"])
	assert.Equal(t, "completed", result["status"])
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "healthy", body["status"])
}

func TestRootListsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Contains(t, body, "endpoints")
}
