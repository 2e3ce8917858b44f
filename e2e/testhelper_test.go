package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/masterdesk/api/internal/engine"
	"github.com/masterdesk/api/internal/handler"
	"github.com/masterdesk/api/internal/middleware"
	"github.com/masterdesk/api/internal/ratelimit"
	"github.com/masterdesk/api/internal/service"
	"github.com/masterdesk/api/internal/store"
)

// stubRunner stands in for the engine binary so tests never spawn a
// real process.
type stubRunner struct {
	stdout   string
	stderr   string
	exitCode int
	err      error
}

func (r *stubRunner) Run(_ context.Context, _ string, _ []string, _ ...engine.RunOption) (engine.Output, error) {
	if r.err != nil {
		return engine.Output{}, r.err
	}
	return engine.Output{Stdout: r.stdout, Stderr: r.stderr, ExitCode: r.exitCode}, nil
}

// testApp holds all components needed for testing
type testApp struct {
	app *fiber.App
}

// setupApp creates a Fiber app identical to main.go but with a stubbed
// engine runner and unconfigured external clients, so services use
// local/fallback behavior throughout.
func setupApp(t *testing.T, runner engine.Runner) *testApp {
	// Very high rate limit so tests don't get blocked
	return setupAppWithLimit(t, runner, 10000)
}

func setupAppWithLimit(t *testing.T, runner engine.Runner, generateCapacity int) *testApp {
	t.Helper()

	validate := validator.New()

	masteringEngine := engine.NewEngine(runner, "mastering-engine", 800)
	jobStore := store.NewJobStore()

	// Services with nil storage, so local/mock fallbacks apply
	masterService := service.NewMasterService(jobStore, masteringEngine, nil, t.TempDir(), time.Minute)
	paramsService := service.NewParamsService(nil, 3, time.Millisecond)
	analysisService := service.NewAnalysisService(masteringEngine, nil)
	uploadService := service.NewUploadService(nil)

	// Handlers
	masterHandler := handler.NewMasterHandler(masterService, validate)
	paramsHandler := handler.NewParamsHandler(paramsService, validate)
	analyzeHandler := handler.NewAnalyzeHandler(analysisService, validate)
	uploadHandler := handler.NewUploadHandler(uploadService)

	generateBucket := ratelimit.NewBucket(generateCapacity, time.Minute)

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"llm":    false,
				"r2":     false,
				"engine": "mastering-engine",
			},
		})
	})

	api := app.Group("/api")

	params := api.Group("/params", middleware.RateLimit(generateBucket))
	params.Post("/generate", paramsHandler.Generate)

	master := api.Group("/master")
	master.Post("/jobs", masterHandler.Submit)
	master.Get("/jobs/:jobId", masterHandler.Status)

	audio := api.Group("/audio")
	audio.Post("/analyze", analyzeHandler.Analyze)

	upload := api.Group("/upload")
	upload.Post("/url", uploadHandler.CreateURL)
	upload.Post("/audio", uploadHandler.Audio)

	return &testApp{app: app}
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return app.Test(req, -1)
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// pollJob polls the status endpoint until the job reaches a terminal
// state or the deadline passes, and returns the final snapshot.
func pollJob(t *testing.T, app *fiber.App, jobID string) map[string]interface{} {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := doRequest(app, "GET", "/api/master/jobs/"+jobID, "")
		if err != nil {
			t.Fatalf("status request failed: %v", err)
		}
		assertStatus(t, resp, http.StatusOK)
		result := parseJSON(t, resp)
		status, _ := result["status"].(string)
		if status == "completed" || status == "error" {
			return result
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach a terminal state in time", jobID)
	return nil
}
