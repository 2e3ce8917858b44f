package e2e

import (
	"net/http"
	"testing"
)

const submitBody = `{
	"sourceReference": "./input/track.wav",
	"parameters": {
		"platform": "streaming",
		"profileName": "Streaming Default",
		"targetLufs": -14,
		"targetPeak": -1,
		"inputTrimDb": 0,
		"compThreshold": -13,
		"compRatio": 1.6,
		"attackMs": 12,
		"releaseMs": 80,
		"eqLowHz": 120,
		"eqLowDb": -0.8,
		"eqLowQ": 0.9,
		"eqHighHz": 3500,
		"eqHighDb": 0.6,
		"eqHighQ": 0.8,
		"limiterCeiling": -1,
		"limiterLookahead": 5,
		"limiterRelease": 40
	}
}`

func TestMasterSubmitAccepted(t *testing.T) {
	ta := setupApp(t, &stubRunner{stdout: `{"finalMetrics":{"lufs":-14.1,"truePeak":-1.0}}`})

	resp, err := doRequest(ta.app, "POST", "/api/master/jobs", submitBody)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusAccepted)

	result := parseJSON(t, resp)
	jobID, _ := result["jobId"].(string)
	if jobID == "" {
		t.Fatal("expected a jobId in the accept response")
	}
	if result["status"] != "queued" {
		t.Errorf("expected queued status on accept, got %v", result["status"])
	}

	// The job must be pollable immediately after the accept response
	statusResp, err := doRequest(ta.app, "GET", "/api/master/jobs/"+jobID, "")
	if err != nil {
		t.Fatalf("status request failed: %v", err)
	}
	assertStatus(t, statusResp, http.StatusOK)
}

func TestMasterJobCompletes(t *testing.T) {
	ta := setupApp(t, &stubRunner{stdout: `{"finalMetrics":{"lufs":-14.1,"truePeak":-1.0,"crest":9.5}}`})

	resp, err := doRequest(ta.app, "POST", "/api/master/jobs", submitBody)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	accept := parseJSON(t, resp)
	jobID := accept["jobId"].(string)

	final := pollJob(t, ta.app, jobID)
	if final["status"] != "completed" {
		t.Fatalf("expected completed, got %v (error: %v)", final["status"], final["error"])
	}
	if final["progress"] != 1.0 {
		t.Errorf("expected progress 1.0 on completion, got %v", final["progress"])
	}

	metrics, ok := final["finalMetrics"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected finalMetrics, got %T", final["finalMetrics"])
	}
	if metrics["lufs"] != -14.1 {
		t.Errorf("expected lufs -14.1, got %v", metrics["lufs"])
	}

	output, ok := final["outputReference"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected outputReference, got %T", final["outputReference"])
	}
	if output["url"] == "" {
		t.Error("expected a non-empty output url")
	}
}

func TestMasterJobEngineFailure(t *testing.T) {
	ta := setupApp(t, &stubRunner{exitCode: 1, stderr: "ffmpeg: invalid argument"})

	resp, err := doRequest(ta.app, "POST", "/api/master/jobs", submitBody)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	accept := parseJSON(t, resp)
	jobID := accept["jobId"].(string)

	final := pollJob(t, ta.app, jobID)
	if final["status"] != "error" {
		t.Fatalf("expected error status, got %v", final["status"])
	}
	errMsg, _ := final["error"].(string)
	if errMsg == "" {
		t.Fatal("expected an error message on a failed job")
	}
	diagnostics, _ := final["diagnostics"].(string)
	if diagnostics != "ffmpeg: invalid argument" {
		t.Errorf("expected engine stderr in diagnostics, got %q", diagnostics)
	}
	if _, hasOutput := final["outputReference"]; hasOutput {
		t.Error("failed job must not carry an output reference")
	}
	if _, hasMetrics := final["finalMetrics"]; hasMetrics {
		t.Error("failed job must not carry final metrics")
	}
}

func TestMasterStatusUnknownJob(t *testing.T) {
	ta := setupApp(t, &stubRunner{})

	resp, err := doRequest(ta.app, "GET", "/api/master/jobs/does-not-exist", "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusNotFound)

	result := parseJSON(t, resp)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got %v", result)
	}
	if errObj["code"] != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND code, got %v", errObj["code"])
	}
}

func TestMasterSubmitValidation(t *testing.T) {
	ta := setupApp(t, &stubRunner{})

	// Missing sourceReference
	resp, err := doRequest(ta.app, "POST", "/api/master/jobs", `{"parameters":{"platform":"streaming","profileName":"x"}}`)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusBadRequest)

	result := parseJSON(t, resp)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got %v", result)
	}
	if errObj["code"] != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR code, got %v", errObj["code"])
	}

	// Malformed JSON
	resp, err = doRequest(ta.app, "POST", "/api/master/jobs", `{not json`)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusBadRequest)
}
