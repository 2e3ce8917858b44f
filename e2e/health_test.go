package e2e

import (
	"net/http"
	"testing"
)

func TestHealthCheck(t *testing.T) {
	ta := setupApp(t, &stubRunner{})

	resp, err := doRequest(ta.app, "GET", "/health", "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	if result["status"] != "ok" {
		t.Errorf("expected status ok, got %v", result["status"])
	}
	services, ok := result["services"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected services map, got %T", result["services"])
	}
	if services["llm"] != false {
		t.Errorf("expected llm=false in test setup, got %v", services["llm"])
	}
}
