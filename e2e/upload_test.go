package e2e

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"
)

func TestCreateUploadURL(t *testing.T) {
	ta := setupApp(t, &stubRunner{})

	resp, err := doRequest(ta.app, "POST", "/api/upload/url", "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	uploadURL, _ := result["uploadUrl"].(string)
	if uploadURL == "" {
		t.Fatal("expected an uploadUrl")
	}
	key, _ := result["key"].(string)
	if !strings.HasPrefix(key, "sources/") {
		t.Errorf("expected a sources/ key, got %q", key)
	}
	if result["expiresAt"] == nil {
		t.Error("expected an expiry on the upload URL")
	}
}

func TestUploadAudio(t *testing.T) {
	ta := setupApp(t, &stubRunner{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="track.wav"`)
	header.Set("Content-Type", "audio/wav")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	if _, err := part.Write([]byte("RIFF....WAVE")); err != nil {
		t.Fatalf("failed to write file part: %v", err)
	}
	writer.Close()

	req, err := http.NewRequest("POST", "/api/upload/audio", &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	key, _ := result["key"].(string)
	if !strings.HasPrefix(key, "sources/") {
		t.Errorf("expected a sources/ key, got %q", key)
	}
	if result["fileUrl"] == "" {
		t.Error("expected a fileUrl")
	}
}

func TestUploadAudioMissingFile(t *testing.T) {
	ta := setupApp(t, &stubRunner{})

	resp, err := doRequest(ta.app, "POST", "/api/upload/audio", "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusBadRequest)
}
