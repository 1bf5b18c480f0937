package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/heartmarshall/instant-voices/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		Storage: config.StorageConfig{
			Backend:             config.StorageDisk,
			MaxUploadBytes:      1 << 20,
			AllowedMIMETypesRaw: "audio/mpeg,audio/wav,audio/ogg,audio/mp4,video/mp4",
			DiskDir:             t.TempDir(),
			PublicPath:          "/uploads/",
		},
		Voices: config.VoicesConfig{Scope: "global"},
		Auth: config.AuthConfig{
			SessionSecret: "this-is-a-very-long-session-secret-for-testing",
			SessionIssuer: "instant-voices-test",
			SessionTTL:    time.Hour,
		},
		RateLimit: config.RateLimitConfig{UploadsPerMinute: 100},
		Metrics:   config.MetricsConfig{Path: "/metrics"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return cfg
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	handler, cleanup, err := Build(context.Background(), testConfig(t), slog.Default())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		srv.Close()
		cleanup()
	})
	return srv
}

func do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestBuild_GuestUploadListDelete(t *testing.T) {
	srv := newTestServer(t)

	// Guest session.
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/auth/guest", nil)
	resp, body := do(t, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("guest status = %d: %s", resp.StatusCode, body)
	}
	var guest struct {
		SessionID string `json:"sessionId"`
		Token     string `json:"token"`
	}
	if err := json.Unmarshal(body, &guest); err != nil {
		t.Fatalf("decode guest: %v", err)
	}

	// Upload without ownerId; the session supplies it.
	audio := []byte("ID3\x03\x00\x00\x00\x00\x00\x00fake mp3 frames")
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("recordId", "1")
	fw, _ := mw.CreateFormFile("file", "one.mp3")
	_, _ = fw.Write(audio)
	_ = mw.Close()

	req, _ = http.NewRequest(http.MethodPost, srv.URL+"/voices", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+guest.Token)
	resp, body = do(t, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d: %s", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id on response")
	}
	var rec struct {
		RecordID string `json:"recordId"`
		OwnerID  string `json:"ownerId"`
		AudioURL string `json:"audioUrl"`
		MIMEType string `json:"mimeType"`
	}
	if err := json.Unmarshal(body, &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.OwnerID != guest.SessionID {
		t.Errorf("ownerId = %q, want session %q", rec.OwnerID, guest.SessionID)
	}
	if rec.MIMEType != "audio/mpeg" {
		t.Errorf("mimeType = %q, want sniffed audio/mpeg", rec.MIMEType)
	}
	if !strings.HasPrefix(rec.AudioURL, "/uploads/") {
		t.Fatalf("audioUrl = %q", rec.AudioURL)
	}

	// Stored file is served.
	req, _ = http.NewRequest(http.MethodGet, srv.URL+rec.AudioURL, nil)
	resp, body = do(t, req)
	if resp.StatusCode != http.StatusOK || !bytes.Equal(body, audio) {
		t.Fatalf("file status = %d, body match = %v", resp.StatusCode, bytes.Equal(body, audio))
	}

	// Listed.
	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/voices", nil)
	resp, body = do(t, req)
	var listed map[string]json.RawMessage
	if err := json.Unmarshal(body, &listed); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d err = %v", resp.StatusCode, err)
	}
	if _, ok := listed["1"]; !ok || len(listed) != 1 {
		t.Errorf("listed = %v", listed)
	}

	// Deleted, and the file goes with it.
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/voices/1", nil)
	resp, _ = do(t, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	req, _ = http.NewRequest(http.MethodGet, srv.URL+rec.AudioURL, nil)
	if resp, _ = do(t, req); resp.StatusCode != http.StatusNotFound {
		t.Errorf("file after delete status = %d, want 404", resp.StatusCode)
	}
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/voices/1", nil)
	if resp, _ = do(t, req); resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}

	// Metrics reflect the traffic.
	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/metrics", nil)
	resp, body = do(t, req)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "voices_upserts") {
		t.Errorf("metrics status = %d, has upserts = %v", resp.StatusCode, strings.Contains(string(body), "voices_upserts"))
	}
}

func TestBuild_RejectsBadToken(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/voices", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	if resp, _ := do(t, req); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestBuild_HealthWithMemoryStore(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/live", "/ready", "/health"} {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+path, nil)
		if resp, body := do(t, req); resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d: %s", path, resp.StatusCode, body)
		}
	}
}

func TestBuild_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "sqlite"

	if _, _, err := Build(context.Background(), cfg, slog.Default()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestBuild_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Disabled = true

	handler, cleanup, err := Build(context.Background(), cfg, slog.Default())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		srv.Close()
		cleanup()
	})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/metrics", nil)
	if resp, _ := do(t, req); resp.StatusCode != http.StatusNotFound {
		t.Errorf("/metrics status = %d, want 404 with metrics disabled", resp.StatusCode)
	}
}
