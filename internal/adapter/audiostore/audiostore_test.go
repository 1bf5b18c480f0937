package audiostore

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/heartmarshall/instant-voices/internal/domain"
)

func payload() *domain.AudioPayload {
	return &domain.AudioPayload{
		Data:             []byte("ID3fake-mp3-bytes"),
		MIMEType:         "audio/mpeg",
		OriginalFileName: "hello.mp3",
	}
}

func TestInline_PutProducesDataURL(t *testing.T) {
	t.Parallel()

	ref, err := NewInline().Put(context.Background(), "1", payload())
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	want := "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString([]byte("ID3fake-mp3-bytes"))
	if ref.URL != want {
		t.Errorf("URL = %q, want %q", ref.URL, want)
	}
	if ref.Kind != domain.AudioKindInline || ref.IsExternal() {
		t.Errorf("unexpected ref: %+v", ref)
	}
	if err := NewInline().Release(context.Background(), ref); err != nil {
		t.Errorf("Release: %v", err)
	}
}

func TestDisk_PutServeRelease(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	d, err := NewDisk(dir, "/uploads/", "")
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}

	ref, err := d.Put(context.Background(), "new-1", payload())
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !ref.IsExternal() {
		t.Fatalf("expected external ref, got %+v", ref)
	}
	if !strings.HasPrefix(ref.URL, "/uploads/new-1-") || !strings.HasSuffix(ref.URL, ".mp3") {
		t.Errorf("URL = %q", ref.URL)
	}

	// Served under the public path.
	srv := httptest.NewServer(mux(d))
	defer srv.Close()

	resp, err := http.Get(srv.URL + ref.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ID3fake-mp3-bytes" {
		t.Fatalf("GET %s = %d %q", ref.URL, resp.StatusCode, body)
	}

	// Directory listing is hidden.
	resp, err = http.Get(srv.URL + "/uploads/")
	if err != nil {
		t.Fatalf("GET dir: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("directory listing status = %d, want 404", resp.StatusCode)
	}

	if err := d.Release(context.Background(), ref); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ref.Key)); !os.IsNotExist(err) {
		t.Fatalf("file still exists after Release: %v", err)
	}
	// Releasing twice is fine.
	if err := d.Release(context.Background(), ref); err != nil {
		t.Fatalf("second Release: %v", err)
	}
}

func TestDisk_PutIsAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	d, err := NewDisk(dir, "/uploads/", "")
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	ref, err := d.Put(context.Background(), "1", payload())
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != ref.Key {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Fatalf("dir = %v, want only %s", names, ref.Key)
	}
	info, _ := entries[0].Info()
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}

	// An in-flight temp file is neither served nor swept.
	if err := os.WriteFile(filepath.Join(dir, ".upload-123"), []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(mux(d))
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/uploads/.upload-123")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("temp file status = %d, want 404", resp.StatusCode)
	}
	objs, err := d.Objects(context.Background())
	if err != nil {
		t.Fatalf("Objects: %v", err)
	}
	if len(objs) != 1 || objs[0].Key != ref.Key {
		t.Errorf("Objects = %+v, want only %s", objs, ref.Key)
	}
}

func TestDisk_ReleaseRejectsForeignKeys(t *testing.T) {
	t.Parallel()

	d, err := NewDisk(t.TempDir(), "/uploads/", "")
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}

	err = d.Release(context.Background(), domain.AudioRef{Kind: domain.AudioKindURL, URL: "x", Key: "../etc/passwd"})
	if err == nil {
		t.Fatal("expected error for key with path separators")
	}
}

func TestDisk_PublicURLWithBase(t *testing.T) {
	t.Parallel()

	d, err := NewDisk(t.TempDir(), "/uploads/", "https://voices.example.com/")
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	if got := d.publicURL("a.mp3"); got != "https://voices.example.com/uploads/a.mp3" {
		t.Errorf("publicURL = %q", got)
	}
}

func TestPublicObjectURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  MinioConfig
		want string
	}{
		{"base url", MinioConfig{BaseURL: "https://cdn.example.com/voices/"}, "https://cdn.example.com/voices/k.mp3"},
		{"plain endpoint", MinioConfig{Endpoint: "minio:9000", Bucket: "voices"}, "http://minio:9000/voices/k.mp3"},
		{"ssl endpoint", MinioConfig{Endpoint: "s3.local", Bucket: "b", UseSSL: true}, "https://s3.local/b/k.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := publicObjectURL(tt.cfg, "k.mp3"); got != tt.want {
				t.Errorf("publicObjectURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	k := objectKey("../../weird id", "audio/wav")
	if strings.Contains(k, "/") || strings.Contains(k, " ") {
		t.Errorf("unsafe key %q", k)
	}
	if !strings.HasPrefix(k, "weirdid-") {
		t.Errorf("key prefix = %q", k)
	}
	if !strings.HasSuffix(k, ".wav") {
		t.Errorf("key extension = %q", k)
	}

	if k := objectKey("", "application/x-unknown"); !strings.HasPrefix(k, "voice-") || !strings.HasSuffix(k, ".bin") {
		t.Errorf("fallback key = %q", k)
	}
}

func mux(d *Disk) http.Handler {
	m := http.NewServeMux()
	m.Handle(d.PublicPath(), d.Handler())
	return m
}
