package rest

import (
	"net/http"
	"strings"
)

// Routes holds the handlers mounted by NewRouter. Nil optional handlers are
// left unmounted.
type Routes struct {
	Voices *VoiceHandler
	Guest  *GuestHandler
	Health *HealthHandler

	// UploadLimit wraps POST /voices. Optional.
	UploadLimit func(http.Handler) http.Handler

	// Metrics is served at MetricsPath. Optional.
	Metrics     http.Handler
	MetricsPath string

	// Files serves stored audio under FilesPath (disk storage). Optional.
	Files     http.Handler
	FilesPath string
}

// NewRouter mounts all endpoints on a new ServeMux.
func NewRouter(rt Routes) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", rt.Health.Live)
	mux.HandleFunc("GET /ready", rt.Health.Ready)
	mux.HandleFunc("GET /health", rt.Health.Health)

	mux.HandleFunc("POST /auth/guest", rt.Guest.Issue)

	var upload http.Handler = http.HandlerFunc(rt.Voices.Upsert)
	if rt.UploadLimit != nil {
		upload = rt.UploadLimit(upload)
	}
	mux.HandleFunc("GET /voices", rt.Voices.List)
	mux.Handle("POST /voices", upload)
	mux.HandleFunc("GET /voices/{recordId}", rt.Voices.Get)
	mux.HandleFunc("DELETE /voices/{recordId}", rt.Voices.Delete)

	if rt.Metrics != nil && rt.MetricsPath != "" {
		mux.Handle("GET "+rt.MetricsPath, rt.Metrics)
	}
	if rt.Files != nil && rt.FilesPath != "" {
		path := rt.FilesPath
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}
		mux.Handle("GET "+path, rt.Files)
	}

	return mux
}
