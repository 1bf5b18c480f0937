package rest

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const healthTimeout = 3 * time.Second

// Pinger is a component health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to a health check.
type PingFunc func(ctx context.Context) error

// Ping calls f(ctx).
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves /live, /ready and /health for the record store and
// the audio storage backend.
type HealthHandler struct {
	components map[string]Pinger
	names      []string
	version    string
}

// NewHealthHandler creates a HealthHandler checking the named components.
func NewHealthHandler(version string, components map[string]Pinger) *HealthHandler {
	names := make([]string, 0, len(components))
	for n := range components {
		names = append(names, n)
	}
	sort.Strings(names)
	return &HealthHandler{components: components, names: names, version: version}
}

// HealthResponse is the JSON body of every health endpoint.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of one component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Live always answers 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready answers 200 when every component responds and 503 otherwise,
// naming the failed components.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	components, ok := h.check(r.Context())

	resp := HealthResponse{Status: "ok", Timestamp: time.Now()}
	status := http.StatusOK
	if !ok {
		resp.Status, status = "down", http.StatusServiceUnavailable
		resp.Components = make(map[string]CompStatus)
		for n, c := range components {
			if c.Status != "ok" {
				resp.Components[n] = CompStatus{Status: c.Status}
			}
		}
	}
	writeJSON(w, status, resp)
}

// Health reports every component with its latency, plus the build version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components, ok := h.check(r.Context())

	resp := HealthResponse{Status: "ok", Version: h.version, Components: components, Timestamp: time.Now()}
	status := http.StatusOK
	if !ok {
		resp.Status, status = "down", http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// check pings all components concurrently under one deadline.
func (h *HealthHandler) check(ctx context.Context) (map[string]CompStatus, bool) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	var (
		mu  sync.Mutex
		out = make(map[string]CompStatus, len(h.names))
		ok  = true
	)

	var g errgroup.Group
	for _, n := range h.names {
		g.Go(func() error {
			start := time.Now()
			err := h.components[n].Ping(ctx)
			st := CompStatus{Status: "ok", Latency: time.Since(start).String()}
			if err != nil {
				st = CompStatus{Status: "down", Error: err.Error()}
			}

			mu.Lock()
			out[n] = st
			if err != nil {
				ok = false
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return out, ok
}
