// Package voiceclient is the HTTP client for the custom voice API. It packs
// uploads into a single multipart request and decodes the server's error
// responses into errors that match the package sentinels.
package voiceclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	pathVoices = "/voices"
	pathGuest  = "/auth/guest"

	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	contentTypeJSON     = "application/json"

	defaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Record is a custom voice record as returned by the server.
type Record struct {
	RecordID           string    `json:"recordId"`
	OwnerID            string    `json:"ownerId"`
	Text               string    `json:"text,omitempty"`
	Translation        string    `json:"translation,omitempty"`
	IsCustom           bool      `json:"isCustom"`
	AudioURL           string    `json:"audioUrl,omitempty"`
	MIMEType           string    `json:"mimeType,omitempty"`
	OriginalFileName   string    `json:"originalFileName,omitempty"`
	SizeBytes          int64     `json:"sizeBytes"`
	SourceLastModified int64     `json:"sourceLastModified,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// HasAudio reports whether the record carries playable audio.
func (r Record) HasAudio() bool { return r.AudioURL != "" }

// GuestSession is an anonymous session issued by the server.
type GuestSession struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Client talks to one voice server. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	retries    uint64

	mu    sync.RWMutex
	token string
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the logger used for retry notices.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithReadRetries retries List and Get up to n times with exponential backoff
// when the server is unavailable. Writes are never retried.
func WithReadRetries(n uint64) Option {
	return func(c *Client) { c.retries = n }
}

// New returns a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token. An empty token sends no header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Guest requests a new anonymous session. The token is not installed; call
// SetToken to use it.
func (c *Client) Guest(ctx context.Context) (*GuestSession, error) {
	var out GuestSession
	if err := c.doJSON(ctx, http.MethodPost, pathGuest, nil, &out); err != nil {
		return nil, fmt.Errorf("guest session: %w", err)
	}
	return &out, nil
}

// List returns every record visible to ownerID, keyed by record id. An empty
// ownerID lists the whole store.
func (c *Client) List(ctx context.Context, ownerID string) (map[string]Record, error) {
	path := pathVoices
	if ownerID != "" {
		path += "?" + url.Values{"ownerId": {ownerID}}.Encode()
	}

	out := make(map[string]Record)
	err := c.retryRead(ctx, func() error {
		clear(out)
		return c.doJSON(ctx, http.MethodGet, path, nil, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}
	return out, nil
}

// Get returns one record.
func (c *Client) Get(ctx context.Context, recordID string) (*Record, error) {
	if recordID == "" {
		return nil, fmt.Errorf("get voice: record id: %w", ErrBadRequest)
	}

	var out Record
	err := c.retryRead(ctx, func() error {
		return c.doJSON(ctx, http.MethodGet, pathVoices+"/"+url.PathEscape(recordID), nil, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("get voice %s: %w", recordID, err)
	}
	return &out, nil
}

// Delete removes a record. ownerID is only checked by servers running in
// owner scope.
func (c *Client) Delete(ctx context.Context, recordID, ownerID string) error {
	if recordID == "" {
		return fmt.Errorf("delete voice: record id: %w", ErrBadRequest)
	}

	path := pathVoices + "/" + url.PathEscape(recordID)
	if ownerID != "" {
		path += "?" + url.Values{"ownerId": {ownerID}}.Encode()
	}
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete voice %s: %w", recordID, err)
	}
	return nil
}

func (c *Client) retryRead(ctx context.Context, op func() error) error {
	if c.retries == 0 {
		return op()
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries), ctx)
	return backoff.RetryNotify(func() error {
		err := op()
		if err != nil && !errors.Is(err, ErrUnavailable) {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, wait time.Duration) {
		c.log.Warn("voice server unavailable, retrying",
			slog.String("error", err.Error()),
			slog.Duration("wait", wait),
		)
	})
}

// doJSON sends body (when non-nil, with its content type) and decodes a
// successful JSON response into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body *payload, out any) error {
	var (
		reader      io.Reader = http.NoBody
		contentType string
	)
	if body != nil {
		reader = bytes.NewReader(body.data)
		contentType = body.contentType
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(headerAccept, contentTypeJSON)
	if contentType != "" {
		req.Header.Set(headerContentType, contentType)
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// payload is a prepared request body.
type payload struct {
	data        []byte
	contentType string
}
