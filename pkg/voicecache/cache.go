// Package voicecache keeps a client-side mirror of the custom voice store.
//
// The [Cache] is filled from the server and falls back to the last durable
// snapshot when the server cannot be reached. Mutations go to the server
// first; the cache changes only after the server confirms them, and each
// confirmed change is followed by a best-effort snapshot write.
//
// All methods are safe for concurrent use.
package voicecache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"sync"
	"time"

	"github.com/heartmarshall/instant-voices/pkg/voiceclient"
)

// State is the load state of a [Cache].
type State int

const (
	// StateUninitialized is the state before the first Load.
	StateUninitialized State = iota

	// StateLoading means a fetch from the server is in flight.
	StateLoading

	// StateReady means the entries mirror the server as of the last fetch.
	StateReady

	// StateDegradedFromFallback means the last fetch failed and the entries
	// come from the durable snapshot. A successful Reload returns to Ready.
	StateDegradedFromFallback
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateDegradedFromFallback:
		return "degraded"
	default:
		return "unknown"
	}
}

var (
	// ErrLoading is returned when a load is already in flight.
	ErrLoading = errors.New("voicecache: load in progress")

	// ErrAlreadyLoaded is returned by Load after the first load; use Reload.
	ErrAlreadyLoaded = errors.New("voicecache: already loaded")

	// ErrNotLoaded is returned by Reload before the first Load.
	ErrNotLoaded = errors.New("voicecache: not loaded")
)

// Remote is the authoritative store. *voiceclient.Client satisfies it.
type Remote interface {
	List(ctx context.Context, ownerID string) (map[string]voiceclient.Record, error)
	Upload(ctx context.Context, u voiceclient.Upload) (*voiceclient.Record, error)
	Delete(ctx context.Context, recordID, ownerID string) error
}

// Snapshotter persists the full cache between sessions.
type Snapshotter interface {
	Load() (map[string]voiceclient.Record, error)
	Save(entries map[string]voiceclient.Record) error
}

// Options configures a [Cache].
type Options struct {
	// OwnerID is sent with every request. Empty in the shared global mode.
	OwnerID string

	// Logger receives load fallbacks and snapshot failures. Default slog.Default().
	Logger *slog.Logger

	// OnSnapshotError is called after a failed snapshot write. May be nil.
	OnSnapshotError func(error)

	// Now is the clock used for new record ids. Default time.Now.
	Now func() time.Time
}

// Cache is the client voice cache.
type Cache struct {
	remote          Remote
	snap            Snapshotter
	ownerID         string
	log             *slog.Logger
	onSnapshotError func(error)
	now             func() time.Time

	mu      sync.RWMutex
	state   State
	entries map[string]voiceclient.Record
	loadErr error
}

// New creates an uninitialized cache. snap may be nil to disable the
// durable fallback.
func New(remote Remote, snap Snapshotter, opts Options) *Cache {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache{
		remote:          remote,
		snap:            snap,
		ownerID:         opts.OwnerID,
		log:             opts.Logger.With("component", "voicecache"),
		onSnapshotError: opts.OnSnapshotError,
		now:             opts.Now,
		entries:         make(map[string]voiceclient.Record),
	}
}

// State reports the current load state.
func (c *Cache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LoadErr is the fetch error behind StateDegradedFromFallback, nil otherwise.
func (c *Cache) LoadErr() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadErr
}

// Load performs the first fetch. When the server fails, the cache falls back
// to the snapshot, enters StateDegradedFromFallback and returns nil; the
// fetch error is kept in LoadErr. An error is returned only when neither
// source produced entries.
func (c *Cache) Load(ctx context.Context) error {
	return c.load(ctx, func(s State) error {
		switch s {
		case StateUninitialized:
			return nil
		case StateLoading:
			return ErrLoading
		}
		return ErrAlreadyLoaded
	})
}

// Reload fetches again from Ready or Degraded.
func (c *Cache) Reload(ctx context.Context) error {
	return c.load(ctx, func(s State) error {
		switch s {
		case StateReady, StateDegradedFromFallback:
			return nil
		case StateLoading:
			return ErrLoading
		}
		return ErrNotLoaded
	})
}

func (c *Cache) load(ctx context.Context, allowed func(State) error) error {
	c.mu.Lock()
	if err := allowed(c.state); err != nil {
		c.mu.Unlock()
		return err
	}
	prev := c.state
	c.state = StateLoading
	c.mu.Unlock()

	remote, fetchErr := c.remote.List(ctx, c.ownerID)
	if fetchErr == nil {
		c.mu.Lock()
		c.entries = remote
		c.state = StateReady
		c.loadErr = nil
		c.mu.Unlock()
		return nil
	}

	c.log.Warn("voice fetch failed, using snapshot", slog.String("error", fetchErr.Error()))

	fallback, snapErr := c.loadSnapshot()
	if snapErr != nil {
		c.log.Error("voice snapshot unreadable", slog.String("error", snapErr.Error()))

		c.mu.Lock()
		// A failed reload keeps whatever was already shown.
		if prev == StateUninitialized {
			c.entries = make(map[string]voiceclient.Record)
		}
		c.state = StateDegradedFromFallback
		c.loadErr = fetchErr
		c.mu.Unlock()
		return fmt.Errorf("load voices: %w", errors.Join(fetchErr, snapErr))
	}

	c.mu.Lock()
	c.entries = fallback
	c.state = StateDegradedFromFallback
	c.loadErr = fetchErr
	c.mu.Unlock()
	return nil
}

func (c *Cache) loadSnapshot() (map[string]voiceclient.Record, error) {
	if c.snap == nil {
		return nil, errors.New("no snapshot configured")
	}
	entries, err := c.snap.Load()
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = make(map[string]voiceclient.Record)
	}
	return entries, nil
}

// Get returns the cached record for id.
func (c *Cache) Get(recordID string) (voiceclient.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[recordID]
	return r, ok
}

// Entries returns a copy of every cached record keyed by id.
func (c *Cache) Entries() map[string]voiceclient.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.entries)
}

// Len is the number of cached records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Save uploads new audio for an existing dialogue or custom record. When the
// cached record is custom, its text and translation are sent again so the
// server keeps them.
func (c *Cache) Save(ctx context.Context, recordID string, file *voiceclient.File) (*voiceclient.Record, error) {
	u := voiceclient.Upload{
		OwnerID:  c.ownerID,
		RecordID: recordID,
		File:     file,
	}
	if existing, ok := c.Get(recordID); ok && existing.IsCustom {
		u.Text = existing.Text
		u.Translation = existing.Translation
		u.IsCustom = true
	}
	return c.put(ctx, u)
}

// Create defines a new custom dialogue with its audio. The record id is the
// current time in epoch milliseconds, bumped until it is unused.
func (c *Cache) Create(ctx context.Context, text, translation string, file *voiceclient.File) (*voiceclient.Record, error) {
	return c.put(ctx, voiceclient.Upload{
		OwnerID:     c.ownerID,
		RecordID:    c.newRecordID(),
		Text:        text,
		Translation: translation,
		IsCustom:    true,
		File:        file,
	})
}

func (c *Cache) newRecordID() string {
	id := c.now().UnixMilli()

	c.mu.RLock()
	defer c.mu.RUnlock()
	for {
		key := strconv.FormatInt(id, 10)
		if _, taken := c.entries[key]; !taken {
			return key
		}
		id++
	}
}

func (c *Cache) put(ctx context.Context, u voiceclient.Upload) (*voiceclient.Record, error) {
	rec, err := c.remote.Upload(ctx, u)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[rec.RecordID] = *rec
	snapshot := maps.Clone(c.entries)
	c.mu.Unlock()

	c.writeSnapshot(snapshot)
	return rec, nil
}

// Delete removes the record on the server, then from the cache.
func (c *Cache) Delete(ctx context.Context, recordID string) error {
	if err := c.remote.Delete(ctx, recordID, c.ownerID); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.entries, recordID)
	snapshot := maps.Clone(c.entries)
	c.mu.Unlock()

	c.writeSnapshot(snapshot)
	return nil
}

// writeSnapshot never fails the caller: the snapshot is a convenience copy.
func (c *Cache) writeSnapshot(entries map[string]voiceclient.Record) {
	if c.snap == nil {
		return
	}
	err := c.snap.Save(entries)
	if err == nil {
		return
	}

	if errors.Is(err, ErrQuotaExceeded) {
		c.log.Warn("voice snapshot over quota, delete some custom voices", slog.String("error", err.Error()))
	} else {
		c.log.Error("write voice snapshot", slog.String("error", err.Error()))
	}
	if c.onSnapshotError != nil {
		c.onSnapshotError(err)
	}
}
