// Package memory provides an in-process voice repository. It backs tests and
// the database.driver=memory mode; data does not survive a restart.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/heartmarshall/instant-voices/internal/domain"
)

// VoiceRepo stores custom voices in a map keyed by record id.
type VoiceRepo struct {
	mu      sync.RWMutex
	records map[string]domain.Voice

	// txMu serializes RunInTx callers.
	txMu sync.Mutex
}

// NewVoiceRepo creates an empty repository.
func NewVoiceRepo() *VoiceRepo {
	return &VoiceRepo{records: make(map[string]domain.Voice)}
}

// GetByID returns a copy of the record or domain.ErrNotFound.
func (r *VoiceRepo) GetByID(_ context.Context, recordID string) (*domain.Voice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.records[recordID]
	if !ok {
		return nil, fmt.Errorf("custom_voice %s: %w", recordID, domain.ErrNotFound)
	}
	return cloneVoice(v), nil
}

// GetForUpdate behaves like GetByID; RunInTx already holds the write lock.
func (r *VoiceRepo) GetForUpdate(ctx context.Context, recordID string) (*domain.Voice, error) {
	return r.GetByID(ctx, recordID)
}

// List returns matching records ordered by creation time, then record id.
func (r *VoiceRepo) List(_ context.Context, filter domain.VoiceFilter) ([]*domain.Voice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Voice, 0, len(r.records))
	for _, v := range r.records {
		if filter.Matches(&v) {
			out = append(out, cloneVoice(v))
		}
	}

	slices.SortFunc(out, func(a, b *domain.Voice) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if a.RecordID < b.RecordID {
			return -1
		}
		if a.RecordID > b.RecordID {
			return 1
		}
		return 0
	})
	return out, nil
}

// Upsert mirrors the PostgreSQL upsert: owner, text, translation and
// updated_at always change on conflict, audio fields only when replaceAudio.
func (r *VoiceRepo) Upsert(_ context.Context, v *domain.Voice, replaceAudio bool) (*domain.Voice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := *cloneVoice(*v)
	if prev, ok := r.records[v.RecordID]; ok {
		merged := prev
		merged.OwnerID = next.OwnerID
		merged.Text = next.Text
		merged.Translation = next.Translation
		merged.UpdatedAt = next.UpdatedAt
		if replaceAudio {
			merged.Audio = next.Audio
			merged.MIMEType = next.MIMEType
			merged.OriginalFileName = next.OriginalFileName
			merged.SizeBytes = next.SizeBytes
			merged.SourceLastModified = next.SourceLastModified
		}
		next = merged
	}

	r.records[next.RecordID] = next
	return cloneVoice(next), nil
}

// Delete removes the record and returns it. ownerID, when set, must match.
func (r *VoiceRepo) Delete(_ context.Context, recordID string, ownerID *string) (*domain.Voice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.records[recordID]
	if !ok || (ownerID != nil && v.OwnerID != *ownerID) {
		return nil, fmt.Errorf("custom_voice %s: %w", recordID, domain.ErrNotFound)
	}
	delete(r.records, recordID)
	return cloneVoice(v), nil
}

// Len returns the number of stored records.
func (r *VoiceRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// RunInTx runs fn with exclusive access to the repository. On error or
// panic the repository is restored to its state before fn ran.
func (r *VoiceRepo) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.RLock()
	snapshot := maps.Clone(r.records)
	r.mu.RUnlock()

	restore := func() {
		r.mu.Lock()
		r.records = snapshot
		r.mu.Unlock()
	}

	defer func() {
		if p := recover(); p != nil {
			restore()
			panic(p)
		}
	}()

	if err := fn(ctx); err != nil {
		restore()
		return err
	}
	return nil
}

func cloneVoice(v domain.Voice) *domain.Voice {
	out := v
	if v.Text != nil {
		s := *v.Text
		out.Text = &s
	}
	if v.Translation != nil {
		s := *v.Translation
		out.Translation = &s
	}
	return &out
}
