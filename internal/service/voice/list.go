package voice

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/instant-voices/internal/domain"
	"github.com/heartmarshall/instant-voices/pkg/ctxutil"
)

// List returns records ordered by creation time. An empty store yields an
// empty slice. In owner scope the owner defaults to the session and is required.
func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.Voice, error) {
	owner := strings.TrimSpace(input.OwnerID)

	var filter domain.VoiceFilter
	switch s.scope {
	case domain.ScopeOwner:
		if owner == "" {
			if sid, ok := ctxutil.SessionIDFromCtx(ctx); ok {
				owner = sid
			}
		}
		if owner == "" {
			return nil, domain.NewValidationError("ownerId", "required")
		}
		filter.OwnerID = &owner
	default:
		if owner != "" {
			filter.OwnerID = &owner
		}
	}

	voices, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}
	if voices == nil {
		voices = []*domain.Voice{}
	}
	return voices, nil
}

// Get returns a single record.
func (s *Service) Get(ctx context.Context, recordID string) (*domain.Voice, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return nil, domain.NewValidationError("recordId", "required")
	}

	v, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("get voice: %w", err)
	}
	return v, nil
}

// ListMap returns the listing keyed by record id.
func (s *Service) ListMap(ctx context.Context, input ListInput) (map[string]*domain.Voice, error) {
	voices, err := s.List(ctx, input)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*domain.Voice, len(voices))
	for _, v := range voices {
		out[v.RecordID] = v
	}
	return out, nil
}
