package voice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/instant-voices/internal/domain"
	"github.com/heartmarshall/instant-voices/pkg/ctxutil"
)

// Delete removes a record and releases its stored audio.
// Returns domain.ErrNotFound when there is nothing to delete.
func (s *Service) Delete(ctx context.Context, input DeleteInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	recordID := strings.TrimSpace(input.RecordID)

	var owner *string
	if s.scope == domain.ScopeOwner {
		o := strings.TrimSpace(input.OwnerID)
		if o == "" {
			if sid, ok := ctxutil.SessionIDFromCtx(ctx); ok {
				o = sid
			}
		}
		if o == "" {
			return domain.NewValidationError("ownerId", "required")
		}
		owner = &o
	}

	deleted, err := s.repo.Delete(ctx, recordID, owner)
	if err != nil {
		return fmt.Errorf("delete voice: %w", err)
	}

	s.release(ctx, recordID, deleted.Audio)
	s.rec.VoiceDeleted(ctx)

	s.log.InfoContext(ctx, "voice deleted",
		slog.String("record_id", recordID),
		slog.String("owner_id", deleted.OwnerID),
	)

	return nil
}
