package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/instant-voices/internal/domain"
	"github.com/heartmarshall/instant-voices/pkg/ctxutil"
)

// Upsert creates the record for input.RecordID or merges into the existing one.
//
// Text, translation and owner are always overwritten. Audio fields change only
// when input.Audio is set. IsCustom is fixed by the first write. Size and media
// type are checked before anything is stored; a failed write leaves the
// previous record untouched and releases any audio stored for it.
func (s *Service) Upsert(ctx context.Context, input UpsertInput) (*domain.Voice, error) {
	if strings.TrimSpace(input.OwnerID) == "" {
		if sid, ok := ctxutil.SessionIDFromCtx(ctx); ok {
			input.OwnerID = sid
		}
	}

	if err := input.Validate(); err != nil {
		s.rec.UploadRejected(ctx, "validation")
		return nil, err
	}

	recordID := strings.TrimSpace(input.RecordID)
	ownerID := strings.TrimSpace(input.OwnerID)

	payload, err := s.checkAudio(ctx, input.Audio)
	if err != nil {
		return nil, err
	}

	var ref domain.AudioRef
	if payload != nil {
		ref, err = s.audio.Put(ctx, recordID, payload)
		if err != nil {
			return nil, fmt.Errorf("store audio: %w", err)
		}
	}

	now := s.now().UTC()
	next := &domain.Voice{
		RecordID:    recordID,
		OwnerID:     ownerID,
		Text:        trimOrNil(input.Text),
		Translation: trimOrNil(input.Translation),
		IsCustom:    input.IsCustom,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if payload != nil {
		next.Audio = ref
		next.MIMEType = payload.MIMEType
		next.OriginalFileName = payload.OriginalFileName
		next.SizeBytes = payload.Size()
		next.SourceLastModified = payload.SourceLastModified
	}

	var prev, saved *domain.Voice
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetForUpdate(ctx, recordID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			p = nil
		case err != nil:
			return fmt.Errorf("get voice: %w", err)
		}
		prev = p

		saved, err = s.repo.Upsert(ctx, next, payload != nil)
		if err != nil {
			return fmt.Errorf("upsert voice: %w", err)
		}
		return nil
	})
	if err != nil {
		if payload != nil {
			s.release(ctx, recordID, ref)
		}
		return nil, err
	}

	if payload != nil && prev != nil && prev.Audio.IsExternal() && prev.Audio.Key != saved.Audio.Key {
		s.release(ctx, recordID, prev.Audio)
	}

	created := prev == nil
	s.rec.VoiceUpserted(ctx, created, payload != nil, saved.SizeBytes)

	s.log.InfoContext(ctx, "voice saved",
		slog.String("record_id", saved.RecordID),
		slog.String("owner_id", saved.OwnerID),
		slog.Bool("created", created),
		slog.Bool("audio_replaced", payload != nil),
		slog.Int64("size_bytes", saved.SizeBytes),
	)

	return saved, nil
}

// checkAudio enforces the size ceiling and the media type allow-list and
// returns a copy of p with a normalized media type.
func (s *Service) checkAudio(ctx context.Context, p *domain.AudioPayload) (*domain.AudioPayload, error) {
	if p == nil {
		return nil, nil
	}

	if p.Size() > s.maxBytes {
		s.rec.UploadRejected(ctx, "too_large")
		return nil, fmt.Errorf("%w: %d bytes exceeds the %d byte limit", domain.ErrPayloadTooLarge, p.Size(), s.maxBytes)
	}

	mimeType := domain.NormalizeMIMEType(p.MIMEType)
	if !domain.IsAllowedMIMEType(mimeType, s.allowed) {
		s.rec.UploadRejected(ctx, "media_type")
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedMediaType, p.MIMEType)
	}

	out := *p
	out.MIMEType = mimeType
	out.OriginalFileName = strings.TrimSpace(p.OriginalFileName)
	return &out, nil
}

func (s *Service) release(ctx context.Context, recordID string, ref domain.AudioRef) {
	if !ref.IsExternal() {
		return
	}
	if err := s.audio.Release(ctx, ref); err != nil {
		s.log.WarnContext(ctx, "release audio failed",
			slog.String("record_id", recordID),
			slog.String("audio_key", ref.Key),
			slog.String("error", err.Error()),
		)
	}
}
