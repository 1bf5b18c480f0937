package voice

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/instant-voices/internal/domain"
)

// DefaultMaxUploadBytes is the upload ceiling used when Options leave it unset.
const DefaultMaxUploadBytes int64 = 10 << 20

// DefaultAllowedMIMETypes is the audio allow-list used when Options leave it unset.
var DefaultAllowedMIMETypes = []string{"audio/mpeg", "audio/wav", "audio/ogg", "audio/mp4", "video/mp4"}

type voiceRepo interface {
	GetByID(ctx context.Context, recordID string) (*domain.Voice, error)
	GetForUpdate(ctx context.Context, recordID string) (*domain.Voice, error)
	List(ctx context.Context, filter domain.VoiceFilter) ([]*domain.Voice, error)
	Upsert(ctx context.Context, v *domain.Voice, replaceAudio bool) (*domain.Voice, error)
	Delete(ctx context.Context, recordID string, ownerID *string) (*domain.Voice, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type audioStore interface {
	Put(ctx context.Context, recordID string, p *domain.AudioPayload) (domain.AudioRef, error)
	Release(ctx context.Context, ref domain.AudioRef) error
}

type recorder interface {
	VoiceUpserted(ctx context.Context, created, withAudio bool, sizeBytes int64)
	VoiceDeleted(ctx context.Context)
	UploadRejected(ctx context.Context, reason string)
}

// Options configures the store service.
type Options struct {
	Scope            domain.OwnershipScope
	MaxUploadBytes   int64
	AllowedMIMETypes []string
	// Recorder receives store metrics. Optional.
	Recorder recorder
	// Now overrides the clock. Optional.
	Now func() time.Time
}

// Service is the custom voice record store.
type Service struct {
	repo  voiceRepo
	tx    txManager
	audio audioStore
	rec   recorder
	log   *slog.Logger

	scope    domain.OwnershipScope
	maxBytes int64
	allowed  []string
	now      func() time.Time
}

// NewService creates a new voice store service.
func NewService(
	log *slog.Logger,
	repo voiceRepo,
	tx txManager,
	audio audioStore,
	opts Options,
) *Service {
	s := &Service{
		repo:     repo,
		tx:       tx,
		audio:    audio,
		rec:      opts.Recorder,
		log:      log.With("service", "voice"),
		scope:    opts.Scope,
		maxBytes: opts.MaxUploadBytes,
		now:      opts.Now,
	}

	if !s.scope.IsValid() {
		s.scope = domain.ScopeGlobal
	}
	if s.maxBytes <= 0 {
		s.maxBytes = DefaultMaxUploadBytes
	}
	for _, m := range opts.AllowedMIMETypes {
		if n := domain.NormalizeMIMEType(m); n != "" {
			s.allowed = append(s.allowed, n)
		}
	}
	if len(s.allowed) == 0 {
		s.allowed = DefaultAllowedMIMETypes
	}
	if s.rec == nil {
		s.rec = nopRecorder{}
	}
	if s.now == nil {
		s.now = time.Now
	}

	return s
}

// MaxUploadBytes returns the upload ceiling.
func (s *Service) MaxUploadBytes() int64 { return s.maxBytes }

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type nopRecorder struct{}

func (nopRecorder) VoiceUpserted(context.Context, bool, bool, int64) {}
func (nopRecorder) VoiceDeleted(context.Context)                     {}
func (nopRecorder) UploadRejected(context.Context, string)           {}
