package audiostore

import (
	"context"
	"encoding/base64"

	"github.com/heartmarshall/instant-voices/internal/domain"
)

// Inline encodes audio into the record itself as a data URL.
type Inline struct{}

// NewInline creates the inline strategy.
func NewInline() *Inline { return &Inline{} }

// Put returns a data URL of the form data:<mime>;base64,<payload>.
func (Inline) Put(_ context.Context, _ string, p *domain.AudioPayload) (domain.AudioRef, error) {
	return domain.AudioRef{
		Kind: domain.AudioKindInline,
		URL:  "data:" + p.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(p.Data),
	}, nil
}

// Release is a no-op: the bytes go away with the record.
func (Inline) Release(context.Context, domain.AudioRef) error { return nil }

// Name identifies the strategy in logs.
func (Inline) Name() string { return "inline" }
