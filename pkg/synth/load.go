package synth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrNoVoices is returned by [LoadVoices] when the engine never reported a voice.
var ErrNoVoices = errors.New("synth: no voices available")

// LoadOptions bounds the wait in [LoadVoices]. Zero fields take defaults.
type LoadOptions struct {
	InitialInterval time.Duration // default 100ms
	MaxInterval     time.Duration // default 2s
	MaxElapsed      time.Duration // default 10s
	Logger          *slog.Logger
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.InitialInterval <= 0 {
		o.InitialInterval = 100 * time.Millisecond
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = 2 * time.Second
	}
	if o.MaxElapsed <= 0 {
		o.MaxElapsed = 10 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// LoadVoices polls src with exponential backoff until it reports at least one
// voice, the elapsed budget runs out, or ctx is done. On budget exhaustion it
// returns ErrNoVoices; on cancellation, the context error.
func LoadVoices(ctx context.Context, src VoiceSource, opts LoadOptions) ([]Voice, error) {
	opts = opts.withDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = opts.InitialInterval
	b.MaxInterval = opts.MaxInterval
	b.MaxElapsedTime = opts.MaxElapsed

	var voices []Voice
	op := func() error {
		voices = src.Voices()
		if len(voices) == 0 {
			return ErrNoVoices
		}
		return nil
	}
	notify := func(_ error, wait time.Duration) {
		opts.Logger.Debug("voice list empty, retrying", slog.Duration("wait", wait))
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return voices, nil
}
