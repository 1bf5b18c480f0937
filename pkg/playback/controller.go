// Package playback arbitrates the single audio source a session may play at
// a time. Synthetic speech and uploaded clips go through the same
// [Controller], so starting one always stops the other first.
package playback

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/heartmarshall/instant-voices/pkg/synth"
)

// State is what the controller is doing.
type State int

const (
	StateIdle State = iota
	StatePlayingSynthetic
	StatePlayingCustom
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlayingSynthetic:
		return "playing-synthetic"
	case StatePlayingCustom:
		return "playing-custom"
	default:
		return "unknown"
	}
}

// Status is a snapshot of the controller. Card is empty when idle.
type Status struct {
	State State
	Card  string
}

// Stream is a started source.
type Stream interface {
	// Stop halts the source. It may call the source's done callback
	// synchronously; the controller ignores it.
	Stop()
}

// SpeechEngine speaks text with resolved parameters. done is called at most
// once, from any goroutine, when speech ends (nil) or fails.
type SpeechEngine interface {
	Speak(text string, params synth.Params, done func(error)) (Stream, error)
}

// AudioPlayer plays a clip by URL. done follows the SpeechEngine contract.
type AudioPlayer interface {
	Play(url string, done func(error)) (Stream, error)
}

// NowPlaying is the metadata shown by the host's media controls.
type NowPlaying struct {
	Title  string
	Artist string
	Album  string
}

// Custom clips are labelled with these.
const (
	CustomArtist = "Custom Voice"
	CustomAlbum  = "Instant Voices"
)

// MetadataSink receives now-playing metadata; nil clears it.
type MetadataSink interface {
	SetNowPlaying(np *NowPlaying)
}

// ErrNoSource is returned when the engine for a source type was not configured.
var ErrNoSource = errors.New("playback: source not configured")

// Options configures a [Controller].
type Options struct {
	// Metadata receives now-playing updates. May be nil.
	Metadata MetadataSink

	// OnChange is called with the new status after every transition, outside
	// the controller's lock. May be nil.
	OnChange func(Status)

	Logger *slog.Logger
}

// Controller enforces that at most one source is active. It is safe for
// concurrent use.
type Controller struct {
	speech   SpeechEngine
	audio    AudioPlayer
	meta     MetadataSink
	onChange func(Status)
	log      *slog.Logger

	mu      sync.Mutex
	current *session
	gen     uint64
}

// New creates an idle controller. Either engine may be nil if the host does
// not support that source.
func New(speech SpeechEngine, audio AudioPlayer, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{
		speech:   speech,
		audio:    audio,
		meta:     opts.Metadata,
		onChange: opts.OnChange,
		log:      opts.Logger.With("component", "playback"),
	}
}

// Status reports the current state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// PlaySynthetic speaks text for card. Requesting the card that is already
// playing stops it instead.
func (c *Controller) PlaySynthetic(card, text string, params synth.Params) (Status, error) {
	if c.speech == nil {
		return c.Status(), fmt.Errorf("synthetic playback: %w", ErrNoSource)
	}
	return c.play(card, StatePlayingSynthetic, nil, func(done func(error)) (Stream, error) {
		return c.speech.Speak(text, params, done)
	})
}

// PlayCustom plays the uploaded clip at url for card and publishes title as
// now-playing metadata. Requesting the card that is already playing stops it
// instead.
func (c *Controller) PlayCustom(card, title, url string) (Status, error) {
	if c.audio == nil {
		return c.Status(), fmt.Errorf("custom playback: %w", ErrNoSource)
	}
	np := &NowPlaying{Title: title, Artist: CustomArtist, Album: CustomAlbum}
	return c.play(card, StatePlayingCustom, np, func(done func(error)) (Stream, error) {
		return c.audio.Play(url, done)
	})
}

// Stop halts whatever is playing.
func (c *Controller) Stop() Status {
	c.mu.Lock()
	stopped := c.stopLocked()
	st := c.statusLocked()
	c.mu.Unlock()

	if stopped {
		c.notify(st)
	}
	return st
}

func (c *Controller) play(card string, target State, np *NowPlaying, start func(done func(error)) (Stream, error)) (Status, error) {
	c.mu.Lock()

	if cur := c.current; cur != nil {
		sameCard := cur.card == card
		c.stopLocked()
		if sameCard {
			st := c.statusLocked()
			c.mu.Unlock()
			c.notify(st)
			return st, nil
		}
	}

	c.gen++
	s := &session{gen: c.gen, card: card, state: target, phase: phaseStarting}
	stream, err := start(func(err error) { c.ended(s, err) })

	s.mu.Lock()
	endedEarly, earlyErr := s.phase == phaseEnded, s.err
	if !endedEarly {
		s.phase = phaseRunning
	}
	s.mu.Unlock()

	if err != nil || endedEarly {
		c.setMetadata(nil)
		st := c.statusLocked()
		c.mu.Unlock()
		c.notify(st)
		if err != nil {
			return st, fmt.Errorf("start playback for card %s: %w", card, err)
		}
		if earlyErr != nil {
			c.log.Warn("playback failed", slog.String("card", card), slog.String("error", earlyErr.Error()))
		}
		return st, nil
	}

	s.stream = stream
	c.current = s
	c.setMetadata(np)
	st := c.statusLocked()
	c.mu.Unlock()

	c.notify(st)
	return st, nil
}

// ended is the done callback of session s.
func (c *Controller) ended(s *session, err error) {
	s.mu.Lock()
	switch s.phase {
	case phaseStarting:
		s.phase = phaseEnded
		s.err = err
		s.mu.Unlock()
		return
	case phaseStopped, phaseEnded:
		s.mu.Unlock()
		return
	}
	s.phase = phaseEnded
	s.mu.Unlock()

	c.mu.Lock()
	if c.current != s {
		// A newer request already replaced it.
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.setMetadata(nil)
	st := c.statusLocked()
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("playback failed",
			slog.String("card", s.card),
			slog.Uint64("gen", s.gen),
			slog.String("error", err.Error()),
		)
	}
	c.notify(st)
}

// stopLocked stops the current session, if any, and reports whether it did.
func (c *Controller) stopLocked() bool {
	s := c.current
	if s == nil {
		return false
	}
	c.current = nil

	s.mu.Lock()
	s.phase = phaseStopped
	s.mu.Unlock()

	if s.stream != nil {
		s.stream.Stop()
	}
	c.setMetadata(nil)
	return true
}

func (c *Controller) statusLocked() Status {
	if c.current == nil {
		return Status{State: StateIdle}
	}
	return Status{State: c.current.state, Card: c.current.card}
}

func (c *Controller) setMetadata(np *NowPlaying) {
	if c.meta != nil {
		c.meta.SetNowPlaying(np)
	}
}

func (c *Controller) notify(st Status) {
	if c.onChange != nil {
		c.onChange(st)
	}
}

type phase int

const (
	phaseStarting phase = iota
	phaseRunning
	phaseEnded
	phaseStopped
)

// session is one started source. Its identity is the generation token: done
// callbacks from a replaced session find c.current pointing elsewhere.
type session struct {
	gen    uint64
	card   string
	state  State
	stream Stream

	mu    sync.Mutex
	phase phase
	err   error
}
