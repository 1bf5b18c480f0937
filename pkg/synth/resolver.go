package synth

import (
	"fmt"
	"strings"
)

// Gender selects the pitch modifier and the voice name filter.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ParseGender accepts "male" or "female" in any case.
func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case Male:
		return Male, nil
	case Female:
		return Female, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// PitchModifier is the factor applied to the user's pitch.
func (g Gender) PitchModifier() float64 {
	if g == Female {
		return 1.2
	}
	return 0.85
}

// Engine bounds. Values outside are clamped, never rejected.
const (
	MinRate   = 0.1
	MaxRate   = 10.0
	MinPitch  = 0.0
	MaxPitch  = 2.0
	MinVolume = 0.0
	MaxVolume = 1.0
)

// UtteranceLang is the language tag set on every utterance.
const UtteranceLang = "en-IN"

// Voice is an engine voice as reported by the host.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// VoiceSource reports the engine's current voices. The list may be empty
// while the engine is still loading.
type VoiceSource interface {
	Voices() []Voice
}

// VoiceSourceFunc adapts a function to [VoiceSource].
type VoiceSourceFunc func() []Voice

// Voices calls f.
func (f VoiceSourceFunc) Voices() []Voice { return f() }

// StaticVoices is a fixed voice list.
type StaticVoices []Voice

// Voices returns the list itself.
func (s StaticVoices) Voices() []Voice { return s }

// Params are the final engine settings for one utterance.
type Params struct {
	Style      Preset
	Rate       float64
	Pitch      float64
	Volume     float64
	Lang       string
	VoiceIndex int
	// Voice is nil when the engine reported no voices; the engine default applies.
	Voice *Voice
}

// Resolver derives [Params] from a style choice and the user's controls.
// It holds no state besides its voice source and is safe for concurrent use
// when the source is.
type Resolver struct {
	voices VoiceSource
}

// NewResolver returns a resolver reading voices from src. A nil src behaves
// as an empty voice list.
func NewResolver(src VoiceSource) *Resolver {
	if src == nil {
		src = StaticVoices(nil)
	}
	return &Resolver{voices: src}
}

// Resolve computes the engine settings. Rate is the user's speed; the style
// preset only seeds that control. Pitch is the user's pitch scaled by the
// gender modifier. Volume comes from the preset.
func (r *Resolver) Resolve(gender Gender, styleKey string, userPitch, userSpeed float64) Params {
	preset := PresetFor(styleKey)

	p := Params{
		Style:  preset,
		Rate:   clamp(userSpeed, MinRate, MaxRate),
		Pitch:  clamp(userPitch*gender.PitchModifier(), MinPitch, MaxPitch),
		Volume: clamp(preset.Volume, MinVolume, MaxVolume),
		Lang:   UtteranceLang,
	}

	pool := CandidatePool(r.voices.Voices(), gender)
	if len(pool) == 0 {
		return p
	}

	// Unknown styles select the first candidate.
	if pos := position(styleKey); pos > 0 {
		p.VoiceIndex = pos % len(pool)
	}
	v := pool[p.VoiceIndex]
	p.Voice = &v
	return p
}

// Seed returns the (pitch, speed) a style puts on the user's controls when it
// is selected.
func Seed(styleKey string) (pitch, speed float64) {
	p := PresetFor(styleKey)
	return p.Pitch, p.Rate
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
