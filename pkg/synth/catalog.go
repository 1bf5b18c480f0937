// Package synth maps a (gender, style) choice to the parameters handed to a
// text-to-speech engine. It holds the built-in style catalog, the resolver
// that derives rate, pitch, volume and voice, and a loader that waits for an
// engine's voice list to become available.
package synth

// Preset is an immutable style catalog entry. Rate and Pitch seed the user's
// speed and pitch controls; Volume is applied as is.
type Preset struct {
	Key    string
	Name   string
	Rate   float64
	Pitch  float64
	Volume float64
	Icon   string
}

// DefaultStyle is used for unknown style keys.
const DefaultStyle = "normal"

// Declaration order matters: a style's position selects the voice.
var presets = []Preset{
	{Key: "normal", Name: "Normal", Rate: 1.0, Pitch: 1.0, Volume: 1.0, Icon: "🗣️"},
	{Key: "energetic", Name: "Energetic", Rate: 1.5, Pitch: 1.3, Volume: 1.0, Icon: "⚡"},
	{Key: "calm", Name: "Calm", Rate: 0.6, Pitch: 0.8, Volume: 0.9, Icon: "🧘"},
	{Key: "professional", Name: "Professional", Rate: 0.9, Pitch: 0.9, Volume: 1.0, Icon: "💼"},
	{Key: "friendly", Name: "Friendly", Rate: 1.1, Pitch: 1.2, Volume: 1.0, Icon: "😊"},
	{Key: "movieTrailer", Name: "Movie Trailer", Rate: 0.5, Pitch: 0.6, Volume: 1.0, Icon: "🎬"},
	{Key: "radioDJ", Name: "Radio DJ", Rate: 1.2, Pitch: 1.1, Volume: 1.0, Icon: "📻"},
	{Key: "newsAnchor", Name: "News Anchor", Rate: 0.95, Pitch: 0.95, Volume: 1.0, Icon: "📰"},
	{Key: "cartoon", Name: "Cartoon", Rate: 1.6, Pitch: 1.5, Volume: 1.0, Icon: "🎭"},
	{Key: "rockStar", Name: "Rock Star", Rate: 1.3, Pitch: 0.7, Volume: 1.0, Icon: "🎸"},
	{Key: "ceo", Name: "CEO", Rate: 0.85, Pitch: 0.85, Volume: 1.0, Icon: "👔"},
}

// Presets returns a copy of the catalog in declaration order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// Keys returns the style keys in declaration order.
func Keys() []string {
	keys := make([]string, len(presets))
	for i, p := range presets {
		keys[i] = p.Key
	}
	return keys
}

// Lookup returns the preset for key.
func Lookup(key string) (Preset, bool) {
	if i := position(key); i >= 0 {
		return presets[i], true
	}
	return Preset{}, false
}

// PresetFor returns the preset for key, or the default style when key is unknown.
func PresetFor(key string) Preset {
	if p, ok := Lookup(key); ok {
		return p
	}
	p, _ := Lookup(DefaultStyle)
	return p
}

// position is the declaration index of key, or -1.
func position(key string) int {
	for i, p := range presets {
		if p.Key == key {
			return i
		}
	}
	return -1
}
