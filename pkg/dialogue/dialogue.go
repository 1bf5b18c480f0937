// Package dialogue holds the dialogue lines a voice record can attach to.
package dialogue

// Dialogue is a short line of text with an optional translation.
type Dialogue struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
}

var defaults = []Dialogue{
	{ID: "1", Text: "Kam karo kam karo", Translation: "Work, work"},
	{ID: "2", Text: "Need maximum hiring", Translation: "We need maximum hiring"},
	{ID: "3", Text: "Go on field", Translation: "Go to the field"},
	{ID: "4", Text: "Good job good job", Translation: "Good job, good job"},
	{ID: "5", Text: "Need maximum numbers", Translation: "We need maximum numbers"},
}

// Defaults returns a copy of the fixed dialogue set shipped with the client.
// A voice record whose id equals a default's id replaces that line's audio.
func Defaults() []Dialogue {
	out := make([]Dialogue, len(defaults))
	copy(out, defaults)
	return out
}

