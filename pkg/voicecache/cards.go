package voicecache

import (
	"sort"
	"strconv"

	"github.com/heartmarshall/instant-voices/pkg/dialogue"
	"github.com/heartmarshall/instant-voices/pkg/voiceclient"
)

// Card is one renderable line: a default dialogue with an optional custom
// voice, or a user-created dialogue.
type Card struct {
	dialogue.Dialogue
	Custom bool                `json:"custom"`
	Voice  *voiceclient.Record `json:"voice,omitempty"`
}

// Cards lists the default dialogues in order, each with its replacement
// voice if any, followed by the user-created dialogues oldest first.
// Non-custom records never add a card of their own.
func (c *Cache) Cards(defaults []dialogue.Dialogue) []Card {
	entries := c.Entries()

	cards := make([]Card, 0, len(defaults)+len(entries))
	for _, d := range defaults {
		card := Card{Dialogue: d}
		if rec, ok := entries[d.ID]; ok && !rec.IsCustom {
			card.Voice = &rec
		}
		cards = append(cards, card)
	}

	var custom []voiceclient.Record
	for _, rec := range entries {
		if rec.IsCustom {
			custom = append(custom, rec)
		}
	}
	sort.Slice(custom, func(i, j int) bool {
		return lessRecordID(custom[i].RecordID, custom[j].RecordID)
	})

	for i := range custom {
		rec := custom[i]
		cards = append(cards, Card{
			Dialogue: dialogue.Dialogue{ID: rec.RecordID, Text: rec.Text, Translation: rec.Translation},
			Custom:   true,
			Voice:    &rec,
		})
	}
	return cards
}

// Numeric ids (epoch ms) compare as numbers and sort before other ids.
func lessRecordID(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
