package domain

import (
	"strings"
	"time"

	"github.com/heartmarshall/instant-voices/pkg/dialogue"
)

// AudioKind tells how an AudioRef locates the audio bytes.
type AudioKind string

const (
	// AudioKindNone marks a record that has never received audio.
	AudioKindNone AudioKind = ""
	// AudioKindInline is a self-contained data URL (content type + base64 payload).
	AudioKindInline AudioKind = "inline"
	// AudioKindURL is a retrievable URL backed by an external object (disk file, bucket object).
	AudioKindURL AudioKind = "url"
)

// AudioRef points at the audio of a Voice. URL is what clients play: a data URL
// for inline storage, an http(s) URL otherwise. Key identifies the external
// object to release on delete/replace and is empty for inline storage.
type AudioRef struct {
	Kind AudioKind
	URL  string
	Key  string
}

// IsEmpty reports whether the ref holds no audio.
func (a AudioRef) IsEmpty() bool {
	return a.URL == ""
}

// IsExternal reports whether the ref owns an object outside the record itself.
func (a AudioRef) IsExternal() bool {
	return a.Kind == AudioKindURL && a.Key != ""
}

// Voice is a custom voice record: a user-supplied audio clip keyed by a
// client-assigned record id. For records attached to a default dialogue the
// record id equals the dialogue id; IsCustom records also define a new dialogue.
type Voice struct {
	RecordID           string
	OwnerID            string
	Text               *string
	Translation        *string
	IsCustom           bool
	Audio              AudioRef
	MIMEType           string
	OriginalFileName   string
	SizeBytes          int64
	SourceLastModified int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasAudio reports whether the record carries playable audio.
func (v *Voice) HasAudio() bool {
	return v != nil && !v.Audio.IsEmpty()
}

// Dialogue returns the dialogue this record defines. ok is false for records
// that only replace audio of an existing dialogue.
func (v *Voice) Dialogue() (d dialogue.Dialogue, ok bool) {
	if v == nil || !v.IsCustom {
		return dialogue.Dialogue{}, false
	}
	d.ID = v.RecordID
	if v.Text != nil {
		d.Text = *v.Text
	}
	if v.Translation != nil {
		d.Translation = *v.Translation
	}
	return d, true
}

// AudioPayload is an uploaded clip that has passed validation.
type AudioPayload struct {
	Data               []byte
	MIMEType           string
	OriginalFileName   string
	SourceLastModified int64
}

// Size returns the payload length in bytes.
func (p *AudioPayload) Size() int64 {
	if p == nil {
		return 0
	}
	return int64(len(p.Data))
}

// VoiceFilter narrows a voice listing. A nil OwnerID lists the global collection.
type VoiceFilter struct {
	OwnerID *string
}

// Matches reports whether v passes the filter.
func (f VoiceFilter) Matches(v *Voice) bool {
	if f.OwnerID == nil {
		return true
	}
	return v.OwnerID == *f.OwnerID
}

// OwnershipScope selects how owner ids scope listing and deletion.
type OwnershipScope string

const (
	// ScopeGlobal shares every record with every session.
	ScopeGlobal OwnershipScope = "global"
	// ScopeOwner restricts listing and deletion to the caller's records.
	ScopeOwner OwnershipScope = "owner"
)

func (s OwnershipScope) String() string { return string(s) }

func (s OwnershipScope) IsValid() bool {
	switch s {
	case ScopeGlobal, ScopeOwner:
		return true
	}
	return false
}

// ParseOwnershipScope parses a scope name, case-insensitively.
func ParseOwnershipScope(s string) (OwnershipScope, bool) {
	scope := OwnershipScope(strings.ToLower(strings.TrimSpace(s)))
	return scope, scope.IsValid()
}
