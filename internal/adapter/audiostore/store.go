// Package audiostore holds the strategies for persisting uploaded audio.
// Every strategy turns an AudioPayload into a domain.AudioRef the client can
// play, and can release what it stored.
package audiostore

import (
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// objectKey builds a unique, URL-safe object name for an upload.
// The record id is kept as a readable prefix when it is short and safe.
func objectKey(recordID, mimeType string) string {
	prefix := sanitize(recordID)
	if prefix == "" || len(prefix) > 64 {
		prefix = "voice"
	}
	return prefix + "-" + uuid.NewString() + extension(mimeType)
}

func extension(mimeType string) string {
	if m := mimetype.Lookup(mimeType); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return ".bin"
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// joinURL appends key to base, which may be a path ("/uploads/") or an
// absolute URL ("https://cdn.example.com/voices").
func joinURL(base, key string) string {
	if base == "" {
		return "/" + key
	}
	if strings.Contains(base, "://") {
		return strings.TrimRight(base, "/") + "/" + key
	}
	return path.Join("/", base, key)
}
