package domain

import (
	"mime"
	"slices"
	"strings"
)

// mimeAliases maps legacy or browser-specific audio types to the canonical
// names used in the allow-list.
var mimeAliases = map[string]string{
	"audio/mp3":      "audio/mpeg",
	"audio/mpeg3":    "audio/mpeg",
	"audio/x-mpeg":   "audio/mpeg",
	"audio/x-wav":    "audio/wav",
	"audio/wave":     "audio/wav",
	"audio/vnd.wave": "audio/wav",
	"audio/x-m4a":    "audio/mp4",
	"audio/m4a":      "audio/mp4",
}

// NormalizeMIMEType prepares a content type for allow-list comparison:
//   - drops media type parameters ("; codecs=opus")
//   - trims whitespace and lowercases
//   - resolves known aliases (audio/mp3 -> audio/mpeg)
//
// Unparseable input is returned trimmed and lowercased.
func NormalizeMIMEType(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if mt, _, err := mime.ParseMediaType(s); err == nil {
		s = mt
	} else if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = strings.ToLower(s)

	if canonical, ok := mimeAliases[s]; ok {
		return canonical
	}
	return s
}

// IsAllowedMIMEType reports whether the normalized form of s is in allowed.
// allowed entries are expected to be normalized already.
func IsAllowedMIMEType(s string, allowed []string) bool {
	n := NormalizeMIMEType(s)
	return n != "" && slices.Contains(allowed, n)
}
