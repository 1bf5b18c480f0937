package domain

import "testing"

func TestNormalizeMIMEType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "canonical", input: "audio/mpeg", want: "audio/mpeg"},
		{name: "uppercase", input: "Audio/MPEG", want: "audio/mpeg"},
		{name: "trim spaces", input: "  audio/ogg  ", want: "audio/ogg"},
		{name: "parameters dropped", input: "audio/ogg; codecs=opus", want: "audio/ogg"},
		{name: "mp3 alias", input: "audio/mp3", want: "audio/mpeg"},
		{name: "x-wav alias", input: "audio/x-wav", want: "audio/wav"},
		{name: "wave alias", input: "audio/wave", want: "audio/wav"},
		{name: "m4a alias", input: "audio/x-m4a", want: "audio/mp4"},
		{name: "video passes through", input: "video/mp4", want: "video/mp4"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
		{name: "broken parameters", input: "audio/mpeg; =x", want: "audio/mpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeMIMEType(tt.input); got != tt.want {
				t.Errorf("NormalizeMIMEType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsAllowedMIMEType(t *testing.T) {
	t.Parallel()

	allowed := []string{"audio/mpeg", "audio/wav", "audio/ogg", "audio/mp4", "video/mp4"}

	tests := []struct {
		input string
		want  bool
	}{
		{"audio/mpeg", true},
		{"audio/mp3", true},
		{"audio/x-wav", true},
		{"video/mp4", true},
		{"text/plain", false},
		{"audio/flac", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAllowedMIMEType(tt.input, allowed); got != tt.want {
			t.Errorf("IsAllowedMIMEType(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
