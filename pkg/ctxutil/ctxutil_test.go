package ctxutil

import (
	"context"
	"log/slog"
	"testing"
)

func TestSessionID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ctx    context.Context
		want   string
		wantOK bool
	}{
		{"guest", WithSessionID(context.Background(), "5f0c7a1e-guest"), "5f0c7a1e-guest", true},
		{"absent", context.Background(), "", false},
		{"blank", WithSessionID(context.Background(), "   "), "", false},
		{"foreign key type", context.WithValue(context.Background(), "session_id", "x"), "", false}, //nolint:staticcheck
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := SessionIDFromCtx(tt.ctx)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("SessionIDFromCtx = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Errorf("empty context: got %q", got)
	}
	if got := RequestIDFromCtx(WithRequestID(context.Background(), "req-1")); got != "req-1" {
		t.Errorf("got %q, want req-1", got)
	}
}

func TestLogAttrs(t *testing.T) {
	t.Parallel()

	if attrs := LogAttrs(context.Background()); len(attrs) != 0 {
		t.Errorf("empty context: %v", attrs)
	}

	ctx := WithSessionID(WithRequestID(context.Background(), "req-1"), "guest-1")
	attrs := LogAttrs(ctx)
	want := []slog.Attr{slog.String("request_id", "req-1"), slog.String("session_id", "guest-1")}
	if len(attrs) != len(want) {
		t.Fatalf("attrs = %v", attrs)
	}
	for i := range want {
		if !attrs[i].Equal(want[i]) {
			t.Errorf("attrs[%d] = %v, want %v", i, attrs[i], want[i])
		}
	}
}
