package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/instant-voices/internal/service/session"
)

type sessionService interface {
	IssueGuest(ctx context.Context) (*session.Guest, error)
}

// GuestHandler serves anonymous session issuance.
type GuestHandler struct {
	svc sessionService
	log *slog.Logger
}

// NewGuestHandler creates a GuestHandler.
func NewGuestHandler(svc sessionService, logger *slog.Logger) *GuestHandler {
	return &GuestHandler{svc: svc, log: logger.With("handler", "guest")}
}

type guestResponse struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Issue handles POST /auth/guest.
func (h *GuestHandler) Issue(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.IssueGuest(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guestResponse{
		SessionID: g.SessionID,
		Token:     g.Token,
		ExpiresAt: g.ExpiresAt,
	})
}
