// Package session issues anonymous guest sessions. A session id becomes the
// owner id of every voice record written with its token.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type tokenIssuer interface {
	GenerateSessionToken(sessionID string) (string, time.Time, error)
}

// Guest is a freshly issued guest session.
type Guest struct {
	SessionID string
	Token     string
	ExpiresAt time.Time
}

// Service issues guest sessions.
type Service struct {
	log    *slog.Logger
	tokens tokenIssuer
	newID  func() string
}

// NewService creates a new session service.
func NewService(log *slog.Logger, tokens tokenIssuer) *Service {
	return &Service{
		log:    log.With("service", "session"),
		tokens: tokens,
		newID:  uuid.NewString,
	}
}

// IssueGuest creates a new session id and signs a token for it.
func (s *Service) IssueGuest(ctx context.Context) (*Guest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := s.newID()
	token, expires, err := s.tokens.GenerateSessionToken(id)
	if err != nil {
		return nil, fmt.Errorf("issue guest session: %w", err)
	}

	s.log.InfoContext(ctx, "guest session issued", slog.String("session_id", id))

	return &Guest{SessionID: id, Token: token, ExpiresAt: expires}, nil
}
