package session

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const SessionKey contextKey = "session"

var ErrNoSession = errors.New("no session in context")

// Current retrieves the session attached to the context. Returns ErrNoSession if none is present.
func Current(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(SessionKey).(*Session)
	if !ok || s == nil {
		log.Trace("session not found in context")
		return nil, ErrNoSession
	}
	return s, nil
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}
