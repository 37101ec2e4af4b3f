package app

import (
	"errors"
	"net/http"

	"github.com/budgetwise/budgetwise/internal/rest"
	"github.com/budgetwise/budgetwise/pkg/session"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const SessionHeader = "X-Session-Id"

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies) {

	// Propagate X-Session-Id header into context for downstream services
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sessionHeader := req.Header.Get(SessionHeader)
			ctx := req.Context()

			if sessionHeader != "" {
				id, err := uuid.Parse(sessionHeader)
				if err != nil {
					log.Debugf("malformed session id: %s", sessionHeader)
					rest.WriteError(w, http.StatusBadRequest, "invalid session id", err.Error())
					return
				}
				s, err := deps.SessionStore.Get(id)
				if err != nil {
					if errors.Is(err, session.ErrSessionNotFound) {
						log.Debugf("session not found: %s", id)
						rest.WriteError(w, http.StatusForbidden, "session not found", err.Error())
						return
					}
					log.Errorf("failed to get session: %v", err)
					rest.WriteError(w, http.StatusInternalServerError, err.Error(), "")
					return
				}
				ctx = session.WithSession(ctx, s)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
