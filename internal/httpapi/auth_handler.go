package httpapi

import (
	"net/http"

	"github.com/nikobuddy/caygnusecomers/internal/identity"
)

// Announcer publishes sign-in state transitions to whoever subscribed.
type Announcer interface {
	Announce(ev identity.Event)
}

type AuthHandler struct {
	announcer Announcer
}

func NewAuthHandler(announcer Announcer) *AuthHandler {
	return &AuthHandler{announcer: announcer}
}

// SignOut announces the end of the caller's session. Token revocation
// itself happens at the identity provider; this only lets local
// subscribers clean up (cached carts and the like).
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	h.announcer.Announce(identity.Event{UserID: session.UserID, SignedIn: false})
	w.WriteHeader(http.StatusNoContent)
}
