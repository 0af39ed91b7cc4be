package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikobuddy/caygnusecomers/internal/identity"
)

type fakeAnnouncer struct {
	events []identity.Event
}

func (f *fakeAnnouncer) Announce(ev identity.Event) {
	f.events = append(f.events, ev)
}

func TestSignOut(t *testing.T) {
	announcer := &fakeAnnouncer{}
	sut := NewAuthHandler(announcer)

	rec := httptest.NewRecorder()
	sut.SignOut(rec, authedRequest(t, http.MethodPost, "/auth/signout", "", &identity.Session{UserID: "u1"}, nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, announcer.events, 1)
	assert.Equal(t, identity.Event{UserID: "u1", SignedIn: false}, announcer.events[0])
}

func TestSignOut_Unauthorized(t *testing.T) {
	announcer := &fakeAnnouncer{}
	sut := NewAuthHandler(announcer)

	rec := httptest.NewRecorder()
	sut.SignOut(rec, authedRequest(t, http.MethodPost, "/auth/signout", "", nil, nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, announcer.events)
}
