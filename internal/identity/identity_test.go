package identity

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestSessionFromToken_Valid(t *testing.T) {
	secret := []byte("test-secret")
	sut := NewJWTProvider(secret)

	token := signToken(t, secret, jwt.MapClaims{"user_id": "u1", "new_user": true})
	session, err := sut.SessionFromToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)
	assert.True(t, session.IsNewUser)
}

func TestSessionFromToken_NewUserDefaultsFalse(t *testing.T) {
	secret := []byte("test-secret")
	sut := NewJWTProvider(secret)

	token := signToken(t, secret, jwt.MapClaims{"user_id": "u1"})
	session, err := sut.SessionFromToken(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, session.IsNewUser)
}

func TestSessionFromToken_WrongSecret(t *testing.T) {
	sut := NewJWTProvider([]byte("right"))

	token := signToken(t, []byte("wrong"), jwt.MapClaims{"user_id": "u1"})
	_, err := sut.SessionFromToken(context.Background(), token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionFromToken_MissingUserID(t *testing.T) {
	secret := []byte("test-secret")
	sut := NewJWTProvider(secret)

	token := signToken(t, secret, jwt.MapClaims{"new_user": false})
	_, err := sut.SessionFromToken(context.Background(), token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionFromToken_Garbage(t *testing.T) {
	sut := NewJWTProvider([]byte("test-secret"))

	_, err := sut.SessionFromToken(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSubscribeAnnounce(t *testing.T) {
	sut := NewJWTProvider([]byte("test-secret"))

	var got []Event
	unsubscribe := sut.Subscribe(func(ev Event) {
		got = append(got, ev)
	})

	sut.Announce(Event{UserID: "u1", SignedIn: true})
	sut.Announce(Event{UserID: "u1", SignedIn: false})
	require.Len(t, got, 2)
	assert.Equal(t, Event{UserID: "u1", SignedIn: true}, got[0])
	assert.Equal(t, Event{UserID: "u1", SignedIn: false}, got[1])

	unsubscribe()
	sut.Announce(Event{UserID: "u2", SignedIn: true})
	assert.Len(t, got, 2, "unsubscribed callback must not fire")
}
