package auth

import (
	"context"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/flight-booking-api/internal/config"
	"github.com/gdg-garage/flight-booking-api/internal/database"
	"github.com/gdg-garage/flight-booking-api/internal/session"
	"github.com/gdg-garage/flight-booking-api/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) (*AuthHandler, session.Store) {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sessions := session.NewMemoryStore(time.Hour)
	cfg := &config.Config{JWTSecret: "test-secret", SessionTTL: time.Hour}
	return NewAuthHandler(cfg, store.New(db), sessions, nil), sessions
}

func withNewSession(t *testing.T, sessions session.Store) (context.Context, *session.Data) {
	t.Helper()
	d, err := sessions.Create(context.Background())
	require.NoError(t, err)
	return WithSession(context.Background(), d), d
}

func status(t *testing.T, err error) int {
	t.Helper()
	se, ok := err.(huma.StatusError)
	require.True(t, ok, "expected huma status error, got %v", err)
	return se.GetStatus()
}

func TestToken(t *testing.T) {
	h, _ := newHandler(t)

	token, err := h.GenerateToken("abc")
	require.NoError(t, err)
	sid, exp, err := h.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "abc", sid)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	other := NewAuthHandler(&config.Config{JWTSecret: "other"}, nil, nil, nil)
	_, _, err = other.ParseToken(token)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sid": "abc", "exp": time.Now().Add(-time.Minute).Unix()})
	s, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, _, err = h.ParseToken(s)
	assert.Error(t, err)

	noSid := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Minute).Unix()})
	s, err = noSid.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, _, err = h.ParseToken(s)
	assert.Error(t, err)
}

func TestRegisterLoginLogout(t *testing.T) {
	h, sessions := newHandler(t)
	ctx, d := withNewSession(t, sessions)

	_, err := h.HandleMe(ctx, nil)
	assert.Equal(t, 401, status(t, err))

	reg := &RegisterInput{}
	reg.Body.FirstName = "Kim"
	reg.Body.LastName = "Lee"
	reg.Body.Email = "  Kim@Example.com "
	out, err := h.HandleRegister(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, 201, out.Status)
	assert.Equal(t, "kim@example.com", out.Body.Email)

	stored, err := sessions.Get(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CustomerID)
	assert.Equal(t, out.Body.ID, *stored.CustomerID)

	me, err := h.HandleMe(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "Kim", me.Body.FirstName)

	_, err = h.HandleRegister(ctx, reg)
	assert.Equal(t, 422, status(t, err), "email already registered")

	_, err = h.HandleLogout(ctx, nil)
	require.NoError(t, err)
	_, err = h.HandleMe(ctx, nil)
	assert.Equal(t, 401, status(t, err))

	// a fresh visitor logs in with the email alone
	ctx2, d2 := withNewSession(t, sessions)
	login := &LoginInput{}
	login.Body.Email = "KIM@example.com"
	got, err := h.HandleLogin(ctx2, login)
	require.NoError(t, err)
	assert.Equal(t, out.Body.ID, got.Body.ID)

	stored, err = sessions.Get(ctx2, d2.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Body.ID, *stored.CustomerID)
}

func TestLogin_Unknown(t *testing.T) {
	h, sessions := newHandler(t)
	ctx, _ := withNewSession(t, sessions)

	in := &LoginInput{}
	in.Body.Email = "nobody@example.com"
	_, err := h.HandleLogin(ctx, in)
	assert.Equal(t, 422, status(t, err))
}

func TestRegister_InvalidEmail(t *testing.T) {
	h, sessions := newHandler(t)
	ctx, _ := withNewSession(t, sessions)

	in := &RegisterInput{}
	in.Body.FirstName = "A"
	in.Body.LastName = "B"
	in.Body.Email = "not-an-email"
	_, err := h.HandleRegister(ctx, in)
	assert.Equal(t, 422, status(t, err))
}

func TestCustomer_DeletedCustomer(t *testing.T) {
	h, sessions := newHandler(t)
	ctx, d := withNewSession(t, sessions)
	ghost := uint(99)
	d.CustomerID = &ghost

	_, err := h.Customer(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
