package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/gdg-garage/flight-booking-api/internal/logging"
	"github.com/gdg-garage/flight-booking-api/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

func WithSession(ctx context.Context, d *session.Data) context.Context {
	return context.WithValue(ctx, sessionKey, d)
}

// SessionFrom returns the request's session, or nil outside SessionMiddleware.
func SessionFrom(ctx context.Context) *session.Data {
	d, _ := ctx.Value(sessionKey).(*session.Data)
	return d
}

// SessionMiddleware makes sure every request carries a session. A missing,
// tampered or expired cookie silently starts a new one; a pending booking
// in an expired session is simply gone.
func (h *AuthHandler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var d *session.Data
		if cookie, err := r.Cookie(CookieName); err == nil {
			if sid, exp, err := h.ParseToken(cookie.Value); err == nil {
				if d, err = h.sessions.Get(ctx, sid); err == nil {
					// Sliding session: refresh token if it's more than halfway through its duration.
					// The stored session must slide with it or the new cookie outlives its data.
					if time.Until(exp) < h.tokenDuration()/2 {
						if err := h.sessions.Save(ctx, d); err != nil {
							logging.Warn("Failed to extend session", "session_id", d.ID, "error", err.Error())
						}
						h.setCookie(w, d.ID)
					}
				}
			}
		}

		if d == nil {
			var err error
			d, err = h.sessions.Create(ctx)
			if err != nil {
				logging.Error("Failed to create session", "error", err.Error())
				http.Error(w, "Session unavailable", http.StatusServiceUnavailable)
				return
			}
			if h.counter != nil {
				h.counter.SessionCreated()
			}
			h.setCookie(w, d.ID)
		}

		next.ServeHTTP(w, r.WithContext(WithSession(ctx, d)))
	})
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, sessionID string) {
	token, err := h.GenerateToken(sessionID)
	if err != nil {
		logging.Error("Failed to sign session token", "error", err.Error())
		return
	}
	http.SetCookie(w, h.cookie(token))
}
