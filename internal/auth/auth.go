package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/flight-booking-api/internal/config"
	"github.com/gdg-garage/flight-booking-api/internal/logging"
	"github.com/gdg-garage/flight-booking-api/internal/models"
	"github.com/gdg-garage/flight-booking-api/internal/session"
	"github.com/gdg-garage/flight-booking-api/internal/store"
	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "flight_session"

// DefaultTokenDuration applies when no session TTL is configured.
const DefaultTokenDuration = 2 * time.Hour

type SessionCounter interface {
	SessionCreated()
}

// AuthHandler ties a visitor's cookie to their server-side session and
// identifies customers by email alone. Anyone who knows a registered email
// can act as that customer.
type AuthHandler struct {
	cfg      *config.Config
	store    *store.Store
	sessions session.Store
	counter  SessionCounter
}

func NewAuthHandler(cfg *config.Config, s *store.Store, sessions session.Store, counter SessionCounter) *AuthHandler {
	return &AuthHandler{cfg: cfg, store: s, sessions: sessions, counter: counter}
}

func (h *AuthHandler) tokenDuration() time.Duration {
	if h.cfg.SessionTTL > 0 {
		return h.cfg.SessionTTL
	}
	return DefaultTokenDuration
}

func (h *AuthHandler) GenerateToken(sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": time.Now().Add(h.tokenDuration()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// ParseToken validates the signature and expiry and returns the session id
// with the token's expiry.
func (h *AuthHandler) ParseToken(tokenString string) (string, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", time.Time{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", time.Time{}, errors.New("invalid token claims")
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", time.Time{}, errors.New("invalid token claims")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "", time.Time{}, errors.New("token has no expiry")
	}
	return sid, exp.Time, nil
}

func (h *AuthHandler) cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(h.tokenDuration()),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	}
}

// Customer returns the logged-in customer for the request's session.
func (h *AuthHandler) Customer(ctx context.Context) (*models.Customer, error) {
	d := SessionFrom(ctx)
	if d == nil || d.CustomerID == nil {
		return nil, ErrNotLoggedIn
	}
	c, err := h.store.FindCustomer(ctx, *d.CustomerID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrNotLoggedIn
	}
	return c, err
}

var ErrNotLoggedIn = errors.New("not logged in")

type CustomerBody struct {
	ID        uint   `json:"id"`
	Title     string `json:"title,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func NewCustomerBody(c *models.Customer) CustomerBody {
	return CustomerBody{ID: c.ID, Title: c.Title, FirstName: c.FirstName, LastName: c.LastName, Email: c.Email}
}

type LoginInput struct {
	Body struct {
		Email string `json:"email" doc:"Registered email address" minLength:"3" maxLength:"254"`
	}
}

type CustomerOutput struct {
	Body CustomerBody
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginInput) (*CustomerOutput, error) {
	d := SessionFrom(ctx)
	if d == nil {
		return nil, huma.Error500InternalServerError("session missing")
	}

	c, err := h.store.FindCustomerByEmail(ctx, normalizeEmail(input.Body.Email))
	if errors.Is(err, models.ErrNotFound) {
		return nil, huma.Error422UnprocessableEntity("No customer registered with that email.", &huma.ErrorDetail{
			Location: "body.email",
			Message:  "No customer registered with that email.",
		})
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to look up customer", err)
	}

	d.CustomerID = &c.ID
	if err := h.sessions.Save(ctx, d); err != nil {
		return nil, huma.Error500InternalServerError("Failed to save session", err)
	}
	logging.Info("Customer logged in", "customer_id", c.ID)

	return &CustomerOutput{Body: NewCustomerBody(c)}, nil
}

type RegisterInput struct {
	Body struct {
		Title     string `json:"title,omitempty" enum:"Mr,Mrs,Ms,Mx,Dr" required:"false"`
		FirstName string `json:"first_name" minLength:"1" maxLength:"50"`
		LastName  string `json:"last_name" minLength:"1" maxLength:"50"`
		Sex       string `json:"sex,omitempty" enum:"M,F,X" required:"false"`
		Email     string `json:"email" maxLength:"254"`
	}
}

type RegisterOutput struct {
	Status int
	Body   CustomerBody
}

func (h *AuthHandler) HandleRegister(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	d := SessionFrom(ctx)
	if d == nil {
		return nil, huma.Error500InternalServerError("session missing")
	}

	email := normalizeEmail(input.Body.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, huma.Error422UnprocessableEntity("Invalid email", &huma.ErrorDetail{
			Location: "body.email",
			Message:  "Invalid email",
			Value:    input.Body.Email,
		})
	}

	c := &models.Customer{
		Title:     input.Body.Title,
		FirstName: strings.TrimSpace(input.Body.FirstName),
		LastName:  strings.TrimSpace(input.Body.LastName),
		Sex:       input.Body.Sex,
		Email:     email,
	}
	if err := h.store.SaveCustomer(ctx, c); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, huma.Error422UnprocessableEntity("Email already registered.", &huma.ErrorDetail{
				Location: "body.email",
				Message:  "Email already registered.",
				Value:    input.Body.Email,
			})
		}
		return nil, huma.Error500InternalServerError("Failed to register customer", err)
	}

	d.CustomerID = &c.ID
	if err := h.sessions.Save(ctx, d); err != nil {
		return nil, huma.Error500InternalServerError("Failed to save session", err)
	}
	logging.Info("Customer registered", "customer_id", c.ID)

	return &RegisterOutput{Status: http.StatusCreated, Body: NewCustomerBody(c)}, nil
}

type MessageOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

// HandleLogout forgets the customer and any selection in progress but keeps
// the session itself.
func (h *AuthHandler) HandleLogout(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	d := SessionFrom(ctx)
	if d != nil {
		d.CustomerID = nil
		d.ClearBooking()
		if err := h.sessions.Save(ctx, d); err != nil {
			return nil, huma.Error500InternalServerError("Failed to save session", err)
		}
	}
	res := &MessageOutput{}
	res.Body.Message = "Logged out"
	return res, nil
}

func (h *AuthHandler) HandleMe(ctx context.Context, _ *struct{}) (*CustomerOutput, error) {
	c, err := h.Customer(ctx)
	if errors.Is(err, ErrNotLoggedIn) {
		return nil, huma.Error401Unauthorized("Not logged in")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load customer", err)
	}
	return &CustomerOutput{Body: NewCustomerBody(c)}, nil
}
