package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/flight-booking-api/internal/auth"
	"github.com/gdg-garage/flight-booking-api/internal/config"
	"github.com/gdg-garage/flight-booking-api/internal/metrics"
	mw "github.com/gdg-garage/flight-booking-api/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func RegisterRoutes(r *chi.Mux, cfg *config.Config, reg *metrics.Registry, authHandler *auth.AuthHandler, flightHandler *FlightHandler, bookingHandler *BookingHandler) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(mw.Metrics(reg))
	r.Use(mw.InFlight(reg))

	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			ExposedHeaders:   []string{"Location"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", reg.Handler())

	limiter := mw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r.Group(func(r chi.Router) {
		r.Use(authHandler.SessionMiddleware)
		r.Use(limiter.Only("/login", "/register"))

		humaConfig := huma.DefaultConfig("Flight Booking API", "1.0.0")
		humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
			"sessionCookie": {
				Type: "apiKey",
				In:   "cookie",
				Name: auth.CookieName,
			},
		}
		api := humachi.New(r, humaConfig)
		loggedIn := func(o *huma.Operation) {
			o.Security = []map[string][]string{{"sessionCookie": {}}}
		}

		// Search
		huma.Get(api, "/airports", flightHandler.HandleAirports)
		huma.Get(api, "/destinations", flightHandler.HandleDestinations)
		huma.Get(api, "/flight-dates", flightHandler.HandleFlightDates)
		huma.Get(api, "/flights", flightHandler.HandleSearch)
		huma.Post(api, "/flights/select", flightHandler.HandleSelect)

		// Customers
		huma.Post(api, "/register", authHandler.HandleRegister)
		huma.Post(api, "/login", authHandler.HandleLogin)
		huma.Post(api, "/logout", authHandler.HandleLogout)
		huma.Get(api, "/me", authHandler.HandleMe, loggedIn)

		// Bookings
		huma.Get(api, "/confirm", bookingHandler.HandleReview, loggedIn)
		huma.Post(api, "/confirm", bookingHandler.HandleConfirm, loggedIn)
		huma.Get(api, "/bookings", bookingHandler.HandleBookings, loggedIn)
		huma.Post(api, "/bookings/cancel", bookingHandler.HandleCancel, loggedIn)
		huma.Get(api, "/invoice", bookingHandler.HandleInvoice, loggedIn)
	})
}
