package middleware

import (
	"net"
	"net/http"
	"slices"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter throttles each client IP independently.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
	allow    map[string]bool
}

func NewRateLimiter(rps float64, burst int, allowIPs ...string) *RateLimiter {
	allow := make(map[string]bool, len(allowIPs))
	for _, ip := range allowIPs {
		allow[ip] = true
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		allow:    allow,
	}
}

func (l *RateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.limiters[ip]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(l.rps, l.burst)
	l.limiters[ip] = limiter
	return limiter
}

func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if l.allow[ip] {
			next.ServeHTTP(w, r)
			return
		}

		if !l.limiter(ip).Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Only limits requests to the given paths and lets everything else through.
func (l *RateLimiter) Only(paths ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := l.Handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(paths, r.URL.Path) {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
