package store

import (
	"context"
	"time"

	"github.com/gdg-garage/flight-booking-api/internal/models"
	"github.com/patrickmn/go-cache"
)

// AirportCache fronts airport lookups. Airports are reference data and do
// not change while the server runs, so entries live for the cache TTL.
type AirportCache struct {
	store *Store
	cache *cache.Cache
}

func NewAirportCache(s *Store, ttl time.Duration) *AirportCache {
	return &AirportCache{store: s, cache: cache.New(ttl, 2*ttl)}
}

func (c *AirportCache) FindAirport(ctx context.Context, code string) (*models.Airport, error) {
	if v, ok := c.cache.Get("airport:" + code); ok {
		a := v.(models.Airport)
		return &a, nil
	}

	a, err := c.store.FindAirport(ctx, code)
	if err != nil {
		return nil, err
	}
	c.cache.Set("airport:"+code, *a, cache.DefaultExpiration)
	return a, nil
}

func (c *AirportCache) ListAirports(ctx context.Context) ([]models.Airport, error) {
	if v, ok := c.cache.Get("airports"); ok {
		return v.([]models.Airport), nil
	}

	airports, err := c.store.ListAirports(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set("airports", airports, cache.DefaultExpiration)
	for _, a := range airports {
		c.cache.Set("airport:"+a.Code, a, cache.DefaultExpiration)
	}
	return airports, nil
}
