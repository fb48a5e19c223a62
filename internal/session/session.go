// Package session holds per-visitor booking state between requests. A
// pending booking lives only here; when the session expires it is gone.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gdg-garage/flight-booking-api/internal/booking"
	"github.com/gdg-garage/flight-booking-api/internal/models"
	"github.com/google/uuid"
)

type Data struct {
	ID         string `json:"id"`
	CustomerID *uint  `json:"customer_id,omitempty"`
	// SearchQuery is the last accepted search, already normalised.
	SearchQuery string `json:"search_query,omitempty"`
	Travellers  int    `json:"travellers,omitempty"`
	// Prices is the snapshot of prices shown with the last search results.
	Prices map[uint]float64 `json:"prices,omitempty"`
	// DepartChoices and ReturnChoices are the flight ids the last search
	// offered; a selection must come from them.
	DepartChoices []uint                  `json:"depart_choices,omitempty"`
	ReturnChoices []uint                  `json:"return_choices,omitempty"`
	Pending       *booking.PendingBooking `json:"pending,omitempty"`
	BookedRef     string                  `json:"booked_ref,omitempty"`
	CancelledRef  string                  `json:"cancelled_ref,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	ExpiresAt     time.Time               `json:"expires_at"`
}

// ClearBooking drops everything tied to an in-progress selection.
func (d *Data) ClearBooking() {
	d.Pending = nil
	d.Prices = nil
	d.DepartChoices = nil
	d.ReturnChoices = nil
}

type Store interface {
	Create(ctx context.Context) (*Data, error)
	Get(ctx context.Context, id string) (*Data, error)
	// Save writes the session back and restarts its TTL.
	Save(ctx context.Context, d *Data) error
	Delete(ctx context.Context, id string) error
}

func newData(ttl time.Duration) *Data {
	now := time.Now().UTC()
	return &Data{
		ID:        uuid.New().String(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func key(id string) string {
	return "session:" + id
}

func notFound(id string) error {
	return fmt.Errorf("session %s: %w", id, models.ErrNotFound)
}

func encode(d *Data) ([]byte, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	return b, nil
}

func decode(b []byte) (*Data, error) {
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &d, nil
}
