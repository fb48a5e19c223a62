// Package booking assembles pending bookings and commits or cancels them
// against seat inventory in a single transaction.
package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdg-garage/flight-booking-api/internal/logging"
	"github.com/gdg-garage/flight-booking-api/internal/models"
	"github.com/gdg-garage/flight-booking-api/internal/pricing"
	"github.com/gdg-garage/flight-booking-api/internal/store"
)

// MaxRefAttempts bounds reference generation. With 36^6 references a
// collision streak this long means the generator is broken.
const MaxRefAttempts = 20

type Notifier interface {
	NotifyBooking(ctx context.Context, b *models.Booking, c *models.Customer)
	NotifyCancellation(ctx context.Context, b *models.Booking)
}

type Recorder interface {
	BookingCommitted(tickets int)
	BookingCancelled(tickets int)
	RefCollision()
	InventoryRejected(leg string)
}

type Manager struct {
	store    *store.Store
	clock    pricing.Clock
	newRef   RefGenerator
	notifier Notifier
	metrics  Recorder
}

type Option func(*Manager)

func WithClock(c pricing.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

func WithRefGenerator(g RefGenerator) Option {
	return func(m *Manager) { m.newRef = g }
}

func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

func WithMetrics(r Recorder) Option {
	return func(m *Manager) { m.metrics = r }
}

func NewManager(s *store.Store, opts ...Option) *Manager {
	m := &Manager{store: s, clock: pricing.SystemClock, newRef: RandomRef}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Commit persists the pending booking for customer and takes its seats.
// Either the booking row and every seat decrement land together or nothing
// does.
func (m *Manager) Commit(ctx context.Context, p *PendingBooking, customer *models.Customer) (*models.Booking, error) {
	if p.Tickets < 1 {
		verr := &models.ValidationError{}
		verr.Add("tickets", "At least one ticket is required.")
		return nil, verr
	}

	b := &models.Booking{
		Tickets:          p.Tickets,
		CustomerID:       customer.ID,
		DepartScheduleID: p.DepartFlightID,
		ReturnScheduleID: p.ReturnFlightID,
		DepartPrice:      p.Prices.Depart,
		ReturnPrice:      p.Prices.Return,
	}

	err := m.store.Transaction(ctx, func(tx *store.Store) error {
		legs := []struct {
			name string
			id   *uint
		}{
			{models.LegDepart, &p.DepartFlightID},
			{models.LegReturn, p.ReturnFlightID},
		}
		for _, leg := range legs {
			if leg.id == nil {
				continue
			}
			f, err := tx.FindSchedule(ctx, *leg.id)
			if err != nil {
				return err
			}
			if f.SeatsAvail < 1 {
				return &models.InventoryError{Leg: leg.name, FlightID: f.ID, Available: f.SeatsAvail}
			}
		}

		ref, err := m.uniqueRef(ctx, tx)
		if err != nil {
			return err
		}
		b.Ref = ref
		b.CreatedAt = m.clock.Now()
		if err := tx.SaveBooking(ctx, b); err != nil {
			return err
		}

		for _, leg := range legs {
			if leg.id == nil {
				continue
			}
			if err := tx.AdjustSeats(ctx, *leg.id, -p.Tickets); err != nil {
				var inv *models.InventoryError
				if errors.As(err, &inv) {
					inv.Leg = leg.name
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		var inv *models.InventoryError
		if errors.As(err, &inv) {
			logging.Warn("Booking rejected", "leg", inv.Leg, "flight_id", inv.FlightID, "seats_avail", inv.Available, "tickets", p.Tickets)
			if m.metrics != nil {
				m.metrics.InventoryRejected(inv.Leg)
			}
		}
		return nil, err
	}

	logging.Info("Booking committed",
		"ref", b.Ref,
		"customer_id", customer.ID,
		"tickets", b.Tickets,
		"depart_flight_id", b.DepartScheduleID,
	)
	if m.metrics != nil {
		m.metrics.BookingCommitted(b.Tickets)
	}
	if m.notifier != nil {
		m.notifier.NotifyBooking(ctx, b, customer)
	}
	return b, nil
}

func (m *Manager) uniqueRef(ctx context.Context, tx *store.Store) (string, error) {
	for range MaxRefAttempts {
		ref, err := m.newRef()
		if err != nil {
			return "", fmt.Errorf("generate booking ref: %w", err)
		}
		taken, err := tx.BookingExists(ctx, ref)
		if err != nil {
			return "", err
		}
		if !taken {
			return ref, nil
		}
		logging.Warn("Booking ref collision", "ref", ref)
		if m.metrics != nil {
			m.metrics.RefCollision()
		}
	}
	return "", &models.ConflictError{Field: "ref", Value: fmt.Sprintf("%d attempts", MaxRefAttempts)}
}

// Cancel deletes the booking and gives its seats back in one transaction.
func (m *Manager) Cancel(ctx context.Context, b *models.Booking) error {
	err := m.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.DeleteBooking(ctx, b.Ref); err != nil {
			return err
		}
		for _, id := range b.Legs() {
			if err := tx.AdjustSeats(ctx, id, b.Tickets); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.Info("Booking cancelled", "ref", b.Ref, "tickets", b.Tickets)
	if m.metrics != nil {
		m.metrics.BookingCancelled(b.Tickets)
	}
	if m.notifier != nil {
		m.notifier.NotifyCancellation(ctx, b)
	}
	return nil
}
