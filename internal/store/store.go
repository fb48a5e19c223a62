// Package store is the gorm-backed persistence layer for airports, flights,
// customers and bookings.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdg-garage/flight-booking-api/internal/models"
	"github.com/gdg-garage/flight-booking-api/internal/offset"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a Store bound to a single database
// transaction. Returning an error rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return err
}

func (s *Store) FindAirport(ctx context.Context, code string) (*models.Airport, error) {
	var a models.Airport
	if err := s.db.WithContext(ctx).First(&a, "code = ?", code).Error; err != nil {
		return nil, notFound(err, "airport "+code)
	}
	return &a, nil
}

func (s *Store) ListAirports(ctx context.Context) ([]models.Airport, error) {
	var airports []models.Airport
	err := s.db.WithContext(ctx).Order("name").Find(&airports).Error
	return airports, err
}

// Destinations lists airports reachable from origin by at least one
// scheduled flight.
func (s *Store) Destinations(ctx context.Context, origin string) ([]models.Airport, error) {
	var airports []models.Airport
	sub := s.db.Model(&models.Schedule{}).Select("destination_code").Where("origin_code = ?", origin)
	err := s.db.WithContext(ctx).
		Where("code IN (?)", sub).
		Order("name").
		Find(&airports).Error
	return airports, err
}

// FindFlights returns flights on the route departing inside w, earliest
// first. A zero w.End leaves the range open. minSeats <= 0 disables the
// seat filter.
func (s *Store) FindFlights(ctx context.Context, origin, destination string, w offset.Window, minSeats int) ([]models.Schedule, error) {
	q := s.db.WithContext(ctx).
		Preload("Aircraft").
		Preload("Origin").
		Preload("Destination").
		Where("origin_code = ? AND destination_code = ?", origin, destination).
		Where("depart_at >= ?", w.Start.UTC())
	if !w.End.IsZero() {
		q = q.Where("depart_at < ?", w.End.UTC())
	}
	if minSeats > 0 {
		q = q.Where("seats_avail >= ?", minSeats)
	}

	var flights []models.Schedule
	if err := q.Order("depart_at").Order("id").Find(&flights).Error; err != nil {
		return nil, err
	}
	return flights, nil
}

func (s *Store) FindSchedule(ctx context.Context, id uint) (*models.Schedule, error) {
	var f models.Schedule
	err := s.db.WithContext(ctx).
		Preload("Aircraft").
		Preload("Origin").
		Preload("Destination").
		First(&f, id).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("flight %d", id))
	}
	return &f, nil
}

// AdjustSeats moves seats_avail by delta. The bound check and the write are
// a single statement, so two concurrent commits cannot both take the last
// seat.
func (s *Store) AdjustSeats(ctx context.Context, flightID uint, delta int) error {
	res := s.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("id = ?", flightID).
		Where("seats_avail + ? >= 0", delta).
		Where("seats_avail + ? <= (SELECT max_seats FROM aircraft WHERE aircraft.name = schedules.aircraft_name)", delta).
		Update("seats_avail", gorm.Expr("seats_avail + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var f models.Schedule
	if err := s.db.WithContext(ctx).Select("id", "seats_avail").First(&f, flightID).Error; err != nil {
		return notFound(err, fmt.Sprintf("flight %d", flightID))
	}
	return &models.InventoryError{FlightID: flightID, Available: f.SeatsAvail, Delta: delta}
}

func (s *Store) BookingExists(ctx context.Context, ref string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Booking{}).Where("ref = ?", ref).Count(&n).Error
	return n > 0, err
}

func (s *Store) SaveBooking(ctx context.Context, b *models.Booking) error {
	err := s.db.WithContext(ctx).Omit("Customer", "DepartSchedule", "ReturnSchedule").Create(b).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &models.ConflictError{Field: "ref", Value: b.Ref}
	}
	return err
}

func (s *Store) FindBooking(ctx context.Context, ref string) (*models.Booking, error) {
	var b models.Booking
	err := s.bookingQuery(ctx).First(&b, "ref = ?", ref).Error
	if err != nil {
		return nil, notFound(err, "booking "+ref)
	}
	return &b, nil
}

// CustomerBookings lists a customer's bookings, newest first.
func (s *Store) CustomerBookings(ctx context.Context, customerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.bookingQuery(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (s *Store) bookingQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Customer").
		Preload("DepartSchedule.Aircraft").
		Preload("DepartSchedule.Origin").
		Preload("DepartSchedule.Destination").
		Preload("ReturnSchedule.Aircraft").
		Preload("ReturnSchedule.Origin").
		Preload("ReturnSchedule.Destination")
}

func (s *Store) DeleteBooking(ctx context.Context, ref string) error {
	res := s.db.WithContext(ctx).Delete(&models.Booking{}, "ref = ?", ref)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("booking %s: %w", ref, models.ErrNotFound)
	}
	return nil
}

func (s *Store) FindCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("customer %d", id))
	}
	return &c, nil
}

func (s *Store) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var c models.Customer
	if err := s.db.WithContext(ctx).First(&c, "email = ?", email).Error; err != nil {
		return nil, notFound(err, "customer "+email)
	}
	return &c, nil
}

func (s *Store) SaveCustomer(ctx context.Context, c *models.Customer) error {
	err := s.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &models.ConflictError{Field: "email", Value: c.Email}
	}
	return err
}
