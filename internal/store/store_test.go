package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdg-garage/flight-booking-api/internal/database"
	"github.com/gdg-garage/flight-booking-api/internal/models"
	"github.com/gdg-garage/flight-booking-api/internal/offset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	require.NoError(t, db.Create(&models.Aircraft{Name: "SJ30i", Brand: "SyberJet", MaxSeats: 6}).Error)
	require.NoError(t, db.Create([]models.Airport{
		{Code: "NZNE", Name: "Dairy Flat", Region: "Auckland", GMTOffset: "+12:00"},
		{Code: "YMML", Name: "Melbourne", Region: "Victoria", GMTOffset: "+10:00"},
		{Code: "NZRO", Name: "Rotorua", Region: "Bay of Plenty", GMTOffset: "+12:00"},
	}).Error)
	return New(db)
}

func addFlight(t *testing.T, s *Store, origin, dest string, departUTC time.Time, seats int) *models.Schedule {
	t.Helper()
	f := &models.Schedule{
		FlightNo:        "BA001",
		DepartAt:        departUTC,
		ArriveAt:        departUTC.Add(4 * time.Hour),
		SeatsAvail:      seats,
		AircraftName:    "SJ30i",
		OriginCode:      origin,
		DestinationCode: dest,
		BasePrice:       250,
	}
	require.NoError(t, s.DB().Create(f).Error)
	return f
}

func TestFindAirport(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	a, err := s.FindAirport(ctx, "YMML")
	require.NoError(t, err)
	assert.Equal(t, "+10:00", a.GMTOffset)

	_, err = s.FindAirport(ctx, "XXXX")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFindFlights_Window(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	w, err := offset.DayWindow(day, "+12:00")
	require.NoError(t, err)

	before := addFlight(t, s, "NZNE", "YMML", w.Start.Add(-time.Minute), 6)
	first := addFlight(t, s, "NZNE", "YMML", w.Start, 6)
	late := addFlight(t, s, "NZNE", "YMML", w.End.Add(-time.Minute), 1)
	addFlight(t, s, "NZNE", "YMML", w.End, 6)
	addFlight(t, s, "NZNE", "NZRO", w.Start.Add(time.Hour), 6)

	flights, err := s.FindFlights(ctx, "NZNE", "YMML", w, 0)
	require.NoError(t, err)
	require.Len(t, flights, 2)
	assert.Equal(t, first.ID, flights[0].ID)
	assert.Equal(t, late.ID, flights[1].ID)
	assert.Equal(t, 6, flights[0].Aircraft.MaxSeats)
	assert.Equal(t, "+10:00", flights[0].Destination.GMTOffset)

	flights, err = s.FindFlights(ctx, "NZNE", "YMML", w, 2)
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, first.ID, flights[0].ID)

	open, err := s.FindFlights(ctx, "NZNE", "YMML", offset.Window{Start: before.DepartAt}, 0)
	require.NoError(t, err)
	assert.Len(t, open, 4)
}

func TestFindFlights_StoresUTC(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	zone, err := offset.Zone("+12:00")
	require.NoError(t, err)
	// 01:00 local on the 20th is 13:00Z on the 19th
	addFlight(t, s, "NZNE", "YMML", time.Date(2026, 10, 20, 1, 0, 0, 0, zone), 6)

	w, err := offset.DayWindow(day, "+12:00")
	require.NoError(t, err)
	flights, err := s.FindFlights(ctx, "NZNE", "YMML", w, 0)
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.True(t, flights[0].DepartAt.Equal(time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC)))
}

func TestAdjustSeats_Bounds(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	f := addFlight(t, s, "NZNE", "YMML", day, 5)

	require.NoError(t, s.AdjustSeats(ctx, f.ID, -3))
	got, err := s.FindSchedule(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SeatsAvail)

	err = s.AdjustSeats(ctx, f.ID, -3)
	var inv *models.InventoryError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, 2, inv.Available)
	assert.Equal(t, -3, inv.Delta)
	assert.ErrorIs(t, err, models.ErrInventory)

	// cannot exceed aircraft capacity
	err = s.AdjustSeats(ctx, f.ID, 5)
	assert.ErrorIs(t, err, models.ErrInventory)

	require.NoError(t, s.AdjustSeats(ctx, f.ID, 4))
	got, _ = s.FindSchedule(ctx, f.ID)
	assert.Equal(t, 6, got.SeatsAvail)

	assert.ErrorIs(t, s.AdjustSeats(ctx, 999, -1), models.ErrNotFound)
}

func TestTransaction_RollsBack(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	f := addFlight(t, s, "NZNE", "YMML", day, 5)

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx *Store) error {
		require.NoError(t, tx.AdjustSeats(ctx, f.ID, -2))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.FindSchedule(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.SeatsAvail)
}

func TestBookings(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	out := addFlight(t, s, "NZNE", "YMML", day, 5)
	back := addFlight(t, s, "YMML", "NZNE", day.AddDate(0, 0, 3), 5)

	c := &models.Customer{FirstName: "Kim", LastName: "Lee", Email: "kim@example.com"}
	require.NoError(t, s.SaveCustomer(ctx, c))

	returnPrice := 300.0
	older := &models.Booking{Ref: "AAAAAA", Tickets: 1, CustomerID: c.ID, DepartScheduleID: out.ID, DepartPrice: 250, CreatedAt: day}
	newer := &models.Booking{
		Ref: "BBBBBB", Tickets: 2, CustomerID: c.ID,
		DepartScheduleID: out.ID, ReturnScheduleID: &back.ID,
		DepartPrice: 250, ReturnPrice: &returnPrice, CreatedAt: day.Add(time.Hour),
	}
	require.NoError(t, s.SaveBooking(ctx, older))
	require.NoError(t, s.SaveBooking(ctx, newer))

	exists, err := s.BookingExists(ctx, "AAAAAA")
	require.NoError(t, err)
	assert.True(t, exists)

	dup := &models.Booking{Ref: "AAAAAA", Tickets: 1, CustomerID: c.ID, DepartScheduleID: out.ID, DepartPrice: 1}
	var conflict *models.ConflictError
	require.ErrorAs(t, s.SaveBooking(ctx, dup), &conflict)
	assert.Equal(t, "ref", conflict.Field)

	list, err := s.CustomerBookings(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "BBBBBB", list[0].Ref)
	require.NotNil(t, list[0].ReturnSchedule)
	assert.Equal(t, "NZNE", list[0].ReturnSchedule.Destination.Code)
	assert.Nil(t, list[1].ReturnSchedule)

	b, err := s.FindBooking(ctx, "BBBBBB")
	require.NoError(t, err)
	assert.Equal(t, "kim@example.com", b.Customer.Email)
	assert.Equal(t, 300.0, *b.ReturnPrice)

	require.NoError(t, s.DeleteBooking(ctx, "AAAAAA"))
	assert.ErrorIs(t, s.DeleteBooking(ctx, "AAAAAA"), models.ErrNotFound)
	_, err = s.FindBooking(ctx, "AAAAAA")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCustomers(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	c := &models.Customer{FirstName: "Ana", LastName: "Silva", Email: "ana@example.com"}
	require.NoError(t, s.SaveCustomer(ctx, c))

	got, err := s.FindCustomerByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	err = s.SaveCustomer(ctx, &models.Customer{FirstName: "A", LastName: "S", Email: "ana@example.com"})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = s.FindCustomerByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = s.FindCustomer(ctx, 42)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDestinations(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	addFlight(t, s, "NZNE", "YMML", day, 5)
	addFlight(t, s, "NZNE", "NZRO", day, 5)
	addFlight(t, s, "NZNE", "NZRO", day.Add(time.Hour), 5)

	dests, err := s.Destinations(ctx, "NZNE")
	require.NoError(t, err)
	require.Len(t, dests, 2)
	assert.Equal(t, "Melbourne", dests[0].Name)
	assert.Equal(t, "Rotorua", dests[1].Name)
}

func TestAirportCache(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	c := NewAirportCache(s, time.Minute)

	all, err := c.ListAirports(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// served from cache after the row is gone
	require.NoError(t, s.DB().Delete(&models.Airport{}, "code = ?", "NZRO").Error)
	a, err := c.FindAirport(ctx, "NZRO")
	require.NoError(t, err)
	assert.Equal(t, "Rotorua", a.Name)

	_, err = c.FindAirport(ctx, "XXXX")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
