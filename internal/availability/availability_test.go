package availability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gdg-garage/flight-booking-api/internal/models"
	"github.com/gdg-garage/flight-booking-api/internal/offset"
	"github.com/gdg-garage/flight-booking-api/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	mu      sync.Mutex
	flights []models.Schedule
	windows []offset.Window
	err     error
}

func (f *fakeFinder) FindFlights(_ context.Context, origin, dest string, w offset.Window, minSeats int) ([]models.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = append(f.windows, w)
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Schedule
	for _, s := range f.flights {
		if s.OriginCode == origin && s.DestinationCode == dest && w.Contains(s.DepartAt) && s.SeatsAvail >= minSeats {
			out = append(out, s)
		}
	}
	return out, nil
}

var route = Route{Origin: "NZNE", Destination: "YMML", Offset: "+12:00"}

var sj30 = models.Aircraft{Name: "SJ30i", MaxSeats: 6}

// flight departs at local hh:mm on the given local date at +12:00.
func flight(id uint, date time.Time, hh, mm, seats int) models.Schedule {
	depart := time.Date(date.Year(), date.Month(), date.Day(), hh, mm, 0, 0, time.FixedZone("", 12*3600)).UTC()
	return models.Schedule{
		ID:              id,
		DepartAt:        depart,
		ArriveAt:        depart.Add(4 * time.Hour),
		SeatsAvail:      seats,
		Aircraft:        sj30,
		AircraftName:    sj30.Name,
		OriginCode:      "NZNE",
		DestinationCode: "YMML",
		BasePrice:       250,
	}
}

func date(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFlightsOnDate_Clamp(t *testing.T) {
	f := &fakeFinder{flights: []models.Schedule{
		flight(1, date(10, 20), 8, 0, 6),
		flight(2, date(10, 20), 18, 0, 6),
		flight(3, date(10, 21), 0, 30, 6),
	}}
	b := NewBuilder(f, nil)
	ctx := context.Background()

	all, err := b.FlightsOnDate(ctx, route, date(10, 20), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// noon local on the 20th
	now := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	later, err := b.FlightsOnDate(ctx, route, date(10, 20), &now)
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.Equal(t, uint(2), later[0].ID)

	last := f.windows[len(f.windows)-1]
	assert.Equal(t, now, last.Start)
	assert.Equal(t, time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC), last.End, "end is not shifted")
}

func TestFlightsOnDate_PastDaySkipsQuery(t *testing.T) {
	f := &fakeFinder{}
	b := NewBuilder(f, nil)

	now := time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)
	got, err := b.FlightsOnDate(context.Background(), route, date(10, 20), &now)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, f.windows)
}

func TestWeek_Ordering(t *testing.T) {
	var flights []models.Schedule
	for i := -4; i <= 4; i++ {
		flights = append(flights, flight(uint(i+10), date(10, 20).AddDate(0, 0, i), 9, 0, 6))
	}
	f := &fakeFinder{flights: flights}
	b := NewBuilder(f, nil)

	week, err := b.Week(context.Background(), route, date(10, 20), nil)
	require.NoError(t, err)
	require.Len(t, week, 7)
	for i, d := range week {
		assert.Equal(t, date(10, 17).AddDate(0, 0, i), d.Date)
		require.Len(t, d.Flights, 1)
		assert.Equal(t, uint(i+7), d.Flights[0].ID)
	}
}

func TestWeek_NowBoundary(t *testing.T) {
	var flights []models.Schedule
	id := uint(1)
	for i := -3; i <= 3; i++ {
		d := date(10, 20).AddDate(0, 0, i)
		flights = append(flights, flight(id, d, 7, 0, 6), flight(id+1, d, 20, 0, 6))
		id += 2
	}
	f := &fakeFinder{flights: flights}
	b := NewBuilder(f, nil)

	// 2026-10-19 10:00 local
	now := time.Date(2026, 10, 18, 22, 0, 0, 0, time.UTC)
	week, err := b.Week(context.Background(), route, date(10, 20), &now)
	require.NoError(t, err)

	assert.Empty(t, week[0].Flights)
	assert.Empty(t, week[1].Flights)
	require.Len(t, week[2].Flights, 1, "today keeps only departures after now")
	assert.Equal(t, 20, week[2].Flights[0].DepartAt.In(time.FixedZone("", 12*3600)).Hour())
	for _, d := range week[3:] {
		assert.Len(t, d.Flights, 2)
	}
	assert.Len(t, f.windows, 5, "past days are not queried")
}

func TestWeek_Error(t *testing.T) {
	boom := errors.New("db down")
	b := NewBuilder(&fakeFinder{err: boom}, nil)
	_, err := b.Week(context.Background(), route, date(10, 20), nil)
	assert.ErrorIs(t, err, boom)

	_, err = b.Week(context.Background(), Route{Origin: "A", Destination: "B", Offset: "bad"}, date(10, 20), nil)
	var fe *offset.FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestPriceAndAvailability(t *testing.T) {
	now := date(10, 1)
	d := date(10, 11)

	t.Run("NoFlights", func(t *testing.T) {
		p, ok := PriceAndAvailability(nil, now)
		assert.Nil(t, p)
		assert.False(t, ok)
	})

	t.Run("CheapestBookable", func(t *testing.T) {
		full := flight(1, d, 9, 0, 0)      // sold out, highest surge
		open := flight(2, d, 12, 0, 6)     // empty
		filling := flight(3, d, 15, 0, 2)  // 4/6 sold
		p, ok := PriceAndAvailability([]models.Schedule{full, open, filling}, now)
		require.NotNil(t, p)
		assert.True(t, ok)
		assert.Equal(t, pricing.CurrentPrice(&open, now), *p)
	})

	t.Run("NothingBookable", func(t *testing.T) {
		a := flight(1, d, 9, 0, 0)
		b := flight(2, d, 12, 0, 0)
		b.BasePrice = 100
		p, ok := PriceAndAvailability([]models.Schedule{a, b}, now)
		require.NotNil(t, p)
		assert.False(t, ok)
		assert.Equal(t, pricing.CurrentPrice(&b, now), *p)
	})
}

func TestSearchResults(t *testing.T) {
	now := time.Date(2026, 10, 18, 22, 0, 0, 0, time.UTC) // 10:00 local on the 19th
	f := &fakeFinder{flights: []models.Schedule{
		flight(1, date(10, 19), 8, 0, 6),
		flight(2, date(10, 19), 18, 0, 0),
		flight(3, date(10, 20), 9, 0, 3),
		flight(4, date(10, 16), 9, 0, 3),
	}}
	b := NewBuilder(f, pricing.Fixed(now))

	res, err := b.SearchResults(context.Background(), route, date(10, 19), true)
	require.NoError(t, err)

	require.Len(t, res.Flights, 1)
	assert.Equal(t, uint(2), res.Flights[0].ID)
	assert.Equal(t, map[uint]float64{2: 250}, res.Prices)

	require.Len(t, res.Week, 7)
	assert.Nil(t, res.Week[0].MinPrice, "past day")
	assert.False(t, res.Week[3].Available, "only a full flight left today")
	require.NotNil(t, res.Week[3].MinPrice)
	assert.Equal(t, 250.0, *res.Week[3].MinPrice)
	assert.True(t, res.Week[4].Available)

	all, err := b.SearchResults(context.Background(), route, date(10, 19), false)
	require.NoError(t, err)
	assert.Len(t, all.Flights, 2)
	assert.NotNil(t, all.Week[0].MinPrice)
}
