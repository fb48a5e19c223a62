// Package pricing computes the current sell price of a scheduled flight.
package pricing

import (
	"math"
	"time"

	"github.com/gdg-garage/flight-booking-api/internal/models"
)

const (
	// LastMinuteDays is the horizon inside which the base price is charged as is.
	LastMinuteDays = 3
	// WindowDays is how far out the early-booking decay starts.
	WindowDays = 28

	dailyRate  = 0.015
	seatWeight = 0.5
	maxSurge   = 0.40
)

// Clock supplies "now". Nothing in this package reads the system time.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock is the wall clock in UTC.
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })

// Fixed returns a clock frozen at t.
func Fixed(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

type Inputs struct {
	BasePrice  float64
	SeatsAvail int
	MaxSeats   int
	DepartAt   time.Time
}

// DaysToDeparture is the number of whole days between now and departure,
// rounded down.
func DaysToDeparture(departAt, now time.Time) int {
	return int(math.Floor(departAt.Sub(now).Hours() / 24))
}

// Price returns the sell price for in at now, rounded to cents.
func Price(in Inputs, now time.Time) float64 {
	days := DaysToDeparture(in.DepartAt, now)
	if days <= LastMinuteDays {
		return in.BasePrice
	}

	withinWindow := max(0, WindowDays-days)

	var seatRatio float64
	if in.MaxSeats > 0 {
		seatRatio = float64(in.MaxSeats-in.SeatsAvail) / float64(in.MaxSeats)
		seatRatio = min(max(seatRatio, 0), 1)
	}

	pct := min(dailyRate*float64(withinWindow)+seatWeight*seatRatio, maxSurge)
	return round2(in.BasePrice * (1 + pct))
}

// CurrentPrice prices a schedule row. Aircraft must be loaded.
func CurrentPrice(s *models.Schedule, now time.Time) float64 {
	return Price(Inputs{
		BasePrice:  s.BasePrice,
		SeatsAvail: s.SeatsAvail,
		MaxSeats:   s.Aircraft.MaxSeats,
		DepartAt:   s.DepartAt,
	}, now)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
