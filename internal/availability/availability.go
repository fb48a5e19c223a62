// Package availability answers "what can I fly on this day" and summarises
// the surrounding week for a calendar view.
package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/gdg-garage/flight-booking-api/internal/models"
	"github.com/gdg-garage/flight-booking-api/internal/offset"
	"github.com/gdg-garage/flight-booking-api/internal/pricing"
	"golang.org/x/sync/errgroup"
)

// WeekRadius is the number of days shown either side of the searched date.
const WeekRadius = 3

type FlightFinder interface {
	FindFlights(ctx context.Context, origin, destination string, w offset.Window, minSeats int) ([]models.Schedule, error)
}

// Route is a directed airport pair plus the origin's offset, which defines
// what "a day" means for the search.
type Route struct {
	Origin      string
	Destination string
	Offset      string
}

func RouteBetween(origin, destination *models.Airport) Route {
	return Route{Origin: origin.Code, Destination: destination.Code, Offset: origin.GMTOffset}
}

type Day struct {
	Date      time.Time         `json:"date"`
	Flights   []models.Schedule `json:"-"`
	MinPrice  *float64          `json:"min_price"`
	Available bool              `json:"available"`
}

type Result struct {
	Flights []models.Schedule
	// Prices holds the current price of every flight in Flights, keyed by
	// schedule id. It is the snapshot a pending booking is priced from.
	Prices map[uint]float64
	Week   []Day
}

type Builder struct {
	flights FlightFinder
	clock   pricing.Clock
}

func NewBuilder(flights FlightFinder, clock pricing.Clock) *Builder {
	if clock == nil {
		clock = pricing.SystemClock
	}
	return &Builder{flights: flights, clock: clock}
}

// FlightsOnDate lists flights on the route departing during the local
// calendar day date. A non-nil now moves the start of the window up to now
// without touching its end.
func (b *Builder) FlightsOnDate(ctx context.Context, r Route, date time.Time, now *time.Time) ([]models.Schedule, error) {
	w, err := offset.DayWindow(date, r.Offset)
	if err != nil {
		return nil, err
	}
	if now != nil && now.After(w.Start) {
		w.Start = *now
	}
	if w.Empty() {
		return nil, nil
	}
	return b.flights.FindFlights(ctx, r.Origin, r.Destination, w, 0)
}

// Week returns the flights for date-3 through date+3 in ascending order.
// With a non-nil now, days before today's local date come back empty
// without a query.
func (b *Builder) Week(ctx context.Context, r Route, date time.Time, now *time.Time) ([]Day, error) {
	var today time.Time
	if now != nil {
		var err error
		if today, err = offset.LocalDate(*now, r.Offset); err != nil {
			return nil, err
		}
	}

	anchor := offset.Date(date)
	days := make([]Day, 2*WeekRadius+1)
	g, gctx := errgroup.WithContext(ctx)
	for i := range days {
		d := anchor.AddDate(0, 0, i-WeekRadius)
		days[i].Date = d
		if now != nil && d.Before(today) {
			continue
		}
		g.Go(func() error {
			flights, err := b.FlightsOnDate(gctx, r, d, now)
			if err != nil {
				return fmt.Errorf("flights on %s: %w", d.Format(time.DateOnly), err)
			}
			days[i].Flights = flights
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return days, nil
}

// PriceAndAvailability returns the cheapest bookable price and true, or,
// when nothing has a seat left, the cheapest price overall and false. No
// flights at all gives (nil, false).
func PriceAndAvailability(flights []models.Schedule, now time.Time) (*float64, bool) {
	if len(flights) == 0 {
		return nil, false
	}

	var best, bestOpen *float64
	for i := range flights {
		p := pricing.CurrentPrice(&flights[i], now)
		if best == nil || p < *best {
			best = &p
		}
		if flights[i].SeatsAvail >= 1 && (bestOpen == nil || p < *bestOpen) {
			bestOpen = &p
		}
	}
	if bestOpen != nil {
		return bestOpen, true
	}
	return best, false
}

// SearchResults builds the flight list for date together with its week
// summary. excludePast hides departures before the current instant.
func (b *Builder) SearchResults(ctx context.Context, r Route, date time.Time, excludePast bool) (*Result, error) {
	now := b.clock.Now()
	var clamp *time.Time
	if excludePast {
		clamp = &now
	}

	week, err := b.Week(ctx, r, date, clamp)
	if err != nil {
		return nil, err
	}

	for i := range week {
		week[i].MinPrice, week[i].Available = PriceAndAvailability(week[i].Flights, now)
	}

	res := &Result{
		Flights: week[WeekRadius].Flights,
		Prices:  make(map[uint]float64, len(week[WeekRadius].Flights)),
		Week:    week,
	}
	for i := range res.Flights {
		res.Prices[res.Flights[i].ID] = pricing.CurrentPrice(&res.Flights[i], now)
	}
	return res, nil
}
