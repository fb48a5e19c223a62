// Package search turns raw query parameters into a typed flight search.
package search

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gdg-garage/flight-booking-api/internal/models"
)

const (
	MinTravellers = 1
	MaxTravellers = 6
)

type AirportFinder interface {
	FindAirport(ctx context.Context, code string) (*models.Airport, error)
}

// Params are the search inputs exactly as the caller sent them.
type Params struct {
	Origin      string
	Destination string
	DepartDate  string
	ReturnDate  string
	Travellers  string
}

type Request struct {
	Origin      models.Airport
	Destination models.Airport
	DepartDate  time.Time
	ReturnDate  *time.Time
	Travellers  int
}

func (r Request) RoundTrip() bool {
	return r.ReturnDate != nil
}

// Query renders the request back into search parameters, e.g. to redirect
// after NormalizeDates changed something.
func (r Request) Query() url.Values {
	q := url.Values{}
	q.Set("origin", r.Origin.Code)
	q.Set("destination", r.Destination.Code)
	q.Set("depart_date", r.DepartDate.Format(time.DateOnly))
	if r.RoundTrip() {
		q.Set("return_date", r.ReturnDate.Format(time.DateOnly))
	}
	q.Set("travellers", strconv.Itoa(r.Travellers))
	return q
}

type Validator struct {
	airports AirportFinder
}

func NewValidator(airports AirportFinder) *Validator {
	return &Validator{airports: airports}
}

// Validate checks every parameter before failing so the returned
// *models.ValidationError lists all problems at once. Errors other than a
// ValidationError come from the airport lookup itself.
func (v *Validator) Validate(ctx context.Context, p Params) (*Request, error) {
	verr := &models.ValidationError{}
	req := &Request{}

	if p.DepartDate == "" {
		verr.Add("depart_date", "Departure date is required.")
	} else if d, err := time.Parse(time.DateOnly, p.DepartDate); err != nil {
		verr.Add("depart_date", "Invalid departure date.")
	} else {
		req.DepartDate = d
	}

	if p.ReturnDate != "" {
		if d, err := time.Parse(time.DateOnly, p.ReturnDate); err != nil {
			verr.Add("return_date", "Invalid return date.")
		} else {
			req.ReturnDate = &d
		}
	}

	origin, dest, err := v.ValidateAirports(ctx, p.Origin, p.Destination, verr)
	if err != nil {
		return nil, err
	}
	if origin != nil {
		req.Origin, req.Destination = *origin, *dest
	}

	if p.Travellers == "" {
		verr.Add("travellers", "Number of travellers is required.")
	} else if n, err := strconv.Atoi(p.Travellers); err != nil || n < MinTravellers || n > MaxTravellers {
		verr.Add("travellers", "Invalid number of travellers.")
	} else {
		req.Travellers = n
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return req, nil
}

// ValidateAirports resolves an origin/destination pair, adding any problem
// to verr. Both airports are returned only when the pair is usable.
func (v *Validator) ValidateAirports(ctx context.Context, origin, destination string, verr *models.ValidationError) (*models.Airport, *models.Airport, error) {
	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))

	if origin == "" || destination == "" {
		verr.Add("origin", "Origin and destination are required.")
		return nil, nil, nil
	}

	o, err := v.airports.FindAirport(ctx, origin)
	if err == nil {
		var d *models.Airport
		if d, err = v.airports.FindAirport(ctx, destination); err == nil {
			if o.Code == d.Code {
				verr.Add("destination", "Origin and destination cannot be the same.")
				return nil, nil, nil
			}
			return o, d, nil
		}
	}
	if errors.Is(err, models.ErrNotFound) {
		verr.Add("origin", "Invalid origin and/or destination.")
		return nil, nil, nil
	}
	return nil, nil, err
}

// NormalizeDates moves a departure in the past up to today, then a return
// before the departure up to the departure. It reports whether anything
// changed.
func NormalizeDates(req Request, today time.Time) (bool, Request) {
	adjusted := false
	y, m, d := today.Date()
	today = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	if req.DepartDate.Before(today) {
		req.DepartDate = today
		adjusted = true
	}
	if req.ReturnDate != nil && req.ReturnDate.Before(req.DepartDate) {
		ret := req.DepartDate
		req.ReturnDate = &ret
		adjusted = true
	}
	return adjusted, req
}
