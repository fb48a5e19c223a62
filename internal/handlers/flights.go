package handlers

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/flight-booking-api/internal/auth"
	"github.com/gdg-garage/flight-booking-api/internal/availability"
	"github.com/gdg-garage/flight-booking-api/internal/booking"
	"github.com/gdg-garage/flight-booking-api/internal/models"
	"github.com/gdg-garage/flight-booking-api/internal/offset"
	"github.com/gdg-garage/flight-booking-api/internal/pricing"
	"github.com/gdg-garage/flight-booking-api/internal/search"
	"github.com/gdg-garage/flight-booking-api/internal/session"
	"github.com/gdg-garage/flight-booking-api/internal/store"
)

type FlightHandler struct {
	store     *store.Store
	airports  *store.AirportCache
	validator *search.Validator
	builder   *availability.Builder
	sessions  session.Store
	clock     pricing.Clock
}

func NewFlightHandler(s *store.Store, airports *store.AirportCache, sessions session.Store, clock pricing.Clock) *FlightHandler {
	if clock == nil {
		clock = pricing.SystemClock
	}
	return &FlightHandler{
		store:     s,
		airports:  airports,
		validator: search.NewValidator(airports),
		builder:   availability.NewBuilder(s, clock),
		sessions:  sessions,
		clock:     clock,
	}
}

type AirportsOutput struct {
	Body struct {
		Airports []AirportView `json:"airports"`
	}
}

func (h *FlightHandler) HandleAirports(ctx context.Context, _ *struct{}) (*AirportsOutput, error) {
	airports, err := h.airports.ListAirports(ctx)
	if err != nil {
		return nil, apiError(err, "Failed to list airports")
	}
	res := &AirportsOutput{}
	res.Body.Airports = make([]AirportView, 0, len(airports))
	for _, a := range airports {
		res.Body.Airports = append(res.Body.Airports, airportView(a))
	}
	return res, nil
}

type DestinationsInput struct {
	Origin string `query:"o" doc:"Origin airport code"`
}

func (h *FlightHandler) HandleDestinations(ctx context.Context, input *DestinationsInput) (*AirportsOutput, error) {
	dests, err := h.store.Destinations(ctx, strings.ToUpper(input.Origin))
	if err != nil {
		return nil, apiError(err, "Failed to list destinations")
	}
	if len(dests) == 0 {
		return nil, huma.Error400BadRequest("Invalid or missing `o` query parameter")
	}
	res := &AirportsOutput{}
	res.Body.Airports = make([]AirportView, 0, len(dests))
	for _, a := range dests {
		res.Body.Airports = append(res.Body.Airports, airportView(a))
	}
	return res, nil
}

type FlightDatesInput struct {
	Origin      string `query:"o" doc:"Origin airport code"`
	Destination string `query:"d" doc:"Destination airport code"`
}

type FlightDatesOutput struct {
	Body struct {
		Dates []string `json:"dates"`
	}
}

// HandleFlightDates lists the origin-local dates that still have a
// bookable departure on the route.
func (h *FlightHandler) HandleFlightDates(ctx context.Context, input *FlightDatesInput) (*FlightDatesOutput, error) {
	verr := &models.ValidationError{}
	origin, dest, err := h.validator.ValidateAirports(ctx, input.Origin, input.Destination, verr)
	if err != nil {
		return nil, apiError(err, "Failed to look up airports")
	}
	if verr.OrNil() != nil {
		return nil, huma.Error400BadRequest(strings.Join(verr.Messages(), " "))
	}

	flights, err := h.store.FindFlights(ctx, origin.Code, dest.Code, offset.Window{Start: h.clock.Now()}, 1)
	if err != nil {
		return nil, apiError(err, "Failed to list flights")
	}

	res := &FlightDatesOutput{}
	res.Body.Dates = []string{}
	for _, f := range flights {
		d, err := offset.LocalDate(f.DepartAt, origin.GMTOffset)
		if err != nil {
			return nil, apiError(err, "Corrupt airport offset")
		}
		s := d.Format(time.DateOnly)
		if n := len(res.Body.Dates); n == 0 || res.Body.Dates[n-1] != s {
			res.Body.Dates = append(res.Body.Dates, s)
		}
	}
	return res, nil
}

type SearchInput struct {
	Origin      string `query:"origin"`
	Destination string `query:"destination"`
	DepartDate  string `query:"depart_date" doc:"YYYY-MM-DD"`
	ReturnDate  string `query:"return_date" doc:"YYYY-MM-DD, omit for one way"`
	Travellers  string `query:"travellers" doc:"1 to 6"`
}

type SearchBody struct {
	Origin      AirportView `json:"origin"`
	Destination AirportView `json:"destination"`
	Travellers  int         `json:"travellers"`
	Depart      *LegResults `json:"depart"`
	Return      *LegResults `json:"return,omitempty"`
}

type SearchOutput struct {
	Status   int
	Location string `header:"Location"`
	Body     *SearchBody
}

// HandleSearch validates the query, redirects when the dates had to be
// corrected, and otherwise returns both legs with their week summaries.
// The prices shown are stored in the session as the booking quote.
func (h *FlightHandler) HandleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	req, err := h.validator.Validate(ctx, search.Params{
		Origin:      input.Origin,
		Destination: input.Destination,
		DepartDate:  input.DepartDate,
		ReturnDate:  input.ReturnDate,
		Travellers:  input.Travellers,
	})
	if err != nil {
		return nil, apiError(err, "Failed to validate search")
	}

	today, err := offset.LocalDate(h.clock.Now(), req.Origin.GMTOffset)
	if err != nil {
		return nil, apiError(err, "Corrupt airport offset")
	}
	if adjusted, fixed := search.NormalizeDates(*req, today); adjusted {
		return &SearchOutput{
			Status:   http.StatusTemporaryRedirect,
			Location: "/flights?" + fixed.Query().Encode(),
		}, nil
	}

	depart, err := h.builder.SearchResults(ctx, availability.RouteBetween(&req.Origin, &req.Destination), req.DepartDate, true)
	if err != nil {
		return nil, apiError(err, "Failed to search flights")
	}
	body := &SearchBody{
		Origin:      airportView(req.Origin),
		Destination: airportView(req.Destination),
		Travellers:  req.Travellers,
	}
	if body.Depart, err = legResults(req.DepartDate, depart); err != nil {
		return nil, apiError(err, "Failed to render flights")
	}

	prices := depart.Prices
	var returnIDs []uint
	if req.RoundTrip() {
		ret, err := h.builder.SearchResults(ctx, availability.RouteBetween(&req.Destination, &req.Origin), *req.ReturnDate, true)
		if err != nil {
			return nil, apiError(err, "Failed to search flights")
		}
		if body.Return, err = legResults(*req.ReturnDate, ret); err != nil {
			return nil, apiError(err, "Failed to render flights")
		}
		for id, p := range ret.Prices {
			prices[id] = p
		}
		returnIDs = flightIDs(ret.Flights)
	}

	if d := auth.SessionFrom(ctx); d != nil {
		d.SearchQuery = req.Query().Encode()
		d.Travellers = req.Travellers
		d.Prices = prices
		d.DepartChoices = flightIDs(depart.Flights)
		d.ReturnChoices = returnIDs
		if err := h.sessions.Save(ctx, d); err != nil {
			return nil, apiError(err, "Failed to save session")
		}
	}

	return &SearchOutput{Status: http.StatusOK, Body: body}, nil
}

func flightIDs(flights []models.Schedule) []uint {
	ids := make([]uint, 0, len(flights))
	for _, f := range flights {
		ids = append(ids, f.ID)
	}
	return ids
}

type SelectInput struct {
	Body struct {
		SelectDepart uint  `json:"select_depart" doc:"Outbound flight id from the last search"`
		SelectReturn *uint `json:"select_return,omitempty" doc:"Return flight id, required for return searches"`
	}
}

type PendingOutput struct {
	Body struct {
		Booking PendingView `json:"booking"`
		// Next is "register" until a customer is logged in, then "confirm".
		Next string `json:"next"`
	}
}

func (h *FlightHandler) HandleSelect(ctx context.Context, input *SelectInput) (*PendingOutput, error) {
	d := auth.SessionFrom(ctx)
	if d == nil || len(d.Prices) == 0 {
		return nil, huma.Error409Conflict("No search in progress")
	}

	verr := &models.ValidationError{}
	if !slices.Contains(d.DepartChoices, input.Body.SelectDepart) {
		verr.Add("select_depart", "Select a valid outbound flight.")
	}
	if len(d.ReturnChoices) > 0 {
		if input.Body.SelectReturn == nil || !slices.Contains(d.ReturnChoices, *input.Body.SelectReturn) {
			verr.Add("select_return", "Select a valid return flight.")
		}
	} else if input.Body.SelectReturn != nil {
		verr.Add("select_return", "This search has no return flights.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, apiError(err, "Invalid selection")
	}

	depart, err := h.store.FindSchedule(ctx, input.Body.SelectDepart)
	if err != nil {
		return nil, apiError(err, "Selected flight not found")
	}
	var ret *models.Schedule
	if input.Body.SelectReturn != nil {
		if ret, err = h.store.FindSchedule(ctx, *input.Body.SelectReturn); err != nil {
			return nil, apiError(err, "Selected flight not found")
		}
	}

	if err := booking.ValidateSelection(depart, ret); err != nil {
		return nil, apiError(err, "Invalid selection")
	}
	pending, err := booking.BuildPendingBooking(d.Prices, d.Travellers, depart, ret)
	if err != nil {
		return nil, apiError(err, "Selected flight has no quoted price")
	}

	d.Pending = pending
	if err := h.sessions.Save(ctx, d); err != nil {
		return nil, apiError(err, "Failed to save session")
	}

	view, err := pendingView(pending, depart, ret)
	if err != nil {
		return nil, apiError(err, "Failed to render booking")
	}
	res := &PendingOutput{}
	res.Body.Booking = view
	res.Body.Next = "register"
	if d.CustomerID != nil {
		res.Body.Next = "confirm"
	}
	return res, nil
}

func pendingView(p *booking.PendingBooking, depart, ret *models.Schedule) (PendingView, error) {
	dep, err := flightView(depart, &p.Prices.Depart)
	if err != nil {
		return PendingView{}, err
	}
	v := PendingView{Tickets: p.Tickets, Prices: p.Prices, Depart: dep}
	if ret != nil {
		rv, err := flightView(ret, p.Prices.Return)
		if err != nil {
			return PendingView{}, err
		}
		v.Return = &rv
	}
	return v, nil
}
