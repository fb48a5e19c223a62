package booking

import (
	"fmt"

	"github.com/gdg-garage/flight-booking-api/internal/models"
)

type PriceSummary struct {
	Depart float64  `json:"depart"`
	Return *float64 `json:"return,omitempty"`
	Total  float64  `json:"total"`
}

// Summarize prices one ticket per leg and totals them across tickets.
func Summarize(tickets int, depart float64, ret *float64) PriceSummary {
	total := depart
	if ret != nil {
		total += *ret
	}
	return PriceSummary{Depart: depart, Return: ret, Total: total * float64(tickets)}
}

// PendingBooking is a selection held in the session between choosing
// flights and confirming. It is never persisted as is.
type PendingBooking struct {
	DepartFlightID uint         `json:"depart_flight_id"`
	ReturnFlightID *uint        `json:"return_flight_id,omitempty"`
	Tickets        int          `json:"tickets"`
	Prices         PriceSummary `json:"prices"`
}

// BuildPendingBooking prices the selection from the snapshot taken when the
// flights were shown, and caps the ticket count at the seats left on each
// leg.
func BuildPendingBooking(prices map[uint]float64, travellers int, depart, ret *models.Schedule) (*PendingBooking, error) {
	departPrice, ok := prices[depart.ID]
	if !ok {
		return nil, fmt.Errorf("no quoted price for flight %d: %w", depart.ID, models.ErrNotFound)
	}

	tickets := min(travellers, depart.SeatsAvail)
	p := &PendingBooking{DepartFlightID: depart.ID}

	var returnPrice *float64
	if ret != nil {
		rp, ok := prices[ret.ID]
		if !ok {
			return nil, fmt.Errorf("no quoted price for flight %d: %w", ret.ID, models.ErrNotFound)
		}
		returnPrice = &rp
		id := ret.ID
		p.ReturnFlightID = &id
		tickets = min(tickets, ret.SeatsAvail)
	}

	p.Tickets = tickets
	p.Prices = Summarize(tickets, departPrice, returnPrice)
	return p, nil
}

// ValidateSelection checks chosen flights are still bookable and that a
// return leg leaves after the outbound lands.
func ValidateSelection(depart, ret *models.Schedule) error {
	verr := &models.ValidationError{}
	if depart.SeatsAvail < 1 {
		verr.Add("select_depart", (&models.InventoryError{Leg: models.LegDepart, FlightID: depart.ID}).Message())
	}
	if ret != nil {
		if ret.SeatsAvail < 1 {
			verr.Add("select_return", (&models.InventoryError{Leg: models.LegReturn, FlightID: ret.ID}).Message())
		}
		if !depart.ArriveAt.Before(ret.DepartAt) {
			verr.Add("select_return", "Return flight must depart after outbound flight arrives.")
		}
	}
	return verr.OrNil()
}
