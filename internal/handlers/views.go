package handlers

import (
	"time"

	"github.com/gdg-garage/flight-booking-api/internal/availability"
	"github.com/gdg-garage/flight-booking-api/internal/booking"
	"github.com/gdg-garage/flight-booking-api/internal/models"
	"github.com/gdg-garage/flight-booking-api/internal/offset"
)

type AirportView struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Region    string `json:"region"`
	GMTOffset string `json:"gmt_offset"`
}

func airportView(a models.Airport) AirportView {
	return AirportView{Code: a.Code, Name: a.Name, Region: a.Region, GMTOffset: a.GMTOffset}
}

// FlightView shows a flight in the local time of each end.
type FlightView struct {
	ID          uint     `json:"id"`
	FlightNo    string   `json:"flight_no"`
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	DepartLocal string   `json:"depart_local"`
	ArriveLocal string   `json:"arrive_local"`
	NextDay     string   `json:"next_day,omitempty"`
	Duration    string   `json:"duration"`
	Aircraft    string   `json:"aircraft"`
	SeatsAvail  int      `json:"seats_avail"`
	Price       *float64 `json:"price,omitempty"`
}

func flightView(s *models.Schedule, price *float64) (FlightView, error) {
	dep, err := s.DepartLocal()
	if err != nil {
		return FlightView{}, err
	}
	arr, err := s.ArriveLocal()
	if err != nil {
		return FlightView{}, err
	}
	tag, err := s.NextDayTag()
	if err != nil {
		return FlightView{}, err
	}
	return FlightView{
		ID:          s.ID,
		FlightNo:    s.FlightNo,
		Origin:      s.OriginCode,
		Destination: s.DestinationCode,
		DepartLocal: dep.Format(time.RFC3339),
		ArriveLocal: arr.Format(time.RFC3339),
		NextDay:     tag,
		Duration:    offset.FormatDuration(s.Duration()),
		Aircraft:    s.AircraftName,
		SeatsAvail:  s.SeatsAvail,
		Price:       price,
	}, nil
}

type DayView struct {
	Date      string   `json:"date"`
	MinPrice  *float64 `json:"min_price"`
	Available bool     `json:"available"`
}

type LegResults struct {
	Date    string       `json:"date"`
	Flights []FlightView `json:"flights"`
	Week    []DayView    `json:"week"`
}

func legResults(date time.Time, res *availability.Result) (*LegResults, error) {
	out := &LegResults{
		Date:    date.Format(time.DateOnly),
		Flights: make([]FlightView, 0, len(res.Flights)),
		Week:    make([]DayView, 0, len(res.Week)),
	}
	for i := range res.Flights {
		p := res.Prices[res.Flights[i].ID]
		fv, err := flightView(&res.Flights[i], &p)
		if err != nil {
			return nil, err
		}
		out.Flights = append(out.Flights, fv)
	}
	for _, d := range res.Week {
		out.Week = append(out.Week, DayView{Date: d.Date.Format(time.DateOnly), MinPrice: d.MinPrice, Available: d.Available})
	}
	return out, nil
}

type PendingView struct {
	Tickets int                  `json:"tickets"`
	Prices  booking.PriceSummary `json:"prices"`
	Depart  FlightView           `json:"depart"`
	Return  *FlightView          `json:"return,omitempty"`
}

type BookingView struct {
	Ref       string               `json:"ref"`
	Tickets   int                  `json:"tickets"`
	Prices    booking.PriceSummary `json:"prices"`
	Depart    FlightView           `json:"depart"`
	Return    *FlightView          `json:"return,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

func bookingView(b *models.Booking) (BookingView, error) {
	dep, err := flightView(&b.DepartSchedule, &b.DepartPrice)
	if err != nil {
		return BookingView{}, err
	}
	v := BookingView{
		Ref:       b.Ref,
		Tickets:   b.Tickets,
		Prices:    booking.Summarize(b.Tickets, b.DepartPrice, b.ReturnPrice),
		Depart:    dep,
		CreatedAt: b.CreatedAt,
	}
	if b.ReturnSchedule != nil {
		ret, err := flightView(b.ReturnSchedule, b.ReturnPrice)
		if err != nil {
			return BookingView{}, err
		}
		v.Return = &ret
	}
	return v, nil
}
