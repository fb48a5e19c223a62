package models

import (
	"time"

	"github.com/gdg-garage/flight-booking-api/internal/offset"
	"gorm.io/gorm"
)

// Schedule is one scheduled flight. Departure and arrival are stored in UTC;
// SeatsAvail only ever moves by booking deltas.
type Schedule struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	FlightNo        string    `gorm:"size:6;not null" json:"flight_no"`
	DepartAt        time.Time `gorm:"not null;index:idx_route_depart,priority:3" json:"depart_at"`
	ArriveAt        time.Time `gorm:"not null" json:"arrive_at"`
	SeatsAvail      int       `gorm:"not null" json:"seats_avail"`
	AircraftName    string    `gorm:"size:50;not null" json:"aircraft_name"`
	Aircraft        Aircraft  `gorm:"foreignKey:AircraftName;references:Name;constraint:OnDelete:CASCADE" json:"aircraft"`
	OriginCode      string    `gorm:"size:4;not null;index:idx_route_depart,priority:1" json:"origin"`
	Origin          Airport   `gorm:"foreignKey:OriginCode;references:Code;constraint:OnDelete:CASCADE" json:"-"`
	DestinationCode string    `gorm:"size:4;not null;index:idx_route_depart,priority:2" json:"destination"`
	Destination     Airport   `gorm:"foreignKey:DestinationCode;references:Code;constraint:OnDelete:CASCADE" json:"-"`
	BasePrice       float64   `gorm:"not null" json:"base_price"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// BeforeCreate keeps stored instants in UTC so range queries compare
// like with like on every driver.
func (s *Schedule) BeforeCreate(tx *gorm.DB) error {
	s.DepartAt = s.DepartAt.UTC()
	s.ArriveAt = s.ArriveAt.UTC()
	return nil
}

func (s *Schedule) Duration() time.Duration {
	return s.ArriveAt.Sub(s.DepartAt)
}

// DepartLocal requires Origin to be loaded.
func (s *Schedule) DepartLocal() (time.Time, error) {
	return offset.ToLocal(s.DepartAt, s.Origin.GMTOffset)
}

// ArriveLocal requires Destination to be loaded.
func (s *Schedule) ArriveLocal() (time.Time, error) {
	return offset.ToLocal(s.ArriveAt, s.Destination.GMTOffset)
}

// NextDayTag is "(next day)" when the flight lands on a later local date
// than it left.
func (s *Schedule) NextDayTag() (string, error) {
	dep, err := s.DepartLocal()
	if err != nil {
		return "", err
	}
	arr, err := s.ArriveLocal()
	if err != nil {
		return "", err
	}
	if offset.Date(arr).After(offset.Date(dep)) {
		return "(next day)", nil
	}
	return "", nil
}
