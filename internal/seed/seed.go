// Package seed holds the reference data the service is deployed with and
// projects the weekly timetable onto concrete flights.
package seed

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/gdg-garage/flight-booking-api/internal/logging"
	"github.com/gdg-garage/flight-booking-api/internal/models"
	"github.com/gdg-garage/flight-booking-api/internal/offset"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var Aircraft = []models.Aircraft{
	{Name: "SJ30i", Brand: "SyberJet", MaxSeats: 6},
	{Name: "SF50", Brand: "Cirrus", MaxSeats: 4},
	{Name: "Elite", Brand: "HondaJet", MaxSeats: 5},
}

var Airports = []models.Airport{
	{Code: "NZNE", Name: "North Shore Dairy Flat Airport", Region: "Auckland North Shore", GMTOffset: "+12:00"},
	{Code: "NZRO", Name: "Rotorua Airport", Region: "Rotorua / Bay of Plenty", GMTOffset: "+12:00"},
	{Code: "NZCI", Name: "Tuuta Airport", Region: "Chatham Islands", GMTOffset: "+12:45"},
	{Code: "NZGB", Name: "Claris Airport", Region: "Great Barrier Island", GMTOffset: "+12:00"},
	{Code: "NZTL", Name: "Lake Tekapo Airport", Region: "Mackenzie District", GMTOffset: "+12:00"},
	{Code: "YMML", Name: "Melbourne Airport", Region: "Victoria, Australia", GMTOffset: "+10:00"},
}

// Service is one line of the weekly timetable. Depart is the local wall
// clock at the origin.
type Service struct {
	Origin      string
	Destination string
	Depart      string
	Duration    time.Duration
	Aircraft    string
	Days        []time.Weekday
	BasePrice   float64
}

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

var Timetable = []Service{
	{"NZNE", "YMML", "10:05", 4*time.Hour + 10*time.Minute, "SJ30i", []time.Weekday{time.Friday}, 250},
	{"YMML", "NZNE", "15:30", 3*time.Hour + 35*time.Minute, "SJ30i", []time.Weekday{time.Sunday}, 230},
	{"NZNE", "NZRO", "06:00", 45 * time.Minute, "SF50", weekdays, 74},
	{"NZRO", "NZNE", "10:30", 45 * time.Minute, "SF50", weekdays, 80},
	{"NZNE", "NZRO", "17:35", 45 * time.Minute, "SF50", weekdays, 80},
	{"NZRO", "NZNE", "23:30", 45 * time.Minute, "SF50", weekdays, 80},
	{"NZNE", "NZGB", "08:00", 30 * time.Minute, "SF50", []time.Weekday{time.Monday, time.Wednesday, time.Friday}, 130},
	{"NZGB", "NZNE", "09:00", 30 * time.Minute, "SF50", []time.Weekday{time.Tuesday, time.Thursday, time.Saturday}, 130},
	{"NZNE", "NZCI", "09:30", 2*time.Hour + 30*time.Minute, "Elite", []time.Weekday{time.Tuesday, time.Friday}, 190},
	{"NZCI", "NZNE", "22:50", 2*time.Hour + 30*time.Minute, "Elite", []time.Weekday{time.Wednesday, time.Saturday}, 190},
	{"NZNE", "NZTL", "10:00", 1*time.Hour + 30*time.Minute, "Elite", []time.Weekday{time.Monday}, 150},
	{"NZTL", "NZNE", "16:35", 1*time.Hour + 30*time.Minute, "Elite", []time.Weekday{time.Tuesday}, 150},
}

// FlightNo numbers timetable lines from 1.
func FlightNo(n int) string {
	return fmt.Sprintf("BA%03d", n)
}

func (s Service) operatesOn(d time.Weekday) bool {
	return slices.Contains(s.Days, d)
}

// Project lays the timetable over days calendar dates starting at from.
// Operating days are read as the local weekday at the origin and every
// flight starts with all of its aircraft's seats free.
func Project(timetable []Service, aircraft []models.Aircraft, airports []models.Airport, from time.Time, days int) ([]models.Schedule, error) {
	seats := make(map[string]int, len(aircraft))
	for _, a := range aircraft {
		seats[a.Name] = a.MaxSeats
	}
	offsets := make(map[string]string, len(airports))
	for _, a := range airports {
		offsets[a.Code] = a.GMTOffset
	}

	start := offset.Date(from)
	var flights []models.Schedule
	for i := range days {
		date := start.AddDate(0, 0, i)
		for n, s := range timetable {
			if !s.operatesOn(date.Weekday()) {
				continue
			}
			off, ok := offsets[s.Origin]
			if !ok {
				return nil, fmt.Errorf("%s: unknown origin %s", FlightNo(n+1), s.Origin)
			}
			maxSeats, ok := seats[s.Aircraft]
			if !ok {
				return nil, fmt.Errorf("%s: unknown aircraft %s", FlightNo(n+1), s.Aircraft)
			}
			clock, err := time.Parse("15:04", s.Depart)
			if err != nil {
				return nil, fmt.Errorf("%s: departure time: %w", FlightNo(n+1), err)
			}

			wall := date.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
			departAt, err := offset.ToUTC(wall, off)
			if err != nil {
				return nil, err
			}
			flights = append(flights, models.Schedule{
				FlightNo:        FlightNo(n + 1),
				DepartAt:        departAt,
				ArriveAt:        departAt.Add(s.Duration),
				SeatsAvail:      maxSeats,
				AircraftName:    s.Aircraft,
				OriginCode:      s.Origin,
				DestinationCode: s.Destination,
				BasePrice:       s.BasePrice,
			})
		}
	}
	return flights, nil
}

// Run loads the reference tables and days of projected flights from today.
// Aircraft and airports that already exist are left alone; flights are
// always added.
func Run(ctx context.Context, db *gorm.DB, today time.Time, days int) (int, error) {
	flights, err := Project(Timetable, Aircraft, Airports, today, days)
	if err != nil {
		return 0, err
	}

	aircraft, airports := slices.Clone(Aircraft), slices.Clone(Airports)
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&aircraft).Error; err != nil {
			return fmt.Errorf("seed aircraft: %w", err)
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&airports).Error; err != nil {
			return fmt.Errorf("seed airports: %w", err)
		}
		if len(flights) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(flights, 200).Error; err != nil {
			return fmt.Errorf("seed schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logging.Info("Seeded reference data",
		"aircraft", len(Aircraft),
		"airports", len(Airports),
		"flights", len(flights),
		"days", days,
	)
	return len(flights), nil
}
