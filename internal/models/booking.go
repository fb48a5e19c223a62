package models

import "time"

// Booking prices are frozen at booking time and never recomputed.
type Booking struct {
	Ref              string    `gorm:"primaryKey;size:6" json:"ref"`
	Tickets          int       `gorm:"not null" json:"tickets"`
	CustomerID       uint      `gorm:"not null;index" json:"customer_id"`
	Customer         Customer  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	DepartScheduleID uint      `gorm:"not null" json:"depart_schedule_id"`
	DepartSchedule   Schedule  `gorm:"constraint:OnDelete:CASCADE" json:"depart_schedule"`
	ReturnScheduleID *uint     `json:"return_schedule_id,omitempty"`
	ReturnSchedule   *Schedule `gorm:"constraint:OnDelete:CASCADE" json:"return_schedule,omitempty"`
	DepartPrice      float64   `gorm:"not null" json:"depart_price"`
	ReturnPrice      *float64  `json:"return_price,omitempty"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

// Legs returns the referenced schedule ids, outbound first.
func (b *Booking) Legs() []uint {
	legs := []uint{b.DepartScheduleID}
	if b.ReturnScheduleID != nil {
		legs = append(legs, *b.ReturnScheduleID)
	}
	return legs
}

// All lists every entity AutoMigrate needs, in dependency order.
func All() []any {
	return []any{&Aircraft{}, &Airport{}, &Schedule{}, &Customer{}, &Booking{}}
}
