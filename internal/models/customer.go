package models

import "time"

// Customer identity is the email address alone.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:10" json:"title"`
	FirstName string    `gorm:"size:50;not null" json:"first_name"`
	LastName  string    `gorm:"size:50;not null" json:"last_name"`
	Sex       string    `gorm:"size:1" json:"sex"`
	Email     string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (Customer) TableName() string {
	return "customers"
}
