package models

// Airport is immutable reference data keyed by its ICAO code.
type Airport struct {
	Code      string `gorm:"primaryKey;size:4" json:"code"`
	Name      string `gorm:"size:100;not null" json:"name"`
	Region    string `gorm:"size:50" json:"region"`
	GMTOffset string `gorm:"size:6;not null" json:"gmt_offset"`
}

func (Airport) TableName() string {
	return "airports"
}

type Aircraft struct {
	Name     string `gorm:"primaryKey;size:50" json:"name"`
	Brand    string `gorm:"size:50" json:"brand"`
	MaxSeats int    `gorm:"not null" json:"max_seats"`
}

func (Aircraft) TableName() string {
	return "aircraft"
}
