package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxPricePerDay bounds the day rate accepted from the admin console (FCFA).
const MaxPricePerDay = 99_999_999

type Room struct {
	gorm.Model

	Name        string `json:"name" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
	Capacity    int    `json:"capacity" gorm:"not null"`

	// Integer FCFA. Pricing never touches floats.
	PricePerDay int64 `json:"price_per_day" gorm:"column:price_per_day;not null"`

	ImageURL string `json:"image_url" gorm:"column:image_url;size:512"`

	// JSON string array, e.g. ["wifi","projecteur","climatisation"].
	Amenities datatypes.JSON `json:"amenities" gorm:"column:amenities"`

	Available bool `json:"available" gorm:"default:true"`

	// Administrative hold: a reserved room accepts no new reservations
	// regardless of calendar availability.
	Reserved bool `json:"reserved" gorm:"default:false"`

	Reservations []Reservation `json:"-" gorm:"foreignKey:RoomID"`
}
