package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Catering unit prices in FCFA, charged per guest.
const (
	LunchPrice       int64 = 25_000
	BreakfastPrice1  int64 = 6_000
	BreakfastPrice2  int64 = 9_000
	BreakfastPrice3  int64 = 12_000
	CoffeeBreakPrice int64 = 3_500
)

// BreakfastPrices maps a breakfast option (1..3) to its per-guest price.
var BreakfastPrices = map[int]int64{
	1: BreakfastPrice1,
	2: BreakfastPrice2,
	3: BreakfastPrice3,
}

func IsValidStatus(s string) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

type Reservation struct {
	gorm.Model

	RoomID        uint   `json:"room_id" gorm:"column:room_id;index;not null"`
	ReferenceCode string `json:"reference_code" gorm:"column:reference_code;uniqueIndex;size:64"`

	CustomerName  string `json:"customer_name" gorm:"size:255;not null"`
	CustomerEmail string `json:"customer_email" gorm:"size:255;not null"`
	CustomerPhone string `json:"customer_phone" gorm:"size:50;not null"`

	// What the room is rented for (seminar, wedding, ...).
	EventObject string `json:"event_object" gorm:"column:event_object;type:text;not null"`

	StartTime time.Time `json:"start_time" gorm:"column:start_time;index;not null"`
	EndTime   time.Time `json:"end_time" gorm:"column:end_time;index;not null"`
	StartHour int       `json:"start_hour" gorm:"column:start_hour"`
	EndHour   int       `json:"end_hour" gorm:"column:end_hour"`

	Status string `json:"status" gorm:"size:32;index;default:pending"`

	NumberOfGuests int `json:"number_of_guests" gorm:"column:number_of_guests"`

	LunchSelected       bool `json:"lunch_selected" gorm:"column:lunch_selected;default:false"`
	BreakfastOption     *int `json:"breakfast_option" gorm:"column:breakfast_option"` // 1, 2 or 3
	CoffeeBreakSelected bool `json:"coffee_break_selected" gorm:"column:coffee_break_selected;default:false"`

	Notes string `json:"notes" gorm:"type:text"`

	// Computed once at creation and kept for audit; the admin override below
	// is the only sanctioned way to charge a different amount.
	TotalPrice        int64 `json:"total_price" gorm:"column:total_price;not null"`
	IsHalfDay         bool  `json:"is_half_day" gorm:"column:is_half_day;default:false"`
	RoomPriceOriginal int64 `json:"room_price_original" gorm:"column:room_price_original"`
	RoomPriceApplied  int64 `json:"room_price_applied" gorm:"column:room_price_applied"`

	AdminAdjustedPrice *int64  `json:"admin_adjusted_price" gorm:"column:admin_adjusted_price"`
	AdminPriceNote     *string `json:"admin_price_note" gorm:"column:admin_price_note;size:512"`

	// Client-supplied dedupe token; replays of a create land on the unique
	// index instead of inserting twice.
	IdempotencyKey *string `json:"-" gorm:"column:idempotency_key;uniqueIndex;size:128"`

	Room Room `json:"room,omitempty" gorm:"foreignKey:RoomID;references:ID"`
}

// EffectivePrice is what gets invoiced: the admin override when present,
// otherwise the computed total.
func (r *Reservation) EffectivePrice() int64 {
	if r.AdminAdjustedPrice != nil {
		return *r.AdminAdjustedPrice
	}
	return r.TotalPrice
}
