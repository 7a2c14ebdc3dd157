// Package pricing computes reservation totals. Everything here is pure:
// the same inputs always produce the same quote, and no I/O happens.
package pricing

import (
	"time"

	"salle-backend/models"
)

// HalfDayMaxHours is the longest hour span (within one calendar day) that
// still qualifies for the half-day room rate.
const HalfDayMaxHours = 5

// Catering captures the optional per-guest add-ons of a booking request.
type Catering struct {
	Lunch           bool
	BreakfastOption *int // 1, 2 or 3; nil when no breakfast is selected
	CoffeeBreak     bool
}

// Quote is the priced breakdown of a reservation. All amounts are integer FCFA.
type Quote struct {
	Days              int
	IsHalfDay         bool
	RoomPriceOriginal int64
	RoomPriceApplied  int64
	CateringTotal     int64
	Total             int64
}

// DaysInclusive counts calendar days between start and end with both
// boundary days included: a Monday..Wednesday rental occupies (and bills)
// 3 days, not 2 nights.
func DaysInclusive(start, end time.Time) int {
	s := truncateToDay(start)
	e := truncateToDay(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// SameCalendarDay reports whether both instants fall on the same date.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// CateringCost sums the selected add-ons for the given guest count.
// Unknown breakfast options contribute nothing; the request validator
// rejects them before pricing runs.
func CateringCost(c Catering, guests int) int64 {
	if guests <= 0 {
		return 0
	}
	var cost int64
	if c.Lunch {
		cost += models.LunchPrice * int64(guests)
	}
	if c.BreakfastOption != nil {
		if price, ok := models.BreakfastPrices[*c.BreakfastOption]; ok {
			cost += price * int64(guests)
		}
	}
	if c.CoffeeBreak {
		cost += models.CoffeeBreakPrice * int64(guests)
	}
	return cost
}

// ComputeQuote prices a candidate reservation against a room's day rate.
//
// Room cost is days-inclusive × price_per_day. A booking confined to a
// single calendar day whose hour span is at most HalfDayMaxHours pays half
// the room cost; catering is never discounted.
func ComputeQuote(pricePerDay int64, start, end time.Time, startHour, endHour int, catering Catering, guests int) Quote {
	days := DaysInclusive(start, end)

	q := Quote{
		Days:              days,
		RoomPriceOriginal: int64(days) * pricePerDay,
	}

	q.RoomPriceApplied = q.RoomPriceOriginal
	if SameCalendarDay(start, end) && endHour > startHour && endHour-startHour <= HalfDayMaxHours {
		q.IsHalfDay = true
		q.RoomPriceApplied = q.RoomPriceOriginal / 2
	}

	q.CateringTotal = CateringCost(catering, guests)
	q.Total = q.RoomPriceApplied + q.CateringTotal
	return q
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
