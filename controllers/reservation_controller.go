package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"salle-backend/services"
	"salle-backend/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
	Availability *services.AvailabilityService
}

func NewReservationController(rs *services.ReservationService, as *services.AvailabilityService) *ReservationController {
	return &ReservationController{Reservations: rs, Availability: as}
}

// createReservationPayload is the wire shape of a booking submission.
// Dates arrive as ISO strings; unknown fields are rejected by the explicit
// struct rather than parsed ad hoc.
type createReservationPayload struct {
	RoomID              uint   `json:"room_id" binding:"required"`
	CustomerName        string `json:"customer_name" binding:"required"`
	CustomerEmail       string `json:"customer_email" binding:"required"`
	CustomerPhone       string `json:"customer_phone" binding:"required"`
	EventObject         string `json:"event_object" binding:"required"`
	StartTime           string `json:"start_time" binding:"required"`
	EndTime             string `json:"end_time" binding:"required"`
	StartHour           int    `json:"start_hour"`
	EndHour             int    `json:"end_hour"`
	NumberOfGuests      int    `json:"number_of_guests" binding:"required"`
	LunchSelected       bool   `json:"lunch_selected"`
	BreakfastOption     *int   `json:"breakfast_option"`
	CoffeeBreakSelected bool   `json:"coffee_break_selected"`
	Notes               string `json:"notes"`
}

func parseDateTime(value string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// CreateReservation handles POST /api/reservations.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var payload createReservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONErrorKind(c, http.StatusBadRequest, "validation", "invalid request payload",
			gin.H{"details": err.Error()})
		return
	}

	start, ok := parseDateTime(payload.StartTime)
	if !ok {
		utils.JSONErrorKind(c, http.StatusBadRequest, "validation", "invalid start_time format",
			gin.H{"field": "start_time"})
		return
	}
	end, ok := parseDateTime(payload.EndTime)
	if !ok {
		utils.JSONErrorKind(c, http.StatusBadRequest, "validation", "invalid end_time format",
			gin.H{"field": "end_time"})
		return
	}

	reservation, err := rc.Reservations.Create(services.CreateReservationInput{
		RoomID:              payload.RoomID,
		CustomerName:        payload.CustomerName,
		CustomerEmail:       payload.CustomerEmail,
		CustomerPhone:       payload.CustomerPhone,
		EventObject:         payload.EventObject,
		StartTime:           start,
		EndTime:             end,
		StartHour:           payload.StartHour,
		EndHour:             payload.EndHour,
		NumberOfGuests:      payload.NumberOfGuests,
		LunchSelected:       payload.LunchSelected,
		BreakfastOption:     payload.BreakfastOption,
		CoffeeBreakSelected: payload.CoffeeBreakSelected,
		Notes:               payload.Notes,
		IdempotencyKey:      strings.TrimSpace(c.GetHeader("Idempotency-Key")),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// GetReservationsByRoom handles GET /api/reservations?room_id= for the
// public calendar: non-cancelled reservations of one room.
func (rc *ReservationController) GetReservationsByRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Query("room_id"), 10, 32)
	if err != nil || roomID == 0 {
		utils.JSONErrorKind(c, http.StatusBadRequest, "validation", "room_id is required",
			gin.H{"field": "room_id"})
		return
	}

	reservations, err := rc.Availability.ListByRoom(uint(roomID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// GetBlockedDays handles GET /api/reservations/blocked-days?room_id=.
func (rc *ReservationController) GetBlockedDays(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Query("room_id"), 10, 32)
	if err != nil || roomID == 0 {
		utils.JSONErrorKind(c, http.StatusBadRequest, "validation", "room_id is required",
			gin.H{"field": "room_id"})
		return
	}

	days, err := rc.Availability.BlockedDays(uint(roomID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_id": roomID, "blocked_days": days})
}

// GetAllReservations handles GET /api/admin/reservations.
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	reservations, err := rc.Reservations.GetAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// GetReservation handles GET /api/admin/reservations/:id, returning the
// reservation together with its effective price for invoicing.
func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	reservation, err := rc.Reservations.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reservation":     reservation,
		"effective_price": reservation.EffectivePrice(),
	})
}

type updateStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/admin/reservations/:id.
func (rc *ReservationController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var payload updateStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONErrorKind(c, http.StatusBadRequest, "validation", "status is required",
			gin.H{"field": "status"})
		return
	}

	reservation, err := rc.Reservations.UpdateStatus(id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

type adminPricePayload struct {
	AdminAdjustedPrice *int64 `json:"admin_adjusted_price" binding:"required"`
	AdminPriceNote     string `json:"admin_price_note"`
}

// SetAdminPrice handles PATCH /api/admin/reservations/:id/price.
func (rc *ReservationController) SetAdminPrice(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var payload adminPricePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONErrorKind(c, http.StatusBadRequest, "validation", "admin_adjusted_price is required",
			gin.H{"field": "admin_adjusted_price"})
		return
	}

	reservation, err := rc.Reservations.SetAdminPrice(id, *payload.AdminAdjustedPrice, payload.AdminPriceNote)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// ResetAdminPrice handles DELETE /api/admin/reservations/:id/price.
func (rc *ReservationController) ResetAdminPrice(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	reservation, err := rc.Reservations.ResetAdminPrice(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}
