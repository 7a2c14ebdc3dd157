package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"salle-backend/metrics"
	"salle-backend/models"
	"salle-backend/notify"
	"salle-backend/pricing"
)

// Dispatcher hands notification payloads to a background worker. Enqueue
// must never block; delivery failures stay inside the worker.
type Dispatcher interface {
	Enqueue(msg notify.Message) bool
}

// ReservationService orchestrates the reservation lifecycle:
// validate -> check availability -> price -> persist, then the status and
// price-override transitions. All mutation of reservations goes through it.
type ReservationService struct {
	DB         *gorm.DB
	Dispatcher Dispatcher // nil disables notifications (tests)
	Log        zerolog.Logger
}

func NewReservationService(db *gorm.DB, dispatcher Dispatcher, log zerolog.Logger) *ReservationService {
	return &ReservationService{DB: db, Dispatcher: dispatcher, Log: log}
}

type CreateReservationInput struct {
	RoomID uint `json:"room_id"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	EventObject   string `json:"event_object"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	StartHour int       `json:"start_hour"`
	EndHour   int       `json:"end_hour"`

	NumberOfGuests int `json:"number_of_guests"`

	LunchSelected       bool   `json:"lunch_selected"`
	BreakfastOption     *int   `json:"breakfast_option"`
	CoffeeBreakSelected bool   `json:"coffee_break_selected"`
	Notes               string `json:"notes"`

	// Optional dedupe token, taken from the Idempotency-Key header.
	IdempotencyKey string `json:"-"`
}

func (in *CreateReservationInput) validate() error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return validationErr("customer_name", "required")
	}
	email := strings.TrimSpace(in.CustomerEmail)
	if email == "" {
		return validationErr("customer_email", "required")
	}
	if !strings.Contains(email, "@") {
		return validationErr("customer_email", "malformed address")
	}
	if strings.TrimSpace(in.CustomerPhone) == "" {
		return validationErr("customer_phone", "required")
	}
	if strings.TrimSpace(in.EventObject) == "" {
		return validationErr("event_object", "required")
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return validationErr("start_time", "start and end dates are required")
	}
	// Equal dates are a valid single-day booking.
	if in.EndTime.Before(in.StartTime) {
		return validationErr("end_time", "cannot be before start_time")
	}
	// Hours are optional; a zero pair means the customer booked whole days.
	if in.StartHour != 0 || in.EndHour != 0 {
		if in.StartHour < 0 || in.StartHour > 23 {
			return validationErr("start_hour", "must be between 0 and 23")
		}
		if in.EndHour < 0 || in.EndHour > 23 {
			return validationErr("end_hour", "must be between 0 and 23")
		}
		if in.EndHour <= in.StartHour {
			return validationErr("end_hour", "must be after start_hour")
		}
	}
	if in.NumberOfGuests < 1 {
		return validationErr("number_of_guests", "must be at least 1")
	}
	if in.BreakfastOption != nil {
		if _, ok := models.BreakfastPrices[*in.BreakfastOption]; !ok {
			return validationErr("breakfast_option", "must be 1, 2 or 3")
		}
	}
	return nil
}

// Create validates the request, rejects conflicts, prices the stay and
// persists the reservation as pending. The conflict check runs twice: once
// up front for a fast rejection, and again inside the commit transaction
// under a room-row lock, which closes the check-then-insert race between
// concurrent submissions.
func (s *ReservationService) Create(in CreateReservationInput) (*models.Reservation, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	// Idempotent replay: a key we have already honored returns the
	// original reservation instead of booking twice.
	if key := strings.TrimSpace(in.IdempotencyKey); key != "" {
		var existing models.Reservation
		err := s.DB.Preload("Room").Where("idempotency_key = ?", key).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storeErr("idempotency lookup", err)
		}
	}

	var room models.Room
	if err := s.DB.First(&room, in.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, storeErr("load room", err)
	}
	if !room.Available || room.Reserved {
		return nil, ErrRoomUnavailable
	}
	if in.NumberOfGuests > room.Capacity {
		return nil, validationErr("number_of_guests",
			fmt.Sprintf("exceeds room capacity of %d", room.Capacity))
	}

	// Fast pre-check so the common conflict case never opens a transaction.
	conflicts, err := findConflictsTx(s.DB, room.ID, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		metrics.IncReservationConflict()
		return nil, conflictFrom(room.ID, conflicts)
	}

	quote := pricing.ComputeQuote(room.PricePerDay, in.StartTime, in.EndTime,
		in.StartHour, in.EndHour, pricing.Catering{
			Lunch:           in.LunchSelected,
			BreakfastOption: in.BreakfastOption,
			CoffeeBreak:     in.CoffeeBreakSelected,
		}, in.NumberOfGuests)
	if quote.Total <= 0 {
		return nil, validationErr("start_time", "no valid date range selected")
	}

	reservation := models.Reservation{
		RoomID:              room.ID,
		ReferenceCode:       uuid.NewString(),
		CustomerName:        strings.TrimSpace(in.CustomerName),
		CustomerEmail:       strings.TrimSpace(in.CustomerEmail),
		CustomerPhone:       strings.TrimSpace(in.CustomerPhone),
		EventObject:         strings.TrimSpace(in.EventObject),
		StartTime:           in.StartTime,
		EndTime:             in.EndTime,
		StartHour:           in.StartHour,
		EndHour:             in.EndHour,
		Status:              models.StatusPending,
		NumberOfGuests:      in.NumberOfGuests,
		LunchSelected:       in.LunchSelected,
		BreakfastOption:     in.BreakfastOption,
		CoffeeBreakSelected: in.CoffeeBreakSelected,
		Notes:               in.Notes,
		TotalPrice:          quote.Total,
		IsHalfDay:           quote.IsHalfDay,
		RoomPriceOriginal:   quote.RoomPriceOriginal,
		RoomPriceApplied:    quote.RoomPriceApplied,
	}
	if key := strings.TrimSpace(in.IdempotencyKey); key != "" {
		reservation.IdempotencyKey = &key
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		// Serialize creators per room. SQLite (tests) has a single writer
		// already and rejects FOR UPDATE, so the clause is MySQL-only.
		lockTx := tx
		if tx.Dialector.Name() == "mysql" {
			lockTx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var locked models.Room
		if err := lockTx.First(&locked, room.ID).Error; err != nil {
			return storeErr("lock room", err)
		}

		inside, err := findConflictsTx(tx, room.ID, in.StartTime, in.EndTime)
		if err != nil {
			return err
		}
		if len(inside) > 0 {
			metrics.IncReservationConflict()
			return conflictFrom(room.ID, inside)
		}

		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		var conflict *ConflictError
		if errors.As(txErr, &conflict) || errors.Is(txErr, ErrTransientStore) {
			return nil, txErr
		}
		// A duplicate idempotency key means a concurrent replay won the
		// insert; hand back its reservation.
		if reservation.IdempotencyKey != nil && isDuplicateKeyErr(txErr) {
			var existing models.Reservation
			if err := s.DB.Preload("Room").
				Where("idempotency_key = ?", *reservation.IdempotencyKey).
				First(&existing).Error; err == nil {
				return &existing, nil
			}
		}
		return nil, storeErr("create reservation", txErr)
	}

	reservation.Room = room
	metrics.IncReservationCreated()
	s.Log.Info().
		Uint("reservation_id", reservation.ID).
		Uint("room_id", room.ID).
		Str("reference", reservation.ReferenceCode).
		Int64("total_price", reservation.TotalPrice).
		Bool("half_day", reservation.IsHalfDay).
		Msg("reservation created")

	s.notifyCreated(&reservation, &room)
	return &reservation, nil
}

// UpdateStatus applies a lifecycle transition. Re-applying the current
// status is a no-op, which makes cancellation idempotent; cancelled is
// absorbing and admits no other transition.
func (s *ReservationService) UpdateStatus(id uint, newStatus string) (*models.Reservation, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, validationErr("status", "must be pending, confirmed or cancelled")
	}

	var reservation models.Reservation
	if err := s.DB.Preload("Room").First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, storeErr("load reservation", err)
	}

	if reservation.Status == newStatus {
		return &reservation, nil
	}
	if reservation.Status == models.StatusCancelled {
		return nil, validationErr("status", "a cancelled reservation cannot change status")
	}
	if reservation.Status == models.StatusConfirmed && newStatus == models.StatusPending {
		return nil, validationErr("status", "a confirmed reservation cannot go back to pending")
	}

	// The historical total_price is kept untouched for invoicing.
	if err := s.DB.Model(&reservation).Update("status", newStatus).Error; err != nil {
		return nil, storeErr("update status", err)
	}
	reservation.Status = newStatus

	s.Log.Info().
		Uint("reservation_id", reservation.ID).
		Str("status", newStatus).
		Msg("reservation status updated")

	if newStatus == models.StatusCancelled {
		s.notifyCancelled(&reservation)
	}
	return &reservation, nil
}

// SetAdminPrice records an override without touching the computed
// total_price, preserving the audit trail between "what the formula said"
// and "what was charged".
func (s *ReservationService) SetAdminPrice(id uint, price int64, note string) (*models.Reservation, error) {
	if price < 0 {
		return nil, validationErr("admin_adjusted_price", "cannot be negative")
	}

	var reservation models.Reservation
	if err := s.DB.Preload("Room").First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, storeErr("load reservation", err)
	}

	updates := map[string]interface{}{
		"admin_adjusted_price": price,
		"admin_price_note":     nil,
	}
	note = strings.TrimSpace(note)
	if note != "" {
		updates["admin_price_note"] = note
	}
	if err := s.DB.Model(&reservation).Updates(updates).Error; err != nil {
		return nil, storeErr("set admin price", err)
	}

	reservation.AdminAdjustedPrice = &price
	if note != "" {
		reservation.AdminPriceNote = &note
	} else {
		reservation.AdminPriceNote = nil
	}
	return &reservation, nil
}

// ResetAdminPrice clears the override; the effective price reverts to the
// originally computed total.
func (s *ReservationService) ResetAdminPrice(id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.DB.Preload("Room").First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, storeErr("load reservation", err)
	}

	if err := s.DB.Model(&reservation).Updates(map[string]interface{}{
		"admin_adjusted_price": nil,
		"admin_price_note":     nil,
	}).Error; err != nil {
		return nil, storeErr("reset admin price", err)
	}

	reservation.AdminAdjustedPrice = nil
	reservation.AdminPriceNote = nil
	return &reservation, nil
}

func (s *ReservationService) GetByID(id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.DB.Preload("Room").First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, storeErr("load reservation", err)
	}
	return &reservation, nil
}

// GetAll lists every reservation for the admin console, newest first.
func (s *ReservationService) GetAll() ([]models.Reservation, error) {
	var list []models.Reservation
	if err := s.DB.Preload("Room").Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, storeErr("list reservations", err)
	}
	return list, nil
}

func (s *ReservationService) notifyCreated(r *models.Reservation, room *models.Room) {
	if s.Dispatcher == nil {
		return
	}
	summary := cateringSummary(r)
	base := notify.Message{
		ReservationRef:  r.ReferenceCode,
		CustomerName:    r.CustomerName,
		RoomName:        room.Name,
		StartDate:       r.StartTime.Format("2006-01-02"),
		EndDate:         r.EndTime.Format("2006-01-02"),
		TotalPrice:      r.EffectivePrice(),
		CateringSummary: summary,
	}

	confirmation := base
	confirmation.Kind = notify.KindBookingConfirmation
	confirmation.To = []string{r.CustomerEmail}
	s.Dispatcher.Enqueue(confirmation)

	if admins := s.adminEmails(); len(admins) > 0 {
		alert := base
		alert.Kind = notify.KindAdminAlert
		alert.To = admins
		s.Dispatcher.Enqueue(alert)
	}
}

func (s *ReservationService) notifyCancelled(r *models.Reservation) {
	if s.Dispatcher == nil {
		return
	}
	s.Dispatcher.Enqueue(notify.Message{
		Kind:            notify.KindCancellationNotice,
		To:              []string{r.CustomerEmail},
		ReservationRef:  r.ReferenceCode,
		CustomerName:    r.CustomerName,
		RoomName:        r.Room.Name,
		StartDate:       r.StartTime.Format("2006-01-02"),
		EndDate:         r.EndTime.Format("2006-01-02"),
		TotalPrice:      r.EffectivePrice(),
		CateringSummary: cateringSummary(r),
	})
}

func (s *ReservationService) adminEmails() []string {
	var admins []models.Admin
	if err := s.DB.Find(&admins).Error; err != nil {
		s.Log.Warn().Err(err).Msg("failed to load admin emails for alert")
		return nil
	}
	emails := make([]string, 0, len(admins))
	for _, a := range admins {
		if strings.TrimSpace(a.Email) != "" {
			emails = append(emails, a.Email)
		}
	}
	return emails
}

func cateringSummary(r *models.Reservation) string {
	var parts []string
	if r.LunchSelected {
		parts = append(parts, "Déjeuner complet")
	}
	if r.BreakfastOption != nil {
		parts = append(parts, fmt.Sprintf("Petit-déjeuner option %d", *r.BreakfastOption))
	}
	if r.CoffeeBreakSelected {
		parts = append(parts, "Pause-café")
	}
	return strings.Join(parts, ", ")
}

func conflictFrom(roomID uint, conflicts []models.Reservation) error {
	first := conflicts[0]
	start := first.StartTime
	end := first.EndTime
	for _, c := range conflicts[1:] {
		if c.StartTime.Before(start) {
			start = c.StartTime
		}
		if c.EndTime.After(end) {
			end = c.EndTime
		}
	}
	return &ConflictError{RoomID: roomID, ConflictStart: start, ConflictEnd: end}
}

func isDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique constraint")
}
