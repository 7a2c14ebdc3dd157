package services

import (
	"sort"
	"time"

	"salle-backend/models"

	"gorm.io/gorm"
)

// AvailabilityService answers read-only calendar questions. It is a fast
// pre-check and a UX affordance; ReservationService repeats the overlap
// query at commit time under a lock, which is the correctness guarantee.
type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// FindConflicts returns every non-cancelled reservation of the room whose
// period intersects [start, end] under the closed-interval test: touching
// boundaries conflict, because occupancy blocks whole calendar days on
// both ends.
func (s *AvailabilityService) FindConflicts(roomID uint, start, end time.Time) ([]models.Reservation, error) {
	return findConflictsTx(s.DB, roomID, start, end)
}

// findConflictsTx runs the overlap query on the given handle so the
// lifecycle manager can reuse it inside its commit transaction.
func findConflictsTx(tx *gorm.DB, roomID uint, start, end time.Time) ([]models.Reservation, error) {
	var conflicts []models.Reservation
	err := tx.
		Where("room_id = ?", roomID).
		Where("status <> ?", models.StatusCancelled).
		Where("start_time <= ? AND end_time >= ?", end, start).
		Order("start_time ASC").
		Find(&conflicts).Error
	if err != nil {
		return nil, storeErr("find conflicts", err)
	}
	return conflicts, nil
}

// BlockedDays lists every calendar day occupied by a non-cancelled
// reservation of the room, both endpoints inclusive, as "2006-01-02"
// strings. The public calendar greys these out.
func (s *AvailabilityService) BlockedDays(roomID uint) ([]string, error) {
	var reservations []models.Reservation
	err := s.DB.
		Select("start_time", "end_time").
		Where("room_id = ?", roomID).
		Where("status <> ?", models.StatusCancelled).
		Find(&reservations).Error
	if err != nil {
		return nil, storeErr("blocked days", err)
	}

	seen := map[string]bool{}
	days := []string{}
	for _, r := range reservations {
		day := time.Date(r.StartTime.Year(), r.StartTime.Month(), r.StartTime.Day(), 0, 0, 0, 0, time.UTC)
		last := time.Date(r.EndTime.Year(), r.EndTime.Month(), r.EndTime.Day(), 0, 0, 0, 0, time.UTC)
		for !day.After(last) {
			key := day.Format("2006-01-02")
			if !seen[key] {
				seen[key] = true
				days = append(days, key)
			}
			day = day.AddDate(0, 0, 1)
		}
	}
	sort.Strings(days)
	return days, nil
}

// ListByRoom returns the room's non-cancelled reservations for calendar
// rendering, oldest first.
func (s *AvailabilityService) ListByRoom(roomID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.DB.
		Where("room_id = ?", roomID).
		Where("status <> ?", models.StatusCancelled).
		Order("start_time ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, storeErr("list reservations", err)
	}
	return reservations, nil
}
