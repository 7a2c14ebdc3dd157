package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"salle-backend/models"
)

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func (s *RoomService) validate(room *models.Room) error {
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return validationErr("name", "required")
	}
	if room.Capacity <= 0 {
		return validationErr("capacity", "must be greater than 0")
	}
	if room.PricePerDay < 0 || room.PricePerDay > models.MaxPricePerDay {
		return validationErr("price_per_day", "out of range")
	}
	return nil
}

func (s *RoomService) Create(room *models.Room) error {
	if err := s.validate(room); err != nil {
		return err
	}
	if err := s.DB.Create(room).Error; err != nil {
		return storeErr("create room", err)
	}
	return nil
}

func (s *RoomService) GetAll() ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.Order("name ASC").Find(&rooms).Error; err != nil {
		return nil, storeErr("list rooms", err)
	}
	return rooms, nil
}

func (s *RoomService) GetByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, storeErr("load room", err)
	}
	return &room, nil
}

// Update applies a partial update. Identity and timestamp columns are
// stripped before the write so a client cannot rewrite them.
func (s *RoomService) Update(id uint, fields map[string]interface{}) (*models.Room, error) {
	delete(fields, "id")
	delete(fields, "ID")
	delete(fields, "created_at")
	delete(fields, "updated_at")
	delete(fields, "deleted_at")

	if name, ok := fields["name"].(string); ok && strings.TrimSpace(name) == "" {
		return nil, validationErr("name", "cannot be empty")
	}
	if capacity, ok := fields["capacity"].(float64); ok && capacity <= 0 {
		return nil, validationErr("capacity", "must be greater than 0")
	}
	if price, ok := fields["price_per_day"].(float64); ok && (price < 0 || price > models.MaxPricePerDay) {
		return nil, validationErr("price_per_day", "out of range")
	}

	room, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.DB.Model(room).Updates(fields).Error; err != nil {
			return nil, storeErr("update room", err)
		}
	}
	return s.GetByID(id)
}

// Delete removes the room and every reservation attached to it in one
// transaction. Destructive and irreversible, which is why only the admin
// console reaches it.
func (s *RoomService) Delete(id uint) error {
	room, err := s.GetByID(id)
	if err != nil {
		return err
	}
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", room.ID).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Room{}, room.ID).Error
	})
	if txErr != nil {
		return storeErr("delete room", txErr)
	}
	return nil
}
