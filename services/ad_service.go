package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"salle-backend/models"
)

type AdService struct {
	DB *gorm.DB
}

func NewAdService(db *gorm.DB) *AdService {
	return &AdService{DB: db}
}

func (s *AdService) Create(ad *models.Advertisement) error {
	ad.Title = strings.TrimSpace(ad.Title)
	if ad.Title == "" {
		return validationErr("title", "required")
	}
	if !models.IsValidAdPosition(ad.Position) {
		return validationErr("position", "unknown position")
	}
	if ad.StartDate != nil && ad.EndDate != nil && ad.EndDate.Before(*ad.StartDate) {
		return validationErr("end_date", "must be after start_date")
	}
	if err := s.DB.Create(ad).Error; err != nil {
		return storeErr("create advertisement", err)
	}
	return nil
}

// ActiveForPosition returns ads currently inside their display window for
// a public page slot, newest first. An empty position returns all active
// ads.
func (s *AdService) ActiveForPosition(position string, now time.Time) ([]models.Advertisement, error) {
	q := s.DB.
		Where("is_active = ?", true).
		Where("start_date IS NULL OR start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now)
	if position != "" {
		q = q.Where("position = ?", position)
	}

	var ads []models.Advertisement
	if err := q.Order("created_at DESC").Find(&ads).Error; err != nil {
		return nil, storeErr("list advertisements", err)
	}
	return ads, nil
}

// GetAll returns every ad, active or not, for the admin console.
func (s *AdService) GetAll() ([]models.Advertisement, error) {
	var ads []models.Advertisement
	if err := s.DB.Order("created_at DESC").Find(&ads).Error; err != nil {
		return nil, storeErr("list advertisements", err)
	}
	return ads, nil
}

func (s *AdService) GetByID(id uint) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := s.DB.First(&ad, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdNotFound
		}
		return nil, storeErr("load advertisement", err)
	}
	return &ad, nil
}

func (s *AdService) Update(id uint, fields map[string]interface{}) (*models.Advertisement, error) {
	delete(fields, "id")
	delete(fields, "created_at")
	delete(fields, "updated_at")
	delete(fields, "deleted_at")
	delete(fields, "view_count")
	delete(fields, "click_count")

	if position, ok := fields["position"].(string); ok && !models.IsValidAdPosition(position) {
		return nil, validationErr("position", "unknown position")
	}

	ad, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.DB.Model(ad).Updates(fields).Error; err != nil {
			return nil, storeErr("update advertisement", err)
		}
	}
	return s.GetByID(id)
}

func (s *AdService) Delete(id uint) error {
	result := s.DB.Delete(&models.Advertisement{}, id)
	if result.Error != nil {
		return storeErr("delete advertisement", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAdNotFound
	}
	return nil
}

// Track bumps a counter atomically in the database; concurrent trackers
// never lose increments.
func (s *AdService) Track(id uint, event string) error {
	var column string
	switch event {
	case "view":
		column = "view_count"
	case "click":
		column = "click_count"
	default:
		return validationErr("type", "must be view or click")
	}

	result := s.DB.Model(&models.Advertisement{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return storeErr("track advertisement", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAdNotFound
	}
	return nil
}
