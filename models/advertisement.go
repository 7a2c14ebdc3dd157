package models

import (
	"time"

	"gorm.io/gorm"
)

// Advertisement positions as rendered by the public site.
const (
	AdPositionHomepageTop    = "homepage_top"
	AdPositionHomepageMiddle = "homepage_middle"
	AdPositionHomepageBottom = "homepage_bottom"
	AdPositionRoomSidebar    = "room_sidebar"
	AdPositionRoomBottom     = "room_bottom"
	AdPositionGlobalPopup    = "global_popup"
)

var adPositions = map[string]bool{
	AdPositionHomepageTop:    true,
	AdPositionHomepageMiddle: true,
	AdPositionHomepageBottom: true,
	AdPositionRoomSidebar:    true,
	AdPositionRoomBottom:     true,
	AdPositionGlobalPopup:    true,
}

func IsValidAdPosition(p string) bool { return adPositions[p] }

type Advertisement struct {
	gorm.Model

	Title       string `json:"title" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
	ImageURL    string `json:"image_url" gorm:"column:image_url;size:512"`
	LinkURL     string `json:"link_url" gorm:"column:link_url;size:512"`
	LinkText    string `json:"link_text" gorm:"column:link_text;size:128"`

	Position string `json:"position" gorm:"size:64;index;not null"`
	IsActive bool   `json:"is_active" gorm:"column:is_active;default:true"`

	// Optional display window; nil means unbounded on that side.
	StartDate *time.Time `json:"start_date" gorm:"column:start_date"`
	EndDate   *time.Time `json:"end_date" gorm:"column:end_date"`

	ViewCount  int64 `json:"view_count" gorm:"column:view_count;default:0"`
	ClickCount int64 `json:"click_count" gorm:"column:click_count;default:0"`
}
