package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salle-backend/models"
)

func testAd(t *testing.T, svc *AdService, position string, active bool, start, end *time.Time) *models.Advertisement {
	t.Helper()
	ad := &models.Advertisement{
		Title:     "Promo salles",
		Position:  position,
		IsActive:  active,
		StartDate: start,
		EndDate:   end,
	}
	require.NoError(t, svc.Create(ad))
	return ad
}

func TestAdService_CreateValidation(t *testing.T) {
	svc := NewAdService(testDB(t))

	err := svc.Create(&models.Advertisement{Title: "", Position: models.AdPositionHomepageTop})
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)

	err = svc.Create(&models.Advertisement{Title: "Promo", Position: "sidebar_left"})
	assert.ErrorAs(t, err, &validation)

	start := day(2024, 3, 10)
	end := day(2024, 3, 1)
	err = svc.Create(&models.Advertisement{
		Title: "Promo", Position: models.AdPositionHomepageTop,
		StartDate: &start, EndDate: &end,
	})
	assert.ErrorAs(t, err, &validation)
}

func TestAdService_ActiveForPosition(t *testing.T) {
	svc := NewAdService(testDB(t))
	now := day(2024, 3, 15)

	past := day(2024, 3, 1)
	future := day(2024, 3, 30)
	over := day(2024, 3, 10)

	inWindow := testAd(t, svc, models.AdPositionHomepageTop, true, &past, &future)
	testAd(t, svc, models.AdPositionHomepageTop, true, &past, &over)      // expired
	testAd(t, svc, models.AdPositionHomepageTop, false, nil, nil)        // inactive
	unbounded := testAd(t, svc, models.AdPositionHomepageTop, true, nil, nil)
	otherSlot := testAd(t, svc, models.AdPositionRoomSidebar, true, nil, nil)

	ads, err := svc.ActiveForPosition(models.AdPositionHomepageTop, now)
	require.NoError(t, err)
	ids := make([]uint, 0, len(ads))
	for _, ad := range ads {
		ids = append(ids, ad.ID)
	}
	assert.ElementsMatch(t, []uint{inWindow.ID, unbounded.ID}, ids)

	all, err := svc.ActiveForPosition("", now)
	require.NoError(t, err)
	assert.Len(t, all, 3) // the two above plus the other slot

	_ = otherSlot
}

func TestAdService_Track(t *testing.T) {
	svc := NewAdService(testDB(t))
	ad := testAd(t, svc, models.AdPositionGlobalPopup, true, nil, nil)

	require.NoError(t, svc.Track(ad.ID, "view"))
	require.NoError(t, svc.Track(ad.ID, "view"))
	require.NoError(t, svc.Track(ad.ID, "click"))

	got, err := svc.GetByID(ad.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ViewCount)
	assert.Equal(t, int64(1), got.ClickCount)

	var validation *ValidationError
	assert.ErrorAs(t, svc.Track(ad.ID, "hover"), &validation)
	assert.ErrorIs(t, svc.Track(9999, "view"), ErrAdNotFound)
}

func TestAdService_UpdateProtectsCounters(t *testing.T) {
	svc := NewAdService(testDB(t))
	ad := testAd(t, svc, models.AdPositionHomepageBottom, true, nil, nil)
	require.NoError(t, svc.Track(ad.ID, "view"))

	updated, err := svc.Update(ad.ID, map[string]interface{}{
		"title":      "Nouvelle promo",
		"view_count": float64(0), // must be stripped
	})
	require.NoError(t, err)
	assert.Equal(t, "Nouvelle promo", updated.Title)
	assert.Equal(t, int64(1), updated.ViewCount)
}
