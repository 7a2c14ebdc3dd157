package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"salle-backend/models"
	"salle-backend/services"
)

func testEnv(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.Room{},
		&models.Reservation{},
	))

	rc := NewReservationController(
		services.NewReservationService(db, nil, zerolog.Nop()),
		services.NewAvailabilityService(db),
	)

	r := gin.New()
	r.POST("/api/reservations", rc.CreateReservation)
	r.GET("/api/reservations/blocked-days", rc.GetBlockedDays)
	r.PATCH("/api/admin/reservations/:id", rc.UpdateStatus)
	r.PATCH("/api/admin/reservations/:id/price", rc.SetAdminPrice)
	r.DELETE("/api/admin/reservations/:id/price", rc.ResetAdminPrice)
	return db, r
}

func seedRoom(t *testing.T, db *gorm.DB) *models.Room {
	t.Helper()
	room := &models.Room{Name: "Salle Baobab", Capacity: 50, PricePerDay: 100_000, Available: true}
	require.NoError(t, db.Create(room).Error)
	return room
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func createPayload(roomID uint, start, end string) gin.H {
	return gin.H{
		"room_id":          roomID,
		"customer_name":    "Awa Diop",
		"customer_email":   "awa@example.com",
		"customer_phone":   "+221770000000",
		"event_object":     "Séminaire annuel",
		"start_time":       start,
		"end_time":         end,
		"number_of_guests": 20,
	}
}

func TestCreateReservation_Created(t *testing.T) {
	db, r := testEnv(t)
	room := seedRoom(t, db)

	w, body := doJSON(t, r, http.MethodPost, "/api/reservations",
		createPayload(room.ID, "2026-09-10", "2026-09-11"), nil)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	// Two inclusive days at 100 000 FCFA, no catering.
	assert.Equal(t, float64(200_000), body["total_price"])
	assert.Equal(t, models.StatusPending, body["status"])
	assert.NotEmpty(t, body["reference_code"])
}

func TestCreateReservation_ValidationKinds(t *testing.T) {
	db, r := testEnv(t)
	room := seedRoom(t, db)

	t.Run("missing required field", func(t *testing.T) {
		payload := createPayload(room.ID, "2026-09-10", "2026-09-11")
		delete(payload, "customer_name")
		w, body := doJSON(t, r, http.MethodPost, "/api/reservations", payload, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation", body["kind"])
	})

	t.Run("unparseable date", func(t *testing.T) {
		payload := createPayload(room.ID, "10/09/2026", "2026-09-11")
		w, body := doJSON(t, r, http.MethodPost, "/api/reservations", payload, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation", body["kind"])
		detail := body["detail"].(map[string]interface{})
		assert.Equal(t, "start_time", detail["field"])
	})

	t.Run("guests over capacity", func(t *testing.T) {
		payload := createPayload(room.ID, "2026-10-01", "2026-10-01")
		payload["number_of_guests"] = 200
		w, body := doJSON(t, r, http.MethodPost, "/api/reservations", payload, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation", body["kind"])
		detail := body["detail"].(map[string]interface{})
		assert.Equal(t, "number_of_guests", detail["field"])
	})
}

func TestCreateReservation_ConflictResponse(t *testing.T) {
	db, r := testEnv(t)
	room := seedRoom(t, db)

	w, _ := doJSON(t, r, http.MethodPost, "/api/reservations",
		createPayload(room.ID, "2026-09-10", "2026-09-12"), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := doJSON(t, r, http.MethodPost, "/api/reservations",
		createPayload(room.ID, "2026-09-12", "2026-09-14"), nil)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", body["kind"])
	detail := body["detail"].(map[string]interface{})
	assert.Equal(t, "2026-09-10", detail["conflict_start"])
	assert.Equal(t, "2026-09-12", detail["conflict_end"])
}

func TestCreateReservation_UnknownRoomIs404(t *testing.T) {
	_, r := testEnv(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/reservations",
		createPayload(999, "2026-09-10", "2026-09-11"), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", body["kind"])
}

func TestCreateReservation_IdempotencyKeyReplay(t *testing.T) {
	db, r := testEnv(t)
	room := seedRoom(t, db)
	headers := map[string]string{"Idempotency-Key": "client-key-42"}

	w, first := doJSON(t, r, http.MethodPost, "/api/reservations",
		createPayload(room.ID, "2026-09-10", "2026-09-11"), headers)
	require.Equal(t, http.StatusCreated, w.Code)

	w, second := doJSON(t, r, http.MethodPost, "/api/reservations",
		createPayload(room.ID, "2026-09-10", "2026-09-11"), headers)
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, first["reference_code"], second["reference_code"])

	var count int64
	require.NoError(t, db.Model(&models.Reservation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetBlockedDays(t *testing.T) {
	db, r := testEnv(t)
	room := seedRoom(t, db)

	w, _ := doJSON(t, r, http.MethodPost, "/api/reservations",
		createPayload(room.ID, "2026-09-10", "2026-09-12"), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/reservations/blocked-days?room_id=%d", room.ID), nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	raw := body["blocked_days"].([]interface{})
	days := make([]string, 0, len(raw))
	for _, d := range raw {
		days = append(days, d.(string))
	}
	assert.Equal(t, []string{"2026-09-10", "2026-09-11", "2026-09-12"}, days)

	w, body = doJSON(t, r, http.MethodGet, "/api/reservations/blocked-days", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", body["kind"])
}

func TestUpdateStatus_Endpoint(t *testing.T) {
	db, r := testEnv(t)
	room := seedRoom(t, db)

	w, created := doJSON(t, r, http.MethodPost, "/api/reservations",
		createPayload(room.ID, "2026-09-10", "2026-09-11"), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(created["ID"].(float64))

	w, body := doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("/api/admin/reservations/%d", id),
		gin.H{"status": models.StatusConfirmed}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusConfirmed, body["status"])

	w, body = doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("/api/admin/reservations/%d", id),
		gin.H{"status": "archived"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", body["kind"])
}

func TestAdminPrice_Endpoints(t *testing.T) {
	db, r := testEnv(t)
	room := seedRoom(t, db)

	w, created := doJSON(t, r, http.MethodPost, "/api/reservations",
		createPayload(room.ID, "2026-09-10", "2026-09-11"), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(created["ID"].(float64))

	w, body := doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("/api/admin/reservations/%d/price", id),
		gin.H{"admin_adjusted_price": 150_000, "admin_price_note": "remise fidélité"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(150_000), body["admin_adjusted_price"])
	// The computed total survives the override.
	assert.Equal(t, float64(200_000), body["total_price"])

	w, body = doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("/api/admin/reservations/%d/price", id),
		gin.H{"admin_price_note": "missing amount"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", body["kind"])

	w, body = doJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/api/admin/reservations/%d/price", id), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, body["admin_adjusted_price"])

	var stored models.Reservation
	require.NoError(t, db.First(&stored, id).Error)
	assert.Nil(t, stored.AdminAdjustedPrice)
	assert.Equal(t, int64(200_000), stored.TotalPrice)
}

func TestParseDateTime(t *testing.T) {
	got, ok := parseDateTime("2026-09-10")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), got)

	_, ok = parseDateTime("2026-09-10T14:00:00Z")
	assert.True(t, ok)

	_, ok = parseDateTime("10 septembre 2026")
	assert.False(t, ok)
}
