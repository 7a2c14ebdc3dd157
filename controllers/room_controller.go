package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salle-backend/models"
	"salle-backend/services"
	"salle-backend/utils"
)

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(rs *services.RoomService) *RoomController {
	return &RoomController{Rooms: rs}
}

// GetRooms handles GET /api/rooms.
func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.Rooms.GetAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetRoom handles GET /api/rooms/:id.
func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	room, err := rc.Rooms.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// CreateRoom handles POST /api/rooms (admin).
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		utils.JSONErrorKind(c, http.StatusBadRequest, "validation", "invalid request payload",
			gin.H{"details": err.Error()})
		return
	}

	if err := rc.Rooms.Create(&room); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// UpdateRoom handles PATCH/PUT /api/rooms/:id (admin). Partial updates only.
func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.JSONErrorKind(c, http.StatusBadRequest, "validation", "invalid request payload",
			gin.H{"details": err.Error()})
		return
	}

	room, err := rc.Rooms.Update(id, fields)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /api/rooms/:id (admin). The delete cascades to
// every reservation of the room.
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := rc.Rooms.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "room and its reservations deleted"})
}
