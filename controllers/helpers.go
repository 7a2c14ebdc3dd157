package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salle-backend/services"
	"salle-backend/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Conflict responses carry the conflicting period so the client can
// re-render blocked dates; transient store failures are an honest 503,
// never a fabricated success.
func respondServiceError(c *gin.Context, err error) {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		utils.JSONErrorKind(c, http.StatusBadRequest, "validation", validation.Message,
			gin.H{"field": validation.Field})
		return
	}

	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		utils.JSONErrorKind(c, http.StatusConflict, "conflict",
			"Cette salle est déjà réservée pour cette période. Veuillez choisir d'autres dates.",
			gin.H{
				"conflict_start": conflict.ConflictStart.Format("2006-01-02"),
				"conflict_end":   conflict.ConflictEnd.Format("2006-01-02"),
			})
		return
	}

	switch {
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrReservationNotFound),
		errors.Is(err, services.ErrAdNotFound):
		utils.JSONErrorKind(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, services.ErrRoomUnavailable):
		utils.JSONErrorKind(c, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, services.ErrTransientStore):
		utils.JSONErrorKind(c, http.StatusServiceUnavailable, "server",
			"service temporarily unavailable, please retry", nil)
	default:
		utils.JSONErrorKind(c, http.StatusInternalServerError, "server", "internal error", nil)
	}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.JSONErrorKind(c, http.StatusBadRequest, "validation", "invalid id", nil)
		return 0, false
	}
	return uint(id), true
}
