package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/elan19/vteam/internal/middleware"
	"github.com/elan19/vteam/scooter"
)

type scooterResponse struct {
	ID        uuid.UUID      `json:"id"`
	Lat       float64        `json:"lat"`
	Lon       float64        `json:"lon"`
	Battery   int            `json:"battery"`
	Status    scooter.Status `json:"status"`
	CityID    *uuid.UUID     `json:"cityId,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func toScooterResponse(s scooter.Scooter) scooterResponse {
	return scooterResponse{
		ID:        s.ID,
		Lat:       s.Location.P.X,
		Lon:       s.Location.P.Y,
		Battery:   s.Battery,
		Status:    s.Status,
		CityID:    s.CityID,
		CreatedAt: s.CreatedAt,
	}
}

type createScooterRequest struct {
	Lat     float64    `json:"lat" binding:"min=-90,max=90"`
	Lon     float64    `json:"lon" binding:"min=-180,max=180"`
	Battery int        `json:"battery" binding:"min=0,max=100"`
	Status  *string    `json:"status"`
	CityID  *uuid.UUID `json:"cityId"`
}

func (a *API) getScootersHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	scooters, err := a.sr.GetScooters(c)
	if err != nil {
		logger.ErrorContext(c, "failed to get scooters", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]scooterResponse, 0, len(scooters))
	for _, s := range scooters {
		responses = append(responses, toScooterResponse(s))
	}
	c.JSON(http.StatusOK, responses)
}

func (a *API) createScooterHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req createScooterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	status := scooter.Available
	if req.Status != nil {
		if err := status.Scan(*req.Status); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
			return
		}
	}

	s, err := a.sr.Create(c, scooter.Point{Lat: req.Lat, Lon: req.Lon}, req.Battery, status, req.CityID)
	if err != nil {
		logger.ErrorContext(c, "failed to create scooter", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, toScooterResponse(s))
}

func (a *API) getScooterHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid scooter id"})
		return
	}

	s, err := a.sr.GetScooter(c, id)
	if err != nil {
		if errors.Is(err, scooter.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "SCOOTER_NOT_FOUND", "message": "Scooter not found"})
			return
		}
		logger.ErrorContext(c, "failed to get scooter", "scooterId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toScooterResponse(s))
}

type updateScooterRequest struct {
	Lat     *float64   `json:"lat" binding:"omitempty,min=-90,max=90"`
	Lon     *float64   `json:"lon" binding:"omitempty,min=-180,max=180"`
	Battery *int       `json:"battery" binding:"omitempty,min=0,max=100"`
	Status  *string    `json:"status"`
	CityID  *uuid.UUID `json:"cityId"`
}

func (a *API) updateScooterHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid scooter id"})
		return
	}

	var req updateScooterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}
	if (req.Lat == nil) != (req.Lon == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "lat and lon must be updated together"})
		return
	}

	params := scooter.UpdateParams{
		Battery: req.Battery,
		CityID:  req.CityID,
	}
	if req.Lat != nil {
		params.Location = &scooter.Point{Lat: *req.Lat, Lon: *req.Lon}
	}
	if req.Status != nil {
		var status scooter.Status
		if err := status.Scan(*req.Status); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
			return
		}
		params.Status = &status
	}

	s, err := a.sr.Update(c, id, params)
	if err != nil {
		if errors.Is(err, scooter.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "SCOOTER_NOT_FOUND", "message": "Scooter not found"})
			return
		}
		logger.ErrorContext(c, "failed to update scooter", "scooterId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toScooterResponse(s))
}

func (a *API) deleteScooterHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid scooter id"})
		return
	}

	err = a.sr.Delete(c, id)
	if err != nil {
		if errors.Is(err, scooter.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "SCOOTER_NOT_FOUND", "message": "Scooter not found"})
			return
		}
		if errors.Is(err, scooter.ErrOpenSession) {
			c.JSON(http.StatusConflict, gin.H{"code": "OPEN_SESSION", "message": "Scooter has an open rental session"})
			return
		}
		logger.ErrorContext(c, "failed to delete scooter", "scooterId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Scooter deleted"})
}
