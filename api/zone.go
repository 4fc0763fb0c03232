package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/elan19/vteam/internal/middleware"
	"github.com/elan19/vteam/zone"
)

type createZoneRequest struct {
	Name        string            `json:"name" binding:"required"`
	Type        zone.Type         `json:"type"`
	Coordinates []zone.Coordinate `json:"coordinates" binding:"required,min=3"`
	CityID      *uuid.UUID        `json:"cityId"`
}

func (a *API) getZonesHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	zones, err := a.zr.GetZones(c)
	if err != nil {
		logger.ErrorContext(c, "failed to get zones", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, zones)
}

func (a *API) createZoneHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req createZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	z, err := a.zr.Create(c, req.Name, req.Type, zone.Coordinates(req.Coordinates), req.CityID)
	if err != nil {
		logger.ErrorContext(c, "failed to create zone", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, z)
}

func (a *API) getZoneHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid zone id"})
		return
	}

	z, err := a.zr.GetZone(c, id)
	if err != nil {
		if errors.Is(err, zone.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "ZONE_NOT_FOUND", "message": "Zone not found"})
			return
		}
		logger.ErrorContext(c, "failed to get zone", "zoneId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, z)
}

type updateZoneRequest struct {
	Name        *string           `json:"name"`
	Type        *zone.Type        `json:"type"`
	Coordinates []zone.Coordinate `json:"coordinates" binding:"omitempty,min=3"`
	CityID      *uuid.UUID        `json:"cityId"`
}

func (a *API) updateZoneHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid zone id"})
		return
	}

	var req updateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	z, err := a.zr.Update(c, id, zone.UpdateParams{
		Name:        req.Name,
		Type:        req.Type,
		Coordinates: zone.Coordinates(req.Coordinates),
		CityID:      req.CityID,
	})
	if err != nil {
		if errors.Is(err, zone.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "ZONE_NOT_FOUND", "message": "Zone not found"})
			return
		}
		logger.ErrorContext(c, "failed to update zone", "zoneId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, z)
}

func (a *API) deleteZoneHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid zone id"})
		return
	}

	err = a.zr.Delete(c, id)
	if err != nil {
		if errors.Is(err, zone.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "ZONE_NOT_FOUND", "message": "Zone not found"})
			return
		}
		logger.ErrorContext(c, "failed to delete zone", "zoneId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Zone deleted"})
}
