package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/elan19/vteam/city"
	"github.com/elan19/vteam/internal/middleware"
)

type createCityRequest struct {
	Name string `json:"name" binding:"required"`
}

type updateCityRequest struct {
	Name *string `json:"name"`
}

func (a *API) getCitiesHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	cities, err := a.cr.GetCities(c)
	if err != nil {
		logger.ErrorContext(c, "failed to get cities", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, cities)
}

func (a *API) createCityHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req createCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	ct, err := a.cr.Create(c, req.Name)
	if err != nil {
		logger.ErrorContext(c, "failed to create city", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, ct)
}

func (a *API) getCityHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	// Cities are addressable by id or, for the map frontend, by name.
	var (
		ct  city.City
		err error
	)
	if id, perr := uuid.Parse(c.Param("id")); perr == nil {
		ct, err = a.cr.GetCity(c, id)
	} else {
		ct, err = a.cr.GetCityByName(c, c.Param("id"))
	}
	if err != nil {
		if errors.Is(err, city.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "CITY_NOT_FOUND", "message": "City not found"})
			return
		}
		logger.ErrorContext(c, "failed to get city", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, ct)
}

func (a *API) updateCityHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid city id"})
		return
	}

	var req updateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	ct, err := a.cr.Update(c, id, city.UpdateParams{Name: req.Name})
	if err != nil {
		if errors.Is(err, city.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "CITY_NOT_FOUND", "message": "City not found"})
			return
		}
		logger.ErrorContext(c, "failed to update city", "cityId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, ct)
}

func (a *API) deleteCityHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid city id"})
		return
	}

	err = a.cr.Delete(c, id)
	if err != nil {
		if errors.Is(err, city.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "CITY_NOT_FOUND", "message": "City not found"})
			return
		}
		logger.ErrorContext(c, "failed to delete city", "cityId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "City deleted"})
}

func (a *API) getCityScootersHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid city id"})
		return
	}

	scooters, err := a.sr.GetScootersByCity(c, id)
	if err != nil {
		logger.ErrorContext(c, "failed to get city scooters", "cityId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]scooterResponse, 0, len(scooters))
	for _, s := range scooters {
		responses = append(responses, toScooterResponse(s))
	}
	c.JSON(http.StatusOK, responses)
}

func (a *API) getCityZonesHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid city id"})
		return
	}

	zones, err := a.zr.GetZonesByCity(c, id)
	if err != nil {
		logger.ErrorContext(c, "failed to get city zones", "cityId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, zones)
}
