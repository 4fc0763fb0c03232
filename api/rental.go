package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/elan19/vteam/internal/middleware"
	"github.com/elan19/vteam/rental"
	"github.com/elan19/vteam/scooter"
	"github.com/elan19/vteam/user"
)

type rentalResponse struct {
	ID             uuid.UUID    `json:"id"`
	UserID         uuid.UUID    `json:"userId"`
	ScooterID      uuid.UUID    `json:"scooterId"`
	State          rental.State `json:"state"`
	StartTime      time.Time    `json:"startTime"`
	StopTime       *time.Time   `json:"stopTime,omitempty"`
	ReturnTime     *time.Time   `json:"returnTime,omitempty"`
	CancelledAt    *time.Time   `json:"cancelledAt,omitempty"`
	PricePerMinute *int64       `json:"pricePerMinute,omitempty"`
	TotalPrice     *int64       `json:"totalPrice,omitempty"`
	Returned       bool         `json:"returned"`
	CreatedAt      time.Time    `json:"createdAt"`
}

func toRentalResponse(s rental.Session) rentalResponse {
	resp := rentalResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		ScooterID: s.ScooterID,
		State:     s.State(),
		StartTime: s.StartTime,
		Returned:  s.Returned,
		CreatedAt: s.CreatedAt,
	}
	if s.StopTime.Valid {
		resp.StopTime = &s.StopTime.Time
	}
	if s.ReturnTime.Valid {
		resp.ReturnTime = &s.ReturnTime.Time
	}
	if s.CancelledAt.Valid {
		resp.CancelledAt = &s.CancelledAt.Time
	}
	if s.PricePerMinute.Valid {
		resp.PricePerMinute = &s.PricePerMinute.Int64
	}
	if s.TotalPrice.Valid {
		resp.TotalPrice = &s.TotalPrice.Int64
	}
	return resp
}

// parseWhen binds an optional timestamp field, accepting the legacy
// local-time form, and defaults to now.
func parseWhen(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return rental.ParseTimestamp(s)
}

type startRentalRequest struct {
	UserID    uuid.UUID `json:"userId" binding:"required"`
	ScooterID uuid.UUID `json:"scooterId" binding:"required"`
	StartTime string    `json:"startTime"`
}

func (a *API) startRentalHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req startRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	startTime, err := parseWhen(req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid startTime format"})
		return
	}

	s, err := a.lc.Start(c, req.UserID, req.ScooterID, startTime)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"code": "USER_NOT_FOUND", "message": "User not found"})
		case errors.Is(err, scooter.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"code": "SCOOTER_NOT_FOUND", "message": "Scooter not found"})
		case errors.Is(err, scooter.ErrNotAvailable):
			c.JSON(http.StatusConflict, gin.H{"code": "SCOOTER_NOT_AVAILABLE", "message": "Scooter is not available"})
		default:
			logger.ErrorContext(c, "failed to start rental", "scooterId", req.ScooterID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, toRentalResponse(s))
}

type stopRentalRequest struct {
	StopTime string `json:"stopTime"`
}

func (a *API) stopRentalHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid rental id"})
		return
	}

	// The body is optional; an empty body stops the session now.
	var req stopRentalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
			return
		}
	}

	stopTime, err := parseWhen(req.StopTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid stopTime format"})
		return
	}

	s, err := a.lc.Stop(c, id, stopTime)
	if err != nil {
		a.rentalConflict(c, id, err, "failed to stop rental")
		return
	}

	c.JSON(http.StatusOK, toRentalResponse(s))
}

type returnRentalRequest struct {
	ReturnTime string        `json:"returnTime"`
	Location   scooter.Point `json:"location"`
}

func (a *API) returnRentalHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid rental id"})
		return
	}

	var req returnRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	returnTime, err := parseWhen(req.ReturnTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid returnTime format"})
		return
	}

	s, err := a.lc.Return(c, id, returnTime, req.Location)
	if err != nil {
		a.rentalConflict(c, id, err, "failed to return rental")
		return
	}

	c.JSON(http.StatusOK, toRentalResponse(s))
}

func (a *API) cancelRentalHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid rental id"})
		return
	}

	s, err := a.lc.Cancel(c, id, time.Now())
	if err != nil {
		a.rentalConflict(c, id, err, "failed to cancel rental")
		return
	}

	c.JSON(http.StatusOK, toRentalResponse(s))
}

// rentalConflict translates lifecycle errors into response codes shared by
// the stop/return/cancel handlers.
func (a *API) rentalConflict(c *gin.Context, id uuid.UUID, err error, logMsg string) {
	logger := middleware.GetLogger(c)

	switch {
	case errors.Is(err, rental.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "RENTAL_NOT_FOUND", "message": "Rental session not found"})
	case errors.Is(err, rental.ErrAlreadyStopped):
		c.JSON(http.StatusConflict, gin.H{"code": "ALREADY_STOPPED", "message": "Rental session already stopped"})
	case errors.Is(err, rental.ErrAlreadyReturned):
		c.JSON(http.StatusConflict, gin.H{"code": "ALREADY_RETURNED", "message": "Rental session already returned"})
	case errors.Is(err, rental.ErrNotStopped):
		c.JSON(http.StatusConflict, gin.H{"code": "NOT_STOPPED", "message": "Rental session has not been stopped"})
	case errors.Is(err, rental.ErrCancelled):
		c.JSON(http.StatusConflict, gin.H{"code": "CANCELLED", "message": "Rental session was cancelled"})
	case errors.Is(err, rental.ErrInvalidInterval):
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_INTERVAL", "message": "Timestamp precedes the interval start"})
	default:
		logger.ErrorContext(c, logMsg, "rentalId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (a *API) getRentalsHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	sessions, err := a.rr.GetSessions(c)
	if err != nil {
		logger.ErrorContext(c, "failed to get rentals", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]rentalResponse, 0, len(sessions))
	for _, s := range sessions {
		responses = append(responses, toRentalResponse(s))
	}
	c.JSON(http.StatusOK, responses)
}

func (a *API) getRentalHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid rental id"})
		return
	}

	s, err := a.rr.GetSession(c, id)
	if err != nil {
		if errors.Is(err, rental.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "RENTAL_NOT_FOUND", "message": "Rental session not found"})
			return
		}
		logger.ErrorContext(c, "failed to get rental", "rentalId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toRentalResponse(s))
}

func (a *API) getUserRentalsHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid user id"})
		return
	}

	sessions, err := a.rr.GetSessionsByUser(c, id)
	if err != nil {
		logger.ErrorContext(c, "failed to get user rentals", "userId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]rentalResponse, 0, len(sessions))
	for _, s := range sessions {
		responses = append(responses, toRentalResponse(s))
	}
	c.JSON(http.StatusOK, responses)
}

type updateRentalRequest struct {
	UserID     *uuid.UUID `json:"userId"`
	ScooterID  *uuid.UUID `json:"scooterId"`
	StartTime  *string    `json:"startTime"`
	StopTime   *string    `json:"stopTime"`
	ReturnTime *string    `json:"returnTime"`
	Returned   *bool      `json:"returned"`
}

func (a *API) updateRentalHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid rental id"})
		return
	}

	var req updateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	params := rental.UpdateParams{
		UserID:    req.UserID,
		ScooterID: req.ScooterID,
		Returned:  req.Returned,
	}
	for _, f := range []struct {
		in  *string
		out **time.Time
	}{
		{req.StartTime, &params.StartTime},
		{req.StopTime, &params.StopTime},
		{req.ReturnTime, &params.ReturnTime},
	} {
		if f.in == nil {
			continue
		}
		t, err := rental.ParseTimestamp(*f.in)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
			return
		}
		*f.out = &t
	}

	s, err := a.rr.Update(c, id, params)
	if err != nil {
		if errors.Is(err, rental.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "RENTAL_NOT_FOUND", "message": "Rental session not found"})
			return
		}
		logger.ErrorContext(c, "failed to update rental", "rentalId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toRentalResponse(s))
}

func (a *API) deleteRentalHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid rental id"})
		return
	}

	err = a.rr.Delete(c, id)
	if err != nil {
		if errors.Is(err, rental.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "RENTAL_NOT_FOUND", "message": "Rental session not found"})
			return
		}
		logger.ErrorContext(c, "failed to delete rental", "rentalId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rental session deleted"})
}
