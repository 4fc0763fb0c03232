// Package api maps HTTP routes onto the repositories and the rental
// lifecycle. It is glue only: bind, call, translate errors.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elan19/vteam/city"
	"github.com/elan19/vteam/internal/middleware"
	"github.com/elan19/vteam/internal/o11y"
	"github.com/elan19/vteam/rental"
	"github.com/elan19/vteam/scooter"
	"github.com/elan19/vteam/user"
	"github.com/elan19/vteam/zone"
)

type API struct {
	r  *gin.Engine
	ur *user.Repository
	sr *scooter.Repository
	zr *zone.Repository
	cr *city.Repository
	rr *rental.Repository
	lc *rental.Lifecycle
}

type Config struct {
	MetricsUsername string
	MetricsPassword string
}

func New(
	ur *user.Repository,
	sr *scooter.Repository,
	zr *zone.Repository,
	cr *city.Repository,
	rr *rental.Repository,
	lc *rental.Lifecycle,
	obs *o11y.Observability,
	cfg Config,
) *API {
	a := &API{
		r:  gin.New(),
		ur: ur,
		sr: sr,
		zr: zr,
		cr: cr,
		rr: rr,
		lc: lc,
	}

	a.r.Use(gin.Recovery())
	a.r.Use(middleware.Tracing())
	a.r.Use(middleware.Logging(obs.Logger))
	a.r.Use(middleware.Metrics(obs.Registry))

	a.r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	metrics := a.r.Group("/metrics", gin.BasicAuth(gin.Accounts{
		cfg.MetricsUsername: cfg.MetricsPassword,
	}))
	metrics.GET("", gin.WrapH(promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{})))

	a.r.GET("/users", a.getUsersHandler)
	a.r.POST("/users", a.createUserHandler)
	a.r.GET("/users/:id", a.getUserHandler)
	a.r.PUT("/users/:id", a.updateUserHandler)
	a.r.DELETE("/users/:id", a.deleteUserHandler)
	a.r.GET("/users/:id/rentals", a.getUserRentalsHandler)

	a.r.GET("/scooters", a.getScootersHandler)
	a.r.POST("/scooters", a.createScooterHandler)
	a.r.GET("/scooters/:id", a.getScooterHandler)
	a.r.PUT("/scooters/:id", a.updateScooterHandler)
	a.r.DELETE("/scooters/:id", a.deleteScooterHandler)

	a.r.GET("/zones", a.getZonesHandler)
	a.r.POST("/zones", a.createZoneHandler)
	a.r.GET("/zones/:id", a.getZoneHandler)
	a.r.PUT("/zones/:id", a.updateZoneHandler)
	a.r.DELETE("/zones/:id", a.deleteZoneHandler)

	a.r.GET("/cities", a.getCitiesHandler)
	a.r.POST("/cities", a.createCityHandler)
	a.r.GET("/cities/:id", a.getCityHandler)
	a.r.PUT("/cities/:id", a.updateCityHandler)
	a.r.DELETE("/cities/:id", a.deleteCityHandler)
	a.r.GET("/cities/:id/scooters", a.getCityScootersHandler)
	a.r.GET("/cities/:id/zones", a.getCityZonesHandler)

	a.r.GET("/rentals", a.getRentalsHandler)
	a.r.POST("/rentals", a.startRentalHandler)
	a.r.GET("/rentals/:id", a.getRentalHandler)
	a.r.PUT("/rentals/:id", a.updateRentalHandler)
	a.r.DELETE("/rentals/:id", a.deleteRentalHandler)
	a.r.POST("/rentals/:id/stop", a.stopRentalHandler)
	a.r.POST("/rentals/:id/return", a.returnRentalHandler)
	a.r.POST("/rentals/:id/cancel", a.cancelRentalHandler)

	return a
}

func (a *API) Router() *gin.Engine {
	return a.r
}
