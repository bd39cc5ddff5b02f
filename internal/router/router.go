// Package router wires the HTTP routes of the reservation API onto
// an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-room-booking/internal/config"
	"github.com/iliyamo/hotel-room-booking/internal/handler"
	"github.com/iliyamo/hotel-room-booking/internal/middleware"
)

// RegisterRoutes registers the health check plus the booking
// endpoints under /v1.  The Redis-backed rate limiter and response
// cache wrap the API group; both degrade to passthrough when rdb is
// nil so the service keeps working without Redis.
func RegisterRoutes(e *echo.Echo, b *handler.BookingHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.Use(middleware.RequestID())

	v1 := e.Group("/v1")
	v1.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// The availability query is the only cached route; everything else
	// mutates or is per-user.
	v1.GET("/rooms/availability", b.CheckRoomAvailability,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	v1.POST("/bookings", b.PlaceReservation)
	v1.PUT("/bookings/:id", b.ModifyReservation)
	v1.DELETE("/bookings/:id", b.CancelReservation)
	v1.GET("/bookings", b.ListUserBookings)
}
