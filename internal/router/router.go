// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-room-reservation/internal/handler"
	"github.com/iliyamo/event-room-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check,
// used by load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes. Token
// issuing operations live under /v1/auth and need no session; the
// protected /v1/me endpoint carries the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a Bearer access token (revoke all sessions)
	// or a refresh_token in the body (revoke one), so it stays outside
	// the JWT-protected group.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(handler.RoleParticipant))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated hotel browse endpoints.
// These return read-only availability data so guests can inspect
// hotels and rooms before registering; the caller passes the response
// cache middleware built from config so repeated reads are served from
// Redis.
func RegisterPublic(e *echo.Echo, p *handler.HotelHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/hotels", p.ListHotels, cache)
	e.GET("/v1/hotels/:id/rooms", p.ListHotelRooms, cache)
}

// RegisterBooking registers the reservation endpoints under /v1. All
// routes require a valid JWT with the PARTICIPANT role; the handler
// receives the resolved user_id from the context.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(handler.RoleParticipant),
	)
	g.GET("/booking", b.GetBooking)
	g.POST("/booking", b.CreateBooking)
	g.PUT("/booking/:bookingId", b.ChangeRoom)
}
