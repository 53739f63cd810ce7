// Package router wires handlers, middleware and route groups onto the
// Echo instance.  All API routes live under the /api prefix.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Coco120903/batinos-garden-resort/internal/handler"
	"github.com/Coco120903/batinos-garden-resort/internal/middleware"
	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

// Handlers groups everything the router registers.
type Handlers struct {
	Auth         *handler.AuthHandler
	Booking      *handler.BookingHandler
	AdminBooking *handler.AdminBookingHandler
	Service      *handler.ServiceHandler
	Review       *handler.ReviewHandler
	Site         *handler.SiteHandler
	Chat         *handler.ChatHandler
	User         *handler.UserHandler
	Media        *handler.MediaHandler
	Verified     echo.MiddlewareFunc
	JWTSecret    string
	PublicCache  echo.MiddlewareFunc
}

// Register mounts every route group.
func Register(e *echo.Echo, h Handlers) {
	api := e.Group("/api")
	api.GET("/health", handler.Health)

	registerAuth(api, h)
	registerPublic(api, h)
	registerUser(api, h)
	registerAdmin(api, h)
}

func registerAuth(api *echo.Group, h Handlers) {
	g := api.Group("/auth")
	g.POST("/register", h.Auth.Register)
	g.GET("/verify-email", h.Auth.VerifyEmail)
	g.POST("/verify-email", h.Auth.VerifyEmail)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/logout", h.Auth.Logout)
	g.POST("/forgot-password", h.Auth.ForgotPassword)
	g.POST("/reset-password", h.Auth.ResetPassword)
	g.GET("/me", h.Auth.Me, middleware.JWTAuth(h.JWTSecret))
}

// registerPublic mounts the guest-readable catalog, reviews and site
// settings.  GET responses here are served through the redis response
// cache when one is configured.
func registerPublic(api *echo.Group, h Handlers) {
	var mw []echo.MiddlewareFunc
	if h.PublicCache != nil {
		mw = append(mw, h.PublicCache)
	}
	api.GET("/services", h.Service.List, mw...)
	api.GET("/services/:id", h.Service.Get, mw...)
	api.GET("/reviews", h.Review.ListApproved, mw...)
	api.GET("/site", h.Site.Get, mw...)
}

func registerUser(api *echo.Group, h Handlers) {
	auth := middleware.JWTAuth(h.JWTSecret)

	api.POST("/bookings", h.Booking.Create, auth,
		middleware.RequireRole(model.RoleUser, model.RoleAdmin), h.Verified)
	api.GET("/bookings/mine", h.Booking.Mine, auth,
		middleware.RequireRole(model.RoleUser, model.RoleAdmin))

	api.POST("/reviews", h.Review.Create, auth,
		middleware.RequireRole(model.RoleUser, model.RoleAdmin), h.Verified)

	users := api.Group("/users/me", auth)
	users.GET("", h.User.Get)
	users.PUT("", h.User.Update)
	users.DELETE("", h.User.Delete)

	chat := api.Group("/chat/me", auth)
	chat.GET("", h.Chat.MyThread)
	chat.GET("/messages", h.Chat.MyMessages)
	chat.POST("/messages", h.Chat.Send)
}

func registerAdmin(api *echo.Group, h Handlers) {
	admin := func(g *echo.Group) *echo.Group {
		g.Use(middleware.JWTAuth(h.JWTSecret))
		g.Use(middleware.RequireRole(model.RoleAdmin))
		return g
	}

	auth := middleware.JWTAuth(h.JWTSecret)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	api.GET("/bookings", h.AdminBooking.List, auth, adminOnly)
	api.GET("/bookings/:id", h.AdminBooking.Get, auth, adminOnly)
	api.POST("/bookings/:id/approve", h.AdminBooking.Approve, auth, adminOnly)
	api.POST("/bookings/:id/reschedule", h.AdminBooking.Reschedule, auth, adminOnly)
	api.POST("/bookings/:id/cancel", h.AdminBooking.Cancel, auth, adminOnly)
	api.POST("/bookings/:id/complete", h.AdminBooking.Complete, auth, adminOnly)

	s := admin(api.Group("/admin/services"))
	s.POST("", h.Service.Create)
	s.PATCH("/:id", h.Service.Update)

	r := admin(api.Group("/admin/reviews"))
	r.GET("", h.Review.ListAll)
	r.POST("/:id/approve", h.Review.Approve)
	r.DELETE("/:id", h.Review.Reject)

	site := admin(api.Group("/admin/site"))
	site.GET("", h.Site.Get)
	site.PUT("", h.Site.Update)

	c := admin(api.Group("/admin/chat/threads"))
	c.GET("", h.Chat.Threads)
	c.GET("/:id/messages", h.Chat.ThreadMessages)
	c.POST("/:id/messages", h.Chat.Reply)
	c.PUT("/:id/status", h.Chat.SetStatus)

	m := admin(api.Group("/admin/media"))
	m.GET("", h.Media.List)
	m.POST("", h.Media.Create)
	m.DELETE("/:id", h.Media.Delete)
}
