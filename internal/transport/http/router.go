package httpserver

import (
	"github.com/labstack/echo/v4"

	"vidhub/internal/handlers"
	middlewareauth "vidhub/internal/middleware/auth"
)

type Deps struct {
	AuthHandler   *handlers.AuthHandler
	UserHandler   *handlers.UserHandler
	SearchHandler *handlers.SearchHandler
	AuthGate      *middlewareauth.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/refresh-token", d.AuthHandler.Refresh)

	if d.SearchHandler != nil {
		v1.GET("/channels/search", d.SearchHandler.Search)
	}

	authed := v1.Group("", d.AuthGate.RequireLogin)

	authed.POST("/logout", d.AuthHandler.Logout)
	authed.POST("/change-password", d.AuthHandler.ChangePassword)

	authed.GET("/me", d.UserHandler.Me)
	authed.PATCH("/me", d.UserHandler.UpdateMe)
	authed.PATCH("/me/avatar", d.UserHandler.UpdateAvatar)
	authed.PATCH("/me/cover-image", d.UserHandler.UpdateCoverImage)
	authed.GET("/me/history", d.UserHandler.WatchHistory)

	authed.GET("/channels/:username", d.UserHandler.ChannelProfile)
	authed.POST("/channels/:username/subscribe", d.UserHandler.ToggleSubscription)
	authed.POST("/videos/:id/watch", d.UserHandler.RecordWatch)
}
