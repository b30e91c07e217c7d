// Package router maps URL paths to handlers and attaches the gate
// middleware to each route group.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/freelance-marketplace/internal/handler"
	"github.com/iliyamo/freelance-marketplace/internal/middleware"
	"github.com/iliyamo/freelance-marketplace/internal/repository"
	"github.com/iliyamo/freelance-marketplace/internal/utils"
)

// Handlers groups everything the routes need.
type Handlers struct {
	Auth      *handler.AuthHandler
	Client    *handler.ClientHandler
	Public    *handler.PublicHandler
	Seller    *handler.SellerHandler
	Superuser *handler.SuperuserHandler
	Users     *repository.UserRepo
	Tokens    *utils.TokenService
	UploadDir string
}

// RegisterRoutes registers infrastructure routes: health, metrics and the
// read-only upload directory.
func RegisterRoutes(e *echo.Echo, uploadDir string) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if uploadDir != "" {
		e.Static("/uploads", uploadDir)
	}
}

// RegisterAll wires every route group onto e.
func RegisterAll(e *echo.Echo, h Handlers) {
	RegisterRoutes(e, h.UploadDir)
	RegisterAuth(e, h.Auth, h.Tokens, h.Users)
	RegisterPublic(e, h.Public)
	RegisterClient(e, h.Client, h.Tokens, h.Users)
	RegisterSeller(e, h.Seller, h.Tokens, h.Users)
	RegisterSuperuser(e, h.Superuser, h.Tokens, h.Users)
}

// RegisterAuth registers /auth.  Register, login and refresh are open;
// the rest need an access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *utils.TokenService, users *repository.UserRepo) {
	g := e.Group("/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	jwt := middleware.JWTAuth(tokens)
	g.GET("/get_current_user", a.CurrentUser, jwt, middleware.LoadUser(users))
	g.POST("/add_seller", a.AddSeller, jwt, middleware.RequireRole(users, middleware.IsSeller, "User is not a seller or does not exist"))
}
