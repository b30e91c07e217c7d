package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/freelance-marketplace/internal/handler"
	"github.com/iliyamo/freelance-marketplace/internal/middleware"
	"github.com/iliyamo/freelance-marketplace/internal/repository"
	"github.com/iliyamo/freelance-marketplace/internal/utils"
)

// RegisterSuperuser registers /superuser administration endpoints.
func RegisterSuperuser(e *echo.Echo, h *handler.SuperuserHandler, tokens *utils.TokenService, users *repository.UserRepo) {
	g := e.Group(
		"/superuser",
		middleware.JWTAuth(tokens),
		middleware.RequireRole(users, middleware.IsSuperuser, "Not authorized"),
	)

	g.GET("/clients", h.ListClients)
	g.POST("/clients", h.CreateClient)
	g.GET("/users", h.ListUsers)
	g.DELETE("/users/:id", h.DeleteUser)

	g.POST("/categories", h.CreateCategory())
	g.DELETE("/categories/:id", h.DeleteCategory())
	g.POST("/tags", h.CreateTag())
	g.DELETE("/tags/:id", h.DeleteTag())
	g.POST("/skills", h.CreateSkill())
	g.DELETE("/skills/:id", h.DeleteSkill())
	g.POST("/occupations", h.CreateOccupation())
	g.DELETE("/occupations/:id", h.DeleteOccupation())

	g.DELETE("/gigs/:gig_id", h.DeleteGig)
}
