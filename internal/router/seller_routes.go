package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/freelance-marketplace/internal/handler"
	"github.com/iliyamo/freelance-marketplace/internal/middleware"
	"github.com/iliyamo/freelance-marketplace/internal/repository"
	"github.com/iliyamo/freelance-marketplace/internal/utils"
)

// RegisterSeller registers /seller.  Routes need an access token, the
// seller flag and an existing seller profile.
func RegisterSeller(e *echo.Echo, h *handler.SellerHandler, tokens *utils.TokenService, users *repository.UserRepo) {
	g := e.Group(
		"/seller",
		middleware.JWTAuth(tokens),
		middleware.RequireRole(users, middleware.IsSeller, "User is not a seller"),
		h.RequireProfile,
	)

	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)

	g.POST("/projects", h.CreateProject)
	g.GET("/projects", h.ListProjects)
	g.DELETE("/projects/:id", h.DeleteProject)
	g.POST("/projects/:id/files", h.AddProjectFile)
	g.GET("/project-files", h.ListProjectFiles)
	g.DELETE("/project-files/:id", h.DeleteProjectFile)

	g.POST("/certificates", h.AddCertificate)
	g.GET("/certificates", h.ListCertificates)
	g.DELETE("/certificates/:id", h.DeleteCertificate)

	g.POST("/experiences", h.AddExperience)
	g.GET("/experiences", h.ListExperiences)
	g.GET("/experiences/:id", h.GetExperience)
	g.DELETE("/experiences/:id", h.DeleteExperience)

	g.POST("/skills", h.AddSkills)
	g.GET("/skills", h.ListSkills)
	g.DELETE("/skills/:id", h.RemoveSkill)

	g.POST("/occupations", h.AddOccupations)
	g.GET("/occupations", h.ListOccupations)
	g.DELETE("/occupations/:id", h.RemoveOccupation)

	g.POST("/saved_clients", h.SaveClient)
	g.GET("/saved_clients", h.ListSavedClients)
	g.DELETE("/saved_clients/:id", h.DeleteSavedClient)

	g.GET("/gigs/:gig_id/apply", h.ApplyGig)
}
