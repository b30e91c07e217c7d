package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/freelance-marketplace/internal/handler"
	"github.com/iliyamo/freelance-marketplace/internal/middleware"
	"github.com/iliyamo/freelance-marketplace/internal/repository"
	"github.com/iliyamo/freelance-marketplace/internal/utils"
)

// RegisterClient registers gig management and saved sellers.  All routes
// require an access token and the client flag.
func RegisterClient(e *echo.Echo, h *handler.ClientHandler, tokens *utils.TokenService, users *repository.UserRepo) {
	jwt := middleware.JWTAuth(tokens)

	gigs := e.Group("/gigs", jwt, middleware.RequireRole(users, middleware.IsClient, "Only clients can post gigs"))
	gigs.POST("", h.CreateGig)
	gigs.GET("", h.ListGigs)
	gigs.DELETE("/:gig_id", h.DeleteGig)
	gigs.PUT("/:gig_id/status", h.UpdateGigStatus)
	gigs.POST("/:gig_id/tags", h.AddGigTags)
	gigs.POST("/:gig_id/files", h.UploadGigFile)
	gigs.GET("/:gig_id/files", h.ListGigFiles)
	gigs.DELETE("/:gig_id/files/:file_id", h.DeleteGigFile)

	saved := e.Group("/saved_sellers", jwt, middleware.RequireRole(users, middleware.IsClient, "Only clients can save sellers"))
	saved.POST("", h.SaveSeller)
	saved.GET("", h.ListSavedSellers)
	saved.DELETE("/:id", h.DeleteSavedSeller)
}
