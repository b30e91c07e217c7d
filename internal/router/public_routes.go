package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/freelance-marketplace/internal/handler"
)

// RegisterPublic registers unauthenticated browse and search endpoints.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/search/:tag_name", p.SearchByTag)
	e.GET("/:gig_id/full", p.GigFull)

	g := e.Group("/public")
	g.GET("/gigs", p.ListGigs)
	g.GET("/search/:category_name/gigs", p.SearchByCategory)
	g.GET("/categories", p.Categories)
	g.GET("/tags", p.Tags)
	g.GET("/skills", p.Skills)
	g.GET("/occupations", p.Occupations)
	g.GET("/sellers/occupation/:name", p.SellersByOccupation)
	g.GET("/sellers/skill/:name", p.SellersBySkill)
	g.GET("/seller/profile/:seller_id", p.SellerProfile)
}
