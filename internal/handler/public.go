package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/freelance-marketplace/internal/apperr"
	"github.com/iliyamo/freelance-marketplace/internal/repository"
)

// PublicHandler serves browse and search endpoints that need no token.
type PublicHandler struct {
	Gigs    *repository.GigRepo
	Refs    *repository.ReferenceRepo
	Sellers *repository.SellerRepo
}

// NewPublicHandler wires the unauthenticated routes.
func NewPublicHandler(gigs *repository.GigRepo, refs *repository.ReferenceRepo, sellers *repository.SellerRepo) *PublicHandler {
	return &PublicHandler{Gigs: gigs, Refs: refs, Sellers: sellers}
}

// GigFull returns one gig with its category, tags and files.
func (h *PublicHandler) GigFull(c echo.Context) error {
	gigID, err := pathID(c, "gig_id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	d, err := h.Gigs.GetFull(ctx, gigID)
	if err != nil {
		return translate(err, on(repository.ErrGigNotFound, apperr.KindNotFound, "Gig not found"))
	}
	return c.JSON(http.StatusOK, d)
}

// SearchByTag returns every gig carrying the tag, with all of its tags.
func (h *PublicHandler) SearchByTag(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	gigs, err := h.Gigs.SearchByTag(ctx, c.Param("tag_name"))
	if err != nil {
		return translate(err, on(repository.ErrTagNotFound, apperr.KindNotFound, "Tag not found"))
	}
	if len(gigs) == 0 {
		return apperr.NotFound("No gigs found for this tag")
	}
	return c.JSON(http.StatusOK, gigs)
}

// ListGigs returns every gig in nested form.
func (h *PublicHandler) ListGigs(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	gigs, err := h.Gigs.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(gigs) == 0 {
		return apperr.NotFound("No gigs found")
	}
	return c.JSON(http.StatusOK, gigs)
}

// SearchByCategory returns the gigs of a category, matched by exact name.
func (h *PublicHandler) SearchByCategory(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	gigs, err := h.Gigs.SearchByCategory(ctx, c.Param("category_name"))
	if err != nil {
		return translate(err, on(repository.ErrCategoryNotFound, apperr.KindNotFound, "Category not found"))
	}
	if len(gigs) == 0 {
		return apperr.NotFound("No gigs found in this category")
	}
	return c.JSON(http.StatusOK, gigs)
}

// Categories lists the reference categories.
func (h *PublicHandler) Categories(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	list, err := h.Refs.ListCategories(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Tags lists the reference tags.
func (h *PublicHandler) Tags(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	list, err := h.Refs.ListTags(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Skills lists the reference skills.
func (h *PublicHandler) Skills(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	list, err := h.Refs.ListSkills(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Occupations lists the reference occupations.
func (h *PublicHandler) Occupations(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	list, err := h.Refs.ListOccupations(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// SellersByOccupation matches occupation names containing :name,
// ignoring case.
func (h *PublicHandler) SellersByOccupation(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	list, err := h.Sellers.ListByOccupation(ctx, c.Param("name"))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return apperr.NotFound("No sellers found with this occupation")
	}
	return c.JSON(http.StatusOK, list)
}

// SellersBySkill lists sellers whose skill name contains :name, ignoring case.
func (h *PublicHandler) SellersBySkill(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	list, err := h.Sellers.ListBySkill(ctx, c.Param("name"))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return apperr.NotFound("No sellers found with this skill")
	}
	return c.JSON(http.StatusOK, list)
}

// SellerProfile returns the nested profile of any seller.
func (h *PublicHandler) SellerProfile(c echo.Context) error {
	sellerID, err := pathID(c, "seller_id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	p, err := h.Sellers.Profile(ctx, sellerID)
	if err != nil {
		return translate(err, on(repository.ErrSellerNotFound, apperr.KindNotFound, "Seller not found"))
	}
	return c.JSON(http.StatusOK, p)
}
