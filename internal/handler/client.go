package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/freelance-marketplace/internal/apperr"
	"github.com/iliyamo/freelance-marketplace/internal/middleware"
	"github.com/iliyamo/freelance-marketplace/internal/model"
	"github.com/iliyamo/freelance-marketplace/internal/repository"
)

// ClientHandler serves gig management and saved sellers for clients.
type ClientHandler struct {
	Gigs      *repository.GigRepo
	Bookmarks *repository.BookmarkRepo
	Uploads   *Uploader
}

// NewClientHandler wires the client routes to their repositories.
func NewClientHandler(gigs *repository.GigRepo, bookmarks *repository.BookmarkRepo, uploads *Uploader) *ClientHandler {
	return &ClientHandler{Gigs: gigs, Bookmarks: bookmarks, Uploads: uploads}
}

type createGigReq struct {
	Title       string  `json:"gigs_title" validate:"required,notblank,max=255"`
	Duration    int     `json:"duration" validate:"required,gt=0"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,notblank"`
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
}

type gigStatusReq struct {
	Status *bool `json:"status" validate:"required"`
}

type gigTagsReq struct {
	TagIDs []int64 `json:"tag_ids" validate:"required,min=1,dive,gt=0"`
}

type saveSellerReq struct {
	SellerID int64 `json:"seller_id" validate:"required,gt=0"`
}

// Ownership translations shared by every owned-gig route.
var gigOwnerCases = []errCase{
	on(repository.ErrGigNotFound, apperr.KindNotFound, "Gig not found"),
	on(repository.ErrForbidden, apperr.KindForbidden, "You are not the owner of this gig"),
}

// CreateGig handles POST /gigs.
func (h *ClientHandler) CreateGig(c echo.Context) error {
	var req createGigReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	id, err := h.Gigs.Create(ctx, model.Gig{
		Title:       req.Title,
		Duration:    req.Duration,
		Price:       req.Price,
		Description: req.Description,
		CategoryID:  &req.CategoryID,
		UserID:      middleware.UserID(c),
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return translate(err,
			on(repository.ErrCategoryNotFound, apperr.KindValidation, "Category not found"),
			on(repository.ErrDuplicate, apperr.KindConflict, "This gig already exists"),
		)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Gig created successfully", "gig_id": id})
}

// ListGigs returns the caller's own gigs.
func (h *ClientHandler) ListGigs(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	gigs, err := h.Gigs.ListByUser(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}
	if len(gigs) == 0 {
		return apperr.NotFound("No gigs found")
	}
	return c.JSON(http.StatusOK, gigs)
}

// DeleteGig handles DELETE /gigs/:gig_id and removes files no other gig
// uses.
func (h *ClientHandler) DeleteGig(c echo.Context) error {
	gigID, err := pathID(c, "gig_id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	paths, err := h.Gigs.DeleteByIDAndOwner(ctx, gigID, middleware.UserID(c))
	if err != nil {
		return translate(err, gigOwnerCases...)
	}
	h.Uploads.Remove(ctx, paths...)
	return c.JSON(http.StatusOK, messageResp{Message: "Gig deleted successfully"})
}

// UpdateGigStatus handles PUT /gigs/:gig_id/status.
func (h *ClientHandler) UpdateGigStatus(c echo.Context) error {
	gigID, err := pathID(c, "gig_id")
	if err != nil {
		return err
	}
	var req gigStatusReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	g, err := h.Gigs.UpdateStatusByOwner(ctx, gigID, middleware.UserID(c), *req.Status)
	if err != nil {
		return translate(err, gigOwnerCases...)
	}
	return c.JSON(http.StatusOK, g)
}

// AddGigTags links tags to an owned gig.  Nothing is linked unless every
// tag exists and none is already attached.
func (h *ClientHandler) AddGigTags(c echo.Context) error {
	gigID, err := pathID(c, "gig_id")
	if err != nil {
		return err
	}
	var req gigTagsReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	err = h.Gigs.AddTagsByOwner(ctx, gigID, middleware.UserID(c), req.TagIDs)
	var missing *repository.MissingIDError
	if errors.As(err, &missing) {
		return apperr.Wrap(err, apperr.KindNotFound, fmt.Sprintf("Tag with id %d not found", missing.ID))
	}
	if err != nil {
		return translate(err, append(gigOwnerCases,
			on(repository.ErrTagAttached, apperr.KindConflict, "This tag already use"))...)
	}
	return c.JSON(http.StatusCreated, messageResp{Message: "Tags added to gig successfully"})
}

// UploadGigFile handles POST /gigs/:gig_id/files.  Ownership is checked
// before anything is written.
func (h *ClientHandler) UploadGigFile(c echo.Context) error {
	gigID, err := pathID(c, "gig_id")
	if err != nil {
		return err
	}
	uid := middleware.UserID(c)
	ctx, cancel := dbContext(c)
	defer cancel()

	// Check ownership before writing bytes to disk.
	if _, err := h.Gigs.ListFilesByOwner(ctx, gigID, uid); err != nil {
		return translate(err, gigOwnerCases...)
	}
	rel, err := h.Uploads.Save(c, "file", dirGigFiles, uid, true)
	if err != nil {
		return err
	}
	f, err := h.Gigs.AddFileByOwner(ctx, gigID, uid, rel)
	if err != nil {
		h.Uploads.Remove(ctx, rel)
		return translate(err, gigOwnerCases...)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "File uploaded successfully", "file": f})
}

// ListGigFiles handles GET /gigs/:gig_id/files.
func (h *ClientHandler) ListGigFiles(c echo.Context) error {
	gigID, err := pathID(c, "gig_id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	files, err := h.Gigs.ListFilesByOwner(ctx, gigID, middleware.UserID(c))
	if err != nil {
		return translate(err, gigOwnerCases...)
	}
	if len(files) == 0 {
		return apperr.NotFound("No files found for this gig")
	}
	return c.JSON(http.StatusOK, files)
}

// DeleteGigFile handles DELETE /gigs/:gig_id/files/:file_id.
func (h *ClientHandler) DeleteGigFile(c echo.Context) error {
	gigID, err := pathID(c, "gig_id")
	if err != nil {
		return err
	}
	fileID, err := pathID(c, "file_id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	path, err := h.Gigs.DeleteFileByOwner(ctx, gigID, fileID, middleware.UserID(c))
	if err != nil {
		return translate(err, append(gigOwnerCases,
			on(repository.ErrGigFileNotFound, apperr.KindNotFound, "File not found"))...)
	}
	h.Uploads.Remove(ctx, path)
	return c.JSON(http.StatusOK, messageResp{Message: "File deleted successfully"})
}

// SaveSeller bookmarks a seller for the caller.
func (h *ClientHandler) SaveSeller(c echo.Context) error {
	var req saveSellerReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	b, err := h.Bookmarks.SaveSeller(ctx, middleware.UserID(c), req.SellerID)
	if err != nil {
		return translate(err,
			on(repository.ErrSellerNotFound, apperr.KindNotFound, "Seller not found"),
			on(repository.ErrConflict, apperr.KindConflict, "Seller already saved"),
		)
	}
	return c.JSON(http.StatusCreated, b)
}

// ListSavedSellers returns the caller's bookmarks.
func (h *ClientHandler) ListSavedSellers(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	list, err := h.Bookmarks.ListSavedSellers(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return apperr.NotFound("No saved sellers found")
	}
	return c.JSON(http.StatusOK, list)
}

// DeleteSavedSeller removes one of the caller's bookmarks by its id.
func (h *ClientHandler) DeleteSavedSeller(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Bookmarks.DeleteSavedSeller(ctx, id, middleware.UserID(c)); err != nil {
		return translate(err, on(repository.ErrBookmarkNotFound, apperr.KindNotFound, "Saved seller not found"))
	}
	return c.JSON(http.StatusOK, messageResp{Message: "Saved seller deleted successfully"})
}
