package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/freelance-marketplace/internal/apperr"
	"github.com/iliyamo/freelance-marketplace/internal/config"
	"github.com/iliyamo/freelance-marketplace/internal/model"
	"github.com/iliyamo/freelance-marketplace/internal/repository"
	"github.com/iliyamo/freelance-marketplace/internal/utils"
)

// SuperuserHandler serves account administration, reference data and
// gig moderation.
type SuperuserHandler struct {
	Cfg     config.Config
	Users   *repository.UserRepo
	Refs    *repository.ReferenceRepo
	Gigs    *repository.GigRepo
	Uploads *Uploader
}

// NewSuperuserHandler wires the /superuser routes.
func NewSuperuserHandler(cfg config.Config, users *repository.UserRepo, refs *repository.ReferenceRepo, gigs *repository.GigRepo, uploads *Uploader) *SuperuserHandler {
	return &SuperuserHandler{Cfg: cfg, Users: users, Refs: refs, Gigs: gigs, Uploads: uploads}
}

type createClientReq struct {
	FirstName        string `json:"first_name" validate:"required,notblank,max=100"`
	LastName         string `json:"last_name" validate:"required,notblank,max=100"`
	Email            string `json:"email" validate:"required,email,max=255"`
	Username         string `json:"username" validate:"required,notblank,max=50"`
	Password         string `json:"password" validate:"required,max=72"`
	TelegramUsername string `json:"telegram_username" validate:"required,telegram"`
	PhoneNumber      string `json:"phone_number" validate:"required,uz_phone"`
}

type nameReq struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

// ListClients returns every user flagged as client.
func (h *SuperuserHandler) ListClients(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	list, err := h.Users.ListClients(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return apperr.NotFound("No clients found")
	}
	return c.JSON(http.StatusOK, list)
}

// CreateClient registers a client account on someone's behalf.  Contact
// details are required here.
func (h *SuperuserHandler) CreateClient(c echo.Context) error {
	var req createClientReq
	if err := bind(c, &req); err != nil {
		return err
	}
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return translate(err, on(utils.ErrPasswordTooLong, apperr.KindValidation, "Password is too long"))
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	u, err := h.Users.Create(ctx, model.NewUser{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Username:         req.Username,
		PasswordHash:     hash,
		IsClient:         true,
		TelegramUsername: &req.TelegramUsername,
		PhoneNumber:      &req.PhoneNumber,
	})
	if err != nil {
		return translate(err, on(repository.ErrConflict, apperr.KindConflict, "A user with this username or email already exists."))
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Client created successfully", "id": u.ID})
}

// ListUsers returns every account.
func (h *SuperuserHandler) ListUsers(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	list, err := h.Users.ListAll(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// DeleteUser removes an account with everything it owns.  Stored files
// of the removed rows stay on disk.
func (h *SuperuserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Users.Delete(ctx, id); err != nil {
		return translate(err, on(repository.ErrUserNotFound, apperr.KindNotFound, "User not found"))
	}
	return c.JSON(http.StatusOK, messageResp{Message: "User deleted successfully"})
}

// DeleteGig is the moderation delete; it ignores ownership.
func (h *SuperuserHandler) DeleteGig(c echo.Context) error {
	gigID, err := pathID(c, "gig_id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	paths, err := h.Gigs.DeleteByID(ctx, gigID)
	if err != nil {
		return translate(err, on(repository.ErrGigNotFound, apperr.KindNotFound, "Gig not found"))
	}
	h.Uploads.Remove(ctx, paths...)
	return c.JSON(http.StatusOK, messageResp{Message: "Gig deleted successfully"})
}

// ----- reference data -----

// refKind binds the create and delete operations of one reference table
// to the labels used in responses.
type refKind struct {
	label    string // "Category", "Tag", ...
	key      string // response field
	notFound error
	create   func(ctx context.Context, name string) (any, error)
	remove   func(ctx context.Context, id int64) error
}

func (h *SuperuserHandler) createRef(k refKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req nameReq
		if err := bind(c, &req); err != nil {
			return err
		}
		ctx, cancel := dbContext(c)
		defer cancel()
		v, err := k.create(ctx, req.Name)
		if err != nil {
			return translate(err, on(repository.ErrConflict, apperr.KindConflict, k.label+" already exists"))
		}
		return c.JSON(http.StatusCreated, echo.Map{"message": k.label + " successfully created", k.key: v})
	}
}

func (h *SuperuserHandler) deleteRef(k refKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		ctx, cancel := dbContext(c)
		defer cancel()
		if err := k.remove(ctx, id); err != nil {
			return translate(err, on(k.notFound, apperr.KindNotFound, k.label+" not found"))
		}
		return c.JSON(http.StatusOK, messageResp{Message: k.label + " successfully deleted"})
	}
}

func (h *SuperuserHandler) categories() refKind {
	return refKind{
		label: "Category", key: "category", notFound: repository.ErrCategoryNotFound,
		create: func(ctx context.Context, name string) (any, error) { return h.Refs.CreateCategory(ctx, name) },
		remove: h.Refs.DeleteCategory,
	}
}

func (h *SuperuserHandler) tags() refKind {
	return refKind{
		label: "Tag", key: "tag", notFound: repository.ErrTagNotFound,
		create: func(ctx context.Context, name string) (any, error) { return h.Refs.CreateTag(ctx, name) },
		remove: h.Refs.DeleteTag,
	}
}

func (h *SuperuserHandler) skills() refKind {
	return refKind{
		label: "Skill", key: "skill", notFound: repository.ErrSkillNotFound,
		create: func(ctx context.Context, name string) (any, error) { return h.Refs.CreateSkill(ctx, name) },
		remove: h.Refs.DeleteSkill,
	}
}

func (h *SuperuserHandler) occupations() refKind {
	return refKind{
		label: "Occupation", key: "occupation", notFound: repository.ErrOccupationNotFound,
		create: func(ctx context.Context, name string) (any, error) { return h.Refs.CreateOccupation(ctx, name) },
		remove: h.Refs.DeleteOccupation,
	}
}

// Reference data handlers.  Each builds a fresh echo.HandlerFunc.
func (h *SuperuserHandler) CreateCategory() echo.HandlerFunc   { return h.createRef(h.categories()) }
func (h *SuperuserHandler) DeleteCategory() echo.HandlerFunc   { return h.deleteRef(h.categories()) }
func (h *SuperuserHandler) CreateTag() echo.HandlerFunc        { return h.createRef(h.tags()) }
func (h *SuperuserHandler) DeleteTag() echo.HandlerFunc        { return h.deleteRef(h.tags()) }
func (h *SuperuserHandler) CreateSkill() echo.HandlerFunc      { return h.createRef(h.skills()) }
func (h *SuperuserHandler) DeleteSkill() echo.HandlerFunc      { return h.deleteRef(h.skills()) }
func (h *SuperuserHandler) CreateOccupation() echo.HandlerFunc { return h.createRef(h.occupations()) }
func (h *SuperuserHandler) DeleteOccupation() echo.HandlerFunc { return h.deleteRef(h.occupations()) }
