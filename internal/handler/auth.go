package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/freelance-marketplace/internal/apperr"
	"github.com/iliyamo/freelance-marketplace/internal/config"
	"github.com/iliyamo/freelance-marketplace/internal/middleware"
	"github.com/iliyamo/freelance-marketplace/internal/model"
	"github.com/iliyamo/freelance-marketplace/internal/repository"
	"github.com/iliyamo/freelance-marketplace/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg     config.Config
	Users   *repository.UserRepo
	Sellers *repository.SellerRepo
	Tokens  *utils.TokenService
	Uploads *Uploader
}

// NewAuthHandler wires the /auth routes.
func NewAuthHandler(cfg config.Config, users *repository.UserRepo, sellers *repository.SellerRepo, tokens *utils.TokenService, uploads *Uploader) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Sellers: sellers, Tokens: tokens, Uploads: uploads}
}

// ----- DTOs -----

type registerReq struct {
	FirstName        string  `json:"first_name" validate:"required,notblank,max=100"`
	LastName         string  `json:"last_name" validate:"required,notblank,max=100"`
	Email            string  `json:"email" validate:"required,email,max=255"`
	Username         string  `json:"username" validate:"required,notblank,max=50"`
	Password1        string  `json:"password1" validate:"required,max=72"`
	Password2        string  `json:"password2" validate:"required,max=72"`
	IsSeller         bool    `json:"is_seller"`
	IsClient         bool    `json:"is_client"`
	TelegramUsername *string `json:"telegram_username" validate:"omitempty,telegram"`
	PhoneNumber      *string `json:"phone_number" validate:"omitempty,uz_phone"`
}

type registerResp struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	ID          int64  `json:"id"`
	IsSuperuser bool   `json:"is_superuser"`
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

type refreshReq struct {
	Refresh string `json:"refresh" validate:"required"`
}

var identityTaken = []errCase{
	on(repository.ErrEmailExists, apperr.KindConflict, "Email already exists!"),
	on(repository.ErrUsernameExists, apperr.KindConflict, "Username already exists!"),
	on(repository.ErrConflict, apperr.KindConflict, "A user with this username or email already exists."),
}

// Register creates an identity.  Shape errors are reported first, then a
// taken email or username, then a password mismatch.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Users.CheckAvailable(ctx, req.Username, req.Email); err != nil {
		return translate(err, identityTaken...)
	}
	if req.Password1 != req.Password2 {
		return apperr.Validation("Passwords are not the same !")
	}
	hash, err := utils.HashPassword(req.Password1, h.Cfg.BcryptCost)
	if err != nil {
		return translate(err, on(utils.ErrPasswordTooLong, apperr.KindValidation, "Password is too long"))
	}

	u, err := h.Users.Create(ctx, model.NewUser{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Username:         req.Username,
		PasswordHash:     hash,
		IsSeller:         req.IsSeller,
		IsClient:         req.IsClient,
		TelegramUsername: req.TelegramUsername,
		PhoneNumber:      req.PhoneNumber,
	})
	if err != nil {
		return translate(err, identityTaken...)
	}
	return c.JSON(http.StatusCreated, registerResp{
		Success:     true,
		Message:     "Account created successfully",
		ID:          u.ID,
		IsSuperuser: u.IsSuperuser,
	})
}

// Login checks credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	const badCredentials = "Username or password is not correct!"
	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		return translate(err, on(repository.ErrUserNotFound, apperr.KindUnauthenticated, badCredentials))
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return apperr.Unauthenticated(badCredentials)
	}
	pair, err := h.Tokens.Issue(u.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pair)
}

// Refresh exchanges a refresh token for a new pair.  Access tokens are
// refused.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return err
	}
	claims, err := h.Tokens.VerifyRefresh(req.Refresh)
	if err != nil {
		if errors.Is(err, utils.ErrExpiredToken) {
			return apperr.Wrap(err, apperr.KindUnauthenticated, "Token is expired!")
		}
		return apperr.Wrap(err, apperr.KindUnauthenticated, "Token invalid!")
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	if _, err := h.Users.GetByID(ctx, claims.UserID); err != nil {
		return translate(err, on(repository.ErrUserNotFound, apperr.KindNotFound, "User not found"))
	}
	pair, err := h.Tokens.Issue(claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pair)
}

// CurrentUser returns the caller's identity.  Requires LoadUser.
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return apperr.Unauthenticated("Token invalid!")
	}
	return c.JSON(http.StatusOK, u)
}

// AddSeller creates the caller's seller profile from a multipart form
// with description, birth_date and optional image and cv files.
func (h *AuthHandler) AddSeller(c echo.Context) error {
	uid := middleware.UserID(c)
	birth, err := optionalDate("birth_date", c.FormValue("birth_date"))
	if err != nil {
		return err
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	if _, err := h.Sellers.GetByUserID(ctx, uid); err == nil {
		return apperr.Conflict("Seller already exists")
	} else if !errors.Is(err, repository.ErrSellerNotFound) {
		return err
	}

	image, err := h.Uploads.Save(c, "image", dirSellerPhotos, uid, false)
	if err != nil {
		return err
	}
	cv, err := h.Uploads.Save(c, "cv", dirSellerCVs, uid, false)
	if err != nil {
		h.Uploads.Remove(ctx, image)
		return err
	}

	s, err := h.Sellers.Create(ctx, uid, model.SellerUpdate{
		ImageURL:    optionalString(image),
		Description: optionalString(c.FormValue("description")),
		CVURL:       optionalString(cv),
		BirthDate:   birth,
	})
	if err != nil {
		h.Uploads.Remove(ctx, image, cv)
		return translate(err, on(repository.ErrSellerExists, apperr.KindConflict, "Seller already exists"))
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Seller added successfully", "seller": s})
}
