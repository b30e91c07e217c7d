// Package app assembles the HTTP server from configuration and an open
// database.
package app

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/freelance-marketplace/internal/config"
	"github.com/iliyamo/freelance-marketplace/internal/handler"
	"github.com/iliyamo/freelance-marketplace/internal/middleware"
	"github.com/iliyamo/freelance-marketplace/internal/repository"
	"github.com/iliyamo/freelance-marketplace/internal/router"
	"github.com/iliyamo/freelance-marketplace/internal/storage"
	"github.com/iliyamo/freelance-marketplace/internal/utils"
	"github.com/iliyamo/freelance-marketplace/internal/validator"
)

// New wires repositories, services, handlers and middleware onto a fresh
// echo instance.
func New(cfg config.Config, db *sqlx.DB, log *zap.Logger) (*echo.Echo, error) {
	store, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	uploads := handler.NewUploader(store, cfg.UploadMaxBytes, log)
	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL())

	users := repository.NewUserRepo(db)
	sellers := repository.NewSellerRepo(db)
	gigs := repository.NewGigRepo(db)
	refs := repository.NewReferenceRepo(db)
	bookmarks := repository.NewBookmarkRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = handler.ErrorHandler(log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.AccessLog(log))
	e.Use(middleware.Metrics())
	if cfg.UploadMaxBytes > 0 {
		// multipart overhead on top of the largest accepted file
		e.Use(echomw.BodyLimit(bodyLimit(cfg.UploadMaxBytes)))
	}

	router.RegisterAll(e, router.Handlers{
		Auth:   handler.NewAuthHandler(cfg, users, sellers, tokens, uploads),
		Client: handler.NewClientHandler(gigs, bookmarks, uploads),
		Public: handler.NewPublicHandler(gigs, refs, sellers),
		Seller: handler.NewSellerHandler(
			sellers,
			repository.NewProjectRepo(db),
			repository.NewExperienceRepo(db),
			repository.NewCertificateRepo(db),
			bookmarks,
			gigs,
			uploads,
		),
		Superuser: handler.NewSuperuserHandler(cfg, users, refs, gigs, uploads),
		Users:     users,
		Tokens:    tokens,
		UploadDir: cfg.UploadDir,
	})
	return e, nil
}

// bodyLimit renders n plus 1 MiB in echo's size notation.
func bodyLimit(n int64) string {
	return strconv.FormatInt(n+1<<20, 10) + "B"
}
