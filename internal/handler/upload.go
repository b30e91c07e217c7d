package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/freelance-marketplace/internal/apperr"
	"github.com/iliyamo/freelance-marketplace/internal/storage"
)

// Upload directories below the storage root.
const (
	dirSellerPhotos = "seller_photos"
	dirSellerCVs    = "seller_cvs"
	dirGigFiles     = "gig_files"
	dirProjectFiles = "project_files"
	dirCertificates = "certificates"
)

// Uploader stores multipart files and cleans them up again.
type Uploader struct {
	Store    storage.Storage
	MaxBytes int64
	Log      *zap.Logger
}

// NewUploader caps each file at maxBytes; zero disables the cap.
func NewUploader(store storage.Storage, maxBytes int64, log *zap.Logger) *Uploader {
	return &Uploader{Store: store, MaxBytes: maxBytes, Log: log}
}

// Save stores the multipart file named field under dir.  A missing
// optional file yields "" and no error.
func (u *Uploader) Save(c echo.Context, field, dir string, userID int64, required bool) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			if required {
				return "", apperr.ValidationFields("Validation failed", map[string]string{field: "This field is required"})
			}
			return "", nil
		}
		return "", apperr.Wrap(err, apperr.KindValidation, "Invalid multipart form")
	}
	if u.MaxBytes > 0 && fh.Size > u.MaxBytes {
		return "", apperr.ValidationFields("Validation failed", map[string]string{field: "File is too large"})
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ctx, cancel := dbContext(c)
	defer cancel()
	rel, err := u.Store.Save(ctx, dir, userID, fh.Filename, src)
	if errors.Is(err, storage.ErrBadFilename) {
		return "", apperr.ValidationFields("Validation failed", map[string]string{field: "Invalid file name"})
	}
	return rel, err
}

// Remove deletes stored files.  Failures are logged, not returned: the
// database row is already gone.
func (u *Uploader) Remove(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := u.Store.Delete(ctx, p); err != nil {
			u.Log.Warn("remove upload", zap.String("path", p), zap.Error(err))
		}
	}
}
