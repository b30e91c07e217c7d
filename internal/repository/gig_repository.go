package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/freelance-marketplace/internal/model"
)

const gigColumns = "g.id, g.gigs_title, g.duration, g.price, g.description, g.status, g.category_id, g.user_id, g.created_at"

// GigRepo encapsulates all database queries related to gigs, their tag
// links and their files.  Mutations that take an owner id verify
// ownership inside the same transaction before touching children.
type GigRepo struct{ DB *sqlx.DB }

// NewGigRepo returns a GigRepo backed by db.
func NewGigRepo(db *sqlx.DB) *GigRepo { return &GigRepo{DB: db} }

// Create inserts an active gig.  The category must exist, and the owner
// may not already have an active gig with identical details.
func (r *GigRepo) Create(ctx context.Context, g model.Gig) (int64, error) {
	var id int64
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var n int
		if err := getx(ctx, tx, &n, "SELECT COUNT(*) FROM categories WHERE id = ?", g.CategoryID); err != nil {
			return err
		}
		if n == 0 {
			return ErrCategoryNotFound
		}
		if err := getx(ctx, tx, &n, `SELECT COUNT(*) FROM gigs
			WHERE user_id = ? AND gigs_title = ? AND duration = ? AND price = ? AND description = ?
			  AND category_id = ? AND status = ?`,
			g.UserID, g.Title, g.Duration, g.Price, g.Description, g.CategoryID, true); err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}
		var err error
		id, err = insertID(ctx, tx,
			`INSERT INTO gigs (gigs_title, duration, price, description, status, category_id, user_id, created_at)
			 VALUES (?,?,?,?,?,?,?,?)`,
			g.Title, g.Duration, g.Price, g.Description, true, g.CategoryID, g.UserID, g.CreatedAt.UTC())
		return err
	})
	return id, err
}

// ListByUser returns the gigs owned by userID, oldest first.
func (r *GigRepo) ListByUser(ctx context.Context, userID int64) ([]model.Gig, error) {
	out := []model.Gig{}
	err := selectx(ctx, r.DB, &out, "SELECT "+gigColumns+" FROM gigs g WHERE g.user_id = ? ORDER BY g.id", userID)
	return out, err
}

// GetByID loads the flat gig row.  ErrGigNotFound when missing.
func (r *GigRepo) GetByID(ctx context.Context, id int64) (model.Gig, error) {
	var g model.Gig
	err := getx(ctx, r.DB, &g, "SELECT "+gigColumns+" FROM gigs g WHERE g.id = ?", id)
	return g, noRows(err, ErrGigNotFound)
}

// checkGigOwner loads the gig's owner: ErrGigNotFound when the gig is
// missing, ErrForbidden when it belongs to someone else.
func checkGigOwner(ctx context.Context, q sqlx.ExtContext, gigID, ownerID int64) error {
	var dbOwnerID int64
	if err := getx(ctx, q, &dbOwnerID, "SELECT user_id FROM gigs WHERE id = ?", gigID); err != nil {
		return noRows(err, ErrGigNotFound)
	}
	if dbOwnerID != ownerID {
		return ErrForbidden
	}
	return nil
}

// DeleteByIDAndOwner removes a gig owned by ownerID.  Tag links and file
// rows cascade; the stored paths no other gig still uses are returned so
// the caller can remove the bytes.
func (r *GigRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID int64) ([]string, error) {
	var paths []string
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if err := checkGigOwner(ctx, tx, id, ownerID); err != nil {
			return err
		}
		var err error
		paths, err = deleteGig(ctx, tx, id)
		return err
	})
	return paths, err
}

// DeleteByID removes any gig regardless of owner, for moderation.
func (r *GigRepo) DeleteByID(ctx context.Context, id int64) ([]string, error) {
	var paths []string
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var err error
		paths, err = deleteGig(ctx, tx, id)
		return err
	})
	return paths, err
}

func deleteGig(ctx context.Context, tx *sqlx.Tx, id int64) ([]string, error) {
	paths := []string{}
	if err := selectx(ctx, tx, &paths, "SELECT file_url FROM gig_files WHERE gig_id = ? ORDER BY id", id); err != nil {
		return nil, err
	}
	res, err := execx(ctx, tx, "DELETE FROM gigs WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if err := affected(res, ErrGigNotFound); err != nil {
		return nil, err
	}
	return unreferenced(ctx, tx, "gig_files", "file_url", paths)
}

// UpdateStatusByOwner sets the open/closed flag of an owned gig.
func (r *GigRepo) UpdateStatusByOwner(ctx context.Context, id, ownerID int64, status bool) (model.Gig, error) {
	var g model.Gig
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if err := checkGigOwner(ctx, tx, id, ownerID); err != nil {
			return err
		}
		if _, err := execx(ctx, tx, "UPDATE gigs SET status = ? WHERE id = ?", status, id); err != nil {
			return err
		}
		return getx(ctx, tx, &g, "SELECT "+gigColumns+" FROM gigs g WHERE g.id = ?", id)
	})
	return g, err
}

// AddTagsByOwner links tags to an owned gig.  The call is all or nothing:
// an unknown tag yields ErrTagNotFound, an already linked one
// ErrTagAttached, and nothing is written in either case.
func (r *GigRepo) AddTagsByOwner(ctx context.Context, gigID, ownerID int64, tagIDs []int64) error {
	return withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if err := checkGigOwner(ctx, tx, gigID, ownerID); err != nil {
			return err
		}
		for _, tagID := range uniqueIDs(tagIDs) {
			var n int
			if err := getx(ctx, tx, &n, "SELECT COUNT(*) FROM tags WHERE id = ?", tagID); err != nil {
				return err
			}
			if n == 0 {
				return &MissingIDError{Err: ErrTagNotFound, ID: tagID}
			}
			if _, err := execx(ctx, tx, "INSERT INTO gig_tags (gig_id, tag_id) VALUES (?, ?)", gigID, tagID); err != nil {
				if isUniqueViolation(err) {
					return ErrTagAttached
				}
				return err
			}
		}
		return nil
	})
}

// AddFileByOwner records an uploaded file path for an owned gig.
func (r *GigRepo) AddFileByOwner(ctx context.Context, gigID, ownerID int64, fileURL string) (model.GigFile, error) {
	f := model.GigFile{FileURL: fileURL, GigID: gigID}
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if err := checkGigOwner(ctx, tx, gigID, ownerID); err != nil {
			return err
		}
		var err error
		f.ID, err = insertID(ctx, tx, "INSERT INTO gig_files (file_url, gig_id) VALUES (?, ?)", fileURL, gigID)
		return err
	})
	return f, err
}

// ListFilesByOwner returns the files of an owned gig.
func (r *GigRepo) ListFilesByOwner(ctx context.Context, gigID, ownerID int64) ([]model.GigFile, error) {
	if err := checkGigOwner(ctx, r.DB, gigID, ownerID); err != nil {
		return nil, err
	}
	out := []model.GigFile{}
	err := selectx(ctx, r.DB, &out, "SELECT id, file_url, gig_id FROM gig_files WHERE gig_id = ? ORDER BY id", gigID)
	return out, err
}

// DeleteFileByOwner removes one file row of an owned gig.  It returns the
// stored path, or "" when another row still points at the same file.
func (r *GigRepo) DeleteFileByOwner(ctx context.Context, gigID, fileID, ownerID int64) (string, error) {
	var f model.GigFile
	var path string
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if err := checkGigOwner(ctx, tx, gigID, ownerID); err != nil {
			return err
		}
		if err := getx(ctx, tx, &f, "SELECT id, file_url, gig_id FROM gig_files WHERE id = ? AND gig_id = ?", fileID, gigID); err != nil {
			return noRows(err, ErrGigFileNotFound)
		}
		if _, err := execx(ctx, tx, "DELETE FROM gig_files WHERE id = ?", fileID); err != nil {
			return err
		}
		var err error
		path, err = orphan(ctx, tx, "gig_files", "file_url", f.FileURL)
		return err
	})
	return path, err
}

// Contact returns the owner contact details of an active gig.
func (r *GigRepo) Contact(ctx context.Context, gigID int64) (model.GigContact, error) {
	var c model.GigContact
	err := getx(ctx, r.DB, &c, `SELECT g.id AS gig_id, u.id AS user_id, u.telegram_username, u.phone_number
		FROM gigs g JOIN users u ON u.id = g.user_id
		WHERE g.id = ? AND g.status = ?`, gigID, true)
	return c, noRows(err, ErrGigNotFound)
}
