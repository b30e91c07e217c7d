package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/freelance-marketplace/internal/model"
)

// BookmarkRepo stores saved sellers (client side) and saved clients
// (seller side).
type BookmarkRepo struct{ DB *sqlx.DB }

// NewBookmarkRepo returns a BookmarkRepo backed by db.
func NewBookmarkRepo(db *sqlx.DB) *BookmarkRepo { return &BookmarkRepo{DB: db} }

// SaveSeller bookmarks sellerID for userID.
func (r *BookmarkRepo) SaveSeller(ctx context.Context, userID, sellerID int64) (model.SavedSeller, error) {
	b := model.SavedSeller{UserID: userID, SellerID: sellerID}
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var n int
		if err := getx(ctx, tx, &n, "SELECT COUNT(*) FROM sellers WHERE id = ?", sellerID); err != nil {
			return err
		}
		if n == 0 {
			return ErrSellerNotFound
		}
		if err := getx(ctx, tx, &n, "SELECT COUNT(*) FROM saved_sellers WHERE user_id = ? AND seller_id = ?", userID, sellerID); err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}
		var err error
		b.ID, err = insertID(ctx, tx, "INSERT INTO saved_sellers (user_id, seller_id) VALUES (?, ?)", userID, sellerID)
		if err != nil && isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	})
	return b, err
}

// ListSavedSellers returns the sellers bookmarked by a client.
func (r *BookmarkRepo) ListSavedSellers(ctx context.Context, userID int64) ([]model.SavedSeller, error) {
	out := []model.SavedSeller{}
	err := selectx(ctx, r.DB, &out, "SELECT id, user_id, seller_id FROM saved_sellers WHERE user_id = ? ORDER BY id", userID)
	return out, err
}

// DeleteSavedSeller removes bookmark id if it belongs to userID.
func (r *BookmarkRepo) DeleteSavedSeller(ctx context.Context, id, userID int64) error {
	res, err := execx(ctx, r.DB, "DELETE FROM saved_sellers WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return affected(res, ErrBookmarkNotFound)
}

// SaveClient bookmarks a client account for sellerID.  The target must
// exist and be a client: ErrUserNotFound or ErrNotClient otherwise.
func (r *BookmarkRepo) SaveClient(ctx context.Context, sellerID, userID int64) (model.SavedClient, error) {
	b := model.SavedClient{SellerID: sellerID, UserID: userID}
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var isClient bool
		if err := getx(ctx, tx, &isClient, "SELECT is_client FROM users WHERE id = ?", userID); err != nil {
			return noRows(err, ErrUserNotFound)
		}
		if !isClient {
			return ErrNotClient
		}
		var n int
		if err := getx(ctx, tx, &n, "SELECT COUNT(*) FROM saved_clients WHERE seller_id = ? AND user_id = ?", sellerID, userID); err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}
		var err error
		b.ID, err = insertID(ctx, tx, "INSERT INTO saved_clients (seller_id, user_id) VALUES (?, ?)", sellerID, userID)
		if err != nil && isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	})
	return b, err
}

// ListSavedClients returns the clients bookmarked by a seller.
func (r *BookmarkRepo) ListSavedClients(ctx context.Context, sellerID int64) ([]model.SavedClient, error) {
	out := []model.SavedClient{}
	err := selectx(ctx, r.DB, &out, "SELECT id, seller_id, user_id FROM saved_clients WHERE seller_id = ? ORDER BY id", sellerID)
	return out, err
}

// DeleteSavedClient removes bookmark id if it belongs to sellerID.
func (r *BookmarkRepo) DeleteSavedClient(ctx context.Context, id, sellerID int64) error {
	res, err := execx(ctx, r.DB, "DELETE FROM saved_clients WHERE id = ? AND seller_id = ?", id, sellerID)
	if err != nil {
		return err
	}
	return affected(res, ErrBookmarkNotFound)
}
