package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/freelance-marketplace/internal/model"
)

const userColumns = `id, first_name, last_name, email, username, password_hash, registered_date,
	is_seller, is_client, is_superuser, telegram_username, phone_number`

// UserRepo stores identities.
type UserRepo struct{ DB *sqlx.DB }

// NewUserRepo returns a UserRepo backed by db.
func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts an identity and returns the stored record.  The insert
// and the superuser bootstrap claim share one transaction: the first
// identity ever created flips the single bootstrap row and becomes
// superuser; any concurrent first registration blocks on that row and
// sees it already claimed.
func (r *UserRepo) Create(ctx context.Context, nu model.NewUser) (model.User, error) {
	nu.Email = strings.ToLower(strings.TrimSpace(nu.Email))
	nu.Username = strings.TrimSpace(nu.Username)

	var u model.User
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if err := checkIdentityFree(ctx, tx, nu.Username, nu.Email); err != nil {
			return err
		}
		claimed, err := claimBootstrap(ctx, tx)
		if err != nil {
			return err
		}
		super := nu.IsSuperuser || claimed

		id, err := insertID(ctx, tx,
			`INSERT INTO users (first_name, last_name, email, username, password_hash, registered_date,
				is_seller, is_client, is_superuser, telegram_username, phone_number)
			 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			nu.FirstName, nu.LastName, nu.Email, nu.Username, nu.PasswordHash, time.Now().UTC(),
			nu.IsSeller, nu.IsClient, super, nu.TelegramUsername, nu.PhoneNumber)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		return getx(ctx, tx, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	})
	return u, err
}

// CheckAvailable reports ErrUsernameExists or ErrEmailExists when either
// value is already registered.
func (r *UserRepo) CheckAvailable(ctx context.Context, username, email string) error {
	return checkIdentityFree(ctx, r.DB, strings.TrimSpace(username), strings.ToLower(strings.TrimSpace(email)))
}

func checkIdentityFree(ctx context.Context, q sqlx.ExtContext, username, email string) error {
	var n int
	if err := getx(ctx, q, &n, "SELECT COUNT(*) FROM users WHERE email = ?", email); err != nil {
		return err
	}
	if n > 0 {
		return ErrEmailExists
	}
	if err := getx(ctx, q, &n, "SELECT COUNT(*) FROM users WHERE username = ?", username); err != nil {
		return err
	}
	if n > 0 {
		return ErrUsernameExists
	}
	return nil
}

// claimBootstrap flips the superuser bootstrap row and reports whether
// this transaction was the one to flip it.  The unlocked read keeps
// registrations after the bootstrap from contending on the row.
func claimBootstrap(ctx context.Context, tx *sqlx.Tx) (bool, error) {
	var claimed bool
	if err := getx(ctx, tx, &claimed, "SELECT claimed FROM superuser_bootstrap WHERE id = 1"); err != nil {
		return false, err
	}
	if claimed {
		return false, nil
	}
	res, err := execx(ctx, tx, "UPDATE superuser_bootstrap SET claimed = ? WHERE id = 1 AND claimed = ?", true, false)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GetByUsername fetches a user for login.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := getx(ctx, r.DB, &u, "SELECT "+userColumns+" FROM users WHERE username = ?", strings.TrimSpace(username))
	return u, noRows(err, ErrUserNotFound)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := getx(ctx, r.DB, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return u, noRows(err, ErrUserNotFound)
}

// ListClients returns all identities flagged as clients, oldest first.
func (r *UserRepo) ListClients(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	err := selectx(ctx, r.DB, &out, "SELECT "+userColumns+" FROM users WHERE is_client = ? ORDER BY id", true)
	return out, err
}

// ListAll returns every identity, oldest first.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	err := selectx(ctx, r.DB, &out, "SELECT "+userColumns+" FROM users ORDER BY id")
	return out, err
}

// Delete removes an identity; the schema cascades to its seller profile,
// gigs and bookmarks.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := execx(ctx, r.DB, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affected(res, ErrUserNotFound)
}
