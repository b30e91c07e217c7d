package model

import "time"

// User represents an identity as stored in the `users` table.  The role
// flags are independent: one account may be both client and seller.
//
// Fields:
//  PasswordHash – bcrypt hash, never serialized.
//  IsSuperuser  – granted to the first registered identity or by the admin CLI.
type User struct {
	ID               int64     `db:"id" json:"id"`
	FirstName        string    `db:"first_name" json:"first_name"`
	LastName         string    `db:"last_name" json:"last_name"`
	Email            string    `db:"email" json:"email"`
	Username         string    `db:"username" json:"username"`
	PasswordHash     string    `db:"password_hash" json:"-"`
	RegisteredDate   time.Time `db:"registered_date" json:"registered_date"`
	IsSeller         bool      `db:"is_seller" json:"is_seller"`
	IsClient         bool      `db:"is_client" json:"is_client"`
	IsSuperuser      bool      `db:"is_superuser" json:"is_superuser"`
	TelegramUsername *string   `db:"telegram_username" json:"telegram_username"`
	PhoneNumber      *string   `db:"phone_number" json:"phone_number"`
}

// NewUser carries the fields needed to insert an identity.
type NewUser struct {
	FirstName        string
	LastName         string
	Email            string
	Username         string
	PasswordHash     string
	IsSeller         bool
	IsClient         bool
	IsSuperuser      bool // forced true; otherwise decided by the bootstrap claim
	TelegramUsername *string
	PhoneNumber      *string
}
