package model

import "time"

// Seller is the freelancer-facing extension of a user (`sellers` table).
type Seller struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	ImageURL    *string    `db:"image_url" json:"image_url"`
	Description *string    `db:"description" json:"description"`
	CVURL       *string    `db:"cv_url" json:"cv_url"`
	BirthDate   *time.Time `db:"birth_date" json:"birth_date"`
	ActiveGigs  int        `db:"active_gigs" json:"active_gigs"`
}

// SellerUpdate lists the profile fields a seller may change.  Nil means
// "leave as is".
type SellerUpdate struct {
	ImageURL    *string
	Description *string
	CVURL       *string
	BirthDate   *time.Time
}

// SellerSummary is a seller row joined with its user's public name, used
// by public seller listings.
type SellerSummary struct {
	ID          int64   `db:"id" json:"id"`
	UserID      int64   `db:"user_id" json:"user_id"`
	FirstName   string  `db:"first_name" json:"first_name"`
	LastName    string  `db:"last_name" json:"last_name"`
	Username    string  `db:"username" json:"username"`
	ImageURL    *string `db:"image_url" json:"image_url"`
	Description *string `db:"description" json:"description"`
}
