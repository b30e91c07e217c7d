package model

import "time"

// Gig is a job posting owned by a client (`gigs` table).  CategoryID is
// nil once the category has been deleted.
type Gig struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"gigs_title" json:"gigs_title"`
	Duration    int       `db:"duration" json:"duration"`
	Price       float64   `db:"price" json:"price"`
	Description string    `db:"description" json:"description"`
	Status      bool      `db:"status" json:"status"`
	CategoryID  *int64    `db:"category_id" json:"category_id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// GigFile is an attachment of a gig (`gig_files` table).
type GigFile struct {
	ID      int64  `db:"id" json:"id"`
	FileURL string `db:"file_url" json:"file_url"`
	GigID   int64  `db:"gig_id" json:"gig_id"`
}

// GigContact is what a seller sees when applying to a gig.
type GigContact struct {
	GigID            int64   `db:"gig_id" json:"gig_id"`
	UserID           int64   `db:"user_id" json:"user_id"`
	TelegramUsername *string `db:"telegram_username" json:"telegram_username"`
	PhoneNumber      *string `db:"phone_number" json:"phone_number"`
}
