package model

// Reference data maintained by superusers.

// Category groups gigs; deleting one leaves its gigs uncategorised.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"category_name" json:"category_name"`
}

// Tag is a free label attached to gigs through gig_tags.
type Tag struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"tag_name" json:"tag_name"`
}

// Skill is attached to seller profiles, at most three per seller.
type Skill struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"skill_name" json:"skill_name"`
}

// Occupation is attached to seller profiles, at most five per seller.
type Occupation struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"occup_name" json:"occup_name"`
}
