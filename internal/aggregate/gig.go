package aggregate

import (
	"database/sql"

	"github.com/iliyamo/freelance-marketplace/internal/model"
)

// GigRow is one row of gigs LEFT JOIN categories, gig_tags/tags, gig_files.
type GigRow struct {
	model.Gig
	CategoryName sql.NullString `db:"category_name"`
	TagID        sql.NullInt64  `db:"tag_id"`
	TagName      sql.NullString `db:"tag_name"`
	FileID       sql.NullInt64  `db:"file_id"`
	FileURL      sql.NullString `db:"file_url"`
}

// GigDetail is the nested gig view: the gig with its category, tags and
// files.
type GigDetail struct {
	ID          int64           `json:"id"`
	Title       string          `json:"gigs_title"`
	Duration    int             `json:"duration"`
	Price       float64         `json:"price"`
	Description string          `json:"description"`
	Status      bool            `json:"status"`
	UserID      int64           `json:"user_id"`
	Category    *model.Category `json:"category"`
	Tags        []model.Tag     `json:"tags"`
	Files       []model.GigFile `json:"files"`
}

type gigBuilder struct {
	detail GigDetail
	tags   *OrderedSet[int64, model.Tag]
	files  *OrderedSet[int64, model.GigFile]
}

// FoldGigs folds joined gig rows into one GigDetail per gig id.
func FoldGigs(rows []GigRow) []GigDetail {
	acc := NewAccumulator[int64, *gigBuilder]()
	for _, r := range rows {
		b := acc.Upsert(r.ID, func() *gigBuilder {
			d := GigDetail{
				ID:          r.ID,
				Title:       r.Title,
				Duration:    r.Duration,
				Price:       r.Price,
				Description: r.Description,
				Status:      r.Status,
				UserID:      r.UserID,
			}
			if r.CategoryID != nil && r.CategoryName.Valid {
				d.Category = &model.Category{ID: *r.CategoryID, Name: r.CategoryName.String}
			}
			return &gigBuilder{
				detail: d,
				tags:   NewOrderedSet[int64, model.Tag](),
				files:  NewOrderedSet[int64, model.GigFile](),
			}
		})
		if r.TagID.Valid {
			b.tags.Add(r.TagID.Int64, model.Tag{ID: r.TagID.Int64, Name: r.TagName.String})
		}
		if r.FileID.Valid {
			b.files.Add(r.FileID.Int64, model.GigFile{ID: r.FileID.Int64, FileURL: r.FileURL.String, GigID: r.ID})
		}
	}

	out := make([]GigDetail, 0, acc.Len())
	for _, b := range acc.Builders() {
		b.detail.Tags = b.tags.Items()
		b.detail.Files = b.files.Items()
		out = append(out, b.detail)
	}
	return out
}
