package repository

import (
	"context"

	"github.com/iliyamo/freelance-marketplace/internal/aggregate"
)

// gigDetailQuery joins a gig with its category, tags and files.  Rows are
// ordered by gig, tag and file id so the fold keeps a stable order.
const gigDetailQuery = `SELECT ` + gigColumns + `,
		c.category_name,
		t.id AS tag_id, t.tag_name,
		f.id AS file_id, f.file_url
	FROM gigs g
	LEFT JOIN categories c ON c.id = g.category_id
	LEFT JOIN gig_tags gt ON gt.gig_id = g.id
	LEFT JOIN tags t ON t.id = gt.tag_id
	LEFT JOIN gig_files f ON f.gig_id = g.id
	`

const gigDetailOrder = ` ORDER BY g.id, t.id, f.id`

func (r *GigRepo) foldDetails(ctx context.Context, where string, args ...any) ([]aggregate.GigDetail, error) {
	var rows []aggregate.GigRow
	if err := selectx(ctx, r.DB, &rows, gigDetailQuery+where+gigDetailOrder, args...); err != nil {
		return nil, err
	}
	return aggregate.FoldGigs(rows), nil
}

// GetFull returns one gig with category, tags and files.
func (r *GigRepo) GetFull(ctx context.Context, id int64) (aggregate.GigDetail, error) {
	out, err := r.foldDetails(ctx, "WHERE g.id = ?", id)
	if err != nil {
		return aggregate.GigDetail{}, err
	}
	if len(out) == 0 {
		return aggregate.GigDetail{}, ErrGigNotFound
	}
	return out[0], nil
}

// SearchByTag returns every gig carrying the named tag, each with all of
// its tags.  An unknown tag yields ErrTagNotFound; a known tag on no gig
// yields an empty slice.
func (r *GigRepo) SearchByTag(ctx context.Context, tagName string) ([]aggregate.GigDetail, error) {
	var tagID int64
	if err := getx(ctx, r.DB, &tagID, "SELECT id FROM tags WHERE tag_name = ?", tagName); err != nil {
		return nil, noRows(err, ErrTagNotFound)
	}
	return r.foldDetails(ctx, "WHERE g.id IN (SELECT gig_id FROM gig_tags WHERE tag_id = ?)", tagID)
}

// SearchByCategory returns the gigs of the named category.
func (r *GigRepo) SearchByCategory(ctx context.Context, categoryName string) ([]aggregate.GigDetail, error) {
	var categoryID int64
	if err := getx(ctx, r.DB, &categoryID, "SELECT id FROM categories WHERE category_name = ?", categoryName); err != nil {
		return nil, noRows(err, ErrCategoryNotFound)
	}
	return r.foldDetails(ctx, "WHERE g.category_id = ?", categoryID)
}

// ListAll returns every gig, aggregated.
func (r *GigRepo) ListAll(ctx context.Context) ([]aggregate.GigDetail, error) {
	return r.foldDetails(ctx, "")
}
