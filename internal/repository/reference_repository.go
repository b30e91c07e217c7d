package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/freelance-marketplace/internal/model"
)

// refTable describes one reference-data table: an id and a unique name.
type refTable struct {
	table    string
	nameCol  string
	notFound error
}

var (
	categoriesTable  = refTable{table: "categories", nameCol: "category_name", notFound: ErrCategoryNotFound}
	tagsTable        = refTable{table: "tags", nameCol: "tag_name", notFound: ErrTagNotFound}
	skillsTable      = refTable{table: "skills", nameCol: "skill_name", notFound: ErrSkillNotFound}
	occupationsTable = refTable{table: "occupations", nameCol: "occup_name", notFound: ErrOccupationNotFound}
)

// ReferenceRepo manages categories, tags, skills and occupations.
type ReferenceRepo struct{ DB *sqlx.DB }

// NewReferenceRepo returns a ReferenceRepo backed by db.
func NewReferenceRepo(db *sqlx.DB) *ReferenceRepo { return &ReferenceRepo{DB: db} }

func (r *ReferenceRepo) create(ctx context.Context, t refTable, name string) (int64, error) {
	name = strings.TrimSpace(name)
	var id int64
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var n int
		if err := getx(ctx, tx, &n, "SELECT COUNT(*) FROM "+t.table+" WHERE "+t.nameCol+" = ?", name); err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}
		var err error
		id, err = insertID(ctx, tx, "INSERT INTO "+t.table+" ("+t.nameCol+") VALUES (?)", name)
		if err != nil && isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	})
	return id, err
}

func (r *ReferenceRepo) delete(ctx context.Context, t refTable, id int64) error {
	res, err := execx(ctx, r.DB, "DELETE FROM "+t.table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affected(res, t.notFound)
}

func listRef[T any](ctx context.Context, db *sqlx.DB, t refTable) ([]T, error) {
	out := []T{}
	err := selectx(ctx, db, &out, "SELECT id, "+t.nameCol+" FROM "+t.table+" ORDER BY id")
	return out, err
}

// CreateCategory adds a category.  ErrDuplicate when the name is taken.
func (r *ReferenceRepo) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	id, err := r.create(ctx, categoriesTable, name)
	return model.Category{ID: id, Name: strings.TrimSpace(name)}, err
}

// DeleteCategory removes a category; gigs keep existing without one.
func (r *ReferenceRepo) DeleteCategory(ctx context.Context, id int64) error {
	return r.delete(ctx, categoriesTable, id)
}

// ListCategories returns every category by id.
func (r *ReferenceRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	return listRef[model.Category](ctx, r.DB, categoriesTable)
}

// CreateTag adds a tag.  ErrDuplicate when the name is taken.
func (r *ReferenceRepo) CreateTag(ctx context.Context, name string) (model.Tag, error) {
	id, err := r.create(ctx, tagsTable, name)
	return model.Tag{ID: id, Name: strings.TrimSpace(name)}, err
}

// DeleteTag removes a tag and its gig links.
func (r *ReferenceRepo) DeleteTag(ctx context.Context, id int64) error {
	return r.delete(ctx, tagsTable, id)
}

// ListTags returns every tag by id.
func (r *ReferenceRepo) ListTags(ctx context.Context) ([]model.Tag, error) {
	return listRef[model.Tag](ctx, r.DB, tagsTable)
}

// CreateSkill adds a skill.  ErrDuplicate when the name is taken.
func (r *ReferenceRepo) CreateSkill(ctx context.Context, name string) (model.Skill, error) {
	id, err := r.create(ctx, skillsTable, name)
	return model.Skill{ID: id, Name: strings.TrimSpace(name)}, err
}

// DeleteSkill removes a skill and its seller links.
func (r *ReferenceRepo) DeleteSkill(ctx context.Context, id int64) error {
	return r.delete(ctx, skillsTable, id)
}

// ListSkills returns every skill by id.
func (r *ReferenceRepo) ListSkills(ctx context.Context) ([]model.Skill, error) {
	return listRef[model.Skill](ctx, r.DB, skillsTable)
}

// CreateOccupation adds an occupation.  ErrDuplicate when the name is taken.
func (r *ReferenceRepo) CreateOccupation(ctx context.Context, name string) (model.Occupation, error) {
	id, err := r.create(ctx, occupationsTable, name)
	return model.Occupation{ID: id, Name: strings.TrimSpace(name)}, err
}

// DeleteOccupation removes an occupation and its seller links.
func (r *ReferenceRepo) DeleteOccupation(ctx context.Context, id int64) error {
	return r.delete(ctx, occupationsTable, id)
}

// ListOccupations returns every occupation by id.
func (r *ReferenceRepo) ListOccupations(ctx context.Context) ([]model.Occupation, error) {
	return listRef[model.Occupation](ctx, r.DB, occupationsTable)
}
