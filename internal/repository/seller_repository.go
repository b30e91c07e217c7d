package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/freelance-marketplace/internal/aggregate"
	"github.com/iliyamo/freelance-marketplace/internal/model"
)

// Per-seller caps on profile collections.
const (
	MaxSkills       = 3
	MaxOccupations  = 5
	MaxExperiences  = 5
	MaxCertificates = 3
)

const sellerColumns = "s.id, s.user_id, s.image_url, s.description, s.cv_url, s.birth_date, s.active_gigs"

// SellerRepo stores seller profiles and their skill and occupation links.
type SellerRepo struct{ DB *sqlx.DB }

// NewSellerRepo returns a SellerRepo backed by db.
func NewSellerRepo(db *sqlx.DB) *SellerRepo { return &SellerRepo{DB: db} }

// Create adds the seller profile of userID.  A user has at most one.
func (r *SellerRepo) Create(ctx context.Context, userID int64, upd model.SellerUpdate) (model.Seller, error) {
	var s model.Seller
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var n int
		if err := getx(ctx, tx, &n, "SELECT COUNT(*) FROM sellers WHERE user_id = ?", userID); err != nil {
			return err
		}
		if n > 0 {
			return ErrSellerExists
		}
		id, err := insertID(ctx, tx,
			"INSERT INTO sellers (user_id, image_url, description, cv_url, birth_date, active_gigs) VALUES (?,?,?,?,?,0)",
			userID, upd.ImageURL, upd.Description, upd.CVURL, upd.BirthDate)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrSellerExists
			}
			return err
		}
		return getx(ctx, tx, &s, "SELECT "+sellerColumns+" FROM sellers s WHERE s.id = ?", id)
	})
	return s, err
}

// GetByUserID returns the seller profile owned by userID.
func (r *SellerRepo) GetByUserID(ctx context.Context, userID int64) (model.Seller, error) {
	var s model.Seller
	err := getx(ctx, r.DB, &s, "SELECT "+sellerColumns+" FROM sellers s WHERE s.user_id = ?", userID)
	return s, noRows(err, ErrSellerNotFound)
}

// GetByID loads a seller by profile id.  ErrSellerNotFound when missing.
func (r *SellerRepo) GetByID(ctx context.Context, id int64) (model.Seller, error) {
	var s model.Seller
	err := getx(ctx, r.DB, &s, "SELECT "+sellerColumns+" FROM sellers s WHERE s.id = ?", id)
	return s, noRows(err, ErrSellerNotFound)
}

// Update applies the non-nil fields of upd.
func (r *SellerRepo) Update(ctx context.Context, sellerID int64, upd model.SellerUpdate) (model.Seller, error) {
	var (
		sets []string
		args []any
	)
	if upd.ImageURL != nil {
		sets, args = append(sets, "image_url = ?"), append(args, *upd.ImageURL)
	}
	if upd.Description != nil {
		sets, args = append(sets, "description = ?"), append(args, *upd.Description)
	}
	if upd.CVURL != nil {
		sets, args = append(sets, "cv_url = ?"), append(args, *upd.CVURL)
	}
	if upd.BirthDate != nil {
		sets, args = append(sets, "birth_date = ?"), append(args, *upd.BirthDate)
	}
	if len(sets) > 0 {
		args = append(args, sellerID)
		// MySQL reports 0 affected rows for a no-op update, so existence
		// is confirmed by the read below instead.
		if _, err := execx(ctx, r.DB, "UPDATE sellers SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
			return model.Seller{}, err
		}
	}
	return r.GetByID(ctx, sellerID)
}

// Profile assembles the seller with skills, occupations, experience and
// certificates from a single join query.
func (r *SellerRepo) Profile(ctx context.Context, sellerID int64) (aggregate.SellerProfile, error) {
	const q = `SELECT ` + sellerColumns + `,
		sk.id AS skill_id, sk.skill_name,
		o.id AS occupation_id, o.occup_name,
		e.id AS exp_id, e.company_name AS exp_company_name, e.start_date AS exp_start_date,
		e.end_date AS exp_end_date, e.city AS exp_city, e.country AS exp_country,
		e.job_title AS exp_job_title, e.description AS exp_description,
		c.id AS cert_id, c.pdf_url AS cert_pdf_url
	FROM sellers s
	LEFT JOIN seller_skills ss ON ss.seller_id = s.id
	LEFT JOIN skills sk ON sk.id = ss.skill_id
	LEFT JOIN seller_occupations so ON so.seller_id = s.id
	LEFT JOIN occupations o ON o.id = so.occupation_id
	LEFT JOIN experiences e ON e.seller_id = s.id
	LEFT JOIN certificates c ON c.seller_id = s.id
	WHERE s.id = ?
	ORDER BY sk.id, o.id, e.id, c.id`

	var rows []aggregate.SellerProfileRow
	if err := selectx(ctx, r.DB, &rows, q, sellerID); err != nil {
		return aggregate.SellerProfile{}, err
	}
	profile, ok := aggregate.FoldSellerProfile(rows)
	if !ok {
		return aggregate.SellerProfile{}, ErrSellerNotFound
	}
	return profile, nil
}

// ListByOccupation returns sellers having an occupation whose name
// contains term, case-insensitively.
func (r *SellerRepo) ListByOccupation(ctx context.Context, term string) ([]model.SellerSummary, error) {
	return r.listBy(ctx, `JOIN seller_occupations so ON so.seller_id = s.id
		JOIN occupations o ON o.id = so.occupation_id
		WHERE LOWER(o.occup_name) LIKE ?`, term)
}

// ListBySkill returns sellers having a skill whose name contains term.
func (r *SellerRepo) ListBySkill(ctx context.Context, term string) ([]model.SellerSummary, error) {
	return r.listBy(ctx, `JOIN seller_skills ss ON ss.seller_id = s.id
		JOIN skills sk ON sk.id = ss.skill_id
		WHERE LOWER(sk.skill_name) LIKE ?`, term)
}

func (r *SellerRepo) listBy(ctx context.Context, joinWhere, term string) ([]model.SellerSummary, error) {
	q := `SELECT DISTINCT s.id, s.user_id, u.first_name, u.last_name, u.username, s.image_url, s.description
		FROM sellers s
		JOIN users u ON u.id = s.user_id
		` + joinWhere + `
		ORDER BY s.id`
	out := []model.SellerSummary{}
	err := selectx(ctx, r.DB, &out, q, likePattern(term))
	return out, err
}

// likePattern builds a lower-cased substring pattern with LIKE
// metacharacters stripped.
func likePattern(term string) string {
	term = strings.NewReplacer("%", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(term)))
	return "%" + term + "%"
}

// ---- skills & occupations ----

// assoc describes a seller<->reference many-to-many table.
type assoc struct {
	table    string // association table
	fk       string // reference id column in the association table
	refTable string
	max      int
	notFound error
}

var (
	skillAssoc      = assoc{table: "seller_skills", fk: "skill_id", refTable: "skills", max: MaxSkills, notFound: ErrSkillNotFound}
	occupationAssoc = assoc{table: "seller_occupations", fk: "occupation_id", refTable: "occupations", max: MaxOccupations, notFound: ErrOccupationNotFound}
)

// AddSkills attaches skills by id.  Unknown ids fail the whole call with
// ErrSkillNotFound; ids already attached are skipped; exceeding MaxSkills
// yields ErrLimitReached.
func (r *SellerRepo) AddSkills(ctx context.Context, sellerID int64, ids []int64) ([]model.Skill, error) {
	if err := r.attach(ctx, skillAssoc, sellerID, ids); err != nil {
		return nil, err
	}
	return r.ListSkills(ctx, sellerID)
}

// ListSkills returns the skills of a seller by skill id.
func (r *SellerRepo) ListSkills(ctx context.Context, sellerID int64) ([]model.Skill, error) {
	out := []model.Skill{}
	err := selectx(ctx, r.DB, &out, `SELECT sk.id, sk.skill_name FROM skills sk
		JOIN seller_skills ss ON ss.skill_id = sk.id WHERE ss.seller_id = ? ORDER BY sk.id`, sellerID)
	return out, err
}

// RemoveSkill unlinks a skill.  ErrSkillNotFound when it was not linked.
func (r *SellerRepo) RemoveSkill(ctx context.Context, sellerID, skillID int64) error {
	return r.detach(ctx, skillAssoc, sellerID, skillID)
}

// AddOccupations mirrors AddSkills with MaxOccupations.
func (r *SellerRepo) AddOccupations(ctx context.Context, sellerID int64, ids []int64) ([]model.Occupation, error) {
	if err := r.attach(ctx, occupationAssoc, sellerID, ids); err != nil {
		return nil, err
	}
	return r.ListOccupations(ctx, sellerID)
}

// ListOccupations returns the occupations of a seller by id.
func (r *SellerRepo) ListOccupations(ctx context.Context, sellerID int64) ([]model.Occupation, error) {
	out := []model.Occupation{}
	err := selectx(ctx, r.DB, &out, `SELECT o.id, o.occup_name FROM occupations o
		JOIN seller_occupations so ON so.occupation_id = o.id WHERE so.seller_id = ? ORDER BY o.id`, sellerID)
	return out, err
}

// RemoveOccupation unlinks an occupation.  ErrOccupationNotFound when it
// was not linked.
func (r *SellerRepo) RemoveOccupation(ctx context.Context, sellerID, occupationID int64) error {
	return r.detach(ctx, occupationAssoc, sellerID, occupationID)
}

func (r *SellerRepo) attach(ctx context.Context, a assoc, sellerID int64, ids []int64) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	return withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		q, args, err := inExpand(tx, "SELECT COUNT(*) FROM "+a.refTable+" WHERE id IN (?)", ids)
		if err != nil {
			return err
		}
		var known int
		if err := sqlx.GetContext(ctx, tx, &known, q, args...); err != nil {
			return err
		}
		if known != len(ids) {
			return a.notFound
		}

		var current []int64
		if err := selectx(ctx, tx, &current, "SELECT "+a.fk+" FROM "+a.table+" WHERE seller_id = ?", sellerID); err != nil {
			return err
		}
		have := make(map[int64]bool, len(current))
		for _, id := range current {
			have[id] = true
		}
		var fresh []int64
		for _, id := range ids {
			if !have[id] {
				fresh = append(fresh, id)
			}
		}
		if len(current)+len(fresh) > a.max {
			return ErrLimitReached
		}
		for _, id := range fresh {
			if _, err := execx(ctx, tx, "INSERT INTO "+a.table+" (seller_id, "+a.fk+") VALUES (?, ?)", sellerID, id); err != nil {
				if isUniqueViolation(err) {
					return ErrDuplicate
				}
				return err
			}
		}
		return nil
	})
}

func (r *SellerRepo) detach(ctx context.Context, a assoc, sellerID, refID int64) error {
	res, err := execx(ctx, r.DB, "DELETE FROM "+a.table+" WHERE seller_id = ? AND "+a.fk+" = ?", sellerID, refID)
	if err != nil {
		return err
	}
	return affected(res, a.notFound)
}

// uniqueIDs drops duplicates while keeping order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
