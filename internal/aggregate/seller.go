package aggregate

import (
	"database/sql"

	"github.com/iliyamo/freelance-marketplace/internal/model"
)

// SellerProfileRow is one row of sellers LEFT JOIN skills, occupations,
// experiences and certificates.
type SellerProfileRow struct {
	model.Seller
	SkillID        sql.NullInt64  `db:"skill_id"`
	SkillName      sql.NullString `db:"skill_name"`
	OccupationID   sql.NullInt64  `db:"occupation_id"`
	OccupationName sql.NullString `db:"occup_name"`
	ExpID          sql.NullInt64  `db:"exp_id"`
	ExpCompany     sql.NullString `db:"exp_company_name"`
	ExpStart       sql.NullTime   `db:"exp_start_date"`
	ExpEnd         sql.NullTime   `db:"exp_end_date"`
	ExpCity        sql.NullString `db:"exp_city"`
	ExpCountry     sql.NullString `db:"exp_country"`
	ExpJobTitle    sql.NullString `db:"exp_job_title"`
	ExpDescription sql.NullString `db:"exp_description"`
	CertID         sql.NullInt64  `db:"cert_id"`
	CertURL        sql.NullString `db:"cert_pdf_url"`
}

// SellerProfile is the nested seller view.
type SellerProfile struct {
	Seller       model.Seller        `json:"seller"`
	Skills       []model.Skill       `json:"skills"`
	Experience   []model.Experience  `json:"experience"`
	Certificates []model.Certificate `json:"certificates"`
	Occupations  []model.Occupation  `json:"occupations"`
}

type sellerBuilder struct {
	seller       model.Seller
	skills       *OrderedSet[int64, model.Skill]
	occupations  *OrderedSet[int64, model.Occupation]
	experience   *OrderedSet[int64, model.Experience]
	certificates *OrderedSet[int64, model.Certificate]
}

func newSellerBuilder(s model.Seller) *sellerBuilder {
	return &sellerBuilder{
		seller:       s,
		skills:       NewOrderedSet[int64, model.Skill](),
		occupations:  NewOrderedSet[int64, model.Occupation](),
		experience:   NewOrderedSet[int64, model.Experience](),
		certificates: NewOrderedSet[int64, model.Certificate](),
	}
}

func (b *sellerBuilder) add(r SellerProfileRow) {
	if r.SkillID.Valid {
		b.skills.Add(r.SkillID.Int64, model.Skill{ID: r.SkillID.Int64, Name: r.SkillName.String})
	}
	if r.OccupationID.Valid {
		b.occupations.Add(r.OccupationID.Int64, model.Occupation{ID: r.OccupationID.Int64, Name: r.OccupationName.String})
	}
	if r.ExpID.Valid {
		e := model.Experience{
			ID:          r.ExpID.Int64,
			CompanyName: r.ExpCompany.String,
			StartDate:   r.ExpStart.Time,
			SellerID:    r.Seller.ID,
			City:        r.ExpCity.String,
			Country:     r.ExpCountry.String,
			JobTitle:    r.ExpJobTitle.String,
			Description: r.ExpDescription.String,
		}
		if r.ExpEnd.Valid {
			end := r.ExpEnd.Time
			e.EndDate = &end
		}
		b.experience.Add(e.ID, e)
	}
	if r.CertID.Valid {
		b.certificates.Add(r.CertID.Int64, model.Certificate{ID: r.CertID.Int64, PDFURL: r.CertURL.String, SellerID: r.Seller.ID})
	}
}

func (b *sellerBuilder) build() SellerProfile {
	return SellerProfile{
		Seller:       b.seller,
		Skills:       b.skills.Items(),
		Experience:   b.experience.Items(),
		Certificates: b.certificates.Items(),
		Occupations:  b.occupations.Items(),
	}
}

// FoldSellerProfiles folds joined rows into one profile per seller id.
func FoldSellerProfiles(rows []SellerProfileRow) []SellerProfile {
	acc := NewAccumulator[int64, *sellerBuilder]()
	for _, r := range rows {
		acc.Upsert(r.Seller.ID, func() *sellerBuilder { return newSellerBuilder(r.Seller) }).add(r)
	}
	out := make([]SellerProfile, 0, acc.Len())
	for _, b := range acc.Builders() {
		out = append(out, b.build())
	}
	return out
}

// FoldSellerProfile folds the rows of a single seller.  ok is false when
// there are no rows at all.
func FoldSellerProfile(rows []SellerProfileRow) (profile SellerProfile, ok bool) {
	all := FoldSellerProfiles(rows)
	if len(all) == 0 {
		return SellerProfile{}, false
	}
	return all[0], true
}
