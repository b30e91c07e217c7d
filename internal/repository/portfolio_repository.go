package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/freelance-marketplace/internal/aggregate"
	"github.com/iliyamo/freelance-marketplace/internal/model"
)

const projectColumns = "p.id, p.title, p.category, p.price, p.delivery_days, p.seller_id, p.description, p.status"

// ProjectRepo stores seller portfolio projects and their files.
type ProjectRepo struct{ DB *sqlx.DB }

// NewProjectRepo returns a ProjectRepo backed by db.
func NewProjectRepo(db *sqlx.DB) *ProjectRepo { return &ProjectRepo{DB: db} }

// Create inserts a project unless the seller already has one with the
// same details.
func (r *ProjectRepo) Create(ctx context.Context, p model.Project) (model.Project, error) {
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var n int
		if err := getx(ctx, tx, &n, `SELECT COUNT(*) FROM seller_projects
			WHERE seller_id = ? AND title = ? AND category = ? AND price = ? AND delivery_days = ? AND description = ?`,
			p.SellerID, p.Title, p.Category, p.Price, p.DeliveryDays, p.Description); err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}
		var err error
		p.ID, err = insertID(ctx, tx,
			`INSERT INTO seller_projects (title, category, price, delivery_days, seller_id, description, status)
			 VALUES (?,?,?,?,?,?,?)`,
			p.Title, p.Category, p.Price, p.DeliveryDays, p.SellerID, p.Description, p.Status)
		return err
	})
	return p, err
}

// ListWithFiles returns the seller's projects, each with its files, from
// one join query.
func (r *ProjectRepo) ListWithFiles(ctx context.Context, sellerID int64) ([]aggregate.ProjectDetail, error) {
	const q = `SELECT ` + projectColumns + `, f.id AS file_id, f.file_url
	FROM seller_projects p
	LEFT JOIN project_files f ON f.seller_project_id = p.id
	WHERE p.seller_id = ?
	ORDER BY p.id, f.id`
	var rows []aggregate.ProjectRow
	if err := selectx(ctx, r.DB, &rows, q, sellerID); err != nil {
		return nil, err
	}
	return aggregate.FoldProjects(rows), nil
}

func checkProjectOwner(ctx context.Context, q sqlx.ExtContext, projectID, sellerID int64) error {
	var owner int64
	if err := getx(ctx, q, &owner, "SELECT seller_id FROM seller_projects WHERE id = ?", projectID); err != nil {
		return noRows(err, ErrProjectNotFound)
	}
	if owner != sellerID {
		return ErrForbidden
	}
	return nil
}

// DeleteByOwner removes a project and its files, returning the stored
// paths no other project file still uses.
func (r *ProjectRepo) DeleteByOwner(ctx context.Context, projectID, sellerID int64) ([]string, error) {
	var paths []string
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if err := checkProjectOwner(ctx, tx, projectID, sellerID); err != nil {
			return err
		}
		paths = []string{}
		if err := selectx(ctx, tx, &paths, "SELECT file_url FROM project_files WHERE seller_project_id = ? ORDER BY id", projectID); err != nil {
			return err
		}
		if _, err := execx(ctx, tx, "DELETE FROM seller_projects WHERE id = ?", projectID); err != nil {
			return err
		}
		var err error
		paths, err = unreferenced(ctx, tx, "project_files", "file_url", paths)
		return err
	})
	return paths, err
}

// AddFileByOwner records an uploaded file for a project of sellerID.
func (r *ProjectRepo) AddFileByOwner(ctx context.Context, projectID, sellerID int64, fileURL string) (model.ProjectFile, error) {
	f := model.ProjectFile{FileURL: fileURL, ProjectID: projectID}
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if err := checkProjectOwner(ctx, tx, projectID, sellerID); err != nil {
			return err
		}
		var err error
		f.ID, err = insertID(ctx, tx, "INSERT INTO project_files (file_url, seller_project_id) VALUES (?, ?)", fileURL, projectID)
		return err
	})
	return f, err
}

// ListFiles returns the files of every project owned by sellerID.
func (r *ProjectRepo) ListFiles(ctx context.Context, sellerID int64) ([]model.ProjectFile, error) {
	out := []model.ProjectFile{}
	err := selectx(ctx, r.DB, &out, `SELECT f.id, f.file_url, f.seller_project_id
		FROM project_files f JOIN seller_projects p ON p.id = f.seller_project_id
		WHERE p.seller_id = ? ORDER BY f.id`, sellerID)
	return out, err
}

// DeleteFileByOwner removes one project file.  It returns the stored path,
// or "" when another row still points at the same file.
func (r *ProjectRepo) DeleteFileByOwner(ctx context.Context, fileID, sellerID int64) (string, error) {
	var f model.ProjectFile
	var path string
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if err := getx(ctx, tx, &f, "SELECT id, file_url, seller_project_id FROM project_files WHERE id = ?", fileID); err != nil {
			return noRows(err, ErrProjectFileNotFound)
		}
		if err := checkProjectOwner(ctx, tx, f.ProjectID, sellerID); err != nil {
			return err
		}
		if _, err := execx(ctx, tx, "DELETE FROM project_files WHERE id = ?", fileID); err != nil {
			return err
		}
		var err error
		path, err = orphan(ctx, tx, "project_files", "file_url", f.FileURL)
		return err
	})
	return path, err
}

const experienceColumns = "id, company_name, start_date, end_date, seller_id, city, country, job_title, description"

// ExperienceRepo stores the work history of sellers.
type ExperienceRepo struct{ DB *sqlx.DB }

// NewExperienceRepo returns an ExperienceRepo backed by db.
func NewExperienceRepo(db *sqlx.DB) *ExperienceRepo { return &ExperienceRepo{DB: db} }

// Create adds an entry.  A seller holds at most MaxExperiences entries and
// never two with the same company, job title and start date.
func (r *ExperienceRepo) Create(ctx context.Context, e model.Experience) (model.Experience, error) {
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var n int
		if err := getx(ctx, tx, &n, "SELECT COUNT(*) FROM experiences WHERE seller_id = ?", e.SellerID); err != nil {
			return err
		}
		if n >= MaxExperiences {
			return ErrLimitReached
		}
		if err := getx(ctx, tx, &n, `SELECT COUNT(*) FROM experiences
			WHERE seller_id = ? AND company_name = ? AND job_title = ? AND start_date = ?`,
			e.SellerID, e.CompanyName, e.JobTitle, e.StartDate); err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}
		var err error
		e.ID, err = insertID(ctx, tx,
			`INSERT INTO experiences (company_name, start_date, end_date, seller_id, city, country, job_title, description)
			 VALUES (?,?,?,?,?,?,?,?)`,
			e.CompanyName, e.StartDate, e.EndDate, e.SellerID, e.City, e.Country, e.JobTitle, e.Description)
		return err
	})
	return e, err
}

// List returns the entries of a seller by id.
func (r *ExperienceRepo) List(ctx context.Context, sellerID int64) ([]model.Experience, error) {
	out := []model.Experience{}
	err := selectx(ctx, r.DB, &out, "SELECT "+experienceColumns+" FROM experiences WHERE seller_id = ? ORDER BY id", sellerID)
	return out, err
}

// Get returns an entry of sellerID.  Entries of other sellers are
// reported as missing.
func (r *ExperienceRepo) Get(ctx context.Context, id, sellerID int64) (model.Experience, error) {
	var e model.Experience
	err := getx(ctx, r.DB, &e, "SELECT "+experienceColumns+" FROM experiences WHERE id = ? AND seller_id = ?", id, sellerID)
	return e, noRows(err, ErrExperienceNotFound)
}

// Delete removes an entry of sellerID.  ErrExperienceNotFound when the
// entry is missing or belongs to another seller.
func (r *ExperienceRepo) Delete(ctx context.Context, id, sellerID int64) error {
	res, err := execx(ctx, r.DB, "DELETE FROM experiences WHERE id = ? AND seller_id = ?", id, sellerID)
	if err != nil {
		return err
	}
	return affected(res, ErrExperienceNotFound)
}

// CertificateRepo stores uploaded seller certificates.
type CertificateRepo struct{ DB *sqlx.DB }

// NewCertificateRepo returns a CertificateRepo backed by db.
func NewCertificateRepo(db *sqlx.DB) *CertificateRepo { return &CertificateRepo{DB: db} }

// Create records a certificate file.  At most MaxCertificates per seller.
func (r *CertificateRepo) Create(ctx context.Context, sellerID int64, pdfURL string) (model.Certificate, error) {
	c := model.Certificate{PDFURL: pdfURL, SellerID: sellerID}
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var n int
		if err := getx(ctx, tx, &n, "SELECT COUNT(*) FROM certificates WHERE seller_id = ?", sellerID); err != nil {
			return err
		}
		if n >= MaxCertificates {
			return ErrLimitReached
		}
		var err error
		c.ID, err = insertID(ctx, tx, "INSERT INTO certificates (pdf_url, seller_id) VALUES (?, ?)", pdfURL, sellerID)
		return err
	})
	return c, err
}

// Count reports how many certificates the seller holds.
func (r *CertificateRepo) Count(ctx context.Context, sellerID int64) (int, error) {
	var n int
	err := getx(ctx, r.DB, &n, "SELECT COUNT(*) FROM certificates WHERE seller_id = ?", sellerID)
	return n, err
}

// List returns the certificates of a seller by id.
func (r *CertificateRepo) List(ctx context.Context, sellerID int64) ([]model.Certificate, error) {
	out := []model.Certificate{}
	err := selectx(ctx, r.DB, &out, "SELECT id, pdf_url, seller_id FROM certificates WHERE seller_id = ? ORDER BY id", sellerID)
	return out, err
}

// Delete removes a certificate of sellerID.  It returns the stored path,
// or "" when another certificate still points at the same file.
func (r *CertificateRepo) Delete(ctx context.Context, id, sellerID int64) (string, error) {
	var c model.Certificate
	var path string
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if err := getx(ctx, tx, &c, "SELECT id, pdf_url, seller_id FROM certificates WHERE id = ? AND seller_id = ?", id, sellerID); err != nil {
			return noRows(err, ErrCertificateNotFound)
		}
		if _, err := execx(ctx, tx, "DELETE FROM certificates WHERE id = ?", id); err != nil {
			return err
		}
		var err error
		path, err = orphan(ctx, tx, "certificates", "pdf_url", c.PDFURL)
		return err
	})
	return path, err
}
