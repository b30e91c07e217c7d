package aggregate

import (
	"database/sql"

	"github.com/iliyamo/freelance-marketplace/internal/model"
)

// ProjectRow is one row of seller_projects LEFT JOIN project_files.
type ProjectRow struct {
	model.Project
	FileID  sql.NullInt64  `db:"file_id"`
	FileURL sql.NullString `db:"file_url"`
}

// ProjectDetail is a project with its files.  Files is never nil.
type ProjectDetail struct {
	model.Project
	Files []model.ProjectFile `json:"files"`
}

// FoldProjects folds project rows into one ProjectDetail per project.
func FoldProjects(rows []ProjectRow) []ProjectDetail {
	type builder struct {
		project model.Project
		files   *OrderedSet[int64, model.ProjectFile]
	}
	acc := NewAccumulator[int64, *builder]()
	for _, r := range rows {
		b := acc.Upsert(r.ID, func() *builder {
			return &builder{project: r.Project, files: NewOrderedSet[int64, model.ProjectFile]()}
		})
		if r.FileID.Valid {
			b.files.Add(r.FileID.Int64, model.ProjectFile{ID: r.FileID.Int64, FileURL: r.FileURL.String, ProjectID: r.ID})
		}
	}
	out := make([]ProjectDetail, 0, acc.Len())
	for _, b := range acc.Builders() {
		out = append(out, ProjectDetail{Project: b.project, Files: b.files.Items()})
	}
	return out
}
