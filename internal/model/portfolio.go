package model

import "time"

// Project is a portfolio entry of a seller (`seller_projects` table).
type Project struct {
	ID           int64   `db:"id" json:"id"`
	Title        string  `db:"title" json:"title"`
	Category     string  `db:"category" json:"category"`
	Price        float64 `db:"price" json:"price"`
	DeliveryDays int     `db:"delivery_days" json:"delivery_days"`
	SellerID     int64   `db:"seller_id" json:"seller_id"`
	Description  string  `db:"description" json:"description"`
	Status       bool    `db:"status" json:"status"`
}

// ProjectFile is an uploaded attachment of a portfolio project.
type ProjectFile struct {
	ID        int64  `db:"id" json:"id"`
	FileURL   string `db:"file_url" json:"file_url"`
	ProjectID int64  `db:"seller_project_id" json:"seller_project_id"`
}

// Experience is a work-history entry.  EndDate is nil for a current job.
type Experience struct {
	ID          int64      `db:"id" json:"id"`
	CompanyName string     `db:"company_name" json:"company_name"`
	StartDate   time.Time  `db:"start_date" json:"start_date"`
	EndDate     *time.Time `db:"end_date" json:"end_date"`
	SellerID    int64      `db:"seller_id" json:"seller_id"`
	City        string     `db:"city" json:"city"`
	Country     string     `db:"country" json:"country"`
	JobTitle    string     `db:"job_title" json:"job_title"`
	Description string     `db:"description" json:"description"`
}

// Certificate points at an uploaded PDF of a seller.
type Certificate struct {
	ID       int64  `db:"id" json:"id"`
	PDFURL   string `db:"pdf_url" json:"pdf_url"`
	SellerID int64  `db:"seller_id" json:"seller_id"`
}
