package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/freelance-marketplace/internal/apperr"
	"github.com/iliyamo/freelance-marketplace/internal/middleware"
	"github.com/iliyamo/freelance-marketplace/internal/model"
	"github.com/iliyamo/freelance-marketplace/internal/repository"
)

const ctxSeller = "seller"

// SellerHandler serves the seller's own profile, portfolio and bookmarks.
// Every route runs behind RequireProfile.
type SellerHandler struct {
	Sellers      *repository.SellerRepo
	Projects     *repository.ProjectRepo
	Experiences  *repository.ExperienceRepo
	Certificates *repository.CertificateRepo
	Bookmarks    *repository.BookmarkRepo
	Gigs         *repository.GigRepo
	Uploads      *Uploader
}

// NewSellerHandler wires the /seller routes to their repositories.
func NewSellerHandler(
	sellers *repository.SellerRepo,
	projects *repository.ProjectRepo,
	experiences *repository.ExperienceRepo,
	certificates *repository.CertificateRepo,
	bookmarks *repository.BookmarkRepo,
	gigs *repository.GigRepo,
	uploads *Uploader,
) *SellerHandler {
	return &SellerHandler{
		Sellers:      sellers,
		Projects:     projects,
		Experiences:  experiences,
		Certificates: certificates,
		Bookmarks:    bookmarks,
		Gigs:         gigs,
		Uploads:      uploads,
	}
}

// RequireProfile loads the caller's seller row into the context; callers
// without one get NotFound.
func (h *SellerHandler) RequireProfile(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := dbContext(c)
		defer cancel()
		s, err := h.Sellers.GetByUserID(ctx, middleware.UserID(c))
		if err != nil {
			return translate(err, on(repository.ErrSellerNotFound, apperr.KindNotFound,
				fmt.Sprintf("Seller not found for user_id %d", middleware.UserID(c))))
		}
		c.Set(ctxSeller, s)
		return next(c)
	}
}

func currentSeller(c echo.Context) model.Seller {
	s, _ := c.Get(ctxSeller).(model.Seller)
	return s
}

// ----- profile -----

// GetProfile returns the caller's nested profile.
func (h *SellerHandler) GetProfile(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	p, err := h.Sellers.Profile(ctx, currentSeller(c).ID)
	if err != nil {
		return translate(err, on(repository.ErrSellerNotFound, apperr.KindNotFound, "Seller not found"))
	}
	return c.JSON(http.StatusOK, p)
}

// UpdateProfile applies the multipart fields that are present.  Replaced
// files are removed from storage.
func (h *SellerHandler) UpdateProfile(c echo.Context) error {
	s := currentSeller(c)
	birth, err := optionalDate("birth_date", c.FormValue("birth_date"))
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	image, err := h.Uploads.Save(c, "image", dirSellerPhotos, s.UserID, false)
	if err != nil {
		return err
	}
	cv, err := h.Uploads.Save(c, "cv", dirSellerCVs, s.UserID, false)
	if err != nil {
		h.Uploads.Remove(ctx, image)
		return err
	}

	updated, err := h.Sellers.Update(ctx, s.ID, model.SellerUpdate{
		ImageURL:    optionalString(image),
		Description: optionalString(c.FormValue("description")),
		CVURL:       optionalString(cv),
		BirthDate:   birth,
	})
	if err != nil {
		h.Uploads.Remove(ctx, fresh(s.ImageURL, image), fresh(s.CVURL, cv))
		return translate(err, on(repository.ErrSellerNotFound, apperr.KindNotFound, "Seller not found"))
	}
	h.Uploads.Remove(ctx, replaced(s.ImageURL, image), replaced(s.CVURL, cv))
	return c.JSON(http.StatusOK, echo.Map{"message": "Seller profile updated successfully", "seller": updated})
}

// replaced returns the old path when a different new one superseded it.
func replaced(old *string, next string) string {
	if old == nil || next == "" || *old == next {
		return ""
	}
	return *old
}

// fresh returns a just-stored path unless the profile already used it.
func fresh(old *string, next string) string {
	if old != nil && *old == next {
		return ""
	}
	return next
}

// ----- projects -----

type projectReq struct {
	Title        string  `json:"title" validate:"required,notblank,max=255"`
	Category     string  `json:"category" validate:"required,notblank,max=100"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	DeliveryDays int     `json:"delivery_days" validate:"required,gt=0"`
	Description  string  `json:"description" validate:"required,notblank"`
	Status       bool    `json:"status"`
}

var projectOwnerCases = []errCase{
	on(repository.ErrProjectNotFound, apperr.KindNotFound, "Project not found"),
	on(repository.ErrForbidden, apperr.KindForbidden, "You are not allowed to modify this project"),
}

// CreateProject adds a portfolio project.
func (h *SellerHandler) CreateProject(c echo.Context) error {
	var req projectReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	p, err := h.Projects.Create(ctx, model.Project{
		Title:        req.Title,
		Category:     req.Category,
		Price:        req.Price,
		DeliveryDays: req.DeliveryDays,
		SellerID:     currentSeller(c).ID,
		Description:  req.Description,
		Status:       req.Status,
	})
	if err != nil {
		return translate(err, on(repository.ErrDuplicate, apperr.KindConflict, "You have already created this project"))
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Project successfully added", "project": p})
}

// ListProjects returns the caller's projects with their files.
func (h *SellerHandler) ListProjects(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	list, err := h.Projects.ListWithFiles(ctx, currentSeller(c).ID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return apperr.NotFound("No projects found for this user")
	}
	return c.JSON(http.StatusOK, list)
}

// DeleteProject removes a project with its files.
func (h *SellerHandler) DeleteProject(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	paths, err := h.Projects.DeleteByOwner(ctx, id, currentSeller(c).ID)
	if err != nil {
		return translate(err, projectOwnerCases...)
	}
	h.Uploads.Remove(ctx, paths...)
	return c.JSON(http.StatusOK, messageResp{Message: "Project deleted successfully"})
}

// AddProjectFile uploads an attachment to an owned project.
func (h *SellerHandler) AddProjectFile(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s := currentSeller(c)
	rel, err := h.Uploads.Save(c, "file", dirProjectFiles, s.UserID, true)
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	f, err := h.Projects.AddFileByOwner(ctx, id, s.ID, rel)
	if err != nil {
		h.Uploads.Remove(ctx, rel)
		return translate(err, projectOwnerCases...)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "File successfully added to the project", "file": f})
}

// ListProjectFiles returns the files of every owned project.
func (h *SellerHandler) ListProjectFiles(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	files, err := h.Projects.ListFiles(ctx, currentSeller(c).ID)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return apperr.NotFound("No project files found")
	}
	return c.JSON(http.StatusOK, files)
}

// DeleteProjectFile removes one attachment of an owned project.
func (h *SellerHandler) DeleteProjectFile(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	path, err := h.Projects.DeleteFileByOwner(ctx, id, currentSeller(c).ID)
	if err != nil {
		return translate(err, append(projectOwnerCases,
			on(repository.ErrProjectFileNotFound, apperr.KindNotFound, "Project file not found"))...)
	}
	h.Uploads.Remove(ctx, path)
	return c.JSON(http.StatusOK, messageResp{Message: "Project file deleted successfully"})
}

// ----- certificates -----

const msgCertificateLimit = "Certificate limit reached"

// AddCertificate stores an uploaded certificate.  The cap is checked
// before the upload is written and again on insert.
func (h *SellerHandler) AddCertificate(c echo.Context) error {
	s := currentSeller(c)
	ctx, cancel := dbContext(c)
	defer cancel()

	n, err := h.Certificates.Count(ctx, s.ID)
	if err != nil {
		return err
	}
	if n >= repository.MaxCertificates {
		return apperr.Forbidden(msgCertificateLimit)
	}
	rel, err := h.Uploads.Save(c, "file", dirCertificates, s.UserID, true)
	if err != nil {
		return err
	}
	cert, err := h.Certificates.Create(ctx, s.ID, rel)
	if err != nil {
		h.Uploads.Remove(ctx, rel)
		return translate(err, on(repository.ErrLimitReached, apperr.KindForbidden, msgCertificateLimit))
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Certificate successfully added to the seller", "certificate": cert})
}

// ListCertificates returns the caller's certificates, possibly none.
func (h *SellerHandler) ListCertificates(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	list, err := h.Certificates.List(ctx, currentSeller(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// DeleteCertificate removes a certificate of the caller.
func (h *SellerHandler) DeleteCertificate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	path, err := h.Certificates.Delete(ctx, id, currentSeller(c).ID)
	if err != nil {
		return translate(err, on(repository.ErrCertificateNotFound, apperr.KindNotFound, "Certificate not found"))
	}
	h.Uploads.Remove(ctx, path)
	return c.JSON(http.StatusOK, messageResp{Message: "Certificate deleted successfully"})
}

// ----- experiences -----

type experienceReq struct {
	CompanyName string `json:"company_name" validate:"required,notblank,max=255"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date"`
	City        string `json:"city" validate:"required,notblank,max=100"`
	Country     string `json:"country" validate:"required,notblank,max=100"`
	JobTitle    string `json:"job_title" validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"required,notblank"`
}

// AddExperience records a work-history entry; end_date may be omitted.
func (h *SellerHandler) AddExperience(c echo.Context) error {
	var req experienceReq
	if err := bind(c, &req); err != nil {
		return err
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return err
	}
	end, err := optionalDate("end_date", req.EndDate)
	if err != nil {
		return err
	}
	if end != nil && end.Before(start) {
		return apperr.ValidationFields("Validation failed", map[string]string{"end_date": "Must not be before start_date"})
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	e, err := h.Experiences.Create(ctx, model.Experience{
		CompanyName: req.CompanyName,
		StartDate:   start,
		EndDate:     end,
		SellerID:    currentSeller(c).ID,
		City:        req.City,
		Country:     req.Country,
		JobTitle:    req.JobTitle,
		Description: req.Description,
	})
	if err != nil {
		return translate(err,
			on(repository.ErrLimitReached, apperr.KindForbidden, "Experience limit reached"),
			on(repository.ErrDuplicate, apperr.KindConflict, "You have already created this experience"),
		)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Experience successfully added to the seller", "experience": e})
}

// ListExperiences returns the caller's work history.
func (h *SellerHandler) ListExperiences(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	list, err := h.Experiences.List(ctx, currentSeller(c).ID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return apperr.NotFound("No experiences found for this user")
	}
	return c.JSON(http.StatusOK, list)
}

// GetExperience returns one entry of the caller.
func (h *SellerHandler) GetExperience(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	e, err := h.Experiences.Get(ctx, id, currentSeller(c).ID)
	if err != nil {
		return translate(err, on(repository.ErrExperienceNotFound, apperr.KindNotFound, "Experience not found"))
	}
	return c.JSON(http.StatusOK, e)
}

// DeleteExperience removes one entry of the caller.
func (h *SellerHandler) DeleteExperience(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Experiences.Delete(ctx, id, currentSeller(c).ID); err != nil {
		return translate(err, on(repository.ErrExperienceNotFound, apperr.KindNotFound, "Experience not found"))
	}
	return c.JSON(http.StatusOK, messageResp{Message: "Experience deleted successfully"})
}

// ----- skills & occupations -----

type skillsReq struct {
	SkillIDs []int64 `json:"skill_ids" validate:"required,min=1,dive,gt=0"`
}

type occupationsReq struct {
	OccupationIDs []int64 `json:"occupation_ids" validate:"required,min=1,dive,gt=0"`
}

// AddSkills links skills by id, all or nothing.
func (h *SellerHandler) AddSkills(c echo.Context) error {
	var req skillsReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	skills, err := h.Sellers.AddSkills(ctx, currentSeller(c).ID, req.SkillIDs)
	if err != nil {
		return translate(err,
			on(repository.ErrSkillNotFound, apperr.KindNotFound, "Skill not found"),
			on(repository.ErrLimitReached, apperr.KindValidation, fmt.Sprintf("Skill limit is %d", repository.MaxSkills)),
		)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Skills added to seller profile successfully", "skills": skills})
}

// ListSkills returns the caller's skills, possibly none.
func (h *SellerHandler) ListSkills(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	skills, err := h.Sellers.ListSkills(ctx, currentSeller(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, skills)
}

// RemoveSkill unlinks one skill.
func (h *SellerHandler) RemoveSkill(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Sellers.RemoveSkill(ctx, currentSeller(c).ID, id); err != nil {
		return translate(err, on(repository.ErrSkillNotFound, apperr.KindNotFound, "Skill not found in seller profile"))
	}
	return c.JSON(http.StatusOK, messageResp{Message: "Skill removed from seller profile successfully"})
}

// AddOccupations links occupations by id, all or nothing.
func (h *SellerHandler) AddOccupations(c echo.Context) error {
	var req occupationsReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	occs, err := h.Sellers.AddOccupations(ctx, currentSeller(c).ID, req.OccupationIDs)
	if err != nil {
		return translate(err,
			on(repository.ErrOccupationNotFound, apperr.KindNotFound, "Occupation not found"),
			on(repository.ErrLimitReached, apperr.KindValidation, fmt.Sprintf("Occupation limit is %d", repository.MaxOccupations)),
		)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Occupations added to seller profile successfully", "occupations": occs})
}

// ListOccupations returns the caller's occupations, possibly none.
func (h *SellerHandler) ListOccupations(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	occs, err := h.Sellers.ListOccupations(ctx, currentSeller(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, occs)
}

// RemoveOccupation unlinks one occupation.
func (h *SellerHandler) RemoveOccupation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Sellers.RemoveOccupation(ctx, currentSeller(c).ID, id); err != nil {
		return translate(err, on(repository.ErrOccupationNotFound, apperr.KindNotFound, "Occupation not found in seller profile"))
	}
	return c.JSON(http.StatusOK, messageResp{Message: "Occupation removed from seller profile successfully"})
}

// ----- saved clients -----

type saveClientReq struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

// SaveClient bookmarks a client user for the caller.
func (h *SellerHandler) SaveClient(c echo.Context) error {
	var req saveClientReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	b, err := h.Bookmarks.SaveClient(ctx, currentSeller(c).ID, req.UserID)
	if err != nil {
		return translate(err,
			on(repository.ErrUserNotFound, apperr.KindNotFound, "User not found"),
			on(repository.ErrNotClient, apperr.KindValidation, "User is not a client"),
			on(repository.ErrConflict, apperr.KindConflict, "Client already saved"),
		)
	}
	return c.JSON(http.StatusCreated, b)
}

// ListSavedClients returns the caller's client bookmarks.
func (h *SellerHandler) ListSavedClients(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	list, err := h.Bookmarks.ListSavedClients(ctx, currentSeller(c).ID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return apperr.NotFound("No saved clients found")
	}
	return c.JSON(http.StatusOK, list)
}

// DeleteSavedClient removes one client bookmark by its id.
func (h *SellerHandler) DeleteSavedClient(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Bookmarks.DeleteSavedClient(ctx, id, currentSeller(c).ID); err != nil {
		return translate(err, on(repository.ErrBookmarkNotFound, apperr.KindNotFound, "Saved client not found"))
	}
	return c.JSON(http.StatusOK, messageResp{Message: "Saved client deleted successfully"})
}

// ApplyGig hands the seller the contact details of an active gig's owner.
func (h *SellerHandler) ApplyGig(c echo.Context) error {
	gigID, err := pathID(c, "gig_id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	contact, err := h.Gigs.Contact(ctx, gigID)
	if errors.Is(err, repository.ErrGigNotFound) {
		return apperr.Wrap(err, apperr.KindNotFound, "Gig not found or not active")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contact)
}
