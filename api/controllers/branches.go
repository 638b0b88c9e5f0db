package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kwlc-church/kwlc-backend/api/responses"
	"github.com/kwlc-church/kwlc-backend/api/validators"
	"github.com/kwlc-church/kwlc-backend/internal/branches"
	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
	"github.com/kwlc-church/kwlc-backend/pkg/logger"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
	"github.com/kwlc-church/kwlc-backend/pkg/types"
)

// BranchView is the wire shape of a church location.
type BranchView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	Phone        *string   `json:"phone,omitempty"`
	Email        *string   `json:"email,omitempty"`
	WelcomeNote  string    `json:"welcome_note"`
	ServiceTimes []string  `json:"service_times"`
	ImageURL     string    `json:"image_url"`
}

// CreateBranchRequest is the admin payload for a new location.
type CreateBranchRequest struct {
	Name         string   `json:"name" validate:"required"`
	Address      string   `json:"address" validate:"required"`
	City         string   `json:"city" validate:"required"`
	State        string   `json:"state" validate:"required"`
	Country      string   `json:"country"`
	Phone        *string  `json:"phone"`
	Email        *string  `json:"email" validate:"omitempty,email"`
	WelcomeNote  string   `json:"welcome_note"`
	ServiceTimes []string `json:"service_times"`
	ImageURL     string   `json:"image_url"`
}

// UpdateBranchRequest carries partial edits; absent fields are untouched.
type UpdateBranchRequest struct {
	Name         *string  `json:"name"`
	Address      *string  `json:"address"`
	City         *string  `json:"city"`
	State        *string  `json:"state"`
	Country      *string  `json:"country"`
	Phone        *string  `json:"phone"`
	Email        *string  `json:"email" validate:"omitempty,email"`
	WelcomeNote  *string  `json:"welcome_note"`
	ServiceTimes []string `json:"service_times"`
	ImageURL     *string  `json:"image_url"`
}

func newBranchView(branch *models.Branch) BranchView {
	return BranchView{
		ID:           branch.ID,
		Name:         branch.Name,
		Address:      branch.Address,
		City:         branch.City,
		State:        branch.State,
		Country:      branch.Country,
		Phone:        branch.Phone,
		Email:        branch.Email,
		WelcomeNote:  branch.WelcomeNote,
		ServiceTimes: []string(branch.ServiceTimes),
		ImageURL:     branch.ImageURL,
	}
}

// BranchesList serves the public locations directory.
func BranchesList(svc branches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "branches service unavailable"))
			return
		}

		page := pagination.FromRequest(r)
		state := validators.SanitizeString(r.URL.Query().Get("state"), 100)

		records, total, err := svc.List(r.Context(), page, state)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]BranchView, 0, len(records))
		for i := range records {
			views = append(views, newBranchView(&records[i]))
		}

		responses.WriteSuccess(w, types.ListEnvelope{
			Items:  views,
			Total:  total,
			Limit:  page.Limit,
			Offset: page.Offset,
		})
	}
}

// BranchesGet serves one location.
func BranchesGet(svc branches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "branches service unavailable"))
			return
		}

		id, err := uuidParam(r, "branchID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		branch, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newBranchView(branch))
	}
}

// AdminBranchesCreate adds a location.
func AdminBranchesCreate(svc branches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "branches service unavailable"))
			return
		}

		var body CreateBranchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		branch, err := svc.Create(r.Context(), branches.CreateBranchInput{
			Name:         body.Name,
			Address:      body.Address,
			City:         body.City,
			State:        body.State,
			Country:      body.Country,
			Phone:        body.Phone,
			Email:        body.Email,
			WelcomeNote:  body.WelcomeNote,
			ServiceTimes: body.ServiceTimes,
			ImageURL:     body.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newBranchView(branch))
	}
}

// AdminBranchesUpdate edits a location.
func AdminBranchesUpdate(svc branches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "branches service unavailable"))
			return
		}

		id, err := uuidParam(r, "branchID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body UpdateBranchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		branch, err := svc.Update(r.Context(), id, branches.UpdateBranchInput{
			Name:         body.Name,
			Address:      body.Address,
			City:         body.City,
			State:        body.State,
			Country:      body.Country,
			Phone:        body.Phone,
			Email:        body.Email,
			WelcomeNote:  body.WelcomeNote,
			ServiceTimes: body.ServiceTimes,
			ImageURL:     body.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newBranchView(branch))
	}
}

// AdminBranchesDelete removes a location.
func AdminBranchesDelete(svc branches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "branches service unavailable"))
			return
		}

		id, err := uuidParam(r, "branchID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
