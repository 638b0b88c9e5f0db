package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kwlc-church/kwlc-backend/api/responses"
	"github.com/kwlc-church/kwlc-backend/api/validators"
	"github.com/kwlc-church/kwlc-backend/internal/ministers"
	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
	"github.com/kwlc-church/kwlc-backend/pkg/logger"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
	"github.com/kwlc-church/kwlc-backend/pkg/types"
)

// MinisterView is the wire shape of a leadership profile.
type MinisterView struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	BranchID    *uuid.UUID `json:"branch_id,omitempty"`
	Bio         string     `json:"bio"`
	PortraitURL string     `json:"portrait_url"`
	SortOrder   int        `json:"sort_order"`
}

// CreateMinisterRequest is the admin payload for a new profile.
type CreateMinisterRequest struct {
	Name        string     `json:"name" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	BranchID    *uuid.UUID `json:"branch_id"`
	Bio         string     `json:"bio"`
	PortraitURL string     `json:"portrait_url"`
	SortOrder   int        `json:"sort_order"`
}

// UpdateMinisterRequest carries partial edits; absent fields are untouched.
type UpdateMinisterRequest struct {
	Name        *string    `json:"name"`
	Title       *string    `json:"title"`
	BranchID    *uuid.UUID `json:"branch_id"`
	Bio         *string    `json:"bio"`
	PortraitURL *string    `json:"portrait_url"`
	SortOrder   *int       `json:"sort_order"`
}

func newMinisterView(minister *models.Minister) MinisterView {
	return MinisterView{
		ID:          minister.ID,
		Name:        minister.Name,
		Title:       minister.Title,
		BranchID:    minister.BranchID,
		Bio:         minister.Bio,
		PortraitURL: minister.PortraitURL,
		SortOrder:   minister.SortOrder,
	}
}

// MinistersList serves the public leadership page.
func MinistersList(svc ministers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ministers service unavailable"))
			return
		}

		page := pagination.FromRequest(r)
		branchID, err := optionalUUIDQuery(r, "branch_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, total, err := svc.List(r.Context(), page, branchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]MinisterView, 0, len(records))
		for i := range records {
			views = append(views, newMinisterView(&records[i]))
		}

		responses.WriteSuccess(w, types.ListEnvelope{
			Items:  views,
			Total:  total,
			Limit:  page.Limit,
			Offset: page.Offset,
		})
	}
}

// AdminMinistersCreate adds a leadership profile.
func AdminMinistersCreate(svc ministers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ministers service unavailable"))
			return
		}

		var body CreateMinisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		minister, err := svc.Create(r.Context(), ministers.CreateMinisterInput{
			Name:        body.Name,
			Title:       body.Title,
			BranchID:    body.BranchID,
			Bio:         body.Bio,
			PortraitURL: body.PortraitURL,
			SortOrder:   body.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newMinisterView(minister))
	}
}

// AdminMinistersUpdate edits a leadership profile.
func AdminMinistersUpdate(svc ministers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ministers service unavailable"))
			return
		}

		id, err := uuidParam(r, "ministerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body UpdateMinisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		minister, err := svc.Update(r.Context(), id, ministers.UpdateMinisterInput{
			Name:        body.Name,
			Title:       body.Title,
			BranchID:    body.BranchID,
			Bio:         body.Bio,
			PortraitURL: body.PortraitURL,
			SortOrder:   body.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newMinisterView(minister))
	}
}

// AdminMinistersDelete removes a leadership profile.
func AdminMinistersDelete(svc ministers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ministers service unavailable"))
			return
		}

		id, err := uuidParam(r, "ministerID")
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

func optionalUUIDQuery(r *http.Request, key string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key)
	}
	return &id, nil
}
