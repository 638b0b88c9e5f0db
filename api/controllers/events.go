package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kwlc-church/kwlc-backend/api/responses"
	"github.com/kwlc-church/kwlc-backend/api/validators"
	"github.com/kwlc-church/kwlc-backend/internal/events"
	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
	"github.com/kwlc-church/kwlc-backend/pkg/logger"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
	"github.com/kwlc-church/kwlc-backend/pkg/types"
)

// EventView is the wire shape of a published event.
type EventView struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	BranchID      *uuid.UUID `json:"branch_id,omitempty"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	LivestreamURL string     `json:"livestream_url"`
	Tags          []string   `json:"tags"`
}

// CreateEventRequest is the admin payload for a new event.
type CreateEventRequest struct {
	Title         string     `json:"title" validate:"required"`
	Description   string     `json:"description"`
	BranchID      *uuid.UUID `json:"branch_id"`
	StartsAt      time.Time  `json:"starts_at" validate:"required"`
	EndsAt        *time.Time `json:"ends_at"`
	LivestreamURL string     `json:"livestream_url" validate:"omitempty,url"`
	Tags          []string   `json:"tags"`
}

// UpdateEventRequest carries partial edits; absent fields are untouched.
type UpdateEventRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	BranchID      *uuid.UUID `json:"branch_id"`
	StartsAt      *time.Time `json:"starts_at"`
	EndsAt        *time.Time `json:"ends_at"`
	LivestreamURL *string    `json:"livestream_url" validate:"omitempty,url"`
	Tags          []string   `json:"tags"`
}

func newEventView(event *models.Event) EventView {
	return EventView{
		ID:            event.ID,
		Title:         event.Title,
		Description:   event.Description,
		BranchID:      event.BranchID,
		StartsAt:      event.StartsAt,
		EndsAt:        event.EndsAt,
		LivestreamURL: event.LivestreamURL,
		Tags:          []string(event.Tags),
	}
}

func newEventViews(records []models.Event) []EventView {
	views := make([]EventView, 0, len(records))
	for i := range records {
		views = append(views, newEventView(&records[i]))
	}
	return views
}

// EventsUpcoming serves the public events page, soonest first.
func EventsUpcoming(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		page := pagination.FromRequest(r)
		branchID, err := optionalUUIDQuery(r, "branch_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		days, err := validators.ParseQueryInt(r, "days", 0, 0, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, total, err := svc.ListUpcoming(r.Context(), page, branchID, days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.ListEnvelope{
			Items:  newEventViews(records),
			Total:  total,
			Limit:  page.Limit,
			Offset: page.Offset,
		})
	}
}

// EventsGet serves one event.
func EventsGet(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		id, err := uuidParam(r, "eventID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newEventView(event))
	}
}

// AdminEventsList serves the full event list, newest first.
func AdminEventsList(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		page := pagination.FromRequest(r)
		records, total, err := svc.ListAll(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.ListEnvelope{
			Items:  newEventViews(records),
			Total:  total,
			Limit:  page.Limit,
			Offset: page.Offset,
		})
	}
}

// AdminEventsCreate adds an event.
func AdminEventsCreate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		var body CreateEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.Create(r.Context(), events.CreateEventInput{
			Title:         body.Title,
			Description:   body.Description,
			BranchID:      body.BranchID,
			StartsAt:      body.StartsAt,
			EndsAt:        body.EndsAt,
			LivestreamURL: body.LivestreamURL,
			Tags:          body.Tags,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newEventView(event))
	}
}

// AdminEventsUpdate edits an event.
func AdminEventsUpdate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		id, err := uuidParam(r, "eventID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body UpdateEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.Update(r.Context(), id, events.UpdateEventInput{
			Title:         body.Title,
			Description:   body.Description,
			BranchID:      body.BranchID,
			StartsAt:      body.StartsAt,
			EndsAt:        body.EndsAt,
			LivestreamURL: body.LivestreamURL,
			Tags:          body.Tags,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newEventView(event))
	}
}

// AdminEventsDelete removes an event.
func AdminEventsDelete(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		id, err := uuidParam(r, "eventID")
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
