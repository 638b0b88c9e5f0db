package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
)

// CreateEventInput captures the admin payload for a new event.
type CreateEventInput struct {
	Title         string
	Description   string
	BranchID      *uuid.UUID
	StartsAt      time.Time
	EndsAt        *time.Time
	LivestreamURL string
	Tags          []string
}

// UpdateEventInput lists the mutable columns; nil pointers stay untouched.
type UpdateEventInput struct {
	Title         *string
	Description   *string
	BranchID      *uuid.UUID
	StartsAt      *time.Time
	EndsAt        *time.Time
	LivestreamURL *string
	Tags          []string
}

// Service exposes event management to controllers.
type Service interface {
	Create(ctx context.Context, input CreateEventInput) (*models.Event, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ListUpcoming(ctx context.Context, page pagination.Page, branchID *uuid.UUID, withinDays int) ([]models.Event, int64, error)
	ListAll(ctx context.Context, page pagination.Page) ([]models.Event, int64, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*models.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService builds the events service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("events repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.StartsAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "starts_at is required")
	}
	if input.EndsAt != nil && input.EndsAt.Before(input.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ends_at must not precede starts_at")
	}

	event := &models.Event{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		BranchID:      input.BranchID,
		StartsAt:      input.StartsAt,
		EndsAt:        input.EndsAt,
		LivestreamURL: input.LivestreamURL,
		Tags:          pq.StringArray(input.Tags),
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create event")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	return event, nil
}

func (s *service) ListUpcoming(ctx context.Context, page pagination.Page, branchID *uuid.UUID, withinDays int) ([]models.Event, int64, error) {
	from := s.now().UTC()
	var until *time.Time
	if withinDays > 0 {
		cutoff := from.AddDate(0, 0, withinDays)
		until = &cutoff
	}
	events, total, err := s.repo.ListUpcoming(ctx, page, from, until, branchID)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	return events, total, nil
}

func (s *service) ListAll(ctx context.Context, page pagination.Page) ([]models.Event, int64, error) {
	events, total, err := s.repo.ListAll(ctx, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	return events, total, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*models.Event, error) {
	updates := map[string]any{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title must not be empty")
		}
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.BranchID != nil {
		updates["branch_id"] = *input.BranchID
	}
	if input.StartsAt != nil {
		updates["starts_at"] = *input.StartsAt
	}
	if input.EndsAt != nil {
		updates["ends_at"] = *input.EndsAt
	}
	if input.LivestreamURL != nil {
		updates["livestream_url"] = *input.LivestreamURL
	}
	if input.Tags != nil {
		updates["tags"] = pq.StringArray(input.Tags)
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	event, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update event")
	}
	return event, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete event")
	}
	return nil
}
