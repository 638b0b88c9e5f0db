package ministers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
)

// CreateMinisterInput captures the admin payload for a new profile.
type CreateMinisterInput struct {
	Name        string
	Title       string
	BranchID    *uuid.UUID
	Bio         string
	PortraitURL string
	SortOrder   int
}

// UpdateMinisterInput lists the mutable columns; nil pointers stay untouched.
type UpdateMinisterInput struct {
	Name        *string
	Title       *string
	BranchID    *uuid.UUID
	Bio         *string
	PortraitURL *string
	SortOrder   *int
}

// Service exposes minister profile management to controllers.
type Service interface {
	Create(ctx context.Context, input CreateMinisterInput) (*models.Minister, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Minister, error)
	List(ctx context.Context, page pagination.Page, branchID *uuid.UUID) ([]models.Minister, int64, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateMinisterInput) (*models.Minister, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds the ministers service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ministers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateMinisterInput) (*models.Minister, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	minister := &models.Minister{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Title:       strings.TrimSpace(input.Title),
		BranchID:    input.BranchID,
		Bio:         input.Bio,
		PortraitURL: input.PortraitURL,
		SortOrder:   input.SortOrder,
	}

	created, err := s.repo.Create(ctx, minister)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create minister")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Minister, error) {
	minister, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "minister not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load minister")
	}
	return minister, nil
}

func (s *service) List(ctx context.Context, page pagination.Page, branchID *uuid.UUID) ([]models.Minister, int64, error) {
	ministers, total, err := s.repo.List(ctx, page, branchID)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ministers")
	}
	return ministers, total, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateMinisterInput) (*models.Minister, error) {
	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.BranchID != nil {
		updates["branch_id"] = *input.BranchID
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.PortraitURL != nil {
		updates["portrait_url"] = *input.PortraitURL
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	minister, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "minister not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update minister")
	}
	return minister, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete minister")
	}
	return nil
}
