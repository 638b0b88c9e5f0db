package branches

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
)

// CreateBranchInput captures the admin payload for a new branch.
type CreateBranchInput struct {
	Name         string
	Address      string
	City         string
	State        string
	Country      string
	Phone        *string
	Email        *string
	WelcomeNote  string
	ServiceTimes []string
	ImageURL     string
}

// UpdateBranchInput lists the mutable columns; nil pointers stay untouched.
type UpdateBranchInput struct {
	Name         *string
	Address      *string
	City         *string
	State        *string
	Country      *string
	Phone        *string
	Email        *string
	WelcomeNote  *string
	ServiceTimes []string
	ImageURL     *string
}

// Service exposes branch management to controllers.
type Service interface {
	Create(ctx context.Context, input CreateBranchInput) (*models.Branch, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Branch, error)
	List(ctx context.Context, page pagination.Page, state string) ([]models.Branch, int64, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateBranchInput) (*models.Branch, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds the branches service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("branches repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateBranchInput) (*models.Branch, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	country := strings.TrimSpace(input.Country)
	if country == "" {
		country = "Nigeria"
	}

	branch := &models.Branch{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Address:      strings.TrimSpace(input.Address),
		City:         strings.TrimSpace(input.City),
		State:        strings.TrimSpace(input.State),
		Country:      country,
		Phone:        input.Phone,
		Email:        input.Email,
		WelcomeNote:  input.WelcomeNote,
		ServiceTimes: pq.StringArray(input.ServiceTimes),
		ImageURL:     input.ImageURL,
	}

	created, err := s.repo.Create(ctx, branch)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create branch")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	branch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "branch not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load branch")
	}
	return branch, nil
}

func (s *service) List(ctx context.Context, page pagination.Page, state string) ([]models.Branch, int64, error) {
	branches, total, err := s.repo.List(ctx, page, state)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list branches")
	}
	return branches, total, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateBranchInput) (*models.Branch, error) {
	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		updates["address"] = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		updates["city"] = strings.TrimSpace(*input.City)
	}
	if input.State != nil {
		updates["state"] = strings.TrimSpace(*input.State)
	}
	if input.Country != nil {
		updates["country"] = strings.TrimSpace(*input.Country)
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.WelcomeNote != nil {
		updates["welcome_note"] = *input.WelcomeNote
	}
	if input.ServiceTimes != nil {
		updates["service_times"] = pq.StringArray(input.ServiceTimes)
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	branch, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "branch not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update branch")
	}
	return branch, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete branch")
	}
	return nil
}
