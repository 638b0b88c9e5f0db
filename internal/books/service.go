package books

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
	"github.com/kwlc-church/kwlc-backend/pkg/types"
)

// CreateBookInput captures the admin payload for a new catalog entry.
// Prices arrive in naira and are stored in kobo.
type CreateBookInput struct {
	Title       string
	Author      string
	Description string
	PriceNaira  decimal.Decimal
	ImageURL    string
	Categories  []string
	Stock       int
	IsPublished bool
}

// UpdateBookInput lists the mutable columns; nil pointers are left as-is.
type UpdateBookInput struct {
	Title       *string
	Author      *string
	Description *string
	PriceNaira  *decimal.Decimal
	ImageURL    *string
	Categories  []string
	Stock       *int
	IsPublished *bool
}

// Service exposes the book catalog to controllers.
type Service interface {
	Create(ctx context.Context, input CreateBookInput) (*models.Book, error)
	GetPublished(ctx context.Context, id uuid.UUID) (*models.Book, error)
	ListPublished(ctx context.Context, page pagination.Page, category string) ([]models.Book, int64, error)
	ListAll(ctx context.Context, page pagination.Page) ([]models.Book, int64, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateBookInput) (*models.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("books repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateBookInput) (*models.Book, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Author) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author is required")
	}
	if input.PriceNaira.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	priceKobo := types.KoboFromNaira(input.PriceNaira)
	book := &models.Book{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(input.Title),
		Author:       strings.TrimSpace(input.Author),
		Description:  input.Description,
		PriceKobo:    priceKobo,
		PriceDisplay: types.FormatNaira(priceKobo),
		ImageURL:     input.ImageURL,
		Categories:   pq.StringArray(input.Categories),
		Stock:        input.Stock,
		IsPublished:  input.IsPublished,
	}

	created, err := s.repo.Create(ctx, book)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create book")
	}
	return created, nil
}

// GetPublished loads a catalog entry visible to the public site. Unpublished
// books look missing.
func (s *service) GetPublished(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}
	if !book.IsPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
	}
	return book, nil
}

func (s *service) ListPublished(ctx context.Context, page pagination.Page, category string) ([]models.Book, int64, error) {
	books, total, err := s.repo.ListPublished(ctx, page, category)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list books")
	}
	return books, total, nil
}

func (s *service) ListAll(ctx context.Context, page pagination.Page) ([]models.Book, int64, error) {
	books, total, err := s.repo.ListAll(ctx, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list books")
	}
	return books, total, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateBookInput) (*models.Book, error) {
	updates := map[string]any{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title must not be empty")
		}
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Author != nil {
		if strings.TrimSpace(*input.Author) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "author must not be empty")
		}
		updates["author"] = strings.TrimSpace(*input.Author)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.PriceNaira != nil {
		if input.PriceNaira.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		priceKobo := types.KoboFromNaira(*input.PriceNaira)
		updates["price_kobo"] = priceKobo
		updates["price_display"] = types.FormatNaira(priceKobo)
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.Categories != nil {
		updates["categories"] = pq.StringArray(input.Categories)
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
		}
		updates["stock"] = *input.Stock
	}
	if input.IsPublished != nil {
		updates["is_published"] = *input.IsPublished
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	book, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update book")
	}
	return book, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete book")
	}
	return nil
}
