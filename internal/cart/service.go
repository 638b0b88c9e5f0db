package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
	"github.com/kwlc-church/kwlc-backend/pkg/types"
)

type bookLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
}

// Snapshot is the cart state handed to the API layer, with the derived
// totals precomputed.
type Snapshot struct {
	Lines           []Line
	ItemCount       int
	SubtotalKobo    int64
	SubtotalDisplay string
}

// Service exposes session cart operations.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Snapshot, error)
	AddItem(ctx context.Context, sessionID string, bookID uuid.UUID, quantity int) (*Snapshot, error)
	UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*Snapshot, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*Snapshot, error)
	Clear(ctx context.Context, sessionID string) (*Snapshot, error)
}

type service struct {
	store *Store
	books bookLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(store *Store, books bookLoader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if books == nil {
		return nil, fmt.Errorf("book loader required")
	}
	return &service{store: store, books: books}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Snapshot, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return snapshot(cart), nil
}

// AddItem resolves the book against the live catalog, snapshots its price
// fields onto the line, and merges it into the session cart.
func (s *service) AddItem(ctx context.Context, sessionID string, bookID uuid.UUID, quantity int) (*Snapshot, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	if bookID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "book id is required")
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}
	if !book.IsPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
	}

	item := Item{
		ID:           book.ID.String(),
		Title:        book.Title,
		Author:       book.Author,
		PriceKobo:    book.PriceKobo,
		ImageURL:     book.ImageURL,
		PriceDisplay: displayPrice(book),
	}

	cart, err := s.store.Mutate(ctx, sessionID, func(c *Cart) error {
		return c.Add(item, quantity, s.store.MaxQuantity())
	})
	if err != nil {
		return nil, err
	}
	return snapshot(cart), nil
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*Snapshot, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	if itemID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	cart, err := s.store.Mutate(ctx, sessionID, func(c *Cart) error {
		c.UpdateQuantity(itemID, quantity, s.store.MaxQuantity())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot(cart), nil
}

func (s *service) RemoveItem(ctx context.Context, sessionID, itemID string) (*Snapshot, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	if itemID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	cart, err := s.store.Mutate(ctx, sessionID, func(c *Cart) error {
		c.Remove(itemID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot(cart), nil
}

func (s *service) Clear(ctx context.Context, sessionID string) (*Snapshot, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	cart, err := s.store.Mutate(ctx, sessionID, func(c *Cart) error {
		c.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot(cart), nil
}

func snapshot(cart Cart) *Snapshot {
	subtotal := cart.SubtotalKobo()
	return &Snapshot{
		Lines:           cart.Lines,
		ItemCount:       cart.ItemCount(),
		SubtotalKobo:    subtotal,
		SubtotalDisplay: types.FormatNaira(subtotal),
	}
}

func displayPrice(book *models.Book) string {
	if book.PriceDisplay != "" {
		return book.PriceDisplay
	}
	return types.FormatNaira(book.PriceKobo)
}
