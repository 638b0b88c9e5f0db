package checkout

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kwlc-church/kwlc-backend/internal/cart"
	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	"github.com/kwlc-church/kwlc-backend/pkg/enums"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
)

const orderReferencePrefix = "KWLC-ORD"

// Input carries the customer details collected on the checkout form.
type Input struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
}

// Service converts a session cart into a pending order.
type Service interface {
	Checkout(ctx context.Context, sessionID string, input Input) (*models.Order, error)
}

// txRunner runs fn inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// cartAccess is the slice of the cart store checkout needs.
type cartAccess interface {
	Get(ctx context.Context, sessionID string) (cart.Cart, error)
	Mutate(ctx context.Context, sessionID string, fn func(c *cart.Cart) error) (cart.Cart, error)
}

// stockKeeper reserves catalog stock inside the checkout transaction.
type stockKeeper interface {
	DecrementStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) error
}

// orderWriter persists the order with its lines.
type orderWriter interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error)
}

// paymentWriter records the payment leg the gateway settles against.
type paymentWriter interface {
	Create(ctx context.Context, tx *gorm.DB, donation *models.Donation) (*models.Donation, error)
}

type service struct {
	tx       txRunner
	carts    cartAccess
	stock    stockKeeper
	orders   orderWriter
	payments paymentWriter
}

// NewService wires the checkout pipeline.
func NewService(tx txRunner, carts cartAccess, stock stockKeeper, orders orderWriter, payments paymentWriter) (Service, error) {
	if tx == nil || carts == nil || stock == nil || orders == nil || payments == nil {
		return nil, fmt.Errorf("checkout requires tx runner, cart store, stock keeper, order and payment writers")
	}
	return &service{
		tx:       tx,
		carts:    carts,
		stock:    stock,
		orders:   orders,
		payments: payments,
	}, nil
}

// Checkout snapshots the cart into an order, reserves stock, and opens a
// payment record under the same reference. The cart is cleared only after
// the transaction commits so a failed checkout leaves it intact.
func (s *service) Checkout(ctx context.Context, sessionID string, input Input) (*models.Order, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}

	current, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(current.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	reference, err := newOrderReference()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order reference")
	}

	order := &models.Order{
		ID:            uuid.New(),
		Reference:     reference,
		CartSessionID: sessionID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		CustomerPhone: input.CustomerPhone,
		SubtotalKobo:  current.SubtotalKobo(),
		Status:        enums.OrderStatusPendingPayment,
	}

	for _, line := range current.Lines {
		bookID, parseErr := uuid.Parse(line.ID)
		if parseErr != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cart line %q is no longer valid", line.Title))
		}
		order.Lines = append(order.Lines, models.OrderLine{
			ID:            uuid.New(),
			BookID:        bookID,
			Title:         line.Title,
			Author:        line.Author,
			UnitPriceKobo: line.PriceKobo,
			Quantity:      line.Quantity,
			LineTotalKobo: line.PriceKobo * int64(line.Quantity),
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		for _, line := range order.Lines {
			if decErr := s.stock.DecrementStock(ctx, tx, line.BookID, line.Quantity); decErr != nil {
				if errors.Is(decErr, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%q is unavailable or out of stock", line.Title))
				}
				return decErr
			}
		}

		if _, createErr := s.orders.Create(ctx, tx, order); createErr != nil {
			return createErr
		}

		payment := &models.Donation{
			ID:         uuid.New(),
			Reference:  order.Reference,
			DonorName:  order.CustomerName,
			DonorEmail: order.CustomerEmail,
			Purpose:    enums.DonationPurposeShopOrder,
			AmountKobo: order.SubtotalKobo,
			Currency:   "NGN",
			OrderID:    &order.ID,
			Status:     enums.DonationStatusPending,
		}
		_, createErr := s.payments.Create(ctx, tx, payment)
		return createErr
	})
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil {
			return nil, coded
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	if _, clearErr := s.carts.Mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.Clear()
		return nil
	}); clearErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, clearErr, "clear cart after checkout")
	}

	return order, nil
}

func newOrderReference() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", orderReferencePrefix, strings.ToUpper(hex.EncodeToString(buf))), nil
}
