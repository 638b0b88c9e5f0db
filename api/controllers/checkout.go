package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kwlc-church/kwlc-backend/api/middleware"
	"github.com/kwlc-church/kwlc-backend/api/responses"
	"github.com/kwlc-church/kwlc-backend/api/validators"
	"github.com/kwlc-church/kwlc-backend/internal/checkout"
	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
	"github.com/kwlc-church/kwlc-backend/pkg/logger"
)

// CheckoutRequest carries the customer details collected at checkout.
type CheckoutRequest struct {
	CustomerName  string  `json:"customer_name" validate:"required"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	CustomerPhone *string `json:"customer_phone"`
}

// OrderLineView is the wire shape of a checkout line snapshot.
type OrderLineView struct {
	BookID        uuid.UUID `json:"book_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	UnitPriceKobo int64     `json:"unit_price_kobo"`
	Quantity      int       `json:"quantity"`
	LineTotalKobo int64     `json:"line_total_kobo"`
}

// OrderView is the wire shape of a shop order.
type OrderView struct {
	ID            uuid.UUID       `json:"id"`
	Reference     string          `json:"reference"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	SubtotalKobo  int64           `json:"subtotal_kobo"`
	Status        string          `json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	Lines         []OrderLineView `json:"lines"`
	CreatedAt     time.Time       `json:"created_at"`
}

func newOrderView(order *models.Order) OrderView {
	lines := make([]OrderLineView, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLineView{
			BookID:        line.BookID,
			Title:         line.Title,
			Author:        line.Author,
			UnitPriceKobo: line.UnitPriceKobo,
			Quantity:      line.Quantity,
			LineTotalKobo: line.LineTotalKobo,
		})
	}

	return OrderView{
		ID:            order.ID,
		Reference:     order.Reference,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		SubtotalKobo:  order.SubtotalKobo,
		Status:        order.Status.String(),
		PaidAt:        order.PaidAt,
		Lines:         lines,
		CreatedAt:     order.CreatedAt,
	}
}

// Checkout converts the session cart into a pending order.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID := middleware.CartSessionFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
			return
		}

		var body CheckoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Checkout(r.Context(), sessionID, checkout.Input{
			CustomerName:  body.CustomerName,
			CustomerEmail: body.CustomerEmail,
			CustomerPhone: body.CustomerPhone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderView(order))
	}
}
