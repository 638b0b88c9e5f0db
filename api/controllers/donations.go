package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kwlc-church/kwlc-backend/api/responses"
	"github.com/kwlc-church/kwlc-backend/api/validators"
	"github.com/kwlc-church/kwlc-backend/internal/donations"
	"github.com/kwlc-church/kwlc-backend/internal/orders"
	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	"github.com/kwlc-church/kwlc-backend/pkg/enums"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
	"github.com/kwlc-church/kwlc-backend/pkg/logger"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
	"github.com/kwlc-church/kwlc-backend/pkg/types"
)

// DonationView is the wire shape of a giving record.
type DonationView struct {
	ID          uuid.UUID  `json:"id"`
	Reference   string     `json:"reference"`
	DonorName   string     `json:"donor_name"`
	Purpose     string     `json:"purpose"`
	AmountKobo  int64      `json:"amount_kobo"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	FailedAt    *time.Time `json:"failed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateDonationRequest is the public giving payload. Amounts are in naira.
type CreateDonationRequest struct {
	DonorName   string          `json:"donor_name" validate:"required"`
	DonorEmail  string          `json:"donor_email" validate:"required,email"`
	Purpose     string          `json:"purpose" validate:"required"`
	AmountNaira decimal.Decimal `json:"amount_naira" validate:"required"`
	BranchID    *uuid.UUID      `json:"branch_id"`
}

func newDonationView(donation *models.Donation) DonationView {
	return DonationView{
		ID:          donation.ID,
		Reference:   donation.Reference,
		DonorName:   donation.DonorName,
		Purpose:     donation.Purpose.String(),
		AmountKobo:  donation.AmountKobo,
		Currency:    donation.Currency,
		Status:      donation.Status.String(),
		ConfirmedAt: donation.ConfirmedAt,
		FailedAt:    donation.FailedAt,
		CreatedAt:   donation.CreatedAt,
	}
}

// DonationsCreate records a giving intent and hands back the gateway reference.
func DonationsCreate(svc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "donations service unavailable"))
			return
		}

		var body CreateDonationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		purpose, err := enums.ParseDonationPurpose(body.Purpose)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown donation purpose"))
			return
		}

		donation, err := svc.Create(r.Context(), donations.CreateDonationInput{
			DonorName:   body.DonorName,
			DonorEmail:  body.DonorEmail,
			Purpose:     purpose,
			AmountNaira: body.AmountNaira,
			BranchID:    body.BranchID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newDonationView(donation))
	}
}

// DonationsStatus lets the front-end poll a payment by reference.
func DonationsStatus(svc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "donations service unavailable"))
			return
		}

		reference := chi.URLParam(r, "reference")
		donation, err := svc.StatusByReference(r.Context(), reference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"reference": donation.Reference,
			"status":    donation.Status.String(),
		})
	}
}

// AdminDonationsList serves the back-office giving ledger.
func AdminDonationsList(svc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "donations service unavailable"))
			return
		}

		page := pagination.FromRequest(r)

		var status enums.DonationStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := enums.ParseDonationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown donation status"))
				return
			}
			status = parsed
		}

		records, total, err := svc.List(r.Context(), page, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]DonationView, 0, len(records))
		for i := range records {
			views = append(views, newDonationView(&records[i]))
		}

		responses.WriteSuccess(w, types.ListEnvelope{
			Items:  views,
			Total:  total,
			Limit:  page.Limit,
			Offset: page.Offset,
		})
	}
}

// AdminDonationsConfirm settles a pending payment. Shop order payments also
// flip their order to paid under the same reference.
func AdminDonationsConfirm(svc donations.Service, orderSvc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "donations service unavailable"))
			return
		}

		reference := chi.URLParam(r, "reference")
		donation, err := svc.Confirm(r.Context(), reference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if donation.Purpose == enums.DonationPurposeShopOrder && orderSvc != nil {
			if _, err := orderSvc.MarkPaid(r.Context(), donation.Reference); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, newDonationView(donation))
	}
}

// AdminDonationsFail records a failed settlement.
func AdminDonationsFail(svc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "donations service unavailable"))
			return
		}

		reference := chi.URLParam(r, "reference")
		donation, err := svc.Fail(r.Context(), reference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newDonationView(donation))
	}
}
