package donations

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	"github.com/kwlc-church/kwlc-backend/pkg/enums"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
	"github.com/kwlc-church/kwlc-backend/pkg/types"
)

const referencePrefix = "KWLC-DON"

// CreateDonationInput captures a giving intent from the public site.
// Amounts arrive in naira and are stored in kobo.
type CreateDonationInput struct {
	DonorName   string
	DonorEmail  string
	Purpose     enums.DonationPurpose
	AmountNaira decimal.Decimal
	BranchID    *uuid.UUID
}

// Service exposes the donation lifecycle to controllers.
type Service interface {
	Create(ctx context.Context, input CreateDonationInput) (*models.Donation, error)
	StatusByReference(ctx context.Context, reference string) (*models.Donation, error)
	List(ctx context.Context, page pagination.Page, status enums.DonationStatus) ([]models.Donation, int64, error)
	Confirm(ctx context.Context, reference string) (*models.Donation, error)
	Fail(ctx context.Context, reference string) (*models.Donation, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService builds the donations service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("donations repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateDonationInput) (*models.Donation, error) {
	if strings.TrimSpace(input.DonorName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donor name is required")
	}
	if strings.TrimSpace(input.DonorEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donor email is required")
	}
	if !input.Purpose.IsValid() || input.Purpose == enums.DonationPurposeShopOrder {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid donation purpose")
	}
	if !input.AmountNaira.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	reference, err := NewReference()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reference")
	}

	donation := &models.Donation{
		ID:         uuid.New(),
		Reference:  reference,
		DonorName:  strings.TrimSpace(input.DonorName),
		DonorEmail: strings.ToLower(strings.TrimSpace(input.DonorEmail)),
		Purpose:    input.Purpose,
		AmountKobo: types.KoboFromNaira(input.AmountNaira),
		Currency:   "NGN",
		BranchID:   input.BranchID,
		Status:     enums.DonationStatusPending,
	}

	created, err := s.repo.Create(ctx, nil, donation)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create donation")
	}
	return created, nil
}

// StatusByReference serves the front-end polling loop after the donor is
// redirected to the payment gateway.
func (s *service) StatusByReference(ctx context.Context, reference string) (*models.Donation, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference is required")
	}
	donation, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "donation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load donation")
	}
	return donation, nil
}

func (s *service) List(ctx context.Context, page pagination.Page, status enums.DonationStatus) ([]models.Donation, int64, error) {
	donations, total, err := s.repo.List(ctx, page, status)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list donations")
	}
	return donations, total, nil
}

// Confirm settles a pending donation. Re-confirming a settled donation is a
// conflict, not a second settlement.
func (s *service) Confirm(ctx context.Context, reference string) (*models.Donation, error) {
	return s.transition(ctx, reference, s.repo.MarkConfirmed)
}

// Fail marks a pending donation as failed at the gateway.
func (s *service) Fail(ctx context.Context, reference string) (*models.Donation, error) {
	return s.transition(ctx, reference, s.repo.MarkFailed)
}

func (s *service) transition(ctx context.Context, reference string, apply func(context.Context, string, time.Time) (int64, error)) (*models.Donation, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference is required")
	}

	affected, err := apply(ctx, reference, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update donation")
	}
	if affected == 0 {
		donation, lookupErr := s.repo.GetByReference(ctx, reference)
		if lookupErr != nil {
			if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "donation not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, lookupErr, "load donation")
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("donation already %s", donation.Status))
	}

	return s.repo.GetByReference(ctx, reference)
}

// NewReference builds a gateway-facing payment reference.
func NewReference() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", referencePrefix, strings.ToUpper(hex.EncodeToString(buf))), nil
}
