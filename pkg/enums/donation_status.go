package enums

import "fmt"

// DonationStatus tracks the payment lifecycle of a donation intent.
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusConfirmed DonationStatus = "confirmed"
	DonationStatusFailed    DonationStatus = "failed"
)

var validDonationStatuses = []DonationStatus{
	DonationStatusPending,
	DonationStatusConfirmed,
	DonationStatusFailed,
}

// String implements fmt.Stringer.
func (s DonationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DonationStatus.
func (s DonationStatus) IsValid() bool {
	for _, candidate := range validDonationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions.
func (s DonationStatus) IsTerminal() bool {
	return s == DonationStatusConfirmed || s == DonationStatusFailed
}

// ParseDonationStatus converts raw input into a DonationStatus.
func ParseDonationStatus(value string) (DonationStatus, error) {
	for _, candidate := range validDonationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid donation status %q", value)
}
