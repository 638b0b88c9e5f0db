package enums

import "fmt"

// DonationPurpose classifies what a payment is for.
type DonationPurpose string

const (
	DonationPurposeTithe     DonationPurpose = "tithe"
	DonationPurposeOffering  DonationPurpose = "offering"
	DonationPurposeProject   DonationPurpose = "project"
	DonationPurposeShopOrder DonationPurpose = "shop_order"
)

var validDonationPurposes = []DonationPurpose{
	DonationPurposeTithe,
	DonationPurposeOffering,
	DonationPurposeProject,
	DonationPurposeShopOrder,
}

// String implements fmt.Stringer.
func (p DonationPurpose) String() string {
	return string(p)
}

// IsValid reports whether the value is a known DonationPurpose.
func (p DonationPurpose) IsValid() bool {
	for _, candidate := range validDonationPurposes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseDonationPurpose converts raw input into a DonationPurpose.
func ParseDonationPurpose(value string) (DonationPurpose, error) {
	for _, candidate := range validDonationPurposes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid donation purpose %q", value)
}
