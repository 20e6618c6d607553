package enums

import "fmt"

// PurchaseStatus tracks a supplier purchase from order to receipt.
type PurchaseStatus string

const (
	PurchaseStatusOrdered   PurchaseStatus = "ordered"
	PurchaseStatusReceived  PurchaseStatus = "received"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

var validPurchaseStatuses = []PurchaseStatus{
	PurchaseStatusOrdered,
	PurchaseStatusReceived,
	PurchaseStatusCancelled,
}

// String implements fmt.Stringer.
func (s PurchaseStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PurchaseStatus.
func (s PurchaseStatus) IsValid() bool {
	for _, candidate := range validPurchaseStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePurchaseStatus converts raw input into a PurchaseStatus.
func ParsePurchaseStatus(value string) (PurchaseStatus, error) {
	for _, candidate := range validPurchaseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase status %q", value)
}
