package enums

import "fmt"

// QuotationStatus tracks a customer quotation from draft to decision.
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusDeclined QuotationStatus = "declined"
)

var validQuotationStatuses = []QuotationStatus{
	QuotationStatusDraft,
	QuotationStatusSent,
	QuotationStatusAccepted,
	QuotationStatusDeclined,
}

var quotationTransitions = map[QuotationStatus][]QuotationStatus{
	QuotationStatusDraft:    {QuotationStatusSent},
	QuotationStatusSent:     {QuotationStatusAccepted, QuotationStatusDeclined},
	QuotationStatusAccepted: {},
	QuotationStatusDeclined: {},
}

// String implements fmt.Stringer.
func (s QuotationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known QuotationStatus.
func (s QuotationStatus) IsValid() bool {
	for _, candidate := range validQuotationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (s QuotationStatus) CanTransitionTo(next QuotationStatus) bool {
	for _, candidate := range quotationTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseQuotationStatus converts raw input into a QuotationStatus.
func ParseQuotationStatus(value string) (QuotationStatus, error) {
	for _, candidate := range validQuotationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quotation status %q", value)
}
