package enums

import "fmt"

// LeadStatus tracks where a contact submission sits in the follow-up pipeline.
type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "new"
	LeadStatusInProgress LeadStatus = "in_progress"
	LeadStatusContacted  LeadStatus = "contacted"
	LeadStatusDiscarded  LeadStatus = "discarded"
)

var validLeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusInProgress,
	LeadStatusContacted,
	LeadStatusDiscarded,
}

// String implements fmt.Stringer.
func (s LeadStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LeadStatus.
func (s LeadStatus) IsValid() bool {
	for _, candidate := range validLeadStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLeadStatus converts raw input into a LeadStatus.
func ParseLeadStatus(value string) (LeadStatus, error) {
	for _, candidate := range validLeadStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lead status %q", value)
}
