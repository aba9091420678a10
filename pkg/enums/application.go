package enums

import "fmt"

// ApplicationType is the discriminant of the polymorphic review envelope: a
// pending application wraps either a farm or a single product.
type ApplicationType string

const (
	ApplicationTypeFarm    ApplicationType = "ciftlik"
	ApplicationTypeProduct ApplicationType = "urun"
)

var validApplicationTypes = []ApplicationType{
	ApplicationTypeFarm,
	ApplicationTypeProduct,
}

// String implements fmt.Stringer.
func (t ApplicationType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ApplicationType.
func (t ApplicationType) IsValid() bool {
	for _, candidate := range validApplicationTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseApplicationType converts raw input into an ApplicationType.
func ParseApplicationType(value string) (ApplicationType, error) {
	for _, candidate := range validApplicationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid application type %q", value)
}

// ApplicationStatus is the review-envelope state. Transitions are enforced
// centrally in internal/applications, never by ad-hoc string comparison.
type ApplicationStatus string

const (
	ApplicationStatusSubmitted        ApplicationStatus = "beklemede"
	ApplicationStatusUnderReview      ApplicationStatus = "incelemede"
	ApplicationStatusMissingDocuments ApplicationStatus = "eksik_belge"
	ApplicationStatusRevision         ApplicationStatus = "revizyon"
	ApplicationStatusApproved         ApplicationStatus = "onaylandi"
	ApplicationStatusRejected         ApplicationStatus = "reddedildi"
)

var validApplicationStatuses = []ApplicationStatus{
	ApplicationStatusSubmitted,
	ApplicationStatusUnderReview,
	ApplicationStatusMissingDocuments,
	ApplicationStatusRevision,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
}

// String implements fmt.Stringer.
func (s ApplicationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ApplicationStatus.
func (s ApplicationStatus) IsValid() bool {
	for _, candidate := range validApplicationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// ParseApplicationStatus converts raw input into an ApplicationStatus.
func ParseApplicationStatus(value string) (ApplicationStatus, error) {
	for _, candidate := range validApplicationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid application status %q", value)
}
