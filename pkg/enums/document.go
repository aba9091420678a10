package enums

import "fmt"

// DocumentStatus tracks the per-file review state. A missing document becomes
// "guncel_belge" (current document) once the owner uploads a replacement and
// re-enters review from there.
type DocumentStatus string

const (
	DocumentStatusPending     DocumentStatus = "beklemede"
	DocumentStatusApproved    DocumentStatus = "onaylandi"
	DocumentStatusRejected    DocumentStatus = "reddedildi"
	DocumentStatusMissing     DocumentStatus = "eksik"
	DocumentStatusResubmitted DocumentStatus = "guncel_belge"
)

var validDocumentStatuses = []DocumentStatus{
	DocumentStatusPending,
	DocumentStatusApproved,
	DocumentStatusRejected,
	DocumentStatusMissing,
	DocumentStatusResubmitted,
}

// String implements fmt.Stringer.
func (s DocumentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DocumentStatus.
func (s DocumentStatus) IsValid() bool {
	for _, candidate := range validDocumentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsReviewed reports whether an admin has already decided on the document.
func (s DocumentStatus) IsReviewed() bool {
	return s == DocumentStatusApproved || s == DocumentStatusRejected
}

// ParseDocumentStatus converts raw input into a DocumentStatus.
func ParseDocumentStatus(value string) (DocumentStatus, error) {
	for _, candidate := range validDocumentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document status %q", value)
}

// DocumentOwnerType distinguishes documents attached directly to a farm or
// company profile from those attached to a review application.
type DocumentOwnerType string

const (
	DocumentOwnerFarm    DocumentOwnerType = "ciftlik"
	DocumentOwnerCompany DocumentOwnerType = "firma"
)

// IsValid reports whether the value is a known DocumentOwnerType.
func (o DocumentOwnerType) IsValid() bool {
	return o == DocumentOwnerFarm || o == DocumentOwnerCompany
}
