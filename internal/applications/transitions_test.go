package applications

import (
	"testing"

	"github.com/agropazar/agropazar-backend/pkg/enums"
)

func TestApplicationTransitions(t *testing.T) {
	allowed := []struct {
		from, to enums.ApplicationStatus
	}{
		{enums.ApplicationStatusSubmitted, enums.ApplicationStatusUnderReview},
		{enums.ApplicationStatusUnderReview, enums.ApplicationStatusApproved},
		{enums.ApplicationStatusUnderReview, enums.ApplicationStatusRejected},
		{enums.ApplicationStatusUnderReview, enums.ApplicationStatusRevision},
		{enums.ApplicationStatusUnderReview, enums.ApplicationStatusMissingDocuments},
		{enums.ApplicationStatusMissingDocuments, enums.ApplicationStatusUnderReview},
		{enums.ApplicationStatusRevision, enums.ApplicationStatusUnderReview},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct {
		from, to enums.ApplicationStatus
	}{
		{enums.ApplicationStatusSubmitted, enums.ApplicationStatusApproved},
		{enums.ApplicationStatusSubmitted, enums.ApplicationStatusRejected},
		{enums.ApplicationStatusApproved, enums.ApplicationStatusUnderReview},
		{enums.ApplicationStatusApproved, enums.ApplicationStatusRejected},
		{enums.ApplicationStatusRejected, enums.ApplicationStatusUnderReview},
		{enums.ApplicationStatusMissingDocuments, enums.ApplicationStatusApproved},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestDocumentTransitions(t *testing.T) {
	if !CanTransitionDocument(enums.DocumentStatusPending, enums.DocumentStatusApproved) {
		t.Fatal("pending document should be approvable")
	}
	if !CanTransitionDocument(enums.DocumentStatusMissing, enums.DocumentStatusResubmitted) {
		t.Fatal("missing document should accept resubmission")
	}
	if !CanTransitionDocument(enums.DocumentStatusResubmitted, enums.DocumentStatusApproved) {
		t.Fatal("resubmitted document should be decidable")
	}
	if CanTransitionDocument(enums.DocumentStatusApproved, enums.DocumentStatusMissing) {
		t.Fatal("approved document must stay approved")
	}
	if CanTransitionDocument(enums.DocumentStatusPending, enums.DocumentStatusResubmitted) {
		t.Fatal("only missing documents can be resubmitted")
	}
}
