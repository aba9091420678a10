package applications

import "github.com/agropazar/agropazar-backend/pkg/enums"

// applicationTransitions is the only place application status moves are
// defined. Workflow methods consult it before every write.
var applicationTransitions = map[enums.ApplicationStatus][]enums.ApplicationStatus{
	enums.ApplicationStatusSubmitted: {
		enums.ApplicationStatusUnderReview,
	},
	enums.ApplicationStatusUnderReview: {
		enums.ApplicationStatusApproved,
		enums.ApplicationStatusRejected,
		enums.ApplicationStatusRevision,
		enums.ApplicationStatusMissingDocuments,
	},
	enums.ApplicationStatusMissingDocuments: {
		enums.ApplicationStatusUnderReview,
	},
	enums.ApplicationStatusRevision: {
		enums.ApplicationStatusUnderReview,
	},
	// Approved and rejected are terminal.
}

// CanTransition reports whether an application may move from one status to
// another.
func CanTransition(from, to enums.ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

var documentTransitions = map[enums.DocumentStatus][]enums.DocumentStatus{
	enums.DocumentStatusPending: {
		enums.DocumentStatusApproved,
		enums.DocumentStatusRejected,
		enums.DocumentStatusMissing,
	},
	enums.DocumentStatusMissing: {
		enums.DocumentStatusResubmitted,
	},
	// A resubmitted file re-enters review and can be decided directly.
	enums.DocumentStatusResubmitted: {
		enums.DocumentStatusPending,
		enums.DocumentStatusApproved,
		enums.DocumentStatusRejected,
		enums.DocumentStatusMissing,
	},
}

// CanTransitionDocument reports whether a document may move from one review
// status to another.
func CanTransitionDocument(from, to enums.DocumentStatus) bool {
	for _, allowed := range documentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
