package services

// approvalDecision is the resolved approval state for a create-or-update of
// a video revision.
type approvalDecision struct {
	Approved        bool
	SentForApproval bool
}

// approvalState resolves the approval flags from the room's owner count.
// A single-owner room auto-approves: there is nobody else to ask. With more
// owners the revision enters the approval workflow unapproved, and any prior
// per-owner approvals must be cleared because the content changed.
func approvalState(ownerCount int) approvalDecision {
	if ownerCount == 1 {
		return approvalDecision{Approved: true, SentForApproval: true}
	}
	return approvalDecision{Approved: false, SentForApproval: true}
}
