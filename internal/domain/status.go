package domain

// WorkflowStatus is one state in the ordered review workflow.
// It is the single status representation used everywhere; free-form
// status strings from API payloads are parsed at the boundary and
// rejected when unknown instead of silently vanishing from the board.
type WorkflowStatus string

// Workflow statuses, in board precedence order
const (
	StatusUnassigned              WorkflowStatus = "unassigned"
	StatusInReview                WorkflowStatus = "in_review"
	StatusAssignedToDepartment    WorkflowStatus = "assigned_to_department"
	StatusAssignedToExpert        WorkflowStatus = "assigned_to_expert"
	StatusExpertOpinionSubmitted  WorkflowStatus = "expert_opinion_submitted"
	StatusHeadReviewPending       WorkflowStatus = "head_review_pending"
	StatusHeadApproved            WorkflowStatus = "head_approved"
	StatusPendingOtherDepartment  WorkflowStatus = "pending_other_department"
	StatusAdditionalInfoRequested WorkflowStatus = "additional_info_requested"
	StatusCompleted               WorkflowStatus = "completed"
	StatusRejected                WorkflowStatus = "rejected"
)

// statusPrecedenceVersion identifies the ordering table below. Bump it
// when the board column order changes so cached snapshots invalidate.
const statusPrecedenceVersion = 1

// statusPrecedence fixes the rendering order of board columns.
// Statuses not listed here sort after all listed ones, keeping the
// relative order of the externally supplied status list.
var statusPrecedence = map[WorkflowStatus]int{
	StatusUnassigned:              0,
	StatusInReview:                1,
	StatusAssignedToDepartment:    2,
	StatusAssignedToExpert:        3,
	StatusExpertOpinionSubmitted:  4,
	StatusHeadReviewPending:       5,
	StatusHeadApproved:            6,
	StatusPendingOtherDepartment:  7,
	StatusAdditionalInfoRequested: 8,
	StatusCompleted:               9,
	StatusRejected:                10,
}

// AllStatuses returns the full workflow status set in precedence order
func AllStatuses() []WorkflowStatus {
	return []WorkflowStatus{
		StatusUnassigned,
		StatusInReview,
		StatusAssignedToDepartment,
		StatusAssignedToExpert,
		StatusExpertOpinionSubmitted,
		StatusHeadReviewPending,
		StatusHeadApproved,
		StatusPendingOtherDepartment,
		StatusAdditionalInfoRequested,
		StatusCompleted,
		StatusRejected,
	}
}

// PrecedenceVersion returns the version of the column ordering table
func PrecedenceVersion() int {
	return statusPrecedenceVersion
}

// Precedence returns the board ordering rank for a status and whether
// the status appears in the precedence table.
func Precedence(s WorkflowStatus) (int, bool) {
	p, ok := statusPrecedence[s]
	return p, ok
}

// ParseStatus validates a raw status string against the known set.
// Unknown values return false; callers decide whether that is a 400 or
// a quarantine.
func ParseStatus(raw string) (WorkflowStatus, bool) {
	s := WorkflowStatus(raw)
	_, ok := statusPrecedence[s]
	return s, ok
}

// SortStatuses orders a status list for rendering: precedence-listed
// statuses first in table order, then the rest in their supplied
// relative order. The sort is stable by construction.
func SortStatuses(statuses []WorkflowStatus) []WorkflowStatus {
	known := make([]WorkflowStatus, 0, len(statuses))
	var extra []WorkflowStatus
	for _, s := range statuses {
		if _, ok := statusPrecedence[s]; ok {
			known = append(known, s)
		} else {
			extra = append(extra, s)
		}
	}
	// insertion sort keeps this dependency-free and stable; column
	// counts are tiny
	for i := 1; i < len(known); i++ {
		for j := i; j > 0 && statusPrecedence[known[j]] < statusPrecedence[known[j-1]]; j-- {
			known[j], known[j-1] = known[j-1], known[j]
		}
	}
	return append(known, extra...)
}
