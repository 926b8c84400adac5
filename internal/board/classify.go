package board

import "github.com/opiniondesk/opiniondesk-backend/internal/domain"

// Columns is the partitioned board: one bucket per known status plus a
// quarantine list for opinions whose status is not in the column set.
// Quarantined opinions are surfaced rather than silently dropped so an
// unrecognized status can never make an opinion invisible.
type Columns struct {
	Order        []domain.WorkflowStatus                    `json:"order"`
	Buckets      map[domain.WorkflowStatus][]domain.Opinion `json:"buckets"`
	Unclassified []domain.Opinion                           `json:"unclassified,omitempty"`
}

// Partition distributes opinions into one bucket per status by exact
// match. Every opinion lands in exactly one bucket, or in Unclassified
// when its status is outside the supplied set. Column order follows
// the fixed precedence table; statuses outside the table keep their
// relative position in the supplied list and sort after the rest.
func Partition(statuses []domain.WorkflowStatus, opinions []domain.Opinion) Columns {
	order := domain.SortStatuses(statuses)

	buckets := make(map[domain.WorkflowStatus][]domain.Opinion, len(order))
	known := make(map[domain.WorkflowStatus]struct{}, len(order))
	for _, s := range order {
		buckets[s] = []domain.Opinion{}
		known[s] = struct{}{}
	}

	var unclassified []domain.Opinion
	for _, op := range opinions {
		if _, ok := known[op.Status]; ok {
			buckets[op.Status] = append(buckets[op.Status], op)
		} else {
			unclassified = append(unclassified, op)
		}
	}

	return Columns{
		Order:        order,
		Buckets:      buckets,
		Unclassified: unclassified,
	}
}
