package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
)

func TestPartition_OneBucketPerOpinion(t *testing.T) {
	statuses := domain.AllStatuses()
	opinions := []domain.Opinion{
		{ID: "1", Status: domain.StatusUnassigned},
		{ID: "2", Status: domain.StatusInReview},
		{ID: "3", Status: domain.StatusUnassigned},
		{ID: "4", Status: domain.StatusCompleted},
	}

	cols := Partition(statuses, opinions)

	// partitioning is total and exclusive: each opinion in exactly one bucket
	seen := map[string]int{}
	for _, bucket := range cols.Buckets {
		for _, op := range bucket {
			seen[op.ID]++
		}
	}
	assert.Len(t, seen, 4)
	for id, count := range seen {
		assert.Equal(t, 1, count, "opinion %s must appear exactly once", id)
	}
	assert.Empty(t, cols.Unclassified)
}

func TestPartition_UnknownStatusIsQuarantinedNotDropped(t *testing.T) {
	statuses := []domain.WorkflowStatus{domain.StatusUnassigned, domain.StatusInReview}
	opinions := []domain.Opinion{
		{ID: "1", Status: domain.StatusUnassigned},
		{ID: "2", Status: "totally_new_status"},
	}

	cols := Partition(statuses, opinions)

	for _, bucket := range cols.Buckets {
		for _, op := range bucket {
			assert.NotEqual(t, "2", op.ID)
		}
	}
	assert.Len(t, cols.Unclassified, 1)
	assert.Equal(t, "2", cols.Unclassified[0].ID)
}

func TestPartition_ExampleFromBoard(t *testing.T) {
	// columns supplied externally; "in-progress" is not in the
	// precedence table and must keep its supplied position at the end
	statuses := []domain.WorkflowStatus{"unassigned", "in-progress"}
	opinions := []domain.Opinion{
		{ID: "1", Status: "unassigned"},
		{ID: "2", Status: "in-progress"},
	}

	cols := Partition(statuses, opinions)

	assert.Equal(t, []domain.WorkflowStatus{"unassigned", "in-progress"}, cols.Order)
	assert.Len(t, cols.Buckets["unassigned"], 1)
	assert.Equal(t, "1", cols.Buckets["unassigned"][0].ID)
	assert.Len(t, cols.Buckets["in-progress"], 1)
	assert.Equal(t, "2", cols.Buckets["in-progress"][0].ID)
}

func TestPartition_ColumnOrderFollowsPrecedence(t *testing.T) {
	// supplied out of order, plus two statuses outside the table
	statuses := []domain.WorkflowStatus{
		domain.StatusCompleted,
		"custom_b",
		domain.StatusUnassigned,
		"custom_a",
		domain.StatusInReview,
	}

	cols := Partition(statuses, nil)

	assert.Equal(t, []domain.WorkflowStatus{
		domain.StatusUnassigned,
		domain.StatusInReview,
		domain.StatusCompleted,
		"custom_b",
		"custom_a",
	}, cols.Order)
}

func TestPartition_EmptyBucketsExistForEveryColumn(t *testing.T) {
	cols := Partition(domain.AllStatuses(), nil)

	assert.Len(t, cols.Buckets, len(domain.AllStatuses()))
	for _, s := range domain.AllStatuses() {
		bucket, ok := cols.Buckets[s]
		assert.True(t, ok)
		assert.Empty(t, bucket)
	}
}

func TestSortStatuses_Stable(t *testing.T) {
	got := domain.SortStatuses([]domain.WorkflowStatus{
		domain.StatusRejected,
		domain.StatusUnassigned,
		"zeta",
		"alpha",
	})

	assert.Equal(t, []domain.WorkflowStatus{
		domain.StatusUnassigned,
		domain.StatusRejected,
		"zeta",
		"alpha",
	}, got)
}
