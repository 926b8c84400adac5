package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
)

func testOpinions() []domain.Opinion {
	return []domain.Opinion{
		{ID: "1", Title: "Road maintenance request", Status: domain.StatusUnassigned},
		{ID: "2", Title: "Budget review", Status: domain.StatusInReview},
		{ID: "3", Title: "Park proposal", Status: domain.StatusUnassigned},
	}
}

func TestStore_AddReturnsNewStore(t *testing.T) {
	store := NewStore(testOpinions())

	next := store.Add(domain.Opinion{ID: "4", Status: domain.StatusUnassigned})

	assert.Equal(t, 4, next.Len())
	assert.Equal(t, 3, store.Len(), "original store must be untouched")
	_, ok := next.Find("4")
	assert.True(t, ok)
}

func TestStore_ReplaceUpdatesOnlyTarget(t *testing.T) {
	store := NewStore(testOpinions())

	next := store.Replace("2", func(op domain.Opinion) domain.Opinion {
		op.Status = domain.StatusCompleted
		return op
	})

	updated, _ := next.Find("2")
	assert.Equal(t, domain.StatusCompleted, updated.Status)

	// everyone else untouched
	for _, id := range []string{"1", "3"} {
		before, _ := store.Find(id)
		after, _ := next.Find(id)
		assert.Equal(t, before, after)
	}

	// original store keeps the old value
	original, _ := store.Find("2")
	assert.Equal(t, domain.StatusInReview, original.Status)
}

func TestStore_ReplaceMissingIDIsNoOp(t *testing.T) {
	store := NewStore(testOpinions())

	next := store.Replace("nope", func(op domain.Opinion) domain.Opinion {
		op.Status = domain.StatusRejected
		return op
	})

	assert.Same(t, store, next, "missing id must return the same store")
}

func TestStore_Remove(t *testing.T) {
	store := NewStore(testOpinions())

	next := store.Remove("2")

	assert.Equal(t, 2, next.Len())
	_, ok := next.Find("2")
	assert.False(t, ok)

	assert.Same(t, store, store.Remove("nope"))
}

func TestStore_AppendRemarkIsAppendOnly(t *testing.T) {
	store := NewStore([]domain.Opinion{
		{ID: "1", Status: domain.StatusUnassigned, Remarks: []domain.Remark{
			{ID: "r1", Content: "first", Author: "alice"},
		}},
	})

	next := store.AppendRemark("1", domain.Remark{ID: "r2", Content: "second", Author: "bob"})

	after, _ := next.Find("1")
	assert.Len(t, after.Remarks, 2)
	assert.Equal(t, "r1", after.Remarks[0].ID)
	assert.Equal(t, "first", after.Remarks[0].Content, "existing remarks must not change")
	assert.Equal(t, "r2", after.Remarks[1].ID)

	// original opinion's remark list untouched
	before, _ := store.Find("1")
	assert.Len(t, before.Remarks, 1)
}

func TestStore_AppendRemarkMissingIDIsNoOp(t *testing.T) {
	store := NewStore(testOpinions())

	next := store.AppendRemark("nope", domain.Remark{ID: "r1"})

	assert.Same(t, store, next)
}

func TestStore_MoveShiftsWithoutReordering(t *testing.T) {
	store := NewStore(testOpinions())

	next := store.move(0, 2)

	ids := make([]string, 0, next.Len())
	for _, op := range next.Opinions() {
		ids = append(ids, op.ID)
	}
	assert.Equal(t, []string{"2", "3", "1"}, ids)

	// moving backwards
	back := next.move(2, 0)
	ids = ids[:0]
	for _, op := range back.Opinions() {
		ids = append(ids, op.ID)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}
