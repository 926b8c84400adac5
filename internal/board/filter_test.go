package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
)

func filterFixtures() []domain.Opinion {
	return []domain.Opinion{
		{ID: "1", Title: "Road Maintenance", ReferenceNumber: "OP-2025-001", Assignee: "amal", Department: "infrastructure"},
		{ID: "2", Title: "School budget", ReferenceNumber: "OP-2025-002", Assignee: "sara", Department: "education"},
		{ID: "3", Title: "road safety study", ReferenceNumber: "OP-2025-003", Assignee: "amal", Department: "infrastructure"},
	}
}

func TestMatches_QueryIsCaseInsensitiveSubstring(t *testing.T) {
	ops := filterFixtures()

	assert.True(t, Matches(ops[0], "ROAD", domain.Filters{}))
	assert.True(t, Matches(ops[2], "Road", domain.Filters{}))
	assert.False(t, Matches(ops[1], "road", domain.Filters{}))

	// reference number matches too
	assert.True(t, Matches(ops[1], "2025-002", domain.Filters{}))
}

func TestMatches_EmptyQueryAndFiltersMatchAll(t *testing.T) {
	for _, op := range filterFixtures() {
		assert.True(t, Matches(op, "", domain.Filters{}))
		assert.True(t, Matches(op, "   ", domain.Filters{}))
	}
}

func TestMatches_FiltersAreExactMatch(t *testing.T) {
	ops := filterFixtures()

	f := domain.Filters{Assignee: "amal"}
	assert.True(t, Matches(ops[0], "", f))
	assert.False(t, Matches(ops[1], "", f))

	f = domain.Filters{Department: "education"}
	assert.False(t, Matches(ops[0], "", f))
	assert.True(t, Matches(ops[1], "", f))

	// partial assignee must not match
	assert.False(t, Matches(ops[0], "", domain.Filters{Assignee: "ama"}))
}

func TestApply_IsIdempotent(t *testing.T) {
	ops := filterFixtures()
	f := domain.Filters{Department: "infrastructure"}

	once := Apply(ops, "road", f)
	twice := Apply(once, "road", f)

	assert.Equal(t, once, twice)
}

func TestApply_CommutesWithSearch(t *testing.T) {
	ops := filterFixtures()
	f := domain.Filters{Department: "infrastructure"}

	filterThenSearch := Apply(Apply(ops, "", f), "road", domain.Filters{})
	searchThenFilter := Apply(Apply(ops, "road", domain.Filters{}), "", f)

	assert.Equal(t, filterThenSearch, searchThenFilter)
	assert.Len(t, filterThenSearch, 2)
}

func TestApply_PreservesOrder(t *testing.T) {
	ops := filterFixtures()

	got := Apply(ops, "", domain.Filters{Assignee: "amal"})

	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}
