package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPendingListTrackAndConfirm(t *testing.T) {
	list := NewPendingList()
	list.Track("temp-1", "hello")

	entry, ok := list.Get("temp-1")
	assert.True(t, ok)
	assert.Equal(t, StatePending, entry.State)
	assert.Equal(t, "hello", entry.Content)
	assert.Empty(t, entry.ServerID)

	assert.True(t, list.Confirm("temp-1", "srv-1"))

	entry, ok = list.Get("temp-1")
	assert.True(t, ok)
	assert.Equal(t, StateConfirmed, entry.State)
	assert.Equal(t, "srv-1", entry.ServerID)
}

func TestPendingListConfirmUnknownTempID(t *testing.T) {
	list := NewPendingList()
	assert.False(t, list.Confirm("never-tracked", "srv-1"))
	assert.False(t, list.Fail("never-tracked"))
}

func TestPendingListConfirmIsIdempotent(t *testing.T) {
	list := NewPendingList()
	list.Track("temp-1", "hello")

	assert.True(t, list.Confirm("temp-1", "srv-1"))
	assert.True(t, list.Confirm("temp-1", "srv-1"))

	entry, _ := list.Get("temp-1")
	assert.Equal(t, StateConfirmed, entry.State)
	assert.Equal(t, "srv-1", entry.ServerID)
}

func TestPendingListFail(t *testing.T) {
	list := NewPendingList()
	list.Track("temp-1", "hello")

	assert.True(t, list.Fail("temp-1"))

	entry, _ := list.Get("temp-1")
	assert.Equal(t, StateFailed, entry.State)
}

func TestPendingListRetrackResetsState(t *testing.T) {
	list := NewPendingList()
	list.Track("temp-1", "hello")
	list.Fail("temp-1")

	// client retried the same optimistic message
	list.Track("temp-1", "hello again")

	entry, _ := list.Get("temp-1")
	assert.Equal(t, StatePending, entry.State)
	assert.Equal(t, "hello again", entry.Content)
}

func TestPendingListUnresolved(t *testing.T) {
	list := NewPendingList()
	list.Track("temp-1", "a")
	list.Track("temp-2", "b")
	list.Track("temp-3", "c")

	list.Confirm("temp-1", "srv-1")
	list.Fail("temp-2")

	unresolved := list.Unresolved()
	assert.Equal(t, []string{"temp-3"}, unresolved)
}
