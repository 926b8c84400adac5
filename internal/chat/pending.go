package chat

import "sync"

// PendingState is the lifecycle of an optimistic message
type PendingState int

const (
	// StatePending means the client sent the message and awaits the echo
	StatePending PendingState = iota
	// StateConfirmed means the server assigned a real id
	StateConfirmed
	// StateFailed means the server rejected the message
	StateFailed
)

// PendingEntry is one optimistic message keyed by its client temp id
type PendingEntry struct {
	TempID   string
	ServerID string
	Content  string
	State    PendingState
}

// PendingList tracks optimistic messages through their two-phase
// commit: an entry is created when the client sends, then confirmed
// with the server id or marked failed when the verdict arrives. The
// ad hoc array scanning this replaces is what let silent mismatches
// slip through.
type PendingList struct {
	mu      sync.Mutex
	entries map[string]*PendingEntry
}

// NewPendingList creates an empty pending list
func NewPendingList() *PendingList {
	return &PendingList{entries: make(map[string]*PendingEntry)}
}

// Track registers an optimistic message. Re-tracking an existing temp
// id resets its state; the client retried.
func (p *PendingList) Track(tempID, content string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[tempID] = &PendingEntry{
		TempID:  tempID,
		Content: content,
		State:   StatePending,
	}
}

// Confirm resolves a pending entry with its server id. Unknown temp
// ids return false; duplicate confirmations are idempotent.
func (p *PendingList) Confirm(tempID, serverID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.entries[tempID]
	if !ok {
		return false
	}
	entry.ServerID = serverID
	entry.State = StateConfirmed
	return true
}

// Fail marks a pending entry rejected. Unknown temp ids return false.
func (p *PendingList) Fail(tempID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.entries[tempID]
	if !ok {
		return false
	}
	entry.State = StateFailed
	return true
}

// Get returns a copy of the entry for a temp id
func (p *PendingList) Get(tempID string) (PendingEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.entries[tempID]
	if !ok {
		return PendingEntry{}, false
	}
	return *entry, true
}

// Unresolved returns the temp ids still awaiting a verdict
func (p *PendingList) Unresolved() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for id, entry := range p.entries {
		if entry.State == StatePending {
			out = append(out, id)
		}
	}
	return out
}
