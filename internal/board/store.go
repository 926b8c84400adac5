// Package board implements the kanban board engine: the in-memory
// opinion store, the filter predicate, the column classifier, the drag
// session controller and the submission wizard. The package is pure --
// no I/O, no logging -- so the HTTP and socket surfaces can derive
// board state from it and tests can drive it directly.
package board

import "github.com/opiniondesk/opiniondesk-backend/internal/domain"

// Store holds the working set of opinions for one board view. All
// mutating operations return a new Store and leave the receiver
// untouched; a lookup miss returns the receiver unchanged so callers
// can rely on pointer equality to detect no-ops.
type Store struct {
	opinions []domain.Opinion
}

// NewStore creates a store from a slice of opinions. The slice is
// copied; the caller keeps ownership of its argument.
func NewStore(opinions []domain.Opinion) *Store {
	copied := make([]domain.Opinion, len(opinions))
	copy(copied, opinions)
	return &Store{opinions: copied}
}

// Opinions returns the ordered opinion list. Callers must not mutate it.
func (s *Store) Opinions() []domain.Opinion {
	return s.opinions
}

// Len returns the number of opinions in the store
func (s *Store) Len() int {
	return len(s.opinions)
}

// Find returns the opinion with the given id and whether it exists
func (s *Store) Find(id string) (domain.Opinion, bool) {
	for _, op := range s.opinions {
		if op.ID == id {
			return op, true
		}
	}
	return domain.Opinion{}, false
}

// indexOf returns the position of an opinion id, or -1
func (s *Store) indexOf(id string) int {
	for i, op := range s.opinions {
		if op.ID == id {
			return i
		}
	}
	return -1
}

// Add appends an opinion and returns the new store
func (s *Store) Add(op domain.Opinion) *Store {
	next := make([]domain.Opinion, 0, len(s.opinions)+1)
	next = append(next, s.opinions...)
	next = append(next, op)
	return &Store{opinions: next}
}

// Replace applies update to the opinion with the given id. A missing
// id is a no-op and returns the receiver.
func (s *Store) Replace(id string, update func(domain.Opinion) domain.Opinion) *Store {
	idx := s.indexOf(id)
	if idx < 0 {
		return s
	}
	next := make([]domain.Opinion, len(s.opinions))
	copy(next, s.opinions)
	next[idx] = update(next[idx])
	return &Store{opinions: next}
}

// Remove deletes the opinion with the given id. A missing id is a
// no-op and returns the receiver.
func (s *Store) Remove(id string) *Store {
	idx := s.indexOf(id)
	if idx < 0 {
		return s
	}
	next := make([]domain.Opinion, 0, len(s.opinions)-1)
	next = append(next, s.opinions[:idx]...)
	next = append(next, s.opinions[idx+1:]...)
	return &Store{opinions: next}
}

// AppendRemark adds a remark to the opinion with the given id. The
// remark list only grows; existing remarks are never touched. A
// missing id is a no-op and returns the receiver.
func (s *Store) AppendRemark(id string, remark domain.Remark) *Store {
	return s.Replace(id, func(op domain.Opinion) domain.Opinion {
		remarks := make([]domain.Remark, 0, len(op.Remarks)+1)
		remarks = append(remarks, op.Remarks...)
		remarks = append(remarks, remark)
		op.Remarks = remarks
		return op
	})
}

// move relocates the opinion at from to position to, shifting the
// items in between and leaving everyone else's relative order intact.
func (s *Store) move(from, to int) *Store {
	if from == to || from < 0 || to < 0 || from >= len(s.opinions) || to >= len(s.opinions) {
		return s
	}
	next := make([]domain.Opinion, len(s.opinions))
	copy(next, s.opinions)
	item := next[from]
	if from < to {
		copy(next[from:], next[from+1:to+1])
	} else {
		copy(next[to+1:], next[to:from])
	}
	next[to] = item
	return &Store{opinions: next}
}
