package board

import "github.com/opiniondesk/opiniondesk-backend/internal/domain"

// DragEffect describes what a completed drag did to the store
type DragEffect int

const (
	// DragNone means the drop was discarded or a lookup missed
	DragNone DragEffect = iota
	// DragStatusChanged means the active opinion moved to another column
	DragStatusChanged
	// DragReordered means a same-column positional move; position is
	// cosmetic and is not persisted
	DragReordered
)

// DragSession is the drag-and-drop controller for one board. It is a
// two-state machine, idle or dragging, and every DragEnd returns it to
// idle no matter what happened in between. Lookup misses abort the
// mutation silently; a stuck session or an error surface would be
// worse than a lost drop for a purely visual gesture.
//
// The session is decoupled from any pointer-event library: callers
// feed it opinion/column ids and it answers with the next store.
type DragSession struct {
	columns map[domain.WorkflowStatus]struct{}
	active  string
}

// NewDragSession creates a controller for the given column set
func NewDragSession(statuses []domain.WorkflowStatus) *DragSession {
	columns := make(map[domain.WorkflowStatus]struct{}, len(statuses))
	for _, s := range statuses {
		columns[s] = struct{}{}
	}
	return &DragSession{columns: columns}
}

// Active returns the id being dragged and whether a drag is in progress
func (d *DragSession) Active() (string, bool) {
	return d.active, d.active != ""
}

// DragStart moves the session from idle to dragging. An unknown id
// leaves the session idle.
func (d *DragSession) DragStart(store *Store, id string) {
	if _, ok := store.Find(id); !ok {
		return
	}
	d.active = id
}

// DragEnd completes the gesture and computes the next store:
//
//   - overID empty (dropped outside any target): discard, no mutation
//   - overID is a known column: the active opinion adopts that status
//   - overID is a sibling opinion with the same status: the active
//     opinion is relocated to the sibling's position (stable move)
//   - overID is an opinion with a different status: the active opinion
//     adopts the sibling's status
//
// The session always returns to idle.
func (d *DragSession) DragEnd(store *Store, activeID, overID string) (*Store, DragEffect) {
	d.active = ""

	if overID == "" {
		return store, DragNone
	}

	active, ok := store.Find(activeID)
	if !ok {
		return store, DragNone
	}

	// Column ids are status values; check those before sibling cards.
	if status, isColumn := d.column(overID); isColumn {
		if active.Status == status {
			return store, DragNone
		}
		next := store.Replace(activeID, func(op domain.Opinion) domain.Opinion {
			op.Status = status
			return op
		})
		return next, DragStatusChanged
	}

	over, ok := store.Find(overID)
	if !ok {
		return store, DragNone
	}

	if active.Status == over.Status {
		next := store.move(store.indexOf(activeID), store.indexOf(overID))
		if next == store {
			return store, DragNone
		}
		return next, DragReordered
	}

	next := store.Replace(activeID, func(op domain.Opinion) domain.Opinion {
		op.Status = over.Status
		return op
	})
	return next, DragStatusChanged
}

// column reports whether an id names one of the session's columns
func (d *DragSession) column(id string) (domain.WorkflowStatus, bool) {
	s := domain.WorkflowStatus(id)
	_, ok := d.columns[s]
	return s, ok
}
