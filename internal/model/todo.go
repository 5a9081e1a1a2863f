package model

import "time"

// TodoState enumerates the lifecycle values a todo may carry.  The
// enum is flat: any authenticated owner may move a todo between any
// of the four states, there is no transition graph.
type TodoState string

const (
	StatePassive   TodoState = "passive"
	StateActive    TodoState = "active"
	StateImportant TodoState = "important"
	StateDone      TodoState = "done"
)

// Valid reports whether s is one of the known todo states.
func (s TodoState) Valid() bool {
	switch s {
	case StatePassive, StateActive, StateImportant, StateDone:
		return true
	}
	return false
}

// Todo represents a row in the `todos` table.  OwnerID references
// users.id and is immutable after creation; it is always assigned
// server-side from the authenticated subject, never from client
// input.
type Todo struct {
	ID          uint64    `json:"id"`          // todos.id
	OwnerID     uint64    `json:"owner_id"`    // todos.owner_id
	Description string    `json:"description"` // todos.description
	State       TodoState `json:"state"`       // todos.state
	CreatedAt   time.Time `json:"created_at"`  // todos.created_at
}
