// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds carried by ActivityEvent.
const (
	KindUserRegistered = "user.registered"
	KindTodoCreated    = "todo.created"
)

// ActivityEvent is published when a user registers or a todo is
// created. It carries enough information for downstream consumers to
// log or trigger notifications without querying the primary database.
type ActivityEvent struct {
	Kind        string `json:"kind"`
	UserID      uint64 `json:"user_id"`
	Username    string `json:"username,omitempty"`
	TodoID      uint64 `json:"todo_id,omitempty"`
	Description string `json:"description,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}
