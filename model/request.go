package model

import "time"

const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// PendingRequest is an unresolved cash-in proposal. A request leaves pending
// exactly once, to approved or rejected, and is immutable after that.
type PendingRequest struct {
	ID          int64      `json:"-"`
	RequestID   string     `json:"request_id"`
	UserEmail   string     `json:"user_email"`
	AgentEmail  string     `json:"agent_email"`
	AmountMinor int64      `json:"amount"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// Resolved reports whether the request has left the pending state.
func (r *PendingRequest) Resolved() bool {
	return r.Status != RequestPending
}
