package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Account is a wallet ledger entity. BalanceMinor is only ever mutated by the
// ledger engine; Version backs the optimistic check on every balance update.
type Account struct {
	ID           int64                  `json:"-"`
	AccountID    string                 `json:"account_id"`
	Email        string                 `json:"email"`
	Name         string                 `json:"name"`
	Role         string                 `json:"role"`
	BalanceMinor int64                  `json:"balance"`
	PINHash      string                 `json:"-"`
	Version      int64                  `json:"-"`
	CreatedAt    time.Time              `json:"created_at"`
	MetaData     map[string]interface{} `json:"meta_data,omitempty"`
}

// ValidRole reports whether role is one of the three wallet roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleUser, RoleAgent:
		return true
	}
	return false
}

// CanDebit reports whether the account can fund a debit of the given total
// without going negative.
func (a *Account) CanDebit(totalMinor int64) bool {
	return a.BalanceMinor >= totalMinor
}

// RoleFlags mirrors the role-lookup shape the wallet frontend consumes.
type RoleFlags struct {
	Admin bool `json:"admin"`
	User  bool `json:"user"`
	Agent bool `json:"agent"`
}
