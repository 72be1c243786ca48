package model

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeTransfer = "transfer"
	TypeCashOut  = "cash-out"
	TypeCashIn   = "cash-in"
)

// Transaction is one applied ledger movement. Rows are append-only: a
// transaction is written exactly once, inside the same unit of work as the
// balance mutation it records, and never updated.
type Transaction struct {
	ID            int64                  `json:"-"`
	TransactionID string                 `json:"id"`
	Email         string                 `json:"email"`
	AmountMinor   int64                  `json:"amount"`
	FeeMinor      int64                  `json:"fee"`
	Kind          string                 `json:"type"`
	Description   string                 `json:"description"`
	Sender        string                 `json:"sender"`
	Recipient     string                 `json:"recipient"`
	CreatedAt     time.Time              `json:"created_at"`
	MetaData      map[string]interface{} `json:"meta_data,omitempty"`
}

func (transaction *Transaction) ToJSON() ([]byte, error) {
	return json.Marshal(transaction)
}

// AuthorizedTransfer carries everything the ledger engine needs to apply a
// movement. It is only produced by the authorizer and is immutable once
// built; the engine performs no further rule checks beyond the funds
// re-validation inside its unit of work.
type AuthorizedTransfer struct {
	Sender      string
	Recipient   string
	AmountMinor int64
	FeeMinor    int64
	Kind        string
	Description string
}

// TotalDebitMinor is the full amount leaving the sender.
func (t *AuthorizedTransfer) TotalDebitMinor() int64 {
	return t.AmountMinor + t.FeeMinor
}

// CreditMinor is the amount arriving at the recipient. Cash-out credits the
// agent with the fee on top; every other kind credits the bare amount.
func (t *AuthorizedTransfer) CreditMinor() int64 {
	if t.Kind == TypeCashOut {
		return t.AmountMinor + t.FeeMinor
	}
	return t.AmountMinor
}

// TransferDescription renders the history line for a peer transfer.
func TransferDescription(amountMinor int64, recipient string) string {
	return fmt.Sprintf("Sent %s Taka to %s", FormatAmount(amountMinor), recipient)
}

// CashOutDescription renders the history line for an agent cash-out.
func CashOutDescription(amountMinor int64, agent string) string {
	return fmt.Sprintf("Cashed out %s Taka through agent %s", FormatAmount(amountMinor), agent)
}

// CashInDescription renders the history line for an approved cash-in.
func CashInDescription(amountMinor int64) string {
	return fmt.Sprintf("Cash-in request of %s Taka approved", FormatAmount(amountMinor))
}
