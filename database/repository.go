package database

import (
	"context"

	"github.com/swiftpay/swiftpay/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	account     // Account store operations
	transaction // Transaction log operations
	request     // Pending-request store operations
}

// account defines methods for the account store. ApplyTransfer is the only
// method that mutates balances.
type account interface {
	CreateAccount(ctx context.Context, account model.Account) (model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	GetAccountsByRole(ctx context.Context, role string) ([]model.Account, error)
	ApplyTransfer(ctx context.Context, transfer *model.AuthorizedTransfer, source, destination *model.Account) (*model.Transaction, error)
}

// transaction defines methods for the append-only transaction log.
type transaction interface {
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	GetRecentTransactions(ctx context.Context, email string, limit int) ([]model.Transaction, error)
}

// request defines methods for the pending-request store. ApproveRequest
// resolves the request and applies its transfer in one unit of work.
type request interface {
	CreateRequest(ctx context.Context, req model.PendingRequest) (model.PendingRequest, error)
	GetRequest(ctx context.Context, id string) (*model.PendingRequest, error)
	ListRequestsByStatus(ctx context.Context, status string) ([]model.PendingRequest, error)
	ResolveRequest(ctx context.Context, id, newStatus string) error
	ApproveRequest(ctx context.Context, id string, transfer *model.AuthorizedTransfer, source, destination *model.Account) (*model.Transaction, error)
}
