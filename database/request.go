package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/swiftpay/swiftpay/internal/apierror"
	"github.com/swiftpay/swiftpay/model"
)

func (d Datasource) CreateRequest(ctx context.Context, req model.PendingRequest) (model.PendingRequest, error) {
	req.RequestID = model.GenerateUUIDWithSuffix("req")
	req.Status = model.RequestPending
	req.CreatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO requests (request_id, user_email, agent_email, amount, status, created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		req.RequestID, req.UserEmail, req.AgentEmail, req.AmountMinor, req.Status, req.CreatedAt,
	)
	if err != nil {
		return model.PendingRequest{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create cash-in request", err)
	}

	return req, nil
}

func (d Datasource) GetRequest(ctx context.Context, id string) (*model.PendingRequest, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT request_id, user_email, agent_email, amount, status, created_at, resolved_at
		FROM requests
		WHERE request_id = $1
	`, id)

	req := &model.PendingRequest{}
	var resolvedAt sql.NullTime
	err := row.Scan(&req.RequestID, &req.UserEmail, &req.AgentEmail, &req.AmountMinor, &req.Status, &req.CreatedAt, &resolvedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Request with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve request", err)
	}
	if resolvedAt.Valid {
		req.ResolvedAt = &resolvedAt.Time
	}

	return req, nil
}

func (d Datasource) ListRequestsByStatus(ctx context.Context, status string) ([]model.PendingRequest, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT request_id, user_email, agent_email, amount, status, created_at, resolved_at
		FROM requests
		WHERE status = $1
		ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to list requests", err)
	}
	defer rows.Close()

	var requests []model.PendingRequest
	for rows.Next() {
		req := model.PendingRequest{}
		var resolvedAt sql.NullTime
		err = rows.Scan(&req.RequestID, &req.UserEmail, &req.AgentEmail, &req.AmountMinor, &req.Status, &req.CreatedAt, &resolvedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan request", err)
		}
		if resolvedAt.Valid {
			req.ResolvedAt = &resolvedAt.Time
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to list requests", err)
	}

	return requests, nil
}

// ResolveRequest transitions a pending request to its terminal status. The
// WHERE clause only matches pending rows, so a request can leave pending
// exactly once; resolving an already-resolved request reports
// ALREADY_RESOLVED without touching the row.
func (d Datasource) ResolveRequest(ctx context.Context, id, newStatus string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE requests
		SET status = $2, resolved_at = NOW()
		WHERE request_id = $1 AND status = 'pending'
	`, id, newStatus)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to resolve request", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrAlreadyResolved, fmt.Sprintf("Request '%s' has already been resolved", id), nil)
	}
	return nil
}

// ApproveRequest applies an approved cash-in as one unit of work: flip the
// request out of pending, debit the agent, credit the requester, and append
// the transaction record. If any step fails the whole approval aborts, which
// also means two racing approvals can never both move money: only one of
// them matches the pending row.
func (d Datasource) ApproveRequest(ctx context.Context, id string, transfer *model.AuthorizedTransfer, source, destination *model.Account) (*model.Transaction, error) {
	tx, err := d.Conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelDefault})
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	result, err := tx.ExecContext(ctx, `
		UPDATE requests
		SET status = $2, resolved_at = NOW()
		WHERE request_id = $1 AND status = 'pending'
	`, id, model.RequestApproved)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to resolve request", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return nil, apierror.NewAPIError(apierror.ErrAlreadyResolved, fmt.Sprintf("Request '%s' has already been resolved", id), nil)
	}

	txn, err := applyTransferTx(ctx, tx, transfer, source, destination)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}

	commitTransferToAccounts(transfer, source, destination)
	return txn, nil
}
