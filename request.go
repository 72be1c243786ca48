package swiftpay

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/swiftpay/swiftpay/internal/apierror"
	"github.com/swiftpay/swiftpay/model"
)

// CreateCashInRequest records a user's cash-in proposal addressed to an
// agent. Both identities must exist and the amount must be positive; no
// balance is touched until the agent approves.
func (s *SwiftPay) CreateCashInRequest(ctx context.Context, userEmail, agentEmail, amount string) (*model.PendingRequest, error) {
	amountMinor, err := model.ParseAmount(amount)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidAmount, err.Error(), nil)
	}

	if _, err := s.datasource.GetAccountByEmail(ctx, userEmail); err != nil {
		return nil, err
	}
	if _, err := s.datasource.GetAccountByEmail(ctx, agentEmail); err != nil {
		return nil, err
	}

	req, err := s.datasource.CreateRequest(ctx, model.PendingRequest{
		UserEmail:   userEmail,
		AgentEmail:  agentEmail,
		AmountMinor: amountMinor,
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("cash-in request %s created: %s Taka from %s to %s", req.RequestID, model.FormatAmount(amountMinor), agentEmail, userEmail)
	return &req, nil
}

// ApproveCashIn resolves a pending request in the agent's favor. The agent's
// balance funds the cash-in, so the approval runs through the same
// authorize+apply path as any other transfer; if authorization fails (for
// example the agent cannot cover the amount) the request stays pending and
// the specific error is reported. The status flip and the ledger effects
// commit in one unit of work.
func (s *SwiftPay) ApproveCashIn(ctx context.Context, requestID, agentEmail string) (*model.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Approving cash-in request")
	defer span.End()

	req, err := s.datasource.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.AgentEmail != agentEmail {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "Request not found for this agent", nil)
	}
	if req.Resolved() {
		return nil, apierror.NewAPIError(apierror.ErrAlreadyResolved, "Request has already been resolved", nil)
	}

	transfer, err := s.Authorize(ctx, TransferParams{
		Sender:    req.AgentEmail,
		Recipient: req.UserEmail,
		Amount:    model.FormatAmount(req.AmountMinor),
		Kind:      model.TypeCashIn,
	})
	if err != nil {
		// the request is not consumed; the agent can retry once funded
		return nil, logAndRecordError(span, "cash-in authorization failed: ", err)
	}

	return s.applyTransfer(ctx, transfer, requestID)
}

// RejectCashIn resolves a pending request against the user. No ledger effect.
func (s *SwiftPay) RejectCashIn(ctx context.Context, requestID, agentEmail string) error {
	req, err := s.datasource.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.AgentEmail != agentEmail {
		return apierror.NewAPIError(apierror.ErrNotFound, "Request not found for this agent", nil)
	}

	return s.datasource.ResolveRequest(ctx, requestID, model.RequestRejected)
}

// GetRequest returns a single cash-in request by ID.
func (s *SwiftPay) GetRequest(ctx context.Context, requestID string) (*model.PendingRequest, error) {
	return s.datasource.GetRequest(ctx, requestID)
}

// ListPendingRequests returns the unresolved cash-in queue, newest first.
func (s *SwiftPay) ListPendingRequests(ctx context.Context) ([]model.PendingRequest, error) {
	return s.ListRequests(ctx, model.RequestPending)
}

// ListRequests returns cash-in requests in the given status, newest first.
func (s *SwiftPay) ListRequests(ctx context.Context, status string) ([]model.PendingRequest, error) {
	switch status {
	case model.RequestPending, model.RequestApproved, model.RequestRejected:
	default:
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, fmt.Sprintf("Unknown request status '%s'", status), nil)
	}
	return s.datasource.ListRequestsByStatus(ctx, status)
}
