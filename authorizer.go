package swiftpay

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/swiftpay/swiftpay/internal/apierror"
	"github.com/swiftpay/swiftpay/model"
)

var tracer = otel.Tracer("swiftpay.ledger")

// TransferParams is the raw input to an authorization. Amount is a decimal
// string; it is not trusted until ParseAmount accepts it.
type TransferParams struct {
	Sender    string
	Recipient string
	Amount    string
	PIN       string
	Kind      string
}

// Authorize validates a transfer request against the static rules, in order,
// stopping at the first failure: account existence, credential, amount floor,
// fee, funds. On success it returns an immutable AuthorizedTransfer carrying
// everything Apply needs; no rule is re-checked downstream except the funds
// re-validation inside the unit of work.
func (s *SwiftPay) Authorize(ctx context.Context, params TransferParams) (*model.AuthorizedTransfer, error) {
	ctx, span := tracer.Start(ctx, "Authorizing transfer")
	defer span.End()

	sender, err := s.datasource.GetAccountByEmail(ctx, params.Sender)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if _, err := s.datasource.GetAccountByEmail(ctx, params.Recipient); err != nil {
		span.RecordError(err)
		return nil, err
	}

	// A cash-in is authorized by the agent's explicit approval decision, not
	// by a PIN; every sender-initiated kind must prove control of the account.
	if params.Kind != model.TypeCashIn {
		if !s.verifier.Verify(sender.PINHash, params.PIN) {
			return nil, apierror.NewAPIError(apierror.ErrInvalidCredential, "Invalid PIN", nil)
		}
	}

	amountMinor, err := model.ParseAmount(params.Amount)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidAmount, err.Error(), nil)
	}

	var feeMinor int64
	var description string
	switch params.Kind {
	case model.TypeTransfer:
		if amountMinor < model.MinimumTransferMinor {
			return nil, apierror.NewAPIError(apierror.ErrAmountBelowMinimum, "Minimum transaction amount is 50 Taka", nil)
		}
		feeMinor = model.TransferFee(amountMinor)
		description = model.TransferDescription(amountMinor, params.Recipient)
	case model.TypeCashOut:
		feeMinor = model.CashOutFee(amountMinor)
		description = model.CashOutDescription(amountMinor, params.Recipient)
	case model.TypeCashIn:
		// the agent absorbs the float, no fee
		description = model.CashInDescription(amountMinor)
	default:
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, fmt.Sprintf("Unknown transaction type '%s'", params.Kind), nil)
	}

	if !sender.CanDebit(amountMinor + feeMinor) {
		return nil, apierror.NewAPIError(apierror.ErrInsufficientFunds, "Insufficient balance", nil)
	}

	return &model.AuthorizedTransfer{
		Sender:      params.Sender,
		Recipient:   params.Recipient,
		AmountMinor: amountMinor,
		FeeMinor:    feeMinor,
		Kind:        params.Kind,
		Description: description,
	}, nil
}
