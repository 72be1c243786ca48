package swiftpay

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/swiftpay/swiftpay/config"
	"github.com/swiftpay/swiftpay/internal/apierror"
	redlock "github.com/swiftpay/swiftpay/internal/lock"
	"github.com/swiftpay/swiftpay/model"
)

func logAndRecordError(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	logrus.Error(msg, err)
	return err
}

// Apply executes an authorized transfer as a single atomic unit: debit the
// sender, credit the recipient, append one transaction record. Both accounts
// are locked (in deterministic order) for the duration, and the sender's
// funds are re-validated under the lock, so the authorize/apply pair is
// indivisible with respect to other transfers touching the same accounts.
func (s *SwiftPay) Apply(ctx context.Context, transfer *model.AuthorizedTransfer) (*model.Transaction, error) {
	return s.applyTransfer(ctx, transfer, "")
}

func (s *SwiftPay) applyTransfer(ctx context.Context, transfer *model.AuthorizedTransfer, requestID string) (*model.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Applying transfer")
	defer span.End()

	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	locker := redlock.NewAccountLocker(s.redis, model.GenerateUUIDWithSuffix("loc"), transfer.Sender, transfer.Recipient)
	if err := locker.Lock(ctx, cnf.LockDuration(), cnf.LockWait()); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrConflict, "Accounts are busy with another transfer", err)
	}
	defer func(locker *redlock.AccountLocker, ctx context.Context) {
		if err := locker.Unlock(ctx); err != nil {
			logrus.Error("lock error", err)
		}
	}(locker, ctx)

	// reload under the lock: the authorization snapshot may be stale
	source, err := s.datasource.GetAccountByEmail(ctx, transfer.Sender)
	if err != nil {
		return nil, logAndRecordError(span, "source account error: ", err)
	}
	destination, err := s.datasource.GetAccountByEmail(ctx, transfer.Recipient)
	if err != nil {
		return nil, logAndRecordError(span, "destination account error: ", err)
	}

	if !source.CanDebit(transfer.TotalDebitMinor()) {
		return nil, apierror.NewAPIError(apierror.ErrInsufficientFunds, "Insufficient balance", nil)
	}

	var txn *model.Transaction
	if requestID != "" {
		txn, err = s.datasource.ApproveRequest(ctx, requestID, transfer, source, destination)
	} else {
		txn, err = s.datasource.ApplyTransfer(ctx, transfer, source, destination)
	}
	if err != nil {
		return nil, logAndRecordError(span, "commit transfer error: ", err)
	}

	s.invalidateBalances(ctx, transfer.Sender, transfer.Recipient)

	return txn, nil
}

// authorizeAndApply runs the full authorize+apply sequence, retrying the
// whole sequence on a concurrent-balance conflict. Conflicts signal a
// transient race, so the balances are re-read on each attempt; every other
// failure is permanent and surfaces unchanged. Attempts are capped by
// configuration before the conflict is reported to the caller.
func (s *SwiftPay) authorizeAndApply(ctx context.Context, params TransferParams) (*model.Transaction, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	var txn *model.Transaction
	operation := func() error {
		transfer, err := s.Authorize(ctx, params)
		if err != nil {
			return backoff.Permanent(err)
		}
		result, err := s.Apply(ctx, transfer)
		if err != nil {
			if apierror.IsCode(err, apierror.ErrConflict) {
				return err
			}
			return backoff.Permanent(err)
		}
		txn = result
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(cnf.Ledger.MaxRetries))
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return txn, nil
}

// SendMoney moves funds between two wallet users. Transfers above 100 units
// carry the flat 5-unit fee; the fee is retained by the operator.
func (s *SwiftPay) SendMoney(ctx context.Context, sender, recipient, amount, pin string) (*model.Transaction, error) {
	return s.authorizeAndApply(ctx, TransferParams{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		PIN:       pin,
		Kind:      model.TypeTransfer,
	})
}

// CashOut converts wallet balance to cash through an agent. The user pays
// amount plus the 1.5% commission; the agent receives both.
func (s *SwiftPay) CashOut(ctx context.Context, userEmail, agentEmail, amount, pin string) (*model.Transaction, error) {
	return s.authorizeAndApply(ctx, TransferParams{
		Sender:    userEmail,
		Recipient: agentEmail,
		Amount:    amount,
		PIN:       pin,
		Kind:      model.TypeCashOut,
	})
}
