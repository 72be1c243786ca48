package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/swiftpay/swiftpay/internal/apierror"
	"github.com/swiftpay/swiftpay/model"
)

// CreateAccount inserts a new account row. The email is the natural key; a
// duplicate registration surfaces as a conflict, not an internal error.
func (d Datasource) CreateAccount(ctx context.Context, account model.Account) (model.Account, error) {
	metaDataJSON, err := json.Marshal(account.MetaData)
	if err != nil {
		return model.Account{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	account.AccountID = model.GenerateUUIDWithSuffix("acc")
	account.CreatedAt = time.Now()

	_, err = d.Conn.ExecContext(ctx,
		`INSERT INTO accounts (account_id, email, name, role, balance, pin_hash, created_at, meta_data) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		account.AccountID, account.Email, account.Name, account.Role, account.BalanceMinor, account.PINHash, account.CreatedAt, metaDataJSON,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.Account{}, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Account with email '%s' already exists", account.Email), err)
		}
		return model.Account{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create account", err)
	}

	return account, nil
}

func (d Datasource) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT account_id, email, name, role, balance, pin_hash, version, created_at, meta_data
		FROM accounts
		WHERE email = $1
	`, email)

	account := &model.Account{}
	var metaDataJSON []byte
	err := row.Scan(&account.AccountID, &account.Email, &account.Name, &account.Role, &account.BalanceMinor, &account.PINHash, &account.Version, &account.CreatedAt, &metaDataJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Account with email '%s' not found", email), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve account", err)
	}

	if len(metaDataJSON) > 0 {
		if err := json.Unmarshal(metaDataJSON, &account.MetaData); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
		}
	}

	return account, nil
}

func (d Datasource) GetAccountsByRole(ctx context.Context, role string) ([]model.Account, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT account_id, email, name, role, balance, version, created_at
		FROM accounts
		WHERE role = $1
		ORDER BY created_at DESC
	`, role)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to list accounts", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		account := model.Account{}
		err = rows.Scan(&account.AccountID, &account.Email, &account.Name, &account.Role, &account.BalanceMinor, &account.Version, &account.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan account", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to list accounts", err)
	}

	return accounts, nil
}

// ApplyTransfer executes an authorized transfer as one unit of work: debit
// the sender, credit the recipient, and append the transaction record. All
// three commit together or not at all. Both balance updates carry the version
// the engine loaded under its account locks; a zero-row update means another
// writer got there first and the whole unit aborts with a conflict.
func (d Datasource) ApplyTransfer(ctx context.Context, transfer *model.AuthorizedTransfer, source, destination *model.Account) (*model.Transaction, error) {
	tx, err := d.Conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelDefault})
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

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

// applyTransferTx runs the three effects of a transfer inside an open
// database transaction: debit, credit, log append.
func applyTransferTx(ctx context.Context, tx *sql.Tx, transfer *model.AuthorizedTransfer, source, destination *model.Account) (*model.Transaction, error) {
	if err := debitAccount(ctx, tx, source, transfer.TotalDebitMinor()); err != nil {
		return nil, err
	}
	if err := creditAccount(ctx, tx, destination, transfer.CreditMinor()); err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		TransactionID: model.GenerateUUIDWithSuffix("txn"),
		Email:         transfer.Sender,
		AmountMinor:   transfer.AmountMinor,
		FeeMinor:      transfer.FeeMinor,
		Kind:          transfer.Kind,
		Description:   transfer.Description,
		Sender:        transfer.Sender,
		Recipient:     transfer.Recipient,
		CreatedAt:     time.Now(),
	}
	metaDataJSON, err := json.Marshal(txn.MetaData)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (transaction_id, email, amount, fee, type, description, sender, recipient, created_at, meta_data) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		txn.TransactionID, txn.Email, txn.AmountMinor, txn.FeeMinor, txn.Kind, txn.Description, txn.Sender, txn.Recipient, txn.CreatedAt, metaDataJSON,
	)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record transaction", err)
	}

	return txn, nil
}

// commitTransferToAccounts folds a committed transfer into the in-memory
// account copies so callers observe the post-commit state.
func commitTransferToAccounts(transfer *model.AuthorizedTransfer, source, destination *model.Account) {
	source.BalanceMinor -= transfer.TotalDebitMinor()
	source.Version++
	destination.BalanceMinor += transfer.CreditMinor()
	destination.Version++
}

// debitAccount subtracts from a balance under the optimistic version check.
// The balance guard in the WHERE clause keeps the non-negative invariant even
// if the version somehow raced past the engine's re-validation.
func debitAccount(ctx context.Context, tx *sql.Tx, account *model.Account, amountMinor int64) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = balance - $2, version = version + 1
		WHERE email = $1 AND version = $3 AND balance >= $2
	`, account.Email, amountMinor, account.Version)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to debit account", err)
	}
	return checkAffected(result, account.Email)
}

func creditAccount(ctx context.Context, tx *sql.Tx, account *model.Account, amountMinor int64) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = balance + $2, version = version + 1
		WHERE email = $1 AND version = $3
	`, account.Email, amountMinor, account.Version)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to credit account", err)
	}
	return checkAffected(result, account.Email)
}

func checkAffected(result sql.Result, email string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Account '%s' was modified by a concurrent transfer", email), nil)
	}
	return nil
}
