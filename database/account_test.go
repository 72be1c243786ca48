package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/swiftpay/swiftpay/internal/apierror"
	"github.com/swiftpay/swiftpay/model"
)

func TestCreateAccount_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	account := model.Account{
		Email:        gofakeit.Email(),
		Name:         gofakeit.Name(),
		Role:         model.RoleUser,
		BalanceMinor: 4000,
		PINHash:      "$2a$10$fakehash",
	}

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(sqlmock.AnyArg(), account.Email, account.Name, account.Role, account.BalanceMinor, account.PINHash, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := ds.CreateAccount(context.Background(), account)
	assert.NoError(t, err)
	assert.NotEmpty(t, created.AccountID)
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("INSERT INTO accounts").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err = ds.CreateAccount(context.Background(), model.Account{Email: "alice@swiftpay.app", Name: "Alice", Role: model.RoleUser, PINHash: "x"})
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrConflict, apierror.Code(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccountByEmail_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	rows := sqlmock.NewRows([]string{"account_id", "email", "name", "role", "balance", "pin_hash", "version", "created_at", "meta_data"}).
		AddRow("acc_1", "alice@swiftpay.app", "Alice", "user", 20000, "$2a$10$fakehash", 3, time.Now(), []byte(`{"kyc":"passed"}`))

	mock.ExpectQuery("SELECT .* FROM accounts WHERE email = \\$1").
		WithArgs("alice@swiftpay.app").
		WillReturnRows(rows)

	account, err := ds.GetAccountByEmail(context.Background(), "alice@swiftpay.app")
	assert.NoError(t, err)
	assert.Equal(t, int64(20000), account.BalanceMinor)
	assert.Equal(t, int64(3), account.Version)
	assert.Equal(t, "passed", account.MetaData["kyc"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccountByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT .* FROM accounts WHERE email = \\$1").
		WithArgs("ghost@swiftpay.app").
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}))

	_, err = ds.GetAccountByEmail(context.Background(), "ghost@swiftpay.app")
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrNotFound, apierror.Code(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccountsByRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	rows := sqlmock.NewRows([]string{"account_id", "email", "name", "role", "balance", "version", "created_at"}).
		AddRow("acc_1", "agent1@swiftpay.app", "Agent One", "agent", 500000, 0, time.Now()).
		AddRow("acc_2", "agent2@swiftpay.app", "Agent Two", "agent", 250000, 0, time.Now())

	mock.ExpectQuery("SELECT .* FROM accounts WHERE role = \\$1").
		WithArgs(model.RoleAgent).
		WillReturnRows(rows)

	agents, err := ds.GetAccountsByRole(context.Background(), model.RoleAgent)
	assert.NoError(t, err)
	assert.Len(t, agents, 2)
	assert.Equal(t, "agent1@swiftpay.app", agents[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func transferFixture() (*model.AuthorizedTransfer, *model.Account, *model.Account) {
	transfer := &model.AuthorizedTransfer{
		Sender:      "alice@swiftpay.app",
		Recipient:   "bob@swiftpay.app",
		AmountMinor: 15000,
		FeeMinor:    500,
		Kind:        model.TypeTransfer,
		Description: model.TransferDescription(15000, "bob@swiftpay.app"),
	}
	source := &model.Account{Email: "alice@swiftpay.app", BalanceMinor: 20000, Version: 2}
	destination := &model.Account{Email: "bob@swiftpay.app", BalanceMinor: 5000, Version: 7}
	return transfer, source, destination
}

func TestApplyTransfer_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	transfer, source, destination := transferFixture()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET balance = balance - .* WHERE email = \\$1 AND version = \\$3").
		WithArgs(source.Email, transfer.TotalDebitMinor(), source.Version).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE accounts SET balance = balance \\+ .* WHERE email = \\$1 AND version = \\$3").
		WithArgs(destination.Email, transfer.CreditMinor(), destination.Version).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(sqlmock.AnyArg(), transfer.Sender, transfer.AmountMinor, transfer.FeeMinor, transfer.Kind, transfer.Description, transfer.Sender, transfer.Recipient, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	txn, err := ds.ApplyTransfer(context.Background(), transfer, source, destination)
	assert.NoError(t, err)
	assert.NotEmpty(t, txn.TransactionID)
	// scenario B arithmetic: 200 - (150 + 5) = 45, 50 + 150 = 200
	assert.Equal(t, int64(4500), source.BalanceMinor)
	assert.Equal(t, int64(20000), destination.BalanceMinor)
	assert.Equal(t, int64(3), source.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransfer_ConflictRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	transfer, source, destination := transferFixture()

	mock.ExpectBegin()
	// the debit matches zero rows: another transfer bumped the version
	mock.ExpectExec("UPDATE accounts SET balance = balance - .*").
		WithArgs(source.Email, transfer.TotalDebitMinor(), source.Version).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = ds.ApplyTransfer(context.Background(), transfer, source, destination)
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrConflict, apierror.Code(err))
	// nothing moved
	assert.Equal(t, int64(20000), source.BalanceMinor)
	assert.Equal(t, int64(5000), destination.BalanceMinor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransfer_RecordFailureAbortsBalances(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	transfer, source, destination := transferFixture()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET balance = balance - .*").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE accounts SET balance = balance \\+ .*").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// fault injection: the log append fails after both balance updates
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err = ds.ApplyTransfer(context.Background(), transfer, source, destination)
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrInternalServer, apierror.Code(err))
	assert.Equal(t, int64(20000), source.BalanceMinor)
	assert.Equal(t, int64(5000), destination.BalanceMinor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransfer_CommitFailureAbortsBalances(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	transfer, source, destination := transferFixture()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET balance = balance - .*").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE accounts SET balance = balance \\+ .*").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("connection reset"))

	_, err = ds.ApplyTransfer(context.Background(), transfer, source, destination)
	assert.Error(t, err)
	assert.Equal(t, int64(20000), source.BalanceMinor)
	assert.Equal(t, int64(5000), destination.BalanceMinor)
	assert.NoError(t, mock.ExpectationsWereMet())
}
