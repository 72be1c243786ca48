package swiftpay

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/swiftpay/swiftpay/internal/apierror"
	"github.com/swiftpay/swiftpay/model"
)

func TestCreateAccount(t *testing.T) {
	engine, mock := newTestEngine(t)

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(sqlmock.AnyArg(), "alice@swiftpay.app", "Alice", model.RoleUser, int64(20000), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	account, err := engine.CreateAccount(context.Background(), RegisterParams{
		Email:          "alice@swiftpay.app",
		Name:           "Alice",
		Role:           model.RoleUser,
		PIN:            "1234",
		OpeningBalance: "200",
	})
	require.NoError(t, err)
	assert.Contains(t, account.AccountID, "acc_")
	assert.Equal(t, int64(20000), account.BalanceMinor)

	// the stored credential is a digest of the PIN, never the PIN itself
	assert.NotEqual(t, "1234", account.PINHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PINHash), []byte("1234")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_InvalidRole(t *testing.T) {
	engine, mock := newTestEngine(t)

	_, err := engine.CreateAccount(context.Background(), RegisterParams{
		Email: "alice@swiftpay.app",
		Name:  "Alice",
		Role:  "superuser",
		PIN:   "1234",
	})
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrBadRequest, apierror.Code(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_InvalidOpeningBalance(t *testing.T) {
	engine, mock := newTestEngine(t)

	_, err := engine.CreateAccount(context.Background(), RegisterParams{
		Email:          "alice@swiftpay.app",
		Name:           "Alice",
		Role:           model.RoleUser,
		PIN:            "1234",
		OpeningBalance: "-10",
	})
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrInvalidAmount, apierror.Code(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleFlags(t *testing.T) {
	engine, mock := newTestEngine(t)
	pinHash := hashPIN(t, "1234")

	expectAccountFetch(mock, "agent@swiftpay.app", "agent", 0, 0, pinHash)

	flags, err := engine.RoleFlags(context.Background(), "agent@swiftpay.app")
	require.NoError(t, err)
	assert.False(t, flags.Admin)
	assert.False(t, flags.User)
	assert.True(t, flags.Agent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An unknown identity is not an error for the role lookup; it just holds no
// role at all.
func TestRoleFlags_UnknownIdentity(t *testing.T) {
	engine, mock := newTestEngine(t)

	expectMissingAccount(mock, "ghost@swiftpay.app")

	flags, err := engine.RoleFlags(context.Background(), "ghost@swiftpay.app")
	require.NoError(t, err)
	assert.Equal(t, model.RoleFlags{}, flags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBalance_CachesReads(t *testing.T) {
	engine, mock := newTestEngine(t)
	pinHash := hashPIN(t, "1234")

	// a single store read serves both calls
	expectAccountFetch(mock, "alice@swiftpay.app", "user", 20000, 0, pinHash)

	balance, err := engine.GetBalance(context.Background(), "alice@swiftpay.app")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), balance)

	balance, err = engine.GetBalance(context.Background(), "alice@swiftpay.app")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBalance_UnknownAccount(t *testing.T) {
	engine, mock := newTestEngine(t)

	expectMissingAccount(mock, "ghost@swiftpay.app")

	_, err := engine.GetBalance(context.Background(), "ghost@swiftpay.app")
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrNotFound, apierror.Code(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentTransactions_DefaultLimit(t *testing.T) {
	engine, mock := newTestEngine(t)

	columns := []string{"transaction_id", "email", "amount", "fee", "type", "description", "sender", "recipient", "created_at"}
	mock.ExpectQuery("SELECT .* FROM transactions WHERE email = \\$1").
		WithArgs("alice@swiftpay.app", 10).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("txn_1", "alice@swiftpay.app", int64(8000), int64(0), model.TypeTransfer, "Sent 80 Taka to bob@swiftpay.app", "alice@swiftpay.app", "bob@swiftpay.app", time.Now()))

	transactions, err := engine.RecentTransactions(context.Background(), "alice@swiftpay.app", 0)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "txn_1", transactions[0].TransactionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAccountsByRole_InvalidRole(t *testing.T) {
	engine, mock := newTestEngine(t)

	_, err := engine.ListAccountsByRole(context.Background(), "villain")
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrBadRequest, apierror.Code(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
