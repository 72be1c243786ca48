package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAccountValidation(t *testing.T) {
	valid := RegisterAccount{Email: "alice@swiftpay.app", Name: "Alice", Role: "user", PIN: "1234", OpeningBalance: "200"}
	assert.NoError(t, valid.Validate())

	noBalance := valid
	noBalance.OpeningBalance = ""
	assert.NoError(t, noBalance.Validate())

	badRole := valid
	badRole.Role = "superuser"
	assert.Error(t, badRole.Validate())

	badPIN := valid
	badPIN.PIN = "12ab"
	assert.Error(t, badPIN.Validate())

	badEmail := valid
	badEmail.Email = "not-an-email"
	assert.Error(t, badEmail.Validate())

	badBalance := valid
	badBalance.OpeningBalance = "-5"
	assert.Error(t, badBalance.Validate())
}

func TestSendMoneyValidation(t *testing.T) {
	valid := SendMoney{Sender: "alice@swiftpay.app", Recipient: "bob@swiftpay.app", Amount: "80", PIN: "1234"}
	assert.NoError(t, valid.Validate())

	selfTransfer := valid
	selfTransfer.Recipient = selfTransfer.Sender
	assert.Error(t, selfTransfer.Validate())

	zeroAmount := valid
	zeroAmount.Amount = "0"
	assert.Error(t, zeroAmount.Validate())

	junkAmount := valid
	junkAmount.Amount = "eighty"
	assert.Error(t, junkAmount.Validate())

	noPIN := valid
	noPIN.PIN = ""
	assert.Error(t, noPIN.Validate())
}

func TestCashOutValidation(t *testing.T) {
	valid := CashOut{User: "alice@swiftpay.app", Agent: "agent@swiftpay.app", Amount: "1000", PIN: "1234"}
	assert.NoError(t, valid.Validate())

	negative := valid
	negative.Amount = "-1"
	assert.Error(t, negative.Validate())
}

func TestCashInValidation(t *testing.T) {
	valid := CashIn{User: "alice@swiftpay.app", Agent: "agent@swiftpay.app", Amount: "200"}
	assert.NoError(t, valid.Validate())

	missingAgent := valid
	missingAgent.Agent = ""
	assert.Error(t, missingAgent.Validate())
}

func TestResolveCashInValidation(t *testing.T) {
	valid := ResolveCashIn{RequestID: "req_1", Agent: "agent@swiftpay.app"}
	assert.NoError(t, valid.Validate())

	missingID := valid
	missingID.RequestID = ""
	assert.Error(t, missingID.Validate())
}
