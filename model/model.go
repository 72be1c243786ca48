package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyMultiplier is the number of minor units in one display unit of the
// wallet currency. All arithmetic in the engine happens on int64 minor units;
// decimal strings only exist at the boundary.
const CurrencyMultiplier = 100

const (
	// MinimumTransferMinor is the floor for peer transfers (50 units).
	MinimumTransferMinor int64 = 50 * CurrencyMultiplier

	// TransferFeeThresholdMinor is the amount above which peer transfers
	// attract the flat fee (100 units).
	TransferFeeThresholdMinor int64 = 100 * CurrencyMultiplier

	// TransferFeeMinor is the flat peer-transfer fee (5 units).
	TransferFeeMinor int64 = 5 * CurrencyMultiplier
)

// cashOutFeeRate is the agent cash-out commission (1.5%).
var cashOutFeeRate = decimal.NewFromFloat(0.015)

// GenerateUUIDWithSuffix generates a UUID with a given module name as a suffix.
// This is useful for creating unique identifiers with context-specific prefixes.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}

// ParseAmount converts a decimal amount string ("150", "99.50") into minor
// units. It rejects values that are not positive or carry more precision than
// the currency supports.
func ParseAmount(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a valid number", amount)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount must be greater than zero")
	}
	minor := d.Mul(decimal.NewFromInt(CurrencyMultiplier))
	if !minor.IsInteger() {
		return 0, fmt.Errorf("amount %q has more precision than the currency supports", amount)
	}
	return minor.IntPart(), nil
}

// FormatAmount renders minor units back into a display-unit decimal string.
func FormatAmount(minor int64) string {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(CurrencyMultiplier)).String()
}

// TransferFee returns the flat peer-transfer fee for the given amount.
func TransferFee(amountMinor int64) int64 {
	if amountMinor > TransferFeeThresholdMinor {
		return TransferFeeMinor
	}
	return 0
}

// CashOutFee returns the 1.5% cash-out commission on the given amount,
// rounded half-up to the nearest minor unit so both ledger legs see the same
// integer fee.
func CashOutFee(amountMinor int64) int64 {
	fee := decimal.NewFromInt(amountMinor).Mul(cashOutFeeRate)
	return fee.Round(0).IntPart()
}
