// Package request defines the inbound payloads accepted at the wallet
// boundary and their validation rules. The engine trusts nothing until a
// payload has passed its Validate method.
package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

func positiveAmount(value interface{}) error {
	amount, ok := value.(string)
	if !ok {
		return errors.New("amount must be a string")
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return errors.New("amount must be a decimal number")
	}
	if !d.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	return nil
}

type RegisterAccount struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	PIN            string `json:"pin"`
	OpeningBalance string `json:"opening_balance,omitempty"`
}

func (r *RegisterAccount) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Role, validation.Required, validation.In("admin", "user", "agent")),
		validation.Field(&r.PIN, validation.Required, validation.Length(4, 6), is.Digit),
		validation.Field(&r.OpeningBalance, validation.By(func(value interface{}) error {
			if r.OpeningBalance == "" {
				return nil
			}
			return positiveAmount(value)
		})),
	)
}

type SendMoney struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	PIN       string `json:"pin"`
}

func (s *SendMoney) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Sender, validation.Required, is.Email),
		validation.Field(&s.Recipient, validation.Required, is.Email, validation.By(func(interface{}) error {
			if s.Sender != "" && s.Sender == s.Recipient {
				return errors.New("recipient must differ from sender")
			}
			return nil
		})),
		validation.Field(&s.Amount, validation.Required, validation.By(positiveAmount)),
		validation.Field(&s.PIN, validation.Required),
	)
}

type CashOut struct {
	User   string `json:"user"`
	Agent  string `json:"agent"`
	Amount string `json:"amount"`
	PIN    string `json:"pin"`
}

func (c *CashOut) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.User, validation.Required, is.Email),
		validation.Field(&c.Agent, validation.Required, is.Email),
		validation.Field(&c.Amount, validation.Required, validation.By(positiveAmount)),
		validation.Field(&c.PIN, validation.Required),
	)
}

type CashIn struct {
	User   string `json:"user"`
	Agent  string `json:"agent"`
	Amount string `json:"amount"`
}

func (c *CashIn) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.User, validation.Required, is.Email),
		validation.Field(&c.Agent, validation.Required, is.Email),
		validation.Field(&c.Amount, validation.Required, validation.By(positiveAmount)),
	)
}

type ResolveCashIn struct {
	RequestID string `json:"request_id"`
	Agent     string `json:"agent"`
}

func (r *ResolveCashIn) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RequestID, validation.Required),
		validation.Field(&r.Agent, validation.Required, is.Email),
	)
}
