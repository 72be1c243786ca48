package swiftpay

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/swiftpay/swiftpay/config"
	"github.com/swiftpay/swiftpay/internal/apierror"
	"github.com/swiftpay/swiftpay/model"
)

// RegisterParams carries the details for a new wallet account. PIN arrives in
// the clear and is hashed before it ever reaches the store.
type RegisterParams struct {
	Email          string
	Name           string
	Role           string
	PIN            string
	OpeningBalance string
}

// CreateAccount registers a new wallet account with a hashed PIN and an
// optional opening balance.
func (s *SwiftPay) CreateAccount(ctx context.Context, params RegisterParams) (*model.Account, error) {
	if !model.ValidRole(params.Role) {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Role must be one of admin, user, agent", nil)
	}

	var openingMinor int64
	if params.OpeningBalance != "" {
		minor, err := model.ParseAmount(params.OpeningBalance)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInvalidAmount, err.Error(), nil)
		}
		openingMinor = minor
	}

	pinHash, err := s.hasher.Hash(params.PIN)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Invalid PIN", err)
	}

	account, err := s.datasource.CreateAccount(ctx, model.Account{
		Email:        params.Email,
		Name:         params.Name,
		Role:         params.Role,
		BalanceMinor: openingMinor,
		PINHash:      pinHash,
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("account %s registered for %s with role %s", account.AccountID, account.Email, account.Role)
	return &account, nil
}

// GetAccount returns the account for the given email.
func (s *SwiftPay) GetAccount(ctx context.Context, email string) (*model.Account, error) {
	return s.datasource.GetAccountByEmail(ctx, email)
}

// ListAccountsByRole returns all accounts holding the given role.
func (s *SwiftPay) ListAccountsByRole(ctx context.Context, role string) ([]model.Account, error) {
	if !model.ValidRole(role) {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Role must be one of admin, user, agent", nil)
	}
	return s.datasource.GetAccountsByRole(ctx, role)
}

// RoleFlags reports which role an identity holds. An unknown identity gets
// all-false flags rather than an error, matching the legacy role lookup the
// wallet frontend depends on.
func (s *SwiftPay) RoleFlags(ctx context.Context, email string) (model.RoleFlags, error) {
	account, err := s.datasource.GetAccountByEmail(ctx, email)
	if err != nil {
		if apierror.IsCode(err, apierror.ErrNotFound) {
			return model.RoleFlags{}, nil
		}
		return model.RoleFlags{}, err
	}
	return model.RoleFlags{
		Admin: account.Role == model.RoleAdmin,
		User:  account.Role == model.RoleUser,
		Agent: account.Role == model.RoleAgent,
	}, nil
}

// GetBalance returns the current balance in minor units. Reads go through
// the cache; the ledger engine invalidates entries on every commit, so the
// cache can only ever serve a value the store held within the TTL window.
func (s *SwiftPay) GetBalance(ctx context.Context, email string) (int64, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return 0, err
	}

	var cached int64
	hit, err := s.cache.Get(ctx, balanceCacheKey(email), &cached)
	if err != nil {
		logrus.Warnf("balance cache read failed for %s: %v", email, err)
	} else if hit {
		return cached, nil
	}

	account, err := s.datasource.GetAccountByEmail(ctx, email)
	if err != nil {
		return 0, err
	}

	if err := s.cache.Set(ctx, balanceCacheKey(email), account.BalanceMinor, cnf.BalanceCacheTTL()); err != nil {
		logrus.Warnf("balance cache write failed for %s: %v", email, err)
	}

	return account.BalanceMinor, nil
}

// RecentTransactions returns the newest transactions for an identity, newest
// first. A non-positive limit falls back to the configured default.
func (s *SwiftPay) RecentTransactions(ctx context.Context, email string, limit int) ([]model.Transaction, error) {
	if limit <= 0 {
		cnf, err := config.Fetch()
		if err != nil {
			return nil, err
		}
		limit = cnf.Ledger.HistoryLimitSize
	}
	return s.datasource.GetRecentTransactions(ctx, email, limit)
}
