package swiftpay

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/swiftpay/swiftpay/config"
	"github.com/swiftpay/swiftpay/database"
	"github.com/swiftpay/swiftpay/internal/cache"
	"github.com/swiftpay/swiftpay/internal/credential"
	redis_db "github.com/swiftpay/swiftpay/internal/redis-db"
)

// SwiftPay is the wallet ledger engine. All balance mutation flows through
// Apply; everything else is reads and the pending-request workflow.
type SwiftPay struct {
	datasource database.IDataSource
	redis      redis.UniversalClient
	cache      cache.Cache
	verifier   credential.Verifier
	hasher     credential.Hasher
}

// NewSwiftPay initializes the engine with the provided datasource, wiring the
// redis client, balance cache, and credential verifier from configuration.
func NewSwiftPay(db database.IDataSource) (*SwiftPay, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient(configuration.Redis.Dns)
	if err != nil {
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	bcryptVerifier := credential.NewBcryptVerifier()
	return &SwiftPay{
		datasource: db,
		redis:      redisClient.Client(),
		cache:      cache.NewCache(redisClient.Client()),
		verifier:   bcryptVerifier,
		hasher:     bcryptVerifier,
	}, nil
}

func balanceCacheKey(email string) string {
	return fmt.Sprintf("swiftpay:balance:%s", email)
}

// invalidateBalances drops cached balances after a commit. A stale read here
// only shortens the cache window, so failures are logged and not surfaced.
func (s *SwiftPay) invalidateBalances(ctx context.Context, emails ...string) {
	for _, email := range emails {
		if err := s.cache.Delete(ctx, balanceCacheKey(email)); err != nil {
			logrus.Warnf("failed to invalidate balance cache for %s: %v", email, err)
		}
	}
}
