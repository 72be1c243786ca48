package redlock

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "swiftpay:lock:"

type Locker struct {
	client redis.UniversalClient
	key    string
	value  string // Used for ensuring that only the lock holder can unlock or renew the lock
}

func NewLocker(client redis.UniversalClient, key, value string) *Locker {
	return &Locker{
		client: client,
		key:    keyPrefix + key,
		value:  value,
	}
}

func (l *Locker) Lock(ctx context.Context, timeout time.Duration) error {
	success, err := l.client.SetNX(ctx, l.key, l.value, timeout).Result()
	if err != nil {
		return err
	}
	if !success {
		return fmt.Errorf("lock for key %s is already held", l.key)
	}
	return nil
}

func (l *Locker) Unlock(ctx context.Context) error {
	script := "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"
	result, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	if err != nil {
		return err
	}
	if result == int64(0) {
		return fmt.Errorf("unlock failed, either lock expired or you're not the lock holder for key %s", l.key)
	}
	return nil
}

func (l *Locker) WaitLock(ctx context.Context, lockTimeout, waitTimeout time.Duration) error {
	deadline := time.Now().Add(waitTimeout)
	for {
		err := l.Lock(ctx, lockTimeout)
		if err == nil {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("failed to acquire lock for key %s within the wait timeout", l.key)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(rand.Intn(100)) * time.Millisecond):
		}
	}
}

// AccountLocker serializes access to a pair of accounts. Keys are always
// taken in lexicographic order so two movements touching the same accounts
// can never deadlock each other.
type AccountLocker struct {
	lockers []*Locker
}

// NewAccountLocker builds lockers for the given account identities, sorted
// and de-duplicated.
func NewAccountLocker(client redis.UniversalClient, value string, identities ...string) *AccountLocker {
	keys := append([]string(nil), identities...)
	sort.Strings(keys)
	lockers := make([]*Locker, 0, len(keys))
	var prev string
	for i, key := range keys {
		if i > 0 && key == prev {
			continue
		}
		prev = key
		lockers = append(lockers, NewLocker(client, key, value))
	}
	return &AccountLocker{lockers: lockers}
}

// Lock acquires all account locks in order, releasing any already held on
// failure so a partial acquisition never leaks.
func (a *AccountLocker) Lock(ctx context.Context, lockTimeout, waitTimeout time.Duration) error {
	for i, locker := range a.lockers {
		if err := locker.WaitLock(ctx, lockTimeout, waitTimeout); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = a.lockers[j].Unlock(ctx)
			}
			return err
		}
	}
	return nil
}

// Unlock releases all held locks in reverse acquisition order. The first
// failure is reported but every lock is still attempted.
func (a *AccountLocker) Unlock(ctx context.Context) error {
	var firstErr error
	for i := len(a.lockers) - 1; i >= 0; i-- {
		if err := a.lockers[i].Unlock(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
