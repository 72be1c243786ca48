package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

var ConfigStore atomic.Value

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"SWIFTPAY_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"SWIFTPAY_REDIS_DNS"`
}

// LedgerConfig tunes the engine. Durations are in seconds in the config
// file; zero values fall back to the defaults below.
type LedgerConfig struct {
	LockDurationSec  int `json:"lock_duration_sec" envconfig:"SWIFTPAY_LEDGER_LOCK_DURATION_SEC"`
	LockWaitSec      int `json:"lock_wait_sec" envconfig:"SWIFTPAY_LEDGER_LOCK_WAIT_SEC"`
	MaxRetries       int `json:"max_retries" envconfig:"SWIFTPAY_LEDGER_MAX_RETRIES"`
	BalanceCacheSec  int `json:"balance_cache_sec" envconfig:"SWIFTPAY_LEDGER_BALANCE_CACHE_SEC"`
	HistoryLimitSize int `json:"history_limit" envconfig:"SWIFTPAY_LEDGER_HISTORY_LIMIT"`
}

type Configuration struct {
	ProjectName string           `json:"project_name" envconfig:"SWIFTPAY_PROJECT_NAME"`
	DataSource  DataSourceConfig `json:"data_source"`
	Redis       RedisConfig      `json:"redis"`
	Ledger      LedgerConfig     `json:"ledger"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("swiftpay", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called swiftpay.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "SwiftPay"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Ledger.LockDurationSec <= 0 {
		cnf.Ledger.LockDurationSec = 60
	}
	if cnf.Ledger.LockWaitSec <= 0 {
		cnf.Ledger.LockWaitSec = 5
	}
	if cnf.Ledger.MaxRetries <= 0 {
		cnf.Ledger.MaxRetries = 3
	}
	if cnf.Ledger.BalanceCacheSec <= 0 {
		cnf.Ledger.BalanceCacheSec = 5
	}
	if cnf.Ledger.HistoryLimitSize <= 0 {
		cnf.Ledger.HistoryLimitSize = 10
	}

	return nil
}

// LockDuration is how long an account lock is held before expiring.
func (cnf *Configuration) LockDuration() time.Duration {
	return time.Duration(cnf.Ledger.LockDurationSec) * time.Second
}

// LockWait bounds how long an apply waits to acquire contended accounts.
func (cnf *Configuration) LockWait() time.Duration {
	return time.Duration(cnf.Ledger.LockWaitSec) * time.Second
}

// BalanceCacheTTL is the read-cache lifetime for balance lookups.
func (cnf *Configuration) BalanceCacheTTL() time.Duration {
	return time.Duration(cnf.Ledger.BalanceCacheSec) * time.Second
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
