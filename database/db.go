package database

import (
	"database/sql"
	"sync"

	"github.com/pkg/errors"

	_ "github.com/lib/pq"

	"github.com/swiftpay/swiftpay/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres connection")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "pinging postgres")
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the wallet schema if it does not exist yet.
func Migrate(db *sql.DB) error {
	if err := createAccountTable(db); err != nil {
		return err
	}
	if err := createTransactionTable(db); err != nil {
		return err
	}
	return createRequestTable(db)
}

// createAccountTable creates the PostgreSQL table for the Account struct.
// The CHECK on balance is the database-level backstop for the non-negative
// invariant; the version column backs optimistic balance updates.
func createAccountTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id SERIAL PRIMARY KEY,
			account_id TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('admin', 'user', 'agent')),
			balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
			pin_hash TEXT NOT NULL,
			version BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			meta_data JSONB
		)
	`)
	if err != nil {
		return errors.Wrap(err, "creating accounts table")
	}
	return nil
}

// createTransactionTable creates the PostgreSQL table for the Transaction struct.
func createTransactionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS transactions (
			id SERIAL PRIMARY KEY,
			transaction_id TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL,
			amount BIGINT NOT NULL,
			fee BIGINT NOT NULL DEFAULT 0,
			type TEXT NOT NULL CHECK (type IN ('transfer', 'cash-out', 'cash-in')),
			description TEXT,
			sender TEXT NOT NULL,
			recipient TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			meta_data JSONB
		)
	`)
	if err != nil {
		return errors.Wrap(err, "creating transactions table")
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_transactions_email_created_at ON transactions (email, created_at DESC)`)
	if err != nil {
		return errors.Wrap(err, "creating transactions history index")
	}
	return nil
}

// createRequestTable creates the PostgreSQL table for the PendingRequest struct.
func createRequestTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS requests (
			id SERIAL PRIMARY KEY,
			request_id TEXT NOT NULL UNIQUE,
			user_email TEXT NOT NULL,
			agent_email TEXT NOT NULL,
			amount BIGINT NOT NULL CHECK (amount > 0),
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			resolved_at TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(err, "creating requests table")
	}
	return nil
}
