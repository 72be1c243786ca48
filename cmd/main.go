package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/swiftpay/swiftpay"
	"github.com/swiftpay/swiftpay/config"
	"github.com/swiftpay/swiftpay/database"
)

// SwiftPayCLI wraps the root Cobra command.
type SwiftPayCLI struct {
	cmd *cobra.Command
}

// swiftpayInstance holds the engine and its configuration for the lifetime of
// a command invocation.
type swiftpayInstance struct {
	engine *swiftpay.SwiftPay
	cnf    *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the engine before any
// command executes.
func preRun(app *swiftpayInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(*configFile)
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		engine, err := setupSwiftPay(cnf)
		if err != nil {
			log.Fatal(err)
		}

		app.engine = engine
		app.cnf = cnf

		return nil
	}
}

func setupSwiftPay(cfg *config.Configuration) (*swiftpay.SwiftPay, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	engine, err := swiftpay.NewSwiftPay(db)
	if err != nil {
		return nil, fmt.Errorf("error creating swiftpay: %v", err)
	}
	return engine, nil
}

// NewCLI assembles the command tree for the wallet.
func NewCLI() *SwiftPayCLI {
	var configFile string
	s := &swiftpayInstance{}

	var rootCmd = &cobra.Command{
		Use:   "swiftpay",
		Short: "Digital wallet ledger",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./swiftpay.json", "Configuration file for swiftpay")
	rootCmd.PersistentPreRunE = preRun(s, &configFile)

	rootCmd.AddCommand(migrateCommands(s))
	rootCmd.AddCommand(accountCommands(s))
	rootCmd.AddCommand(ledgerCommands(s))
	rootCmd.AddCommand(requestCommands(s))

	return &SwiftPayCLI{cmd: rootCmd}
}

func (s SwiftPayCLI) executeCLI() {
	if err := s.cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()
	cli := NewCLI()
	cli.executeCLI()
}
