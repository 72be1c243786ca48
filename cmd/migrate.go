package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/swiftpay/swiftpay/config"
	"github.com/swiftpay/swiftpay/database"
)

// migrateCommands creates the wallet schema. Connecting already migrates, so
// this exists for provisioning a database ahead of first use.
func migrateCommands(_ *swiftpayInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "create the swiftpay schema",
		Run: func(cmd *cobra.Command, args []string) {
			cnf, err := config.Fetch()
			if err != nil {
				log.Fatalf("error fetching config: %v", err)
			}
			db, err := database.ConnectDB(cnf.DataSource.Dns)
			if err != nil {
				log.Fatalf("error connecting to database: %v", err)
			}
			if err := database.Migrate(db); err != nil {
				log.Fatalf("error running migration: %v", err)
			}
			log.Println("migration complete")
		},
	}

	return cmd
}
