package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/swiftpay/swiftpay"
	"github.com/swiftpay/swiftpay/model"
	"github.com/swiftpay/swiftpay/request"
)

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("error encoding output: %v", err)
	}
	fmt.Println(string(out))
}

func accountCommands(s *swiftpayInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "manage wallet accounts",
	}

	cmd.AddCommand(registerCommand(s))
	cmd.AddCommand(balanceCommand(s))
	cmd.AddCommand(historyCommand(s))
	cmd.AddCommand(listAccountsCommand(s))
	cmd.AddCommand(rolesCommand(s))

	return cmd
}

func registerCommand(s *swiftpayInstance) *cobra.Command {
	var payload request.RegisterAccount

	cmd := &cobra.Command{
		Use:   "register",
		Short: "register a new wallet account",
		Run: func(cmd *cobra.Command, args []string) {
			if err := payload.Validate(); err != nil {
				log.Fatalf("invalid input: %v", err)
			}
			account, err := s.engine.CreateAccount(cmd.Context(), swiftpay.RegisterParams{
				Email:          payload.Email,
				Name:           payload.Name,
				Role:           payload.Role,
				PIN:            payload.PIN,
				OpeningBalance: payload.OpeningBalance,
			})
			if err != nil {
				log.Fatalf("error registering account: %v", err)
			}
			printJSON(account)
		},
	}

	cmd.Flags().StringVar(&payload.Email, "email", "", "account email")
	cmd.Flags().StringVar(&payload.Name, "name", "", "account holder name")
	cmd.Flags().StringVar(&payload.Role, "role", model.RoleUser, "account role (admin, user, agent)")
	cmd.Flags().StringVar(&payload.PIN, "pin", "", "wallet PIN")
	cmd.Flags().StringVar(&payload.OpeningBalance, "opening-balance", "", "opening balance in Taka")

	return cmd
}

func balanceCommand(s *swiftpayInstance) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "show an account balance",
		Run: func(cmd *cobra.Command, args []string) {
			balanceMinor, err := s.engine.GetBalance(cmd.Context(), email)
			if err != nil {
				log.Fatalf("error fetching balance: %v", err)
			}
			fmt.Printf("%s Taka\n", model.FormatAmount(balanceMinor))
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")

	return cmd
}

func historyCommand(s *swiftpayInstance) *cobra.Command {
	var email string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "show recent transactions, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			transactions, err := s.engine.RecentTransactions(cmd.Context(), email, limit)
			if err != nil {
				log.Fatalf("error fetching history: %v", err)
			}
			printJSON(transactions)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().IntVar(&limit, "limit", 0, "number of transactions (0 uses the configured default)")

	return cmd
}

func listAccountsCommand(s *swiftpayInstance) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list accounts holding a role",
		Run: func(cmd *cobra.Command, args []string) {
			accounts, err := s.engine.ListAccountsByRole(cmd.Context(), role)
			if err != nil {
				log.Fatalf("error listing accounts: %v", err)
			}
			printJSON(accounts)
		},
	}
	cmd.Flags().StringVar(&role, "role", model.RoleUser, "account role (admin, user, agent)")

	return cmd
}

func rolesCommand(s *swiftpayInstance) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "roles",
		Short: "show which role an identity holds",
		Run: func(cmd *cobra.Command, args []string) {
			flags, err := s.engine.RoleFlags(cmd.Context(), email)
			if err != nil {
				log.Fatalf("error fetching roles: %v", err)
			}
			printJSON(flags)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")

	return cmd
}
