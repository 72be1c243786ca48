package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/swiftpay/swiftpay/request"
)

func ledgerCommands(s *swiftpayInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "move money between accounts",
	}

	cmd.AddCommand(sendCommand(s))
	cmd.AddCommand(cashOutCommand(s))

	return cmd
}

func sendCommand(s *swiftpayInstance) *cobra.Command {
	var payload request.SendMoney

	cmd := &cobra.Command{
		Use:   "send",
		Short: "send money to another user",
		Run: func(cmd *cobra.Command, args []string) {
			if err := payload.Validate(); err != nil {
				log.Fatalf("invalid input: %v", err)
			}
			txn, err := s.engine.SendMoney(cmd.Context(), payload.Sender, payload.Recipient, payload.Amount, payload.PIN)
			if err != nil {
				log.Fatalf("error sending money: %v", err)
			}
			printJSON(txn)
		},
	}

	cmd.Flags().StringVar(&payload.Sender, "from", "", "sender email")
	cmd.Flags().StringVar(&payload.Recipient, "to", "", "recipient email")
	cmd.Flags().StringVar(&payload.Amount, "amount", "", "amount in Taka")
	cmd.Flags().StringVar(&payload.PIN, "pin", "", "sender wallet PIN")

	return cmd
}

func cashOutCommand(s *swiftpayInstance) *cobra.Command {
	var payload request.CashOut

	cmd := &cobra.Command{
		Use:   "cash-out",
		Short: "cash out through an agent",
		Run: func(cmd *cobra.Command, args []string) {
			if err := payload.Validate(); err != nil {
				log.Fatalf("invalid input: %v", err)
			}
			txn, err := s.engine.CashOut(cmd.Context(), payload.User, payload.Agent, payload.Amount, payload.PIN)
			if err != nil {
				log.Fatalf("error cashing out: %v", err)
			}
			printJSON(txn)
		},
	}

	cmd.Flags().StringVar(&payload.User, "user", "", "user email")
	cmd.Flags().StringVar(&payload.Agent, "agent", "", "agent email")
	cmd.Flags().StringVar(&payload.Amount, "amount", "", "amount in Taka")
	cmd.Flags().StringVar(&payload.PIN, "pin", "", "user wallet PIN")

	return cmd
}
