package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/swiftpay/swiftpay/request"
)

func requestCommands(s *swiftpayInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cash-in",
		Short: "manage cash-in requests",
	}

	cmd.AddCommand(createCashInCommand(s))
	cmd.AddCommand(listCashInCommand(s))
	cmd.AddCommand(approveCashInCommand(s))
	cmd.AddCommand(rejectCashInCommand(s))

	return cmd
}

func createCashInCommand(s *swiftpayInstance) *cobra.Command {
	var payload request.CashIn

	cmd := &cobra.Command{
		Use:   "request",
		Short: "request a cash-in from an agent",
		Run: func(cmd *cobra.Command, args []string) {
			if err := payload.Validate(); err != nil {
				log.Fatalf("invalid input: %v", err)
			}
			req, err := s.engine.CreateCashInRequest(cmd.Context(), payload.User, payload.Agent, payload.Amount)
			if err != nil {
				log.Fatalf("error creating cash-in request: %v", err)
			}
			printJSON(req)
		},
	}

	cmd.Flags().StringVar(&payload.User, "user", "", "user email")
	cmd.Flags().StringVar(&payload.Agent, "agent", "", "agent email")
	cmd.Flags().StringVar(&payload.Amount, "amount", "", "amount in Taka")

	return cmd
}

func listCashInCommand(s *swiftpayInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "list unresolved cash-in requests",
		Run: func(cmd *cobra.Command, args []string) {
			requests, err := s.engine.ListPendingRequests(cmd.Context())
			if err != nil {
				log.Fatalf("error listing requests: %v", err)
			}
			printJSON(requests)
		},
	}

	return cmd
}

func approveCashInCommand(s *swiftpayInstance) *cobra.Command {
	var payload request.ResolveCashIn

	cmd := &cobra.Command{
		Use:   "approve",
		Short: "approve a pending cash-in request",
		Run: func(cmd *cobra.Command, args []string) {
			if err := payload.Validate(); err != nil {
				log.Fatalf("invalid input: %v", err)
			}
			txn, err := s.engine.ApproveCashIn(cmd.Context(), payload.RequestID, payload.Agent)
			if err != nil {
				log.Fatalf("error approving request: %v", err)
			}
			printJSON(txn)
		},
	}

	cmd.Flags().StringVar(&payload.RequestID, "id", "", "request ID")
	cmd.Flags().StringVar(&payload.Agent, "agent", "", "approving agent email")

	return cmd
}

func rejectCashInCommand(s *swiftpayInstance) *cobra.Command {
	var payload request.ResolveCashIn

	cmd := &cobra.Command{
		Use:   "reject",
		Short: "reject a pending cash-in request",
		Run: func(cmd *cobra.Command, args []string) {
			if err := payload.Validate(); err != nil {
				log.Fatalf("invalid input: %v", err)
			}
			if err := s.engine.RejectCashIn(cmd.Context(), payload.RequestID, payload.Agent); err != nil {
				log.Fatalf("error rejecting request: %v", err)
			}
			log.Printf("request %s rejected", payload.RequestID)
		},
	}

	cmd.Flags().StringVar(&payload.RequestID, "id", "", "request ID")
	cmd.Flags().StringVar(&payload.Agent, "agent", "", "rejecting agent email")

	return cmd
}
