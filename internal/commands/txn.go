package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

func newTxnCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txn",
		Short: "Enter and delete transactions",
	}
	cmd.AddCommand(newTxnAddCommand(g), newTxnRemoveCommand(g))
	return cmd
}

func newTxnAddCommand(g *globalFlags) *cobra.Command {
	var desc, dateStr, amountStr, to string
	var extra []string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "add <account>",
		Short: "Enter a transaction from an account's point of view",
		Long: "Enter a transaction posting --amount to <account> and the opposite to --to.\n" +
			"Further splits are given as --split account=amount and are taken out of\n" +
			"the --to side.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("amount %q: %w", amountStr, err)
			}
			date := time.Now().UTC().Truncate(24 * time.Hour)
			if dateStr != "" {
				if date, err = time.Parse("2006-01-02", dateStr); err != nil {
					return fmt.Errorf("date %q: %w", dateStr, err)
				}
			}

			return withSession(cmd, g, func(ctx context.Context, e *env, s *session) error {
				acct, err := findAccount(ctx, s, args[0])
				if err != nil {
					return err
				}
				counter, err := findAccount(ctx, s, to)
				if err != nil {
					return err
				}

				t := model.NewDraft(acct.AccountId, date)
				t.Description = desc
				if t, err = t.SetAmount(0, amount); err != nil {
					return err
				}
				if t, err = t.AssignAccount(1, counter.AccountId); err != nil {
					return err
				}

				rest := amount.Neg()
				for _, arg := range extra {
					ref, amt, err := parseSplitFlag(arg)
					if err != nil {
						return err
					}
					a, err := findAccount(ctx, s, ref)
					if err != nil {
						return err
					}
					t = t.AddSplit()
					i := len(t.Splits) - 1
					if t, err = t.AssignAccount(i, a.AccountId); err != nil {
						return err
					}
					if t, err = t.SetAmount(i, amt); err != nil {
						return err
					}
					rest = rest.Sub(amt)
				}
				if t, err = t.SetAmount(1, rest); err != nil {
					return err
				}

				if dryRun {
					return ledger.WriteTransactions(cmd.OutOrStdout(), []model.Transaction{t})
				}
				created, err := s.CreateTransaction(ctx, t)
				if err != nil {
					return err
				}
				e.out.Success(fmt.Sprintf("created transaction %d", created.TransactionId))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&desc, "desc", "", "description")
	cmd.Flags().StringVar(&dateStr, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount posted to <account> (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&to, "to", "", "counterpart account ID or full name (required)")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().StringArrayVar(&extra, "split", nil, "additional split as account=amount")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the transaction as CSV instead of submitting it")
	return cmd
}

// parseSplitFlag splits "Expenses/Food=12.50" at its last '='.
func parseSplitFlag(arg string) (string, decimal.Decimal, error) {
	i := strings.LastIndex(arg, "=")
	if i <= 0 {
		return "", decimal.Decimal{}, fmt.Errorf("split %q: want account=amount", arg)
	}
	amt, err := decimal.NewFromString(arg[i+1:])
	if err != nil {
		return "", decimal.Decimal{}, fmt.Errorf("split %q: %w", arg, err)
	}
	return arg[:i], amt, nil
}

func newTxnRemoveCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <transaction-id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("transaction ID %q: %w", args[0], err)
			}
			return withSession(cmd, g, func(ctx context.Context, e *env, s *session) error {
				if err := s.DeleteTransaction(ctx, id); err != nil {
					return err
				}
				e.out.Success(fmt.Sprintf("deleted transaction %d", id))
				return nil
			})
		},
	}
}
