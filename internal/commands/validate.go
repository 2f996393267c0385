package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// errInvalidTransactions is returned when any transaction in a file fails
// validation.
var errInvalidTransactions = errors.New("some transactions cannot be submitted")

func newValidateCommand(g *globalFlags) *cobra.Command {
	var useServer, submit bool

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a transaction CSV and optionally submit it",
		Long: "Check that every transaction in a CSV has at least two splits, posts only\n" +
			"to known accounts, and balances in each security. Accounts come from the\n" +
			"local chart unless --server or --submit is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			txns, err := ledger.ReadTransactions(f)
			f.Close()
			if err != nil {
				return err
			}

			if !useServer && !submit {
				e, err := loadEnv(cmd, g)
				if err != nil {
					return err
				}
				chart, err := accounts.LoadFile(e.cfg.Accounts.ChartPath)
				if err != nil {
					return err
				}
				return reportValidation(e, txns, ledger.Accounts(chart.Map()))
			}

			return withSession(cmd, g, func(ctx context.Context, e *env, s *session) error {
				if err := s.LoadAccounts(ctx); err != nil {
					return err
				}
				if err := reportValidation(e, txns, s.Store().State().AccountLookup()); err != nil || !submit {
					return err
				}
				return submitTransactions(ctx, e, s, txns)
			})
		},
	}
	cmd.Flags().BoolVar(&useServer, "server", false, "validate against the server's accounts")
	cmd.Flags().BoolVar(&submit, "submit", false, "create new transactions and update existing ones")
	return cmd
}

func reportValidation(e *env, txns []model.Transaction, accts ledger.AccountLookup) error {
	bad := 0
	for i, t := range txns {
		errs := ledger.Validate(t, accts)
		if len(errs) == 0 {
			continue
		}
		bad++
		e.out.Error(fmt.Sprintf("transaction %d (%s):", i+1, t.Description))
		for _, ve := range errs {
			msg := ve.Error()
			if ve.Rule == ledger.RuleImbalanced {
				msg = fmt.Sprintf("%s (security %d off by %s)", msg, ve.SecurityId, ledger.Imbalance(t, ve.SecurityId, accts))
			}
			e.out.Line("    %s", msg)
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d: %w", bad, len(txns), errInvalidTransactions)
	}
	e.out.Success(fmt.Sprintf("%d transactions OK", len(txns)))
	return nil
}

func submitTransactions(ctx context.Context, e *env, s *session, txns []model.Transaction) error {
	created, updated := 0, 0
	for i, t := range txns {
		var err error
		if t.IsTransaction() {
			_, err = s.UpdateTransaction(ctx, t)
			updated++
		} else {
			_, err = s.CreateTransaction(ctx, t)
			created++
		}
		if err != nil {
			return fmt.Errorf("transaction %d (%s): %w", i+1, t.Description, err)
		}
	}
	e.out.Success(fmt.Sprintf("created %d, updated %d", created, updated))
	return nil
}
