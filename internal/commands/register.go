package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/register"
)

func newRegisterCommand(g *globalFlags) *cobra.Command {
	var page, pageSize int
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "register <account>",
		Short: "Show an account's transactions with running balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, g, func(ctx context.Context, e *env, s *session) error {
				if pageSize <= 0 {
					pageSize = e.cfg.Register.PageSize
				}
				if err := s.LoadAccounts(ctx); err != nil {
					return err
				}
				if err := s.LoadSecurities(ctx); err != nil {
					return err
				}
				acct, err := findAccount(ctx, s, args[0])
				if err != nil {
					return err
				}

				p, err := s.SelectAccount(ctx, acct.AccountId, pageSize)
				if err != nil {
					return err
				}
				if page > 1 {
					if p, err = s.GoToPage(ctx, page-1); err != nil {
						return err
					}
				}

				st := s.Store().State()
				f := register.Formatter{
					AccountID:  acct.AccountId,
					Accounts:   st.Accounts,
					Securities: st,
					Security:   registerSecurity(st.Securities, acct.SecurityId),
				}
				if asCSV {
					return f.WriteCSV(cmd.OutOrStdout(), p.Rows)
				}
				printRegister(e, f, p)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page to show, newest first")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "transactions per page (default from config)")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")
	return cmd
}

// registerSecurity falls back to a two-decimal currency when the account's
// security is unknown.
func registerSecurity(secs map[int64]model.Security, id int64) model.Security {
	if sec, ok := secs[id]; ok {
		return sec
	}
	sec := model.NewSecurity()
	sec.Precision = 2
	return sec
}

func printRegister(e *env, f register.Formatter, p register.Page) {
	e.out.Header(fmt.Sprintf("%s (page %d of %d)", p.Account.Name, p.Page+1, max(1, p.NumPages())))
	cols := strings.Split(register.Header, ",")
	e.out.Line("%-10s  %-6s  %-28s  %-28s  %-10s  %12s  %12s", strings.ToUpper(cols[0]),
		strings.ToUpper(cols[1]), strings.ToUpper(cols[2]), strings.ToUpper(cols[3]),
		strings.ToUpper(cols[4]), strings.ToUpper(cols[5]), strings.ToUpper(cols[6]))
	for _, r := range p.Rows {
		row := f.MarshalRow(r)
		amount := register.Amount(r.Transaction, f.AccountID)
		e.out.Line("%-10s  %-6s  %-28s  %-28s  %-10s  %12s  %12s", row[0], row[1],
			truncate(row[2], 28), truncate(row[3], 28), row[4],
			e.out.Amount(fmt.Sprintf("%12s", row[5]), amount),
			e.out.Amount(fmt.Sprintf("%12s", row[6]), r.Balance))
	}
	if len(p.Rows) == 0 {
		e.out.Muted("no transactions")
	}
	if err := p.Reconcile(); err != nil {
		e.out.Warning(err.Error())
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
