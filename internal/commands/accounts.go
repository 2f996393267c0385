package commands

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/app"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/output"
)

func newAccountsCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List and edit accounts",
	}
	cmd.AddCommand(
		newAccountsListCommand(g),
		newAccountsTreeCommand(g),
		newAccountsExportCommand(g),
		newAccountsImportCommand(g),
		newAccountsAddCommand(g),
		newAccountsRenameCommand(g),
		newAccountsRemoveCommand(g),
	)
	return cmd
}

// stateAccounts indexes the accounts currently held in the store.
func stateAccounts(st app.State) *accounts.Service {
	return accounts.NewService(slices.Collect(maps.Values(st.Accounts)))
}

// loadChart returns the local chart file or the server's accounts.
func loadChart(cmd *cobra.Command, g *globalFlags, local bool) (*env, *accounts.Service, error) {
	e, err := loadEnv(cmd, g)
	if err != nil {
		return nil, nil, err
	}
	if local {
		svc, err := accounts.LoadFile(e.cfg.Accounts.ChartPath)
		return e, svc, err
	}

	var svc *accounts.Service
	err = withSession(cmd, g, func(ctx context.Context, _ *env, s *session) error {
		if err := s.LoadAccounts(ctx); err != nil {
			return err
		}
		svc = stateAccounts(s.Store().State())
		return nil
	})
	return e, svc, err
}

// findAccount resolves an account reference (ID or full name) against the
// accounts loaded into the session.
func findAccount(ctx context.Context, s *session, ref string) (model.Account, error) {
	st := s.Store().State()
	if len(st.Accounts) == 0 {
		if err := s.LoadAccounts(ctx); err != nil {
			return model.Account{}, err
		}
		st = s.Store().State()
	}
	a, ok := stateAccounts(st).Find(ref)
	if !ok {
		return model.Account{}, fmt.Errorf("no account %q", ref)
	}
	return a, nil
}

func newAccountsListCommand(g *globalFlags) *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts with their full names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, svc, err := loadChart(cmd, g, local)
			if err != nil {
				return err
			}
			entries, err := svc.DisplayList(false, "")
			if err != nil {
				return err
			}
			for _, d := range entries {
				a, _ := svc.Get(d.AccountId)
				e.out.Line("%4d  %-10s  %s", a.AccountId, a.Type, d.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "read the local chart file instead of the server")
	return cmd
}

func newAccountsTreeCommand(g *globalFlags) *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the account hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, svc, err := loadChart(cmd, g, local)
			if err != nil {
				return err
			}
			entries, err := svc.DisplayList(true, e.cfg.Accounts.RootLabel)
			if err != nil {
				return err
			}
			e.out.Header(entries[0].Name)
			for _, d := range entries[1:] {
				a, _ := svc.Get(d.AccountId)
				e.out.Line("%s", output.Indent(a.Name, d.Depth))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "read the local chart file instead of the server")
	return cmd
}

func newAccountsExportCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the server's accounts as a chart CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := loadChart(cmd, g, false)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return svc.SaveFile(args[0])
			}
			return accounts.WriteAccounts(cmd.OutOrStdout(), svc.All())
		},
	}
}

func newAccountsImportCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create every account of a chart CSV on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chart, err := accounts.LoadFile(args[0])
			if err != nil {
				return err
			}
			// Parents come before children, so each parent's new ID is known
			// by the time its children are created.
			entries, err := chart.DisplayList(false, "")
			if err != nil {
				return err
			}
			return withSession(cmd, g, func(ctx context.Context, e *env, s *session) error {
				newIDs := map[int64]int64{}
				for _, d := range entries {
					a, _ := chart.Get(d.AccountId)
					if !a.IsRootAccount() {
						a.ParentAccountId = newIDs[a.ParentAccountId]
					}
					a.AccountId = -1
					created, err := s.CreateAccount(ctx, a)
					if err != nil {
						return fmt.Errorf("creating %s: %w", d.Name, err)
					}
					newIDs[d.AccountId] = created.AccountId
				}
				e.out.Success(fmt.Sprintf("created %d accounts", len(entries)))
				return nil
			})
		},
	}
}

func newAccountsAddCommand(g *globalFlags) *cobra.Command {
	var name, parent, typeName string
	var securityID int64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := model.ParseAccountType(typeName)
			if err != nil {
				return err
			}
			return withSession(cmd, g, func(ctx context.Context, e *env, s *session) error {
				a := model.NewAccount()
				a.Name = name
				a.Type = t
				a.SecurityId = securityID
				if parent != "" {
					p, err := findAccount(ctx, s, parent)
					if err != nil {
						return err
					}
					a.ParentAccountId = p.AccountId
				}
				created, err := s.CreateAccount(ctx, a)
				if err != nil {
					return err
				}
				e.out.Success(fmt.Sprintf("created account %d %s", created.AccountId, created.Name))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&parent, "parent", "", "parent account ID or full name")
	cmd.Flags().StringVar(&typeName, "type", model.AccountTypeExpense.String(), "account type")
	cmd.Flags().Int64Var(&securityID, "security", accounts.DefaultSecurityID, "security the account is held in")
	return cmd
}

func newAccountsRenameCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <account> <name>",
		Short: "Rename an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, g, func(ctx context.Context, e *env, s *session) error {
				a, err := findAccount(ctx, s, args[0])
				if err != nil {
					return err
				}
				a.Name = args[1]
				if _, err := s.UpdateAccount(ctx, a); err != nil {
					return err
				}
				e.out.Success(fmt.Sprintf("renamed account %d to %s", a.AccountId, a.Name))
				return nil
			})
		},
	}
}

func newAccountsRemoveCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <account>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, g, func(ctx context.Context, e *env, s *session) error {
				a, err := findAccount(ctx, s, args[0])
				if err != nil {
					return err
				}
				if err := s.DeleteAccount(ctx, a.AccountId); err != nil {
					return err
				}
				e.out.Success(fmt.Sprintf("deleted account %d %s", a.AccountId, a.Name))
				return nil
			})
		},
	}
}
