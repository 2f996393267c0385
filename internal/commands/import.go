package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/ledger"
)

// OFXPasswordEnv holds the bank password used by download.
const OFXPasswordEnv = "TALLY_OFX_PASSWORD"

func newImportCommand(g *globalFlags) *cobra.Command {
	var account, to, format, source string
	var upload, dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement into an account",
		Long: "Parse a statement locally and submit one transaction per line, posting the\n" +
			"other side to --to. With --upload, an OFX file is sent to the server to\n" +
			"import instead. --source picks a statement mapping from the config.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			e, err := loadEnv(cmd, g)
			if err != nil {
				return err
			}

			accountID, counterID := int64(-1), int64(-1)
			if source != "" {
				st, ok := e.cfg.Statement(source)
				if !ok {
					return fmt.Errorf("no statement source %q in config", source)
				}
				accountID = st.AccountID
				if st.CounterAccountID > 0 {
					counterID = st.CounterAccountID
				}
				if format == "" {
					format = st.Format
				}
			}

			reg := importer.DefaultRegistry()
			p := reg.Detect(path)
			if format != "" {
				if p = reg.Get(format); p == nil {
					return fmt.Errorf("unknown format %q (have %v)", format, reg.Formats())
				}
			}

			if dryRun {
				entries, err := importer.ParseFile(p, path)
				if err != nil {
					return err
				}
				txns := importer.Transactions(entries, accountID, counterID, accounts.DefaultSecurityID)
				return ledger.WriteTransactions(cmd.OutOrStdout(), txns)
			}

			return withSession(cmd, g, func(ctx context.Context, e *env, s *session) error {
				if account != "" {
					a, err := findAccount(ctx, s, account)
					if err != nil {
						return err
					}
					accountID = a.AccountId
				}
				if accountID < 0 {
					return errors.New("an account is required: pass --account or --source")
				}

				if upload {
					f, err := os.Open(path)
					if err != nil {
						return fmt.Errorf("opening %s: %w", path, err)
					}
					defer f.Close()
					if err := s.ImportOFX(ctx, accountID, filepath.Base(path), f); err != nil {
						return err
					}
					e.out.Success("statement uploaded")
					return nil
				}

				if to != "" {
					c, err := findAccount(ctx, s, to)
					if err != nil {
						return err
					}
					counterID = c.AccountId
				}
				if counterID < 0 {
					return errors.New("a counterpart account is required: pass --to, or --upload to let the server import")
				}

				acct, _ := stateAccounts(s.Store().State()).Get(accountID)
				entries, err := importer.ParseFile(p, path)
				if err != nil {
					return err
				}
				txns := importer.Transactions(entries, accountID, counterID, acct.SecurityId)
				n, err := s.ImportTransactions(ctx, txns)
				if err != nil {
					return fmt.Errorf("imported %d of %d: %w", n, len(txns), err)
				}
				e.out.Success(fmt.Sprintf("imported %d transactions", n))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account ID or full name the statement belongs to")
	cmd.Flags().StringVar(&to, "to", "", "account ID or full name for the other side of each line")
	cmd.Flags().StringVar(&format, "format", "", "statement format (default from file extension)")
	cmd.Flags().StringVar(&source, "source", "", "statement source name from the config")
	cmd.Flags().BoolVar(&upload, "upload", false, "send the OFX file to the server to import")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the parsed transactions as CSV without connecting")
	return cmd
}

func newDownloadCommand(g *globalFlags) *cobra.Command {
	var from, until string

	cmd := &cobra.Command{
		Use:   "download <account>",
		Short: "Have the server fetch a statement from the bank over OFX",
		Long:  "The bank password is read from " + OFXPasswordEnv + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			end := time.Now().UTC()
			start := end.AddDate(0, -1, 0)
			var err error
			if from != "" {
				if start, err = time.Parse("2006-01-02", from); err != nil {
					return fmt.Errorf("--from %q: %w", from, err)
				}
			}
			if until != "" {
				if end, err = time.Parse("2006-01-02", until); err != nil {
					return fmt.Errorf("--until %q: %w", until, err)
				}
			}
			if !start.Before(end) {
				return fmt.Errorf("--from must be before --until")
			}

			return withSession(cmd, g, func(ctx context.Context, e *env, s *session) error {
				a, err := findAccount(ctx, s, args[0])
				if err != nil {
					return err
				}
				if a.OFXURL == "" {
					e.out.Warning(fmt.Sprintf("account %s has no OFX URL configured", a.Name))
				}
				if err := s.DownloadOFX(ctx, a.AccountId, os.Getenv(OFXPasswordEnv), start, end); err != nil {
					return err
				}
				e.out.Success("statement downloaded")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day as YYYY-MM-DD (default a month ago)")
	cmd.Flags().StringVar(&until, "until", "", "last day as YYYY-MM-DD (default today)")
	return cmd
}
