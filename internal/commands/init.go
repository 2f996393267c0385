package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var serverURL string
	var username string
	var withGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter config and chart of accounts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, serverURL, username); err != nil {
				return err
			}
			if withGit {
				hash, err := commitInit(cmd.Context(), absDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Committed %s\n", hash)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized tally at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", config.Default().Server.URL, "server URL")
	cmd.Flags().StringVar(&username, "username", "", "user to sign in as (password from "+PasswordEnv+")")
	cmd.Flags().BoolVar(&withGit, "git", false, "put the config and chart under git")

	return cmd
}

func runInit(dir, serverURL, username string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	// Create directory structure.
	for _, d := range []string{"logs", "cache"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	cfg.Server.URL = serverURL
	cfg.Server.Username = username
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	svc := accounts.NewService(accounts.DefaultChart())
	if err := svc.SaveFile(filepath.Join(dir, cfg.Accounts.ChartPath)); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	gitignore := "cache/\nlogs/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	return nil
}

// commitInit records the starter files, creating the repository if needed.
func commitInit(ctx context.Context, dir string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !gitops.Available() {
		return "", fmt.Errorf("--git: git not found on PATH")
	}
	if !gitops.IsRepo(dir) {
		if err := gitops.Init(ctx, dir); err != nil {
			return "", err
		}
	}
	cfg := config.Default()
	return gitops.Commit(ctx, dir, "Initialize tally", gitops.DefaultAuthor,
		config.FileName, cfg.Accounts.ChartPath, ".gitignore")
}
