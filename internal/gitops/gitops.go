// Package gitops keeps a tally directory under version control by shelling
// out to git.
package gitops

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies who commits chart and config changes.
type Author struct {
	Name  string
	Email string
}

// DefaultAuthor is used when the caller has no better identity.
var DefaultAuthor = Author{Name: "tally", Email: "tally@localhost"}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether dir is the top of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Init creates an empty repository at dir.
func Init(ctx context.Context, dir string) error {
	if _, err := run(ctx, dir, DefaultAuthor, "init", "--quiet"); err != nil {
		return err
	}
	return nil
}

// Commit stages paths (relative to dir) and commits them. It returns the
// short hash of the new commit.
func Commit(ctx context.Context, dir, message string, author Author, paths ...string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("git commit: no paths")
	}
	if _, err := run(ctx, dir, author, append([]string{"add", "--"}, paths...)...); err != nil {
		return "", err
	}
	if _, err := run(ctx, dir, author, "commit", "--quiet", "-m", message, "--author", author.String()); err != nil {
		return "", err
	}
	out, err := run(ctx, dir, author, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// run executes git in dir. The committer is set from author so commits work
// without a global git identity.
func run(ctx context.Context, dir string, author Author, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+author.Name,
		"GIT_COMMITTER_EMAIL="+author.Email,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}
