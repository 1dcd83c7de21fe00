// Package sync shares the data directory between partners through a git remote.
package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotRepo is returned when the data directory has not been initialised with InitRepo.
var ErrNotRepo = errors.New("not a git repository, run 'tandem init' first")

// gitignore keeps scratch files out of the shared history.
const gitignore = "*.tmp\n.*.tmp\ntandem.log\n"

// IsRepo reports whether dir holds a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// InitRepo makes dir a git repository if it isn't one yet and, when remote is
// non-empty, points origin at it.
func InitRepo(ctx context.Context, dir, remote string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if !IsRepo(dir) {
		if _, err := git(ctx, dir, "init"); err != nil {
			return fmt.Errorf("initializing repository: %w", err)
		}
		ignore := filepath.Join(dir, ".gitignore")
		if _, err := os.Stat(ignore); os.IsNotExist(err) {
			if err := os.WriteFile(ignore, []byte(gitignore), 0644); err != nil {
				return fmt.Errorf("writing .gitignore: %w", err)
			}
		}
		log.Info("initialized repository", zap.String("dir", dir))
	}

	if remote == "" {
		return nil
	}

	// Replace any existing origin.
	_, _ = git(ctx, dir, "remote", "remove", "origin")
	if _, err := git(ctx, dir, "remote", "add", "origin", remote); err != nil {
		return fmt.Errorf("setting remote: %w", err)
	}
	log.Info("remote set", zap.String("remote", remote))
	return nil
}

// SyncRepo commits local changes, pulls (rebase, falling back to merge) and
// pushes.
func SyncRepo(ctx context.Context, dir string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if !IsRepo(dir) {
		return ErrNotRepo
	}

	if _, err := git(ctx, dir, "add", "-A"); err != nil {
		return fmt.Errorf("staging changes: %w", err)
	}
	if _, err := git(ctx, dir, "diff", "--cached", "--quiet"); err != nil {
		msg := "basket sync " + time.Now().Format("2006-01-02 15:04:05")
		if _, err := git(ctx, dir, "commit", "-m", msg); err != nil {
			return fmt.Errorf("committing changes: %w", err)
		}
		log.Info("committed local changes", zap.String("message", msg))
	}

	log.Info("pulling")
	if _, err := git(ctx, dir, "pull", "--rebase"); err != nil {
		log.Warn("rebase failed, trying merge", zap.Error(err))
		_, _ = git(ctx, dir, "rebase", "--abort")

		if _, err := git(ctx, dir, "pull", "--no-rebase"); err != nil {
			_, _ = git(ctx, dir, "merge", "--abort")
			return fmt.Errorf("sync failed: could not rebase or merge, resolve conflicts manually: %w", err)
		}
	}

	log.Info("pushing")
	if _, err := git(ctx, dir, "push"); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	log.Info("sync complete", zap.String("dir", dir))
	return nil
}

// git runs a git command in dir and returns its combined output. Failures
// include the output so callers can surface what git said.
func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return "", fmt.Errorf("git %s: %w", args[0], err)
		}
		return string(out), fmt.Errorf("git %s: %w: %s", args[0], err, msg)
	}
	return string(out), nil
}
