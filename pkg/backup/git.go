// Package backup commits the data directory to a local git repository so
// every persisted state of the note graph stays recoverable. Pushing to a
// remote is best-effort.
package backup

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// GitManager handles git operations on the data directory
type GitManager struct {
	RepoPath string
}

// NewGitManager creates a new GitManager
func NewGitManager(repoPath string) *GitManager {
	return &GitManager{RepoPath: repoPath}
}

// Sync commits all changes in the data directory and pushes to the remote
// when one is reachable. A clean worktree is not an error.
func (g *GitManager) Sync(message string) error {
	r, err := git.PlainOpen(g.RepoPath)
	if err != nil {
		return fmt.Errorf("failed to open backup repo: %w", err)
	}

	w, err := r.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := w.Status()
	if err != nil {
		return fmt.Errorf("failed to get worktree status: %w", err)
	}
	if status.IsClean() {
		return nil
	}

	if _, err := w.Add("."); err != nil {
		return fmt.Errorf("failed to add changes: %w", err)
	}

	if message == "" {
		message = fmt.Sprintf("Auto-backup: %s", time.Now().Format(time.RFC3339))
	}
	_, err = w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "notekeeper",
			Email: "backup@notekeeper.local",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	if _, err := r.Remote(git.DefaultRemoteName); err != nil {
		// Local-only backup repo; the commit is the whole job.
		return nil
	}

	// go-git needs explicit auth for SSH remotes; try the default key and
	// fall back to an unauthenticated push.
	home, _ := os.UserHomeDir()
	publicKeys, err := ssh.NewPublicKeysFromFile("git", home+"/.ssh/id_rsa", "")
	if err != nil {
		log.Printf("backup: could not load SSH key, trying push without explicit auth: %v", err)
		err = r.Push(&git.PushOptions{})
	} else {
		err = r.Push(&git.PushOptions{Auth: publicKeys})
	}
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}
