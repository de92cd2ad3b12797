package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	return dir
}

func TestSyncCommitsChanges(t *testing.T) {
	dir := initRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "notes.yaml"), []byte("notes: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewGitManager(dir)
	if err := m.Sync("backup notes"); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	r, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatal(err)
	}
	head, err := r.Head()
	if err != nil {
		t.Fatalf("no commit created: %v", err)
	}
	commit, err := r.CommitObject(head.Hash())
	if err != nil {
		t.Fatal(err)
	}
	if commit.Message != "backup notes" {
		t.Errorf("commit message = %q", commit.Message)
	}
	if commit.Author.Name != "notekeeper" {
		t.Errorf("commit author = %q", commit.Author.Name)
	}
}

func TestSyncCleanWorktreeIsNoOp(t *testing.T) {
	dir := initRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "notes.yaml"), []byte("notes: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	m := NewGitManager(dir)
	if err := m.Sync(""); err != nil {
		t.Fatal(err)
	}

	r, _ := git.PlainOpen(dir)
	first, err := r.Head()
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Sync(""); err != nil {
		t.Fatalf("clean-worktree sync should succeed: %v", err)
	}
	second, _ := r.Head()
	if first.Hash() != second.Hash() {
		t.Error("clean worktree should not create a new commit")
	}
}

func TestSyncMissingRepoErrors(t *testing.T) {
	m := NewGitManager(t.TempDir())
	if err := m.Sync(""); err == nil {
		t.Error("expected error for a directory that is not a git repo")
	}
}
