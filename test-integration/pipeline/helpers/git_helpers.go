// Package helpers provides fixtures for the plugin-index integration tests.
package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/onsi/gomega"
)

// GitTestRepository represents a test Git repository
type GitTestRepository struct {
	Name     string
	Path     string
	CloneURL string
}

// CreateRepository initialises a repository named name under dir holding files
// in a single commit
func CreateRepository(dir, name string, files map[string]string) *GitTestRepository {
	repoPath := filepath.Join(dir, name)

	repo, err := git.PlainInit(repoPath, false)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	workTree, err := repo.Worktree()
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	for filename, content := range files {
		filePath := filepath.Join(repoPath, filename)
		gomega.Expect(os.MkdirAll(filepath.Dir(filePath), 0750)).To(gomega.Succeed())
		gomega.Expect(os.WriteFile(filePath, []byte(content), 0600)).To(gomega.Succeed())

		_, err := workTree.Add(filename)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
	}

	_, err = workTree.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	return &GitTestRepository{
		Name:     name,
		Path:     repoPath,
		CloneURL: fmt.Sprintf("file://%s", repoPath), // Use file:// URL for local testing
	}
}
