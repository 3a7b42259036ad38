// Package git clones plugin repositories into the host's plugin directory.
package git

import "github.com/go-git/go-git/v5"

// CloneConfig describes one clone
type CloneConfig struct {
	// URL is the repository URL to clone
	URL string

	// Directory is the local directory the repository is cloned into.
	// It must not exist yet.
	Directory string

	// Branch is the branch to check out (optional, defaults to the remote HEAD)
	Branch string
}

// RepositoryInfo describes a cloned repository
type RepositoryInfo struct {
	// Repository is the go-git repository instance
	Repository *git.Repository

	// Path is the directory holding the working tree
	Path string

	// RemoteURL is the URL the repository was cloned from
	RemoteURL string

	// Branch is the checked out branch, empty for a detached HEAD
	Branch string

	// Commit is the hash of the checked out commit
	Commit string
}
