package git

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/muicebot/plugin-index/internal/logger"
)

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks -source=client.go Client

// ErrTargetExists is returned when the clone directory is already present
var ErrTargetExists = errors.New("clone target already exists")

// Client defines the interface for Git operations
type Client interface {
	// Clone clones a repository onto the local filesystem
	Clone(ctx context.Context, config *CloneConfig) (*RepositoryInfo, error)
}

// defaultGitClient implements Client using go-git
type defaultGitClient struct{}

// NewDefaultGitClient creates a new defaultGitClient
func NewDefaultGitClient() Client {
	return &defaultGitClient{}
}

// Clone performs a shallow clone of config.URL into config.Directory
func (*defaultGitClient) Clone(ctx context.Context, config *CloneConfig) (*RepositoryInfo, error) {
	if config == nil || config.URL == "" {
		return nil, fmt.Errorf("repository URL is required")
	}
	if config.Directory == "" {
		return nil, fmt.Errorf("clone directory is required")
	}

	if _, err := os.Stat(config.Directory); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrTargetExists, config.Directory)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to inspect clone directory %s: %w", config.Directory, err)
	}

	cloneOptions := &git.CloneOptions{
		URL:          config.URL,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	}
	if config.Branch != "" {
		cloneOptions.ReferenceName = plumbing.NewBranchReferenceName(config.Branch)
	}

	logger.Debugf("Cloning %s into %s", config.URL, config.Directory)
	repo, err := git.PlainCloneContext(ctx, config.Directory, false, cloneOptions)
	if err != nil {
		// go-git leaves a partial directory behind on failure
		_ = os.RemoveAll(config.Directory)
		return nil, fmt.Errorf("failed to clone repository %s: %w", config.URL, err)
	}

	repoInfo := &RepositoryInfo{
		Repository: repo,
		Path:       config.Directory,
		RemoteURL:  config.URL,
	}

	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD reference: %w", err)
	}
	repoInfo.Commit = ref.Hash().String()
	if ref.Name().IsBranch() {
		repoInfo.Branch = ref.Name().Short()
	}

	return repoInfo, nil
}
