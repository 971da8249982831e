package category

import (
	"errors"

	"github.com/go-git/go-git/v5"
)

// DetectBranch resolves the current branch name for the repository
// containing projectPath, walking up to find the repository root the way
// go-git's PlainOpenWithOptions does internally. It replaces shelling out
// to `git rev-parse --abbrev-ref HEAD` (the original tracker's approach)
// with an in-process read, grounded on kastheco-klique's go-git usage.
//
// Returns "" if projectPath isn't inside a git repository or HEAD is
// detached onto a commit rather than a branch; callers only attach
// BranchName "when applicable" (spec.md §3).
func DetectBranch(projectPath string) string {
	if projectPath == "" {
		return ""
	}

	repo, err := git.PlainOpenWithOptions(projectPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, git.ErrReferenceNotFound) {
			return ""
		}
		return ""
	}
	if !head.Name().IsBranch() {
		return ""
	}
	return head.Name().Short()
}
