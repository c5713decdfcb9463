// Package gitrev resolves the current revision of a git checkout. The
// rulebook corpus is a git clone and its HEAD commit identifies the index
// generation.
package gitrev

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Repo points at a local git checkout.
type Repo struct {
	path string
}

// New returns a Repo for the checkout at path.
func New(path string) *Repo {
	return &Repo{path: path}
}

// Path returns the checkout location.
func (r *Repo) Path() string {
	return r.path
}

// CurrentRevision returns the full HEAD commit hash.
func (r *Repo) CurrentRevision(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = r.path

	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git rev-parse in %s: %s", r.path,
				strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git rev-parse in %s: %w", r.path, err)
	}

	rev := strings.TrimSpace(string(out))
	if rev == "" {
		return "", fmt.Errorf("git rev-parse in %s returned no output", r.path)
	}
	return rev, nil
}
