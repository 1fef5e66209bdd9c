// Package project derives stable, privacy-preserving project identifiers.
//
// A ProjectKey scopes all on-disk memory for one project. It is derived
// from the repository's origin remote URL when one exists, so every
// checkout of the same repository shares memory; directories that are not
// repositories (or have no remote) fall back to their absolute path. The
// key is a truncated content hash, not reversible, and safe to use as a
// path segment.
package project

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// KeyLength is the number of hex characters in a ProjectKey. Long enough
// to avoid collisions across a user's realistic project count, short
// enough to stay a readable path segment.
const KeyLength = 12

// Resolve computes the ProjectKey for the given working directory.
//
// It tries to read the origin remote URL of the repository rooted at or
// above dir; any failure (not a repository, no origin, no URLs) is treated
// as "no remote" and the absolute directory path is hashed instead. The
// same input always yields the same key.
func Resolve(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("project: empty working directory")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("project: resolving directory: %w", err)
	}

	if url := remoteURL(abs); url != "" {
		return hashKey(url), nil
	}
	return hashKey(abs), nil
}

// remoteURL returns the first URL of the origin remote, or "" when the
// directory is not inside a repository or no usable remote is configured.
// Errors are deliberately swallowed: identity resolution must never fail
// because of git state.
func remoteURL(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	remote, err := repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return ""
	}
	urls := remote.Config().URLs
	if len(urls) == 0 || urls[0] == "" {
		return ""
	}
	return urls[0]
}

func hashKey(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:KeyLength]
}
