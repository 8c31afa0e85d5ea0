// Package revision identifies the version of a data directory so a built
// database records what it was built from.
package revision

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// digestPrefix marks a revision computed from file contents instead of git.
const digestPrefix = "blake2b:"

// Resolver reports the revision of a directory.
type Resolver struct {
	dir string
	// git is the git binary; empty disables git.
	git string
}

// New creates a Resolver for dir, using git when it is on the PATH.
func New(dir string) *Resolver {
	git, err := exec.LookPath("git")
	if err != nil {
		git = ""
	}
	return &Resolver{dir: dir, git: git}
}

// NewDigest creates a Resolver that always hashes file contents.
func NewDigest(dir string) *Resolver {
	return &Resolver{dir: dir}
}

// Head returns the commit checked out in the directory. Outside a git
// checkout it returns a digest of every regular file instead.
func (r *Resolver) Head(ctx context.Context) (string, error) {
	if r.git != "" {
		if head, err := r.gitHead(ctx); err == nil {
			return head, nil
		}
	}
	return Digest(r.dir)
}

func (r *Resolver) gitHead(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, r.git, "rev-parse", "HEAD") //#nosec G204 -- fixed arguments
	cmd.Dir = r.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// Digest hashes the relative path and contents of every regular file under
// dir in lexical order. Hidden entries such as .git are skipped.
func Digest(dir string) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		io.WriteString(h, filepath.ToSlash(rel))
		h.Write([]byte{0})

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(h, f); err != nil {
			return fmt.Errorf("hash %s: %w", rel, err)
		}
		h.Write([]byte{0})
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("data directory %s does not exist", dir)
	}
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", dir, err)
	}

	return digestPrefix + hex.EncodeToString(h.Sum(nil)), nil
}
