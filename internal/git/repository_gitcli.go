//go:build gitcli

package git

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/thiagokokada/gitref/internal/reference"
	"github.com/thiagokokada/gitref/internal/refname"
)

type Repository struct {
	path   string
	gitDir string
}

func Open(repoPath string) (*Repository, error) {
	if err := ensureMinGitVersion(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	r := &Repository{path: abs}
	out, err := r.runGitCommand([]string{"rev-parse", "--absolute-git-dir"}, "git rev-parse")
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	r.gitDir = strings.TrimSpace(out)
	if r.gitDir == "" {
		return nil, fmt.Errorf("open repository: git rev-parse returned empty git dir")
	}
	return r, nil
}

// gitError is a failed git invocation with what it printed on stderr.
type gitError struct {
	context string
	err     error
	stderr  string
}

func (e *gitError) Error() string {
	if e.stderr != "" {
		return fmt.Sprintf("%s: %v: %s", e.context, e.err, e.stderr)
	}
	return fmt.Sprintf("%s: %v", e.context, e.err)
}

func (e *gitError) Unwrap() error { return e.err }

func (e *gitError) exitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func (r *Repository) runGitCommand(args []string, context string) (string, error) {
	if r.path == "" {
		return "", fmt.Errorf("repository root not set")
	}
	cmd := exec.Command("git", append([]string{"-C", r.path}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &gitError{context: context, err: err, stderr: strings.TrimSpace(stderr.String())}
	}
	return stdout.String(), nil
}

// classify maps the messages git prints for missing and existing refs to
// the reference sentinels.
func classify(name refname.Name, err error) error {
	var gerr *gitError
	if !errors.As(err, &gerr) {
		return err
	}
	switch {
	case strings.Contains(gerr.stderr, "not a valid ref"):
		return fmt.Errorf("%w: %s", reference.ErrNotFound, name)
	case strings.Contains(gerr.stderr, "reference already exists"):
		return fmt.Errorf("%w: %s", reference.ErrAlreadyExists, name)
	}
	return err
}

func (r *Repository) Resolve(name refname.Name) (plumbing.Hash, error) {
	out, err := r.runGitCommand([]string{"show-ref", "--verify", "--hash", name.String()}, "git show-ref")
	if err != nil {
		return plumbing.ZeroHash, classify(name, err)
	}
	hash, ok := plumbing.FromHex(strings.TrimSpace(out))
	if !ok {
		return plumbing.ZeroHash, fmt.Errorf("git show-ref: unexpected output %q", out)
	}
	return hash, nil
}

func (r *Repository) CreateDirect(name refname.Name, target plumbing.Hash, force bool, reflogMessage string) (reference.Ref, error) {
	args := []string{"update-ref", "-m", reflogMessage, name.String(), target.String()}
	if !force {
		// An all-zero old value makes git refuse to overwrite.
		args = append(args, plumbing.ZeroHash.String())
	}
	if _, err := r.runGitCommand(args, "git update-ref"); err != nil {
		return reference.Ref{}, classify(name, err)
	}
	return reference.NewRef(name, target), nil
}

// exists reports whether name is stored, even as a dangling symbolic ref.
func (r *Repository) exists(name refname.Name) (bool, error) {
	_, err := r.runGitCommand([]string{"symbolic-ref", "-q", name.String()}, "git symbolic-ref")
	if err == nil {
		return true, nil
	}
	var gerr *gitError
	if !errors.As(err, &gerr) || gerr.exitCode() != 1 {
		return false, err
	}
	if _, err := r.Resolve(name); err != nil {
		if errors.Is(err, reference.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *Repository) CreateSymbolic(name, target refname.Name, force bool, reflogMessage string) (reference.Ref, error) {
	if !force {
		ok, err := r.exists(name)
		if err != nil {
			return reference.Ref{}, err
		}
		if ok {
			return reference.Ref{}, fmt.Errorf("%w: %s", reference.ErrAlreadyExists, name)
		}
	}
	args := []string{"symbolic-ref", "-m", reflogMessage, name.String(), target.String()}
	if _, err := r.runGitCommand(args, "git symbolic-ref"); err != nil {
		return reference.Ref{}, err
	}
	hash, err := r.Resolve(target)
	if err != nil && !errors.Is(err, reference.ErrNotFound) {
		return reference.Ref{}, err
	}
	return reference.NewSymbolic(name, target, hash), nil
}

func (r *Repository) EnsureReflog(name refname.Name) error {
	out, err := r.runGitCommand([]string{"rev-parse", "--git-path", "logs/" + name.String()}, "git rev-parse")
	if err != nil {
		return err
	}
	p := strings.TrimSpace(out)
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.path, p)
	}
	return ensureLogFile(osfs.New(filepath.Dir(p)), filepath.Base(p))
}

const forEachRefFormat = "%(objectname) %(refname) %(symref)"

func (r *Repository) References(patterns ...refname.Pattern) iter.Seq2[reference.Ref, error] {
	return func(yield func(reference.Ref, error) bool) {
		out, err := r.runGitCommand([]string{"for-each-ref", "--format=" + forEachRefFormat}, "git for-each-ref")
		if err != nil {
			yield(reference.Ref{}, err)
			return
		}
		refs, err := parseForEachRef(out)
		if err != nil {
			yield(reference.Ref{}, err)
			return
		}
		matchRefs(refs, patterns, yield)
	}
}

func parseForEachRef(out string) ([]storedRef, error) {
	var refs []storedRef
	for line := range strings.Lines(out) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("unexpected for-each-ref output line: %q", line)
		}
		hash, ok := plumbing.FromHex(fields[0])
		if !ok {
			return nil, fmt.Errorf("unexpected for-each-ref output line: %q", line)
		}
		ref := storedRef{name: fields[1], hash: hash}
		if len(fields) == 3 {
			ref.target = fields[2]
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
