//go:build !gitcli

package git

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/thiagokokada/gitref/internal/reference"
	"github.com/thiagokokada/gitref/internal/refname"
)

type Repository struct {
	path   string
	gitDir string
	repo   *gitlib.Repository
	now    func() time.Time
}

func Open(repoPath string) (*Repository, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return newRepository(abs, repo), nil
}

func newRepository(path string, repo *gitlib.Repository) *Repository {
	r := &Repository{path: path, repo: repo, now: time.Now}
	if fsys, ok := r.storageFS(); ok {
		r.gitDir = fsys.Root()
	}
	return r
}

// storageFS returns the filesystem below the git directory, if the
// repository storage has one.
func (r *Repository) storageFS() (billy.Filesystem, bool) {
	st, ok := r.repo.Storer.(*filesystem.Storage)
	if !ok {
		return nil, false
	}
	return st.Filesystem(), true
}

func notFound(name refname.Name) error {
	return fmt.Errorf("%w: %s", reference.ErrNotFound, name)
}

func (r *Repository) Resolve(name refname.Name) (plumbing.Hash, error) {
	ref, err := r.repo.Reference(plumbing.ReferenceName(name.String()), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, notFound(name)
		}
		return plumbing.ZeroHash, fmt.Errorf("resolve %s: %w", name, err)
	}
	return ref.Hash(), nil
}

// current returns the reference stored at name and the object id it
// resolves to. A missing reference is reported as nil without error.
func (r *Repository) current(name plumbing.ReferenceName) (*plumbing.Reference, plumbing.Hash, error) {
	ref, err := r.repo.Storer.Reference(name)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, plumbing.ZeroHash, nil
		}
		return nil, plumbing.ZeroHash, fmt.Errorf("read %s: %w", name, err)
	}
	return ref, r.resolvedHash(ref), nil
}

func (r *Repository) resolvedHash(ref *plumbing.Reference) plumbing.Hash {
	if ref.Type() == plumbing.HashReference {
		return ref.Hash()
	}
	resolved, err := storer.ResolveReference(r.repo.Storer, ref.Target())
	if err != nil {
		return plumbing.ZeroHash
	}
	return resolved.Hash()
}

func (r *Repository) CreateDirect(name refname.Name, target plumbing.Hash, force bool, reflogMessage string) (reference.Ref, error) {
	refName := plumbing.ReferenceName(name.String())
	old, oldHash, err := r.current(refName)
	if err != nil {
		return reference.Ref{}, err
	}
	if old != nil && !force {
		return reference.Ref{}, fmt.Errorf("%w: %s", reference.ErrAlreadyExists, name)
	}
	if err := r.repo.Storer.HasEncodedObject(target); err != nil {
		return reference.Ref{}, fmt.Errorf("create %s: object %s: %w", name, target, err)
	}
	if err := r.repo.Storer.CheckAndSetReference(plumbing.NewHashReference(refName, target), old); err != nil {
		return reference.Ref{}, fmt.Errorf("create %s: %w", name, err)
	}
	r.log(name, oldHash, target, reflogMessage)
	return reference.NewRef(name, target), nil
}

func (r *Repository) CreateSymbolic(name, target refname.Name, force bool, reflogMessage string) (reference.Ref, error) {
	refName := plumbing.ReferenceName(name.String())
	old, oldHash, err := r.current(refName)
	if err != nil {
		return reference.Ref{}, err
	}
	if old != nil && !force {
		return reference.Ref{}, fmt.Errorf("%w: %s", reference.ErrAlreadyExists, name)
	}
	sym := plumbing.NewSymbolicReference(refName, plumbing.ReferenceName(target.String()))
	if err := r.repo.Storer.CheckAndSetReference(sym, old); err != nil {
		return reference.Ref{}, fmt.Errorf("create %s: %w", name, err)
	}
	hash := r.resolvedHash(sym)
	r.log(name, oldHash, hash, reflogMessage)
	return reference.NewSymbolic(name, target, hash), nil
}

func (r *Repository) EnsureReflog(name refname.Name) error {
	fsys, ok := r.storageFS()
	if !ok {
		return nil
	}
	return ensureLogFile(fsys, "logs/"+name.String())
}

// log records a reference update. The update already happened, so failures
// are only reported.
func (r *Repository) log(name refname.Name, oldHash, newHash plumbing.Hash, message string) {
	fsys, ok := r.storageFS()
	if !ok {
		return
	}
	entry := logEntry{old: oldHash, new: newHash, committer: r.committer(), message: message}
	if err := appendLogEntry(fsys, "logs/"+name.String(), entry); err != nil {
		slog.Warn("failed to update reflog",
			slog.String("name", name.String()),
			slog.Any("error", err),
		)
	}
}

func (r *Repository) committer() object.Signature {
	sig := object.Signature{Name: "gitref", When: r.now()}
	cfg, err := r.repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		slog.Debug("failed to read identity", slog.Any("error", err))
		return sig
	}
	if cfg.User.Name != "" {
		sig.Name = cfg.User.Name
	}
	sig.Email = cfg.User.Email
	return sig
}

func (r *Repository) References(patterns ...refname.Pattern) iter.Seq2[reference.Ref, error] {
	return func(yield func(reference.Ref, error) bool) {
		refIter, err := r.repo.Storer.IterReferences()
		if err != nil {
			yield(reference.Ref{}, fmt.Errorf("list references: %w", err))
			return
		}
		var refs []storedRef
		err = refIter.ForEach(func(ref *plumbing.Reference) error {
			stored := storedRef{name: ref.Name().String(), hash: r.resolvedHash(ref)}
			if ref.Type() == plumbing.SymbolicReference {
				stored.target = ref.Target().String()
			}
			refs = append(refs, stored)
			return nil
		})
		if err != nil {
			yield(reference.Ref{}, fmt.Errorf("list references: %w", err))
			return
		}
		matchRefs(refs, patterns, yield)
	}
}
