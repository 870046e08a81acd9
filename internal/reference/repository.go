package reference

import (
	"errors"
	"fmt"
	"iter"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/thiagokokada/gitref/internal/refname"
)

var (
	ErrNotFound       = errors.New("reference not found")
	ErrAlreadyExists  = errors.New("reference already exists")
	ErrTargetNotFound = errors.New("symbolic reference target not found")
)

// Repository is the storage engine references are resolved against and
// written to. Implementations report missing references with an error
// matching ErrNotFound and refused non-forced writes with one matching
// ErrAlreadyExists; every other failure is passed through as is.
type Repository interface {
	// Resolve returns the object id name points to, following symbolic
	// references.
	Resolve(name refname.Name) (plumbing.Hash, error)
	CreateDirect(name refname.Name, target plumbing.Hash, force bool, reflogMessage string) (Ref, error)
	CreateSymbolic(name, target refname.Name, force bool, reflogMessage string) (Ref, error)
	EnsureReflog(name refname.Name) error
	// References yields the references matching any of patterns, pattern by
	// pattern in the order the engine reports them. Every range over the
	// result queries the engine again.
	References(patterns ...refname.Pattern) iter.Seq2[Ref, error]
}

// Ref is a reference as stored in a Repository. For symbolic references
// Target holds the name pointed to and Hash the resolved object id, which
// is zero when the target does not exist.
type Ref struct {
	Name   refname.Name
	Hash   plumbing.Hash
	Target refname.Name
}

func NewRef(name refname.Name, hash plumbing.Hash) Ref {
	return Ref{Name: name, Hash: hash}
}

func NewSymbolic(name, target refname.Name, hash plumbing.Hash) Ref {
	return Ref{Name: name, Hash: hash, Target: target}
}

func (r Ref) IsSymbolic() bool { return !r.Target.IsZero() }

func (r Ref) String() string {
	if r.IsSymbolic() {
		return fmt.Sprintf("%s %s -> %s", r.Hash, r.Name, r.Target)
	}
	return fmt.Sprintf("%s %s", r.Hash, r.Name)
}

// TargetNotFoundError is returned when a symbolic reference would point to
// a reference that does not exist. It matches both ErrTargetNotFound and
// the error reported by the Repository.
type TargetNotFoundError struct {
	Source refname.Name
	Target refname.Name
	Err    error
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("create symbolic ref %s -> %s: %v", e.Source, e.Target, e.Err)
}

func (e *TargetNotFoundError) Unwrap() []error {
	return []error{ErrTargetNotFound, e.Err}
}
