package reference

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/thiagokokada/gitref/internal/refname"
)

// Named is anything that renders to a single refname, such as a One.
type Named interface {
	RefName() refname.Name
}

type plainName refname.Name

func (n plainName) RefName() refname.Name { return refname.Name(n) }

// NameOf uses a plain refname where a Named is expected.
func NameOf(n refname.Name) Named { return plainName(n) }

// SymbolicRef is the data needed to create Source as a symbolic reference
// to Target. Force allows overwriting an existing Source.
type SymbolicRef struct {
	Source Named
	Target Named
	Force  bool
}

func NewSymbolicRef(source, target Named, force bool) SymbolicRef {
	return SymbolicRef{Source: source, Target: target, Force: force}
}

// Create writes Source as a symbolic reference to Target.
//
// Target must exist: if it cannot be resolved the returned error is a
// *TargetNotFoundError and nothing is written. Checking Target and writing
// Source are separate calls on repo, so Target may disappear in between.
func (s SymbolicRef) Create(repo Repository) (Ref, error) {
	source := s.Source.RefName()
	target := s.Target.RefName()
	msg := fmt.Sprintf("creating symbolic ref %s -> %s", source, target)
	slog.Debug(msg, slog.Bool("force", s.Force))

	if _, err := repo.Resolve(target); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Ref{}, &TargetNotFoundError{Source: source, Target: target, Err: err}
		}
		return Ref{}, err
	}
	if err := repo.EnsureReflog(source); err != nil {
		return Ref{}, err
	}
	return repo.CreateSymbolic(source, target, s.Force, msg)
}
