package reference

import (
	"errors"
	"iter"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/thiagokokada/gitref/internal/refname"
)

type fakeRepository struct {
	resolveFunc        func(name refname.Name) (plumbing.Hash, error)
	createDirectFunc   func(name refname.Name, target plumbing.Hash, force bool, msg string) (Ref, error)
	createSymbolicFunc func(name, target refname.Name, force bool, msg string) (Ref, error)
	ensureReflogFunc   func(name refname.Name) error
	referencesFunc     func(patterns ...refname.Pattern) iter.Seq2[Ref, error]

	calls []string
}

func (f *fakeRepository) Resolve(name refname.Name) (plumbing.Hash, error) {
	f.calls = append(f.calls, "Resolve "+name.String())
	if f.resolveFunc != nil {
		return f.resolveFunc(name)
	}
	return plumbing.ZeroHash, errors.New("unexpected Resolve call")
}

func (f *fakeRepository) CreateDirect(name refname.Name, target plumbing.Hash, force bool, msg string) (Ref, error) {
	f.calls = append(f.calls, "CreateDirect "+name.String())
	if f.createDirectFunc != nil {
		return f.createDirectFunc(name, target, force, msg)
	}
	return Ref{}, errors.New("unexpected CreateDirect call")
}

func (f *fakeRepository) CreateSymbolic(name, target refname.Name, force bool, msg string) (Ref, error) {
	f.calls = append(f.calls, "CreateSymbolic "+name.String())
	if f.createSymbolicFunc != nil {
		return f.createSymbolicFunc(name, target, force, msg)
	}
	return Ref{}, errors.New("unexpected CreateSymbolic call")
}

func (f *fakeRepository) EnsureReflog(name refname.Name) error {
	f.calls = append(f.calls, "EnsureReflog "+name.String())
	if f.ensureReflogFunc != nil {
		return f.ensureReflogFunc(name)
	}
	return errors.New("unexpected EnsureReflog call")
}

func (f *fakeRepository) References(patterns ...refname.Pattern) iter.Seq2[Ref, error] {
	f.calls = append(f.calls, "References")
	if f.referencesFunc != nil {
		return f.referencesFunc(patterns...)
	}
	return func(yield func(Ref, error) bool) {
		yield(Ref{}, errors.New("unexpected References call"))
	}
}

// refsSeq matches names against patterns the way an engine would.
func refsSeq(names ...string) func(patterns ...refname.Pattern) iter.Seq2[Ref, error] {
	return func(patterns ...refname.Pattern) iter.Seq2[Ref, error] {
		return func(yield func(Ref, error) bool) {
			for _, p := range patterns {
				for _, s := range names {
					n := refname.MustParse(s)
					if !p.Match(n) {
						continue
					}
					if !yield(NewRef(n, plumbing.NewHash("1111111111111111111111111111111111111111")), nil) {
						return
					}
				}
			}
		}
	}
}
