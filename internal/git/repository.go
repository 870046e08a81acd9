// Package git implements reference.Repository on top of a git repository.
//
// The default build uses go-git directly. Building with the gitcli tag
// shells out to the git executable instead.
package git

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/thiagokokada/gitref/internal/reference"
	"github.com/thiagokokada/gitref/internal/refname"
)

var _ reference.Repository = (*Repository)(nil)

// Path returns the directory the repository was opened from.
func (r *Repository) Path() string {
	return r.path
}

// GitDir returns the directory holding the repository refs, or "" when the
// repository is not backed by a filesystem.
func (r *Repository) GitDir() string {
	return r.gitDir
}

// storedRef is a reference as listed by a backend, before it is matched
// against patterns.
type storedRef struct {
	name   string
	hash   plumbing.Hash
	target string
}

// matchRefs yields the refs matching each pattern in turn, in lexical order
// within a pattern. Names the refname grammar rejects are skipped.
func matchRefs(refs []storedRef, patterns []refname.Pattern, yield func(reference.Ref, error) bool) {
	slices.SortFunc(refs, func(a, b storedRef) int {
		return strings.Compare(a.name, b.name)
	})
	parsed := make([]reference.Ref, 0, len(refs))
	for _, ref := range refs {
		name, err := refname.Parse(ref.name)
		if err != nil {
			slog.Warn("skipping reference with invalid name",
				slog.String("name", ref.name),
				slog.Any("error", err),
			)
			continue
		}
		out := reference.NewRef(name, ref.hash)
		if ref.target != "" {
			target, err := refname.Parse(ref.target)
			if err != nil {
				slog.Warn("skipping symbolic reference with invalid target",
					slog.String("name", ref.name),
					slog.String("target", ref.target),
					slog.Any("error", err),
				)
				continue
			}
			out = reference.NewSymbolic(name, target, ref.hash)
		}
		parsed = append(parsed, out)
	}
	for _, p := range patterns {
		for _, ref := range parsed {
			if !p.Match(ref.Name) {
				continue
			}
			if !yield(ref, nil) {
				return
			}
		}
	}
}
