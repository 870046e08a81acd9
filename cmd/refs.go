package cmd

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/thiagokokada/gitref/internal/git"
	"github.com/thiagokokada/gitref/internal/reference"
	"github.com/thiagokokada/gitref/internal/refname"
	"github.com/thiagokokada/gitref/internal/render"
)

var defaultPattern = refname.MustParsePattern("refs/*")

func runResolve(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "resolve")
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("resolve: expected exactly one NAME")
	}
	repo, err := git.Open(e.repoPath)
	if err != nil {
		return err
	}
	hash, err := resolveTarget(repo, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, hash)
	return nil
}

func runCreate(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "create")
	force := fs.BoolP("force", "f", false, "overwrite an existing reference")
	message := fs.StringP("message", "m", "", "reflog message")
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("create: expected NAME and TARGET")
	}
	name, err := refname.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	one, err := categorized(name)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	repo, err := git.Open(e.repoPath)
	if err != nil {
		return err
	}
	target, err := resolveTarget(repo, fs.Arg(1))
	if err != nil {
		return err
	}
	msg := *message
	if msg == "" {
		msg = fmt.Sprintf("gitref: create %s", one)
	}
	ref, err := one.Create(repo, target, *force, msg)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, ref)
	return nil
}

func runAlias(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "alias")
	force := fs.BoolP("force", "f", false, "overwrite an existing reference")
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("alias: expected SOURCE and TARGET")
	}
	source, err := refname.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("alias: source: %w", err)
	}
	target, err := refname.Parse(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("alias: target: %w", err)
	}
	repo, err := git.Open(e.repoPath)
	if err != nil {
		return err
	}
	sym := reference.NewSymbolicRef(
		reference.NameOf(source.Qualified().Name()),
		reference.NameOf(target.Qualified().Name()),
		*force,
	)
	ref, err := sym.Create(repo)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, ref)
	return nil
}

func runList(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "list")
	format := fs.String("format", e.cfg.Format.String(), "output format: text, json, yaml or cbor")
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	f, err := render.ParseFormat(*format)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	patterns, err := parsePatterns(fs.Args())
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	repo, err := git.Open(e.repoPath)
	if err != nil {
		return err
	}
	refs, err := collect(repo.References(patterns...))
	if err != nil {
		return err
	}
	return render.Write(e.stdout, f, refs)
}

// categorized turns name into a One, qualifying it first, so "main"
// means refs/heads/main.
func categorized(name refname.Name) (reference.One, error) {
	q := name.Qualified()
	oneLevel, category, ok := refname.OneLevelFromQualified(q)
	if !ok {
		return reference.One{}, fmt.Errorf("%s has no category", q)
	}
	return reference.NewOne(nil, nil, reference.CategoryFromName(category), oneLevel.Name()), nil
}

// resolveTarget accepts a full hex object id or a refname. A refname that
// does not resolve as given is retried in its qualified form.
func resolveTarget(repo reference.Repository, s string) (plumbing.Hash, error) {
	if plumbing.IsHash(s) {
		return plumbing.NewHash(s), nil
	}
	name, err := refname.Parse(s)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	hash, err := repo.Resolve(name)
	if errors.Is(err, reference.ErrNotFound) {
		if q := name.Qualified().Name(); q != name {
			return repo.Resolve(q)
		}
	}
	return hash, err
}

func parsePatterns(args []string) ([]refname.Pattern, error) {
	if len(args) == 0 {
		return []refname.Pattern{defaultPattern}, nil
	}
	patterns := make([]refname.Pattern, 0, len(args))
	for _, arg := range args {
		p, err := refname.ParsePattern(arg)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

func collect(refs iter.Seq2[reference.Ref, error]) ([]reference.Ref, error) {
	var out []reference.Ref
	for ref, err := range refs {
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, nil
}

func runDiff(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "diff")
	format := fs.String("format", e.cfg.Format.String(), "format of SNAPSHOT: text, json, yaml or cbor")
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("diff: expected SNAPSHOT")
	}
	f, err := render.ParseFormat(*format)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	patterns, err := parsePatterns(fs.Args()[1:])
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	saved, err := readSnapshot(fs.Arg(0), f)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	repo, err := git.Open(e.repoPath)
	if err != nil {
		return err
	}
	current, err := collect(repo.References(patterns...))
	if err != nil {
		return err
	}
	diff, err := render.Diff(render.Snapshot(saved), render.Snapshot(current))
	if err != nil {
		return err
	}
	fmt.Fprint(e.stdout, diff)
	return nil
}

func readSnapshot(path string, format render.Format) ([]reference.Ref, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return render.Read(f, format)
}
