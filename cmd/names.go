package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/thiagokokada/gitref/internal/reference"
	"github.com/thiagokokada/gitref/internal/refname"
)

func runCheck(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "check")
	pattern := fs.Bool("pattern", false, "accept a single '*' wildcard")
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("check: no names given")
	}
	var errs []error
	for _, arg := range fs.Args() {
		if *pattern {
			p, err := refname.ParsePattern(arg)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			fmt.Fprintf(e.stdout, "%s\twildcard=%t\n", p, p.IsWildcard())
			continue
		}
		n, err := refname.Parse(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(e.stdout, "%s\tone-level=%s\tqualified=%s\n", n, n.OneLevel(), n.Qualified())
	}
	return errors.Join(errs...)
}

func runEncode(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "encode")
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("encode: no names given")
	}
	var errs []error
	for _, arg := range fs.Args() {
		n, err := refname.Parse(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintln(e.stdout, n.PercentEncoded())
	}
	return errors.Join(errs...)
}

func runRender(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "render")
	namespace := fs.String("namespace", e.cfg.Namespace.String(), "scope below refs/namespaces/`N`/refs")
	remote := fs.String("remote", e.cfg.Remote.String(), "scope below refs/remotes/`R`")
	category := fs.String("category", "", "category such as heads, tags, notes, rad or cobs")
	name := fs.String("name", "", "name of a single reference")
	glob := fs.String("glob", "", "pattern matching many references")
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("render: unexpected arguments %q", fs.Args())
	}
	if *category == "" {
		return errors.New("render: --category is required")
	}
	if (*name == "") == (*glob == "") {
		return errors.New("render: exactly one of --name or --glob is required")
	}

	cat, err := reference.ParseCategory(*category)
	if err != nil {
		return fmt.Errorf("render: category: %w", err)
	}
	var ns reference.Namespace
	if *namespace != "" {
		n, err := refname.Parse(*namespace)
		if err != nil {
			return fmt.Errorf("render: namespace: %w", err)
		}
		ns = reference.NamespaceOf(n)
	}
	var r reference.Remote
	if *remote != "" {
		n, err := refname.Parse(*remote)
		if err != nil {
			return fmt.Errorf("render: remote: %w", err)
		}
		r = reference.RemoteOf(n)
	}

	if *name != "" {
		n, err := refname.Parse(*name)
		if err != nil {
			return fmt.Errorf("render: name: %w", err)
		}
		fmt.Fprintln(e.stdout, reference.NewOne(ns, r, cat, n))
		return nil
	}
	p, err := refname.ParsePattern(*glob)
	if err != nil {
		return fmt.Errorf("render: glob: %w", err)
	}
	fmt.Fprintln(e.stdout, reference.NewMany(ns, r, cat, p))
	return nil
}
