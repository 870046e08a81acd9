package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/thiagokokada/gitref/internal/git"
	"github.com/thiagokokada/gitref/internal/refname"
	"github.com/thiagokokada/gitref/internal/render"
	"github.com/thiagokokada/gitref/internal/watch"
)

func runWatch(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "watch")
	color := fs.String("color", e.cfg.Color.String(), "colorize diffs: auto, always or never")
	theme := fs.String("theme", e.cfg.Theme.String(), "color theme: auto, light or dark")
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	mode, err := render.ParseColorMode(*color)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	th, err := render.ParseTheme(*theme)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	patterns, err := parsePatterns(fs.Args())
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	repo, err := git.Open(e.repoPath)
	if err != nil {
		return err
	}
	var hl *render.Highlighter
	if mode.Enabled(e.stdout) {
		hl = render.NewHighlighter(th)
	}
	return watchRefs(ctx, repo, patterns, time.Duration(e.cfg.Watch.Debounce), e.stdout, hl)
}

// refWatcher prints the difference between consecutive listings of the
// references matching patterns.
type refWatcher struct {
	repo     *git.Repository
	patterns []refname.Pattern
	out      io.Writer
	hl       *render.Highlighter

	mu   sync.Mutex
	last string
}

func (w *refWatcher) snapshot() (string, error) {
	refs, err := collect(w.repo.References(w.patterns...))
	if err != nil {
		return "", err
	}
	return render.Snapshot(refs), nil
}

func (w *refWatcher) refresh() {
	w.mu.Lock()
	defer w.mu.Unlock()
	next, err := w.snapshot()
	if err != nil {
		slog.Error("list references", slog.Any("error", err))
		return
	}
	diff, err := render.Diff(w.last, next)
	if err != nil {
		slog.Error("diff references", slog.Any("error", err))
		return
	}
	w.last = next
	if diff == "" {
		slog.Debug("references unchanged")
		return
	}
	if w.hl != nil {
		if err := w.hl.Write(w.out, diff); err != nil {
			slog.Error("highlight diff", slog.Any("error", err))
		}
		return
	}
	fmt.Fprint(w.out, diff)
}

func watchRefs(ctx context.Context, repo *git.Repository, patterns []refname.Pattern, delay time.Duration, out io.Writer, hl *render.Highlighter) error {
	if repo.GitDir() == "" {
		return errors.New("watch: repository has no git directory")
	}
	w := &refWatcher{repo: repo, patterns: patterns, out: out, hl: hl}
	initial, err := w.snapshot()
	if err != nil {
		return err
	}
	w.last = initial
	fmt.Fprint(out, initial)

	fsw, err := watch.New(repo.GitDir(), delay, w.refresh)
	if err != nil {
		return err
	}
	defer fsw.Close()
	slog.Info("watching references", slog.String("git_dir", repo.GitDir()))
	if err := fsw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
