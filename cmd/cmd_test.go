package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// syncBuffer is a bytes.Buffer safe to write from the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// runCLI runs gitref with an empty configuration file unless args name
// one.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	if !strings.Contains(strings.Join(args, " "), "--config") {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		args = append([]string{"--config", path}, args...)
	}
	var stdout, stderr syncBuffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunVersion(t *testing.T) {
	out, _, err := runCLI(t, "--version")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatal("version output is empty")
	}
}

func TestRunUsage(t *testing.T) {
	_, stderr, err := runCLI(t)
	if err == nil || !strings.Contains(err.Error(), "no command") {
		t.Fatalf("run() error = %v", err)
	}
	for _, name := range []string{"check", "encode", "render", "resolve", "create", "alias", "list", "diff", "watch"} {
		if !strings.Contains(stderr, "  "+name) {
			t.Fatalf("usage does not list %q:\n%s", name, stderr)
		}
	}

	if _, _, err := runCLI(t, "--help"); err != nil {
		t.Fatalf("run(--help) error = %v", err)
	}
	if _, _, err := runCLI(t, "check", "--help"); err != nil {
		t.Fatalf("run(check --help) error = %v", err)
	}
	if _, _, err := runCLI(t, "frobnicate"); err == nil || !strings.Contains(err.Error(), "frobnicate") {
		t.Fatalf("run(frobnicate) error = %v", err)
	}
}

func TestRunMissingConfig(t *testing.T) {
	_, _, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "encode", "main")
	if err == nil {
		t.Fatal("run() with a missing --config succeeded")
	}
}

func TestCheck(t *testing.T) {
	out, _, err := runCLI(t, "check", "refs/heads/main", "main", "refs/remotes/origin/it")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	want := "refs/heads/main\tone-level=main\tqualified=refs/heads/main\n" +
		"main\tone-level=main\tqualified=refs/heads/main\n" +
		"refs/remotes/origin/it\tone-level=origin/it\tqualified=refs/remotes/origin/it\n"
	if out != want {
		t.Fatalf("check output = %q, want %q", out, want)
	}

	out, _, err = runCLI(t, "check", "--pattern", "refs/heads/*", "refs/tags/v1")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if out != "refs/heads/*\twildcard=true\nrefs/tags/v1\twildcard=false\n" {
		t.Fatalf("check --pattern output = %q", out)
	}

	out, _, err = runCLI(t, "check", "good", "bad..name", "refs/heads/*")
	if err == nil {
		t.Fatal("check accepted invalid names")
	}
	if out != "good\tone-level=good\tqualified=refs/heads/good\n" {
		t.Fatalf("check output = %q", out)
	}
}

func TestEncode(t *testing.T) {
	out, _, err := runCLI(t, "encode", "issue#42", "refs/heads/main")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if out != "issue%2342\nrefs/heads/main\n" {
		t.Fatalf("encode output = %q", out)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--category", "heads", "--name", "feature/x"}, "refs/heads/feature/x"},
		{
			[]string{"--namespace", "ns", "--remote", "peer", "--category", "heads", "--name", "feature/x"},
			"refs/namespaces/ns/refs/remotes/peer/heads/feature/x",
		},
		{[]string{"--namespace", "ns", "--category", "rad", "--glob", "ids/*"}, "refs/namespaces/ns/refs/rad/ids/*"},
		{[]string{"--category", "pulls", "--name", "refs/heads/42"}, "refs/pulls/42"},
	}
	for _, tt := range tests {
		out, _, err := runCLI(t, append([]string{"render"}, tt.args...)...)
		if err != nil {
			t.Fatalf("render %v error = %v", tt.args, err)
		}
		if strings.TrimSpace(out) != tt.want {
			t.Fatalf("render %v = %q, want %q", tt.args, out, tt.want)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	for _, args := range [][]string{
		{"--name", "x"},
		{"--category", "heads"},
		{"--category", "heads", "--name", "x", "--glob", "*"},
		{"--category", "bad..cat", "--name", "x"},
		{"--category", "heads", "--name", "x", "--namespace", "a b"},
		{"--category", "heads", "--glob", "*/*"},
	} {
		if _, _, err := runCLI(t, append([]string{"render"}, args...)...); err == nil {
			t.Fatalf("render %v succeeded", args)
		}
	}
}

func TestRenderUsesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("namespace = \"ns\"\nremote = \"peer\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	out, _, err := runCLI(t, "--config", path, "render", "--category", "tags", "--name", "v1")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if strings.TrimSpace(out) != "refs/namespaces/ns/refs/remotes/peer/tags/v1" {
		t.Fatalf("render output = %q", out)
	}
	out, _, err = runCLI(t, "--config", path, "render", "--namespace", "", "--category", "tags", "--name", "v1")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if strings.TrimSpace(out) != "refs/remotes/peer/tags/v1" {
		t.Fatalf("render output = %q", out)
	}
}
