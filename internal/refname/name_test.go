package refname

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

func TestParseRejects(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "refs/heads/a..b", "refs/heads/main.lock", "refs/heads/a@{u}", "refs/heads/*"} {
		if _, err := Parse(input); err == nil {
			t.Fatalf("Parse(%q) expected error", input)
		}
	}
	for _, input := range []string{"refs/heads/\xff", "\xc3", "refs/heads/caf\xc3"} {
		if _, err := Parse(input); !errors.Is(err, ErrUTF8) {
			t.Fatalf("Parse(%q) error = %v, want %v", input, err, ErrUTF8)
		}
	}
	if _, err := Parse("refs/heads/caf\u00e9"); err != nil {
		t.Fatalf("Parse(utf8) error = %v", err)
	}
}

func TestFromBytes(t *testing.T) {
	t.Parallel()

	n, err := FromBytes([]byte("refs/heads/main"))
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	if n.String() != "refs/heads/main" {
		t.Fatalf("FromBytes() = %q", n)
	}

	_, err = FromBytes([]byte{'r', 0xff, 0xfe})
	if !errors.Is(err, ErrUTF8) {
		t.Fatalf("FromBytes(invalid) error = %v, want %v", err, ErrUTF8)
	}
}

func TestFromPath(t *testing.T) {
	t.Parallel()

	sep := string(filepath.Separator)
	tests := []struct {
		path string
		want string
	}{
		{filepath.Join("refs", "heads", "main"), "refs/heads/main"},
		{"." + sep + "refs" + sep + ".." + sep + "heads", "refs/heads"},
		{sep + filepath.Join("refs", "tags", "v1"), "refs/tags/v1"},
		{"main", "main"},
	}
	for _, tt := range tests {
		got, err := FromPath(tt.path)
		if err != nil {
			t.Fatalf("FromPath(%q) error = %v", tt.path, err)
		}
		if got.String() != tt.want {
			t.Fatalf("FromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}

	if _, err := FromPath("refs/\xff"); !errors.Is(err, ErrUTF8) {
		t.Fatalf("FromPath(invalid utf8) error = %v, want %v", err, ErrUTF8)
	}
	if _, err := FromPath(".."); !errors.Is(err, ErrEmpty) {
		t.Fatalf("FromPath(..) error = %v, want %v", err, ErrEmpty)
	}
}

func TestJoinStripPrefixRoundTrip(t *testing.T) {
	t.Parallel()

	bases := []string{"refs", "refs/heads", "refs/namespaces/ns/refs", "a"}
	suffixes := []string{"main", "feature/x", "origin/it/deep"}
	for _, b := range bases {
		for _, s := range suffixes {
			base := MustParse(b)
			suffix := MustParse(s)
			got, err := base.Join(suffix).StripPrefix(base.String())
			if err != nil {
				t.Fatalf("StripPrefix(%q) error = %v", b, err)
			}
			if got != suffix {
				t.Fatalf("%q.Join(%q).StripPrefix() = %q", b, s, got)
			}
		}
	}
}

func TestStripPrefixErrors(t *testing.T) {
	t.Parallel()

	n := MustParse("refs/heads/main")
	tests := []struct {
		base string
		want error
	}{
		{"refs/heads/main", ErrImproperPrefix},
		{"refs/heads/main/", ErrImproperPrefix},
		{"unrelated", ErrNotPrefix},
		{"refs/hea", ErrNotPrefix},
		{"", ErrNotPrefix},
	}
	for _, tt := range tests {
		_, err := n.StripPrefix(tt.base)
		if !errors.Is(err, tt.want) {
			t.Fatalf("StripPrefix(%q) error = %v, want %v", tt.base, err, tt.want)
		}
		var stripErr *StripPrefixError
		if !errors.As(err, &stripErr) {
			t.Fatalf("StripPrefix(%q) error type = %T", tt.base, err)
		}
	}

	got, err := n.StripPrefix("refs/")
	if err != nil {
		t.Fatalf("StripPrefix(refs/) error = %v", err)
	}
	if got.String() != "heads/main" {
		t.Fatalf("StripPrefix(refs/) = %q", got)
	}
}

func TestComponents(t *testing.T) {
	t.Parallel()

	got := slices.Collect(MustParse("refs/remotes/origin/main").Components())
	want := []string{"refs", "remotes", "origin", "main"}
	if !slices.Equal(got, want) {
		t.Fatalf("Components() = %v, want %v", got, want)
	}
}

func TestJoinPattern(t *testing.T) {
	t.Parallel()

	got := MustParse("refs/heads").JoinPattern(MustParsePattern("feature/*"))
	if got.String() != "refs/heads/feature/*" {
		t.Fatalf("JoinPattern() = %q", got)
	}
}

func TestMustParsePanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustParse("a..b")
}
