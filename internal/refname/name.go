package refname

import (
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"strings"
)

var (
	ErrNotPrefix      = errors.New("not prefixed by given path")
	ErrImproperPrefix = errors.New("prefix is equal to path")
)

// StripPrefixError is returned by Name.StripPrefix.
type StripPrefixError struct {
	Name   string
	Prefix string
	Kind   error
}

func (e *StripPrefixError) Error() string {
	return fmt.Sprintf("strip %q from %q: %v", e.Prefix, e.Name, e.Kind)
}

func (e *StripPrefixError) Unwrap() error { return e.Kind }

// Name is a valid git refname without wildcards. One-level names such as
// "main" or "HEAD" are allowed.
//
// The zero value is not a valid Name; obtain one through Parse, FromBytes,
// FromPath or one of the conversions.
type Name struct {
	s string
}

var nameOptions = Options{AllowOneLevel: true}

// Parse validates s and returns it as a Name.
func Parse(s string) (Name, error) {
	if err := Check(s, nameOptions); err != nil {
		return Name{}, err
	}
	return Name{s: s}, nil
}

// MustParse is like Parse but panics on invalid input. Use it only for
// literals.
func MustParse(s string) Name {
	n, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("refname: MustParse(%q): %v", s, err))
	}
	return n
}

func FromBytes(b []byte) (Name, error) {
	return Parse(string(b))
}

// FromPath builds a Name from the normal components of a host path. Root,
// volume, "." and ".." components are dropped and the rest joined with '/'.
func FromPath(p string) (Name, error) {
	p = strings.TrimPrefix(p, filepath.VolumeName(p))
	var components []string
	for c := range strings.SplitSeq(filepath.ToSlash(p), "/") {
		if c == "" || c == "." || c == ".." {
			continue
		}
		components = append(components, c)
	}
	return Parse(strings.Join(components, "/"))
}

func (n Name) String() string { return n.s }

func (n Name) IsZero() bool { return n.s == "" }

// Join appends other as further path components. Two valid refnames joined
// by a single '/' are always a valid refname, so the result is not checked
// again.
func (n Name) Join(other Name) Name {
	return Name{s: n.s + "/" + other.s}
}

// JoinPattern appends a pattern suffix, e.g. "refs/heads" + "*".
func (n Name) JoinPattern(suffix Pattern) Pattern {
	return Pattern{s: n.s + "/" + suffix.s}
}

// StripPrefix returns the Name that, joined onto base, yields n. A single
// trailing '/' on base is ignored.
func (n Name) StripPrefix(base string) (Name, error) {
	base = strings.TrimSuffix(base, "/")
	if base == n.s {
		return Name{}, &StripPrefixError{Name: n.s, Prefix: base, Kind: ErrImproperPrefix}
	}
	rest, ok := strings.CutPrefix(n.s, base+"/")
	if !ok || rest == "" {
		return Name{}, &StripPrefixError{Name: n.s, Prefix: base, Kind: ErrNotPrefix}
	}
	return Name{s: rest}, nil
}

// Components iterates over the '/' separated segments of n.
func (n Name) Components() iter.Seq[string] {
	return strings.SplitSeq(n.s, "/")
}

func (n Name) OneLevel() OneLevel {
	return oneLevel(n.s)
}

// Qualified returns n unchanged if it starts with "refs/", and n under
// "refs/heads/" otherwise.
func (n Name) Qualified() Qualified {
	if strings.HasPrefix(n.s, refsPrefix) {
		return Qualified{s: n.s}
	}
	return Qualified{s: refsPrefix + "heads/" + n.s}
}

func (n Name) Pattern() Pattern { return Pattern{s: n.s} }

func (n Name) MarshalText() ([]byte, error) {
	return []byte(n.s), nil
}

func (n *Name) UnmarshalText(b []byte) error {
	parsed, err := FromBytes(b)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
