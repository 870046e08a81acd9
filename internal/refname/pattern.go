package refname

import (
	"fmt"
	"strings"
)

// Pattern is a refspec pattern: a refname that may contain at most one '*'.
// Every Name is also a valid Pattern.
type Pattern struct {
	s string
}

var patternOptions = Options{AllowOneLevel: true, AllowPattern: true}

func ParsePattern(s string) (Pattern, error) {
	if err := Check(s, patternOptions); err != nil {
		return Pattern{}, err
	}
	return Pattern{s: s}, nil
}

func MustParsePattern(s string) Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(fmt.Sprintf("refname: MustParsePattern(%q): %v", s, err))
	}
	return p
}

func PatternFromBytes(b []byte) (Pattern, error) {
	return ParsePattern(string(b))
}

func (p Pattern) String() string { return p.s }

func (p Pattern) IsZero() bool { return p.s == "" }

// Append adds suffix as further path components, which places the wildcard
// in the middle of the result: "refs/remotes/*" + "main" is
// "refs/remotes/*/main".
func (p Pattern) Append(suffix Name) Pattern {
	return Pattern{s: p.s + "/" + suffix.s}
}

func (p Pattern) IsWildcard() bool {
	return strings.IndexByte(p.s, '*') >= 0
}

// Match reports whether name is matched by p. The wildcard matches any run
// of bytes, '/' included; a pattern without a wildcard only matches itself.
func (p Pattern) Match(name Name) bool {
	prefix, suffix, ok := strings.Cut(p.s, "*")
	if !ok {
		return p.s == name.s
	}
	return len(name.s) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(name.s, prefix) &&
		strings.HasSuffix(name.s, suffix)
}

func (p Pattern) MarshalText() ([]byte, error) {
	return []byte(p.s), nil
}

func (p *Pattern) UnmarshalText(b []byte) error {
	parsed, err := PatternFromBytes(b)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
