package refname

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxLength is the longest refname, in bytes, that any constructor accepts.
const MaxLength = 1024

var (
	ErrEmpty              = errors.New("empty refname")
	ErrInvalidComponent   = errors.New("invalid refname component")
	ErrMultiplePatterns   = errors.New("refname contains more than one '*'")
	ErrTooLong            = errors.New("refname too long")
	ErrOneLevelNotAllowed = errors.New("one-level refname not allowed")
	ErrUTF8               = errors.New("refname is not valid utf-8")
)

// Options mirror the git check-ref-format flags of the same name.
type Options struct {
	AllowOneLevel bool
	AllowPattern  bool
}

// GrammarError reports why a candidate failed Check. Kind is one of the
// Err* sentinels and is what errors.Is matches against.
type GrammarError struct {
	Name      string
	Kind      error
	Component string
	Reason    string
}

func (e *GrammarError) Error() string {
	switch {
	case e.Component != "" && e.Reason != "":
		return fmt.Sprintf("%v: %q: component %q %s", e.Kind, e.Name, e.Component, e.Reason)
	case e.Reason != "":
		return fmt.Sprintf("%v: %q: %s", e.Kind, e.Name, e.Reason)
	default:
		return fmt.Sprintf("%v: %q", e.Kind, e.Name)
	}
}

func (e *GrammarError) Unwrap() error { return e.Kind }

// Check validates name against the refname grammar described in
// git-check-ref-format(1).
func Check(name string, opts Options) error {
	if name == "" {
		return &GrammarError{Name: name, Kind: ErrEmpty}
	}
	if !utf8.ValidString(name) {
		return &GrammarError{Name: name, Kind: ErrUTF8}
	}
	if len(name) > MaxLength {
		return &GrammarError{Name: name, Kind: ErrTooLong, Reason: fmt.Sprintf("%d bytes, maximum is %d", len(name), MaxLength)}
	}
	if name == "@" {
		return &GrammarError{Name: name, Kind: ErrInvalidComponent, Reason: "cannot be the single character '@'"}
	}
	if strings.HasSuffix(name, ".") {
		return &GrammarError{Name: name, Kind: ErrInvalidComponent, Reason: "cannot end with '.'"}
	}

	stars := 0
	segments := 0
	for component := range strings.SplitSeq(name, "/") {
		segments++
		if err := checkComponent(name, component, opts, &stars); err != nil {
			return err
		}
	}
	if !opts.AllowOneLevel && segments < 2 {
		return &GrammarError{Name: name, Kind: ErrOneLevelNotAllowed}
	}
	return nil
}

func checkComponent(name, component string, opts Options, stars *int) error {
	invalid := func(reason string) error {
		return &GrammarError{Name: name, Kind: ErrInvalidComponent, Component: component, Reason: reason}
	}
	switch {
	case component == "":
		return invalid("is empty")
	case component[0] == '.':
		return invalid("starts with '.'")
	case strings.HasSuffix(component, ".lock"):
		return invalid("ends with '.lock'")
	case strings.Contains(component, ".."):
		return invalid("contains '..'")
	case strings.Contains(component, "@{"):
		return invalid("contains '@{'")
	}
	for i := 0; i < len(component); i++ {
		c := component[i]
		switch {
		case c < 0x20 || c == 0x7f:
			return invalid(fmt.Sprintf("contains control byte 0x%02x", c))
		case c == '*':
			if !opts.AllowPattern {
				return invalid("contains '*'")
			}
			*stars++
			if *stars > 1 {
				return &GrammarError{Name: name, Kind: ErrMultiplePatterns, Component: component}
			}
		case strings.IndexByte(" ~^:?[\\", c) >= 0:
			return invalid(fmt.Sprintf("contains %q", c))
		}
	}
	return nil
}
