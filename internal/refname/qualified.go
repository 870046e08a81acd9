package refname

import "strings"

const refsPrefix = "refs/"

// OneLevel is a Name with any leading "refs/<category>/" removed.
//
// Unmarshaling accepts any valid Name spelling, including qualified ones,
// and converts it silently: "refs/heads/next" decodes as "next".
type OneLevel struct {
	s string
}

func oneLevel(s string) OneLevel {
	rest, ok := strings.CutPrefix(s, refsPrefix)
	if !ok {
		return OneLevel{s: s}
	}
	_, name, ok := strings.Cut(rest, "/")
	if !ok {
		return OneLevel{s: s}
	}
	return OneLevel{s: name}
}

// OneLevelFromQualified splits q into its one-level name and category.
// "refs/tags/grace" yields ("grace", "tags", true) while "refs/HEAD" has no
// category and yields ("HEAD", Name{}, false).
func OneLevelFromQualified(q Qualified) (OneLevel, Name, bool) {
	rest := strings.TrimPrefix(q.s, refsPrefix)
	category, name, ok := strings.Cut(rest, "/")
	if !ok {
		return OneLevel{s: category}, Name{}, false
	}
	return OneLevel{s: name}, Name{s: category}, true
}

func (o OneLevel) String() string { return o.s }

func (o OneLevel) IsZero() bool { return o.s == "" }

func (o OneLevel) Name() Name { return Name{s: o.s} }

func (o OneLevel) Pattern() Pattern { return Pattern{s: o.s} }

// Qualified renders o under "refs/<category>/".
func (o OneLevel) Qualified(category Name) Qualified {
	return Qualified{s: refsPrefix + category.s + "/" + o.s}
}

// Requalify applies the Name rule: o is placed under "refs/heads/" unless it
// already starts with "refs/".
func (o OneLevel) Requalify() Qualified {
	return o.Name().Qualified()
}

func (o OneLevel) MarshalText() ([]byte, error) {
	return []byte(o.s), nil
}

func (o *OneLevel) UnmarshalText(b []byte) error {
	n, err := FromBytes(b)
	if err != nil {
		return err
	}
	*o = n.OneLevel()
	return nil
}

// Qualified is a Name that starts with "refs/".
//
// Unmarshaling accepts any valid Name spelling and qualifies it: "next"
// decodes as "refs/heads/next".
type Qualified struct {
	s string
}

func (q Qualified) String() string { return q.s }

func (q Qualified) IsZero() bool { return q.s == "" }

func (q Qualified) Name() Name { return Name{s: q.s} }

func (q Qualified) OneLevel() OneLevel { return oneLevel(q.s) }

func (q Qualified) Pattern() Pattern { return Pattern{s: q.s} }

func (q Qualified) MarshalText() ([]byte, error) {
	return []byte(q.s), nil
}

func (q *Qualified) UnmarshalText(b []byte) error {
	n, err := FromBytes(b)
	if err != nil {
		return err
	}
	*q = n.Qualified()
	return nil
}
