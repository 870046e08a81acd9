package reference

import "github.com/thiagokokada/gitref/internal/refname"

type categoryKind uint8

// The zero kind is heads, so the zero Category renders as "heads".
const (
	kindHeads categoryKind = iota
	kindRad
	kindTags
	kindNotes
	kindCobs
	kindUnknown
)

// Category is the path segment that classifies a reference, the "heads" in
// "refs/heads/main". Categories outside the known set are carried as
// Unknown with their name.
type Category struct {
	kind  categoryKind
	other refname.Name
}

var (
	Heads = Category{kind: kindHeads}
	Rad   = Category{kind: kindRad}
	Tags  = Category{kind: kindTags}
	Notes = Category{kind: kindNotes}
	// Cobs holds collaborative objects.
	Cobs = Category{kind: kindCobs}
)

var categoryNames = map[categoryKind]string{
	kindHeads: "heads",
	kindRad:   "rad",
	kindTags:  "tags",
	kindNotes: "notes",
	kindCobs:  "cobs",
}

func knownCategory(s string) (Category, bool) {
	switch s {
	case "heads":
		return Heads, true
	case "rad":
		return Rad, true
	case "tags":
		return Tags, true
	case "notes":
		return Notes, true
	case "cobs":
		return Cobs, true
	}
	return Category{}, false
}

// DefaultCategories are the categories present in a freshly initialized
// repository.
func DefaultCategories() []Category {
	return []Category{Heads, Tags, Notes}
}

// ParseCategory maps the known literals to their Category. Anything else
// must be a valid refname and becomes an Unknown category.
func ParseCategory(s string) (Category, error) {
	if c, ok := knownCategory(s); ok {
		return c, nil
	}
	n, err := refname.Parse(s)
	if err != nil {
		return Category{}, err
	}
	return Category{kind: kindUnknown, other: n}, nil
}

// CategoryFromName is the total form of ParseCategory for already valid
// names.
func CategoryFromName(n refname.Name) Category {
	if c, ok := knownCategory(n.String()); ok {
		return c
	}
	return Category{kind: kindUnknown, other: n}
}

func (c Category) IsUnknown() bool { return c.kind == kindUnknown }

func (c Category) String() string {
	if c.kind == kindUnknown {
		return c.other.String()
	}
	return categoryNames[c.kind]
}

func (c Category) Name() refname.Name {
	if c.kind == kindUnknown {
		return c.other
	}
	return refname.MustParse(categoryNames[c.kind])
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	n, err := refname.FromBytes(b)
	if err != nil {
		return err
	}
	*c = CategoryFromName(n)
	return nil
}
