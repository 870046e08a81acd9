package reference

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/thiagokokada/gitref/internal/refname"
)

// Namespace scopes references under "refs/namespaces/<namespace>/refs".
type Namespace interface {
	AsNamespace() refname.Name
}

// Remote scopes references under "refs/remotes/<remote>".
type Remote interface {
	AsRemote() refname.Name
}

type namespaceName refname.Name

func (n namespaceName) AsNamespace() refname.Name { return refname.Name(n) }

type remoteName refname.Name

func (r remoteName) AsRemote() refname.Name { return refname.Name(r) }

// NamespaceOf uses a plain refname as a Namespace.
func NamespaceOf(n refname.Name) Namespace { return namespaceName(n) }

// RemoteOf uses a plain refname as a Remote.
func RemoteOf(n refname.Name) Remote { return remoteName(n) }

var (
	litRefs       = refname.MustParse("refs")
	litNamespaces = refname.MustParse("namespaces")
	litRemotes    = refname.MustParse("remotes")
	litID         = refname.MustParse("id")
	litSignedRefs = refname.MustParse("signed_refs")
	litSelf       = refname.MustParse("self")
	globAll       = refname.MustParsePattern("*")
	globIDs       = refname.MustParsePattern("ids/*")
)

// scope is the part shared by One and Many: everything up to and including
// the category.
type scope struct {
	namespace Namespace
	remote    Remote
	category  Category
}

func (s scope) prefix() refname.Name {
	name := litRefs
	if s.namespace != nil {
		name = name.Join(litNamespaces).Join(s.namespace.AsNamespace()).Join(litRefs)
	}
	if s.remote != nil {
		name = name.Join(litRemotes).Join(s.remote.AsRemote())
	}
	return name.Join(s.category.Name())
}

// One designates exactly one reference. A nil namespace or remote means
// the reference is not scoped by it.
type One struct {
	scope
	name refname.Name
}

func NewOne(namespace Namespace, remote Remote, category Category, name refname.Name) One {
	return One{scope: scope{namespace: namespace, remote: remote, category: category}, name: name}
}

// RadID points to refs[/namespaces/<namespace>/refs]/rad/id.
func RadID(namespace Namespace) One {
	return NewOne(namespace, nil, Rad, litID)
}

// RadSignedRefs points to
// refs[/namespaces/<namespace>/refs][/remotes/<remote>]/rad/signed_refs.
func RadSignedRefs(namespace Namespace, remote Remote) One {
	return NewOne(namespace, remote, Rad, litSignedRefs)
}

// RadSelf points to refs[/namespaces/<namespace>/refs][/remotes/<remote>]/rad/self.
func RadSelf(namespace Namespace, remote Remote) One {
	return NewOne(namespace, remote, Rad, litSelf)
}

// Head points to refs[/namespaces/<namespace>/refs][/remotes/<remote>]/heads/<name>.
func Head(namespace Namespace, remote Remote, name refname.Name) One {
	return NewOne(namespace, remote, Heads, name)
}

// Tag points to refs[/namespaces/<namespace>/refs][/remotes/<remote>]/tags/<name>.
func Tag(namespace Namespace, remote Remote, name refname.Name) One {
	return NewOne(namespace, remote, Tags, name)
}

func (r One) Namespace() Namespace { return r.namespace }
func (r One) Remote() Remote { return r.remote }
func (r One) Category() Category { return r.category }
func (r One) Name() refname.Name { return r.name }

func (r One) WithNamespace(namespace Namespace) One {
	r.namespace = namespace
	return r
}

func (r One) WithRemote(remote Remote) One {
	r.remote = remote
	return r
}

func (r One) WithCategory(category Category) One {
	r.category = category
	return r
}

func (r One) WithName(name refname.Name) One {
	r.name = name
	return r
}

// RefName renders r. The name is appended in its one-level form, so a name
// that is itself qualified ("refs/heads/x") is scoped by r rather than
// nested inside it.
func (r One) RefName() refname.Name {
	return r.prefix().Join(r.name.OneLevel().Name())
}

func (r One) Qualified() refname.Qualified { return r.RefName().Qualified() }

func (r One) Pattern() refname.Pattern { return r.RefName().Pattern() }

func (r One) String() string { return r.RefName().String() }

// Oid resolves r to the object id it points to.
func (r One) Oid(repo Repository) (plumbing.Hash, error) {
	return repo.Resolve(r.RefName())
}

// Find looks r up, returning an error matching ErrNotFound if it does not
// exist.
func (r One) Find(repo Repository) (Ref, error) {
	for ref, err := range repo.References(r.Pattern()) {
		if err != nil {
			return Ref{}, err
		}
		return ref, nil
	}
	return Ref{}, fmt.Errorf("%w: %s", ErrNotFound, r.RefName())
}

// Create writes r as a direct reference to target, creating its reflog
// first.
func (r One) Create(repo Repository, target plumbing.Hash, force bool, reflogMessage string) (Ref, error) {
	name := r.RefName()
	slog.Debug("creating direct reference",
		slog.String("name", name.String()),
		slog.String("target", target.String()),
		slog.Bool("force", force),
		slog.String("reflog", reflogMessage),
	)
	if err := repo.EnsureReflog(name); err != nil {
		return Ref{}, err
	}
	return repo.CreateDirect(name, target, force, reflogMessage)
}

// SymbolicRef describes source as a symbolic reference to r.
func (r One) SymbolicRef(source Named, force bool) SymbolicRef {
	return SymbolicRef{Source: source, Target: r, Force: force}
}

// Many designates the set of references matched by a pattern.
type Many struct {
	scope
	pattern refname.Pattern
}

func NewMany(namespace Namespace, remote Remote, category Category, pattern refname.Pattern) Many {
	return Many{scope: scope{namespace: namespace, remote: remote, category: category}, pattern: pattern}
}

// RadIDsGlob matches refs[/namespaces/<namespace>/refs]/rad/ids/*.
func RadIDsGlob(namespace Namespace) Many {
	return NewMany(namespace, nil, Rad, globIDs)
}

// HeadsGlob matches refs[/namespaces/<namespace>/refs][/remotes/<remote>]/heads/*.
func HeadsGlob(namespace Namespace, remote Remote) Many {
	return NewMany(namespace, remote, Heads, globAll)
}

// RadsGlob matches refs[/namespaces/<namespace>/refs][/remotes/<remote>]/rad/*.
func RadsGlob(namespace Namespace, remote Remote) Many {
	return NewMany(namespace, remote, Rad, globAll)
}

// TagsGlob matches refs[/namespaces/<namespace>/refs][/remotes/<remote>]/tags/*.
func TagsGlob(namespace Namespace, remote Remote) Many {
	return NewMany(namespace, remote, Tags, globAll)
}

// NotesGlob matches refs[/namespaces/<namespace>/refs][/remotes/<remote>]/notes/*.
func NotesGlob(namespace Namespace, remote Remote) Many {
	return NewMany(namespace, remote, Notes, globAll)
}

// CobsGlob matches refs[/namespaces/<namespace>/refs][/remotes/<remote>]/cobs/*.
func CobsGlob(namespace Namespace, remote Remote) Many {
	return NewMany(namespace, remote, Cobs, globAll)
}

func (m Many) Namespace() Namespace { return m.namespace }
func (m Many) Remote() Remote { return m.remote }
func (m Many) Category() Category { return m.category }
func (m Many) Glob() refname.Pattern { return m.pattern }

func (m Many) WithNamespace(namespace Namespace) Many {
	m.namespace = namespace
	return m
}

func (m Many) WithRemote(remote Remote) Many {
	m.remote = remote
	return m
}

func (m Many) WithCategory(category Category) Many {
	m.category = category
	return m
}

func (m Many) WithGlob(pattern refname.Pattern) Many {
	m.pattern = pattern
	return m
}

// Pattern renders m, keeping the wildcard of its glob.
func (m Many) Pattern() refname.Pattern {
	return m.prefix().JoinPattern(m.pattern)
}

func (m Many) String() string { return m.Pattern().String() }

// References enumerates the references matched by m.
func (m Many) References(repo Repository) iter.Seq2[Ref, error] {
	return repo.References(m.Pattern())
}
