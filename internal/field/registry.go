package field

import (
	"maps"
	"slices"
	"strings"

	"github.com/roach88/tradepatch/internal/trade"
)

// Registry resolves dotted paths against the root trade namespace.
// A Registry is immutable after construction and safe for concurrent reads.
type Registry struct {
	root Accessor[trade.Trade]
}

// NewRegistry creates a registry rooted at ns.
func NewRegistry(ns Namespace[trade.Trade]) *Registry {
	return &Registry{root: Root(ns)}
}

// Root returns the implicit root accessor.
func (r *Registry) Root() Accessor[trade.Trade] {
	return r.root
}

// Resolve resolves path from the root namespace. See ResolveFrom.
func (r *Registry) Resolve(path string, recursive bool) (Accessor[trade.Trade], error) {
	return ResolveFrom(r.root, path, recursive)
}

// List returns every leaf accessor reachable from base, keyed by full path.
// A nil base lists from the root. owner may be nil, in which case children
// that depend on the live instance are listed from their static defaults.
func (r *Registry) List(base Accessor[trade.Trade], owner *trade.Trade) map[string]Accessor[trade.Trade] {
	if base == nil {
		base = r.root
	}
	return List(base, owner)
}

// ResolveFrom resolves a dotted path relative to base.
//
// The path is split on "." and walked left to right: at each segment the
// current accessor must be complex and must have the named child. The first
// missing or non-complex segment fails the whole path with a *ResolveError.
//
// If recursive is false, path is looked up as a single child name of base.
func ResolveFrom[O any](base Accessor[O], path string, recursive bool) (Accessor[O], error) {
	if path == "" {
		return nil, &ResolveError{Path: path, Prefix: path, Reason: "empty path"}
	}

	segments := []string{path}
	if recursive {
		segments = strings.Split(path, ".")
	}

	current := base
	for i, segment := range segments {
		prefix := strings.Join(segments[:i+1], ".")
		if segment == "" {
			return nil, &ResolveError{Path: path, Prefix: prefix, Reason: "empty segment"}
		}
		ns, ok := current.Complex()
		if !ok {
			return nil, &ResolveError{
				Path:   path,
				Prefix: prefix,
				Reason: describe(segments[:i]) + " does not have fields",
			}
		}
		child, ok := ns.Child(segment)
		if !ok {
			return nil, &ResolveError{
				Path:   path,
				Prefix: prefix,
				Reason: describe(segments[:i]) + " does not have field " + segment,
			}
		}
		current = child
	}
	return current, nil
}

func describe(segments []string) string {
	if len(segments) == 0 {
		return "root"
	}
	return "root." + strings.Join(segments, ".")
}

// List returns every leaf accessor reachable from base by recursive descent
// over each complex accessor's current children, keyed by full dotted path.
// A non-complex base lists as itself.
func List[O any](base Accessor[O], owner *O) map[string]Accessor[O] {
	out := make(map[string]Accessor[O])
	ns, ok := base.Complex()
	if !ok {
		out[base.Name()] = base
		return out
	}
	for _, name := range ns.ChildNames(owner) {
		child, ok := ns.Child(name)
		if !ok {
			continue
		}
		if _, isComplex := child.Complex(); isComplex {
			maps.Copy(out, List(child, owner))
			continue
		}
		out[child.Name()] = child
	}
	return out
}

// SortedPaths returns the keys of a listing in lexical order.
func SortedPaths[O any](listing map[string]Accessor[O]) []string {
	return slices.Sorted(maps.Keys(listing))
}
