package field

import (
	"fmt"
	"slices"
)

// staticNamespace is a fixed, ordered set of named children.
type staticNamespace[O any] struct {
	names    []string
	children map[string]Accessor[O]
}

// NewNamespace builds a namespace from children, keyed by their names.
// Children keep their declaration order in ChildNames. Duplicate names panic,
// since namespaces are built once at startup.
func NewNamespace[O any](children ...Accessor[O]) Namespace[O] {
	ns := &staticNamespace[O]{
		names:    make([]string, 0, len(children)),
		children: make(map[string]Accessor[O], len(children)),
	}
	for _, child := range children {
		if _, dup := ns.children[child.Name()]; dup {
			panic(fmt.Sprintf("field: duplicate child %q", child.Name()))
		}
		ns.names = append(ns.names, child.Name())
		ns.children[child.Name()] = child
	}
	return ns
}

func (ns *staticNamespace[O]) Child(name string) (Accessor[O], bool) {
	child, ok := ns.children[name]
	return child, ok
}

func (ns *staticNamespace[O]) ChildNames(*O) []string {
	return slices.Clone(ns.names)
}
