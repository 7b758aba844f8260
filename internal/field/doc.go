// Package field implements path-addressable, typed access into a trade.
//
// An Accessor is a named handle that reads and optionally writes one property
// of an owner. Leaf accessors carry exactly one value Kind from a closed set
// (bool, int, string, item). Complex accessors carry no value kind of their own;
// they expose a Namespace of further accessors.
//
// Multi-segment paths are built with a single combinator: a complex accessor
// from X to Y lifts each child accessor over Y into an accessor over X. Writes
// through the lifted accessor are read-modify-write: read Y, write the child
// into Y, write Y back into X. A lifted accessor is read-only if either side is.
//
// The Registry resolves dotted path strings from the root trade namespace and
// lists all leaf paths for diagnostics.
package field
