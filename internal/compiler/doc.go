// Package compiler turns loaded rule entries into executable rules.
//
// An action block is compiled into a flat list of Actions in declaration order,
// depth first through nested blocks. Each key is resolved against the current
// namespace (the registry root, or the complex field a nested block belongs to).
//
// Problems that only make an entry ineffective degrade to a Diagnostic and the
// entry is skipped: unresolvable paths, nested blocks under non-complex fields,
// and read-only targets (the action is still emitted so authors are warned
// rather than silently ignored). Text that cannot be compiled for the target
// field's kind is a *CompileError and fails the whole rule.
package compiler
