// Package symbolic models the typed program entities a debugger builds from
// DWARF debug information: types, functions, variables, aggregates with
// inheritance, and Rust-style tagged unions.
//
// Symbols form an on-demand graph. Nodes are produced by a Factory from
// opaque per-module keys and navigated through two kinds of lazy handle:
//
//   - CachedRef follows ownership edges that point down the tree (a
//     collection's members, a function's parameters). The first access
//     decodes through the factory and memoizes the result for the handle's
//     lifetime.
//   - UncachedRef follows edges that point up or across (a symbol's parent,
//     an expression's owning symbol). It re-resolves through the factory on
//     every access and never memoizes, which keeps the ownership graph
//     acyclic and bounds memory retention.
//
// Both handle kinds resolve failures to a shared null symbol (tag None)
// instead of nil, so callers can always dereference the result.
//
// The package also provides the derived operations built on the graph:
// depth-first traversal of a class hierarchy with cumulative byte offsets,
// member lookup through base classes, lexical scope chains, and resolution
// of the active alternative of a discriminated union.
//
// Symbols are immutable once constructed and safe for concurrent readers.
// The same logical entity may be decoded into multiple distinct Symbol
// values; code must never rely on pointer identity.
package symbolic
