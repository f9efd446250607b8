// Package group implements timer groups and the registry that maps control
// surfaces onto them.
//
// A Group owns one timer runtime, the sets of attached dial and key
// surfaces, per-surface render caches, and its background ticker. All
// runtime mutations for a group are serialized through the group's mutex,
// giving each group a single conceptual sequencing point; renders to
// individual surfaces happen outside that lock and run in parallel.
//
// The Registry tracks which group every surface belongs to. Attaching a
// surface to a new group detaches it from its previous group first; a
// group that loses its last surface has its ticker stopped and is
// discarded.
//
// # Update Versions
//
// Duration adjustments bump a per-group monotonically increasing version
// before requesting a render. A render carrying an older version than the
// group's current one is stale and must be dropped by the renderer, so
// rapid adjustments (e.g. fast rotation) resolve deterministically.
// Toggle, reset, and ticker renders are unversioned (version 0): they
// always reflect the runtime state read at render time.
package group
