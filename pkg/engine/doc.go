// Package engine dispatches host events to timer groups.
//
// The Service is the coordination point of the plugin: it owns the group
// registry, the gesture detector, and the render broadcaster, and turns
// normalized host events into timer mutations. All collaborators are
// injected; the package keeps no ambient state.
package engine
