// Package host defines the contract between the timer engine and the host
// application that owns the physical surfaces.
//
// The engine never talks to the host directly: inbound input arrives as
// InboundEvent values and outbound display updates go through the
// SurfaceClient interface. pkg/transport implements SurfaceClient over the
// host's websocket; the simulator implements it in-process.
package host
