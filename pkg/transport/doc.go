// Package transport connects the plugin to the host application over the
// host's localhost websocket.
//
// The host launches the plugin with a port, a plugin UUID, and the name of
// the registration event. The client dials the socket, registers, then runs
// a read loop translating the host's JSON event frames into normalized
// engine events. Outbound surface commands implement host.SurfaceClient;
// writes are serialized because the underlying connection supports a single
// writer.
package transport
