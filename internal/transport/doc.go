// Package transport turns push-only feeds into blocking fetches.
//
// Some exchange houses publish their quotes over a WebSocket that sends a
// single message right after the handshake and expects nothing back. Bridge
// opens a fresh connection per call, waits a bounded number of cycles for
// that first message and always closes the connection before returning.
package transport
