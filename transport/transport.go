// Package transport provides the listeners the HTTP server accepts
// connections from: plain TCP, and QUIC where each connection carries one
// request on its first stream.
package transport

// ALPN is the application protocol negotiated on QUIC connections.
const ALPN = "hearth/1"
