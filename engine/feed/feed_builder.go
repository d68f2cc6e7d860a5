package feed

import "time"

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*client)

// WithReadLimit caps the size in bytes of a single incoming message.
//
// Parameters:
//   - limit: maximum message size, zero for no limit
//
// Returns:
//   - ClientOption: functional option to set the read limit
func WithReadLimit(limit int64) ClientOption {
	return func(c *client) {
		c.readLimit = limit
	}
}

// WithHandshakeTimeout bounds the websocket opening handshake.
func WithHandshakeTimeout(d time.Duration) ClientOption {
	return func(c *client) {
		c.handshakeTimeout = d
	}
}
