// Package feed receives geometry updates from the machine controller's push
// socket and forwards them to the viewer's bounds provider.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"

	"github.com/Carmen-Shannon/oxy-toolpath/common"
)

// ErrMalformed marks a message that decoded but cannot be applied.
var ErrMalformed = errors.New("malformed feed message")

// Message types sent by the controller.
const (
	TypeToolpath  = "toolpath"
	TypeWorkpiece = "workpiece"
	TypeEnvelope  = "envelope"
	TypeClear     = "clear"
)

// Message is one push-socket update. Path and Surface are flat x, y, z triples.
type Message struct {
	Type    string      `json:"type"`
	Path    []float32   `json:"path,omitempty"`
	Surface []float32   `json:"surface,omitempty"`
	Min     *[3]float32 `json:"min,omitempty"`
	Max     *[3]float32 `json:"max,omitempty"`
}

// Sink receives decoded geometry. bounds.Provider implements it.
type Sink interface {
	SetPath(points []float32)
	SetSurface(vertices []float32)
	SetWorkpiece(box common.Box3)
	SetEnvelope(box common.Box3)
}

// Client is a connected push-socket reader.
type Client interface {
	// Run reads messages until the connection closes or ctx is done, applying each to sink.
	// Messages that fail to decode are logged and skipped.
	//
	// Parameters:
	//   - ctx: cancels the read loop
	//   - sink: receives the geometry
	//
	// Returns:
	//   - error: nil on a normal close, ctx.Err() on cancellation, otherwise the read error
	Run(ctx context.Context, sink Sink) error

	// Close sends a close frame and releases the connection.
	Close() error
}

type client struct {
	conn *websocket.Conn

	readLimit        int64
	handshakeTimeout time.Duration

	closeOnce sync.Once
	closeErr  error
}

var _ Client = &client{}

// Dial connects to the controller's push socket.
//
// Parameters:
//   - ctx: bounds the dial
//   - url: ws:// or wss:// address
//   - options: functional options to configure the client
//
// Returns:
//   - Client: the connected client
//   - error: if the connection could not be established
func Dial(ctx context.Context, url string, options ...ClientOption) (Client, error) {
	c := &client{
		handshakeTimeout: 10 * time.Second,
	}
	for _, option := range options {
		option(c)
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = c.handshakeTimeout

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("feed: dial %s: %w", url, err)
	}
	if c.readLimit > 0 {
		conn.SetReadLimit(c.readLimit)
	}
	c.conn = conn
	return c, nil
}

func (c *client) Run(ctx context.Context, sink Sink) error {
	stop := context.AfterFunc(ctx, func() {
		c.conn.Close()
	})
	defer stop()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("feed: read: %w", err)
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[Feed] skipping undecodable message: %v", err)
			continue
		}
		if err := Apply(msg, sink); err != nil {
			log.Printf("[Feed] skipping message: %v", err)
		}
	}
}

func (c *client) Close() error {
	c.closeOnce.Do(func() {
		deadline := time.Now().Add(time.Second)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

// Apply forwards a single message to sink.
//
// Parameters:
//   - msg: the decoded message
//   - sink: receives the geometry
//
// Returns:
//   - error: wraps ErrMalformed for unknown types or missing box corners
func Apply(msg Message, sink Sink) error {
	switch msg.Type {
	case TypeToolpath:
		sink.SetPath(msg.Path)
		if msg.Surface != nil {
			sink.SetSurface(msg.Surface)
		}
	case TypeWorkpiece, TypeEnvelope:
		if msg.Min == nil || msg.Max == nil {
			return fmt.Errorf("%w: %s without min and max", ErrMalformed, msg.Type)
		}
		box := common.NewBox(mgl32.Vec3(*msg.Min), mgl32.Vec3(*msg.Max))
		if msg.Type == TypeWorkpiece {
			sink.SetWorkpiece(box)
		} else {
			sink.SetEnvelope(box)
		}
	case TypeClear:
		sink.SetPath(nil)
		sink.SetSurface(nil)
		sink.SetWorkpiece(common.EmptyBox())
	default:
		return fmt.Errorf("%w: type %q", ErrMalformed, msg.Type)
	}
	return nil
}
