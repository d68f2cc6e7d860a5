package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-toolpath/common"
)

type recordingSink struct {
	mu        sync.Mutex
	path      []float32
	surface   []float32
	workpiece common.Box3
	envelope  common.Box3
	calls     int
}

func (s *recordingSink) SetPath(p []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = p
	s.calls++
}

func (s *recordingSink) SetSurface(v []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface = v
	s.calls++
}

func (s *recordingSink) SetWorkpiece(b common.Box3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workpiece = b
	s.calls++
}

func (s *recordingSink) SetEnvelope(b common.Box3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelope = b
	s.calls++
}

// serve starts a push socket that sends frames in order, then either closes
// normally or holds the connection open until the client leaves.
func serve(t *testing.T, frames []string, closeAfter bool) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		if closeAfter {
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		}
		// Drain until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestRunForwardsMessages(t *testing.T) {
	url := serve(t, []string{
		`{"type":"toolpath","path":[0,0,0,1,2,3],"surface":[4,4,4]}`,
		`not json`,
		`{"type":"spindle"}`,
		`{"type":"workpiece","min":[0,0,-5],"max":[100,50,0]}`,
		`{"type":"envelope","min":[-200,-200,-100],"max":[200,200,0]}`,
	}, true)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, url)
	require.NoError(t, err)
	defer c.Close()

	sink := &recordingSink{}
	require.NoError(t, c.Run(ctx, sink))

	assert.Equal(t, []float32{0, 0, 0, 1, 2, 3}, sink.path)
	assert.Equal(t, []float32{4, 4, 4}, sink.surface)
	assert.Equal(t, common.NewBox(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{100, 50, 0}), sink.workpiece)
	assert.Equal(t, mgl32.Vec3{200, 200, 0}, sink.envelope.Max)
	assert.Equal(t, 4, sink.calls)
}

func TestRunStopsOnCancel(t *testing.T) {
	url := serve(t, nil, false)

	c, err := Dial(context.Background(), url)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, &recordingSink{}) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	assert.ErrorIs(t, err, websocket.ErrBadHandshake)
}

func TestApply(t *testing.T) {
	sink := &recordingSink{}

	err := Apply(Message{Type: TypeWorkpiece, Min: &[3]float32{0, 0, 0}}, sink)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Zero(t, sink.calls)

	require.NoError(t, Apply(Message{Type: TypeToolpath, Path: []float32{1, 1, 1}}, sink))
	assert.Nil(t, sink.surface)
	assert.Equal(t, 1, sink.calls)

	require.NoError(t, Apply(Message{Type: TypeClear}, sink))
	assert.Nil(t, sink.path)
	assert.True(t, sink.workpiece.IsEmpty())

	assert.ErrorIs(t, Apply(Message{Type: "coolant"}, sink), ErrMalformed)
}
