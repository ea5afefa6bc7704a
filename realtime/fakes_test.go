package realtime_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/piru-app/admin-realtime/realtime"
)

// fakeConn simula el lado cliente de un websocket: los tests empujan
// frames entrantes y fuerzan cierres con un código dado.
type fakeConn struct {
	mu        sync.Mutex
	written   [][]byte
	inbound   chan []byte
	errs      chan error
	done      chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 32),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-c.inbound:
		return websocket.TextMessage, data, nil
	case err := <-c.errs:
		return 0, nil, err
	case <-c.done:
		return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
	}
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if messageType == websocket.TextMessage {
		c.written = append(c.written, append([]byte(nil), data...))
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *fakeConn) push(t *testing.T, tipo string, payload interface{}) {
	t.Helper()
	frame, err := json.Marshal(map[string]interface{}{"type": tipo, "payload": payload})
	require.NoError(t, err)
	c.inbound <- frame
}

func (c *fakeConn) pushRaw(raw []byte) {
	c.inbound <- raw
}

func (c *fakeConn) fail(code int) {
	c.errs <- &websocket.CloseError{Code: code}
}

func (c *fakeConn) sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.written))
	for i, w := range c.written {
		out[i] = string(w)
	}
	return out
}

func (c *fakeConn) sentType(tipo string) bool {
	for _, frame := range c.sent() {
		var env struct {
			Type string `json:"type"`
		}
		if json.Unmarshal([]byte(frame), &env) == nil && env.Type == tipo {
			return true
		}
	}
	return false
}

// fakeDialer entrega una fakeConn nueva por intento y registra las URLs
// marcadas; con errs encolados el intento falla primero.
type fakeDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
	urls  []string
	errs  []error
}

func (d *fakeDialer) Dial(url string) (realtime.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.urls = append(d.urls, url)
	if len(d.errs) > 0 {
		err := d.errs[0]
		d.errs = d.errs[1:]
		return nil, err
	}
	conn := newFakeConn()
	d.conns = append(d.conns, conn)
	return conn, nil
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.urls)
}

func (d *fakeDialer) conn(i int) *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns[i]
}

func (d *fakeDialer) lastURL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.urls[len(d.urls)-1]
}

// fakeAPI registra las confirmaciones REST de las mutaciones optimistas
// y puede fallar todas.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (a *fakeAPI) record(call string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, call)
	return a.err
}

func (a *fakeAPI) MarkNotificationRead(_ context.Context, id string) error {
	return a.record("read:" + id)
}

func (a *fakeAPI) MarkAllNotificationsRead(context.Context) error {
	return a.record("read-all")
}

func (a *fakeAPI) DeleteNotification(_ context.Context, id string) error {
	return a.record("delete:" + id)
}

func (a *fakeAPI) DeleteAllNotifications(context.Context) error {
	return a.record("delete-all")
}

func (a *fakeAPI) recorded() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}
