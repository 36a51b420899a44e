// File: pkg/browserless/websocket.go
package browserless

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Connection is a WebSocket session with a browser automation endpoint.
// Send and Close may be called from different goroutines. Exchanges are
// serialized.
type Connection struct {
	client   *Client
	endpoint string
	dialer   *websocket.Dialer
	logger   *zap.Logger

	mu   sync.Mutex
	conn *websocket.Conn

	// exchange keeps one request and its reply together on the wire.
	exchange sync.Mutex
}

// Puppeteer returns an unconnected session with the /puppeteer endpoint.
func (c *Client) Puppeteer() *Connection {
	return c.newConnection(endpointPuppeteer)
}

// Playwright returns an unconnected session with the /playwright endpoint.
func (c *Client) Playwright() *Connection {
	return c.newConnection(endpointPlaywright)
}

func (c *Client) newConnection(endpoint string) *Connection {
	return &Connection{
		client:   c,
		endpoint: endpoint,
		dialer:   websocket.DefaultDialer,
		logger:   c.logger.Named(string(FeatureWebSocket)).With(zap.String("endpoint", endpoint)),
	}
}

// URL returns the ws:// or wss:// address of the endpoint, token included.
func (w *Connection) URL() (string, error) {
	target, err := w.client.EndpointURL(w.endpoint, nil)
	if err != nil {
		return "", err
	}
	switch {
	case strings.HasPrefix(strings.ToLower(target), "https://"):
		return "wss://" + target[len("https://"):], nil
	default:
		return "ws://" + target[len("http://"):], nil
	}
}

// Connected reports whether Connect succeeded and Close has not been called.
func (w *Connection) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn != nil
}

// Connect dials the endpoint. Calling it on an open connection replaces the
// previous socket.
func (w *Connection) Connect(ctx context.Context) error {
	target, err := w.URL()
	if err != nil {
		return &WebSocketError{Op: "connect", Err: err}
	}

	conn, resp, err := w.dialer.DialContext(ctx, target, http.Header{})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		w.logger.Error("WebSocket dial failed", zap.String("url", w.client.redact(target)), zap.Error(err))
		return &WebSocketError{Op: "connect", Err: err}
	}

	w.mu.Lock()
	prev := w.conn
	w.conn = conn
	w.mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}

	w.logger.Debug("WebSocket connected", zap.String("url", w.client.redact(target)))
	return nil
}

// Send writes message as a text frame and returns the next message received.
// Cancelling ctx interrupts a pending read.
func (w *Connection) Send(ctx context.Context, message string) (string, error) {
	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()
	if conn == nil {
		return "", ErrNotConnected
	}
	if ctx == nil {
		ctx = context.Background()
	}

	w.exchange.Lock()
	defer w.exchange.Unlock()

	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(dl)
		_ = conn.SetReadDeadline(dl)
	} else {
		_ = conn.SetWriteDeadline(time.Time{})
		_ = conn.SetReadDeadline(time.Time{})
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
		return "", &WebSocketError{Op: "send", Err: err}
	}
	_, reply, err := conn.ReadMessage()
	if err != nil {
		if ctxErr := expired(ctx); ctxErr != nil {
			err = errors.Join(ctxErr, err)
		}
		return "", &WebSocketError{Op: "send", Err: err}
	}
	return string(reply), nil
}

// expired reports ctx's error, treating a passed deadline as expired even
// before the context's own timer has fired.
func expired(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
		return context.DeadlineExceeded
	}
	return nil
}

// Close sends a close frame and releases the socket. It is a no-op on a
// connection that is not open.
func (w *Connection) Close() error {
	w.mu.Lock()
	conn := w.conn
	w.conn = nil
	w.mu.Unlock()
	if conn == nil {
		return nil
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	if err := conn.Close(); err != nil {
		return &WebSocketError{Op: "close", Err: err}
	}
	w.logger.Debug("WebSocket closed")
	return nil
}

// RemoteAllocator returns a chromedp allocator context attached to this
// endpoint, so chromedp tasks drive the remote browser directly. The URL is
// passed through unchanged so the token survives.
func (w *Connection) RemoteAllocator(ctx context.Context) (context.Context, context.CancelFunc, error) {
	target, err := w.URL()
	if err != nil {
		return nil, nil, &WebSocketError{Op: "connect", Err: err}
	}
	allocCtx, cancel := chromedp.NewRemoteAllocator(ctx, target, chromedp.NoModifyURL)
	return allocCtx, cancel, nil
}
