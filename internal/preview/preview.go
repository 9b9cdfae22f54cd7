// Package preview pushes compilation results to a live-preview renderer over
// socket.io.
package preview

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/specialistvlad/shadergrid/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the event name results are emitted under.
const DefaultEvent = "shader:compiled"

const connectTimeout = 15 * time.Second

// Payload is what the renderer receives for every published compilation.
type Payload struct {
	ID             string                       `json:"id"`
	Generation     uint64                       `json:"generation"`
	Success        bool                         `json:"success"`
	VertexShader   string                       `json:"vertexShader,omitempty"`
	FragmentShader string                       `json:"fragmentShader,omitempty"`
	Errors         []string                     `json:"errors,omitempty"`
	NodeOutputVars map[string]map[string]string `json:"nodeOutputVars,omitempty"`
	CompiledAt     time.Time                    `json:"compiledAt"`
}

// EmitFunc sends one event with its data.
type EmitFunc func(event string, data any)

// Publisher emits payloads under a fixed event name. It is safe for
// concurrent use.
type Publisher struct {
	event string
	emit  EmitFunc
	close func()

	mu     sync.Mutex
	closed bool
}

// NewPublisher creates a publisher on top of an arbitrary emitter.
func NewPublisher(event string, emit EmitFunc) *Publisher {
	if event == "" {
		event = DefaultEvent
	}
	return &Publisher{event: event, emit: emit, close: func() {}}
}

// Dial connects to the socket.io server at rawURL and returns a publisher
// bound to namespace. It blocks until the connection is established, ctx is
// cancelled or the connect timeout passes.
func Dial(ctx context.Context, rawURL, namespace, event string, insecureSkipVerify bool) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("url", rawURL, "namespace", namespace)
	logger.Debug("Connecting to preview server.")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse preview URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("preview URL %q must be absolute", rawURL)
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		opts.SetPath(parsedURL.Path)
	}
	if insecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to preview server.", "sid", io.Id())
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", connectTimeout)
	}

	p := NewPublisher(event, func(ev string, data any) { io.Emit(ev, data) })
	p.close = func() {
		logger.Debug("Disconnecting from preview server.")
		io.Disconnect()
	}
	return p, nil
}

// Publish emits payload. It fails when ctx is already done or the publisher
// was closed.
func (p *Publisher) Publish(ctx context.Context, payload *Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("publisher is closed")
	}
	ctxlog.FromContext(ctx).Debug("Publishing compilation.", "event", p.event, "id", payload.ID, "generation", payload.Generation, "success", payload.Success)
	p.emit(p.event, payload)
	return nil
}

// Close disconnects the publisher. Further calls to Publish fail.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.close()
	return nil
}
