package client

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/chatkit/core/logger"
	"github.com/dmitrymomot/chatkit/core/presence"
)

// SocketManager owns the client side of the presence channel: at most one
// live connection, authenticated by presenting the session token as the
// channel's own credential in the first frame.
//
// Connect is idempotent and Disconnect suppresses automatic reconnects.
// Transport-level drops trigger reconnect attempts with exponential backoff
// until Disconnect is called or the server definitively rejects the
// credential.
//
// Snapshots arrive on the Events stream: a lazy, non-restartable sequence of
// full online-identity sets, closed only by Close.
type SocketManager struct {
	wsURL  string
	dialer *websocket.Dialer
	log    *slog.Logger

	backoffMin time.Duration
	backoffMax time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	closed  bool

	events chan []string
}

// SocketOption configures the socket manager.
type SocketOption func(*SocketManager)

// WithBackoff sets the reconnect backoff bounds.
func WithBackoff(min, max time.Duration) SocketOption {
	return func(m *SocketManager) {
		if min > 0 {
			m.backoffMin = min
		}
		if max >= min {
			m.backoffMax = max
		}
	}
}

// WithDialer replaces the websocket dialer.
func WithDialer(d *websocket.Dialer) SocketOption {
	return func(m *SocketManager) {
		if d != nil {
			m.dialer = d
		}
	}
}

// NewSocketManager creates a presence socket manager for the given API base
// URL. The websocket endpoint is derived from it (http -> ws, https -> wss,
// path /ws).
func NewSocketManager(baseURL string, log *slog.Logger, opts ...SocketOption) *SocketManager {
	m := &SocketManager{
		wsURL:      deriveWSURL(baseURL),
		dialer:     websocket.DefaultDialer,
		log:        log,
		backoffMin: 500 * time.Millisecond,
		backoffMax: 30 * time.Second,
		events:     make(chan []string, 16),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Events returns the snapshot stream. Each value is a full replacement of
// the online-identity set. The channel is closed by Close.
func (m *SocketManager) Events() <-chan []string {
	return m.events
}

// Connected reports whether a connection cycle is active (dialing,
// authenticated, or between reconnect attempts).
func (m *SocketManager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Connect opens the presence channel with the given token. Calling Connect
// while a connection cycle is already active is a no-op.
func (m *SocketManager) Connect(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.running || token == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true

	go m.run(ctx, token)
}

// Disconnect closes the channel, suppresses further reconnect attempts, and
// clears the cached online set by emitting an empty snapshot. Idempotent.
func (m *SocketManager) Disconnect() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.cancel()
	m.running = false
	m.mu.Unlock()

	m.emit(nil)
}

// Close disconnects and terminates the event stream. The manager cannot be
// reused afterwards. Idempotent.
//
// The closed flag and close(events) flip under the same mutex emit sends
// under, so a snapshot racing Close either lands before the channel closes
// or sees the flag and is dropped.
func (m *SocketManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	if m.running {
		m.cancel()
		m.running = false
	}
	close(m.events)
}

// run is one connection cycle: dial, authenticate, pump snapshots, and on
// transport drops retry with backoff until the context is cancelled or the
// server rejects the credential.
func (m *SocketManager) run(ctx context.Context, token string) {
	defer m.stopRunning()

	backoff := m.backoffMin

	for {
		if ctx.Err() != nil {
			return
		}

		rejected, err := m.session(ctx, token)
		if rejected {
			m.log.Warn("presence channel credential rejected",
				logger.Component("socket"),
			)
			return
		}
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			// Clean session end resets the backoff for the next attempt.
			backoff = m.backoffMin
		}

		m.log.Debug("presence channel dropped, reconnecting",
			logger.Component("socket"),
			logger.Error(err),
			logger.Duration(backoff),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > m.backoffMax {
			backoff = m.backoffMax
		}
	}
}

// session runs a single dial-auth-read cycle. It reports rejected=true when
// the server refused the credential, which must not be retried.
func (m *SocketManager) session(ctx context.Context, token string) (rejected bool, err error) {
	conn, _, err := m.dialer.DialContext(ctx, m.wsURL, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	// Close the socket as soon as the cycle is cancelled so the blocking
	// read below unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	if err := conn.WriteJSON(presence.AuthEvent(token)); err != nil {
		return false, err
	}

	for {
		var event presence.Event
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
				return true, err
			}
			return false, err
		}

		switch event.Type {
		case presence.EventOnlineUsers:
			m.emit(event.UserIDs)
		case presence.EventError:
			m.log.Warn("presence channel error",
				logger.Component("socket"),
				slog.String("message", event.Message),
			)
		}
	}
}

func (m *SocketManager) stopRunning() {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

// emit offers a snapshot without blocking. A full buffer drops the value;
// snapshots are full replacements, so the next one supersedes it. The send
// happens under the mutex so it can never race the close in Close.
func (m *SocketManager) emit(snapshot []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	if snapshot == nil {
		snapshot = []string{}
	}
	select {
	case m.events <- snapshot:
	default:
	}
}

func deriveWSURL(baseURL string) string {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return baseURL
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	return u.String()
}
