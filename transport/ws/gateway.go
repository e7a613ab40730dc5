package ws

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/chatkit/core/guard"
	"github.com/dmitrymomot/chatkit/core/logger"
	"github.com/dmitrymomot/chatkit/core/presence"
)

// Gateway upgrades HTTP requests to presence channels and keeps the registry
// and connected clients in sync.
type Gateway struct {
	sessionGuard *guard.Guard
	registry     *presence.Registry
	log          *slog.Logger
	upgrader     websocket.Upgrader

	authTimeout  time.Duration
	writeTimeout time.Duration
	queueSize    int

	mu    sync.RWMutex
	conns map[string]*conn
}

// GatewayOption configures the gateway.
type GatewayOption func(*Gateway)

// WithAuthTimeout bounds how long the gateway waits for the auth frame.
func WithAuthTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		if d > 0 {
			g.authTimeout = d
		}
	}
}

// WithWriteTimeout bounds each outbound frame write.
func WithWriteTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		if d > 0 {
			g.writeTimeout = d
		}
	}
}

// WithSendQueueSize sets the per-connection outbound queue length.
func WithSendQueueSize(n int) GatewayOption {
	return func(g *Gateway) {
		if n > 0 {
			g.queueSize = n
		}
	}
}

// WithOriginCheck overrides the websocket origin check.
func WithOriginCheck(fn func(r *http.Request) bool) GatewayOption {
	return func(g *Gateway) {
		g.upgrader.CheckOrigin = fn
	}
}

// NewGateway creates a presence gateway.
func NewGateway(sessionGuard *guard.Guard, registry *presence.Registry, log *slog.Logger, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		sessionGuard: sessionGuard,
		registry:     registry,
		log:          log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		authTimeout:  5 * time.Second,
		writeTimeout: 10 * time.Second,
		queueSize:    16,
		conns:        make(map[string]*conn),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ServeHTTP upgrades the request, performs the in-band credential exchange,
// and runs the connection until it drops or the client closes it.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	socket, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.ErrorContext(r.Context(), "websocket upgrade failed",
			logger.Component("ws"),
			logger.Error(err),
		)
		return
	}

	authCtx, ok := g.authenticate(r, socket)
	if !ok {
		_ = socket.Close()
		return
	}

	c := newConn(uuid.NewString(), authCtx.User.ID, socket, g.queueSize)

	g.mu.Lock()
	g.conns[c.id] = c
	g.mu.Unlock()

	c.enqueue(presence.Event{Type: presence.EventAuthOK})
	g.broadcast(g.registry.Add(c.userID, c.id))

	g.log.InfoContext(r.Context(), "presence channel connected",
		logger.Component("ws"),
		logger.UserID(c.userID),
		logger.ConnectionID(c.id),
	)

	go c.writePump(g.writeTimeout)
	g.readLoop(c)

	g.mu.Lock()
	delete(g.conns, c.id)
	g.mu.Unlock()
	c.close()

	g.broadcast(g.registry.Remove(c.userID, c.id))

	g.log.InfoContext(r.Context(), "presence channel closed",
		logger.Component("ws"),
		logger.UserID(c.userID),
		logger.ConnectionID(c.id),
	)
}

// authenticate reads the first frame and validates the presented token the
// same way the HTTP guard would. Failure rejects the handshake.
func (g *Gateway) authenticate(r *http.Request, socket *websocket.Conn) (guard.Context, bool) {
	_ = socket.SetReadDeadline(time.Now().Add(g.authTimeout))
	defer socket.SetReadDeadline(time.Time{})

	var event presence.Event
	if err := socket.ReadJSON(&event); err != nil {
		return guard.Context{}, false
	}

	if event.Type != presence.EventAuth || event.Token == "" {
		g.reject(socket, "Unauthorized - No Token Provided")
		return guard.Context{}, false
	}

	authCtx, err := g.sessionGuard.VerifyToken(r.Context(), event.Token)
	if err != nil {
		g.log.WarnContext(r.Context(), "channel authentication rejected",
			logger.Component("ws"),
			logger.Error(err),
		)
		g.reject(socket, "Unauthorized - Invalid Token")
		return guard.Context{}, false
	}

	return authCtx, true
}

func (g *Gateway) reject(socket *websocket.Conn, message string) {
	_ = socket.SetWriteDeadline(time.Now().Add(g.writeTimeout))
	_ = socket.WriteJSON(presence.Event{Type: presence.EventError, Message: message})
	_ = socket.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, message))
}

// readLoop consumes inbound frames until the transport drops. The presence
// channel carries no client events after auth; reading only detects closure
// and keeps control frames flowing.
func (g *Gateway) readLoop(c *conn) {
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			return
		}
	}
}

// broadcast fans the snapshot out to every connection. Non-blocking per
// consumer: a full queue drops the event, the next snapshot catches up.
func (g *Gateway) broadcast(snapshot []string) {
	event := presence.SnapshotEvent(snapshot)

	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.conns {
		c.enqueue(event)
	}
}

// Online exposes the registry projection, mainly for tests and diagnostics.
func (g *Gateway) Online() []string {
	return g.registry.Online()
}

// CloseAll terminates every active connection. Used on shutdown.
func (g *Gateway) CloseAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, c := range g.conns {
		c.close()
		delete(g.conns, id)
	}
}
