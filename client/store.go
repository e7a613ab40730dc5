package client

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/chatkit/core/logger"
	"github.com/dmitrymomot/chatkit/core/user"
)

// State is the session store's authentication state.
type State string

const (
	// StateChecking is the initial state while the persisted token has not
	// been validated yet.
	StateChecking State = "checking"

	// StateAuthenticated means a validated session is active.
	StateAuthenticated State = "authenticated"

	// StateUnauthenticated means no valid session exists.
	StateUnauthenticated State = "unauthenticated"
)

// Store is the single owner of client-side authentication state. Every
// transition is serialized under one mutex and runs to completion before the
// next begins, so observers never see partial updates. The presence channel
// is connected exactly while the state is authenticated.
type Store struct {
	api    *API
	tokens TokenStore
	socket *SocketManager
	log    *slog.Logger

	mu      sync.Mutex
	state   State
	checked bool
	user    user.User
	token   string

	onlineMu sync.RWMutex
	online   []string

	consumerDone chan struct{}
}

// NewStore creates a session store in the checking state and starts
// consuming presence snapshots from the socket manager.
func NewStore(api *API, tokens TokenStore, socket *SocketManager, log *slog.Logger) *Store {
	s := &Store{
		api:          api,
		tokens:       tokens,
		socket:       socket,
		log:          log,
		state:        StateChecking,
		online:       []string{},
		consumerDone: make(chan struct{}),
	}
	go s.consumeSnapshots()
	return s
}

// CheckAuth resolves the checking state by validating the persisted token
// against the server. It runs the validation exactly once; later calls
// return the settled state without another request.
//
// A missing token settles into unauthenticated. Any validation failure,
// server rejection and transport fault alike, settles into unauthenticated
// and clears the persisted token: the next start begins from a clean slate
// instead of retrying a credential of unknown standing.
func (s *Store) CheckAuth(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checked {
		return s.state
	}
	s.checked = true

	token, err := s.tokens.Load()
	if err != nil {
		s.log.Error("load persisted token", logger.Component("store"), logger.Error(err))
		s.state = StateUnauthenticated
		return s.state
	}
	if token == "" {
		s.state = StateUnauthenticated
		return s.state
	}

	u, err := s.api.Check(ctx, token)
	if err != nil {
		s.log.Warn("session check failed", logger.Component("store"), logger.Error(err))
		if clearErr := s.tokens.Clear(); clearErr != nil {
			s.log.Warn("clear persisted token", logger.Component("store"), logger.Error(clearErr))
		}
		s.state = StateUnauthenticated
		return s.state
	}

	s.establishSession(u, token, false)
	return s.state
}

// Signup registers a new account and establishes the session. On failure the
// store settles into unauthenticated with in-memory session data cleared;
// any previously persisted token is left untouched. The returned error's
// message is the server's message verbatim.
func (s *Store) Signup(ctx context.Context, fullName, email, password string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.api.Signup(ctx, fullName, email, password)
	if err != nil {
		s.dropSession(false)
		return user.User{}, err
	}

	s.establishSession(resp.User, resp.Token, true)
	return resp.User, nil
}

// Login exchanges credentials for a session. Failure semantics match Signup.
func (s *Store) Login(ctx context.Context, email, password string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.dropSession(false)
		return user.User{}, err
	}

	s.establishSession(resp.User, resp.Token, true)
	return resp.User, nil
}

// Logout notifies the server and then tears the session down locally. The
// local teardown runs unconditionally: even when the server call fails the
// token is cleared, the state becomes unauthenticated, and the presence
// channel disconnects. The server error, if any, is returned after cleanup.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	apiErr := s.api.Logout(ctx, s.token)
	if apiErr != nil {
		s.log.Warn("logout request failed", logger.Component("store"), logger.Error(apiErr))
	}

	s.dropSession(true)
	return apiErr
}

// UpdateProfile uploads a new profile picture and replaces the cached user
// with the server's updated profile. It never changes the authentication
// state; failures leave the cached profile as is.
func (s *Store) UpdateProfile(ctx context.Context, profilePic string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticated {
		return user.User{}, ErrNotAuthenticated
	}

	u, err := s.api.UpdateProfile(ctx, s.token, profilePic)
	if err != nil {
		return user.User{}, err
	}

	s.user = u
	return u, nil
}

// ConnectSocket opens the presence channel for the current session. It is a
// no-op when unauthenticated or when the channel is already active.
func (s *Store) ConnectSocket() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticated {
		return
	}
	s.socket.Connect(s.token)
}

// State returns the current authentication state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentUser returns the cached profile. ok is false unless authenticated.
func (s *Store) CurrentUser() (u user.User, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.state == StateAuthenticated
}

// Token returns the in-memory session token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// OnlineUsers returns the latest presence snapshot. The slice is a copy.
func (s *Store) OnlineUsers() []string {
	s.onlineMu.RLock()
	defer s.onlineMu.RUnlock()

	out := make([]string, len(s.online))
	copy(out, s.online)
	return out
}

// Close disconnects the presence channel and stops the snapshot consumer.
func (s *Store) Close() {
	s.socket.Close()
	<-s.consumerDone
}

// establishSession records an authenticated session and connects the
// presence channel. Callers hold s.mu.
func (s *Store) establishSession(u user.User, token string, persist bool) {
	if persist {
		if err := s.tokens.Save(token); err != nil {
			s.log.Error("persist session token", logger.Component("store"), logger.Error(err))
		}
	}

	s.state = StateAuthenticated
	s.checked = true
	s.user = u
	s.token = token
	s.socket.Connect(token)

	s.log.Info("session established", logger.Component("store"), logger.UserID(u.ID))
}

// dropSession resets to unauthenticated: in-memory session data is cleared
// and the presence channel disconnects. The persisted token is removed only
// when clearPersisted is set. Callers hold s.mu.
func (s *Store) dropSession(clearPersisted bool) {
	if clearPersisted {
		if err := s.tokens.Clear(); err != nil {
			s.log.Warn("clear persisted token", logger.Component("store"), logger.Error(err))
		}
	}

	s.state = StateUnauthenticated
	s.checked = true
	s.user = user.User{}
	s.token = ""
	s.socket.Disconnect()
}

// consumeSnapshots pumps presence snapshots into the online set. Each
// snapshot is a full replacement. Exits when the socket manager closes its
// event stream.
func (s *Store) consumeSnapshots() {
	defer close(s.consumerDone)

	for snapshot := range s.socket.Events() {
		s.onlineMu.Lock()
		s.online = snapshot
		s.onlineMu.Unlock()
	}
}
