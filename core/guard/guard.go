package guard

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/chatkit/core/token"
	"github.com/dmitrymomot/chatkit/core/user"
)

// DefaultCookieName is the session cookie checked by the default extractor.
const DefaultCookieName = "jwt"

// Source identifies the transport a token was extracted from.
type Source string

const (
	// SourceCookie extracts the token from the session cookie.
	SourceCookie Source = "cookie"
	// SourceBearer extracts the token from the Authorization header.
	SourceBearer Source = "bearer"
)

// Resolver resolves a verified identity to its stored record.
// user.Store satisfies this interface.
type Resolver interface {
	FindByID(ctx context.Context, id string) (user.User, error)
}

// Context is the request-scoped result of a successful authentication:
// the resolved public profile (password hash stripped) and the verified
// claims. Created per request, discarded at request end.
type Context struct {
	User   user.User
	Claims token.Claims
	Source Source
}

// Guard validates session tokens and produces authenticated request contexts.
// It is read-only per request and safe for concurrent use.
type Guard struct {
	tokens     *token.Service
	resolver   Resolver
	revoker    Revoker
	cookieName string
	sources    []Source
}

// Option configures the guard.
type Option func(*Guard)

// WithCookieName sets the session cookie name. Defaults to "jwt".
func WithCookieName(name string) Option {
	return func(g *Guard) {
		if name != "" {
			g.cookieName = name
		}
	}
}

// WithSources sets the transport precedence order. The default is cookie
// first, bearer header second.
func WithSources(sources ...Source) Option {
	return func(g *Guard) {
		if len(sources) > 0 {
			g.sources = sources
		}
	}
}

// WithRevoker enables a token denylist. Defaults to NoOpRevoker.
func WithRevoker(revoker Revoker) Option {
	return func(g *Guard) {
		if revoker != nil {
			g.revoker = revoker
		}
	}
}

// New creates a session guard.
func New(tokens *token.Service, resolver Resolver, opts ...Option) *Guard {
	g := &Guard{
		tokens:     tokens,
		resolver:   resolver,
		revoker:    NoOpRevoker{},
		cookieName: DefaultCookieName,
		sources:    []Source{SourceCookie, SourceBearer},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authenticate extracts a token from the request, verifies it, and resolves
// the identity. The first transport carrying a token wins: a present cookie
// is used even when an Authorization header is also set.
func (g *Guard) Authenticate(r *http.Request) (Context, error) {
	value, source, ok := g.extract(r)
	if !ok {
		return Context{}, ErrUnauthenticated
	}

	claims, err := g.tokens.Verify(value)
	if err != nil {
		return Context{}, errors.Join(ErrInvalidToken, err)
	}

	ctx := r.Context()

	if claims.ID != "" {
		revoked, err := g.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return Context{}, errors.Join(ErrTransient, err)
		}
		if revoked {
			return Context{}, ErrInvalidToken
		}
	}

	u, err := g.resolver.FindByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Context{}, ErrIdentityNotFound
		}
		return Context{}, errors.Join(ErrTransient, err)
	}

	return Context{
		User:   u.Public(),
		Claims: claims,
		Source: source,
	}, nil
}

// VerifyToken verifies a raw token value and resolves its identity without
// an HTTP request. The websocket gateway uses this to validate channel
// credentials exactly as the HTTP guard would.
func (g *Guard) VerifyToken(ctx context.Context, value string) (Context, error) {
	if value == "" {
		return Context{}, ErrUnauthenticated
	}

	claims, err := g.tokens.Verify(value)
	if err != nil {
		return Context{}, errors.Join(ErrInvalidToken, err)
	}

	if claims.ID != "" {
		revoked, err := g.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return Context{}, errors.Join(ErrTransient, err)
		}
		if revoked {
			return Context{}, ErrInvalidToken
		}
	}

	u, err := g.resolver.FindByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Context{}, ErrIdentityNotFound
		}
		return Context{}, errors.Join(ErrTransient, err)
	}

	return Context{User: u.Public(), Claims: claims}, nil
}

// Revoke adds the request's token to the denylist, if one is configured.
// Used by logout when early invalidation is wanted; failures are the
// caller's to log since logout must proceed regardless.
func (g *Guard) Revoke(r *http.Request) error {
	value, _, ok := g.extract(r)
	if !ok {
		return nil
	}

	claims, err := g.tokens.Verify(value)
	if err != nil || claims.ID == "" {
		return nil
	}

	return g.revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time)
}

// extract returns the first token found following the configured source
// order, and which transport carried it.
func (g *Guard) extract(r *http.Request) (string, Source, bool) {
	for _, source := range g.sources {
		switch source {
		case SourceCookie:
			if cookie, err := r.Cookie(g.cookieName); err == nil && cookie.Value != "" {
				return cookie.Value, SourceCookie, true
			}
		case SourceBearer:
			if value := bearerToken(r.Header.Get("Authorization")); value != "" {
				return value, SourceBearer, true
			}
		}
	}
	return "", "", false
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return header[len(prefix):]
	}
	return ""
}
