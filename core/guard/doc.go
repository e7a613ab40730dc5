// Package guard implements the server-side session guard: it extracts a
// session token from the request, verifies it, resolves the associated user,
// and either admits the request with an authenticated context or rejects it
// with a classified error.
//
// # Token extraction precedence
//
// The guard checks transports in a configured order, cookie first by default,
// falling through to the Authorization bearer header only when no cookie is
// present. A present-but-invalid cookie fails the request; it is never
// silently overridden by a header. The order is configuration
// (WithSources), not a hard-coded accident.
//
// # Error taxonomy
//
//   - ErrUnauthenticated: no token in any transport
//   - ErrInvalidToken: signature invalid, expiry elapsed, or token revoked
//   - ErrIdentityNotFound: token verified but the identity no longer exists
//   - ErrTransient: infrastructure fault while resolving; safe for the
//     caller to retry, never retried by the guard itself
//
// Authenticate never panics past its boundary; the middleware maps each
// error to an HTTP status and JSON message.
//
// Basic usage:
//
//	g := guard.New(tokenSvc, resolver)
//
//	r.Group(func(r chi.Router) {
//		r.Use(g.Middleware(log))
//		r.Get("/auth/check", handleCheck)
//	})
//
//	func handleCheck(w http.ResponseWriter, r *http.Request) {
//		u, _ := guard.CurrentUser(r.Context())
//		// u.Password is already stripped
//	}
package guard
