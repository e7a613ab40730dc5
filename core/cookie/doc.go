// Package cookie provides HTTP cookie management with secure defaults and
// functional options.
//
// The Manager carries application-wide defaults (path, HttpOnly, SameSite)
// which individual Set calls can override per cookie. Values are stored as-is;
// credentials written through this package are expected to carry their own
// integrity protection (the session token is a signed JWT).
//
// Basic usage:
//
//	manager := cookie.New(cookie.WithPath("/api"))
//
//	// Set a session cookie
//	err := manager.Set(w, "session", token,
//		cookie.WithHTTPOnly(true),
//		cookie.WithMaxAge(int(ttl.Seconds())),
//	)
//
//	// Read it back
//	token, err := manager.Get(r, "session")
//
//	// Delete by immediate expiry
//	manager.Delete(w, "session")
package cookie
