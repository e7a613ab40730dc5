// Package token implements the session token issuer: a signed, time-bounded
// credential binding one user identity to an issuance timestamp and expiry.
//
// Tokens are HMAC-SHA256 JWTs. A token is valid iff its signature verifies
// against the server secret and its expiry has not elapsed; there is no
// revocation state inside the token itself (see core/guard for the optional
// denylist).
//
// The same token value is carried over both HTTP transports (cookie and
// bearer header); issuance happens once, transport embedding is the HTTP
// layer's concern.
//
// Basic usage:
//
//	svc, err := token.NewService("your-256-bit-secret")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	issued, err := svc.Issue(userID)
//	// issued.Value is the signed JWT, issued.ExpiresAt its expiry
//
//	claims, err := svc.Verify(issued.Value)
//	switch {
//	case errors.Is(err, token.ErrExpiredToken):
//		// past expiry
//	case errors.Is(err, token.ErrInvalidToken):
//		// malformed or bad signature
//	}
package token
