// Package httpapi exposes the authentication HTTP surface:
//
//	POST /api/auth/signup          -> 201 {message, user, token}
//	POST /api/auth/login           -> 200 {message, user, token}
//	POST /api/auth/logout          -> 200 {message}, clears the cookie
//	GET  /api/auth/check           -> 200 <user>            (guarded)
//	PUT  /api/auth/update-profile  -> 200 <updated user>    (guarded)
//
// Response shapes are fixed: auth endpoints always nest the profile under
// "user" and mirror the issued token under "token"; guarded reads return the
// bare user object; every error body is {message}. Clients decode against
// these shapes instead of probing field presence.
//
// The issued token is attached twice: as an HTTP-only cookie scoped
// to the API path and verbatim in the response body for clients that cannot
// rely on cookies. Both carry the same credential.
package httpapi
