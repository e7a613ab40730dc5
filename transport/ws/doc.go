// Package ws is the server side of the presence channel: a websocket gateway
// that authenticates each connection via an in-band credential frame,
// registers it in the presence registry, and broadcasts the full
// online-identities snapshot to every connection on each registry change.
//
// # Handshake
//
// The first client frame must be an auth event carrying the session token;
// it is validated exactly as the HTTP session guard validates requests. The
// gateway rejects the channel (error event, then close) on a missing, late,
// invalid, or revoked credential. Tokens never travel in the URL.
//
// # Broadcast model
//
// Every registry mutation produces a snapshot taken under the registry lock;
// the gateway fans it out with non-blocking sends so one slow consumer never
// stalls the rest. Snapshots are full replacements, which makes clients
// resilient to dropped intermediate events.
package ws
