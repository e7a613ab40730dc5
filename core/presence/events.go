package presence

// Event is the wire format exchanged on a presence channel. The same shape
// carries the client's in-band auth frame and the server's snapshot and
// error events, discriminated by Type.
type Event struct {
	Type    string   `json:"type"`
	Token   string   `json:"token,omitempty"`
	Message string   `json:"message,omitempty"`
	UserIDs []string `json:"userIds,omitempty"`
}

// Event types.
const (
	// EventAuth is sent by the client as the first frame, carrying the
	// session token as the channel's own credential. The token never
	// appears in the URL, keeping it out of logs and history.
	EventAuth = "auth"

	// EventAuthOK acknowledges a successful channel authentication.
	EventAuthOK = "auth_ok"

	// EventError reports a channel-level failure before the server closes
	// the connection.
	EventError = "error"

	// EventOnlineUsers carries the full snapshot of online identities.
	// Always a complete replacement, never a delta.
	EventOnlineUsers = "online_users"
)

// AuthEvent builds the client's credential frame.
func AuthEvent(token string) Event {
	return Event{Type: EventAuth, Token: token}
}

// SnapshotEvent builds an online-identities broadcast.
func SnapshotEvent(userIDs []string) Event {
	return Event{Type: EventOnlineUsers, UserIDs: userIDs}
}
