package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/chatkit/core/user"
)

// AuthResponse is the envelope returned by signup and login: the message,
// the public profile under "user", and the bearer copy of the session token.
type AuthResponse struct {
	Message string    `json:"message"`
	User    user.User `json:"user"`
	Token   string    `json:"token"`
}

// MessageResponse is the envelope for plain acknowledgements and all errors.
type MessageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, MessageResponse{Message: message})
}
