package httpapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/chatkit/core/cookie"
	"github.com/dmitrymomot/chatkit/core/guard"
	"github.com/dmitrymomot/chatkit/core/logger"
	"github.com/dmitrymomot/chatkit/core/token"
	"github.com/dmitrymomot/chatkit/core/user"
)

// maxBodySize bounds request bodies; profile pictures arrive base64-encoded.
const maxBodySize = 8 << 20 // 8 MB

// Uploader is the remote image-upload collaborator: it stores picture bytes
// and returns a stable URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// Handler implements the authentication endpoints.
type Handler struct {
	users        user.Store
	tokens       *token.Service
	sessionGuard *guard.Guard
	cookies      *cookie.Manager
	uploader     Uploader
	log          *slog.Logger
	cookieName   string
	secureCookie bool
}

// HandlerOption configures the handler.
type HandlerOption func(*Handler)

// WithCookieName sets the session cookie name. Must match the guard's.
func WithCookieName(name string) HandlerOption {
	return func(h *Handler) {
		if name != "" {
			h.cookieName = name
		}
	}
}

// WithSecureCookie controls the cookie Secure flag. Enable in production.
func WithSecureCookie(secure bool) HandlerOption {
	return func(h *Handler) {
		h.secureCookie = secure
	}
}

// WithUploader sets the profile picture uploader.
func WithUploader(uploader Uploader) HandlerOption {
	return func(h *Handler) {
		h.uploader = uploader
	}
}

// NewHandler creates the auth endpoint handler.
func NewHandler(
	users user.Store,
	tokens *token.Service,
	sessionGuard *guard.Guard,
	cookies *cookie.Manager,
	log *slog.Logger,
	opts ...HandlerOption,
) *Handler {
	h := &Handler{
		users:        users,
		tokens:       tokens,
		sessionGuard: sessionGuard,
		cookies:      cookies,
		log:          log,
		cookieName:   guard.DefaultCookieName,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type signupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new user, issues a session token, and attaches it to
// both transports.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, err := user.New(req.FullName, req.Email, req.Password)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if err := h.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			respondMessage(w, http.StatusBadRequest, "Email already exists")
			return
		}
		h.serverError(w, r, "signup", err)
		return
	}

	issued, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.serverError(w, r, "signup", err)
		return
	}
	h.setSessionCookie(w, issued)

	respondJSON(w, http.StatusCreated, AuthResponse{
		Message: "Signup successful",
		User:    u.Public(),
		Token:   issued.Value,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords produce the same message.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "Email & password required")
		return
	}

	u, err := h.users.FindByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondMessage(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		h.serverError(w, r, "login", err)
		return
	}

	if !u.VerifyPassword(req.Password) {
		respondMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	issued, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.serverError(w, r, "login", err)
		return
	}
	h.setSessionCookie(w, issued)

	respondJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		User:    u.Public(),
		Token:   issued.Value,
	})
}

// Logout clears the session cookie. Revocation is best-effort: a denylist
// failure is logged, never surfaced, because the cookie clear must happen
// regardless.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionGuard.Revoke(r); err != nil {
		h.log.ErrorContext(r.Context(), "token revocation failed",
			logger.Component("httpapi"),
			logger.Error(err),
		)
	}

	h.cookies.Delete(w, h.cookieName)
	respondMessage(w, http.StatusOK, "Logged out successfully")
}

// Check returns the authenticated user's profile. Guarded.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	u, ok := guard.CurrentUser(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized - No Token Provided")
		return
	}
	respondJSON(w, http.StatusOK, u)
}

type updateProfileRequest struct {
	ProfilePic string `json:"profilePic"`
}

// UpdateProfile uploads a new profile picture and persists its URL. Guarded.
// Auth state and the session token are untouched.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := guard.CurrentUser(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized - No Token Provided")
		return
	}

	var req updateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.ProfilePic == "" {
		respondMessage(w, http.StatusBadRequest, "Profile pic is required")
		return
	}

	if h.uploader == nil {
		h.serverError(w, r, "update-profile", errors.New("no uploader configured"))
		return
	}

	data, contentType, err := decodeDataURL(req.ProfilePic)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid profile pic payload")
		return
	}

	url, err := h.uploader.Upload(r.Context(), data, contentType)
	if err != nil {
		h.serverError(w, r, "update-profile", err)
		return
	}

	updated, err := h.users.UpdateProfilePic(r.Context(), u.ID, url)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondMessage(w, http.StatusNotFound, "User not found")
			return
		}
		h.serverError(w, r, "update-profile", err)
		return
	}

	respondJSON(w, http.StatusOK, updated.Public())
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, issued token.Issued) {
	_ = h.cookies.Set(w, h.cookieName, issued.Value,
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteStrictMode),
		cookie.WithSecure(h.secureCookie),
		cookie.WithMaxAge(int(h.tokens.TTL().Seconds())),
	)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// serverError logs the internal error and returns an opaque 500 body.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log.ErrorContext(r.Context(), "handler failed",
		logger.Component("httpapi"),
		slog.String("operation", op),
		logger.Error(err),
	)
	respondMessage(w, http.StatusInternalServerError, "Internal Server Error")
}

// validationMessage maps user validation errors to their client-facing text.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, user.ErrMissingFields):
		return "All fields are required"
	case errors.Is(err, user.ErrPasswordTooShort):
		return "Password must be at least 6 characters"
	case errors.Is(err, user.ErrInvalidEmail):
		return "Invalid email address"
	default:
		return "Invalid user data"
	}
}

// decodeDataURL accepts either a data URL (data:image/png;base64,...) or a
// bare base64 payload and returns the raw bytes with their content type.
func decodeDataURL(payload string) ([]byte, string, error) {
	contentType := "application/octet-stream"
	encoded := payload

	if strings.HasPrefix(payload, "data:") {
		meta, rest, ok := strings.Cut(payload[len("data:"):], ",")
		if !ok {
			return nil, "", errors.New("malformed data url")
		}
		contentType = strings.TrimSuffix(meta, ";base64")
		encoded = rest
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}
