package httpapi_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/chatkit/core/cookie"
	"github.com/dmitrymomot/chatkit/core/guard"
	"github.com/dmitrymomot/chatkit/core/token"
	"github.com/dmitrymomot/chatkit/core/user"
	"github.com/dmitrymomot/chatkit/transport/httpapi"
)

const testSecret = "test-secret-key-at-least-32-bytes-long"

// memoryStore is an in-memory user.Store for handler tests.
type memoryStore struct {
	mu    sync.Mutex
	users map[string]user.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[string]user.User)}
}

func (s *memoryStore) Create(ctx context.Context, u user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *memoryStore) FindByEmail(ctx context.Context, email string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (s *memoryStore) FindByID(ctx context.Context, id string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (s *memoryStore) UpdateProfilePic(ctx context.Context, id, url string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	u.ProfilePic = url
	s.users[id] = u
	return u, nil
}

type fakeUploader struct {
	lastContentType string
	lastSize        int
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	f.lastContentType = contentType
	f.lastSize = len(data)
	return "https://cdn.example.com/avatars/abc.png", nil
}

func newTestServer(t *testing.T, opts ...httpapi.HandlerOption) (*httptest.Server, *memoryStore) {
	t.Helper()

	store := newMemoryStore()
	tokens, err := token.NewService(testSecret)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessionGuard := guard.New(tokens, store)
	cookies := cookie.New()

	handler := httpapi.NewHandler(store, tokens, sessionGuard, cookies, log, opts...)
	srv := httptest.NewServer(httpapi.Router(handler, sessionGuard, log))
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeAuth(t *testing.T, resp *http.Response) httpapi.AuthResponse {
	t.Helper()
	defer resp.Body.Close()
	var out httpapi.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var out httpapi.MessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Message
}

func TestHandler_Signup(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("success", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/auth/signup", map[string]string{
			"fullName": "Jane Doe",
			"email":    "jane@example.com",
			"password": "secret123",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var sessionCookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == "jwt" {
				sessionCookie = c
			}
		}
		require.NotNil(t, sessionCookie, "session cookie is set")
		assert.True(t, sessionCookie.HttpOnly)
		assert.NotEmpty(t, sessionCookie.Value)

		out := decodeAuth(t, resp)
		assert.Equal(t, "Signup successful", out.Message)
		assert.Equal(t, "jane@example.com", out.User.Email)
		assert.Equal(t, sessionCookie.Value, out.Token, "both transports carry the same token")
	})

	t.Run("duplicate email", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/auth/signup", map[string]string{
			"fullName": "Jane Again",
			"email":    "jane@example.com",
			"password": "secret123",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Email already exists", decodeMessage(t, resp))
	})

	t.Run("validation messages", func(t *testing.T) {
		for _, tc := range []struct {
			name    string
			body    map[string]string
			message string
		}{
			{
				name:    "missing fields",
				body:    map[string]string{"email": "x@example.com", "password": "secret123"},
				message: "All fields are required",
			},
			{
				name:    "short password",
				body:    map[string]string{"fullName": "X", "email": "x@example.com", "password": "12345"},
				message: "Password must be at least 6 characters",
			},
			{
				name:    "bad email",
				body:    map[string]string{"fullName": "X", "email": "not-an-email", "password": "secret123"},
				message: "Invalid email address",
			},
		} {
			t.Run(tc.name, func(t *testing.T) {
				resp := postJSON(t, srv.URL+"/api/auth/signup", tc.body)
				require.Equal(t, http.StatusBadRequest, resp.StatusCode)
				assert.Equal(t, tc.message, decodeMessage(t, resp))
			})
		}
	})
}

func TestHandler_Login(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/signup", map[string]string{
		"fullName": "Jane Doe",
		"email":    "jane@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	t.Run("success", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/auth/login", map[string]string{
			"email":    "jane@example.com",
			"password": "secret123",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		out := decodeAuth(t, resp)
		assert.Equal(t, "Login successful", out.Message)
		assert.NotEmpty(t, out.Token)
		assert.Empty(t, out.User.Password)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		wrongPassword := postJSON(t, srv.URL+"/api/auth/login", map[string]string{
			"email":    "jane@example.com",
			"password": "wrong-password",
		})
		require.Equal(t, http.StatusBadRequest, wrongPassword.StatusCode)

		unknownEmail := postJSON(t, srv.URL+"/api/auth/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "secret123",
		})
		require.Equal(t, http.StatusBadRequest, unknownEmail.StatusCode)

		assert.Equal(t, decodeMessage(t, wrongPassword), decodeMessage(t, unknownEmail))
	})

	t.Run("missing credentials", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/auth/login", map[string]string{})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Email & password required", decodeMessage(t, resp))
	})
}

func TestHandler_CheckAndLogout(t *testing.T) {
	srv, _ := newTestServer(t)

	signup := postJSON(t, srv.URL+"/api/auth/signup", map[string]string{
		"fullName": "Jane Doe",
		"email":    "jane@example.com",
		"password": "secret123",
	})
	out := decodeAuth(t, signup)

	t.Run("check with bearer token", func(t *testing.T) {
		req, err := http.NewRequest("GET", srv.URL+"/api/auth/check", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+out.Token)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var u user.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&u))
		assert.Equal(t, out.User.ID, u.ID)
		assert.Empty(t, u.Password)
	})

	t.Run("check without token", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/auth/check")
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Unauthorized - No Token Provided", decodeMessage(t, resp))
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/auth/logout", "application/json", nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var cleared *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == "jwt" {
				cleared = c
			}
		}
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
		assert.Equal(t, -1, cleared.MaxAge)
		assert.Equal(t, "Logged out successfully", decodeMessage(t, resp))
	})

	t.Run("token stays valid after logout", func(t *testing.T) {
		// No denylist configured, so validity is purely structural.
		req, err := http.NewRequest("GET", srv.URL+"/api/auth/check", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+out.Token)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestHandler_UpdateProfile(t *testing.T) {
	uploader := &fakeUploader{}
	srv, store := newTestServer(t, httpapi.WithUploader(uploader))

	signup := postJSON(t, srv.URL+"/api/auth/signup", map[string]string{
		"fullName": "Jane Doe",
		"email":    "jane@example.com",
		"password": "secret123",
	})
	out := decodeAuth(t, signup)

	put := func(t *testing.T, body any) *http.Response {
		t.Helper()
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req, err := http.NewRequest("PUT", srv.URL+"/api/auth/update-profile", bytes.NewReader(payload))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+out.Token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("data url upload", func(t *testing.T) {
		picture := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
		resp := put(t, map[string]string{"profilePic": "data:image/png;base64," + picture})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()

		var updated user.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
		assert.Equal(t, "https://cdn.example.com/avatars/abc.png", updated.ProfilePic)
		assert.Equal(t, "image/png", uploader.lastContentType)
		assert.Equal(t, len("png-bytes"), uploader.lastSize)

		stored, err := store.FindByID(context.Background(), out.User.ID)
		require.NoError(t, err)
		assert.Equal(t, updated.ProfilePic, stored.ProfilePic)
	})

	t.Run("missing picture", func(t *testing.T) {
		resp := put(t, map[string]string{})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Profile pic is required", decodeMessage(t, resp))
	})

	t.Run("malformed payload", func(t *testing.T) {
		resp := put(t, map[string]string{"profilePic": "data:image/png;base64,!!!not-base64!!!"})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid profile pic payload", decodeMessage(t, resp))
	})

	t.Run("requires auth", func(t *testing.T) {
		payload, err := json.Marshal(map[string]string{"profilePic": "x"})
		require.NoError(t, err)
		req, err := http.NewRequest("PUT", srv.URL+"/api/auth/update-profile", bytes.NewReader(payload))
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
