package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/chatkit/core/cookie"
)

func TestManager_SetGet(t *testing.T) {
	m := cookie.New()

	t.Run("round trip", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, "session", "token-value"))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "session", cookies[0].Name)
		assert.Equal(t, "token-value", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, "/", cookies[0].Path)

		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(cookies[0])

		value, err := m.Get(r, "session")
		require.NoError(t, err)
		assert.Equal(t, "token-value", value)
	})

	t.Run("missing cookie", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		_, err := m.Get(r, "session")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})

	t.Run("oversized value", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := m.Set(w, "session", strings.Repeat("x", cookie.MaxCookieSize+1))
		require.Error(t, err)
		assert.Empty(t, w.Result().Cookies())
	})
}

func TestManager_Defaults(t *testing.T) {
	m := cookie.New(
		cookie.WithPath("/api"),
		cookie.WithSecure(true),
		cookie.WithSameSite(http.SameSiteStrictMode),
	)

	w := httptest.NewRecorder()
	require.NoError(t, m.Set(w, "session", "value"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "/api", cookies[0].Path)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)

	t.Run("per-call override", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, "session", "value", cookie.WithMaxAge(3600)))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, 3600, cookies[0].MaxAge)
		assert.Equal(t, "/api", cookies[0].Path, "defaults still apply")
	})
}

func TestManager_Delete(t *testing.T) {
	m := cookie.New(cookie.WithPath("/api"))

	w := httptest.NewRecorder()
	m.Delete(w, "session")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Equal(t, "/api", cookies[0].Path, "delete must match the set path")
	assert.True(t, cookies[0].Expires.Unix() <= 0, "expires in the past")
}
