package presence_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/chatkit/core/presence"
)

func TestRegistry(t *testing.T) {
	t.Run("add and remove", func(t *testing.T) {
		r := presence.NewRegistry()

		snapshot := r.Add("alice", "conn-1")
		assert.Equal(t, []string{"alice"}, snapshot)

		snapshot = r.Add("bob", "conn-2")
		assert.Equal(t, []string{"alice", "bob"}, snapshot, "snapshots are sorted")

		snapshot = r.Remove("alice", "conn-1")
		assert.Equal(t, []string{"bob"}, snapshot)

		snapshot = r.Remove("bob", "conn-2")
		assert.Empty(t, snapshot)
	})

	t.Run("multiple connections per identity", func(t *testing.T) {
		r := presence.NewRegistry()

		r.Add("alice", "desktop")
		r.Add("alice", "mobile")
		assert.Equal(t, []string{"alice"}, r.Online(), "one identity regardless of connection count")
		assert.Equal(t, 2, r.ConnectionCount("alice"))

		snapshot := r.Remove("alice", "desktop")
		assert.Equal(t, []string{"alice"}, snapshot, "still online through the second connection")

		snapshot = r.Remove("alice", "mobile")
		assert.Empty(t, snapshot, "last connection gone means offline")
	})

	t.Run("unknown removal is a no-op", func(t *testing.T) {
		r := presence.NewRegistry()
		r.Add("alice", "conn-1")

		snapshot := r.Remove("bob", "conn-x")
		assert.Equal(t, []string{"alice"}, snapshot)

		snapshot = r.Remove("alice", "conn-x")
		assert.Equal(t, []string{"alice"}, snapshot)
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		r := presence.NewRegistry()
		r.Add("alice", "conn-1")

		snapshot := r.Online()
		require.Len(t, snapshot, 1)
		snapshot[0] = "mutated"
		assert.Equal(t, []string{"alice"}, r.Online())
	})

	t.Run("concurrent churn", func(t *testing.T) {
		r := presence.NewRegistry()

		var wg sync.WaitGroup
		users := []string{"alice", "bob", "carol"}
		for _, u := range users {
			for _, c := range []string{"c1", "c2", "c3"} {
				wg.Add(1)
				go func(userID, connID string) {
					defer wg.Done()
					r.Add(userID, connID)
					r.Remove(userID, connID)
				}(u, c)
			}
		}
		wg.Wait()

		assert.Empty(t, r.Online())
	})
}
