package host

import (
	"net/http"
	"testing"
	"time"

	"github.com/purpose168/lightstyler/internal/pubsub"
	"github.com/stretchr/testify/require"
)

var roster = []Character{
	{Name: "Alice", Avatar: "alice.png"},
	{Name: "Bob", Avatar: "bob.png"},
}

func TestLocal_SwitchChat(t *testing.T) {
	t.Parallel()

	h := NewLocal(roster, nil)
	t.Cleanup(h.Shutdown)
	events := h.Subscribe(t.Context())

	_, ok := h.ActiveCharacter()
	require.False(t, ok)

	require.NoError(t, h.SwitchChat(1))
	c, ok := h.ActiveCharacter()
	require.True(t, ok)
	require.Equal(t, "Bob", c.Name)

	select {
	case ev := <-events:
		require.Equal(t, pubsub.UpdatedEvent, ev.Type)
		require.Equal(t, ChatChanged{Index: 1}, ev.Payload)
	case <-time.After(time.Second):
		t.Fatal("没有收到切换事件")
	}

	require.ErrorIs(t, h.SwitchChat(5), ErrNoSuchCharacter)
	c, _ = h.ActiveCharacter()
	require.Equal(t, "Bob", c.Name)
}

func TestLocal_SwitchGroup(t *testing.T) {
	t.Parallel()

	h := NewLocal(roster, nil)
	t.Cleanup(h.Shutdown)

	require.NoError(t, h.SwitchChat(0))
	h.SwitchGroup("party")
	_, ok := h.ActiveCharacter()
	require.False(t, ok)
}

func TestLocal_RosterIsDetached(t *testing.T) {
	t.Parallel()

	input := []Character{{Name: "Alice"}}
	h := NewLocal(input, nil)
	t.Cleanup(h.Shutdown)

	input[0].Name = "changed"
	chars := h.Characters()
	require.Equal(t, "Alice", chars[0].Name)
	chars[0].Name = "changed"
	require.Equal(t, "Alice", h.Characters()[0].Name)

	i, ok := h.FindCharacter("Alice")
	require.True(t, ok)
	require.Zero(t, i)

	h.SetCharacters(roster)
	_, ok = h.FindCharacter("Bob")
	require.True(t, ok)
}

func TestLocal_RequestHeaders(t *testing.T) {
	t.Parallel()

	h := NewLocal(nil, http.Header{"X-Csrf-Token": []string{"abc"}})
	t.Cleanup(h.Shutdown)

	got := h.RequestHeaders()
	require.Equal(t, "abc", got.Get("X-CSRF-Token"))
	require.Equal(t, "application/json", got.Get("Content-Type"))

	got.Set("X-CSRF-Token", "changed")
	require.Equal(t, "abc", h.RequestHeaders().Get("X-CSRF-Token"))
}
