package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub()
	info := ConnInfo{ConnID: "c1", UserUID: "uid-1"}

	hub.AddClient("swap-1", nil, info)
	got, ok := hub.getConnInfo("swap-1", nil)
	assert.True(t, ok)
	assert.Equal(t, "uid-1", got.UserUID)

	hub.RemoveClient("swap-1", nil)
	_, ok = hub.getConnInfo("swap-1", nil)
	assert.False(t, ok)
	assert.Empty(t, hub.rooms)
	assert.Empty(t, hub.connInfo)
}

func TestHubRemoveClientUnknownRoom(t *testing.T) {
	hub := NewHub()
	assert.NotPanics(t, func() {
		hub.RemoveClient("missing", nil)
	})
}
