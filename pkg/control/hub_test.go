package control_test

import (
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/herohde/morlock-evolve/pkg/control"
	"github.com/herohde/morlock-evolve/pkg/persist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastsToConnectedClient(t *testing.T) {
	hub := control.NewHub(persist.NewStore(filepath.Join(t.TempDir(), "evolution")))
	server := httptest.NewServer(hub)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	time.Sleep(20 * time.Millisecond)
	hub.Publish(control.Snapshot{MatchID: 1, FEN: "startpos", Moves: []string{"e2e4"}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), "startpos")
}

func TestHubPauseResumeCancel(t *testing.T) {
	hub := control.NewHub(persist.NewStore(t.TempDir()))

	assert.False(t, hub.IsPaused())
	hub.Pause()
	assert.True(t, hub.IsPaused())
	hub.Resume()
	assert.False(t, hub.IsPaused())

	select {
	case <-hub.Cancelled():
		t.Fatal("should not be cancelled yet")
	default:
	}

	hub.Cancel()
	hub.Cancel() // idempotent
	select {
	case <-hub.Cancelled():
	default:
		t.Fatal("should be cancelled")
	}
}

func TestHubResetDeletesEvolutionDir(t *testing.T) {
	store := persist.NewStore(filepath.Join(t.TempDir(), "evolution"))
	require.NoError(t, store.WritePopulation(0, nil))

	hub := control.NewHub(store)
	require.NoError(t, hub.Reset())

	_, ok := store.LatestGeneration()
	assert.False(t, ok)
}
