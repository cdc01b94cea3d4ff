package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdeck/promptdeck/pkg/workflow"
)

func TestEventHubBroadcast(t *testing.T) {
	hub := NewEventHub(zerolog.Nop())
	ts := httptest.NewServer(http.HandlerFunc(hub.Handle))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Wait until the hub has registered the client.
	for i := 0; i < 100 && hub.ClientCount() == 0; i++ {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, 1, hub.ClientCount())

	hub.Emit(workflow.Event{
		Type:    workflow.EventProblemExtracted,
		Payload: workflow.ProblemInfo{Title: "Two Sum", ProblemStatement: "Find the pair."},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env wsEnvelope
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, workflow.EventProblemExtracted, env.Type)

	payload, ok := env.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Two Sum", payload["title"])
}

func TestEventHubRemovesClosedClients(t *testing.T) {
	hub := NewEventHub(zerolog.Nop())
	ts := httptest.NewServer(http.HandlerFunc(hub.Handle))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	for i := 0; i < 100 && hub.ClientCount() == 0; i++ {
		time.Sleep(time.Millisecond)
	}

	conn.Close()
	for i := 0; i < 100 && hub.ClientCount() > 0; i++ {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 0, hub.ClientCount())

	// Emitting with no clients must not panic.
	hub.Emit(workflow.Event{Type: workflow.EventResetView})
}
