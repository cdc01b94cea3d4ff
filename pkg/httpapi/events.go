package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/promptdeck/promptdeck/pkg/workflow"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type wsEnvelope struct {
	Type    workflow.EventType `json:"type"`
	Payload any                `json:"payload,omitempty"`
}

// EventHub fans workflow events out to connected websocket clients. It
// implements workflow.Emitter.
type EventHub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
	log     zerolog.Logger
}

type wsClient struct {
	send chan wsEnvelope
	stop chan struct{}
	done chan struct{}
}

func NewEventHub(log zerolog.Logger) *EventHub {
	return &EventHub{
		clients: make(map[*wsClient]struct{}),
		log:     log.With().Str("component", "events").Logger(),
	}
}

// Emit broadcasts the event to every connected client. Slow clients drop
// events rather than block the workflow.
func (h *EventHub) Emit(ev workflow.Event) {
	env := wsEnvelope{Type: ev.Type, Payload: ev.Payload}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- env:
		default:
			h.log.Warn().Str("event", string(ev.Type)).Msg("Dropping event for slow client")
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *EventHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *EventHub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *EventHub) remove(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Handle upgrades the request and streams events until the client goes away.
func (h *EventHub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	client := &wsClient{
		send: make(chan wsEnvelope, 32),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	h.add(client)
	defer h.remove(client)

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	go func() {
		defer close(client.done)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()
		for {
			select {
			case env := <-client.send:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(env); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-client.stop:
				return
			}
		}
	}()

	// Read loop exists only to process pongs and notice disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	close(client.stop)
	conn.Close()
	<-client.done
}
