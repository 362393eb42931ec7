package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/horizonenergysouth/horizon-crm/internal/entity"
	"github.com/horizonenergysouth/horizon-crm/internal/infra/feed"
	"github.com/horizonenergysouth/horizon-crm/internal/infra/http/middleware"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// FeedHandler streams full lead-list snapshots to the dashboard. Each message
// replaces the client's entire list; the client never merges.
type FeedHandler struct {
	Hub *feed.Hub
}

func NewFeedHandler(hub *feed.Hub) *FeedHandler {
	return &FeedHandler{Hub: hub}
}

type snapshotMessage struct {
	Type  string        `json:"type"`
	Leads []entity.Lead `json:"leads"`
	Count int           `json:"count"`
}

func (h *FeedHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	defer conn.Close()

	middleware.RecordFeedClient(1)
	defer middleware.RecordFeedClient(-1)

	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	// The dashboard never sends data; the read loop only notices the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case leads := <-ch:
			msg := snapshotMessage{
				Type:  "snapshot",
				Leads: leads,
				Count: len(leads),
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("[feed] write to client failed: %v", err)
				return
			}
		case <-done:
			return
		}
	}
}
