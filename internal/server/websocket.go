package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/creatorhub/linkpage/internal/render"
	"github.com/creatorhub/linkpage/internal/reorder"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// MessageEnvelope is the multiplexed WebSocket message. Scope addresses a
// reorder target ("sections" or "items/<sectionID>"); Action selects the
// operation; Data carries the action payload.
type MessageEnvelope struct {
	Scope  string          `json:"scope,omitempty"`
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Hub tracks preview connections and pushes render trees to all of them.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]*sync.Mutex // per-conn write lock
	debug bool
}

// NewHub creates an empty connection hub.
func NewHub(debug bool) *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]*sync.Mutex),
		debug: debug,
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = &sync.Mutex{}
	if h.debug {
		log.Printf("[WS] Client connected (%d active)", len(h.conns))
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
	if h.debug {
		log.Printf("[WS] Client disconnected (%d active)", len(h.conns))
	}
}

// Count returns the number of active preview connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast pushes a rendered tree to every connected client.
func (h *Hub) Broadcast(tree *render.Node) {
	data, err := json.Marshal(tree)
	if err != nil {
		log.Printf("[WS] Failed to encode tree: %v", err)
		return
	}
	h.BroadcastEnvelope(MessageEnvelope{Action: "tree", Data: data})
}

// BroadcastEnvelope pushes an arbitrary envelope to every connected client.
func (h *Hub) BroadcastEnvelope(envelope MessageEnvelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn, writeMu := range h.conns {
		h.send(conn, writeMu, envelope)
	}
}

func (h *Hub) send(conn *websocket.Conn, writeMu *sync.Mutex, envelope MessageEnvelope) {
	writeMu.Lock()
	defer writeMu.Unlock()
	if err := conn.WriteJSON(envelope); err != nil && h.debug {
		log.Printf("[WS] Write failed: %v", err)
	}
}

// CloseAll closes every connection, e.g. on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
	}
	h.conns = make(map[*websocket.Conn]*sync.Mutex)
}

// handleWebSocket upgrades the connection, sends the initial tree, and reads
// editing actions until the client goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}
	s.hub.add(conn)
	defer func() {
		s.hub.remove(conn)
		conn.Close()
	}()

	// Initial tree so the preview renders without waiting for an edit.
	tree := s.composer.Snapshot()
	if data, err := json.Marshal(tree); err == nil {
		s.hub.send(conn, s.hub.writeLock(conn), MessageEnvelope{Action: "tree", Data: data})
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Read error: %v", err)
			}
			return
		}
		s.handleWSMessage(conn, message)
	}
}

func (h *Hub) writeLock(conn *websocket.Conn) *sync.Mutex {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if mu, ok := h.conns[conn]; ok {
		return mu
	}
	return &sync.Mutex{}
}

// wsDragPayload is the drag-end gesture payload.
type wsDragPayload struct {
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
}

// handleWSMessage dispatches one editing action from a preview client.
func (s *Server) handleWSMessage(conn *websocket.Conn, message []byte) {
	var envelope MessageEnvelope
	if err := json.Unmarshal(message, &envelope); err != nil {
		log.Printf("[WS] Failed to parse message: %v", err)
		return
	}

	var err error
	switch envelope.Action {
	case "drag_end":
		var payload wsDragPayload
		if err = json.Unmarshal(envelope.Data, &payload); err == nil {
			s.composer.DragEnd(reorder.Scope(envelope.Scope), payload.ActiveID, payload.OverID)
		}

	case "add_section", "update_section":
		var payload sectionPayload
		if err = json.Unmarshal(envelope.Data, &payload); err == nil {
			section, convErr := payload.toSection()
			if convErr != nil {
				err = convErr
				break
			}
			if envelope.Action == "add_section" {
				err = s.composer.AddSection(section)
			} else {
				err = s.composer.UpdateSection(section)
			}
		}

	case "delete_section":
		var payload struct {
			ID string `json:"id"`
		}
		if err = json.Unmarshal(envelope.Data, &payload); err == nil {
			err = s.composer.DeleteSection(payload.ID)
		}

	case "add_item", "update_item":
		var payload itemPayload
		if err = json.Unmarshal(envelope.Data, &payload); err == nil {
			sectionID, _ := reorder.Scope(envelope.Scope).SectionID()
			if envelope.Action == "add_item" {
				err = s.composer.AddItem(sectionID, payload.toItem())
			} else {
				err = s.composer.UpdateItem(sectionID, payload.toItem())
			}
		}

	case "delete_item":
		var payload struct {
			ID string `json:"id"`
		}
		if err = json.Unmarshal(envelope.Data, &payload); err == nil {
			sectionID, _ := reorder.Scope(envelope.Scope).SectionID()
			err = s.composer.DeleteItem(sectionID, payload.ID)
		}

	case "set_background":
		var payload struct {
			Background string `json:"background"`
		}
		if err = json.Unmarshal(envelope.Data, &payload); err == nil {
			s.composer.SetBackground(payload.Background)
		}

	case "set_display_name":
		var payload struct {
			DisplayName string `json:"displayName"`
		}
		if err = json.Unmarshal(envelope.Data, &payload); err == nil {
			s.composer.SetDisplayName(payload.DisplayName)
		}

	default:
		log.Printf("[WS] Unknown action: %s", envelope.Action)
		return
	}

	if err != nil {
		s.sendWSError(conn, envelope.Action, err)
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, action string, err error) {
	data, _ := json.Marshal(map[string]string{"action": action, "error": err.Error()})
	s.hub.send(conn, s.hub.writeLock(conn), MessageEnvelope{Action: "error", Data: data})
}
