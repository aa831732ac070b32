package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorhub/linkpage"
)

func dialTestServer(t *testing.T) (*Server, *websocket.Conn) {
	t.Helper()
	srv, handler := testServer(t)

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return srv, conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) MessageEnvelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var envelope MessageEnvelope
	require.NoError(t, conn.ReadJSON(&envelope))
	return envelope
}

// readUntil skips envelopes until one with the wanted action arrives.
func readUntil(t *testing.T, conn *websocket.Conn, action string) MessageEnvelope {
	t.Helper()
	for i := 0; i < 10; i++ {
		envelope := readEnvelope(t, conn)
		if envelope.Action == action {
			return envelope
		}
	}
	t.Fatalf("no %q envelope received", action)
	return MessageEnvelope{}
}

func TestWebSocketInitialTree(t *testing.T) {
	_, conn := dialTestServer(t)

	envelope := readUntil(t, conn, "tree")
	var tree map[string]interface{}
	require.NoError(t, json.Unmarshal(envelope.Data, &tree))
	assert.Equal(t, "page", tree["kind"])
	assert.Equal(t, "p", tree["id"])
}

func TestWebSocketAddItemBroadcastsTree(t *testing.T) {
	srv, conn := dialTestServer(t)
	readUntil(t, conn, "tree") // initial

	data, _ := json.Marshal(itemPayload{ID: "new", Title: "New link", URL: "https://n.example"})
	require.NoError(t, conn.WriteJSON(MessageEnvelope{
		Scope:  "items/links",
		Action: "add_item",
		Data:   data,
	}))

	envelope := readUntil(t, conn, "tree")
	assert.Contains(t, string(envelope.Data), "New link")

	// The edit landed in the composer, not just the broadcast.
	require.Eventually(t, func() bool {
		links, ok := srv.composer.Page().Section("links").(*linkpage.CustomSection)
		return ok && links.Item("new") != nil
	}, time.Second, 10*time.Millisecond)
}

func TestWebSocketDragEnd(t *testing.T) {
	srv, conn := dialTestServer(t)
	readUntil(t, conn, "tree")

	data, _ := json.Marshal(wsDragPayload{ActiveID: "links", OverID: "exclusive-content"})
	require.NoError(t, conn.WriteJSON(MessageEnvelope{
		Scope:  "sections",
		Action: "drag_end",
		Data:   data,
	}))

	readUntil(t, conn, "tree")
	assert.Equal(t, []string{"links", "exclusive-content"}, srv.composer.Page().Order)
}

func TestWebSocketErrorEnvelope(t *testing.T) {
	_, conn := dialTestServer(t)
	readUntil(t, conn, "tree")

	data, _ := json.Marshal(map[string]string{"id": "ghost"})
	require.NoError(t, conn.WriteJSON(MessageEnvelope{
		Action: "delete_section",
		Data:   data,
	}))

	envelope := readUntil(t, conn, "error")
	assert.Contains(t, string(envelope.Data), "ghost")
}
