package web

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	events, err := s.forge.Generate(r.Context(), req.forgeRequest())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer events.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// A dropped client surfaces as the context closing; releasing the
	// stream stops the pipelines at their next emission.
	go func() {
		<-r.Context().Done()
		events.Close()
	}()

	for {
		ev, err := events.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			slog.Debug("web: event stream ended", "error", err)
			return
		}
		data, err := json.Marshal(ev)
		if err != nil {
			slog.Error("web: marshal event", "error", err)
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return
		}
		flusher.Flush()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleGenerateWS mirrors the SSE endpoint over a WebSocket. The client
// sends one generateRequest as its first text message and receives each
// event as a JSON text message; the connection closes after the done
// event.
func (s *Server) handleGenerateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("web: websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	var req generateRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInvalidFramePayloadData, "bad request"), deadline())
		return
	}
	events, err := s.forge.Generate(r.Context(), req.forgeRequest())
	if err != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error()), deadline())
		return
	}
	defer events.Close()

	// Reads only detect the peer going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				events.Close()
				return
			}
		}
	}()

	for {
		ev, err := events.Next()
		if err != nil {
			if err == io.EOF {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline())
			}
			return
		}
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}
}

func deadline() time.Time { return time.Now().Add(5 * time.Second) }
