// Package web exposes the generation pipeline over HTTP. Events stream to
// clients as server-sent events or over a WebSocket; session artifacts and
// the provider routing table are plain JSON endpoints.
package web

import (
	"embed"
	"encoding/json"
	"net/http"

	"github.com/uismith/uismith/pkg/forge"
	"github.com/uismith/uismith/pkg/llm"
	"github.com/uismith/uismith/pkg/session"
)

//go:embed playground/index.html
var playgroundFS embed.FS

// Server routes HTTP traffic onto an orchestrator.
type Server struct {
	forge    *forge.Orchestrator
	routes   func() []string
	sessions *session.Store
	mux      *http.ServeMux
}

// NewServer builds the HTTP surface. routes supplies the registered
// provider/model patterns for /api/models; nil disables the endpoint.
// sessions may be nil when persistence is off.
func NewServer(o *forge.Orchestrator, routes func() []string, sessions *session.Store) *Server {
	s := &Server{
		forge:    o,
		routes:   routes,
		sessions: sessions,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/generate", s.handleGenerate)
	s.mux.HandleFunc("GET /api/generate/ws", s.handleGenerateWS)
	s.mux.HandleFunc("GET /api/models", s.handleModels)
	s.mux.HandleFunc("GET /api/session/{id}", s.handleSessionGet)
	s.mux.HandleFunc("DELETE /api/session/{id}", s.handleSessionDelete)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

// generateRequest is the JSON body of a generation call.
type generateRequest struct {
	SessionID string     `json:"session_id,omitempty"`
	Models    []string   `json:"models"`
	Prompt    string     `json:"prompt"`
	History   []wireTurn `json:"history,omitempty"`
}

type wireTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (req *generateRequest) forgeRequest() *forge.Request {
	turns := make([]llm.Turn, 0, len(req.History)+1)
	for _, t := range req.History {
		turns = append(turns, llm.Turn{Role: llm.Role(t.Role), Content: t.Content})
	}
	if req.Prompt != "" {
		turns = append(turns, llm.Turn{Role: llm.RoleUser, Content: req.Prompt})
	}
	return &forge.Request{
		SessionID: req.SessionID,
		Models:    req.Models,
		History:   turns,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := playgroundFS.ReadFile("playground/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	if s.routes == nil {
		http.Error(w, "no model registry", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{"models": s.routes()})
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		http.Error(w, "sessions disabled", http.StatusNotFound)
		return
	}
	arts, err := s.sessions.All(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"session_id": r.PathValue("id"), "artifacts": arts})
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		http.Error(w, "sessions disabled", http.StatusNotFound)
		return
	}
	if err := s.sessions.Delete(r.Context(), r.PathValue("id")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
