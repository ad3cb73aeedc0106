package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wmaia/plaza/room/service"
	"github.com/wmaia/plaza/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.RoomService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(roomService service.RoomService, hub *websocket.Hub) *Server {
	s := &Server{
		service: roomService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Room views
	api.HandleFunc("/participants", s.handleListParticipants).Methods("GET")
	api.HandleFunc("/participants/{id}", s.handleGetParticipant).Methods("GET")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")

	// Ops
	api.HandleFunc("/announce", s.handleAnnounce).Methods("POST")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Prometheus
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Rendering client assets
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/")))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Room view handlers

func (s *Server) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	participants := s.service.Participants(r.Context())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":        len(participants),
		"participants": participants,
	})
}

func (s *Server) handleGetParticipant(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	participant, ok := s.service.Participant(r.Context(), vars["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "participant not found")
		return
	}

	respondJSON(w, http.StatusOK, participant)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games := s.service.Games(r.Context())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(games),
		"games": games,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.service.Stats(r.Context()))
}

// Ops handlers

func (s *Server) handleAnnounce(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "Announcement text is required")
		return
	}

	s.service.Announce(r.Context(), req.Text)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Announcement broadcast",
	})
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// WebSocket handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}
