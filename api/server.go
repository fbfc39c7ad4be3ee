package api

import (
	"net/http"

	"go.uber.org/zap"
	"trackflow-service/auth"
	"trackflow-service/chat"
	"trackflow-service/tracking"
)

type Server struct {
	logger    *zap.Logger
	sessions  auth.Sessions
	directory *tracking.Directory
	lookup    *tracking.Lookup
	chat      *chat.Service
	hub       *chat.Hub
}

func NewServer(logger *zap.Logger, sessions auth.Sessions, directory *tracking.Directory, lookup *tracking.Lookup, chatSvc *chat.Service, hub *chat.Hub) *Server {
	return &Server{
		logger:    logger,
		sessions:  sessions,
		directory: directory,
		lookup:    lookup,
		chat:      chatSvc,
		hub:       hub,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Public lookup works even when the hosted database is down; everything
	// else needs sessions backed by it.
	mux.Handle("GET /api/track/{number}", s.wrap(s.handleTrack))
	if s.sessions == nil {
		return cors(mux)
	}

	mux.Handle("POST /api/auth/signup", s.wrap(s.handleSignUp))
	mux.Handle("POST /api/auth/login", s.wrap(s.handleSignIn))

	// Admin shipment directory.
	mux.Handle("GET /api/admin/shipments", s.admin(s.handleListShipments))
	mux.Handle("POST /api/admin/shipments", s.admin(s.handleRegisterShipment))
	mux.Handle("POST /api/admin/shipments/{number}/updates", s.admin(s.handleUpdateStatus))
	mux.Handle("DELETE /api/admin/shipments/{number}", s.admin(s.handleArchiveShipment))
	mux.Handle("POST /api/admin/shipments/{number}/restore", s.admin(s.handleRestoreShipment))

	// Chat.
	mux.Handle("POST /api/chat/open", s.requireAuth(s.wrap(s.handleOpenRoom)))
	mux.Handle("GET /api/chat/rooms/{id}/messages", s.requireAuth(s.wrap(s.handleHistory)))
	mux.Handle("POST /api/chat/rooms/{id}/messages", s.requireAuth(s.wrap(s.handleSendMessage)))
	mux.Handle("GET /api/admin/chat/rooms", s.admin(s.handleListRooms))

	// Live feeds.
	mux.Handle("GET /ws/chat/{id}", s.requireAuth(http.HandlerFunc(s.handleRoomSocket)))
	mux.Handle("GET /ws/admin/rooms", s.requireRole(auth.RoleAdmin, http.HandlerFunc(s.handleRoomListSocket)))

	return cors(mux)
}

func (s *Server) admin(h handler) http.Handler {
	return s.requireRole(auth.RoleAdmin, s.wrap(h))
}
