package api

import (
	"encoding/json"
	"net/http"

	"trackflow-service/auth"
	"trackflow-service/chat"
)

func (s *Server) handleOpenRoom(w http.ResponseWriter, r *http.Request) error {
	session := sessionFrom(r)
	room, err := s.chat.Open(r.Context(), session.UserID, session.Name, session.Email)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, room)
	return nil
}

// roomFor loads a room and enforces that the caller is either the admin or
// the room's own customer.
func (s *Server) roomFor(r *http.Request, roomID string) (*chat.Room, error) {
	room, err := s.chat.Room(r.Context(), roomID)
	if err != nil {
		return nil, err
	}
	session := sessionFrom(r)
	if session.Role != auth.RoleAdmin && room.UserID != session.UserID {
		return nil, chat.ErrRoomNotFound
	}
	return room, nil
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) error {
	room, err := s.roomFor(r, r.PathValue("id"))
	if err != nil {
		return err
	}
	messages, err := s.chat.History(r.Context(), room.ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, messages)
	return nil
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) error {
	room, err := s.roomFor(r, r.PathValue("id"))
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return nil
	}

	role := chat.RoleCustomer
	if sessionFrom(r).Role == auth.RoleAdmin {
		role = chat.RoleAdmin
	}
	msg, err := s.chat.Send(r.Context(), room.ID, role, req.Content)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, msg)
	return nil
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) error {
	rooms, err := s.chat.Rooms(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, rooms)
	return nil
}
