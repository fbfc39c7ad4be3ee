package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const greeting = "Hello! How can we help you today?"

const maxMessageLength = 5 * 1024

// ErrInvalidMessage rejects empty or oversized message content.
var ErrInvalidMessage = errors.New("invalid message content")

// Service owns the conversation lifecycle: one active room per customer,
// lazily created on first widget open and seeded with an admin greeting.
type Service struct {
	logger *zap.Logger
	store  Store
	refs   *RoomRefCache
	hub    *Hub
}

func NewService(logger *zap.Logger, store Store, refs *RoomRefCache, hub *Hub) *Service {
	return &Service{logger: logger, store: store, refs: refs, hub: hub}
}

// Open returns the caller's active room, creating and greeting it the first
// time. The room id cache is tried before the database.
func (s *Service) Open(ctx context.Context, userID, name, email string) (*Room, error) {
	if id := s.refs.Get(userID); id != "" {
		room, err := s.store.GetRoom(ctx, id)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, ErrRoomNotFound) {
			return nil, err
		}
		// Stale cache entry; fall through to the database.
	}

	room, err := s.store.FindRoomByUser(ctx, userID)
	if err == nil {
		s.cacheRef(userID, room.ID)
		return room, nil
	}
	if !errors.Is(err, ErrRoomNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	room = &Room{
		ID:            uuid.NewString(),
		CustomerName:  name,
		CustomerEmail: email,
		UserID:        userID,
		Status:        RoomActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	s.cacheRef(userID, room.ID)
	s.hub.PublishRoom(*room)

	if _, err := s.Send(ctx, room.ID, RoleAdmin, greeting); err != nil {
		s.logger.Warn("Failed to seed greeting message",
			zap.String("room_id", room.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("Chat room created",
		zap.String("room_id", room.ID),
		zap.String("user_id", userID),
	)
	return room, nil
}

func (s *Service) cacheRef(userID, roomID string) {
	if err := s.refs.Set(userID, roomID); err != nil {
		s.logger.Warn("Failed to cache room id", zap.String("user_id", userID), zap.Error(err))
	}
}

// Send appends to the room's log, refreshes its last-message cache and
// pushes the row to live subscribers. Delivery is best-effort.
func (s *Service) Send(ctx context.Context, roomID string, role SenderRole, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > maxMessageLength {
		return nil, ErrInvalidMessage
	}

	if _, err := s.store.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	msg := &Message{
		ID:         uuid.NewString(),
		RoomID:     roomID,
		SenderRole: role,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.store.TouchRoom(ctx, roomID, content); err != nil {
		s.logger.Warn("Failed to refresh room last message",
			zap.String("room_id", roomID),
			zap.Error(err),
		)
	}

	s.hub.Publish(*msg)
	if room, err := s.store.GetRoom(ctx, roomID); err == nil {
		s.hub.PublishRoom(*room)
	}
	return msg, nil
}

// Room fetches one room by id.
func (s *Service) Room(ctx context.Context, roomID string) (*Room, error) {
	return s.store.GetRoom(ctx, roomID)
}

// History returns a room's full log, chronological.
func (s *Service) History(ctx context.Context, roomID string) ([]Message, error) {
	return s.store.ListMessages(ctx, roomID)
}

// Rooms lists every conversation for the admin console, most recently
// touched first.
func (s *Service) Rooms(ctx context.Context) ([]Room, error) {
	return s.store.ListRooms(ctx)
}
