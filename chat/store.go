package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var ErrRoomNotFound = errors.New("chat room not found")

// Store persists rooms and messages. Messages are append-only; rooms only
// ever have their last-message cache and status touched after creation.
type Store interface {
	CreateRoom(ctx context.Context, room *Room) error
	GetRoom(ctx context.Context, id string) (*Room, error)
	FindRoomByUser(ctx context.Context, userID string) (*Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	TouchRoom(ctx context.Context, roomID, lastMessage string) error

	InsertMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, roomID string) ([]Message, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(&Room{}, &Message{}); err != nil {
		return nil, fmt.Errorf("failed to migrate chat tables: %w", err)
	}
	return &gormStore{db: db}, nil
}

func (s *gormStore) CreateRoom(ctx context.Context, room *Room) error {
	if err := s.db.WithContext(ctx).Create(room).Error; err != nil {
		return fmt.Errorf("failed to insert chat room: %w", err)
	}
	return nil
}

func (s *gormStore) GetRoom(ctx context.Context, id string) (*Room, error) {
	var room Room
	if err := s.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get chat room: %w", err)
	}
	return &room, nil
}

func (s *gormStore) FindRoomByUser(ctx context.Context, userID string) (*Room, error) {
	var room Room
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, RoomActive).
		Order("updated_at DESC").
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find chat room: %w", err)
	}
	return &room, nil
}

func (s *gormStore) ListRooms(ctx context.Context) ([]Room, error) {
	var rooms []Room
	if err := s.db.WithContext(ctx).Order("updated_at DESC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list chat rooms: %w", err)
	}
	return rooms, nil
}

func (s *gormStore) TouchRoom(ctx context.Context, roomID, lastMessage string) error {
	err := s.db.WithContext(ctx).Model(&Room{}).
		Where("id = ?", roomID).
		Updates(map[string]any{"last_message": lastMessage, "updated_at": time.Now().UTC()}).Error
	if err != nil {
		return fmt.Errorf("failed to update chat room: %w", err)
	}
	return nil
}

func (s *gormStore) InsertMessage(ctx context.Context, msg *Message) error {
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	return nil
}

func (s *gormStore) ListMessages(ctx context.Context, roomID string) ([]Message, error) {
	var messages []Message
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}
