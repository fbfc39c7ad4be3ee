package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// RoomRefCache remembers each participant's current room id in one JSON file,
// one key per user. It is consulted before the database when the widget opens
// and is purely an acceleration; losing it only costs a lookup.
type RoomRefCache struct {
	path string
	mu   sync.Mutex
}

func NewRoomRefCache(dir string) (*RoomRefCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &RoomRefCache{path: filepath.Join(dir, "chat_rooms.json")}, nil
}

func (c *RoomRefCache) load() (map[string]string, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read room cache: %w", err)
	}
	refs := map[string]string{}
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil, fmt.Errorf("failed to decode room cache: %w", err)
	}
	return refs, nil
}

// Get returns the cached room id for a user, or "".
func (c *RoomRefCache) Get(userID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	refs, err := c.load()
	if err != nil {
		return ""
	}
	return refs[userID]
}

func (c *RoomRefCache) Set(userID, roomID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	refs, err := c.load()
	if err != nil {
		return err
	}
	refs[userID] = roomID
	data, err := json.MarshalIndent(refs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode room cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write room cache: %w", err)
	}
	return nil
}
