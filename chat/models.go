package chat

import "time"

type RoomStatus string

const (
	RoomActive RoomStatus = "active"
	RoomClosed RoomStatus = "closed"
)

type SenderRole string

const (
	RoleAdmin    SenderRole = "admin"
	RoleCustomer SenderRole = "customer"
)

// Room is one support conversation between a customer and the admin console.
type Room struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	CustomerName  string     `gorm:"size:100" json:"customer_name,omitempty"`
	CustomerEmail string     `gorm:"size:100" json:"customer_email,omitempty"`
	UserID        string     `gorm:"size:36;index" json:"user_id,omitempty"`
	LastMessage   string     `json:"last_message,omitempty"`
	Status        RoomStatus `gorm:"size:20;not null" json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Room) TableName() string { return "chat_rooms" }

// Message is one entry in a room's append-only log.
type Message struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	RoomID     string     `gorm:"size:36;not null;index" json:"room_id"`
	SenderRole SenderRole `gorm:"size:20;not null" json:"sender_role"`
	Content    string     `gorm:"not null" json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (Message) TableName() string { return "chat_messages" }
