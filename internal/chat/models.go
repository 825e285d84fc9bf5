package chat

import "time"

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Conversation is an append-only transcript keyed by a ULID assigned at
// creation. The id never changes and is the sole fetch/delete key.
type Conversation struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Message `gorm:"constraint:OnDelete:CASCADE" json:"messages"`
}

func (Conversation) TableName() string { return "conversations" }

// Message is immutable once appended; order of append is the order of the
// autoincrement id.
type Message struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	ConversationID string    `gorm:"size:26;index;not null" json:"-"`
	Sender         string    `gorm:"size:8;not null" json:"sender"` // user or bot
	Text           string    `gorm:"type:text;not null" json:"text"`
	Timestamp      time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (Message) TableName() string { return "messages" }
