package chat

import "time"

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job is one queued send, processed by the worker through the same
// orchestration path as a synchronous send.
type Job struct {
	ID string `gorm:"primaryKey;size:26" json:"id"` // ULID length

	// Empty means the worker starts a new conversation.
	ConversationID string `gorm:"size:26;index" json:"conversationId"`

	Prompt string `gorm:"type:text;not null" json:"-"`

	Status JobStatus `gorm:"type:varchar(16);index;not null" json:"status"`

	// Filled when succeeded.
	ResultConversationID *string `gorm:"size:26" json:"resultConversationId,omitempty"`
	Reply                *string `gorm:"type:text" json:"reply,omitempty"`

	// Filled when failed.
	Error *string `gorm:"type:text" json:"error,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Job) TableName() string { return "chat_jobs" }
