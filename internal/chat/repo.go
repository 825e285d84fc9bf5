package chat

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// GetConversation loads a conversation with its messages in append order.
func (r *Repo) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	var conv Conversation
	if err := r.db.WithContext(ctx).
		Preload("Messages", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		First(&conv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversations returns every conversation newest-first, messages included.
// The ordering is total (id breaks created_at ties) so repeated listings with
// no intervening writes are identical.
func (r *Repo) ListConversations(ctx context.Context) ([]Conversation, error) {
	var convs []Conversation
	if err := r.db.WithContext(ctx).
		Preload("Messages", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Order("created_at DESC, id DESC").
		Find(&convs).Error; err != nil {
		return nil, err
	}
	return convs, nil
}

// DeleteConversation removes a conversation and its messages. Returns
// gorm.ErrRecordNotFound when the id does not exist, so a repeated delete of
// the same id fails.
func (r *Repo) DeleteConversation(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Conversation{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("conversation_id = ?", id).Delete(&Message{}).Error
	})
}

// SaveExchange persists one accepted send as a unit: the conversation row
// when it is new, then the user message, then the bot message. Either all
// three land or none do.
func (r *Repo) SaveExchange(ctx context.Context, conv *Conversation, isNew bool, userMsg, botMsg *Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if isNew {
			if err := tx.Create(conv).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(userMsg).Error; err != nil {
			return err
		}
		return tx.Create(botMsg).Error
	})
}

// Job CRUD

func (r *Repo) CreateJob(ctx context.Context, job *Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *Repo) GetJobByID(ctx context.Context, id string) (*Job, error) {
	var j Job
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

// MarkJobRunning claims a queued job. The conditional write is the
// redelivery guard: it reports false when the job was already claimed or
// finished, so a replayed broker message cannot re-execute the send.
func (r *Repo) MarkJobRunning(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", id, JobQueued).
		Update("status", JobRunning)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repo) MarkJobSucceeded(ctx context.Context, id, conversationID, reply string) error {
	return r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":                 JobSucceeded,
			"result_conversation_id": conversationID,
			"reply":                  reply,
			"error":                  nil,
		}).Error
}

func (r *Repo) MarkJobFailed(ctx context.Context, id, errMsg string) error {
	return r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": JobFailed,
			"error":  errMsg,
		}).Error
}
