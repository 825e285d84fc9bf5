package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quickdesk/quickdesk/internal/ai"
	"github.com/quickdesk/quickdesk/internal/cache"
	"github.com/quickdesk/quickdesk/internal/common"
)

// systemPrompt is the fixed instruction prepended to every completion request.
const systemPrompt = "You are a helpful and friendly customer support agent. " +
	"Your goal is to assist users with their questions and provide accurate information. " +
	"If you don't know the answer, say so honestly. Be concise and clear in your responses."

// ErrEmptyMessage rejects sends whose text is blank after trimming.
var ErrEmptyMessage = errors.New("message is required")

// FAQMatcher resolves a message to a canned answer, or reports no match.
type FAQMatcher interface {
	Match(ctx context.Context, text string) (string, bool)
}

// Service orchestrates one send: load or create the conversation, try the
// FAQ short-circuit, fall back to the completion provider, then persist the
// user/bot pair atomically.
type Service struct {
	repo     *Repo
	matcher  FAQMatcher
	provider ai.Provider
	replies  cache.ReplyCache
	replyTTL time.Duration
}

func NewService(repo *Repo, matcher FAQMatcher, provider ai.Provider, replies cache.ReplyCache, replyTTL time.Duration) *Service {
	if replyTTL <= 0 {
		replyTTL = 10 * time.Minute
	}
	return &Service{repo: repo, matcher: matcher, provider: provider, replies: replies, replyTTL: replyTTL}
}

// SendMessage processes one user message and returns the reply text together
// with the conversation id (newly assigned when conversationID is empty).
//
// Nothing is persisted until the reply exists: a matcher miss followed by a
// provider failure leaves the conversation untouched.
func (s *Service) SendMessage(ctx context.Context, text, conversationID string) (string, string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", ErrEmptyMessage
	}

	var conv *Conversation
	isNew := conversationID == ""
	if isNew {
		id, err := common.NewULID()
		if err != nil {
			return "", "", err
		}
		conv = &Conversation{ID: id}
	} else {
		loaded, err := s.repo.GetConversation(ctx, conversationID)
		if err != nil {
			return "", "", err
		}
		conv = loaded
	}

	reply, matched := s.matcher.Match(ctx, text)
	if !matched {
		var err error
		reply, err = s.completion(ctx, conv.Messages, text)
		if err != nil {
			return "", "", fmt.Errorf("completion: %w", err)
		}
	}

	userMsg := &Message{ConversationID: conv.ID, Sender: SenderUser, Text: text}
	botMsg := &Message{ConversationID: conv.ID, Sender: SenderBot, Text: reply}
	if err := s.repo.SaveExchange(ctx, conv, isNew, userMsg, botMsg); err != nil {
		return "", "", err
	}

	return reply, conv.ID, nil
}

// completion asks the provider for a reply, consulting the reply cache first.
// History is the prior transcript plus the pending user turn, prefixed with
// the fixed system instruction.
//
// Replies depend on the surrounding transcript, so only history-free first
// turns go through the shared cache; a follow-up must always reach the
// provider with its own conversation's context.
func (s *Service) completion(ctx context.Context, prior []Message, text string) (string, error) {
	cacheable := s.replies != nil && len(prior) == 0
	key := cache.Key(text)
	if cacheable {
		if cached, ok := s.replies.Get(ctx, key); ok {
			return cached, nil
		}
	}

	history := make([]ai.Message, 0, len(prior)+2)
	history = append(history, ai.Message{Role: "system", Content: systemPrompt})
	for _, m := range prior {
		role := "assistant"
		if m.Sender == SenderUser {
			role = "user"
		}
		history = append(history, ai.Message{Role: role, Content: m.Text})
	}
	history = append(history, ai.Message{Role: "user", Content: text})

	reply, err := s.provider.Chat(ctx, history)
	if err != nil {
		return "", err
	}
	if cacheable {
		s.replies.Set(ctx, key, reply, s.replyTTL)
	}
	return reply, nil
}

func (s *Service) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	return s.repo.GetConversation(ctx, id)
}

func (s *Service) ListConversations(ctx context.Context) ([]Conversation, error) {
	return s.repo.ListConversations(ctx)
}

func (s *Service) DeleteConversation(ctx context.Context, id string) error {
	return s.repo.DeleteConversation(ctx, id)
}

// Async job path. EnqueueJob only records the job; publishing to the queue is
// the handler's concern so a broker outage maps to its own error.
func (s *Service) EnqueueJob(ctx context.Context, conversationID, prompt string) (*Job, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyMessage
	}
	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	job := &Job{
		ID:             id,
		ConversationID: conversationID,
		Prompt:         prompt,
		Status:         JobQueued,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *Service) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.repo.GetJobByID(ctx, id)
}

// RunJob executes one queued send end to end and records the outcome. A job
// that is no longer queued (broker redelivery after a lost ack, or a
// concurrent worker) is acked without re-sending: the exchange must land at
// most once.
func (s *Service) RunJob(ctx context.Context, jobID string) error {
	claimed, err := s.repo.MarkJobRunning(ctx, jobID)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	job, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	reply, convID, err := s.SendMessage(ctx, job.Prompt, job.ConversationID)
	if err != nil {
		_ = s.repo.MarkJobFailed(ctx, jobID, err.Error())
		return err
	}
	return s.repo.MarkJobSucceeded(ctx, jobID, convID, reply)
}
