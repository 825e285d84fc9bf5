// Package client is the chat client's state store: a cache of the active
// transcript and the conversation list, with optimistic appends on send and
// debounced refetching of the list. It mirrors the server's /api/chat surface
// and is consumed by the chatcli frontend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const DefaultMinFetchInterval = 5 * time.Second

type Message struct {
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Message `json:"messages"`
}

// Store is constructed once per application instance and passed explicitly;
// there is no package-level instance. All methods are safe for concurrent
// use, though the intended consumer is a single UI loop.
type Store struct {
	baseURL string
	httpc   *http.Client

	mu                   sync.Mutex
	messages             []Message
	conversationID       string
	conversations        []Conversation
	conversationsLoaded  bool
	lastFetch            time.Time
	minFetchInterval     time.Duration
	loadingConversations bool
	conversationsErr     error
}

func New(baseURL string) *Store {
	return &Store{
		baseURL:          strings.TrimRight(baseURL, "/"),
		httpc:            &http.Client{Timeout: 120 * time.Second},
		minFetchInterval: DefaultMinFetchInterval,
	}
}

// SetMinFetchInterval adjusts the debounce window for FetchConversations.
func (s *Store) SetMinFetchInterval(d time.Duration) {
	s.mu.Lock()
	s.minFetchInterval = d
	s.mu.Unlock()
}

// SendMessage appends the user message locally, posts it, and appends the
// bot reply on success. The optimistic user append survives a failure; the
// error is returned so the frontend can tell the user the send did not
// complete.
func (s *Store) SendMessage(ctx context.Context, text string) error {
	s.mu.Lock()
	s.messages = append(s.messages, Message{Text: text, Sender: "user", Timestamp: time.Now()})
	convID := s.conversationID
	s.mu.Unlock()

	var resp struct {
		Message        string `json:"message"`
		ConversationID string `json:"conversationId"`
	}
	err := s.postJSON(ctx, "/api/chat", map[string]string{
		"message":        text,
		"conversationId": convID,
	}, &resp)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.messages = append(s.messages, Message{Text: resp.Message, Sender: "bot", Timestamp: time.Now()})
	s.conversationID = resp.ConversationID
	s.mu.Unlock()
	return nil
}

// FetchHistory replaces the active transcript with a stored conversation.
func (s *Store) FetchHistory(ctx context.Context, conversationID string) error {
	var conv Conversation
	if err := s.getJSON(ctx, "/api/chat/"+conversationID, &conv); err != nil {
		return err
	}

	s.mu.Lock()
	s.messages = conv.Messages
	s.conversationID = conv.ID
	s.mu.Unlock()
	return nil
}

// FetchConversations refreshes the conversation list. Unless forced, a fetch
// within the minimum interval of the last successful one is skipped. Failures
// are recorded in the error flag, never returned.
func (s *Store) FetchConversations(ctx context.Context, force bool) {
	s.mu.Lock()
	if !force && s.conversationsLoaded && time.Since(s.lastFetch) < s.minFetchInterval {
		s.mu.Unlock()
		return
	}
	s.loadingConversations = true
	s.conversationsErr = nil
	s.mu.Unlock()

	var convs []Conversation
	err := s.getJSON(ctx, "/api/chat", &convs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingConversations = false
	if err != nil {
		// keep conversationsLoaded false-ish semantics: a later call may retry
		s.conversationsErr = err
		return
	}
	s.conversations = convs
	s.conversationsLoaded = true
	s.lastFetch = time.Now()
}

// RefreshConversations is the manual-refresh path: always fetches.
func (s *Store) RefreshConversations(ctx context.Context) {
	s.FetchConversations(ctx, true)
}

// DeleteConversation removes the conversation remotely, then locally on
// success. Deleting the active conversation clears the chat. The error is
// re-raised for the frontend's confirmation flow.
func (s *Store) DeleteConversation(ctx context.Context, conversationID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.baseURL+"/api/chat/"+conversationID, nil)
	if err != nil {
		return err
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	s.mu.Lock()
	kept := s.conversations[:0]
	for _, c := range s.conversations {
		if c.ID != conversationID {
			kept = append(kept, c)
		}
	}
	s.conversations = kept
	clearActive := s.conversationID == conversationID
	if clearActive {
		s.messages = nil
		s.conversationID = ""
	}
	s.mu.Unlock()
	return nil
}

// ClearChat resets the active transcript, used when starting a new conversation.
func (s *Store) ClearChat() {
	s.mu.Lock()
	s.messages = nil
	s.conversationID = ""
	s.mu.Unlock()
}

func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

func (s *Store) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

func (s *Store) Conversations() []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Conversation(nil), s.conversations...)
}

func (s *Store) ConversationsError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationsErr
}

func (s *Store) IsLoadingConversations() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadingConversations
}

func (s *Store) postJSON(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *Store) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return fmt.Errorf("api: %s (status %d)", body.Error, resp.StatusCode)
	}
	return fmt.Errorf("api: status %d", resp.StatusCode)
}
