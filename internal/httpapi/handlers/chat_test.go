package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"github.com/quickdesk/quickdesk/internal/ai"
	"github.com/quickdesk/quickdesk/internal/chat"
	"github.com/quickdesk/quickdesk/internal/config"
	"github.com/quickdesk/quickdesk/internal/faq"
	"github.com/quickdesk/quickdesk/internal/httpapi"
	"github.com/quickdesk/quickdesk/internal/httpapi/handlers"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubProvider struct {
	calls int
	reply string
}

func (p *stubProvider) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	_ = ctx
	_ = messages
	p.calls++
	return p.reply, nil
}

type stubPublisher struct {
	ids []string
	err error
}

func (p *stubPublisher) PublishJob(ctx context.Context, jobID string) error {
	_ = ctx
	p.ids = append(p.ids, jobID)
	return p.err
}

type testEnv struct {
	router *gin.Engine
	prov   *stubProvider
	cfg    config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithPublisher(t, nil)
}

func newTestEnvWithPublisher(t *testing.T, pub handlers.JobPublisher) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&chat.Conversation{}, &chat.Message{}, &chat.Job{}, &faq.Document{}, &faq.Entry{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	cfg := config.Config{
		JWTSecret:         "test-secret",
		AdminPasswordHash: string(hash),
	}

	prov := &stubProvider{reply: "generated reply"}
	faqRepo := faq.NewRepo(db)
	svc := chat.NewService(chat.NewRepo(db), faq.NewMatcher(faqRepo), prov, nil, time.Minute)
	h := handlers.NewHandler(cfg, svc, faqRepo, pub, t.TempDir())

	return &testEnv{router: httpapi.NewRouter(cfg, h), prov: prov, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestPostChat_RoundTrip(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/chat", gin.H{"message": "hello"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message        string `json:"message"`
		ConversationID string `json:"conversationId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "generated reply" || resp.ConversationID == "" {
		t.Fatalf("unexpected response %+v", resp)
	}

	// fetch by id: exactly the user message then the bot message
	w = env.do(t, http.MethodGet, "/api/chat/"+resp.ConversationID, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status %d", w.Code)
	}
	var conv struct {
		ID       string `json:"id"`
		Messages []struct {
			Sender string `json:"sender"`
			Text   string `json:"text"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &conv); err != nil {
		t.Fatalf("decode conversation: %v", err)
	}
	if conv.ID != resp.ConversationID {
		t.Fatalf("identity not stable: %q vs %q", conv.ID, resp.ConversationID)
	}
	if len(conv.Messages) != 2 ||
		conv.Messages[0].Sender != "user" || conv.Messages[0].Text != "hello" ||
		conv.Messages[1].Sender != "bot" || conv.Messages[1].Text != "generated reply" {
		t.Fatalf("unexpected transcript %+v", conv.Messages)
	}
}

func TestPostChat_EmptyMessage(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/chat", gin.H{"message": "  "}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPostChat_UnknownConversation404(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/chat", gin.H{"message": "hi", "conversationId": "01MISSING00000000000000000"}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("error body missing: %s", w.Body.String())
	}
}

func TestListAndDeleteConversations(t *testing.T) {
	env := newTestEnv(t)

	first := env.do(t, http.MethodPost, "/api/chat", gin.H{"message": "first"}, nil)
	second := env.do(t, http.MethodPost, "/api/chat", gin.H{"message": "second"}, nil)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("seed sends failed: %d %d", first.Code, second.Code)
	}
	var sent struct {
		ConversationID string `json:"conversationId"`
	}
	if err := json.Unmarshal(second.Body.Bytes(), &sent); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w := env.do(t, http.MethodGet, "/api/chat", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status %d", w.Code)
	}
	var list []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(list))
	}
	if list[0].ID != sent.ConversationID {
		t.Fatalf("expected newest conversation first")
	}

	// delete, then verify gone and a second delete 404s
	if w := env.do(t, http.MethodDelete, "/api/chat/"+sent.ConversationID, nil, nil); w.Code != http.StatusOK {
		t.Fatalf("delete status %d", w.Code)
	}
	w = env.do(t, http.MethodGet, "/api/chat", nil, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("conversation not removed from listing")
	}
	if w := env.do(t, http.MethodDelete, "/api/chat/"+sent.ConversationID, nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete should 404, got %d", w.Code)
	}
}

func TestGetConversation_NotFound(t *testing.T) {
	env := newTestEnv(t)
	if w := env.do(t, http.MethodGet, "/api/chat/01NOPE000000000000000000000", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestPostChatAsync_DisabledWithoutBroker(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/chat/async", gin.H{"message": "hi"}, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a publisher, got %d", w.Code)
	}
}

func TestPostChatAsync_EnqueuesJob(t *testing.T) {
	pub := &stubPublisher{}
	env := newTestEnvWithPublisher(t, pub)

	w := env.do(t, http.MethodPost, "/api/chat/async", gin.H{"message": "hi"}, nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		JobID string `json:"jobId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.JobID == "" {
		t.Fatalf("missing job id: %s", w.Body.String())
	}
	if len(pub.ids) != 1 || pub.ids[0] != resp.JobID {
		t.Fatalf("published ids %v, want [%s]", pub.ids, resp.JobID)
	}

	// the job is visible as queued until a worker picks it up
	w = env.do(t, http.MethodGet, "/api/chat/jobs/"+resp.JobID, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("job status %d body %s", w.Code, w.Body.String())
	}
	var job struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.Status != "queued" {
		t.Fatalf("expected queued job, got %q", job.Status)
	}
}

func TestPostChatAsync_PublishFailure(t *testing.T) {
	pub := &stubPublisher{err: errors.New("broker down")}
	env := newTestEnvWithPublisher(t, pub)

	w := env.do(t, http.MethodPost, "/api/chat/async", gin.H{"message": "hi"}, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on publish failure, got %d", w.Code)
	}

	// the job row was persisted before the publish, so it stays queued
	if len(pub.ids) != 1 {
		t.Fatalf("expected one publish attempt, got %v", pub.ids)
	}
	w = env.do(t, http.MethodGet, "/api/chat/jobs/"+pub.ids[0], nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("job should still exist, got %d", w.Code)
	}
	var job struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.Status != "queued" {
		t.Fatalf("expected queued job, got %q", job.Status)
	}
}
