package handlers

import (
	"context"

	"github.com/quickdesk/quickdesk/internal/chat"
	"github.com/quickdesk/quickdesk/internal/config"
	"github.com/quickdesk/quickdesk/internal/faq"
)

// JobPublisher enqueues a persisted job id onto the broker. Nil disables the
// async send endpoints.
type JobPublisher interface {
	PublishJob(ctx context.Context, jobID string) error
}

// Handler carries the wired dependencies for all routes. It is constructed
// once per process; nothing here is package-global state.
type Handler struct {
	Cfg       config.Config
	ChatSvc   *chat.Service
	FaqRepo   *faq.Repo
	Rabbit    JobPublisher
	UploadDir string
}

func NewHandler(cfg config.Config, chatSvc *chat.Service, faqRepo *faq.Repo, rabbit JobPublisher, uploadDir string) *Handler {
	return &Handler{
		Cfg:       cfg,
		ChatSvc:   chatSvc,
		FaqRepo:   faqRepo,
		Rabbit:    rabbit,
		UploadDir: uploadDir,
	}
}
