package main

import (
	"log"
	"time"

	"github.com/quickdesk/quickdesk/internal/ai"
	"github.com/quickdesk/quickdesk/internal/cache"
	"github.com/quickdesk/quickdesk/internal/chat"
	"github.com/quickdesk/quickdesk/internal/config"
	"github.com/quickdesk/quickdesk/internal/db"
	"github.com/quickdesk/quickdesk/internal/faq"
	"github.com/quickdesk/quickdesk/internal/httpapi"
	"github.com/quickdesk/quickdesk/internal/httpapi/handlers"
	"github.com/quickdesk/quickdesk/internal/store/rabbitmq"
)

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)
	if err := gdb.AutoMigrate(
		&chat.Conversation{}, &chat.Message{}, &chat.Job{},
		&faq.Document{}, &faq.Entry{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	provider := ai.NewAzureProvider(cfg.AzureEndpoint, cfg.AzureAPIKey, cfg.AzureDeployment, cfg.AzureAPIVersion)
	if cfg.AzureAPIKey == "" {
		log.Printf("[server] AZURE_OPENAI_KEY not set; non-FAQ sends will fail upstream")
	}

	var replies cache.ReplyCache
	switch cfg.ReplyCache {
	case "redis":
		replies = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		log.Printf("[server] reply cache: redis %s", cfg.RedisAddr)
	default:
		replies = cache.NewMemory(cfg.ReplyCacheMaxItems)
	}

	faqRepo := faq.NewRepo(gdb)
	svc := chat.NewService(
		chat.NewRepo(gdb),
		faq.NewMatcher(faqRepo),
		provider,
		replies,
		time.Duration(cfg.ReplyCacheTTLSecs)*time.Second,
	)

	var publisher handlers.JobPublisher
	if pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue); err != nil {
		log.Printf("[server] rabbit unavailable, async sends disabled: %v", err)
	} else {
		publisher = pub
		defer pub.Close()
	}

	h := handlers.NewHandler(cfg, svc, faqRepo, publisher, "")
	r := httpapi.NewRouter(cfg, h)

	log.Printf("[server] listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
