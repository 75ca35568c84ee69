package bootstrap

import (
	"context"
	"fmt"

	"ai-deckbot-be/internal/config"
	"ai-deckbot-be/internal/controller"
	"ai-deckbot-be/internal/entity"
	"ai-deckbot-be/internal/pkg/logger"
	"ai-deckbot-be/internal/repository/memory"
	"ai-deckbot-be/internal/service"
	"ai-deckbot-be/internal/telegram"
	"ai-deckbot-be/internal/websocket"
	"ai-deckbot-be/internal/wizard"
	"ai-deckbot-be/pkg/llm/factory"
	"ai-deckbot-be/pkg/metrics"

	pktNats "ai-deckbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// DeckEventsTopic is the in-process watermill topic for deck events.
const DeckEventsTopic = "deck_events"

var newEventBus = func(log logger.ILogger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{}, logger.NewWatermillAdapter(log))
}

type Container struct {
	Logger   logger.ILogger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	TemplateService     service.ITemplateService
	StructureService    service.IStructureService
	PresentationService service.IPresentationService

	// Background Services (Exposed for main.go to run)
	AuditService service.IAuditService
	Poller       *telegram.Poller

	// Controllers
	PresentationController controller.IPresentationController

	// WebSockets
	WebSocketHub     *websocket.Hub
	WebSocketHandler *websocket.Handler

	Sessions *memory.WizardSessionRepository

	closers []func()
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	llmLogger := logger.NewIsolatedLogger(cfg.App.LLMLogFilePath)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.MustNewMetrics(registry)

	c := &Container{Logger: sysLogger, Registry: registry, Metrics: m}

	// 2. Event Bus
	pubSub := newEventBus(sysLogger)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var sink service.EventSink
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS, events stay in-process", map[string]interface{}{"error": err.Error()})
		} else {
			sink = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 3. Services
	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		APIKey:   cfg.Ai.OllamaAPIKey,
		Timeout:  cfg.Ai.RequestTimeout,
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "Using LLM provider", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel})

	templateService, err := service.NewTemplateService(cfg.Deck.TemplatesDir, sysLogger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init templates: %w", err)
	}
	structureService := service.NewStructureService(llmProvider, service.StructureOptions{
		Timeout:    cfg.Ai.RequestTimeout,
		RepairJSON: cfg.Ai.RepairJSON,
		MaxTokens:  cfg.Ai.MaxTokens,
	}, sysLogger, llmLogger)
	deckService := service.NewDeckService(sysLogger)
	publisherService := service.NewPublisherService(DeckEventsTopic, pubSub, sink, sysLogger)
	presentationService := service.NewPresentationService(
		templateService,
		structureService,
		deckService,
		publisherService,
		cfg.Deck.MaxSlides,
		sysLogger,
	)

	c.TemplateService = templateService
	c.StructureService = structureService
	c.PresentationService = presentationService
	c.AuditService = service.NewAuditService(pubSub, DeckEventsTopic, m, sysLogger)

	// 4. Wizard and its transports
	language := entity.ParseLanguage(cfg.Deck.Language, entity.LanguageRU)
	sessions := memory.NewWizardSessionRepository(memory.DefaultSessionTTL, memory.DefaultCleanupInterval)
	w := wizard.New(sessions, presentationService, templateService, language, m, sysLogger)
	c.Sessions = sessions

	c.WebSocketHub = websocket.NewHub(sysLogger)
	go c.WebSocketHub.Run()
	c.closers = append(c.closers, c.WebSocketHub.Stop)
	c.WebSocketHandler = websocket.NewHandler(ctx, c.WebSocketHub, w)

	if cfg.Telegram.Enabled {
		bot, err := telegram.NewBot(cfg.Telegram.Token)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("init telegram bot: %w", err)
		}
		c.Poller, err = telegram.NewPoller(bot, w, cfg.Telegram.PollTimeout, sysLogger)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("init telegram poller: %w", err)
		}
	}

	// 5. Controllers
	c.PresentationController = controller.NewPresentationController(templateService, structureService, presentationService, language)

	return c, nil
}

// Close releases the event bus, NATS and the websocket hub in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
