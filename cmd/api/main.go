package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/vendabot/vendabot-be/internal/core/agent"
	"github.com/vendabot/vendabot-be/internal/core/embedding"
	"github.com/vendabot/vendabot-be/internal/core/fx"
	"github.com/vendabot/vendabot-be/internal/core/llm"
	"github.com/vendabot/vendabot-be/internal/core/payment"
	"github.com/vendabot/vendabot-be/internal/core/search"
	"github.com/vendabot/vendabot-be/internal/core/vaulta"
	"github.com/vendabot/vendabot-be/internal/core/weather"
	"github.com/vendabot/vendabot-be/internal/core/whatsapp"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/handlers"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/repositories"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/services"
	"github.com/vendabot/vendabot-be/internal/shared/config"
	"github.com/vendabot/vendabot-be/internal/shared/database"
	"github.com/vendabot/vendabot-be/internal/shared/utils"
)

const backfillBatchSize = 50

func main() {
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)

	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	// Repositories
	businessRepo := repositories.NewBusinessRepo(db.GORM)
	productRepo := repositories.NewProductRepo(db.GORM)
	messageRepo := repositories.NewMessageRepo(db.GORM)
	transactionRepo := repositories.NewTransactionRepo(db.GORM)

	// Providers
	provider, err := llm.NewOpenRouterProvider(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to create model provider")
	}
	log.Info().Str("provider", provider.GetProviderName()).Msg("🧠 Model provider ready")

	embedder, err := embedding.NewVertexProvider(embedding.VertexConfig{
		ProjectID:   cfg.VertexProjectID,
		Location:    cfg.VertexLocation,
		AccessToken: cfg.VertexAccessToken,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to create embedding provider")
	}

	gateway, err := payment.NewPaystackGateway(payment.PaystackConfig{
		SecretKey:       cfg.PaystackSecretKey,
		DefaultCurrency: cfg.DefaultCurrency,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to create payment gateway")
	}

	waClient, err := whatsapp.NewCloudAPIClient(whatsapp.CloudAPIConfig{
		AccessToken: cfg.WhatsAppAccessToken,
		APIVersion:  cfg.WhatsAppAPIVersion,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to create WhatsApp client")
	}

	weatherClient := weather.NewClient("")
	fxClient := fx.NewClient("")

	// Vaulta is optional; without credentials crypto quotes degrade gracefully
	var vaultaClient *vaulta.Client
	if cfg.VaultaBaseURL != "" && cfg.VaultaAPIKey != "" {
		vaultaClient, err = vaulta.NewClient(cfg.VaultaBaseURL, cfg.VaultaAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to create Vaulta client")
		}
	} else {
		log.Warn().Msg("⚠️ Vaulta credentials not set, crypto quotes disabled")
	}

	// Agent
	searchService := search.NewService(embedder, productRepo)
	executor := agent.NewExecutor(agent.ExecutorConfig{
		Products:           productRepo,
		Transactions:       transactionRepo,
		Search:             searchService,
		Gateway:            gateway,
		Weather:            weatherClient,
		FX:                 fxClient,
		Vaulta:             vaultaClient,
		DefaultCurrency:    cfg.DefaultCurrency,
		DefaultCallbackURL: cfg.PaymentCallbackURL(),
	})
	engine := agent.NewEngine(provider, executor)

	// Services
	gate := whatsapp.NewGate()
	chatService := services.NewChatService(businessRepo, messageRepo, engine)
	webhookService := services.NewWebhookService(businessRepo, messageRepo, engine, waClient, gate)
	productService := services.NewProductService(productRepo, embedder)
	paymentService := services.NewPaymentService(gateway, gateway, transactionRepo)

	// Handlers
	chatHandler := handlers.NewChatHandler(chatService)
	conversationHandler := handlers.NewConversationHandler(chatService, webhookService)
	productHandler := handlers.NewProductHandler(productService)
	webhookHandler := handlers.NewWebhookHandler(webhookService, cfg.WhatsAppVerifyToken)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	healthHandler := handlers.NewHealthHandler(db)

	// Embedding backfill job
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 10m", func() {
		productService.BackfillEmbeddings(context.Background(), backfillBatchSize)
	}); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to schedule embedding backfill")
	}
	scheduler.Start()
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName: "vendabot-be",
	})
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", healthHandler.Health)

	api := app.Group("/api")
	api.Post("/chat", chatHandler.Chat)
	api.Get("/customers", conversationHandler.Customers)
	api.Get("/customer-messages/:customerID", conversationHandler.CustomerMessages)
	api.Post("/toggle-ai", conversationHandler.ToggleAI)
	api.Post("/clear-history", conversationHandler.ClearHistory)

	api.Post("/products", productHandler.CreateProduct)
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Put("/products/:id", productHandler.UpdateProduct)
	api.Delete("/products/:id", productHandler.DeleteProduct)

	app.Get("/webhook", webhookHandler.Verify)
	app.Post("/webhook", webhookHandler.Receive)

	app.Get("/paystack/callback", paymentHandler.Callback)
	app.Post("/paystack-webhook", paymentHandler.Webhook)

	log.Info().Str("port", cfg.Port).Msg("🚀 API running")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("❌ Server stopped")
	}
}
