package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string
	Env         string

	// LLM (OpenRouter, OpenAI-compatible)
	OpenRouterAPIKey string
	OpenRouterModel  string

	// Vertex AI multimodal embeddings
	VertexProjectID   string
	VertexLocation    string
	VertexAccessToken string

	// Paystack
	PaystackSecretKey string

	// Vaulta crypto quotes
	VaultaBaseURL string
	VaultaAPIKey  string

	// WhatsApp Cloud API
	WhatsAppAccessToken string
	WhatsAppAPIVersion  string
	WhatsAppVerifyToken string

	// Public base URL of this deployment (payment callback default)
	AppBaseURL string

	DefaultCurrency string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		Port:                os.Getenv("PORT"),
		Env:                 os.Getenv("ENV"),
		OpenRouterAPIKey:    os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:     os.Getenv("OPENROUTER_MODEL"),
		VertexProjectID:     os.Getenv("GCP_PROJECT_ID"),
		VertexLocation:      os.Getenv("GCP_LOCATION"),
		VertexAccessToken:   os.Getenv("GCP_ACCESS_TOKEN"),
		PaystackSecretKey:   os.Getenv("PAYSTACK_SECRET_KEY"),
		VaultaBaseURL:       os.Getenv("VAULTA_BASE_URL"),
		VaultaAPIKey:        os.Getenv("VAULTA_API_KEY"),
		WhatsAppAccessToken: os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppAPIVersion:  os.Getenv("WHATSAPP_API_VERSION"),
		WhatsAppVerifyToken: os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		AppBaseURL:          os.Getenv("APP_BASE_URL"),
		DefaultCurrency:     os.Getenv("DEFAULT_CURRENCY"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.OpenRouterModel == "" {
		cfg.OpenRouterModel = "openai/gpt-4o-mini"
	}
	if cfg.VertexLocation == "" {
		cfg.VertexLocation = "us-central1"
	}
	if cfg.WhatsAppAPIVersion == "" {
		cfg.WhatsAppAPIVersion = "v18.0"
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "GHS"
	}

	return cfg
}

// PaymentCallbackURL is where Paystack redirects customers after checkout.
// Empty when no public base URL is configured.
func (c *Config) PaymentCallbackURL() string {
	if c.AppBaseURL == "" {
		return ""
	}
	return strings.TrimRight(c.AppBaseURL, "/") + "/paystack/callback"
}
