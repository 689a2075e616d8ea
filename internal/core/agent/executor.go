package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vendabot/vendabot-be/internal/core/fx"
	"github.com/vendabot/vendabot-be/internal/core/payment"
	"github.com/vendabot/vendabot-be/internal/core/search"
	"github.com/vendabot/vendabot-be/internal/core/vaulta"
	"github.com/vendabot/vendabot-be/internal/core/weather"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/models"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/repositories"
)

// ErrMissingBusinessID means a tenant-scoped tool ran without a business on
// the request context. This is a wiring fault, not a model mistake.
var ErrMissingBusinessID = errors.New("business ID missing from request context")

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 20
)

// Executor runs validated tool calls against the real backends. Backend
// failures are returned as an error payload the model can explain to the
// customer; only wiring faults abort the turn.
type Executor struct {
	products     repositories.ProductRepo
	transactions repositories.TransactionRepo
	search       *search.Service
	gateway      payment.Gateway
	weather      *weather.Client
	fx           *fx.Client
	vaulta       *vaulta.Client

	defaultCurrency    string
	defaultCallbackURL string
	httpClient         *http.Client
}

// ExecutorConfig wires the executor's backends
type ExecutorConfig struct {
	Products     repositories.ProductRepo
	Transactions repositories.TransactionRepo
	Search       *search.Service
	Gateway      payment.Gateway
	Weather      *weather.Client
	FX           *fx.Client
	Vaulta       *vaulta.Client

	DefaultCurrency    string // default GHS
	DefaultCallbackURL string // e.g. {base}/paystack/callback
}

func NewExecutor(config ExecutorConfig) *Executor {
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = "GHS"
	}
	return &Executor{
		products:           config.Products,
		transactions:       config.Transactions,
		search:             config.Search,
		gateway:            config.Gateway,
		weather:            config.Weather,
		fx:                 config.FX,
		vaulta:             config.Vaulta,
		defaultCurrency:    config.DefaultCurrency,
		defaultCallbackURL: config.DefaultCallbackURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// productView is the product shape surfaced to the model
type productView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

func toProductViews(products []models.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{
			ID:          p.ID.String(),
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
		})
	}
	return views
}

func errorResult(err error) map[string]interface{} {
	return map[string]interface{}{"error": err.Error()}
}

// Execute runs one validated tool call and returns its result payload.
// args must come from DecodeArgs for the same kind.
func (e *Executor) Execute(ctx context.Context, kind ToolKind, args interface{}) (interface{}, error) {
	switch kind {
	case ToolGetWeather:
		return e.getWeather(ctx, args.(*WeatherArgs)), nil
	case ToolGetExchangeRate:
		return e.getExchangeRate(ctx, args.(*ExchangeRateArgs)), nil
	case ToolGetProducts:
		return e.getProducts(ctx)
	case ToolGetRate:
		return e.getRate(ctx, args.(*RateArgs)), nil
	case ToolInitializePayment:
		return e.initializePayment(ctx, args.(*InitializePaymentArgs))
	case ToolVerifyPayment:
		return e.verifyPayment(ctx, args.(*VerifyPaymentArgs)), nil
	case ToolSearchSimilarProducts:
		return e.searchSimilarProducts(ctx, args.(*TextSearchArgs))
	case ToolSearchByImage:
		return e.searchByImage(ctx, args.(*ImageSearchArgs))
	default:
		return nil, fmt.Errorf("unknown tool: %s", kind)
	}
}

func (e *Executor) getWeather(ctx context.Context, args *WeatherArgs) interface{} {
	obs, err := e.weather.Current(ctx, args.Latitude, args.Longitude)
	if err != nil {
		return errorResult(err)
	}
	return obs
}

func (e *Executor) getExchangeRate(ctx context.Context, args *ExchangeRateArgs) interface{} {
	rate, err := e.fx.Rate(ctx, args.LocalCurrency, args.ForeignCurrency)
	if err != nil {
		return errorResult(err)
	}
	return rate
}

func (e *Executor) getProducts(ctx context.Context) (interface{}, error) {
	businessID, ok := BusinessIDFrom(ctx)
	if !ok {
		return nil, ErrMissingBusinessID
	}

	products, err := e.products.ListActive(businessID)
	if err != nil {
		return errorResult(err), nil
	}
	return toProductViews(products), nil
}

func (e *Executor) getRate(ctx context.Context, args *RateArgs) interface{} {
	if e.vaulta == nil {
		return errorResult(errors.New("crypto quoting is not configured"))
	}

	quote, err := e.vaulta.Quote(ctx, vaulta.QuoteRequest{
		Pair:         args.Pair,
		Side:         args.Side,
		AmountCrypto: args.AmountCrypto,
		AmountFiat:   args.AmountFiat,
	})
	if err != nil {
		return errorResult(err)
	}
	return quote
}

func (e *Executor) initializePayment(ctx context.Context, args *InitializePaymentArgs) (interface{}, error) {
	businessID, ok := BusinessIDFrom(ctx)
	if !ok {
		return nil, ErrMissingBusinessID
	}

	currency := args.Currency
	if currency == "" {
		currency = e.defaultCurrency
	}
	callbackURL := args.CallbackURL
	if callbackURL == "" {
		callbackURL = e.defaultCallbackURL
	}

	result, err := e.gateway.Initialize(ctx, payment.InitializeRequest{
		CustomerEmail: args.CustomerEmail,
		Amount:        args.Amount,
		Currency:      currency,
		CallbackURL:   callbackURL,
	})
	if err != nil {
		return errorResult(err), nil
	}

	// Record the pending transaction so the callback/webhook can settle it
	tx := &models.PaymentTransaction{
		BusinessID:    businessID,
		Reference:     result.Reference,
		Status:        models.TransactionPending,
		Amount:        payment.MinorUnits(args.Amount),
		Currency:      currency,
		CustomerEmail: args.CustomerEmail,
	}
	if err := e.transactions.Create(tx); err != nil {
		log.Error().Err(err).Str("reference", result.Reference).
			Msg("❌ Failed to record pending payment transaction")
	}

	return map[string]interface{}{
		"authorization_url": result.AuthorizationURL,
		"reference":         result.Reference,
	}, nil
}

func (e *Executor) verifyPayment(ctx context.Context, args *VerifyPaymentArgs) interface{} {
	result, err := e.gateway.Verify(ctx, args.Reference)
	if err != nil {
		return errorResult(err)
	}
	return result
}

func (e *Executor) searchSimilarProducts(ctx context.Context, args *TextSearchArgs) (interface{}, error) {
	businessID, ok := BusinessIDFrom(ctx)
	if !ok {
		return nil, ErrMissingBusinessID
	}

	products, err := e.search.ByText(ctx, businessID, args.Query, clampLimit(args.Limit))
	if errors.Is(err, search.ErrNoEmbeddedProducts) {
		return noEmbeddingsResult(), nil
	}
	if err != nil {
		return errorResult(err), nil
	}
	return toProductViews(products), nil
}

func (e *Executor) searchByImage(ctx context.Context, args *ImageSearchArgs) (interface{}, error) {
	businessID, ok := BusinessIDFrom(ctx)
	if !ok {
		return nil, ErrMissingBusinessID
	}

	// Prefer the image attached to the current message; fall back to a URL
	// the model extracted.
	image, ok := InboundImageFrom(ctx)
	if !ok {
		if args.ImageURL == "" {
			return errorResult(errors.New("no image was provided to search with")), nil
		}
		downloaded, err := e.downloadImage(ctx, args.ImageURL)
		if err != nil {
			return errorResult(err), nil
		}
		image = downloaded
	}

	products, err := e.search.ByImage(ctx, businessID, image, clampLimit(args.Limit))
	if errors.Is(err, search.ErrNoEmbeddedProducts) {
		return noEmbeddingsResult(), nil
	}
	if err != nil {
		return errorResult(err), nil
	}
	return toProductViews(products), nil
}

func (e *Executor) downloadImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultSearchLimit
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}

func noEmbeddingsResult() map[string]interface{} {
	return map[string]interface{}{
		"message": "No products with image embeddings found. Try uploading product images first.",
	}
}
