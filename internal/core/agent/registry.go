package agent

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	openai "github.com/sashabaranov/go-openai"
)

// ToolKind is the closed set of tools the assistant may call. Any tool name
// outside this set is rejected before execution.
type ToolKind string

const (
	ToolGetWeather            ToolKind = "get_weather"
	ToolGetExchangeRate       ToolKind = "get_exchange_rate"
	ToolGetProducts           ToolKind = "get_products"
	ToolGetRate               ToolKind = "get_rate"
	ToolInitializePayment     ToolKind = "initialize_payment"
	ToolVerifyPayment         ToolKind = "verify_payment"
	ToolSearchSimilarProducts ToolKind = "search_similar_products"
	ToolSearchByImage         ToolKind = "search_by_image"
)

// Typed argument structs, one per tool. Model-produced arguments are
// validated against the JSON schema before being decoded into these.

type WeatherArgs struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ExchangeRateArgs struct {
	LocalCurrency   string `json:"local_currency"`
	ForeignCurrency string `json:"foreign_currency"`
}

type ProductsArgs struct{}

type RateArgs struct {
	Pair         string  `json:"pair"`
	Side         string  `json:"side"`
	AmountCrypto float64 `json:"amount_crypto"`
	AmountFiat   float64 `json:"amount_fiat"`
}

type InitializePaymentArgs struct {
	CustomerEmail string  `json:"customer_email"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency,omitempty"`
	CallbackURL   string  `json:"callback_url,omitempty"`
}

type VerifyPaymentArgs struct {
	Reference string `json:"reference"`
}

type TextSearchArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type ImageSearchArgs struct {
	ImageURL string `json:"image_url,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type toolSpec struct {
	description string
	schemaJSON  string
	schema      *jsonschema.Schema
	newArgs     func() interface{}
}

var registry = map[ToolKind]*toolSpec{
	ToolGetWeather: {
		description: "Get the current temperature for a specific geographic location using latitude and longitude",
		schemaJSON: `{
			"type": "object",
			"properties": {
				"latitude": {"type": "number", "description": "Latitude of the location"},
				"longitude": {"type": "number", "description": "Longitude of the location"}
			},
			"required": ["latitude", "longitude"],
			"additionalProperties": false
		}`,
		newArgs: func() interface{} { return &WeatherArgs{} },
	},
	ToolGetExchangeRate: {
		description: "Get the exchange rate and metadata for a specific currency pair",
		schemaJSON: `{
			"type": "object",
			"properties": {
				"local_currency": {"type": "string", "description": "The base currency code (e.g., 'USD')"},
				"foreign_currency": {"type": "string", "description": "The target currency code (e.g., 'EUR')"}
			},
			"required": ["local_currency", "foreign_currency"],
			"additionalProperties": false
		}`,
		newArgs: func() interface{} { return &ExchangeRateArgs{} },
	},
	ToolGetProducts: {
		description: "Get the list of products for the current user's business",
		schemaJSON: `{
			"type": "object",
			"properties": {},
			"required": [],
			"additionalProperties": false
		}`,
		newArgs: func() interface{} { return &ProductsArgs{} },
	},
	ToolGetRate: {
		description: "Create a quote for a crypto-fiat pair using the VAULTA API",
		schemaJSON: `{
			"type": "object",
			"properties": {
				"pair": {"type": "string", "description": "Trading instrument pair (e.g., 'BTC-GHS')"},
				"side": {"type": "string", "enum": ["buy", "sell"], "description": "Order side, either 'buy' or 'sell'"},
				"amount_crypto": {"type": "number", "description": "Amount of base cryptocurrency"},
				"amount_fiat": {"type": "number", "description": "Amount of quote currency"}
			},
			"required": ["pair", "side", "amount_crypto", "amount_fiat"],
			"additionalProperties": false
		}`,
		newArgs: func() interface{} { return &RateArgs{} },
	},
	ToolInitializePayment: {
		description: "Initialize a Paystack payment transaction. Amount should be provided in major currency units (e.g., GHS). Returns authorization URL and transaction reference.",
		schemaJSON: `{
			"type": "object",
			"properties": {
				"customer_email": {"type": "string", "description": "The customer's actual email address. Ask them for it if not known."},
				"amount": {"type": "number", "exclusiveMinimum": 0, "description": "Amount in major units (e.g., 10.50 for GHS 10.50)"},
				"currency": {"type": "string", "description": "Currency code (default: GHS)"},
				"callback_url": {"type": "string", "description": "Optional callback URL for Paystack redirect"}
			},
			"required": ["customer_email", "amount"],
			"additionalProperties": false
		}`,
		newArgs: func() interface{} { return &InitializePaymentArgs{} },
	},
	ToolVerifyPayment: {
		description: "Verify a Paystack transaction using its reference. Returns transaction status, metadata, and payment details.",
		schemaJSON: `{
			"type": "object",
			"properties": {
				"reference": {"type": "string", "minLength": 1, "description": "The Paystack transaction reference to verify"}
			},
			"required": ["reference"],
			"additionalProperties": false
		}`,
		newArgs: func() interface{} { return &VerifyPaymentArgs{} },
	},
	ToolSearchSimilarProducts: {
		description: "Search for products that are visually or semantically similar to a text description. Use when a customer describes what they're looking for or wants to find products similar to something.",
		schemaJSON: `{
			"type": "object",
			"properties": {
				"query": {"type": "string", "minLength": 1, "description": "Text description of what the user is looking for (e.g., 'red sneakers', 'leather handbag', 'gold necklace')"},
				"limit": {"type": "integer", "minimum": 1, "description": "Maximum number of results to return (default 5)"}
			},
			"required": ["query"],
			"additionalProperties": false
		}`,
		newArgs: func() interface{} { return &TextSearchArgs{} },
	},
	ToolSearchByImage: {
		description: "Search for products visually similar to an image the customer shared. Use when a customer uploads an image and wants to find matching products.",
		schemaJSON: `{
			"type": "object",
			"properties": {
				"image_url": {"type": "string", "description": "Publicly accessible URL of the image to search with. Omit when the customer attached the image directly."},
				"limit": {"type": "integer", "minimum": 1, "description": "Maximum number of results to return (default 5)"}
			},
			"required": [],
			"additionalProperties": false
		}`,
		newArgs: func() interface{} { return &ImageSearchArgs{} },
	},
}

func init() {
	for kind, spec := range registry {
		spec.schema = jsonschema.MustCompileString(string(kind)+".json", spec.schemaJSON)
	}
}

// ToolDefinitions returns the tool list advertised to the model
func ToolDefinitions() []openai.Tool {
	// Stable order so prompts are reproducible
	kinds := []ToolKind{
		ToolGetWeather,
		ToolGetExchangeRate,
		ToolGetProducts,
		ToolGetRate,
		ToolInitializePayment,
		ToolVerifyPayment,
		ToolSearchSimilarProducts,
		ToolSearchByImage,
	}

	tools := make([]openai.Tool, 0, len(kinds))
	for _, kind := range kinds {
		spec := registry[kind]
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        string(kind),
				Description: spec.description,
				Parameters:  json.RawMessage(spec.schemaJSON),
			},
		})
	}
	return tools
}

// DecodeArgs validates raw model-produced arguments against the tool's schema
// and decodes them into the tool's typed argument struct. Unknown tools and
// schema violations are rejected.
func DecodeArgs(kind ToolKind, raw string) (interface{}, error) {
	spec, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", kind)
	}

	if raw == "" {
		raw = "{}"
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("tool %s: arguments are not valid JSON: %w", kind, err)
	}
	if err := spec.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("tool %s: invalid arguments: %w", kind, err)
	}

	args := spec.newArgs()
	if err := json.Unmarshal([]byte(raw), args); err != nil {
		return nil, fmt.Errorf("tool %s: failed to decode arguments: %w", kind, err)
	}
	return args, nil
}
