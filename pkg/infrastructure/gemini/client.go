package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
)

// ErrNoAPIKey is returned when the client was built without credentials
var ErrNoAPIKey = errors.New("gemini: api key not configured")

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Breaker CircuitBreakerConfig
}

// Client calls the generateContent endpoint through a circuit breaker. There are no retries.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	breaker    *CircuitBreaker
}

func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    NewCircuitBreaker(cfg.Breaker),
	}
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// BreakerState exposes the breaker state for health reporting
func (c *Client) BreakerState() CBState {
	return c.breaker.State()
}

// Schema is the subset of the response schema used for structured output
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateText sends a single prompt and returns the concatenated text of the first candidate.
// When schema is set the model is asked for JSON matching it.
func (c *Client) GenerateText(ctx context.Context, prompt string, schema *Schema) (string, error) {
	if !c.Configured() {
		return "", ErrNoAPIKey
	}

	reqBody := generateRequest{Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}}}
	if schema != nil {
		reqBody.GenerationConfig = &generationConfig{ResponseMimeType: "application/json", ResponseSchema: schema}
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	var text string
	err = c.breaker.Execute(func() error {
		var callErr error
		text, callErr = c.do(ctx, body)
		return callErr
	})
	return text, err
}

func (c *Client) do(ctx context.Context, body []byte) (string, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: returned %d", resp.StatusCode)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
