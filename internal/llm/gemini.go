package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"codelens/internal/logger"

	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned before any client is built when no Gemini
// credential is configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY environment variable is not defined")

const defaultModel = "gemini-2.5-flash"

// Feedback is the structured review returned by the model.
type Feedback struct {
	Score            int      `json:"score"`
	SyntaxErrors     []string `json:"syntax_errors"`
	LogicFlaws       []string `json:"logic_flaws"`
	OptimizationTips []string `json:"optimization_tips"`
}

// Reviewer produces structured feedback for a piece of code.
type Reviewer interface {
	Review(ctx context.Context, code, language string) (*Feedback, error)
}

// GenerativeClient abstracts the Gemini generative AI client for testability.
type GenerativeClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ClientFactory creates a GenerativeClient. Tests inject a factory that
// returns a fake.
type ClientFactory func(ctx context.Context, apiKey string) (GenerativeClient, error)

type genaiClient struct {
	inner *genai.Client
}

func (g *genaiClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.inner.Models.GenerateContent(ctx, model, contents, config)
}

// DefaultClientFactory creates a real Gemini API client.
func DefaultClientFactory(ctx context.Context, apiKey string) (GenerativeClient, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &genaiClient{inner: c}, nil
}

// GeminiClient implements Reviewer on top of the Gemini API.
type GeminiClient struct {
	apiKey  string
	model   string
	timeout time.Duration
	factory ClientFactory
}

// NewGeminiClient creates a GeminiClient. An empty apiKey is accepted here
// and reported by Review, so a server can start without a credential.
func NewGeminiClient(apiKey, model string, timeout time.Duration, factory ClientFactory) *GeminiClient {
	if model == "" {
		model = defaultModel
	}
	if factory == nil {
		factory = DefaultClientFactory
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		factory: factory,
	}
}

// Model reports the model name requests are sent to.
func (c *GeminiClient) Model() string {
	return c.model
}

// Review sends one request per call. Identical code is re-evaluated every
// time and failures are not retried.
func (c *GeminiClient) Review(ctx context.Context, code, language string) (*Feedback, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	log := logger.FromContext(ctx)
	start := time.Now()

	client, err := c.factory(ctx, c.apiKey)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(BuildSystemInstruction(language), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    feedbackSchema(),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(BuildUserPrompt(language, code), genai.RoleUser),
	}

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	log.Debug("sending review request", "model", c.model, "language", language, "code_bytes", len(code))
	resp, err := client.GenerateContent(reqCtx, c.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}

	text, err := extractText(resp)
	if err != nil {
		return nil, err
	}

	feedback, err := ParseFeedback(text)
	if err != nil {
		return nil, err
	}

	log.Info("review generated",
		"model", c.model,
		"language", language,
		"score", feedback.Score,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return feedback, nil
}

// ParseFeedback extracts the JSON object from raw model text and normalises
// it: nil lists become empty, fractional scores are rounded and the score is
// clamped to 0..100.
func ParseFeedback(text string) (*Feedback, error) {
	raw, err := ExtractJSONObject(strings.TrimSpace(text))
	if err != nil {
		return nil, err
	}

	var wire struct {
		Score            *json.Number `json:"score"`
		SyntaxErrors     []string     `json:"syntax_errors"`
		LogicFlaws       []string     `json:"logic_flaws"`
		OptimizationTips []string     `json:"optimization_tips"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if wire.Score == nil {
		return nil, fmt.Errorf("%w: missing score", ErrMalformedJSON)
	}
	score, err := wire.Score.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: score: %v", ErrMalformedJSON, err)
	}

	return &Feedback{
		Score:            clampScore(score),
		SyntaxErrors:     nonNil(wire.SyntaxErrors),
		LogicFlaws:       nonNil(wire.LogicFlaws),
		OptimizationTips: nonNil(wire.OptimizationTips),
	}, nil
}

func clampScore(score float64) int {
	s := int(math.Round(score))
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// extractText joins the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("empty response from Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content parts in response")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("empty text in response")
	}
	return sb.String(), nil
}

func feedbackSchema() *genai.Schema {
	list := func(desc string) *genai.Schema {
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: desc,
			Items:       &genai.Schema{Type: genai.TypeString},
		}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"syntax_errors":     list("Syntax errors, one per entry"),
			"logic_flaws":       list("Logic flaws, one per entry"),
			"optimization_tips": list("Optimization tips, one per entry"),
			"score":             {Type: genai.TypeInteger, Description: "Overall score from 0 to 100"},
		},
		Required:         []string{"syntax_errors", "logic_flaws", "optimization_tips", "score"},
		PropertyOrdering: []string{"syntax_errors", "logic_flaws", "optimization_tips", "score"},
	}
}
