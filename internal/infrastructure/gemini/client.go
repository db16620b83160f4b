package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	DefaultModel = "gemini-3-flash-preview"

	maxInFlight     = 3
	minRequestDelay = 350 * time.Millisecond
)

// SystemInstruction advisor persona sent with every request
const SystemInstruction = `You are the ZM Computers AI Advisor for wholesale computer hardware.
You help bulk purchasers with enterprise workstation deployments and high-end gaming laptops.
Keep answers concise, professional and knowledgeable, in a sophisticated tone.`

// ErrEmptyResponse the model answered without any text
var ErrEmptyResponse = errors.New("gemini returned no text")

// Generator sends one prompt to the language model
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type geminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	sem    chan struct{}
	mu     sync.Mutex
	last   time.Time
	delay  time.Duration
}

// NewGeminiClient Gemini-backed Generator
func NewGeminiClient(ctx context.Context, apiKey, modelName string, temperature float32) (Generator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemInstruction)},
	}

	return &geminiClient{
		client: client,
		model:  model,
		sem:    make(chan struct{}, maxInFlight),
		delay:  minRequestDelay,
	}, nil
}

// Generate single-turn request, prompt as user content
func (g *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	release, err := g.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				result.WriteString(string(text))
			}
		}
	}
	return result.String()
}

// acquire waits for a free slot and the minimum spacing between requests
func (g *geminiClient) acquire(ctx context.Context) (func(), error) {
	select {
	case g.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if !g.last.IsZero() {
		if wait := g.delay - now.Sub(g.last); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				<-g.sem
				return nil, ctx.Err()
			}
			now = time.Now()
		}
	}
	g.last = now

	return func() { <-g.sem }, nil
}

// Close releases the underlying connection
func (g *geminiClient) Close() error {
	return g.client.Close()
}
