package gemini

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zmcomputers/storefront/internal/domain/entity"
)

const (
	MaintenanceMessage = "I am currently in maintenance mode. Please contact our support team for immediate wholesale assistance."
	FallbackMessage    = "I'm sorry, I'm having trouble connecting to my database. Please contact our wholesale team directly for immediate assistance."

	// placeholderKey what unset build-time variables render as
	placeholderKey = "undefined"

	DefaultTimeout = 20 * time.Second
)

// Options advisor gateway settings
type Options struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Gateway mediates every call to the hosted assistant. It never returns an
// error: missing credentials and request failures both resolve to fixed text.
type Gateway struct {
	configured bool
	gen        Generator
	timeout    time.Duration
	log        logrus.FieldLogger
}

// HasCredential reports whether key looks like a real credential
func HasCredential(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != placeholderKey
}

// NewGateway gateway over an explicit generator. gen may be nil when the
// credential is absent.
func NewGateway(apiKey string, gen Generator, timeout time.Duration, log logrus.FieldLogger) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{
		configured: HasCredential(apiKey) && gen != nil,
		gen:        gen,
		timeout:    timeout,
		log:        log.WithField("component", "advisor"),
	}
}

// New builds the Gemini client only when a credential is configured, so an
// unconfigured gateway never opens a connection.
func New(ctx context.Context, opts Options, log logrus.FieldLogger) (*Gateway, error) {
	var gen Generator
	if HasCredential(opts.APIKey) {
		client, err := NewGeminiClient(ctx, opts.APIKey, opts.Model, opts.Temperature)
		if err != nil {
			return nil, err
		}
		gen = client
	} else {
		log.Warn("Gemini API key is missing, advisor runs in maintenance mode")
	}
	return NewGateway(opts.APIKey, gen, opts.Timeout, log), nil
}

// GetAdvice answer text for prompt
func (g *Gateway) GetAdvice(ctx context.Context, prompt string) string {
	return g.Advise(ctx, prompt).Text
}

// Advise answer text with the way it was produced
func (g *Gateway) Advise(ctx context.Context, prompt string) (advice entity.Advice) {
	if !g.configured {
		g.log.Warn("advisor credential not configured")
		return entity.Advice{Text: MaintenanceMessage, Outcome: entity.AdviceUnconfigured}
	}

	defer func() {
		if r := recover(); r != nil {
			g.log.WithField("panic", fmt.Sprint(r)).Error("advisor request panicked")
			advice = entity.Advice{Text: FallbackMessage, Outcome: entity.AdviceFailed}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		g.log.WithError(err).WithField("elapsed", time.Since(start)).Error("advisor request failed")
		return entity.Advice{Text: FallbackMessage, Outcome: entity.AdviceFailed}
	}

	g.log.WithField("elapsed", time.Since(start)).Debug("advisor answered")
	return entity.Advice{Text: text, Outcome: entity.AdviceAnswered}
}

// Close releases the generator when it holds a connection
func (g *Gateway) Close() error {
	if c, ok := g.gen.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
