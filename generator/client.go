// Package generator drafts legislative documents through an external
// text-generation service. The service is an opaque text transform: its
// output is returned verbatim and never validated.
package generator

import (
	"context"
	"time"

	"gabinete-digital/metrics"
	"gabinete-digital/models"

	"go.uber.org/zap"
)

const (
	DefaultModel               = "llama-3.3-70b-versatile"
	DefaultDraftTemperature    = 0.3
	DefaultRevisionTemperature = 0.5
	DefaultMunicipality        = "Espumoso/RS"

	credentialSetting = "GROQ_API_KEY"
)

type Config struct {
	APIKey              string
	Model               string
	DraftTemperature    float64
	RevisionTemperature float64
	Municipality        string
}

type Client struct {
	cfg       Config
	completer Completer
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewClient(cfg Config, completer Completer, m *metrics.Metrics, logger *zap.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Municipality == "" {
		cfg.Municipality = DefaultMunicipality
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:       cfg,
		completer: completer,
		metrics:   m,
		logger:    logger.With(zap.String("component", "generator")),
	}
}

// GenerateDraft writes the first version of a document.
func (c *Client) GenerateDraft(ctx context.Context, author string, docType models.DocumentType, subject string) (string, error) {
	prompt := BuildDraftPrompt(c.cfg.Municipality, author, docType, subject)
	return c.complete(ctx, "draft", c.cfg.DraftTemperature, prompt)
}

// ReviseDraft rewrites priorText following instruction.
func (c *Client) ReviseDraft(ctx context.Context, priorText, instruction, author string, docType models.DocumentType) (string, error) {
	prompt := BuildRevisionPrompt(c.cfg.Municipality, author, docType, priorText, instruction)
	return c.complete(ctx, "revision", c.cfg.RevisionTemperature, prompt)
}

func (c *Client) complete(ctx context.Context, kind string, temperature float64, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		c.metrics.RecordGeneration(kind, "unconfigured", 0)
		return "", &models.ErrorConfiguration{
			Setting: credentialSetting,
			Message: "text-generation credential is not configured",
		}
	}

	start := time.Now()
	text, err := c.completer.Complete(ctx, Completion{
		Model:       c.cfg.Model,
		Temperature: temperature,
		Prompt:      prompt,
	})
	duration := time.Since(start)
	c.metrics.RecordGeneration(kind, metrics.StatusLabel(err), duration)

	if err != nil {
		c.logger.Error("generation call failed",
			zap.String("kind", kind),
			zap.String("model", c.cfg.Model),
			zap.Duration("duration", duration),
			zap.Error(err))
		return "", &models.ErrorService{Op: kind, Err: err}
	}

	c.logger.Debug("generation call completed",
		zap.String("kind", kind),
		zap.Duration("duration", duration),
		zap.Int("chars", len(text)))
	return text, nil
}
