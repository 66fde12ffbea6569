package roadmap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/devpath/internal/llm"
)

// Config controls generation requests.
type Config struct {
	RoadmapMaxTokens   int
	ChallengeMaxTokens int
	Temperature        float64
	TopP               float64
	TopK               int

	// Timeout bounds one generation including every retry. Zero means no
	// bound beyond the caller's context.
	Timeout time.Duration
}

// DefaultConfig returns the sampling settings roadmaps were tuned with.
func DefaultConfig() Config {
	return Config{
		RoadmapMaxTokens:   8192,
		ChallengeMaxTokens: 4096,
		Temperature:        1,
		TopP:               0.95,
		TopK:               40,
		Timeout:            2 * time.Minute,
	}
}

// Client generates roadmaps and challenge sets through an llm.Provider.
// The provider is expected to carry the retry decorator; Client attaches
// the validators that decide whether an attempt counts as a success.
type Client struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger
}

// NewClient creates a Client.
func NewClient(provider llm.Provider, cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{provider: provider, config: cfg, logger: logger}
}

// GenerateRoadmap asks for a roadmap towards goal. The result is already
// normalized: every item is uncompleted.
func (c *Client) GenerateRoadmap(ctx context.Context, goal string) (*Roadmap, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, &ValidationError{Field: "goal"}
	}

	ctx, cancel, requestID := c.begin(ctx, PurposeRoadmap)
	defer cancel()

	req := llm.Request{
		System:      roadmapSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildRoadmapMessage(goal)}},
		Schema:      RoadmapSchema,
		MaxTokens:   c.config.RoadmapMaxTokens,
		Temperature: c.config.Temperature,
		TopP:        c.config.TopP,
		TopK:        c.config.TopK,
		Validate: func(content json.RawMessage) error {
			_, err := Normalize(content)
			return err
		},
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate roadmap: %w", err)
	}

	r, err := Normalize(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("generate roadmap: %w", err)
	}

	_, total := r.Counts()
	c.logger.Info("roadmap generated",
		zap.String("request_id", requestID),
		zap.String("goal", goal),
		zap.Int("stages", len(r.Stages)),
		zap.Int("items", total))
	return r, nil
}

// GenerateChallenges asks for practice projects for one technology.
func (c *Client) GenerateChallenges(ctx context.Context, tech string) (*ChallengeSet, error) {
	tech = strings.TrimSpace(tech)
	if tech == "" {
		return nil, &ValidationError{Field: "techName"}
	}

	ctx, cancel, requestID := c.begin(ctx, PurposeChallenges)
	defer cancel()

	req := llm.Request{
		System:      challengeSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildChallengeMessage(tech)}},
		Schema:      ChallengeSchema,
		MaxTokens:   c.config.ChallengeMaxTokens,
		Temperature: c.config.Temperature,
		TopP:        c.config.TopP,
		TopK:        c.config.TopK,
		Validate: func(content json.RawMessage) error {
			_, err := ParseChallenges(content)
			return err
		},
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate challenges: %w", err)
	}

	cs, err := ParseChallenges(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("generate challenges: %w", err)
	}

	c.logger.Info("challenges generated",
		zap.String("request_id", requestID),
		zap.String("tech", tech),
		zap.Int("projects", len(cs.Projects)))
	return cs, nil
}

// begin tags ctx with purpose and a fresh request id and applies the
// configured timeout.
func (c *Client) begin(ctx context.Context, purpose string) (context.Context, context.CancelFunc, string) {
	requestID := uuid.NewString()
	ctx = llm.WithRequestID(llm.WithPurpose(ctx, purpose), requestID)
	if c.config.Timeout <= 0 {
		ctx, cancel := context.WithCancel(ctx)
		return ctx, cancel, requestID
	}
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	return ctx, cancel, requestID
}
