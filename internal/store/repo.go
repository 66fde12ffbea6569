package store

import (
	"context"
	"strings"
	"time"
	"unicode"
)

// Document keys. The roadmap and profile are the only two progress
// documents; challenge sets are cached one per technology.
const (
	KeyRoadmap         = "devpath_roadmap"
	KeyProfile         = "devpath_profile"
	challengeKeyPrefix = "devpath_challenges_"
)

// ChallengeKey returns the cache key for a technology name. The name is
// lower-cased and stripped of all whitespace, so "Node JS" and "nodejs"
// share an entry.
func ChallengeKey(techName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(techName) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return challengeKeyPrefix + b.String()
}

// ProgressRepo persists the serialized roadmap and user profile.
type ProgressRepo interface {
	// Load returns the raw roadmap and profile documents. A missing
	// document is returned as nil without error.
	Load(ctx context.Context) (roadmap, profile []byte, err error)

	// SaveProgress writes both documents in one transaction. A nil
	// roadmap deletes the stored roadmap.
	SaveProgress(ctx context.Context, roadmap, profile []byte) error

	// ClearRoadmap removes the stored roadmap, keeping the profile.
	ClearRoadmap(ctx context.Context) error

	// ClearAll removes the roadmap, the profile and every cached
	// challenge set.
	ClearAll(ctx context.Context) error
}

// ChallengeCache stores previously generated challenge sets.
type ChallengeCache interface {
	// Get returns the cached document for techName, or nil if absent.
	Get(ctx context.Context, techName string) ([]byte, error)

	// Put stores the document for techName, replacing any previous one.
	Put(ctx context.Context, techName string, doc []byte) error
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match (empty = any)
	From    time.Time // timestamp >= From
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	RequestID    string
	Provider     string
	Model        string
	Purpose      string
	Attempt      int
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a persisted LLM request event.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates usage grouped by model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
