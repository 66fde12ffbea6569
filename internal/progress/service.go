package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/devpath/internal/roadmap"
	"github.com/abhisek/devpath/internal/store"
)

// Generator produces roadmaps and challenge sets.
type Generator interface {
	GenerateRoadmap(ctx context.Context, goal string) (*roadmap.Roadmap, error)
	GenerateChallenges(ctx context.Context, tech string) (*roadmap.ChallengeSet, error)
}

// sharedGenerationTimeout bounds a challenge generation shared by
// concurrent callers.
const sharedGenerationTimeout = 3 * time.Minute

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for streaks and history.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service owns the live state and applies transitions one at a time,
// persisting both documents after each one.
type Service struct {
	repo   store.ProgressRepo
	cache  store.ChallengeCache
	gen    Generator
	logger *zap.Logger
	now    func() time.Time

	flight singleflight.Group

	mu     sync.Mutex
	state  State
	loaded bool
}

// NewService creates a Service. gen may be nil, in which case generation
// returns ErrGenerationUnavailable.
func NewService(repo store.ProgressRepo, cache store.ChallengeCache, gen Generator, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repo:   repo,
		cache:  cache,
		gen:    gen,
		logger: logger,
		now:    time.Now,
		state:  NewState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted state. Missing documents yield an empty
// roadmap slot and a fresh profile.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Service) loadLocked(ctx context.Context) error {
	rawRoadmap, rawProfile, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}

	st := NewState()
	if rawRoadmap != nil {
		var r roadmap.Roadmap
		if err := json.Unmarshal(rawRoadmap, &r); err != nil {
			return fmt.Errorf("decode stored roadmap: %w", err)
		}
		st.Roadmap = &r
	}
	if rawProfile != nil {
		var p Profile
		if err := json.Unmarshal(rawProfile, &p); err != nil {
			return fmt.Errorf("decode stored profile: %w", err)
		}
		st.Profile = p.sanitize()
	}

	s.state = st
	s.loaded = true
	return nil
}

func (s *Service) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.loadLocked(ctx)
}

// State returns a copy of the live state.
func (s *Service) State(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return State{}, err
	}
	return s.state.Clone(), nil
}

// Snapshot returns the derived view of the live state.
func (s *Service) Snapshot(ctx context.Context, hoursPerWeek int) (Snapshot, error) {
	st, err := s.State(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return TakeSnapshot(st, hoursPerWeek), nil
}

// apply runs one transition and persists the result. When persisting
// fails the in-memory state keeps the transition and *SaveError is
// returned along with the notifications.
func (s *Service) apply(ctx context.Context, ev Event) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	next, notes, err := Apply(s.state, ev, s.now())
	if err != nil {
		return nil, err
	}
	s.state = next

	for _, n := range notes {
		s.logger.Info("notification",
			zap.String("title", n.Title()),
			zap.Int("xp", n.XP()))
	}

	if err := s.persistLocked(ctx); err != nil {
		s.logger.Error("progress could not be saved", zap.Error(err))
		return notes, &SaveError{Err: err}
	}
	return notes, nil
}

func (s *Service) persistLocked(ctx context.Context) error {
	var rawRoadmap []byte
	if s.state.Roadmap != nil {
		b, err := json.Marshal(s.state.Roadmap)
		if err != nil {
			return fmt.Errorf("encode roadmap: %w", err)
		}
		rawRoadmap = b
	}
	rawProfile, err := json.Marshal(s.state.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.repo.SaveProgress(ctx, rawRoadmap, rawProfile)
}

// CheckIn evaluates the daily streak.
func (s *Service) CheckIn(ctx context.Context) ([]Notification, error) {
	return s.apply(ctx, CheckStreak{})
}

// Toggle flips one item. Indices are zero-based.
func (s *Service) Toggle(ctx context.Context, stage, item int) ([]Notification, error) {
	return s.apply(ctx, ToggleItem{Stage: stage, Item: item})
}

// GenerateRoadmap generates a roadmap for goal and makes it the live one.
// The provider call happens outside the state lock; on failure nothing
// changes.
func (s *Service) GenerateRoadmap(ctx context.Context, goal string) (*roadmap.Roadmap, []Notification, error) {
	if strings.TrimSpace(goal) == "" {
		return nil, nil, &roadmap.ValidationError{Field: "goal"}
	}
	if s.gen == nil {
		return nil, nil, ErrGenerationUnavailable
	}

	r, err := s.gen.GenerateRoadmap(ctx, goal)
	if err != nil {
		return nil, nil, err
	}

	notes, err := s.apply(ctx, ReplaceRoadmap{Roadmap: r})
	return r, notes, err
}

// Challenges returns practice projects for tech, serving from the cache
// when possible. Concurrent requests for the same technology share one
// generation.
func (s *Service) Challenges(ctx context.Context, tech string) (*roadmap.ChallengeSet, bool, error) {
	tech = strings.TrimSpace(tech)
	if tech == "" {
		return nil, false, &roadmap.ValidationError{Field: "techName"}
	}

	if cached, err := s.cache.Get(ctx, tech); err != nil {
		s.logger.Warn("challenge cache read failed", zap.String("tech", tech), zap.Error(err))
	} else if cached != nil {
		cs, perr := roadmap.ParseChallenges(cached)
		if perr == nil {
			return cs, true, nil
		}
		s.logger.Warn("discarding unreadable cached challenges", zap.String("tech", tech), zap.Error(perr))
	}

	if s.gen == nil {
		return nil, false, ErrGenerationUnavailable
	}

	// The shared call outlives any single caller; each caller stops
	// waiting when its own context ends.
	ch := s.flight.DoChan(store.ChallengeKey(tech), func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedGenerationTimeout)
		defer cancel()
		cs, err := s.gen.GenerateChallenges(flightCtx, tech)
		if err != nil {
			return nil, err
		}
		if doc, merr := json.Marshal(cs); merr == nil {
			if perr := s.cache.Put(flightCtx, tech, doc); perr != nil {
				s.logger.Warn("challenge cache write failed", zap.String("tech", tech), zap.Error(perr))
			}
		}
		return cs, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*roadmap.ChallengeSet), false, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// Estimate re-estimates the live roadmap's duration for hoursPerWeek.
func (s *Service) Estimate(ctx context.Context, hoursPerWeek int) (roadmap.Estimate, error) {
	st, err := s.State(ctx)
	if err != nil {
		return roadmap.Estimate{}, err
	}
	if st.Roadmap == nil {
		return roadmap.Estimate{}, ErrNoRoadmap
	}
	return roadmap.Recalc(st.Roadmap.TotalEstimatedDuration, hoursPerWeek), nil
}

// Reset discards the roadmap. With all set the profile and the challenge
// cache are discarded as well.
func (s *Service) Reset(ctx context.Context, all bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	if all {
		if err := s.repo.ClearAll(ctx); err != nil {
			return &SaveError{Err: err}
		}
		s.state = NewState()
	} else {
		if err := s.repo.ClearRoadmap(ctx); err != nil {
			return &SaveError{Err: err}
		}
		s.state.Roadmap = nil
	}

	s.logger.Info("progress reset", zap.Bool("all", all))
	return nil
}
