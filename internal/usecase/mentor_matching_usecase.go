package usecase

import (
	"context"
	"runtime"
	"strings"
	"time"

	"alumni-connect/internal/config"
	"alumni-connect/internal/domain/matching"
	"alumni-connect/internal/domain/profile"
	"alumni-connect/internal/metrics"
	"alumni-connect/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	maxRequesterSkills = 50
	maxSkillLength     = 100
)

type MatchInput struct {
	Skills  []string
	Filters matching.Filters
	TopN    int
}

type MentorMatchingUsecase interface {
	FindTopMentors(ctx context.Context, in MatchInput) ([]matching.Result, error)
}

type MentorMatching struct {
	profiles repository.ProfileRepository
	cache    MentorPoolCache
	cfg      config.MatchingConfig
	metrics  *metrics.Manager
	logger   *zap.Logger
}

func NewMentorMatchingUsecase(profiles repository.ProfileRepository, cache MentorPoolCache, cfg config.MatchingConfig, m *metrics.Manager, logger *zap.Logger) *MentorMatching {
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = 20
	}
	if cfg.MaxTopN < cfg.DefaultTopN {
		cfg.MaxTopN = cfg.DefaultTopN
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MentorMatching{profiles: profiles, cache: cache, cfg: cfg, metrics: m, logger: logger}
}

func (u *MentorMatching) FindTopMentors(ctx context.Context, in MatchInput) ([]matching.Result, error) {
	start := time.Now()

	topN, err := u.resolveTopN(in)
	if err != nil {
		u.metrics.ObserveMatching("invalid", -1, time.Since(start))
		return nil, err
	}

	pool, err := u.loadPool(ctx)
	if err != nil {
		u.metrics.ObserveMatching("error", -1, time.Since(start))
		return nil, err
	}

	q := matching.NewQuery(in.Skills, in.Filters)
	results, err := u.evaluate(ctx, q, pool)
	if err != nil {
		u.metrics.ObserveMatching("error", len(pool), time.Since(start))
		return nil, err
	}

	out := matching.Rank(results, topN)
	u.metrics.ObserveMatching("ok", len(pool), time.Since(start))
	return out, nil
}

func (u *MentorMatching) resolveTopN(in MatchInput) (int, error) {
	if in.TopN < 0 || len(in.Skills) > maxRequesterSkills {
		return 0, ErrInvalidInput
	}
	for _, s := range in.Skills {
		if len(strings.TrimSpace(s)) > maxSkillLength {
			return 0, ErrInvalidInput
		}
	}
	switch {
	case in.TopN == 0:
		return u.cfg.DefaultTopN, nil
	case in.TopN > u.cfg.MaxTopN:
		return u.cfg.MaxTopN, nil
	default:
		return in.TopN, nil
	}
}

func (u *MentorMatching) loadPool(ctx context.Context) ([]profile.Profile, error) {
	if u.cache != nil {
		var cached []profile.Profile
		hit, err := u.cache.GetJSON(ctx, MentorPoolCacheKey, &cached)
		if err != nil {
			u.logger.Debug("mentor pool cache read failed", zap.Error(err))
		}
		if hit {
			return cached, nil
		}
	}

	pool, err := u.profiles.ListMentorCandidates(ctx)
	if err != nil {
		return nil, storeError(err)
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, MentorPoolCacheKey, pool, 0); err != nil {
			u.logger.Debug("mentor pool cache write failed", zap.Error(err))
		}
	}
	return pool, nil
}

// evaluate scores the pool, splitting large pools across goroutines. Each
// worker owns a disjoint index range, and survivors are compacted in pool
// order so the stable sort behaves exactly like the sequential path.
func (u *MentorMatching) evaluate(ctx context.Context, q matching.Query, pool []profile.Profile) ([]matching.Result, error) {
	if u.cfg.ParallelThreshold <= 0 || len(pool) < u.cfg.ParallelThreshold {
		out := make([]matching.Result, 0, len(pool))
		for _, c := range pool {
			if r, ok := q.Evaluate(c); ok {
				out = append(out, r)
			}
		}
		return out, nil
	}

	results := make([]matching.Result, len(pool))
	keep := make([]bool, len(pool))

	workers := runtime.GOMAXPROCS(0)
	chunk := (len(pool) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(pool); lo += chunk {
		hi := min(lo+chunk, len(pool))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if i%256 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				results[i], keep[i] = q.Evaluate(pool[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]matching.Result, 0, len(pool))
	for i, ok := range keep {
		if ok {
			out = append(out, results[i])
		}
	}
	return out, nil
}
