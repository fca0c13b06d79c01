package rulestore

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/intersect/anzard/pkg/cqv"
	"github.com/intersect/anzard/pkg/logger"
	"github.com/intersect/anzard/pkg/survey"
)

// Source loads and saves rule sets. *Store is the production Source.
type Source interface {
	Save(ctx context.Context, repo *cqv.Repository) error
	Load(ctx context.Context, catalog *survey.Survey) (*cqv.Repository, error)
}

// Cached keeps recently used rule repositories in memory, keyed by survey
// id. Concurrent loads of the same survey share one query. Cached
// repositories are shared between callers and must not be mutated.
type Cached struct {
	src   Source
	log   *slog.Logger
	cache *lru[int64, *cqv.Repository]
	group singleflight.Group
}

type CachedOption func(*Cached)

// WithLogger sets the logger used for cache events.
func WithLogger(l *slog.Logger) CachedOption {
	return func(c *Cached) {
		if l != nil {
			c.log = l
		}
	}
}

// NewCached wraps src with an LRU of the given size. It panics when size
// is not positive.
func NewCached(src Source, size int, opts ...CachedOption) *Cached {
	c := &Cached{src: src, log: logger.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = newLRU(size, func(id int64, _ *cqv.Repository) {
		c.log.Debug("rule set evicted", logger.SurveyID(id))
	})
	return c
}

// Load returns the cached repository for catalog.ID or loads it from the
// source.
func (c *Cached) Load(ctx context.Context, catalog *survey.Survey) (*cqv.Repository, error) {
	if repo, ok := c.cache.Get(catalog.ID); ok {
		return repo, nil
	}

	v, err, _ := c.group.Do(strconv.FormatInt(catalog.ID, 10), func() (any, error) {
		repo, err := c.src.Load(ctx, catalog)
		if err != nil {
			return nil, err
		}
		c.cache.Put(catalog.ID, repo)
		c.log.DebugContext(ctx, "rule set loaded",
			logger.SurveyID(catalog.ID),
			logger.Count("rules", repo.Len()),
		)
		return repo, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*cqv.Repository), nil
}

// Save writes through to the source and drops the cached entry.
func (c *Cached) Save(ctx context.Context, repo *cqv.Repository) error {
	if err := c.src.Save(ctx, repo); err != nil {
		return err
	}
	if catalog := repo.Catalog(); catalog != nil {
		c.Invalidate(catalog.ID)
	}
	return nil
}

// Invalidate drops the cached repository of one survey.
func (c *Cached) Invalidate(surveyID int64) {
	c.cache.Remove(surveyID)
}

// Len is the number of cached rule sets.
func (c *Cached) Len() int {
	return c.cache.Len()
}
