package crud

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"furrymatch-backend/pkg/cache"
)

// CachedRepository is a read-through cache over FindByID. Writes and
// deletes evict the cached row. Cache failures never fail a request.
type CachedRepository[E Entity[E]] struct {
	Repository[E]
	cache  cache.Cache
	prefix string
	ttl    time.Duration
	newFn  func() E
}

func NewCachedRepository[E Entity[E]](repo Repository[E], c cache.Cache, prefix string, ttl time.Duration, newFn func() E) *CachedRepository[E] {
	return &CachedRepository[E]{Repository: repo, cache: c, prefix: prefix, ttl: ttl, newFn: newFn}
}

func (r *CachedRepository[E]) key(id int64) string {
	return fmt.Sprintf("%s:%d", r.prefix, id)
}

func (r *CachedRepository[E]) FindByID(ctx context.Context, id int64) (E, error) {
	cached := r.newFn()
	found, err := r.cache.Get(ctx, r.key(id), cached)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", r.key(id)).Msg("[CACHE] get failed")
	}
	if found {
		return cached, nil
	}

	e, err := r.Repository.FindByID(ctx, id)
	if err != nil {
		return e, err
	}

	if err := r.cache.Set(ctx, r.key(id), e, r.ttl); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", r.key(id)).Msg("[CACHE] set failed")
	}
	return e, nil
}

// ExistsByID answers from the cache when the row is cached.
func (r *CachedRepository[E]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if found, err := r.cache.Get(ctx, r.key(id), r.newFn()); err == nil && found {
		return true, nil
	}
	return r.Repository.ExistsByID(ctx, id)
}

func (r *CachedRepository[E]) Update(ctx context.Context, e E) (E, error) {
	updated, err := r.Repository.Update(ctx, e)
	if id := e.GetID(); id != nil {
		r.evict(ctx, *id)
	}
	return updated, err
}

func (r *CachedRepository[E]) DeleteByID(ctx context.Context, id int64) error {
	err := r.Repository.DeleteByID(ctx, id)
	r.evict(ctx, id)
	return err
}

// EvictAll drops every cached row of this entity.
func (r *CachedRepository[E]) EvictAll(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, r.prefix+":*"); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("prefix", r.prefix).Msg("[CACHE] evict all failed")
	}
}

func (r *CachedRepository[E]) evict(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, r.key(id)); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", r.key(id)).Msg("[CACHE] evict failed")
	}
}
