package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/userauth/rbac-api/internal/core/domain"
	"github.com/userauth/rbac-api/internal/core/ports"
)

const (
	userListGenKey    = "users:list:gen"
	userListKeyPrefix = "users:list:"
	defaultCacheTTL   = time.Minute
)

// cachedUser omits the password hash; cached lists never carry credentials.
type cachedUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CachedUserRepository caches List results in Redis. Every successful write
// bumps a generation counter and lists are cached under the generation read
// before the store was queried, so a list loaded before a write can never be
// served after it. Redis failures degrade to the wrapped repository.
// Users returned from a cache hit have an empty PasswordHash.
type CachedUserRepository struct {
	ports.UserRepository
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger

	// stale is set when a write could not bump the generation. The cache is
	// bypassed until a later bump succeeds.
	stale atomic.Bool
}

// NewCachedUserRepository wraps next. A nil client disables caching.
func NewCachedUserRepository(next ports.UserRepository, client *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedUserRepository {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedUserRepository{UserRepository: next, client: client, ttl: ttl, log: log}
}

func (r *CachedUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	gen, ok := r.generation(ctx)
	if !ok {
		return r.UserRepository.List(ctx)
	}
	if users, hit := r.cachedList(ctx, gen); hit {
		return users, nil
	}

	users, err := r.UserRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	r.storeList(ctx, gen, users)
	return users, nil
}

func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	created, err := r.UserRepository.Create(ctx, user)
	if err == nil {
		r.invalidate(ctx)
	}
	return created, err
}

func (r *CachedUserRepository) Update(ctx context.Context, id uint, fields domain.UserUpdate) (*domain.User, error) {
	updated, err := r.UserRepository.Update(ctx, id, fields)
	if err == nil {
		r.invalidate(ctx)
	}
	return updated, err
}

func (r *CachedUserRepository) Delete(ctx context.Context, id uint) error {
	err := r.UserRepository.Delete(ctx, id)
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

// Ping reports Redis connectivity; a disabled cache is always healthy.
func (r *CachedUserRepository) Ping(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Ping(ctx).Err()
}

// generation returns the current list generation. ok is false when the cache
// must not be used for this call.
func (r *CachedUserRepository) generation(ctx context.Context) (int64, bool) {
	if r.client == nil {
		return 0, false
	}
	if r.stale.Load() {
		// Retry the bump that failed; only a successful one makes the
		// cached lists trustworthy again.
		if err := r.client.Incr(ctx, userListGenKey).Err(); err != nil {
			return 0, false
		}
		r.stale.Store(false)
	}

	gen, err := r.client.Get(ctx, userListGenKey).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, true
	case err != nil:
		r.log.Warn().Err(err).Msg("user cache generation read failed")
		return 0, false
	}
	return gen, true
}

func listKey(gen int64) string {
	return userListKeyPrefix + strconv.FormatInt(gen, 10)
}

func (r *CachedUserRepository) cachedList(ctx context.Context, gen int64) ([]*domain.User, bool) {
	raw, err := r.client.Get(ctx, listKey(gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Msg("user cache read failed")
		}
		return nil, false
	}

	var cached []cachedUser
	if err := json.Unmarshal(raw, &cached); err != nil {
		r.log.Warn().Err(err).Msg("user cache entry corrupt")
		return nil, false
	}
	users := make([]*domain.User, 0, len(cached))
	for _, c := range cached {
		users = append(users, &domain.User{
			ID:        c.ID,
			Username:  c.Username,
			Role:      c.Role,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return users, true
}

func (r *CachedUserRepository) storeList(ctx context.Context, gen int64, users []*domain.User) {
	cached := make([]cachedUser, 0, len(users))
	for _, u := range users {
		cached = append(cached, cachedUser{
			ID:        u.ID,
			Username:  u.Username,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		})
	}
	payload, err := json.Marshal(cached)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, listKey(gen), payload, r.ttl).Err(); err != nil {
		r.log.Warn().Err(err).Msg("user cache write failed")
	}
}

// invalidate moves readers to a new generation. Lists cached under older
// generations are never read again and expire with their TTL.
func (r *CachedUserRepository) invalidate(ctx context.Context) {
	if r.client == nil {
		return
	}
	if err := r.client.Incr(ctx, userListGenKey).Err(); err != nil {
		r.stale.Store(true)
		r.log.Warn().Err(err).Msg("user cache invalidation failed, bypassing cache")
	}
}
