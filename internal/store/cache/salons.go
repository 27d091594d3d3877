// Package cache puts a Redis read-through cache in front of salon lookups.
// Salons change rarely and are read on every booking request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

const keyPrefix = "salonbook:salon:"

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings with a short timeout.
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

type SalonCache struct {
	next   store.SalonRepository
	rdb    redisClient
	ttl    time.Duration
	logger *zap.Logger
}

var _ store.SalonRepository = (*SalonCache)(nil)

func NewSalonCache(next store.SalonRepository, rdb redisClient, ttl time.Duration, logger *zap.Logger) *SalonCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalonCache{next: next, rdb: rdb, ttl: ttl, logger: logger.With(zap.String("component", "salon_cache"))}
}

type cachedService struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	PriceCents      int64     `json:"price_cents"`
	DurationMinutes int       `json:"duration_minutes"`
}

type cachedSalon struct {
	ID           uuid.UUID           `json:"id"`
	OwnerID      string              `json:"owner_id"`
	Name         string              `json:"name"`
	Email        string              `json:"email,omitempty"`
	Phone        string              `json:"phone,omitempty"`
	Address      string              `json:"address,omitempty"`
	Services     []cachedService     `json:"services"`
	WorkingHours domain.WorkingHours `json:"working_hours"`
}

// GetSalon serves from Redis when possible. Redis failures are logged and
// the lookup falls through to the backing repository.
func (c *SalonCache) GetSalon(ctx context.Context, salonID uuid.UUID) (domain.Salon, error) {
	key := keyPrefix + salonID.String()

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cs cachedSalon
		if jerr := json.Unmarshal(raw, &cs); jerr == nil {
			return cs.toDomain(), nil
		}
		c.logger.Warn("discarding unreadable cache entry", zap.String("salon_id", salonID.String()))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("redis get failed", zap.String("salon_id", salonID.String()), zap.Error(err))
	}

	salon, err := c.next.GetSalon(ctx, salonID)
	if err != nil {
		return domain.Salon{}, err
	}

	payload, err := json.Marshal(fromDomain(salon))
	if err != nil {
		return salon, nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", zap.String("salon_id", salonID.String()), zap.Error(err))
	}
	return salon, nil
}

func (c *SalonCache) Invalidate(ctx context.Context, salonID uuid.UUID) error {
	return c.rdb.Del(ctx, keyPrefix+salonID.String()).Err()
}

func fromDomain(s domain.Salon) cachedSalon {
	services := make([]cachedService, 0, len(s.Services))
	for _, svc := range s.Services {
		services = append(services, cachedService(svc))
	}
	return cachedSalon{
		ID:           s.ID,
		OwnerID:      s.OwnerID,
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		Address:      s.Address,
		Services:     services,
		WorkingHours: s.WorkingHours,
	}
}

func (cs cachedSalon) toDomain() domain.Salon {
	services := make([]domain.Service, 0, len(cs.Services))
	for _, svc := range cs.Services {
		services = append(services, domain.Service(svc))
	}
	return domain.Salon{
		ID:           cs.ID,
		OwnerID:      cs.OwnerID,
		Name:         cs.Name,
		Email:        cs.Email,
		Phone:        cs.Phone,
		Address:      cs.Address,
		Services:     services,
		WorkingHours: cs.WorkingHours,
	}
}
