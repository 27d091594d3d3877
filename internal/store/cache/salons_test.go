package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

type fakeRedis struct {
	data    map[string]string
	getErr  error
	setErr  error
	sets    int
	lastTTL time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.sets++
	f.lastTTL = expiration
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type fakeSalons struct {
	getSalonFn func(ctx context.Context, salonID uuid.UUID) (domain.Salon, error)
	calls      int
}

func (f *fakeSalons) GetSalon(ctx context.Context, salonID uuid.UUID) (domain.Salon, error) {
	f.calls++
	if f.getSalonFn == nil {
		panic("GetSalon not configured")
	}
	return f.getSalonFn(ctx, salonID)
}

func testSalon() domain.Salon {
	return domain.Salon{
		ID:           uuid.MustParse("00000000-0000-0000-0000-000000000a01"),
		OwnerID:      "owner-1",
		Name:         "Shear",
		Services:     []domain.Service{{ID: uuid.MustParse("00000000-0000-0000-0000-0000000000c1"), Name: "Cut", DurationMinutes: 30}},
		WorkingHours: domain.WorkingHours{Start: "09:00", End: "17:00"},
	}
}

func TestSalonCacheReadThrough(t *testing.T) {
	rdb := newFakeRedis()
	backing := &fakeSalons{getSalonFn: func(ctx context.Context, salonID uuid.UUID) (domain.Salon, error) {
		return testSalon(), nil
	}}
	c := NewSalonCache(backing, rdb, time.Minute, nil)
	ctx := context.Background()

	first, err := c.GetSalon(ctx, testSalon().ID)
	if err != nil {
		t.Fatalf("GetSalon error: %v", err)
	}
	second, err := c.GetSalon(ctx, testSalon().ID)
	if err != nil {
		t.Fatalf("GetSalon error: %v", err)
	}
	if backing.calls != 1 {
		t.Fatalf("backing calls = %d, want 1", backing.calls)
	}
	if rdb.lastTTL != time.Minute {
		t.Fatalf("ttl = %v", rdb.lastTTL)
	}
	if second.OwnerID != first.OwnerID || len(second.Services) != 1 || second.Services[0].DurationMinutes != 30 {
		t.Fatalf("cached salon = %+v", second)
	}
	if second.WorkingHours != first.WorkingHours {
		t.Fatalf("hours = %+v, want %+v", second.WorkingHours, first.WorkingHours)
	}

	if err := c.Invalidate(ctx, testSalon().ID); err != nil {
		t.Fatalf("Invalidate error: %v", err)
	}
	if _, err := c.GetSalon(ctx, testSalon().ID); err != nil {
		t.Fatalf("GetSalon error: %v", err)
	}
	if backing.calls != 2 {
		t.Fatalf("backing calls after invalidate = %d, want 2", backing.calls)
	}
}

func TestSalonCacheFallsThroughOnRedisErrors(t *testing.T) {
	rdb := newFakeRedis()
	rdb.getErr = errors.New("connection refused")
	rdb.setErr = errors.New("connection refused")
	backing := &fakeSalons{getSalonFn: func(ctx context.Context, salonID uuid.UUID) (domain.Salon, error) {
		return testSalon(), nil
	}}
	c := NewSalonCache(backing, rdb, 0, nil)

	got, err := c.GetSalon(context.Background(), testSalon().ID)
	if err != nil {
		t.Fatalf("GetSalon error: %v", err)
	}
	if got.Name != "Shear" {
		t.Fatalf("salon = %+v", got)
	}
}

func TestSalonCacheDoesNotCacheMisses(t *testing.T) {
	rdb := newFakeRedis()
	backing := &fakeSalons{getSalonFn: func(ctx context.Context, salonID uuid.UUID) (domain.Salon, error) {
		return domain.Salon{}, store.ErrNotFound
	}}
	c := NewSalonCache(backing, rdb, time.Minute, nil)

	if _, err := c.GetSalon(context.Background(), uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, store.ErrNotFound)
	}
	if rdb.sets != 0 {
		t.Fatalf("sets = %d, want 0", rdb.sets)
	}
}
