package config

import (
	"testing"
	"time"

	"salonbook/backend/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:50051" {
		t.Fatalf("Addr = %q", cfg.Addr())
	}
	if cfg.StoreDriver != DriverPostgres || cfg.OverlapPolicy != domain.OverlapHalfOpen {
		t.Fatalf("driver/policy = %q/%q", cfg.StoreDriver, cfg.OverlapPolicy)
	}
	if cfg.GRPCRequestTimeout != 10*time.Second || cfg.SalonCacheTTL != 5*time.Minute {
		t.Fatalf("durations = %v/%v", cfg.GRPCRequestTimeout, cfg.SalonCacheTTL)
	}
	if cfg.RedisAddr != "" || cfg.AMQPURL != "" {
		t.Fatalf("optional collaborators should be disabled by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SALONBOOK_GRPC_ADDR", "127.0.0.1:6000")
	t.Setenv("SALONBOOK_STORE_DRIVER", "Memory")
	t.Setenv("SALONBOOK_BOOKING_OVERLAP_POLICY", "inclusive")
	t.Setenv("SALONBOOK_NOTIFY_TIMEOUT", "3s")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:6000" {
		t.Fatalf("Addr = %q", cfg.Addr())
	}
	if cfg.StoreDriver != DriverMemory {
		t.Fatalf("driver = %q", cfg.StoreDriver)
	}
	if cfg.OverlapPolicy != domain.OverlapInclusive {
		t.Fatalf("policy = %q", cfg.OverlapPolicy)
	}
	if cfg.NotifyTimeout != 3*time.Second {
		t.Fatalf("notify timeout = %v", cfg.NotifyTimeout)
	}
	if cfg.RedisAddr != "cache:6379" {
		t.Fatalf("redis addr = %q", cfg.RedisAddr)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"SALONBOOK_SHUTDOWN_TIMEOUT":       "soon",
		"SALONBOOK_BOOKING_OVERLAP_POLICY": "closed",
		"SALONBOOK_STORE_DRIVER":           "sqlite",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}
