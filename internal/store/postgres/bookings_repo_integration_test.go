package postgres

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
	"salonbook/backend/migrations"
)

func TestPostgresIntegration_ReserveDuplicateAndOverlap(t *testing.T) {
	databaseURL := strings.TrimSpace(os.Getenv("SALONBOOK_TEST_DATABASE_URL"))
	if databaseURL == "" {
		t.Skip("SALONBOOK_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := Open(ctx, databaseURL, PoolConfig{MaxOpenConns: 1}, nil)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(db)
	})

	schema := "salonbook_test_" + randomHex(t, 8)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = db.NewRaw("DROP SCHEMA IF EXISTS " + schema + " CASCADE").Exec(ctx)
	})

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewRaw("CREATE SCHEMA " + schema).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewRaw("SET LOCAL search_path TO " + schema).Exec(ctx); err != nil {
			return err
		}
		if _, err := applyMigrations(ctx, tx, migrations.FS); err != nil {
			return err
		}

		salon := domain.Salon{
			OwnerID:      "owner-1",
			Name:         "Test Salon",
			Services:     []domain.Service{{ID: uuid.New(), Name: "Cut", DurationMinutes: 30}},
			WorkingHours: domain.WorkingHours{Start: "09:00", End: "17:00"},
		}
		if _, err := tx.NewInsert().Model(&salon).Exec(ctx); err != nil {
			return err
		}
		staff := domain.StaffMember{SalonID: salon.ID, Name: "Ada"}
		if _, err := tx.NewInsert().Model(&staff).Exec(ctx); err != nil {
			return err
		}

		c := calendarTx{tx: tx}
		day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		newBooking := func(h, m int) domain.Booking {
			start := time.Date(2026, 3, 14, h, m, 0, 0, time.UTC)
			return domain.Booking{
				SalonID:       salon.ID,
				StaffMemberID: staff.ID,
				UserID:        "u1",
				ServiceIDs:    []uuid.UUID{salon.Services[0].ID},
				Day:           day,
				StartTime:     start,
				EndTime:       start.Add(30 * time.Minute),
			}
		}

		first := newBooking(10, 0)
		if err := store.EnsureSlotAvailable(ctx, c, first, domain.OverlapHalfOpen); err != nil {
			return fmt.Errorf("first check: %w", err)
		}
		b1, err := c.InsertReservation(ctx, first)
		if err != nil {
			return err
		}
		if b1.ID == uuid.Nil || b1.Status != domain.StatusPending {
			return fmt.Errorf("inserted booking = %+v", b1)
		}

		if err := store.EnsureSlotAvailable(ctx, c, newBooking(10, 0), domain.OverlapHalfOpen); !errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("duplicate err = %v, want %v", err, store.ErrDuplicate)
		}

		if err := store.EnsureSlotAvailable(ctx, c, newBooking(10, 15), domain.OverlapHalfOpen); !errors.Is(err, store.ErrConflict) {
			return fmt.Errorf("overlap err = %v, want %v", err, store.ErrConflict)
		}

		if err := store.EnsureSlotAvailable(ctx, c, newBooking(10, 30), domain.OverlapInclusive); !errors.Is(err, store.ErrConflict) {
			return fmt.Errorf("inclusive touching err = %v, want %v", err, store.ErrConflict)
		}
		if err := store.EnsureSlotAvailable(ctx, c, newBooking(10, 30), domain.OverlapHalfOpen); err != nil {
			return fmt.Errorf("half-open touching err = %v, want nil", err)
		}

		if _, err := tx.NewRaw("SAVEPOINT backstop").Exec(ctx); err != nil {
			return err
		}
		if _, err := c.InsertReservation(ctx, newBooking(10, 20)); !errors.Is(err, store.ErrConflict) {
			return fmt.Errorf("exclusion constraint err = %v, want %v", err, store.ErrConflict)
		}
		if _, err := tx.NewRaw("ROLLBACK TO SAVEPOINT backstop").Exec(ctx); err != nil {
			return err
		}

		rows, err := c.ListReservedWindows(ctx, staff.ID, day, day.Add(24*time.Hour))
		if err != nil {
			return err
		}
		if len(rows) != 1 || rows[0].BookingID != b1.ID {
			return fmt.Errorf("reserved windows = %+v", rows)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("tx error: %v", err)
	}
}

func randomHex(t *testing.T, bytesLen int) string {
	t.Helper()
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand.Read error: %v", err)
	}
	return hex.EncodeToString(b)
}
