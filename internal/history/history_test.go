package history

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/avr-driver/internal/entity"
	"github.com/nerrad567/avr-driver/internal/infrastructure/database"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "history.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})

	if err := db.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensuring schema: %v", err)
	}
	return NewRepository(db.DB)
}

func TestRepository_RecordAndGetHistory(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for i, volume := range []int{10, 20, 30} {
		attrs := entity.Attributes{"state": "on", "volume": volume}
		if err := repo.Record(ctx, "media_player.avr-001", attrs, "session"); err != nil {
			t.Fatalf("Record() #%d error = %v", i, err)
		}
	}
	if err := repo.Record(ctx, "sensor.avr-001.volume", entity.Attributes{"value": 30}, "session"); err != nil {
		t.Fatalf("Record() sensor error = %v", err)
	}

	records, err := repo.GetHistory(ctx, "media_player.avr-001", 0)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("GetHistory() returned %d records, want 3", len(records))
	}

	// Newest first
	if got := records[0].Attributes["volume"]; got != float64(30) {
		t.Errorf("newest volume = %v, want 30", got)
	}
	if records[0].Source != "session" {
		t.Errorf("source = %q, want session", records[0].Source)
	}
	if records[0].CreatedAt == "" {
		t.Error("created_at should be populated")
	}
}

func TestRepository_GetHistoryLimit(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.Record(ctx, "media_player.avr-001", entity.Attributes{"volume": i}, "session"); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	records, err := repo.GetHistory(ctx, "media_player.avr-001", 2)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("GetHistory(limit=2) returned %d records, want 2", len(records))
	}
}

func TestRepository_GetHistoryUnknownEntity(t *testing.T) {
	repo := openTestRepo(t)

	records, err := repo.GetHistory(context.Background(), "media_player.missing", 0)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("GetHistory() for unknown entity returned %d records, want 0", len(records))
	}
}

func TestRepository_Prune(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.Record(ctx, "media_player.avr-001", entity.Attributes{"volume": 10}, "session"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	// Nothing is older than an hour yet
	deleted, err := repo.Prune(ctx, time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("Prune(1h) deleted %d rows, want 0", deleted)
	}

	// A zero retention window prunes everything written so far
	time.Sleep(1100 * time.Millisecond)
	deleted, err = repo.Prune(ctx, 0)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune(0) deleted %d rows, want 1", deleted)
	}
}

// failingSink always rejects delivery.
type failingSink struct{}

func (failingSink) Emit(entity.Snapshot) error { return errors.New("broker unavailable") }

// acceptingSink records accepted snapshots.
type acceptingSink struct {
	mu        sync.Mutex
	emissions int
}

func (s *acceptingSink) Emit(entity.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emissions++
	return nil
}

func TestSink_RecordsOnlyDeliveredUpdates(t *testing.T) {
	repo := openTestRepo(t)
	snapshot := entity.Snapshot{
		"media_player.avr-001":  entity.Attributes{"state": "on", "volume": 15},
		"sensor.avr-001.volume": entity.Attributes{"value": 15},
	}

	// Delivery failure: nothing stored, error propagated
	failing := NewSink(failingSink{}, repo, nil)
	if err := failing.Emit(snapshot); err == nil {
		t.Fatal("Emit() should propagate the wrapped sink's error")
	}
	records, err := repo.GetHistory(context.Background(), "media_player.avr-001", 0)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("failed delivery stored %d records, want 0", len(records))
	}

	// Successful delivery: one row per entity
	accepting := &acceptingSink{}
	sink := NewSink(accepting, repo, nil)
	if err := sink.Emit(snapshot); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	for _, id := range []string{"media_player.avr-001", "sensor.avr-001.volume"} {
		records, err := repo.GetHistory(context.Background(), id, 0)
		if err != nil {
			t.Fatalf("GetHistory(%s) error = %v", id, err)
		}
		if len(records) != 1 {
			t.Errorf("GetHistory(%s) returned %d records, want 1", id, len(records))
		}
	}
}
