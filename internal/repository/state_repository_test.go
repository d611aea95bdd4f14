package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mederva/boardprep-backend/internal/config"
	"github.com/mederva/boardprep-backend/internal/model"
	"github.com/mederva/boardprep-backend/internal/store"
)

func TestLoadAllDefaults(t *testing.T) {
	kv := store.NewMemoryKV()
	repo := NewStateRepository(kv, zerolog.Nop())

	now := time.Now()
	state, err := repo.LoadAll(context.Background(), now)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	if len(state.History) != 0 || len(state.Bookmarks) != 0 {
		t.Errorf("fresh state not empty: %+v", state)
	}
	if state.Library == nil || state.SRSStates == nil || state.MasteryCards == nil {
		t.Error("maps must be allocated even when slots are missing")
	}
	if !state.LifetimeStats.FirstSessionAt.Equal(now) {
		t.Errorf("FirstSessionAt = %v, want load time", state.LifetimeStats.FirstSessionAt)
	}
}

func TestLoadAllMigratesLifetimeStats(t *testing.T) {
	kv := store.NewMemoryKV()
	repo := NewStateRepository(kv, zerolog.Nop())

	history := []model.HistoricalSession{
		{
			ID:             uuid.New(),
			CompletedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			TotalQuestions: 10,
			CorrectAnswers: 7,
			ElapsedMs:      30 * 60 * 1000,
		},
	}
	raw, _ := json.Marshal(history)
	if err := kv.Set(context.Background(), config.StoreKey.History, raw); err != nil {
		t.Fatal(err)
	}

	state, err := repo.LoadAll(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if state.LifetimeStats.TotalQuestions != 10 || state.LifetimeStats.TotalCorrect != 7 {
		t.Errorf("migrated stats = %+v", state.LifetimeStats)
	}

	// The recomputed stats must have been written back.
	if _, err := kv.Get(context.Background(), config.StoreKey.LifetimeStats); errors.Is(err, store.ErrNotFound) {
		t.Error("migrated stats were not persisted")
	}
}

func TestLoadAllPrefersStoredStats(t *testing.T) {
	kv := store.NewMemoryKV()
	repo := NewStateRepository(kv, zerolog.Nop())

	stats := model.LifetimeStats{TotalQuestions: 42, TotalCorrect: 40, AverageAccuracy: 95}
	raw, _ := json.Marshal(stats)
	if err := kv.Set(context.Background(), config.StoreKey.LifetimeStats, raw); err != nil {
		t.Fatal(err)
	}

	state, err := repo.LoadAll(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if state.LifetimeStats.TotalQuestions != 42 {
		t.Errorf("stats = %+v, want the stored record", state.LifetimeStats)
	}
}

func TestLoadAllRejectsCorruptSlot(t *testing.T) {
	kv := store.NewMemoryKV()
	repo := NewStateRepository(kv, zerolog.Nop())

	if err := kv.Set(context.Background(), config.StoreKey.History, []byte(`{not json`)); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.LoadAll(context.Background(), time.Now()); err == nil {
		t.Fatal("corrupt slot must fail the load")
	}
}
