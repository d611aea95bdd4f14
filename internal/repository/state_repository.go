package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mederva/boardprep-backend/internal/analytics"
	"github.com/mederva/boardprep-backend/internal/config"
	"github.com/mederva/boardprep-backend/internal/model"
	"github.com/mederva/boardprep-backend/internal/store"
)

// StudyState is the full set of tracked collections as loaded from (or
// written to) the durable store.
type StudyState struct {
	History       []model.HistoricalSession
	Bookmarks     []uuid.UUID
	MasteryCards  map[uuid.UUID][]model.MasteryCard
	SRSStates     map[uuid.UUID]model.SRSState
	Library       map[uuid.UUID]model.Question
	StudyPlan     *model.StudyPlan
	LifetimeStats model.LifetimeStats
}

// NewStudyState returns an empty state with all maps allocated.
func NewStudyState() *StudyState {
	return &StudyState{
		MasteryCards: make(map[uuid.UUID][]model.MasteryCard),
		SRSStates:    make(map[uuid.UUID]model.SRSState),
		Library:      make(map[uuid.UUID]model.Question),
	}
}

// StateRepository handles typed access to the named KV slots.
type StateRepository struct {
	kv  store.KV
	log zerolog.Logger
}

// NewStateRepository creates a new StateRepository.
func NewStateRepository(kv store.KV, log zerolog.Logger) *StateRepository {
	return &StateRepository{
		kv:  kv,
		log: log.With().Str("component", "state_repository").Logger(),
	}
}

// LoadAll reads every tracked collection, defaulting missing slots to
// empty. If lifetime stats are absent but history is not, they are
// recomputed and persisted immediately — the migration path for data
// written before stats were stored.
func (r *StateRepository) LoadAll(ctx context.Context, now time.Time) (*StudyState, error) {
	state := NewStudyState()

	if err := r.loadSlot(ctx, config.StoreKey.History, &state.History); err != nil {
		return nil, err
	}
	if err := r.loadSlot(ctx, config.StoreKey.Bookmarks, &state.Bookmarks); err != nil {
		return nil, err
	}
	if err := r.loadSlot(ctx, config.StoreKey.MasteryCards, &state.MasteryCards); err != nil {
		return nil, err
	}
	if err := r.loadSlot(ctx, config.StoreKey.SRSStates, &state.SRSStates); err != nil {
		return nil, err
	}
	if err := r.loadSlot(ctx, config.StoreKey.QuestionLibrary, &state.Library); err != nil {
		return nil, err
	}
	if err := r.loadSlot(ctx, config.StoreKey.StudyPlan, &state.StudyPlan); err != nil {
		return nil, err
	}

	// Maps default to nil when the slot held JSON null.
	if state.MasteryCards == nil {
		state.MasteryCards = make(map[uuid.UUID][]model.MasteryCard)
	}
	if state.SRSStates == nil {
		state.SRSStates = make(map[uuid.UUID]model.SRSState)
	}
	if state.Library == nil {
		state.Library = make(map[uuid.UUID]model.Question)
	}

	var stats *model.LifetimeStats
	if err := r.loadSlot(ctx, config.StoreKey.LifetimeStats, &stats); err != nil {
		return nil, err
	}

	switch {
	case stats != nil:
		state.LifetimeStats = *stats
	case len(state.History) > 0:
		state.LifetimeStats = analytics.RecomputeLifetimeStats(state.History, now)
		if err := r.Save(ctx, config.StoreKey.LifetimeStats, state.LifetimeStats); err != nil {
			return nil, fmt.Errorf("persist migrated lifetime stats: %w", err)
		}
		r.log.Info().
			Int("sessions", len(state.History)).
			Msg("Lifetime stats were absent, recomputed from history")
	default:
		state.LifetimeStats = analytics.RecomputeLifetimeStats(nil, now)
	}

	return state, nil
}

// Save marshals v and overwrites the slot synchronously.
func (r *StateRepository) Save(ctx context.Context, slot string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal slot %s: %w", slot, err)
	}
	if err := r.kv.Set(ctx, slot, raw); err != nil {
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	return nil
}

func (r *StateRepository) loadSlot(ctx context.Context, slot string, dst any) error {
	raw, err := r.kv.Get(ctx, slot)
	if errors.Is(err, store.ErrNotFound) {
		return nil // Missing slot keeps the zero/default value.
	}
	if err != nil {
		return fmt.Errorf("read slot %s: %w", slot, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode slot %s: %w", slot, err)
	}
	return nil
}
