package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mederva/boardprep-backend/internal/algorithm"
	"github.com/mederva/boardprep-backend/internal/analytics"
	"github.com/mederva/boardprep-backend/internal/config"
	"github.com/mederva/boardprep-backend/internal/generator"
	"github.com/mederva/boardprep-backend/internal/model"
	"github.com/mederva/boardprep-backend/internal/repository"
	"github.com/mederva/boardprep-backend/internal/worker"
)

// StudyStore owns every tracked collection behind one mutex: the question
// library, bookmarks, mastery cards, review schedules, history and the
// derived lifetime stats. Mutations enqueue the changed collection onto
// the persist worker; reads hand out copies.
type StudyStore struct {
	mu      sync.Mutex
	state   *repository.StudyState
	cards   map[uuid.UUID]model.MasteryCard
	gen     generator.Client
	persist *worker.PersistWorker
	log     zerolog.Logger
}

// NewStudyStore wraps previously loaded state. The card index is rebuilt
// from the per-question card map.
func NewStudyStore(state *repository.StudyState, gen generator.Client, persist *worker.PersistWorker, log zerolog.Logger) *StudyStore {
	s := &StudyStore{
		state:   state,
		cards:   make(map[uuid.UUID]model.MasteryCard),
		gen:     gen,
		persist: persist,
		log:     log.With().Str("component", "study_store").Logger(),
	}
	s.reindexCards()
	return s
}

func (s *StudyStore) reindexCards() {
	s.cards = make(map[uuid.UUID]model.MasteryCard)
	for _, cards := range s.state.MasteryCards {
		for _, c := range cards {
			s.cards[c.ID] = c
		}
	}
}

// enqueuePersist marshals v and hands it to the persist worker. Called
// with the mutex held so writes for one slot are enqueued in mutation
// order.
func (s *StudyStore) enqueuePersist(slot string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Str("slot", slot).Msg("Failed to marshal collection")
		return
	}
	s.persist.Enqueue(slot, raw)
}

// ─── Question Library ────────────────────────────────────────────────────────

// MergeQuestions adds questions to the library, first write wins: an ID
// already present keeps its existing record. Returns how many were new.
func (s *StudyStore) MergeQuestions(questions []model.Question) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, q := range questions {
		if _, exists := s.state.Library[q.ID]; exists {
			continue
		}
		s.state.Library[q.ID] = q
		added++
	}
	if added > 0 {
		s.enqueuePersist(config.StoreKey.QuestionLibrary, s.state.Library)
	}
	return added
}

// Question looks up a library question by ID.
func (s *StudyStore) Question(id uuid.UUID) (model.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.state.Library[id]
	return q, ok
}

// Library returns a copy of the question library.
func (s *StudyStore) Library() map[uuid.UUID]model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uuid.UUID]model.Question, len(s.state.Library))
	for id, q := range s.state.Library {
		out[id] = q
	}
	return out
}

// ─── Bookmarks ───────────────────────────────────────────────────────────────

// Bookmarks returns a copy of the bookmarked question IDs.
func (s *StudyStore) Bookmarks() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.state.Bookmarks...)
}

// AddBookmark marks a library question for spaced review. Bookmarking
// creates the question's schedule entry if it does not exist yet, due
// immediately. Re-bookmarking is a no-op.
func (s *StudyStore) AddBookmark(id uuid.UUID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Library[id]; !ok {
		return ErrQuestionNotFound
	}
	for _, existing := range s.state.Bookmarks {
		if existing == id {
			return nil
		}
	}

	s.state.Bookmarks = append(s.state.Bookmarks, id)
	s.enqueuePersist(config.StoreKey.Bookmarks, s.state.Bookmarks)

	if _, ok := s.state.SRSStates[id]; !ok {
		s.state.SRSStates[id] = algorithm.NewState(id, now)
		s.enqueuePersist(config.StoreKey.SRSStates, s.state.SRSStates)
	}
	return nil
}

// RemoveBookmark unmarks a question. The schedule entry is left in place,
// so re-bookmarking later resumes the old interval instead of resetting it.
func (s *StudyStore) RemoveBookmark(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.state.Bookmarks {
		if existing == id {
			s.state.Bookmarks = append(s.state.Bookmarks[:i], s.state.Bookmarks[i+1:]...)
			s.enqueuePersist(config.StoreKey.Bookmarks, s.state.Bookmarks)
			return
		}
	}
}

// ─── Mastery Cards ───────────────────────────────────────────────────────────

// CardsFor returns the mastery cards derived from a question.
func (s *StudyStore) CardsFor(questionID uuid.UUID) []model.MasteryCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.MasteryCard(nil), s.state.MasteryCards[questionID]...)
}

// SynthesizeMasteryCards generates the four-category card set for a
// question. Synthesis is one-shot per question: existing cards are
// returned as-is without calling the generator. Each new card enters the
// review schedule due immediately.
func (s *StudyStore) SynthesizeMasteryCards(ctx context.Context, questionID uuid.UUID) ([]model.MasteryCard, error) {
	s.mu.Lock()
	question, ok := s.state.Library[questionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrQuestionNotFound
	}
	if existing := s.state.MasteryCards[questionID]; len(existing) > 0 {
		s.mu.Unlock()
		return append([]model.MasteryCard(nil), existing...), nil
	}
	s.mu.Unlock()

	// Generation runs outside the lock; it can take seconds.
	cards, err := s.gen.GenerateMasteryCards(ctx, question)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A concurrent synthesis may have finished first. Keep its result.
	if existing := s.state.MasteryCards[questionID]; len(existing) > 0 {
		return append([]model.MasteryCard(nil), existing...), nil
	}

	now := time.Now()
	s.state.MasteryCards[questionID] = cards
	for _, c := range cards {
		s.cards[c.ID] = c
		// Fresh cards start as lapsed so they surface in the very next
		// review pass rather than tomorrow.
		s.state.SRSStates[c.ID] = algorithm.Review(algorithm.NewState(c.ID, now), model.RatingAgain, now)
	}
	s.enqueuePersist(config.StoreKey.MasteryCards, s.state.MasteryCards)
	s.enqueuePersist(config.StoreKey.SRSStates, s.state.SRSStates)

	s.log.Info().
		Str("question_id", questionID.String()).
		Int("cards", len(cards)).
		Msg("Mastery cards synthesized")
	return append([]model.MasteryCard(nil), cards...), nil
}

// ─── Review Schedule ─────────────────────────────────────────────────────────

// DueItems returns every reviewable item whose next review time has
// passed, soonest-due first. Bookmarked questions surface as vignettes,
// mastery cards as cards. Schedule entries whose owner is gone (an
// unbookmarked question, a deleted card) are skipped, not deleted.
func (s *StudyStore) DueItems(now time.Time) []model.ReviewItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarked := make(map[uuid.UUID]bool, len(s.state.Bookmarks))
	for _, id := range s.state.Bookmarks {
		bookmarked[id] = true
	}

	cutoff := now.UnixMilli()
	var due []model.ReviewItem
	for id, st := range s.state.SRSStates {
		if st.NextReviewAt > cutoff {
			continue
		}
		if card, ok := s.cards[id]; ok {
			c := card
			due = append(due, model.ReviewItem{Kind: model.ReviewItemCard, Card: &c, State: st})
			continue
		}
		if bookmarked[id] {
			if q, ok := s.state.Library[id]; ok {
				qc := q
				due = append(due, model.ReviewItem{Kind: model.ReviewItemVignette, Question: &qc, State: st})
			}
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].State.NextReviewAt != due[j].State.NextReviewAt {
			return due[i].State.NextReviewAt < due[j].State.NextReviewAt
		}
		return due[i].State.ItemID.String() < due[j].State.ItemID.String()
	})
	return due
}

// Rate applies a recall rating to an item's schedule and returns the
// updated state.
func (s *StudyStore) Rate(itemID uuid.UUID, rating model.Rating, now time.Time) (model.SRSState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.state.SRSStates[itemID]
	if !ok {
		return model.SRSState{}, ErrItemNotFound
	}
	st = algorithm.Review(st, rating, now)
	s.state.SRSStates[itemID] = st
	s.enqueuePersist(config.StoreKey.SRSStates, s.state.SRSStates)
	return st, nil
}

// ─── History & Stats ─────────────────────────────────────────────────────────

// History returns a copy of the session history, most recent first.
func (s *StudyStore) History() []model.HistoricalSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.HistoricalSession(nil), s.state.History...)
}

// RecordSession appends a completed session and folds it into the
// lifetime stats.
func (s *StudyStore) RecordSession(entry model.HistoricalSession) model.LifetimeStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.History, s.state.LifetimeStats = analytics.AppendSession(s.state.History, entry, time.Now())
	s.enqueuePersist(config.StoreKey.History, s.state.History)
	s.enqueuePersist(config.StoreKey.LifetimeStats, s.state.LifetimeStats)
	return s.state.LifetimeStats
}

// Stats returns the current lifetime stats.
func (s *StudyStore) Stats() model.LifetimeStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LifetimeStats
}

// Breakdown aggregates per-question correctness across the whole history,
// grouped and ordered as requested.
func (s *StudyStore) Breakdown(groupBy analytics.GroupBy, order analytics.SortOrder) []analytics.BreakdownRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return analytics.Breakdown(s.state.History, s.state.Library, groupBy, order)
}

// ─── Study Plan ──────────────────────────────────────────────────────────────

// Plan returns the stored study plan.
func (s *StudyStore) Plan() (*model.StudyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.StudyPlan == nil {
		return nil, ErrNoPlan
	}
	plan := *s.state.StudyPlan
	return &plan, nil
}

// SetPlan overwrites the stored study plan.
func (s *StudyStore) SetPlan(plan *model.StudyPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.StudyPlan = plan
	s.enqueuePersist(config.StoreKey.StudyPlan, s.state.StudyPlan)
}

// ─── Export / Import ─────────────────────────────────────────────────────────

// Export snapshots every collection into a single backup document. The
// caller supplies the live session, which sits outside this store.
func (s *StudyStore) Export(active *model.QuizSession) *model.Backup {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := &model.Backup{
		ExportedAt:    time.Now().UnixMilli(),
		History:       append([]model.HistoricalSession(nil), s.state.History...),
		Bookmarks:     append([]uuid.UUID(nil), s.state.Bookmarks...),
		MasteryCards:  make(map[uuid.UUID][]model.MasteryCard, len(s.state.MasteryCards)),
		SRSStates:     make(map[uuid.UUID]model.SRSState, len(s.state.SRSStates)),
		Library:       make(map[uuid.UUID]model.Question, len(s.state.Library)),
		StudyPlan:     s.state.StudyPlan,
		ActiveSession: active,
	}
	if backup.History == nil {
		backup.History = []model.HistoricalSession{}
	}
	if backup.Bookmarks == nil {
		backup.Bookmarks = []uuid.UUID{}
	}
	for id, cards := range s.state.MasteryCards {
		backup.MasteryCards[id] = append([]model.MasteryCard(nil), cards...)
	}
	for id, st := range s.state.SRSStates {
		backup.SRSStates[id] = st
	}
	for id, q := range s.state.Library {
		backup.Library[id] = q
	}
	stats := s.state.LifetimeStats
	backup.LifetimeStats = &stats
	return backup
}

// Import validates a raw backup and replaces every collection with its
// contents. All-or-nothing: a rejected payload leaves the store
// untouched. Lifetime stats are recomputed from the imported history
// rather than trusted. Returns the backup's embedded live session, if
// any, for the session layer to adopt.
func (s *StudyStore) Import(raw []byte) (*model.QuizSession, error) {
	backup, err := repository.ParseBackup(raw)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.History = backup.History
	s.state.Bookmarks = backup.Bookmarks
	s.state.MasteryCards = backup.MasteryCards
	s.state.SRSStates = backup.SRSStates
	s.state.Library = backup.Library
	s.state.StudyPlan = backup.StudyPlan
	s.state.LifetimeStats = analytics.RecomputeLifetimeStats(s.state.History, time.Now())
	s.reindexCards()

	s.enqueuePersist(config.StoreKey.History, s.state.History)
	s.enqueuePersist(config.StoreKey.Bookmarks, s.state.Bookmarks)
	s.enqueuePersist(config.StoreKey.MasteryCards, s.state.MasteryCards)
	s.enqueuePersist(config.StoreKey.SRSStates, s.state.SRSStates)
	s.enqueuePersist(config.StoreKey.QuestionLibrary, s.state.Library)
	s.enqueuePersist(config.StoreKey.StudyPlan, s.state.StudyPlan)
	s.enqueuePersist(config.StoreKey.LifetimeStats, s.state.LifetimeStats)

	s.log.Info().
		Int("history", len(s.state.History)).
		Int("library", len(s.state.Library)).
		Int("bookmarks", len(s.state.Bookmarks)).
		Msg("Backup imported")
	return backup.ActiveSession, nil
}
