package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mederva/boardprep-backend/internal/store"
)

// SlotWrite is one queued overwrite of a named slot.
type SlotWrite struct {
	Slot  string
	Value []byte
}

// PersistWorker serializes all slot writes onto a single goroutine.
// Writes for the same slot are coalesced latest-wins, and writes for any
// one slot always reach the store in enqueue order.
type PersistWorker struct {
	kv    store.KV
	log   zerolog.Logger
	queue chan SlotWrite
}

// NewPersistWorker creates a new PersistWorker.
func NewPersistWorker(kv store.KV, log zerolog.Logger) *PersistWorker {
	return &PersistWorker{
		kv:    kv,
		log:   log.With().Str("component", "persist_worker").Logger(),
		queue: make(chan SlotWrite, 256),
	}
}

// Enqueue queues a slot overwrite. Blocks only when the queue is full,
// which backpressures mutations instead of dropping state.
func (w *PersistWorker) Enqueue(slot string, value []byte) {
	w.queue <- SlotWrite{Slot: slot, Value: value}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *PersistWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Flush anything still queued before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		case first := <-w.queue:
			w.flush(ctx, first)
		}
	}
}

// flush writes first plus everything else currently queued, keeping only
// the newest value per slot.
func (w *PersistWorker) flush(ctx context.Context, first SlotWrite) {
	latest := map[string][]byte{first.Slot: first.Value}
	order := []string{first.Slot}

	for {
		select {
		case next := <-w.queue:
			if _, seen := latest[next.Slot]; !seen {
				order = append(order, next.Slot)
			}
			latest[next.Slot] = next.Value
		default:
			for _, slot := range order {
				w.write(ctx, slot, latest[slot])
			}
			return
		}
	}
}

func (w *PersistWorker) write(ctx context.Context, slot string, value []byte) {
	if err := w.kv.Set(ctx, slot, value); err != nil {
		w.log.Error().Err(err).
			Str("slot", slot).
			Msg("Persist error, retrying in 5s")
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
		}
		if err := w.kv.Set(ctx, slot, value); err != nil {
			w.log.Error().Err(err).
				Str("slot", slot).
				Msg("Persist retry failed, slot left stale until next write")
		}
	}
}

// drain writes all remaining queued items before shutdown.
func (w *PersistWorker) drain(ctx context.Context) {
	drained := 0
	for {
		select {
		case next := <-w.queue:
			w.write(ctx, next.Slot, next.Value)
			drained++
		default:
			if drained > 0 {
				w.log.Info().Int("count", drained).Msg("Drained pending writes")
			}
			return
		}
	}
}
