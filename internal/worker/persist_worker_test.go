package worker

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mederva/boardprep-backend/internal/store"
)

func TestPersistWorkerWritesAllSlots(t *testing.T) {
	kv := store.NewMemoryKV()
	w := NewPersistWorker(kv, zerolog.Nop())

	w.Enqueue("history", []byte(`[1]`))
	w.Enqueue("bookmarks", []byte(`[]`))
	w.Enqueue("history", []byte(`[1,2]`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}

	history, err := kv.Get(context.Background(), "history")
	if err != nil {
		t.Fatalf("history slot not written: %v", err)
	}
	// Latest write for a slot must win.
	if string(history) != `[1,2]` {
		t.Errorf("history = %s, want [1,2]", history)
	}
	if _, err := kv.Get(context.Background(), "bookmarks"); err != nil {
		t.Errorf("bookmarks slot not written: %v", err)
	}
}
