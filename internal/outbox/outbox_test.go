package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/awilkes/kbchat/internal/chat"
)

type fakeSaver struct {
	mu    sync.Mutex
	err   error
	turns []chat.SavedTurn
}

func (f *fakeSaver) SaveTurn(ctx context.Context, conversationID string, turn chat.SavedTurn) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.turns = append(f.turns, turn)
	return nil
}

func sampleTurn() chat.SavedTurn {
	return chat.SavedTurn{
		Query:  "what are llamas?",
		Answer: "Camelids.",
		Invocations: []chat.ToolInvocation{{
			Name:   "vector_search",
			Status: chat.StatusSuccess,
			Result: map[string]any{"status": "success"},
		}},
		Items: chat.ItemList{
			&chat.TextSegment{Content: "Camelids."},
			&chat.ToolInvocation{Name: "vector_search", Status: chat.StatusSuccess},
		},
	}
}

func TestPutLoadRoundTrip(t *testing.T) {
	o, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := o.Put("conv-1", sampleTurn()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	byName, names, err := o.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("got %d entries, want 1", len(names))
	}
	e := byName[names[0]]
	if e.ConversationID != "conv-1" {
		t.Errorf("conversation = %q", e.ConversationID)
	}
	if e.Turn.Answer != "Camelids." {
		t.Errorf("answer = %q", e.Turn.Answer)
	}
	if len(e.Turn.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(e.Turn.Items))
	}
	inv, ok := e.Turn.Items[1].(*chat.ToolInvocation)
	if !ok || inv.Name != "vector_search" || inv.Status != chat.StatusSuccess {
		t.Errorf("items[1] = %#v", e.Turn.Items[1])
	}
}

func TestLoadOrdersByTime(t *testing.T) {
	o, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first := sampleTurn()
	first.Query = "first"
	second := sampleTurn()
	second.Query = "second"

	if err := o.Put("c1", first); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := o.Put("c1", second); err != nil {
		t.Fatal(err)
	}

	byName, names, err := o.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("got %d entries, want 2", len(names))
	}
	if byName[names[0]].Turn.Query != "first" || byName[names[1]].Turn.Query != "second" {
		t.Errorf("wrong order: %q then %q", byName[names[0]].Turn.Query, byName[names[1]].Turn.Query)
	}
}

func TestFlushDeliversAndRemoves(t *testing.T) {
	o, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := o.Put("conv-1", sampleTurn()); err != nil {
		t.Fatal(err)
	}

	saver := &fakeSaver{}
	if n := o.Flush(context.Background(), saver); n != 1 {
		t.Errorf("delivered = %d, want 1", n)
	}
	if len(saver.turns) != 1 {
		t.Errorf("saver calls = %d", len(saver.turns))
	}

	_, names, err := o.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("entries remaining = %d, want 0", len(names))
	}
}

func TestFlushKeepsFailedEntries(t *testing.T) {
	o, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := o.Put("conv-1", sampleTurn()); err != nil {
		t.Fatal(err)
	}

	saver := &fakeSaver{err: errors.New("still down")}
	if n := o.Flush(context.Background(), saver); n != 0 {
		t.Errorf("delivered = %d, want 0", n)
	}

	_, names, err := o.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(names) != 1 {
		t.Errorf("entries remaining = %d, want 1", len(names))
	}
}

func TestLoadEmptyDir(t *testing.T) {
	o, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	byName, names, err := o.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(byName) != 0 || len(names) != 0 {
		t.Errorf("expected empty outbox, got %d entries", len(names))
	}
}
