package chat

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/awilkes/kbchat/internal/stream"
)

const saveTimeout = 10 * time.Second

// Turn drives one query/response exchange end to end: it reads the NDJSON
// response body, frames and classifies records, queues them through the
// drainer into the session, and finalizes exactly once when the transport
// closes, fails, or is canceled.
//
// Turns are independent; each owns its framer, queue, and session, and
// nothing is shared between concurrent turns.
type Turn struct {
	ConversationID string
	Query          string

	session *Session
	drainer *Drainer
	saver   Saver
	body    io.ReadCloser

	changeCh chan struct{}
	doneCh   chan struct{}
	cancel   context.CancelFunc
	once     sync.Once

	mu      sync.Mutex
	saved   SavedTurn
	saveErr error
}

// NewTurn wires a turn around a streaming response body. saver may be nil
// (nothing is persisted); sink may be nil (mindmap deltas are dropped).
func NewTurn(conversationID, query string, body io.ReadCloser, saver Saver, sink MindmapSink) *Turn {
	t := &Turn{
		ConversationID: conversationID,
		Query:          query,
		saver:          saver,
		body:           body,
		changeCh:       make(chan struct{}, 1),
		doneCh:         make(chan struct{}),
	}
	t.session = NewSession(sink)
	t.drainer = NewDrainer(t.session.Apply, t.notifyChange)
	return t
}

// Start launches the drain and reader goroutines. The turn finishes on
// its own when the body ends; Cancel aborts it early.
func (t *Turn) Start(ctx context.Context) {
	ctx, t.cancel = context.WithCancel(ctx)
	go t.drainer.Run()
	go t.consume(ctx)
}

// Cancel aborts the transport read. The finalizer still runs with
// whatever partial state exists.
func (t *Turn) Cancel() {
	if t.cancel != nil {
		t.cancel()
	}
}

// Session exposes the live-updating turn state for rendering.
func (t *Turn) Session() *Session {
	return t.session
}

// Changes delivers a coalesced signal whenever the session advanced.
func (t *Turn) Changes() <-chan struct{} {
	return t.changeCh
}

// Done closes once the turn is finalized.
func (t *Turn) Done() <-chan struct{} {
	return t.doneCh
}

// Saved returns the finalized turn. Valid after Done closes.
func (t *Turn) Saved() SavedTurn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saved
}

// SaveErr reports a persistence failure, if any. Valid after Done closes.
func (t *Turn) SaveErr() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saveErr
}

func (t *Turn) consume(ctx context.Context) {
	// Closing the body is what unblocks a pending Read on cancellation.
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			t.body.Close()
		case <-watchDone:
		}
	}()

	framer := stream.NewLineFramer()
	buf := make([]byte, 4096)
	var readErr error
	for {
		n, err := t.body.Read(buf)
		if n > 0 {
			for _, line := range framer.Write(string(buf[:n])) {
				t.enqueueLine(line)
			}
		}
		if err != nil {
			if err != io.EOF {
				readErr = err
			}
			break
		}
	}
	if line, ok := framer.Flush(); ok {
		t.enqueueLine(line)
	}

	switch {
	case ctx.Err() != nil:
		t.drainer.Enqueue(stream.Event{Kind: stream.KindError, Text: "response interrupted before completion"})
	case readErr != nil:
		t.drainer.Enqueue(stream.Event{Kind: stream.KindError, Text: readErr.Error()})
	}

	close(watchDone)
	t.body.Close()

	t.drainer.Close()
	if !t.drainer.WaitDrained(drainWindow) {
		log.Printf("warning: turn %s: drain window elapsed with records still queued", t.ConversationID)
	}
	t.finalize()
}

func (t *Turn) enqueueLine(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	ev, ok := stream.Classify(line)
	if !ok {
		t.session.recordDiscarded()
		log.Printf("warning: discarding unparseable stream record (%d bytes)", len(line))
		return
	}
	t.drainer.Enqueue(ev)
}

func (t *Turn) finalize() {
	t.once.Do(func() {
		t.session.markDone()

		saved := SavedTurn{
			Query:       t.Query,
			Answer:      t.session.FlattenedText(),
			Invocations: t.session.Invocations(),
			Items:       t.session.Items(),
		}
		t.mu.Lock()
		t.saved = saved
		t.mu.Unlock()

		if t.saver != nil {
			// The turn's own context may already be canceled; saving gets
			// its own deadline.
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()
			if err := t.saver.SaveTurn(ctx, t.ConversationID, saved); err != nil {
				log.Printf("warning: persist turn: %v", err)
				t.mu.Lock()
				t.saveErr = err
				t.mu.Unlock()
			}
		}

		t.notifyChange()
		close(t.doneCh)
	})
}

func (t *Turn) notifyChange() {
	select {
	case t.changeCh <- struct{}{}:
	default:
	}
}
