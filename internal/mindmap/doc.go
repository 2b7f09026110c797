// Package mindmap accumulates the markdown mindmap document the backend
// streams alongside chat answers.
package mindmap

import (
	"strings"
	"sync"
)

// Doc is the append-only mindmap document for one conversation. Deltas
// arrive from the turn's drain goroutine; the render loop reads snapshots
// and listens for coalesced change signals.
type Doc struct {
	mu       sync.Mutex
	content  strings.Builder
	changeCh chan struct{}
}

func NewDoc() *Doc {
	return &Doc{changeCh: make(chan struct{}, 1)}
}

// AppendDelta adds streamed content to the document.
func (d *Doc) AppendDelta(content string) {
	if content == "" {
		return
	}
	d.mu.Lock()
	d.content.WriteString(content)
	d.mu.Unlock()
	d.notify()
}

// Content returns the accumulated markdown.
func (d *Doc) Content() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.content.String()
}

// Empty reports whether anything has streamed in yet.
func (d *Doc) Empty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.content.Len() == 0
}

// Reset clears the document, e.g. when switching conversations.
func (d *Doc) Reset() {
	d.mu.Lock()
	d.content.Reset()
	d.mu.Unlock()
	d.notify()
}

// Changes delivers a coalesced signal whenever the document changed.
func (d *Doc) Changes() <-chan struct{} {
	return d.changeCh
}

func (d *Doc) notify() {
	select {
	case d.changeCh <- struct{}{}:
	default:
	}
}
