// Package outbox spills turns that failed to persist to the backend into
// local files, so an answer is never lost to a transient save error. Spilled
// turns are retried on the next opportunity and removed once delivered.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/awilkes/kbchat/internal/chat"
)

const entryVersion = 1

type Entry struct {
	Version        int            `json:"version"`
	ConversationID string         `json:"conversation_id"`
	Turn           chat.SavedTurn `json:"turn"`
	SavedAt        time.Time      `json:"saved_at"`
}

type Outbox struct {
	dir string
	mu  sync.Mutex
	seq int
}

// New opens the outbox at dir, creating it if needed. An empty dir selects
// the default location under the user config directory.
func New(dir string) (*Outbox, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "kbchat", "outbox")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create outbox dir: %w", err)
	}
	return &Outbox{dir: dir}, nil
}

// Dir returns the outbox directory path.
func (o *Outbox) Dir() string {
	return o.dir
}

// Put writes one failed turn. The write is atomic: a crash mid-write leaves
// a .tmp file the loader ignores, never a truncated entry.
func (o *Outbox) Put(conversationID string, turn chat.SavedTurn) error {
	e := Entry{
		Version:        entryVersion,
		ConversationID: conversationID,
		Turn:           turn,
		SavedAt:        time.Now(),
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal outbox entry: %w", err)
	}
	data = append(data, '\n')

	o.mu.Lock()
	o.seq++
	name := fmt.Sprintf("%d-%d.json", time.Now().UnixNano(), o.seq)
	o.mu.Unlock()

	target := filepath.Join(o.dir, name)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp outbox file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename outbox file: %w", err)
	}
	return nil
}

// Load returns all pending entries, oldest first, keyed by filename.
// Unreadable or stale-version files are skipped with a warning, not lost.
func (o *Outbox) Load() (map[string]Entry, []string, error) {
	entries, err := os.ReadDir(o.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read outbox dir: %w", err)
	}

	byName := make(map[string]Entry)
	var names []string
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(o.dir, de.Name()))
		if err != nil {
			log.Printf("warning: read outbox file %s: %v", de.Name(), err)
			continue
		}

		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			log.Printf("warning: parse outbox file %s: %v", de.Name(), err)
			continue
		}
		if e.Version != entryVersion {
			log.Printf("warning: outbox file %s has version %d, expected %d, skipping", de.Name(), e.Version, entryVersion)
			continue
		}

		byName[de.Name()] = e
		names = append(names, de.Name())
	}

	sort.Slice(names, func(i, j int) bool {
		return byName[names[i]].SavedAt.Before(byName[names[j]].SavedAt)
	})

	return byName, names, nil
}

// Remove deletes a delivered entry.
func (o *Outbox) Remove(name string) error {
	if err := os.Remove(filepath.Join(o.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove outbox file: %w", err)
	}
	return nil
}

// Flush retries delivery of every pending entry through saver. It returns
// the number delivered; entries that fail again stay spilled.
func (o *Outbox) Flush(ctx context.Context, saver chat.Saver) int {
	byName, names, err := o.Load()
	if err != nil {
		log.Printf("warning: load outbox: %v", err)
		return 0
	}

	delivered := 0
	for _, name := range names {
		e := byName[name]
		if err := saver.SaveTurn(ctx, e.ConversationID, e.Turn); err != nil {
			log.Printf("warning: redeliver outbox entry %s: %v", name, err)
			continue
		}
		if err := o.Remove(name); err != nil {
			log.Printf("warning: %v", err)
		}
		delivered++
	}
	return delivered
}
