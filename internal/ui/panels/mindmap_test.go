package panels

import (
	"strings"
	"testing"

	"github.com/awilkes/kbchat/internal/mindmap"
)

func TestMindmapEmptyPlaceholder(t *testing.T) {
	m := NewMindmap(mindmap.NewDoc())
	m.SetSize(40, 12)

	view := m.View()
	if !strings.Contains(view, "[4] Mindmap") {
		t.Errorf("view missing title:\n%s", view)
	}
	if !strings.Contains(view, "No mindmap for this conversation yet.") {
		t.Errorf("empty doc should show placeholder:\n%s", view)
	}
}

func TestMindmapRefreshShowsContent(t *testing.T) {
	doc := mindmap.NewDoc()
	m := NewMindmap(doc)
	m.SetSize(40, 12)

	doc.AppendDelta("# Raft\n- leader election\n- log replication\n")
	m.Refresh()

	view := m.View()
	if !strings.Contains(view, "# Raft") {
		t.Errorf("view missing heading:\n%s", view)
	}
	if !strings.Contains(view, "- leader election") {
		t.Errorf("view missing bullet:\n%s", view)
	}
}

func TestMindmapYank(t *testing.T) {
	doc := mindmap.NewDoc()
	doc.AppendDelta("# Outline\n")
	m := NewMindmap(doc)
	m.SetSize(40, 12)

	_, cmd := m.Update(keyRunes("y"))
	if cmd == nil {
		t.Fatal("y should yank the document")
	}
	yank, ok := cmd().(YankMsg)
	if !ok {
		t.Fatalf("got %T, want YankMsg", cmd())
	}
	if yank.Text != "# Outline\n" {
		t.Errorf("yanked %q", yank.Text)
	}
}

func TestMindmapYankEmptyDoc(t *testing.T) {
	m := NewMindmap(mindmap.NewDoc())
	m.SetSize(40, 12)

	_, cmd := m.Update(keyRunes("y"))
	if cmd != nil {
		t.Error("empty doc should not yank")
	}
}
