package panels

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/awilkes/kbchat/internal/api"
)

func typeString(c Composer, s string) Composer {
	for _, r := range s {
		c, _ = c.Update(keyRunes(string(r)))
	}
	return c
}

func TestComposerSubmit(t *testing.T) {
	c := NewComposer(api.ModeMix)
	c.SetSize(60, 5)
	c.SetFocused(true)
	c = typeString(c, "what changed last week?")

	c, cmd := c.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("ctrl+s should produce a command")
	}
	msg, ok := cmd().(SubmitQueryMsg)
	if !ok {
		t.Fatalf("got %T, want SubmitQueryMsg", cmd())
	}
	if msg.Query != "what changed last week?" {
		t.Errorf("query = %q", msg.Query)
	}
	if msg.Mode != api.ModeMix {
		t.Errorf("mode = %q, want mix", msg.Mode)
	}
	if c.Value() != "" {
		t.Errorf("input should clear after submit, got %q", c.Value())
	}
}

func TestComposerSubmitTrimsWhitespace(t *testing.T) {
	c := NewComposer(api.ModeAgent)
	c.SetSize(60, 5)
	c.SetFocused(true)
	c = typeString(c, "  padded  ")

	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("ctrl+s should produce a command")
	}
	if msg := cmd().(SubmitQueryMsg); msg.Query != "padded" {
		t.Errorf("query = %q, want trimmed", msg.Query)
	}
}

func TestComposerEmptySubmitSuppressed(t *testing.T) {
	c := NewComposer(api.ModeAgent)
	c.SetSize(60, 5)
	c.SetFocused(true)
	c = typeString(c, "   ")

	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("blank input should not submit")
	}
}

func TestComposerBusySuppressesSubmit(t *testing.T) {
	c := NewComposer(api.ModeAgent)
	c.SetSize(60, 5)
	c.SetFocused(true)
	c = typeString(c, "queued question")
	c.SetBusy(true)

	c, cmd := c.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("submit should be suppressed while a turn is in flight")
	}
	if c.Value() != "queued question" {
		t.Errorf("input should be preserved, got %q", c.Value())
	}
}

func TestComposerModeSelection(t *testing.T) {
	c := NewComposer(api.ModeAgent)
	c.SetSize(60, 5)
	c.SetFocused(true)

	cases := []struct {
		key  string
		want string
	}{
		{"alt+l", api.ModeLocal},
		{"alt+g", api.ModeGlobal},
		{"alt+n", api.ModeNaive},
		{"alt+m", api.ModeMix},
		{"alt+a", api.ModeAgent},
	}
	for _, tc := range cases {
		c, _ = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tc.key[len("alt+"):]), Alt: true})
		if c.Mode() != tc.want {
			t.Errorf("%s: mode = %q, want %q", tc.key, c.Mode(), tc.want)
		}
	}
}

func TestComposerViewShowsModes(t *testing.T) {
	c := NewComposer(api.ModeLocal)
	c.SetSize(60, 5)

	view := c.View()
	if !strings.Contains(view, "[3] Composer") {
		t.Errorf("view missing title:\n%s", view)
	}
	for _, name := range []string{"agent", "mix", "local", "global", "naive"} {
		if !strings.Contains(view, name) {
			t.Errorf("view missing mode %q", name)
		}
	}
}
