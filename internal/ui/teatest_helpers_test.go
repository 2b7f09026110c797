package ui

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/awilkes/kbchat/internal/api"
	"github.com/awilkes/kbchat/internal/config"
)

const waitDuration = 3 * time.Second

// appAdapter wraps the App (value receiver model) into a model that
// suppresses Init() side effects (backend loads, mindmap listener) so the
// teatest program doesn't block forever on channel reads.
type appAdapter struct {
	app App
}

func newTestAppAdapter(tb testing.TB) *appAdapter {
	tb.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"conversations":[],"total":0}`))
	}))
	tb.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	client := api.NewClient(srv.URL, 5*time.Second)
	a := NewApp(&cfg, client, nil)
	return &appAdapter{app: a}
}

func (a *appAdapter) Init() tea.Cmd {
	// Skip the real Init() which blocks on the mindmap change channel.
	return nil
}

func (a *appAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.app.Update(msg)
	a.app = m.(App)
	return a, cmd
}

func (a *appAdapter) View() string {
	return a.app.View()
}

// tm.Output() is a streaming reader, so bytes consumed by one WaitFor call
// are gone for the next. Accumulate everything read per TestModel so
// successive waitForContains calls see the full output history.
var (
	outputMu   sync.Mutex
	outputBufs = map[*teatest.TestModel]*bytes.Buffer{}
)

// waitForContains waits until the output contains the given substring.
func waitForContains(tb testing.TB, tm *teatest.TestModel, substr string) {
	tb.Helper()
	outputMu.Lock()
	buf, ok := outputBufs[tm]
	if !ok {
		buf = &bytes.Buffer{}
		outputBufs[tm] = buf
	}
	outputMu.Unlock()
	teatest.WaitFor(
		tb,
		io.TeeReader(tm.Output(), buf),
		func([]byte) bool { return bytes.Contains(buf.Bytes(), []byte(substr)) },
		teatest.WithDuration(waitDuration),
	)
}
