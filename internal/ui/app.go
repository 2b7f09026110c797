package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/awilkes/kbchat/internal/api"
	"github.com/awilkes/kbchat/internal/chat"
	"github.com/awilkes/kbchat/internal/config"
	"github.com/awilkes/kbchat/internal/mindmap"
	"github.com/awilkes/kbchat/internal/outbox"
	"github.com/awilkes/kbchat/internal/ui/clipboard"
	"github.com/awilkes/kbchat/internal/ui/layout"
	"github.com/awilkes/kbchat/internal/ui/panels"
	"github.com/awilkes/kbchat/internal/ui/styles"
)

const (
	panelConvList   = 0
	panelTranscript = 1
	panelComposer   = 2
	panelMindmap    = 3
)

const (
	requestTimeout = 10 * time.Second
	animInterval   = 120 * time.Millisecond
	graphPollEvery = 5 * time.Second
)

type App struct {
	config *config.Config
	client *api.Client
	outbox *outbox.Outbox
	doc    *mindmap.Doc

	width        int
	height       int
	layout       layout.Layout
	focusedPanel int
	showMindmap  bool

	conversations []api.Conversation
	activeConv    *api.Conversation
	history       []panels.Block
	turn          *chat.Turn

	convList    panels.ConvList
	transcript  panels.Transcript
	composer    panels.Composer
	mindmapView panels.Mindmap
	statusBar   panels.StatusBar
	helpOverlay *panels.HelpOverlay
	keys        KeyMap
	ready       bool
}

func NewApp(cfg *config.Config, client *api.Client, box *outbox.Outbox) App {
	doc := mindmap.NewDoc()

	cl := panels.NewConvList()
	cl.SetFocused(true)

	comp := panels.NewComposer(cfg.Query.DefaultMode)

	sb := panels.NewStatusBar()
	sb.SetMode(cfg.Query.DefaultMode)

	showMindmap := cfg.UI.ShowMindmap == nil || *cfg.UI.ShowMindmap

	tr := panels.NewTranscript()
	if cfg.UI.ShowToolDetail != nil && !*cfg.UI.ShowToolDetail {
		tr.SetShowDetail(false)
	}

	return App{
		config:      cfg,
		client:      client,
		outbox:      box,
		doc:         doc,
		showMindmap: showMindmap,
		convList:    cl,
		transcript:  tr,
		composer:    comp,
		mindmapView: panels.NewMindmap(doc),
		statusBar:   sb,
		keys:        DefaultKeyMap(),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.loadConversations(),
		a.flushOutbox(),
		waitMindmap(a.doc),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout = layout.Calculate(msg.Width, msg.Height, a.showMindmap)
		a.propagateSizes()
		return a, nil

	case CloseModalMsg:
		a.helpOverlay = nil
		return a, nil

	case ConversationsLoadedMsg:
		if msg.Err != nil {
			a.statusBar.SetFlashWithLevel(msg.Err.Error(), panels.FlashError)
			return a, clearFlashLater()
		}
		a.conversations = msg.Conversations
		a.convList.SetConversations(msg.Conversations)
		if a.activeConv != nil {
			a.convList.SelectByID(a.activeConv.ID)
		}
		return a, nil

	case ConversationCreatedMsg:
		if msg.Err != nil {
			a.statusBar.SetFlashWithLevel(msg.Err.Error(), panels.FlashError)
			return a, clearFlashLater()
		}
		a.statusBar.SetFlashWithLevel("conversation created", panels.FlashSuccess)
		openCmd := a.openConversation(*msg.Conversation)
		return a, tea.Batch(a.loadConversations(), openCmd, clearFlashLater())

	case ConversationDeletedMsg:
		if msg.Err != nil {
			a.statusBar.SetFlashWithLevel(msg.Err.Error(), panels.FlashError)
			return a, clearFlashLater()
		}
		if a.activeConv != nil && a.activeConv.ID == msg.ID {
			a.activeConv = nil
			a.history = nil
			a.transcript.Reset()
			a.transcript.SetTitle("")
			a.statusBar.SetConversation("")
			a.statusBar.SetGraph(nil)
		}
		return a, a.loadConversations()

	case ConversationUpdatedMsg:
		if msg.Err != nil {
			a.statusBar.SetFlashWithLevel(msg.Err.Error(), panels.FlashError)
			return a, clearFlashLater()
		}
		if msg.Conversation != nil && a.activeConv != nil && a.activeConv.ID == msg.Conversation.ID {
			conv := *msg.Conversation
			a.activeConv = &conv
			title := conv.Title
			if title == "" {
				title = conv.ID
			}
			a.transcript.SetTitle(title)
			a.statusBar.SetConversation(title)
		}
		return a, a.loadConversations()

	case HistoryLoadedMsg:
		if msg.Err != nil {
			a.statusBar.SetFlashWithLevel(msg.Err.Error(), panels.FlashError)
			return a, clearFlashLater()
		}
		if a.activeConv == nil || a.activeConv.ID != msg.ConversationID {
			return a, nil
		}
		a.history = historyBlocks(msg.Messages)
		a.syncTranscript()
		return a, nil

	case GraphStatusMsg:
		if msg.Err == nil {
			a.statusBar.SetGraph(msg.Status)
		}
		// Keep polling while the graph is still indexing.
		if a.activeConv != nil && (msg.Err != nil || !msg.Status.Ready) {
			id := a.activeConv.ID
			return a, tea.Tick(graphPollEvery, func(time.Time) tea.Msg {
				return graphPollMsg{ID: id}
			})
		}
		return a, nil

	case graphPollMsg:
		if a.activeConv == nil || a.activeConv.ID != msg.ID {
			return a, nil
		}
		return a, a.fetchGraphStatus(msg.ID)

	case TurnStartedMsg:
		if msg.Err != nil {
			a.composer.SetBusy(false)
			a.statusBar.SetStreaming(false)
			a.statusBar.SetFlashWithLevel(msg.Err.Error(), panels.FlashError)
			return a, clearFlashLater()
		}
		a.turn = msg.Turn
		a.syncTranscript()
		return a, tea.Batch(waitTurn(msg.Turn), animTick())

	case TurnUpdatedMsg:
		if a.turn == nil {
			return a, nil
		}
		a.syncTranscript()
		return a, waitTurn(a.turn)

	case TurnDoneMsg:
		return a.finishTurn()

	case AnimTickMsg:
		a.statusBar.Tick()
		var cmd tea.Cmd
		a.transcript, cmd = a.transcript.Update(msg)
		if a.turn != nil {
			return a, tea.Batch(cmd, animTick())
		}
		return a, cmd

	case MindmapUpdatedMsg:
		a.mindmapView.Refresh()
		return a, waitMindmap(a.doc)

	case OutboxFlushedMsg:
		if msg.Delivered > 0 {
			a.statusBar.SetFlashWithLevel(
				fmt.Sprintf("delivered %d queued turn(s)", msg.Delivered), panels.FlashSuccess)
			return a, clearFlashLater()
		}
		return a, nil

	case ClearFlashMsg:
		a.statusBar.ClearFlash()
		return a, nil

	case panels.SelectConversationMsg:
		for _, cv := range a.conversations {
			if cv.ID == msg.ID {
				cmd := a.openConversation(cv)
				return a, cmd
			}
		}
		return a, nil

	case panels.NewConversationMsg:
		return a, a.createConversation()

	case panels.DeleteConversationMsg:
		return a, a.deleteConversation(msg.ID)

	case panels.TogglePinMsg:
		return a, a.togglePin(msg.ID, msg.Pinned)

	case panels.RenameConversationMsg:
		return a, a.renameConversation(msg.ID, msg.Title)

	case panels.SubmitQueryMsg:
		return a.submitQuery(msg.Query, msg.Mode)

	case YankMsg:
		if err := clipboard.Write(msg.Text); err != nil {
			a.statusBar.SetFlashWithLevel("copy failed: "+err.Error(), panels.FlashError)
		} else {
			a.statusBar.SetFlashWithLevel("copied to clipboard", panels.FlashSuccess)
		}
		return a, clearFlashLater()

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.helpOverlay != nil {
		var cmd tea.Cmd
		*a.helpOverlay, cmd = a.helpOverlay.Update(msg)
		return a, cmd
	}

	// Text-entry modes swallow everything global.
	if a.focusedPanel == panelConvList && a.convList.ConsumesKeys() {
		return a.routeKey(msg)
	}
	if a.focusedPanel == panelTranscript && a.transcript.ConsumesKeys() {
		return a.routeKey(msg)
	}
	if a.focusedPanel == panelComposer {
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			if a.turn != nil {
				a.turn.Cancel()
				return a, nil
			}
			a.focusedPanel = panelConvList
			a.updateFocusState()
			return a, nil
		case "tab":
			return a.cycleFocus()
		}
		return a.routeKey(msg)
	}

	switch {
	case msg.String() == "ctrl+c", key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case msg.String() == "esc":
		if a.turn != nil {
			a.turn.Cancel()
			return a, nil
		}
	case key.Matches(msg, a.keys.FocusNext):
		return a.cycleFocus()
	case msg.String() == "1":
		a.focusedPanel = panelConvList
		a.updateFocusState()
		return a, nil
	case msg.String() == "2":
		a.focusedPanel = panelTranscript
		a.updateFocusState()
		return a, nil
	case msg.String() == "3":
		a.focusedPanel = panelComposer
		a.updateFocusState()
		return a, nil
	case msg.String() == "4":
		if a.showMindmap {
			a.focusedPanel = panelMindmap
			a.updateFocusState()
		}
		return a, nil
	case key.Matches(msg, a.keys.Mindmap):
		a.showMindmap = !a.showMindmap
		if !a.showMindmap && a.focusedPanel == panelMindmap {
			a.focusedPanel = panelTranscript
		}
		a.layout = layout.Calculate(a.width, a.height, a.showMindmap)
		a.propagateSizes()
		a.updateFocusState()
		return a, nil
	case key.Matches(msg, a.keys.Help):
		if a.helpOverlay == nil {
			a.helpOverlay = panels.NewHelpOverlay()
		} else {
			a.helpOverlay = nil
		}
		return a, nil
	}

	return a.routeKey(msg)
}

func (a App) cycleFocus() (tea.Model, tea.Cmd) {
	n := 3
	if a.showMindmap {
		n = 4
	}
	a.focusedPanel = (a.focusedPanel + 1) % n
	a.updateFocusState()
	return a, nil
}

func (a App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.focusedPanel {
	case panelConvList:
		var cmd tea.Cmd
		a.convList, cmd = a.convList.Update(msg)
		return a, cmd
	case panelTranscript:
		var cmd tea.Cmd
		a.transcript, cmd = a.transcript.Update(msg)
		return a, cmd
	case panelComposer:
		var cmd tea.Cmd
		a.composer, cmd = a.composer.Update(msg)
		return a, cmd
	case panelMindmap:
		var cmd tea.Cmd
		a.mindmapView, cmd = a.mindmapView.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) View() string {
	if !a.ready {
		return lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center, "Loading...")
	}

	if a.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%d×%d)\nMinimum: %d×%d",
			a.width, a.height, layout.MinWidth, layout.MinHeight)
		return lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center, msg)
	}

	convListView := a.convList.View()
	transcriptView := a.transcript.View()
	composerView := a.composer.View()
	statusBarView := a.statusBar.View()

	var rightCol string
	if a.showMindmap {
		rightCol = lipgloss.JoinVertical(lipgloss.Left,
			transcriptView, a.mindmapView.View(), composerView)
	} else {
		rightCol = lipgloss.JoinVertical(lipgloss.Left, transcriptView, composerView)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, convListView, rightCol)
	fullLayout := lipgloss.JoinVertical(lipgloss.Left, body, statusBarView)

	if a.helpOverlay != nil {
		modalView := a.helpOverlay.View()
		fullLayout = lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center, modalView,
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(styles.TextDim),
		)
	}

	return fullLayout
}

// graphPollMsg schedules a graph status re-check for a conversation.
type graphPollMsg struct {
	ID string
}

func (a *App) propagateSizes() {
	l := a.layout
	a.convList.SetSize(l.ConvListWidth, l.ConvListHeight)
	a.transcript.SetSize(l.TranscriptWidth, l.TranscriptHeight)
	if a.showMindmap {
		a.mindmapView.SetSize(l.MindmapWidth, l.MindmapHeight)
	}
	a.composer.SetSize(l.ComposerWidth, l.ComposerHeight)
	a.statusBar.SetSize(l.StatusBarWidth)
}

func (a *App) updateFocusState() {
	a.convList.SetFocused(a.focusedPanel == panelConvList)
	a.transcript.SetFocused(a.focusedPanel == panelTranscript)
	a.composer.SetFocused(a.focusedPanel == panelComposer)
	a.mindmapView.SetFocused(a.focusedPanel == panelMindmap)
}

// openConversation switches the transcript and status bar to a conversation
// and kicks off history and graph status loads.
func (a *App) openConversation(cv api.Conversation) tea.Cmd {
	conv := cv
	a.activeConv = &conv
	a.history = nil
	a.doc.Reset()
	a.mindmapView.Refresh()
	a.transcript.Reset()

	title := conv.Title
	if title == "" {
		title = conv.ID
	}
	a.transcript.SetTitle(title)
	a.statusBar.SetConversation(title)

	a.focusedPanel = panelComposer
	a.updateFocusState()

	return tea.Batch(a.loadHistory(conv.ID), a.fetchGraphStatus(conv.ID))
}

// submitQuery opens a streaming turn against the active conversation.
func (a App) submitQuery(query, mode string) (tea.Model, tea.Cmd) {
	if a.activeConv == nil {
		a.statusBar.SetFlashWithLevel("no conversation selected", panels.FlashWarning)
		return a, clearFlashLater()
	}
	if a.turn != nil {
		a.statusBar.SetFlashWithLevel("a turn is already streaming", panels.FlashWarning)
		return a, clearFlashLater()
	}

	a.composer.SetBusy(true)
	a.statusBar.SetStreaming(true)
	a.statusBar.SetMode(mode)

	id := a.activeConv.ID
	client := a.client
	doc := a.doc
	requireGraph := a.config.Query.RequireGraph == nil || *a.config.Query.RequireGraph

	return a, func() tea.Msg {
		if requireGraph {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			status, err := client.GraphStatus(ctx, id)
			cancel()
			if err != nil {
				return TurnStartedMsg{Err: err}
			}
			if !status.Ready {
				return TurnStartedMsg{Err: fmt.Errorf(
					"knowledge graph not ready (%d/%d documents)",
					status.Completed, status.Total)}
			}
		}

		body, err := client.StreamQuery(context.Background(), id, query, mode)
		if err != nil {
			return TurnStartedMsg{Err: err}
		}
		turn := chat.NewTurn(id, query, body, client, doc)
		turn.Start(context.Background())
		return TurnStartedMsg{Turn: turn}
	}
}

// finishTurn folds the completed turn into history and queues the saved
// exchange locally when server persistence failed.
func (a App) finishTurn() (tea.Model, tea.Cmd) {
	if a.turn == nil {
		return a, nil
	}
	turn := a.turn
	a.turn = nil
	a.composer.SetBusy(false)
	a.statusBar.SetStreaming(false)

	saved := turn.Saved()
	a.history = append(a.history, panels.Block{Query: saved.Query, Items: saved.Items})
	a.syncTranscript()

	var cmds []tea.Cmd
	if warnings := turn.Session().TakeWarnings(); len(warnings) > 0 {
		a.statusBar.SetFlashWithLevel(warnings[len(warnings)-1], panels.FlashWarning)
		cmds = append(cmds, clearFlashLater())
	}

	if err := turn.SaveErr(); err != nil {
		if a.outbox != nil {
			if perr := a.outbox.Put(turn.ConversationID, saved); perr == nil {
				a.statusBar.SetFlashWithLevel("save failed, queued locally", panels.FlashWarning)
			} else {
				a.statusBar.SetFlashWithLevel("save failed: "+err.Error(), panels.FlashError)
			}
		} else {
			a.statusBar.SetFlashWithLevel("save failed: "+err.Error(), panels.FlashError)
		}
		cmds = append(cmds, clearFlashLater())
	} else {
		cmds = append(cmds, a.loadConversations())
	}

	return a, tea.Batch(cmds...)
}

// syncTranscript rebuilds the transcript blocks from finished history plus
// the in-flight turn.
func (a *App) syncTranscript() {
	blocks := make([]panels.Block, len(a.history))
	copy(blocks, a.history)
	if a.turn != nil {
		blocks = append(blocks, panels.Block{
			Query:  a.turn.Query,
			Items:  a.turn.Session().Items(),
			Active: true,
		})
	}
	a.transcript.SetBlocks(blocks)
}

// historyBlocks pairs persisted messages into query/answer exchanges.
func historyBlocks(messages []api.Message) []panels.Block {
	var blocks []panels.Block
	for _, m := range messages {
		switch m.Role {
		case "user":
			blocks = append(blocks, panels.Block{Query: m.Content})
		case "assistant":
			if len(blocks) == 0 {
				blocks = append(blocks, panels.Block{})
			}
			b := &blocks[len(blocks)-1]
			if len(m.StreamItems) > 0 {
				b.Items = api.DecodeStreamItems(m.StreamItems)
			} else if m.Content != "" {
				b.Items = []chat.Item{&chat.TextSegment{Content: m.Content}}
			}
		}
	}
	return blocks
}

// Commands

func (a App) loadConversations() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		convs, err := client.ListConversations(ctx)
		return ConversationsLoadedMsg{Conversations: convs, Err: err}
	}
}

func (a App) createConversation() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		conv, err := client.CreateConversation(ctx, "")
		return ConversationCreatedMsg{Conversation: conv, Err: err}
	}
}

func (a App) deleteConversation(id string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.DeleteConversation(ctx, id)
		return ConversationDeletedMsg{ID: id, Err: err}
	}
}

func (a App) togglePin(id string, pinned bool) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		conv, err := client.UpdateConversation(ctx, id, api.UpdateConversation{Pinned: &pinned})
		return ConversationUpdatedMsg{Conversation: conv, Err: err}
	}
}

func (a App) renameConversation(id, title string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		conv, err := client.UpdateConversation(ctx, id, api.UpdateConversation{Title: &title})
		return ConversationUpdatedMsg{Conversation: conv, Err: err}
	}
}

func (a App) loadHistory(id string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		msgs, err := client.Messages(ctx, id)
		return HistoryLoadedMsg{ConversationID: id, Messages: msgs, Err: err}
	}
}

func (a App) fetchGraphStatus(id string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		status, err := client.GraphStatus(ctx, id)
		return GraphStatusMsg{Status: status, Err: err}
	}
}

func (a App) flushOutbox() tea.Cmd {
	if a.outbox == nil {
		return nil
	}
	box := a.outbox
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		return OutboxFlushedMsg{Delivered: box.Flush(ctx, client)}
	}
}

func waitTurn(t *chat.Turn) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-t.Changes():
			return TurnUpdatedMsg{}
		case <-t.Done():
			return TurnDoneMsg{}
		}
	}
}

func waitMindmap(doc *mindmap.Doc) tea.Cmd {
	return func() tea.Msg {
		<-doc.Changes()
		return MindmapUpdatedMsg{}
	}
}

func animTick() tea.Cmd {
	return tea.Tick(animInterval, func(time.Time) tea.Msg {
		return AnimTickMsg{}
	})
}

func clearFlashLater() tea.Cmd {
	return tea.Tick(panels.FlashDuration(), func(time.Time) tea.Msg {
		return ClearFlashMsg{}
	})
}
