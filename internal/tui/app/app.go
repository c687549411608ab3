package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ach "github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/games"
	"github.com/programmatix/game-tracker/internal/tui/client"
	"github.com/programmatix/game-tracker/internal/tui/theme"
	"github.com/programmatix/game-tracker/internal/tui/views/achievements"
	"github.com/programmatix/game-tracker/internal/tui/views/detail"
	"github.com/programmatix/game-tracker/internal/tui/views/feed"
	"github.com/programmatix/game-tracker/internal/tui/views/status"
	"github.com/programmatix/game-tracker/internal/ws"
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayDetail
	OverlayActivity
)

const healthPollInterval = 30 * time.Second

// Server is what the model needs from the REST API.
type Server interface {
	GetAchievements(ctx context.Context) (ws.AchievementsResponse, error)
	GetEntries(ctx context.Context, gameID string) ([]games.Entry, error)
	GetHealth(ctx context.Context) (ws.HealthPayload, error)
	Pins(ctx context.Context) ([]string, error)
	TogglePin(ctx context.Context, id string) ([]string, error)
}

// Listener is what the model needs from the WebSocket client.
type Listener interface {
	Listen(ctx context.Context) tea.Cmd
	ReadLoop(ctx context.Context) tea.Cmd
}

// --- command results ---

type achievementsLoadedMsg struct {
	resp ws.AchievementsResponse
	err  error
}

type pinsLoadedMsg struct {
	ids []string
	err error
}

type pinToggledMsg struct {
	id  string
	ids []string
	err error
}

type entriesLoadedMsg struct {
	gameID  string
	entries []games.Entry
	err     error
}

type healthMsg struct {
	health ws.HealthPayload
	err    error
}

type healthTickMsg struct{}

// Model is the root Bubble Tea model.
type Model struct {
	ws     Listener
	http   Server
	ctx    context.Context
	cancel context.CancelFunc

	keys   KeyMap
	width  int
	height int

	// all is the ladder as last received; the lists are re-sorted from it
	// whenever pins change.
	all       []ach.Achievement
	pinned    []string
	announced map[string]bool
	overlay   Overlay

	list      achievements.Model
	statusBar status.Model
	feed      feed.Model
	detail    detail.Model

	connected bool
}

// New creates the root model.
func New(wsClient Listener, httpClient Server) Model {
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		ws:        wsClient,
		http:      httpClient,
		ctx:       ctx,
		cancel:    cancel,
		keys:      DefaultKeyMap(),
		list:      achievements.New(),
		statusBar: status.New(),
		feed:      feed.New(),
		announced: make(map[string]bool),
	}
}

// Init connects the WebSocket and fetches the initial state over HTTP.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ws.Listen(m.ctx), m.fetchAchievements(), m.fetchPins(), m.fetchHealth())
}

func (m Model) fetchAchievements() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.http.GetAchievements(m.ctx)
		return achievementsLoadedMsg{resp: resp, err: err}
	}
}

func (m Model) fetchPins() tea.Cmd {
	return func() tea.Msg {
		ids, err := m.http.Pins(m.ctx)
		return pinsLoadedMsg{ids: ids, err: err}
	}
}

func (m Model) fetchHealth() tea.Cmd {
	return func() tea.Msg {
		h, err := m.http.GetHealth(m.ctx)
		return healthMsg{health: h, err: err}
	}
}

func (m Model) fetchEntries(gameID string) tea.Cmd {
	return func() tea.Msg {
		entries, err := m.http.GetEntries(m.ctx, gameID)
		return entriesLoadedMsg{gameID: gameID, entries: entries, err: err}
	}
}

func (m Model) togglePin(id string) tea.Cmd {
	return func() tea.Msg {
		ids, err := m.http.TogglePin(m.ctx, id)
		return pinToggledMsg{id: id, ids: ids, err: err}
	}
}

func (m Model) isPinned(id string) bool {
	return ach.NewPinSet(m.pinned)[id]
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case client.WSConnectedMsg:
		m.connected = true
		m.statusBar.Connected = true
		m.feed.Add(feed.KindConn, "connected")
		return m, m.ws.ReadLoop(m.ctx)

	case client.WSDisconnectedMsg:
		if m.connected {
			m.feed.Add(feed.KindConn, "disconnected")
		}
		m.connected = false
		m.statusBar.Connected = false
		return m, m.ws.Listen(m.ctx)

	case client.WSSnapshotMsg:
		m.applyPartition(ach.Partition{Available: msg.Payload.Available, Completed: msg.Payload.Completed})
		m.announceNew(msg.Payload.NewSinceSnapshot)
		m.statusBar.Username = msg.Payload.Username
		m.statusBar.ComputedAt = msg.Payload.ComputedAt
		return m, m.ws.ReadLoop(m.ctx)

	case client.WSUnlockedMsg:
		m.feed.AddUnlocks(msg.Payload.Achievements)
		return m, m.ws.ReadLoop(m.ctx)

	case client.WSErrorMsg:
		m.feed.Add(feed.KindError, msg.Payload.Error)
		return m, m.ws.ReadLoop(m.ctx)

	case achievementsLoadedMsg:
		if msg.err != nil {
			m.feed.Add(feed.KindError, "achievements: "+msg.err.Error())
			return m, nil
		}
		m.applyPartition(ach.Partition{Available: msg.resp.Available, Completed: msg.resp.Completed})
		m.announceNew(msg.resp.NewSinceSnapshot)
		return m, nil

	case pinsLoadedMsg:
		if msg.err != nil {
			m.feed.Add(feed.KindError, "pins: "+msg.err.Error())
			return m, nil
		}
		m.setPinned(msg.ids)
		return m, nil

	case pinToggledMsg:
		if msg.err != nil {
			m.detail.PinError = msg.err.Error()
			m.feed.Add(feed.KindError, "pin: "+msg.err.Error())
			return m, nil
		}
		m.setPinned(msg.ids)
		m.detail.PinError = ""
		if m.isPinned(msg.id) {
			m.feed.Add(feed.KindPin, "pinned "+msg.id)
		} else {
			m.feed.Add(feed.KindPin, "unpinned "+msg.id)
		}
		return m, m.fetchAchievements()

	case entriesLoadedMsg:
		if m.overlay != OverlayDetail || m.detail.Achievement == nil || m.detail.Achievement.GameID != msg.gameID {
			return m, nil
		}
		if msg.err != nil {
			m.detail.EntryErr = msg.err.Error()
		} else {
			m.detail.Entries = msg.entries
		}
		return m, nil

	case healthMsg:
		if msg.err == nil {
			m.statusBar.Health = msg.health
		}
		return m, tea.Tick(healthPollInterval, func(time.Time) tea.Msg { return healthTickMsg{} })

	case healthTickMsg:
		return m, m.fetchHealth()
	}

	return m, nil
}

func (m *Model) applyPartition(p ach.Partition) {
	all := make([]ach.Achievement, 0, len(p.Available)+len(p.Completed))
	for _, list := range [][]ach.Achievement{p.Available, p.Completed} {
		for _, a := range list {
			a.Unlocked = false
			all = append(all, a)
		}
	}
	m.all = all
	m.resort()
}

// resort orders the ladder with the current pins, which may live on this
// device rather than on the server.
func (m *Model) resort() {
	p := ach.SortUnlocked(m.all, ach.NewPinSet(m.pinned))
	m.list.SetPartition(p)
	m.statusBar.SetCounts(len(p.Available), len(p.Completed))
}

// announceNew adds each achievement new since the last visit to the feed once.
func (m *Model) announceNew(list []ach.Achievement) {
	var fresh []ach.Achievement
	for _, a := range list {
		if !m.announced[a.ID] {
			m.announced[a.ID] = true
			fresh = append(fresh, a)
		}
	}
	m.feed.AddNewSince(fresh)
}

func (m *Model) setPinned(ids []string) {
	m.pinned = ids
	m.list.SetPinned(ids)
	m.resort()
	if m.detail.Achievement != nil {
		m.detail.Pinned = m.isPinned(m.detail.Achievement.ID)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.cancel()
		return m, tea.Quit
	}

	switch m.overlay {
	case OverlayDetail:
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.overlay = OverlayNone
			m.detail = detail.Model{}
		case key.Matches(msg, m.keys.Pin) && m.detail.Achievement != nil:
			return m, m.togglePin(m.detail.Achievement.ID)
		}
		return m, nil
	case OverlayActivity:
		switch {
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Activity):
			m.overlay = OverlayNone
		case key.Matches(msg, m.keys.Up):
			m.feed.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.feed.ScrollDown(1)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Enter):
		a, ok := m.list.Selected()
		if !ok {
			return m, nil
		}
		m.detail = detail.New(a, m.isPinned(a.ID))
		m.overlay = OverlayDetail
		return m, m.fetchEntries(a.GameID)

	case key.Matches(msg, m.keys.Pin):
		if a, ok := m.list.Selected(); ok {
			return m, m.togglePin(a.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Activity):
		m.overlay = OverlayActivity
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(m.fetchAchievements(), m.fetchPins(), m.fetchHealth())

	default:
		m.list = m.list.Update(msg)
	}

	return m, nil
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	switch m.overlay {
	case OverlayDetail:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.detail.View())
	case OverlayActivity:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.feed.View(min(m.width-4, 100), m.height-2))
	}

	bar := m.statusBar.View()
	help := theme.StyleDimmed.Render("  j/k:navigate  tab:next/completed  enter:detail  p:pin  a:activity  r:refresh  q:quit")
	listHeight := m.height - lipgloss.Height(bar) - lipgloss.Height(help) - 1

	var latest string
	if e, ok := m.feed.Latest(feed.KindUnlock); ok {
		latest = lipgloss.NewStyle().Foreground(theme.ColorUnlocked).Render("  ★ Unlocked " + e.Message)
		listHeight--
	}

	sections := []string{bar}
	if latest != "" {
		sections = append(sections, latest)
	}
	sections = append(sections, m.list.View(m.width-2, listHeight), help)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
