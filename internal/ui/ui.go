package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/gigbuilder/internal/chords"
	"github.com/desertthunder/gigbuilder/internal/formatter"
	"github.com/desertthunder/gigbuilder/internal/models"
	"github.com/desertthunder/gigbuilder/internal/setlist"
	"github.com/desertthunder/gigbuilder/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SetView ViewState = iota
	ChartView
)

// Prefs reads and writes persisted boolean preferences.
type Prefs interface {
	Bool(key string) (bool, error)
	PutBool(key string, on bool) error
}

// StageModeKey is the preference key the stage mode flag is stored under.
const StageModeKey = "stage_mode"

// ModelOpts contains configuration options for creating a Model.
type ModelOpts struct {
	Title  string
	Prefs  Prefs
	Logger *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	session *setlist.Session
	prefs   Prefs
	logger  *log.Logger
	view    ViewState
	songs   []models.Song
	list    list.Model
	current int
	stage   bool
	width   int
	height  int
	help    help.Model
	keys    keyMap
}

// NewModel creates a stage view over the session's working set.
func NewModel(session *setlist.Session, opts ModelOpts) *Model {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.Title == "" {
		opts.Title = "Set"
	}

	songs := session.Set()
	l := list.New(songItems(songs), list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("%s (%d songs)", opts.Title, len(songs))
	l.KeyMap.Quit.SetEnabled(false)
	l.SetShowHelp(false)

	return &Model{
		session: session,
		prefs:   opts.Prefs,
		logger:  opts.Logger,
		view:    SetView,
		songs:   songs,
		list:    l,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// ViewState returns the current view.
func (m *Model) ViewState() ViewState { return m.view }

// StageMode reports whether the chart is rendered in stage mode.
func (m *Model) StageMode() bool { return m.stage }

// Current returns the zero-based position of the song shown in the chart view.
func (m *Model) Current() int { return m.current }

// Init restores the persisted stage mode preference.
func (m *Model) Init() tea.Cmd {
	return m.loadStageMode()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-4)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.view == SetView && m.list.FilterState() == list.Filtering {
			return m.updateList(msg)
		}
		if cmd, handled := m.handleGlobalKeys(msg); handled {
			return m, cmd
		}
		switch m.view {
		case SetView:
			return m.handleSetKeys(msg)
		case ChartView:
			return m.handleChartKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	if m.view == SetView {
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgStageModeLoaded:
		data := msg.data.(struct {
			on  bool
			err error
		})
		if data.err != nil {
			m.logger.Warn("failed to load stage mode", "error", data.err)
			return m, nil
		}
		m.stage = data.on
	case MsgStageModeSaved:
		if err, _ := msg.data.(error); err != nil {
			m.logger.Warn("failed to save stage mode", "error", err)
		}
	}
	return m, nil
}

// handleGlobalKeys handles the bindings that behave the same in every view.
func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.transUp):
		m.logger.Debug("transpose", "offset", m.session.TransposeUp())
		return nil, true
	case key.Matches(msg, m.keys.transDown):
		m.logger.Debug("transpose", "offset", m.session.TransposeDown())
		return nil, true
	case key.Matches(msg, m.keys.transZero):
		m.session.ResetTranspose()
		return nil, true
	case key.Matches(msg, m.keys.stage):
		m.stage = !m.stage
		return m.saveStageMode(m.stage), true
	}
	return nil, false
}

func (m *Model) handleSetKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.enter) && len(m.songs) > 0 {
		item, ok := m.list.SelectedItem().(songItem)
		if !ok {
			return m, nil
		}
		// Index is relative to the filtered items; position is the place in the set.
		m.current = item.position - 1
		m.view = ChartView
		return m, nil
	}
	return m.updateList(msg)
}

func (m *Model) handleChartKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.list.ResetFilter()
		m.list.Select(m.current)
		m.view = SetView
	case key.Matches(msg, m.keys.next):
		if m.current < len(m.songs)-1 {
			m.current++
		}
	case key.Matches(msg, m.keys.prev):
		if m.current > 0 {
			m.current--
		}
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) loadStageMode() tea.Cmd {
	if m.prefs == nil {
		return nil
	}
	return func() tea.Msg {
		on, err := m.prefs.Bool(StageModeKey)
		return stageModeLoadedMsg(on, err)
	}
}

func (m *Model) saveStageMode(on bool) tea.Cmd {
	if m.prefs == nil {
		return nil
	}
	return func() tea.Msg {
		return stageModeSavedMsg(m.prefs.PutBool(StageModeKey, on))
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SetView:
		return m.renderSet()
	case ChartView:
		return m.renderChart()
	default:
		return ""
	}
}

func (m *Model) renderSet() string {
	if len(m.songs) == 0 {
		return fmt.Sprintf("%s\n\n%s", styles.warn.Render("The set is empty."), m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.transUp, m.keys.transDown, m.keys.stage, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", m.list.View(), m.status(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderChart() string {
	song := m.songs[m.current]
	offset := m.session.Offset()

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("%d/%d  %s - %s", m.current+1, len(m.songs), song.Title, song.Artist)))
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n\n")

	chart := RenderChart(song, offset, m.stage)
	if m.stage {
		chart = styles.stage.Render(chart)
	}
	b.WriteString(chart)

	helpKeys := []key.Binding{m.keys.prev, m.keys.next, m.keys.transUp, m.keys.transDown, m.keys.transZero, m.keys.back, m.keys.quit}
	if !m.stage {
		b.WriteString("\n\n")
		b.WriteString(m.help.ShortHelpView(helpKeys))
	}
	return b.String()
}

// status prints the key, capo and transposition of the current song.
func (m *Model) status() string {
	offset := m.session.Offset()
	var parts []string

	if m.view == ChartView {
		song := m.songs[m.current]
		if song.Key != "" {
			k := "Key: " + string(song.Key)
			if offset.Active() {
				k += fmt.Sprintf(" (%s)", chords.Transpose(string(song.Key), offset.Int()))
			}
			parts = append(parts, k)
		}
		if song.Capo != "" && song.Capo != "0" {
			parts = append(parts, "Capo: "+string(song.Capo))
		}
	}

	parts = append(parts, "Transpose: "+offset.String())
	if m.stage {
		parts = append(parts, styles.ok.Render("STAGE"))
	}
	return styles.help.Render(strings.Join(parts, "  "))
}

// RenderChart lays out a song's chart for the terminal, one section per line.
//
// Stage mode separates sections with blank lines and chords with wider gaps.
func RenderChart(song models.Song, offset chords.Offset, stage bool) string {
	if song.HasChordLink() {
		return styles.warn.Render("Chords: " + song.ChordLink)
	}

	chart := setlist.Chart(song, offset)
	if chart.Empty() {
		return styles.help.Render(formatter.NoChords)
	}

	sep, gap := " - ", "\n"
	if stage {
		sep, gap = "   ", "\n\n"
	}

	var lines []string
	for _, section := range models.SectionOrder {
		symbols := chart[section]
		if len(symbols) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s  %s", styles.section.Render(section.Label()), styles.chord.Render(strings.Join(symbols, sep))))
	}
	return strings.Join(lines, gap)
}
