package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/yaklabco/bigmd/internal/linkopen"
	"github.com/yaklabco/bigmd/internal/logging"
	"github.com/yaklabco/bigmd/pkg/config"
	"github.com/yaklabco/bigmd/pkg/document"
	"github.com/yaklabco/bigmd/pkg/render"
)

// cursorMode says who owns the n/N/Enter keys.
type cursorMode uint8

const (
	cursorNone cursorMode = iota
	cursorSearch
	cursorLinks
)

// Model is the interactive viewer state.
type Model struct {
	cfg      *config.Config
	renderer *render.Renderer
	worker   *Worker
	opener   *linkopen.Opener
	logger   *log.Logger

	title string

	doc        *document.Document
	generation uint64
	loadErr    error

	viewport Viewport
	width    int
	height   int

	mode      cursorMode
	searching bool
	input     textinput.Model
	search    SearchState
	links     LinkState

	// count is the pending vim-style movement multiplier.
	count int

	// reloadable is false for piped stdin, where there is nothing to
	// re-read.
	reloadable bool

	quitting bool
}

// NewModel assembles the viewer around an already-negotiated renderer.
func NewModel(cfg *config.Config, renderer *render.Renderer, worker *Worker, opener *linkopen.Opener, title string, logger *log.Logger) *Model {
	if logger == nil {
		logger = logging.Discard()
	}
	input := textinput.New()
	input.Prompt = "/"
	return &Model{
		cfg:        cfg,
		renderer:   renderer,
		worker:     worker,
		opener:     opener,
		title:      title,
		logger:     logger,
		input:      input,
		reloadable: true,
	}
}

// DisableReload turns off the r key for one-shot sources such as piped
// stdin.
func (m *Model) DisableReload() {
	m.reloadable = false
}

// Init requests the first document load.
func (m *Model) Init() tea.Cmd {
	m.worker.Reload()
	return nil
}

// Update drives the state machine.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case DocumentMsg:
		m.adopt(msg)
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.scrollBy(-2)
			case tea.MouseButtonWheelDown:
				m.scrollBy(2)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearchInput(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

// updateSearchInput handles keys while the query is being typed.
func (m *Model) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.input.Blur()
		m.search.Accept()
		m.mode = cursorSearch
		m.jumpSearch(m.search.Next(m.viewport.Top))
		return m, nil
	case "esc":
		m.searching = false
		m.input.Blur()
		m.search.Clear()
		m.mode = cursorNone
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.search.SetQuery(m.input.Value(), m.doc)
	return m, cmd
}

// updateNormal handles keys outside search input.
func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		if m.count < 100000 {
			m.count = m.count*10 + int(key[0]-'0')
		}
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "r":
		if m.reloadable {
			m.worker.Reload()
		}

	case "j", "down":
		m.scrollBy(1)
	case "k", "up":
		m.scrollBy(-1)
	case "d", "ctrl+d":
		m.scrollBy(m.viewport.HalfPageLines())
	case "u", "ctrl+u":
		m.scrollBy(-m.viewport.HalfPageLines())
	case " ", "pgdown", "ctrl+f":
		m.scrollBy(m.viewport.PageLines())
	case "b", "pgup", "ctrl+b":
		m.scrollBy(-m.viewport.PageLines())

	case "f":
		m.count = 0
		m.mode = cursorLinks
		m.links.Clear()
		m.jumpLink(m.links.Next(m.viewport.Top))

	case "G", "end":
		if m.count > 0 {
			m.viewport.ScrollTo(m.count - 1)
			m.count = 0
		} else {
			m.viewport.ToEnd()
		}
	case "g", "home":
		m.viewport.ScrollTo(maxInt(m.count, 1) - 1)
		m.count = 0

	case "/":
		m.searching = true
		m.count = 0
		m.input.SetValue("")
		m.search.SetQuery("", m.doc)
		m.mode = cursorSearch
		return m, m.input.Focus()

	case "n":
		m.cursorNext()
	case "N":
		m.cursorPrev()

	case "enter":
		if m.mode == cursorLinks {
			if link, ok := m.links.Current(); ok {
				m.openLink(link)
			}
		}

	case "backspace":
		m.count /= 10

	case "esc":
		if m.count > 0 {
			m.count = 0
			break
		}
		m.search.Clear()
		m.links.Clear()
		m.mode = cursorNone
	}
	return m, nil
}

// cursorNext advances the active cursor; with none active it enters
// link navigation starting from the scroll position.
func (m *Model) cursorNext() {
	switch m.mode {
	case cursorSearch:
		if m.search.Active() {
			m.jumpSearch(m.search.Next(m.viewport.Top))
			return
		}
		m.mode = cursorNone
		fallthrough
	default:
		m.mode = cursorLinks
		m.jumpLink(m.links.Next(m.viewport.Top))
	}
}

func (m *Model) cursorPrev() {
	switch m.mode {
	case cursorSearch:
		if m.search.Active() {
			m.jumpSearch(m.search.Prev(m.viewport.Top))
			return
		}
		m.mode = cursorNone
		fallthrough
	default:
		m.mode = cursorLinks
		m.jumpLink(m.links.Prev(m.viewport.Top))
	}
}

func (m *Model) jumpSearch(offset int, ok bool) {
	if ok {
		m.viewport.EnsureVisible(offset)
	}
}

func (m *Model) jumpLink(link document.Link, ok bool) {
	if ok {
		m.viewport.EnsureVisible(link.Offset)
	}
}

func (m *Model) openLink(link document.Link) {
	if err := m.opener.Open(link.Target); err != nil {
		m.logger.Warn("open link failed", "target", link.Target, logging.FieldError, err)
		return
	}
	m.logger.Debug("opened link", "target", link.Target)
}

func (m *Model) scrollBy(lines int) {
	if m.count > 0 {
		lines *= m.count
		m.count = 0
	}
	m.viewport.ScrollBy(lines)
}

// resize relays out the document for the new geometry.
func (m *Model) resize(width, height int) {
	if width == m.width && height == m.height {
		return
	}
	m.width = width
	m.height = height
	m.viewport.Height = maxInt(height-1, 1)

	if m.doc != nil && width != m.doc.Width() {
		m.doc.Layout(width, document.LayoutOptions{TierRatio: m.cfg.TierRatio})
		m.renderer.Invalidate()
		m.refreshDerived()
	}
	m.viewport.Total = m.totalLines()
	m.viewport.ScrollTo(m.viewport.Top)
}

// adopt installs a newer document generation; stale results from
// superseded loads are discarded.
func (m *Model) adopt(msg DocumentMsg) {
	if msg.Generation <= m.generation {
		m.logger.Debug("discarding stale generation",
			logging.FieldGeneration, msg.Generation)
		return
	}
	m.generation = msg.Generation
	m.loadErr = msg.Err
	if msg.Err != nil {
		return
	}

	m.doc = msg.Doc
	if m.width > 0 {
		m.doc.Layout(m.width, document.LayoutOptions{TierRatio: m.cfg.TierRatio})
	}
	m.renderer.Invalidate()
	m.refreshDerived()
	m.viewport.Total = m.totalLines()
	m.viewport.ScrollTo(m.viewport.Top)
	m.logger.Info("document adopted",
		logging.FieldGeneration, msg.Generation,
		logging.FieldLines, m.viewport.Total)
}

// refreshDerived recomputes offset-dependent state after layout.
func (m *Model) refreshDerived() {
	m.links.SetLinks(m.doc.Links())
	m.search.Refresh(m.doc)
}

func (m *Model) totalLines() int {
	if m.doc == nil {
		return 0
	}
	return m.doc.TotalLines()
}

// View renders the frame plus the status bar.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width < 1 || m.height < 2 {
		return ""
	}

	opts := render.FrameOptions{}
	if m.search.Query != "" {
		opts.Query = m.search.Query
	}
	if m.mode == cursorLinks {
		if link, ok := m.links.Current(); ok {
			opts.SelectTarget = link.Target
		}
	}

	rows := m.renderer.Frame(m.doc, m.viewport.Top, m.viewport.Height, opts)
	m.viewport.Total = m.totalLines()

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	sb.WriteString(m.statusBar())
	return sb.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
