package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fsnotify/fsnotify"

	"github.com/okatsu/mdpresent/internal/config"
	"github.com/okatsu/mdpresent/internal/deck"
	"github.com/okatsu/mdpresent/internal/nav"
	"github.com/okatsu/mdpresent/internal/outline"
)

const (
	statusHeight       = 1
	minContentWidth    = 20
	minPanelWidth      = 18
	defaultPanelWidth  = 30
	panelNotesTitle    = "Notes"
	panelOutlineTitle  = "Outline"
	noNotesPlaceholder = "(no notes for this slide)"
)

var (
	panelBlurBorderColor  = lipgloss.Color("#3b4261")
	panelFocusBorderColor = lipgloss.Color("#7aa2f7")
	panelTitleStyle       = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7aa2f7")).
				Bold(true)
	panelTextStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#a9b1d6"))
	outlineSelectedActive = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1a1b26")).
				Background(lipgloss.Color("#7aa2f7")).
				Bold(true)
	outlineSelectedInactive = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#c0caf5")).
				Background(lipgloss.Color("#283457"))
	helpBoxStyle = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Background(lipgloss.Color("#1f2335"))
	searchBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#a9b1d6")).
			Background(lipgloss.Color("#1f2335"))
	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#c0caf5")).
			Background(lipgloss.Color("#1f2335"))
	statusDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89")).
			Background(lipgloss.Color("#1f2335"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
)

type panelMode int

const (
	panelHidden panelMode = iota
	panelNotes
	panelOutline
)

// Model implements the Bubble Tea program for the deck presenter.
type Model struct {
	contentVP viewport.Model
	panelVP   viewport.Model

	dck  *deck.Deck
	ctrl *nav.Controller
	opts config.Options

	renderer       *glamour.TermRenderer
	rendererReady  bool
	rendererFailed bool
	rendererGen    int

	progressBar progress.Model

	panelMode           panelMode
	panelFocus          bool
	panelPreferredWidth int

	outlineRoot      *outline.Node
	flatOutline      []outlineLine
	outlineSelection int
	outlineWidth     int

	displayPath string
	rawLeaf     string
	rendered    string

	showHelp   bool
	pendingKey string
	ready      bool
	width      int
	height     int
	err        error

	searchInput   textinput.Model
	searchActive  bool
	searchQuery   string
	searchMatches []int
	searchIndex   int

	watcher          *fsnotify.Watcher
	watchDir         string
	watchedFile      string
	watchChan        chan tea.Msg
	initialWatchPath string
}

type outlineLine struct {
	entry *outline.Node
	label string
}

type rendererMsg struct {
	gen      int
	renderer *glamour.TermRenderer
	err      error
}

type fileEventMsg struct {
	path string
	op   fsnotify.Op
}

type fileWatchErrMsg struct {
	err error
}

// NewModel constructs the presenter model with the provided initial state.
func NewModel(state State) *Model {
	contentVP := viewport.New(0, 0)
	contentVP.Style = lipgloss.NewStyle().Padding(0, 1)
	contentVP.SetHorizontalStep(2)

	panelVP := viewport.New(0, 0)
	panelVP.Style = panelStyle(panelBlurBorderColor)
	panelVP.MouseWheelEnabled = false

	m := &Model{
		contentVP:           contentVP,
		panelVP:             panelVP,
		dck:                 state.Deck,
		opts:                state.Options,
		ctrl:                nav.NewController(state.Deck.Shape(), state.Options.Wrap),
		progressBar:         progress.New(progress.WithDefaultGradient()),
		panelPreferredWidth: defaultPanelWidth,
		displayPath:         state.DisplayPath,
		searchIndex:         -1,
	}

	m.ctrl.GoTo(state.Start.H, state.Start.V)

	if state.Options.Notes {
		m.panelMode = panelNotes
	}

	searchInput := textinput.New()
	searchInput.Prompt = "/"
	searchInput.CharLimit = 256
	searchInput.Placeholder = "search"
	searchInput.CursorEnd()
	searchInput.Blur()
	m.searchInput = searchInput

	if state.SourcePath != "" {
		m.initialWatchPath = state.SourcePath
	}

	m.outlineRoot = outline.Build(state.Deck)
	m.syncLeaf()

	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.initialWatchPath != "" {
		path := m.initialWatchPath
		m.initialWatchPath = ""
		return m.startWatching(path)
	}
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.dck.Empty() {
		message := emptyStyle.Render("No slides to show.\n\nThe document produced an empty deck. Press q to quit.")
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, message)
		}
		return message
	}

	body := m.contentVP.View()
	if m.panelMode != panelHidden {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.panelVP.View(), body)
	}

	if m.err != nil {
		errLine := errorStyle.Render(m.err.Error())
		body = lipgloss.JoinVertical(lipgloss.Left, errLine, body)
	}

	if m.showHelp {
		helpContent := strings.Join([]string{
			"Help (?: close / Esc)",
			"l / right / space : next slide",
			"h / left          : previous slide",
			"down / up         : vertical move within a group",
			"gg / G            : first / last slide",
			"j / k             : scroll slide content",
			"Ctrl+d / Ctrl+u   : half page scroll",
			"t                 : cycle side panel (notes, outline)",
			"Ctrl+h / Ctrl+l   : focus panel / content",
			"Enter (outline)   : jump to selected slide",
			"/                 : search within current slide",
			"n / N             : next / previous match",
			"q / Ctrl+c        : quit",
		}, "\n")
		helpOverlay := helpBoxStyle.Render(helpContent)
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpOverlay)
		}
		return helpOverlay
	}

	body = lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine())
	if m.opts.Progress {
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.progressBar.View())
	}

	if m.searchActive {
		body = lipgloss.JoinVertical(lipgloss.Left, body, searchBarStyle.Render(m.searchInput.View()))
	} else if m.searchQuery != "" {
		status := m.searchStatusLine()
		if status != "" {
			body = lipgloss.JoinVertical(lipgloss.Left, body, searchBarStyle.Render(status))
		}
	}

	return body
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rendererMsg:
		return m, m.handleRendererMsg(msg)
	case fileEventMsg:
		return m, m.handleFileEvent(msg)
	case fileWatchErrMsg:
		m.err = msg.err
		return m, m.waitForFileEvent()
	case tea.WindowSizeMsg:
		return m, m.resize(msg.Width, msg.Height)
	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd

	case tea.KeyMsg:
		if m.searchActive {
			switch msg.Type {
			case tea.KeyEnter:
				query := strings.TrimSpace(m.searchInput.Value())
				m.exitSearchMode()
				if query == "" {
					m.clearSearch()
					return m, nil
				}
				m.performSearch(query, true)
				return m, nil
			case tea.KeyEsc, tea.KeyCtrlC:
				m.exitSearchMode()
				return m, nil
			}
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			return m, cmd
		}

		key := msg.String()
		if key != "g" {
			m.pendingKey = ""
		}

		if m.showHelp {
			m.pendingKey = ""
			switch key {
			case "q", "?", "esc":
				m.showHelp = false
			}
			return m, nil
		}

		switch key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "?":
			m.showHelp = true
			m.pendingKey = ""
			return m, nil
		case "ctrl+h":
			if m.panelMode != panelHidden {
				m.focusPanel()
			}
			return m, nil
		case "ctrl+l":
			m.blurPanel()
			return m, nil
		case "t":
			m.cyclePanel()
			return m, nil
		case "/":
			return m, m.enterSearchMode()
		case "n":
			if len(m.searchMatches) > 0 {
				m.nextSearchMatch()
				return m, nil
			}
		case "N":
			if len(m.searchMatches) > 0 {
				m.previousSearchMatch()
				return m, nil
			}
		}

		if m.panelFocus && m.panelMode == panelOutline {
			handled, cmd := m.handleOutlineKey(key)
			if handled || cmd != nil {
				return m, cmd
			}
			return m, nil
		}

		if m.panelFocus && m.panelMode == panelNotes {
			if m.handleNotesPanelKey(key) {
				return m, nil
			}
		}

		if cmd, handled := m.handleContentKey(key); handled {
			return m, cmd
		}

		var cmd tea.Cmd
		m.contentVP, cmd = m.contentVP.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.contentVP, cmd = m.contentVP.Update(msg)
	return m, cmd
}

func (m *Model) handleContentKey(key string) (tea.Cmd, bool) {
	switch key {
	case "l", "right", " ", "pgdown":
		return m.navigate(m.ctrl.Next), true
	case "h", "left", "pgup":
		return m.navigate(m.ctrl.Prev), true
	case "enter":
		return m.navigate(m.ctrl.Next), true
	case "down":
		pos := m.ctrl.Pos()
		return m.navigate(func() bool { return m.ctrl.GoTo(pos.H, pos.V+1) }), true
	case "up":
		pos := m.ctrl.Pos()
		return m.navigate(func() bool { return m.ctrl.GoTo(pos.H, pos.V-1) }), true
	case "j":
		m.contentVP.ScrollDown(1)
	case "k":
		m.contentVP.ScrollUp(1)
	case "ctrl+d":
		m.contentVP.HalfPageDown()
	case "ctrl+u":
		m.contentVP.HalfPageUp()
	case "g":
		if m.pendingKey == "g" {
			m.pendingKey = ""
			return m.navigate(m.ctrl.First), true
		}
		m.pendingKey = "g"
		return nil, true
	case "G":
		m.pendingKey = ""
		return m.navigate(m.ctrl.Last), true
	default:
		return nil, false
	}
	m.pendingKey = ""
	return nil, true
}

func (m *Model) handleNotesPanelKey(key string) bool {
	switch key {
	case "j", "down":
		m.panelVP.ScrollDown(1)
	case "k", "up":
		m.panelVP.ScrollUp(1)
	case "ctrl+d":
		m.panelVP.HalfPageDown()
	case "ctrl+u":
		m.panelVP.HalfPageUp()
	default:
		return false
	}
	return true
}

func (m *Model) handleOutlineKey(key string) (bool, tea.Cmd) {
	if m.outlineRoot == nil {
		return false, nil
	}
	switch key {
	case "j", "down":
		m.moveOutlineSelection(1)
		return true, nil
	case "k", "up":
		m.moveOutlineSelection(-1)
		return true, nil
	case "ctrl+d":
		step := maxInt(1, m.panelVP.Height/2)
		m.moveOutlineSelection(step)
		return true, nil
	case "ctrl+u":
		step := maxInt(1, m.panelVP.Height/2)
		m.moveOutlineSelection(-step)
		return true, nil
	case "l", "right", "enter":
		return true, m.openOrDescend()
	case "h", "left":
		m.closeOrAscend()
		return true, nil
	case "g":
		if m.pendingKey == "g" {
			m.pendingKey = ""
			if len(m.flatOutline) > 0 {
				m.outlineSelection = 0
				m.updatePanelContent()
				m.ensureSelectionVisible()
			}
		} else {
			m.pendingKey = "g"
		}
		return true, nil
	case "G":
		m.pendingKey = ""
		if len(m.flatOutline) > 0 {
			m.outlineSelection = len(m.flatOutline) - 1
			m.updatePanelContent()
			m.ensureSelectionVisible()
		}
		return true, nil
	}
	m.pendingKey = ""
	return false, nil
}

// navigate runs a controller command and, when the position moved, refreshes
// the rendered leaf and kicks the progress bar animation.
func (m *Model) navigate(command func() bool) tea.Cmd {
	if !command() {
		return nil
	}
	m.syncLeaf()
	return m.progressCmd()
}

func (m *Model) progressCmd() tea.Cmd {
	total := m.ctrl.LeafTotal()
	if total == 0 {
		return nil
	}
	percent := float64(m.ctrl.LeafIndex()+1) / float64(total)
	return m.progressBar.SetPercent(percent)
}

// syncLeaf points the content viewport and the side panel at the leaf the
// controller currently addresses.
func (m *Model) syncLeaf() {
	pos := m.ctrl.Pos()
	leaf, ok := m.dck.Leaf(pos.H, pos.V)
	if !ok {
		return
	}
	m.rawLeaf = leaf.Content
	m.renderLeaf()
	m.contentVP.GotoTop()
	m.syncOutlineSelection()
	m.updatePanelContent()
}

// renderLeaf renders the active leaf through glamour when the renderer is
// ready, and falls back to the raw markdown until then (or permanently, when
// renderer construction failed).
func (m *Model) renderLeaf() {
	if !m.rendererReady || m.renderer == nil {
		m.rendered = m.rawLeaf
		m.contentVP.SetContent(m.rawLeaf)
		m.onContentChanged()
		return
	}
	rendered, err := m.renderer.Render(m.rawLeaf)
	if err != nil {
		m.rendered = m.rawLeaf
		m.contentVP.SetContent(m.rawLeaf)
		m.err = err
		m.onContentChanged()
		return
	}
	m.err = nil
	m.rendered = rendered
	m.contentVP.SetContent(rendered)
	m.onContentChanged()
}

func (m *Model) handleRendererMsg(msg rendererMsg) tea.Cmd {
	if msg.gen != m.rendererGen {
		return nil
	}
	if msg.err != nil {
		m.rendererFailed = true
		m.rendererReady = false
		return nil
	}
	m.renderer = msg.renderer
	m.rendererReady = true
	m.renderLeaf()
	return nil
}

// buildRenderer constructs the glamour renderer off the update loop so that
// navigation stays usable while styles load.
func (m *Model) buildRenderer(width int) tea.Cmd {
	if m.rendererFailed {
		return nil
	}
	m.rendererGen++
	gen := m.rendererGen
	theme := m.opts.Theme
	return func() tea.Msg {
		renderer, err := newRenderer(width, theme)
		return rendererMsg{gen: gen, renderer: renderer, err: err}
	}
}

func (m *Model) resize(width, height int) tea.Cmd {
	if width <= 0 || height <= 0 {
		return nil
	}

	m.width = width
	m.height = height
	m.ready = true

	chrome := statusHeight
	if m.opts.Progress {
		chrome++
	}

	panelWidth := m.panelWidth(width)
	contentWidth := width - panelWidth
	if m.panelMode != panelHidden && panelWidth > 0 {
		contentWidth--
	}
	if contentWidth < minContentWidth {
		contentWidth = minContentWidth
	}

	contentHeight := maxInt(height-chrome, 1)
	m.contentVP.Width = contentWidth
	m.contentVP.Height = contentHeight

	m.panelVP.Width = panelWidth
	m.panelVP.Height = contentHeight
	m.updatePanelContent()

	m.progressBar.Width = width

	wrapWidth := contentWidth - m.contentVP.Style.GetHorizontalFrameSize()
	if wrapWidth < 0 {
		wrapWidth = 0
	}
	return tea.Batch(m.buildRenderer(wrapWidth), m.progressCmd())
}

func (m *Model) panelWidth(totalWidth int) int {
	if m.panelMode == panelHidden {
		return 0
	}
	preferred := m.panelPreferredWidth
	if preferred <= 0 {
		preferred = defaultPanelWidth
	}

	frame := m.panelVP.Style.GetHorizontalFrameSize()
	minPanel := maxInt(minPanelWidth-frame, 0)
	maxPanel := maxInt(totalWidth/2-frame, minPanel)
	panelContentWidth := clamp(preferred, minPanel, maxPanel)

	width := panelContentWidth + frame
	if totalWidth-width < minContentWidth {
		width = maxInt(totalWidth-minContentWidth, 0)
	}
	if width > totalWidth {
		width = totalWidth
	}
	return width
}

func (m *Model) cyclePanel() {
	switch m.panelMode {
	case panelHidden:
		m.panelMode = panelNotes
	case panelNotes:
		m.panelMode = panelOutline
	default:
		m.panelMode = panelHidden
		m.blurPanel()
	}
	m.updatePanelStyle()
	m.resizeCurrent()
}

func (m *Model) resizeCurrent() {
	if m.width > 0 && m.height > 0 {
		// Renderer wrap width may change with the panel; rebuild lazily.
		_ = m.resize(m.width, m.height)
	}
}

func (m *Model) focusPanel() {
	m.panelFocus = true
	m.updatePanelStyle()
	m.updatePanelContent()
	m.ensureSelectionVisible()
}

func (m *Model) blurPanel() {
	m.panelFocus = false
	m.updatePanelStyle()
	m.updatePanelContent()
}

func (m *Model) updatePanelStyle() {
	color := panelBlurBorderColor
	if m.panelFocus {
		color = panelFocusBorderColor
	}
	m.panelVP.Style = panelStyle(color)
}

func panelStyle(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(color)
}

func (m *Model) updatePanelContent() {
	switch m.panelMode {
	case panelNotes:
		m.panelVP.SetContent(m.notesPanelContent())
	case panelOutline:
		m.rebuildFlatOutline()
		m.panelPreferredWidth = maxInt(m.outlineWidth+4, defaultPanelWidth)
		m.panelVP.SetContent(m.outlinePanelContent())
		m.ensureSelectionVisible()
	}
}

func (m *Model) notesPanelContent() string {
	pos := m.ctrl.Pos()
	leaf, ok := m.dck.Leaf(pos.H, pos.V)
	var text string
	if ok && leaf.Notes != "" {
		text = panelTextStyle.Render(leaf.Notes)
	} else {
		text = statusDimStyle.Render(noNotesPlaceholder)
	}
	return panelTitleStyle.Render(panelNotesTitle) + "\n\n" + text
}

func (m *Model) outlinePanelContent() string {
	var builder strings.Builder
	builder.WriteString(panelTitleStyle.Render(panelOutlineTitle))
	builder.WriteByte('\n')
	for i, line := range m.flatOutline {
		switch {
		case i == m.outlineSelection && m.panelFocus:
			builder.WriteString(outlineSelectedActive.Render(line.label))
		case i == m.outlineSelection:
			builder.WriteString(outlineSelectedInactive.Render(line.label))
		default:
			builder.WriteString(panelTextStyle.Render(line.label))
		}
		if i < len(m.flatOutline)-1 {
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}

func (m *Model) rebuildFlatOutline() {
	if m.outlineRoot == nil {
		m.flatOutline = nil
		return
	}
	var lines []outlineLine
	maxWidth := 0
	for _, slide := range m.outlineRoot.Children {
		label := formatOutlineLabel(slide, 0)
		if w := lipgloss.Width(label); w > maxWidth {
			maxWidth = w
		}
		lines = append(lines, outlineLine{entry: slide, label: label})
		if slide.IsGroup && slide.Open {
			for _, leaf := range slide.Children {
				label := formatOutlineLabel(leaf, 1)
				if w := lipgloss.Width(label); w > maxWidth {
					maxWidth = w
				}
				lines = append(lines, outlineLine{entry: leaf, label: label})
			}
		}
	}
	m.flatOutline = lines
	m.outlineWidth = maxWidth
	if m.outlineSelection >= len(lines) {
		m.outlineSelection = maxInt(len(lines)-1, 0)
	}
}

func formatOutlineLabel(entry *outline.Node, depth int) string {
	indent := strings.Repeat("  ", depth)
	indicator := "  "
	if entry.IsGroup {
		if entry.Open {
			indicator = "- "
		} else {
			indicator = "+ "
		}
	}
	return indent + indicator + entry.Title
}

func (m *Model) moveOutlineSelection(delta int) {
	if len(m.flatOutline) == 0 {
		return
	}
	m.outlineSelection = clamp(m.outlineSelection+delta, 0, len(m.flatOutline)-1)
	m.updatePanelContent()
}

func (m *Model) currentOutlineEntry() *outline.Node {
	if len(m.flatOutline) == 0 || m.outlineSelection < 0 || m.outlineSelection >= len(m.flatOutline) {
		return nil
	}
	return m.flatOutline[m.outlineSelection].entry
}

func (m *Model) openOrDescend() tea.Cmd {
	entry := m.currentOutlineEntry()
	if entry == nil {
		return nil
	}
	if entry.IsGroup && !entry.Open {
		entry.Open = true
		m.updatePanelContent()
		return nil
	}
	return m.navigate(func() bool { return m.ctrl.GoTo(entry.H, entry.V) })
}

func (m *Model) closeOrAscend() {
	entry := m.currentOutlineEntry()
	if entry == nil {
		return
	}
	if entry.IsGroup && entry.Open {
		entry.Open = false
		m.updatePanelContent()
		return
	}
	if entry.Parent != nil && entry.Parent.Parent != nil {
		for i, line := range m.flatOutline {
			if line.entry == entry.Parent {
				m.outlineSelection = i
				break
			}
		}
		m.updatePanelContent()
	}
}

// syncOutlineSelection keeps the outline cursor on the active leaf after a
// navigation command that did not originate in the panel.
func (m *Model) syncOutlineSelection() {
	if m.outlineRoot == nil {
		return
	}
	pos := m.ctrl.Pos()
	target := m.outlineRoot.Find(pos.H, pos.V)
	if target == nil {
		return
	}
	if target.Parent != nil && target.Parent.IsGroup {
		target.Parent.Open = true
	}
	m.rebuildFlatOutline()
	for i, line := range m.flatOutline {
		if line.entry == target {
			m.outlineSelection = i
			break
		}
	}
}

func (m *Model) ensureSelectionVisible() {
	if m.panelMode != panelOutline || len(m.flatOutline) == 0 || m.panelVP.Height == 0 {
		return
	}
	// The outline title occupies the first panel line.
	line := m.outlineSelection + 1
	if line < m.panelVP.YOffset {
		m.panelVP.SetYOffset(line)
		return
	}
	bottom := m.panelVP.YOffset + m.panelVP.Height - 1
	if line > bottom {
		m.panelVP.SetYOffset(line - m.panelVP.Height + 1)
	}
}

func (m *Model) statusLine() string {
	pos := m.ctrl.Pos()
	slideInfo := fmt.Sprintf("Slide %d/%d", pos.H+1, len(m.dck.Slides))
	if m.dck.Slides[pos.H].IsGroup() {
		slideInfo = fmt.Sprintf("Slide %d.%d/%d", pos.H+1, pos.V+1, len(m.dck.Slides))
	}

	title := m.dck.Title()
	if title == "" {
		title = m.displayPath
	}
	if m.dck.Meta.Author != "" {
		title += " — " + m.dck.Meta.Author
	}

	right := m.ctrl.Fragment()
	if n := len(m.dck.Warnings); n > 0 {
		right = fmt.Sprintf("%s  %s", warningStyle.Render(fmt.Sprintf("%d warning(s)", n)), right)
	}

	left := statusBarStyle.Render(slideInfo)
	center := statusDimStyle.Render(" " + title + " ")
	rightRendered := statusBarStyle.Render(right)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(rightRendered)
	if gap < 1 {
		return left + center
	}
	filler := statusDimStyle.Render(strings.Repeat(" ", gap))
	return left + center + filler + rightRendered
}

func newRenderer(width int, theme string) (*glamour.TermRenderer, error) {
	opts := []glamour.TermRendererOption{}
	if theme == "" || theme == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(theme))
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	} else {
		opts = append(opts, glamour.WithWordWrap(0))
	}
	return glamour.NewTermRenderer(opts...)
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (m *Model) enterSearchMode() tea.Cmd {
	m.searchActive = true
	m.pendingKey = ""
	if m.searchQuery != "" {
		m.searchInput.SetValue(m.searchQuery)
		m.searchInput.CursorEnd()
	} else {
		m.searchInput.SetValue("")
	}
	return m.searchInput.Focus()
}

func (m *Model) exitSearchMode() {
	m.searchActive = false
	m.searchInput.Blur()
}

func (m *Model) clearSearch() {
	m.searchQuery = ""
	m.searchMatches = nil
	m.searchIndex = -1
	m.err = nil
}

func (m *Model) searchStatusLine() string {
	if m.searchQuery == "" {
		return ""
	}
	total := len(m.searchMatches)
	if total == 0 || m.searchIndex < 0 {
		return fmt.Sprintf("/%s (0/0)", m.searchQuery)
	}
	return fmt.Sprintf("/%s (%d/%d)", m.searchQuery, m.searchIndex+1, total)
}

func (m *Model) performSearch(query string, resetIndex bool) {
	query = strings.TrimSpace(query)
	m.searchQuery = query
	m.searchMatches = findSearchMatches(m.rendered, query)
	if len(m.searchMatches) == 0 {
		m.searchIndex = -1
		m.err = fmt.Errorf("no match for %q on this slide", query)
		return
	}
	if resetIndex || m.searchIndex < 0 || m.searchIndex >= len(m.searchMatches) {
		m.searchIndex = 0
	}
	m.err = nil
	m.gotoSearchMatch()
}

func (m *Model) nextSearchMatch() {
	if len(m.searchMatches) == 0 {
		return
	}
	if m.searchIndex < 0 {
		m.searchIndex = 0
	} else {
		m.searchIndex = (m.searchIndex + 1) % len(m.searchMatches)
	}
	m.err = nil
	m.gotoSearchMatch()
}

func (m *Model) previousSearchMatch() {
	if len(m.searchMatches) == 0 {
		return
	}
	if m.searchIndex <= 0 {
		m.searchIndex = len(m.searchMatches) - 1
	} else {
		m.searchIndex--
	}
	m.err = nil
	m.gotoSearchMatch()
}

func (m *Model) gotoSearchMatch() {
	if len(m.searchMatches) == 0 || m.searchIndex < 0 {
		return
	}
	totalLines := strings.Count(m.rendered, "\n") + 1
	if totalLines <= 0 {
		return
	}
	targetLine := m.searchMatches[m.searchIndex]
	maxOffset := maxInt(totalLines-m.contentVP.Height, 0)
	m.contentVP.SetYOffset(clamp(targetLine, 0, maxOffset))
}

// onContentChanged re-runs the active search against freshly rendered
// content, keeping the cursor near its previous line.
func (m *Model) onContentChanged() {
	if m.searchQuery == "" {
		return
	}

	prevLine := -1
	if len(m.searchMatches) > 0 && m.searchIndex >= 0 && m.searchIndex < len(m.searchMatches) {
		prevLine = m.searchMatches[m.searchIndex]
	}

	m.searchMatches = findSearchMatches(m.rendered, m.searchQuery)
	if len(m.searchMatches) == 0 {
		m.searchIndex = -1
		return
	}

	if prevLine >= 0 {
		m.searchIndex = closestMatchIndex(m.searchMatches, prevLine)
	} else if m.searchIndex < 0 || m.searchIndex >= len(m.searchMatches) {
		m.searchIndex = 0
	}
	m.gotoSearchMatch()
}

func findSearchMatches(content, query string) []int {
	query = strings.TrimSpace(query)
	if query == "" || content == "" {
		return nil
	}

	stripped := ansi.Strip(content)
	lowerContent := strings.ToLower(stripped)
	lowerQuery := strings.ToLower(query)

	var matches []int
	offset := 0
	for {
		pos := strings.Index(lowerContent[offset:], lowerQuery)
		if pos == -1 {
			break
		}
		absolute := offset + pos
		line := strings.Count(stripped[:absolute], "\n")
		matches = append(matches, line)
		offset = absolute + len(lowerQuery)
	}
	return matches
}

func closestMatchIndex(matches []int, line int) int {
	if len(matches) == 0 {
		return 0
	}
	bestIndex := 0
	bestDiff := absInt(matches[0] - line)
	for i := 1; i < len(matches); i++ {
		diff := absInt(matches[i] - line)
		if diff < bestDiff {
			bestDiff = diff
			bestIndex = i
		}
	}
	return bestIndex
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (m *Model) startWatching(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	path = filepath.Clean(path)
	if err := m.ensureWatcher(); err != nil {
		m.err = err
		return nil
	}

	dir := filepath.Dir(path)
	if dir != m.watchDir {
		if m.watchDir != "" {
			_ = m.watcher.Remove(m.watchDir)
		}
		if err := m.watcher.Add(dir); err != nil {
			m.err = err
			return nil
		}
		m.watchDir = dir
	}

	m.watchedFile = path
	return m.waitForFileEvent()
}

func (m *Model) ensureWatcher() error {
	if m.watcher != nil {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	m.watcher = watcher
	m.watchChan = make(chan tea.Msg, 10)

	go m.watchLoop()
	return nil
}

func (m *Model) watchLoop() {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if m.watchChan != nil {
				m.watchChan <- fileEventMsg{path: event.Name, op: event.Op}
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			if m.watchChan != nil {
				m.watchChan <- fileWatchErrMsg{err: err}
			}
		}
	}
}

func (m *Model) waitForFileEvent() tea.Cmd {
	if m.watchChan == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-m.watchChan
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) handleFileEvent(msg fileEventMsg) tea.Cmd {
	if m.watchedFile == "" {
		return m.waitForFileEvent()
	}

	if filepath.Clean(msg.path) != filepath.Clean(m.watchedFile) {
		return m.waitForFileEvent()
	}

	cmd := m.reloadDeck()
	return tea.Batch(cmd, m.waitForFileEvent())
}

// reloadDeck re-parses the watched source and carries the position over,
// clamped into the new deck shape.
func (m *Model) reloadDeck() tea.Cmd {
	if m.watchedFile == "" {
		return nil
	}
	data, err := os.ReadFile(m.watchedFile)
	if err != nil {
		m.err = err
		return nil
	}

	parsed, err := deck.Parse(data)
	if err != nil {
		m.err = err
		return nil
	}

	pos := m.ctrl.Pos()
	m.dck = parsed
	m.ctrl = nav.NewController(parsed.Shape(), m.opts.Wrap)
	m.ctrl.GoTo(pos.H, pos.V)
	m.outlineRoot = outline.Build(parsed)
	m.err = nil

	offset := m.contentVP.YOffset
	m.syncLeaf()
	m.contentVP.SetYOffset(offset)
	return m.progressCmd()
}
