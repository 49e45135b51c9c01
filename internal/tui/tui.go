package tui

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/chatlog/internal/index"
	"github.com/Zuo-Peng/chatlog/internal/open"
	"github.com/Zuo-Peng/chatlog/internal/parse"
	"github.com/Zuo-Peng/chatlog/internal/search"
	"github.com/Zuo-Peng/chatlog/internal/stats"
)

const debounceDelay = 200 * time.Millisecond

type tuiMode int

const (
	modeSearch tuiMode = iota
	modeIdentities
)

// entry is one row of the left panel: a search hit or an identity.
type entry struct {
	key    string
	result *search.Result
	ident  *stats.UserIdentity
}

type entriesMsg struct {
	query   string
	entries []entry
	err     error
}

type debounceTickMsg struct {
	query string
}

type model struct {
	db          *index.DB
	searchOpts  search.Options
	identities  []*stats.UserIdentity
	mode        tuiMode
	query       string
	entries     []entry
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  string
	width       int
	height      int
	ready       bool
	quitting    bool
	chosen      *entry
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.SetValue(value)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256
	return ti
}

func run(m model) (*entry, error) {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	return finalModel.(model).chosen, nil
}

// Search starts the message search TUI and blocks until it exits.
// A chosen hit is opened in $EDITOR at its transcript line.
func Search(db *index.DB, query string, opts search.Options) error {
	chosen, err := run(model{
		db:          db,
		searchOpts:  opts,
		mode:        modeSearch,
		query:       query,
		filterInput: newInput("Search messages...", query),
		preview:     viewport.New(0, 0),
	})
	if err != nil || chosen == nil {
		return err
	}
	r := chosen.result
	return open.Source(parse.Source{File: r.FilePath, Line: r.Line})
}

// Identities starts the identity browser. The chosen identity's aliases are
// copied to the clipboard as a TOML alias class.
func Identities(ids []*stats.UserIdentity) error {
	chosen, err := run(model{
		identities:  ids,
		mode:        modeIdentities,
		filterInput: newInput("Filter by alias...", ""),
		preview:     viewport.New(0, 0),
	})
	if err != nil || chosen == nil {
		return err
	}

	class, err := aliasClass(chosen.ident)
	if err != nil {
		return err
	}
	if err := clipboard.WriteAll(class); err != nil {
		fmt.Print(class)
		return nil
	}
	fmt.Printf("Copied to clipboard: %s", class)
	return nil
}

// aliasClass renders the identity's aliases as a config snippet.
func aliasClass(u *stats.UserIdentity) (string, error) {
	var buf bytes.Buffer
	err := toml.NewEncoder(&buf).Encode(struct {
		Aliases [][]string `toml:"aliases"`
	}{Aliases: [][]string{u.Aliases}})
	if err != nil {
		return "", fmt.Errorf("encode aliases: %w", err)
	}
	return buf.String(), nil
}

// filterIdentities keeps identities with an alias containing q, ignoring case.
func filterIdentities(ids []*stats.UserIdentity, q string) []*stats.UserIdentity {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return ids
	}
	var out []*stats.UserIdentity
	for _, u := range ids {
		for _, a := range u.Aliases {
			if strings.Contains(strings.ToLower(a), q) {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.mode == modeIdentities {
		cmds = append(cmds, m.doFilter(""))
	} else if m.query != "" {
		cmds = append(cmds, m.doSearch(m.query))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.previewKey = ""
		cmds = append(cmds, m.loadCurrentPreview())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if e, ok := m.current(); ok {
				m.chosen = &e
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		if q := m.filterInput.Value(); q != m.query {
			m.query = q
			cmds = append(cmds, scheduleDebounced(q))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready || len(m.entries) == 0 {
			return m, nil
		}
		return m.handleMouse(msg)

	case debounceTickMsg:
		if msg.query != m.query {
			return m, nil
		}
		if m.mode == modeIdentities {
			return m, m.doFilter(msg.query)
		}
		return m, m.doSearch(msg.query)

	case entriesMsg:
		if msg.query != m.query {
			return m, nil
		}
		m.cursor = 0
		m.listOffset = 0
		m.previewKey = ""
		if msg.err != nil {
			m.entries = nil
			m.preview.SetContent("Error: " + msg.err.Error())
			return m, nil
		}
		m.entries = msg.entries
		if len(m.entries) == 0 {
			m.preview.SetContent("")
			return m, nil
		}
		return m, m.loadCurrentPreview()

	case previewRenderedMsg:
		e, ok := m.current()
		if !ok || e.key != msg.key || msg.key == m.previewKey {
			return m, nil
		}
		if msg.err != nil {
			m.preview.SetContent("Preview error: " + msg.err.Error())
		} else {
			m.preview.SetContent(msg.content)
			switch {
			case msg.hitLine > 0:
				m.preview.SetYOffset(msg.hitLine)
			case m.mode == modeIdentities:
				m.preview.GotoBottom()
			default:
				m.preview.GotoTop()
			}
		}
		m.previewKey = msg.key
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	region, itemIdx := m.hitTest(msg.X, msg.Y)

	switch {
	case region == regionList && msg.Button == tea.MouseButtonWheelUp:
		if m.listOffset > 0 {
			m.listOffset--
		}

	case region == regionList && msg.Button == tea.MouseButtonWheelDown:
		maxOffset := max(len(m.entries)-m.panelHeight()/linesPerItem, 0)
		if m.listOffset < maxOffset {
			m.listOffset++
		}

	case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if itemIdx >= 0 && itemIdx < len(m.entries) && m.cursor != itemIdx {
			m.cursor = itemIdx
			m.adjustListScroll(m.panelHeight())
			return m, m.loadCurrentPreview()
		}

	case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
		var vpCmd tea.Cmd
		m.preview, vpCmd = m.preview.Update(msg)
		return m, vpCmd
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)
	return lipgloss.JoinVertical(lipgloss.Left, m.filterInput.View(), panels, m.statusBar())
}

func (m model) current() (entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return entry{}, false
	}
	return m.entries[m.cursor], true
}

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	return max(m.width*40/100-4, 20)
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(m.width*60/100-4, 20)
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// input row, status bar and two bordered panels
	return max(m.height-6, 5)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	top := 2 // input row + top border
	if y < top || y > top+m.panelHeight()-1 {
		return regionNone, -1
	}

	lw := m.listWidth()
	if x >= 1 && x <= lw {
		return regionList, m.listOffset + (y-top)/linesPerItem
	}
	if x > lw+2 {
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	parts := []string{fmt.Sprintf("%d %s", len(m.entries), m.noun())}
	parts = append(parts, "click/up/dn navigate", "scroll/C-u/C-d preview")
	if m.mode == modeIdentities {
		parts = append(parts, "Enter copy alias class")
	} else {
		parts = append(parts, "Enter open in $EDITOR")
	}
	parts = append(parts, "Esc quit")
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

func (m model) noun() string {
	if m.mode == modeIdentities {
		return "identities"
	}
	return "results"
}

func (m model) doSearch(query string) tea.Cmd {
	db := m.db
	opts := m.searchOpts
	opts.Query = query
	return func() tea.Msg {
		if strings.TrimSpace(query) == "" {
			return entriesMsg{query: query}
		}
		results, err := search.Search(db, opts)
		if err != nil {
			return entriesMsg{query: query, err: err}
		}
		entries := make([]entry, len(results))
		for i := range results {
			entries[i] = entry{key: fmt.Sprintf("seq:%d", results[i].Seq), result: &results[i]}
		}
		return entriesMsg{query: query, entries: entries}
	}
}

func (m model) doFilter(query string) tea.Cmd {
	ids := m.identities
	return func() tea.Msg {
		matched := filterIdentities(ids, query)
		entries := make([]entry, len(matched))
		for i, u := range matched {
			entries[i] = entry{key: "id:" + u.Name(), ident: u}
		}
		return entriesMsg{query: query, entries: entries}
	}
}

func scheduleDebounced(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) loadCurrentPreview() tea.Cmd {
	e, ok := m.current()
	if !ok || e.key == m.previewKey {
		return nil
	}
	return loadPreviewCmd(m.db, e, m.query, m.previewWidth())
}
