package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chatlog/internal/search"
	"github.com/Zuo-Peng/chatlog/internal/stats"
)

// linesPerItem is the number of terminal lines each entry occupies.
const linesPerItem = 2

// renderList renders the left panel with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.entries) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No " + m.noun())
	}

	var lines []string
	for i := m.listOffset; i < len(m.entries); i++ {
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatEntry(m.entries[i], width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func formatEntry(e entry, width int, selected bool) []string {
	var title, detail string
	switch {
	case e.result != nil:
		title, detail = resultLines(*e.result)
	case e.ident != nil:
		title, detail = identityLines(e.ident)
	}

	// title fits after the "> " marker, detail after a 4-space indent
	title = fit(title, width-2)
	if selected {
		title = styleListSelected.Render("> " + title)
	} else {
		title = "  " + styleListNormal.Render(title)
	}
	detail = "    " + lipgloss.NewStyle().Foreground(colorDim).Render(fit(detail, width-4))
	return []string{title, detail}
}

// resultLines formats a hit as "MM-DD hh:mm sender" over its snippet.
func resultLines(r search.Result) (string, string) {
	ts := r.Ts
	if len(ts) >= 16 {
		ts = ts[5:10] + " " + ts[11:16]
	}
	title := fmt.Sprintf("%s %s", ts, r.Sender)

	snippet := strings.NewReplacer("\n", " ", "\t", " ", ">>>", "", "<<<", "").Replace(r.Snippet)
	return title, snippet
}

// identityLines formats an identity as its name and counts over its other aliases.
func identityLines(u *stats.UserIdentity) (string, string) {
	title := fmt.Sprintf("%s  %d msgs %d words", u.Name(), u.MessageCount(), u.WordCount())
	detail := "(no other aliases)"
	if len(u.Aliases) > 1 {
		detail = strings.Join(u.Aliases[1:], ", ")
	}
	return title, detail
}

func fit(s string, w int) string {
	w = max(w, 0)
	if runewidth.StringWidth(s) > w {
		return runewidth.Truncate(s, w, "")
	}
	return s
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := max(listHeight/linesPerItem, 1)
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
