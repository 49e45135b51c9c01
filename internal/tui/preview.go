package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/chatlog/internal/index"
	"github.com/Zuo-Peng/chatlog/internal/render"
	"github.com/Zuo-Peng/chatlog/internal/stats"
)

// identityPreviewLimit caps how many of an identity's latest messages are shown.
const identityPreviewLimit = 200

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	key     string
	content string
	hitLine int
	err     error
}

// loadPreviewCmd renders the preview for e off the update loop.
func loadPreviewCmd(db *index.DB, e entry, query string, width int) tea.Cmd {
	return func() tea.Msg {
		out := previewRenderedMsg{key: e.key, hitLine: -1}
		switch {
		case e.result != nil:
			out.content, out.hitLine, out.err = render.RenderWindow(db, render.Options{
				HitSeq:  e.result.Seq,
				Context: 20,
				Width:   width,
				Query:   query,
			})
		case e.ident != nil:
			out.content = identityPreview(e.ident, width)
		}
		return out
	}
}

// identityPreview renders the latest messages of u, oldest first.
func identityPreview(u *stats.UserIdentity, width int) string {
	msgs := u.Messages
	start := max(len(msgs)-identityPreviewLimit, 0)
	content, _ := render.RenderRows(render.Rows(msgs[start:]), start, 0, render.Options{
		HitSeq: -1,
		Width:  width,
	})
	return content
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
