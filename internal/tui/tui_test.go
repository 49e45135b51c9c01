package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/chatlog/internal/parse"
	"github.com/Zuo-Peng/chatlog/internal/search"
	"github.com/Zuo-Peng/chatlog/internal/stats"
)

func identities() []*stats.UserIdentity {
	at := time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)
	return []*stats.UserIdentity{
		{Aliases: []string{"Alice", "alice_handle"}, Messages: []parse.Message{
			{Timestamp: at, Sender: "Alice", Kind: parse.KindText, Content: "hello there"},
		}},
		{Aliases: []string{"Bob"}, Messages: []parse.Message{
			{Timestamp: at, Sender: "Bob", Kind: parse.KindText, Content: "hi"},
		}},
	}
}

func TestFilterIdentities(t *testing.T) {
	ids := identities()

	if got := filterIdentities(ids, ""); len(got) != 2 {
		t.Errorf("empty filter kept %d, want 2", len(got))
	}
	got := filterIdentities(ids, "HANDLE")
	if len(got) != 1 || got[0].Name() != "Alice" {
		t.Errorf("filter HANDLE=%v", got)
	}
	if got := filterIdentities(ids, "carol"); len(got) != 0 {
		t.Errorf("filter carol=%v, want none", got)
	}
}

func TestAliasClass(t *testing.T) {
	class, err := aliasClass(identities()[0])
	if err != nil {
		t.Fatalf("aliasClass: %v", err)
	}
	var decoded struct {
		Aliases [][]string `toml:"aliases"`
	}
	if _, err := toml.Decode(class, &decoded); err != nil {
		t.Fatalf("decode %q: %v", class, err)
	}
	if len(decoded.Aliases) != 1 || strings.Join(decoded.Aliases[0], ",") != "Alice,alice_handle" {
		t.Errorf("aliases=%q", decoded.Aliases)
	}
}

func TestFormatEntry(t *testing.T) {
	r := search.Result{Ts: "2020-01-01T09:00:00Z", Sender: "Alice", Snippet: "the >>>report<<< is ready"}
	lines := formatEntry(entry{result: &r}, 60, false)
	if len(lines) != linesPerItem {
		t.Fatalf("lines=%d, want %d", len(lines), linesPerItem)
	}
	if !strings.Contains(lines[0], "01-01 09:00 Alice") {
		t.Errorf("title=%q", lines[0])
	}
	if strings.Contains(lines[1], ">>>") || !strings.Contains(lines[1], "report") {
		t.Errorf("detail=%q", lines[1])
	}

	lines = formatEntry(entry{ident: identities()[0]}, 60, true)
	if !strings.Contains(lines[0], "Alice") || !strings.Contains(lines[1], "alice_handle") {
		t.Errorf("identity lines=%q", lines)
	}
}

func TestModel_FilterFlow(t *testing.T) {
	m := model{identities: identities(), mode: modeIdentities, filterInput: newInput("", "")}

	msg := m.doFilter("bob")()
	m.query = "bob"
	next, _ := m.Update(msg)
	m = next.(model)
	if len(m.entries) != 1 || m.entries[0].ident.Name() != "Bob" {
		t.Fatalf("entries=%+v, want Bob", m.entries)
	}

	// a result for an older query is ignored
	next, _ = m.Update(entriesMsg{query: "a"})
	if got := next.(model); len(got.entries) != 1 {
		t.Errorf("stale result replaced entries: %+v", got.entries)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := next.(model); got.chosen == nil || got.chosen.ident.Name() != "Bob" {
		t.Errorf("chosen=%+v, want Bob", got.chosen)
	}
}

func TestAdjustListScroll(t *testing.T) {
	m := model{entries: make([]entry, 20)}
	m.cursor = 7
	m.adjustListScroll(6) // three visible items
	if m.listOffset != 5 {
		t.Errorf("listOffset=%d, want 5", m.listOffset)
	}
	m.cursor = 2
	m.adjustListScroll(6)
	if m.listOffset != 2 {
		t.Errorf("listOffset=%d, want 2", m.listOffset)
	}
}
