package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/Zuo-Peng/chatlog/internal/history"
	"github.com/Zuo-Peng/chatlog/internal/report"
	"github.com/Zuo-Peng/chatlog/internal/search"
	"github.com/Zuo-Peng/chatlog/internal/stats"
)

const dateLayout = "2006-01-02"

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleNum    = styleCell.Align(lipgloss.Right)
	styleTitle  = lipgloss.NewStyle().Bold(true)
)

// newTable builds a bordered table; columns listed in numeric are right aligned.
func newTable(headers []string, rows [][]string, numeric ...int) *table.Table {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case right[col]:
				return styleNum
			}
			return styleCell
		})
}

func write(w io.Writer, title string, t *table.Table) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", styleTitle.Render(title), t.String())
	return err
}

func comma(n int) string {
	return humanize.Comma(int64(n))
}

func date(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

// Summary writes the run totals as a two-column table.
func Summary(w io.Writer, s report.Summary) error {
	span := "-"
	if !s.First.IsZero() {
		span = s.First.Format(dateLayout) + " .. " + s.Last.Format(dateLayout)
	}
	rows := [][]string{
		{"messages", comma(s.Messages)},
		{"span", span},
		{"active days", comma(s.ActiveDays)},
		{"silent days", comma(s.SilentDays)},
		{"identities", comma(s.Identities)},
		{"distinct words", comma(s.DistinctWords)},
		{"files", comma(s.Files)},
		{"empty files", comma(s.EmptyFiles)},
		{"overlap dropped", comma(s.OverlapDropped)},
		{"skipped headers", comma(s.SkippedHeaders)},
	}
	kinds := make([]string, 0, len(s.Kinds))
	for k := range s.Kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		rows = append(rows, []string{"kind " + k, comma(s.Kinds[k])})
	}
	return write(w, "Summary", newTable([]string{"metric", "value"}, rows, 1))
}

// Gaps writes one row per inactivity span.
func Gaps(w io.Writer, gaps []stats.DateSpan) error {
	rows := make([][]string, 0, len(gaps))
	for _, g := range gaps {
		rows = append(rows, []string{
			g.From.Format(dateLayout),
			g.To.AddDate(0, 0, -1).Format(dateLayout),
			comma(g.Days()),
		})
	}
	return write(w, "Inactivity gaps", newTable([]string{"from", "to", "days"}, rows, 2))
}

// Identities writes resolved identities in the given order.
func Identities(w io.Writer, title string, ids []report.IdentityRow) error {
	rows := make([][]string, 0, len(ids))
	for i, u := range ids {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			u.Name,
			strings.Join(u.Aliases[1:], ", "),
			comma(u.Messages),
			comma(u.Words),
		})
	}
	return write(w, title, newTable([]string{"#", "name", "aliases", "messages", "words"}, rows, 0, 3, 4))
}

// Words writes a ranked word list.
func Words(w io.Writer, title string, freqs []stats.WordFrequency) error {
	rows := make([][]string, 0, len(freqs))
	for i, f := range freqs {
		rows = append(rows, []string{strconv.Itoa(i + 1), f.Word, comma(f.Count)})
	}
	return write(w, title, newTable([]string{"#", "word", "count"}, rows, 0, 2))
}

// Files writes the per-file parse summary.
func Files(w io.Writer, files []history.FileSummary) error {
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		first, last := "-", "-"
		if !f.First.IsZero() {
			first = f.First.Format(dateLayout)
			last = f.Last.Format(dateLayout)
		}
		rows = append(rows, []string{f.Path, comma(f.Messages), comma(f.Skipped), first, last})
	}
	return write(w, "Files", newTable([]string{"path", "messages", "skipped", "first", "last"}, rows, 1, 2))
}

// Results writes search hits with their source location.
func Results(w io.Writer, results []search.Result) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		snippet := strings.NewReplacer(">>>", colorBoldRed, "<<<", colorReset).Replace(r.Snippet)
		rows = append(rows, []string{
			date(r.Ts),
			r.Sender,
			snippet,
			fmt.Sprintf("%s:%d", r.FilePath, r.Line),
		})
	}
	return write(w, fmt.Sprintf("%d results", len(results)), newTable([]string{"date", "sender", "match", "location"}, rows))
}
