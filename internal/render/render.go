package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chatlog/internal/index"
	"github.com/Zuo-Peng/chatlog/internal/parse"
)

const (
	colorReset   = "\033[0m"
	colorSender  = "\033[1;34m" // bold blue
	colorFile    = "\033[36m"   // cyan
	colorSystem  = "\033[2;35m" // dim magenta for joins, leaves, renames
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
)

type Options struct {
	HitSeq  int    // -1 = no hit
	Context int    // messages before/after hit to show
	Width   int    // wrap width (0 = no wrap)
	Query   string // search query for keyword highlighting
}

// fts5Operators are FTS5 operators that should not be highlighted as keywords.
var fts5Operators = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "NEAR": true,
	"and": true, "or": true, "not": true, "near": true,
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red ANSI codes.
func highlightKeywords(text, query string) string {
	if query == "" {
		return text
	}
	var terms []string
	for _, t := range strings.Fields(query) {
		t = strings.Trim(t, `"*()`)
		if t != "" && !fts5Operators[t] {
			terms = append(terms, t)
		}
	}
	for _, term := range terms {
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			rest := text[i:]
			restLower := strings.ToLower(rest)
			if len(restLower) != len(rest) {
				// folding changed byte lengths; offsets would be wrong
				break
			}
			idx := strings.Index(restLower, lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			orig := text[pos : pos+len(term)]
			replacement := colorBoldRed + orig + colorReset
			text = text[:pos] + replacement + text[pos+len(term):]
			i = pos + len(replacement)
		}
	}
	return text
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// Rows converts merged messages to index rows, numbering them from zero.
func Rows(msgs []parse.Message) []index.MessageRow {
	out := make([]index.MessageRow, len(msgs))
	for i, m := range msgs {
		out[i] = index.MessageRow{
			Seq:        i,
			Ts:         m.Timestamp.UTC().Format(index.TimeLayout),
			Sender:     m.Sender,
			Kind:       m.Kind.String(),
			Content:    m.Content,
			FilePath:   m.Source.File,
			LineNumber: m.Source.Line,
		}
	}
	return out
}

// label renders the header line of one message.
func label(r index.MessageRow, hit bool) string {
	sender := r.Sender
	if sender == "" {
		sender = "*"
	}
	if hit {
		return fmt.Sprintf("%s>> %s > %s <<%s", colorHit, sender, r.Ts, colorReset)
	}
	return fmt.Sprintf("%s%s >%s %s%s%s", colorSender, sender, colorReset, colorDim, r.Ts, colorReset)
}

func body(r index.MessageRow, query string) string {
	switch r.Kind {
	case "file":
		return colorFile + "[file] " + r.Content + colorReset
	case "call":
		return colorDim + "[call started]" + colorReset
	case "call_end":
		return colorDim + "[call ended]" + colorReset
	case "removed":
		return colorDim + "[removed]" + colorReset
	case "system":
		return colorSystem + r.Content + colorReset
	case "status":
		return colorDim + "* " + r.Content + colorReset
	}
	return highlightKeywords(r.Content, query)
}

// RenderRows renders rows and returns the content and the 0-based line
// number of the hit row header (-1 if no hit). before and after are the
// counts of rows elided on each side.
func RenderRows(rows []index.MessageRow, before, after int, opts Options) (string, int) {
	if len(rows) == 0 {
		return "(no messages)", -1
	}

	var b strings.Builder
	hitLine := -1
	lineCount := 0

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	if before > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages before) ...%s", colorDim, before, colorReset))
	}

	lastFile := ""
	for _, r := range rows {
		if r.FilePath != "" && r.FilePath != lastFile {
			writeLine(fmt.Sprintf("%s--- %s ---%s", colorDim, r.FilePath, colorReset))
			lastFile = r.FilePath
		}
		isHit := r.Seq == opts.HitSeq
		if isHit {
			hitLine = lineCount
		}
		writeLine(label(r, isHit))
		writeLine("  " + body(r, opts.Query))
	}

	if after > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages after) ...%s", colorDim, after, colorReset))
	}
	return b.String(), hitLine
}

// RenderWindow renders the indexed messages around opts.HitSeq.
func RenderWindow(db *index.DB, opts Options) (string, int, error) {
	if opts.Context <= 0 {
		opts.Context = 10
	}

	total, err := db.MessageCount()
	if err != nil {
		return "", -1, fmt.Errorf("count messages: %w", err)
	}
	rows, err := db.GetWindow(opts.HitSeq, opts.Context)
	if err != nil {
		return "", -1, fmt.Errorf("get window: %w", err)
	}
	if len(rows) == 0 {
		return "(empty history)", -1, nil
	}

	before := rows[0].Seq
	after := total - rows[len(rows)-1].Seq - 1
	content, hitLine := RenderRows(rows, before, after, opts)
	return content, hitLine, nil
}
