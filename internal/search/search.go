package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/chatlog/internal/index"
)

type Result struct {
	Seq      int
	Ts       string
	Sender   string
	Kind     string
	Snippet  string
	FilePath string
	Line     int
	Rank     float64
}

type Options struct {
	Query  string
	Sender string // "" = all senders, otherwise an exact raw sender
	Kind   string // "" = all kinds, e.g. "text", "file"
	Since  string // "" = no filter, e.g. "2024-01-01"
	Limit  int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	if idx < 0 || len(lower) != len(text) {
		// no match, or case folding shifted byte offsets: return head
		if len([]rune(text)) > contextChars*2 {
			return string([]rune(text)[:contextChars*2]) + "..."
		}
		return text
	}
	runes := []rune(text)
	qRunes := []rune(query)
	runePos := len([]rune(text[:idx]))
	start := max(runePos-contextChars, 0)
	end := min(runePos+len(qRunes)+contextChars, len(runes))
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

// Search runs a full-text query over indexed messages, best match first.
// CJK queries fall back to substring matching.
func Search(db *index.DB, opts Options) ([]Result, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, nil
	}
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if containsCJK(opts.Query) {
		return searchLike(db, opts)
	}
	return searchFTS(db, opts)
}

func filters(opts Options) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	if opts.Sender != "" {
		conditions = append(conditions, "m.sender = ?")
		args = append(args, opts.Sender)
	}
	if opts.Kind != "" {
		conditions = append(conditions, "m.kind = ?")
		args = append(args, opts.Kind)
	}
	if opts.Since != "" {
		conditions = append(conditions, "m.ts >= ?")
		args = append(args, opts.Since)
	}
	return conditions, args
}

// ftsQuery quotes each term so FTS5 reads punctuation such as "don't" or
// "foo-bar" literally. Upper-case AND, OR and NOT pass through as operators
// and a trailing * stays a prefix match.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	for i, term := range terms {
		switch term {
		case "AND", "OR", "NOT":
			continue
		}
		prefix := ""
		if len(term) > 1 && strings.HasSuffix(term, "*") {
			term, prefix = strings.TrimSuffix(term, "*"), "*"
		}
		terms[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"` + prefix
	}
	return strings.Join(terms, " ")
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"messages_fts MATCH ?"}
	args := []interface{}{ftsQuery(opts.Query)}

	c, a := filters(opts)
	conditions = append(conditions, c...)
	args = append(args, a...)

	query := fmt.Sprintf(`
		SELECT
			m.seq,
			m.ts,
			m.sender,
			m.kind,
			snippet(messages_fts, 0, '>>>', '<<<', '...', 16) AS snip,
			m.file_path,
			m.line_number,
			bm25(messages_fts) AS rank
		FROM messages_fts
		JOIN messages m ON messages_fts.rowid = m.seq
		WHERE %s
		ORDER BY rank, m.seq
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"m.content LIKE ?"}
	args := []interface{}{"%" + opts.Query + "%"}

	c, a := filters(opts)
	conditions = append(conditions, c...)
	args = append(args, a...)

	query := fmt.Sprintf(`
		SELECT m.seq, m.ts, m.sender, m.kind, m.content, m.file_path, m.line_number
		FROM messages m
		WHERE %s
		ORDER BY m.seq
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var fullText string
		if err := rows.Scan(&r.Seq, &r.Ts, &r.Sender, &r.Kind, &fullText, &r.FilePath, &r.Line); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(fullText, opts.Query, 30)
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Seq, &r.Ts, &r.Sender, &r.Kind, &r.Snippet, &r.FilePath, &r.Line, &r.Rank); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
