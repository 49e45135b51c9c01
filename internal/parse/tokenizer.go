package parse

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// dateHeaderRe matches "<Weekday>, <DD>. <Month> <YYYY>" plus the 40-dash
// separator line below it.
var dateHeaderRe = regexp.MustCompile(`(?m)^\p{L}+, (\d{1,2})\. (\p{L}+) (\d{4})[ \t]*\r?\n-{40}[ \t]*\r?$`)

// messageHeaderRe matches "<HH:MM> <sender>:" on a line of its own. The sender
// may be empty and may itself contain colons.
var messageHeaderRe = regexp.MustCompile(`(?m)^(\d{1,2}):(\d{2}) ?(.*):[ \t]*\r?$`)

var lineBreaksRe = regexp.MustCompile(`[\r\n]+`)

// span is a half-open byte range [start, end) of the transcript text.
type span struct {
	start, end int
}

// dateBlock is a validated date header and the body that follows it.
type dateBlock struct {
	date   time.Time
	header span
	body   span
}

// messageSpan is a validated message header and its raw content.
type messageSpan struct {
	at      time.Time
	sender  string
	header  span
	content span
}

// RawMessage is a tokenized but unclassified message.
type RawMessage struct {
	Sender    string
	Timestamp time.Time
	Content   string
	Line      int
}

type tokenizer struct {
	cal      Calendar
	text     string
	newlines []int
	skipped  int
}

// Tokenize splits one transcript into raw messages in file order.
// Malformed headers are skipped; the second return value counts them.
func Tokenize(text string, cal Calendar) ([]RawMessage, int) {
	t := &tokenizer{cal: cal, text: text}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			t.newlines = append(t.newlines, i)
		}
	}

	var out []RawMessage
	for _, b := range t.dateBlocks() {
		for _, m := range t.messageSpans(b) {
			out = append(out, RawMessage{
				Sender:    m.sender,
				Timestamp: m.at,
				Content:   cleanContent(text[m.content.start:m.content.end]),
				Line:      t.lineOf(m.header.start),
			})
		}
	}
	return out, t.skipped
}

// dateBlocks returns the validated date blocks. Every matched header, valid
// or not, ends the body before it; a rejected header's block is dropped.
func (t *tokenizer) dateBlocks() []dateBlock {
	locs := dateHeaderRe.FindAllStringSubmatchIndex(t.text, -1)

	var blocks []dateBlock
	for i, loc := range locs {
		date, ok := t.headerDate(loc)
		if !ok {
			t.skipped++
			continue
		}
		end := len(t.text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, dateBlock{
			date:   date,
			header: span{loc[0], loc[1]},
			body:   span{start: t.afterLine(loc[1]), end: end},
		})
	}
	return blocks
}

func (t *tokenizer) headerDate(loc []int) (time.Time, bool) {
	day, _ := strconv.Atoi(t.text[loc[2]:loc[3]])
	month, ok := t.cal.Month(t.text[loc[4]:loc[5]])
	if !ok {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(t.text[loc[6]:loc[7]])
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// reject days that time.Date would roll over, e.g. 31. February
	if date.Day() != day || date.Month() != month {
		return time.Time{}, false
	}
	return date, true
}

// messageSpans returns the validated messages of b. As with date blocks, a
// rejected header still ends the content before it and its own content is
// dropped.
func (t *tokenizer) messageSpans(b dateBlock) []messageSpan {
	body := t.text[b.body.start:b.body.end]
	locs := messageHeaderRe.FindAllStringSubmatchIndex(body, -1)

	var spans []messageSpan
	for i, loc := range locs {
		hh, _ := strconv.Atoi(body[loc[2]:loc[3]])
		mm, _ := strconv.Atoi(body[loc[4]:loc[5]])
		if hh > 23 || mm > 59 {
			t.skipped++
			continue
		}
		start := b.body.start + loc[0]
		end := b.body.start + loc[1]
		contentEnd := b.body.end
		if i+1 < len(locs) {
			contentEnd = b.body.start + locs[i+1][0]
		}
		contentStart := t.afterLine(end)
		if contentEnd < contentStart {
			contentEnd = contentStart
		}
		spans = append(spans, messageSpan{
			at:      b.date.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute),
			sender:  body[loc[6]:loc[7]],
			header:  span{start, end},
			content: span{contentStart, contentEnd},
		})
	}
	return spans
}

// afterLine returns the offset just past the line terminator at or after pos.
func (t *tokenizer) afterLine(pos int) int {
	if pos < len(t.text) && t.text[pos] == '\n' {
		return pos + 1
	}
	return pos
}

// lineOf returns the 1-based line number of byte offset pos.
func (t *tokenizer) lineOf(pos int) int {
	return sort.SearchInts(t.newlines, pos) + 1
}

func cleanContent(s string) string {
	s = strings.Trim(s, "\r\n")
	return lineBreaksRe.ReplaceAllString(s, " ")
}
