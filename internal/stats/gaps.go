// Package stats computes aggregate views over a merged message history:
// inactivity gaps, resolved identities and word frequencies.
package stats

import (
	"time"

	"github.com/Zuo-Peng/chatlog/internal/parse"
)

// DateSpan is a run of calendar days without messages. From is the first
// silent day and To the day activity resumes, so the span is [From, To).
type DateSpan struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Days is the number of silent days in the span.
func (s DateSpan) Days() int {
	return int(s.To.Sub(s.From).Hours() / 24)
}

// Gaps walks a chronological message list and returns every span of days
// with no activity. It returns nil for fewer than two active days.
func Gaps(msgs []parse.Message) []DateSpan {
	if len(msgs) == 0 {
		return nil
	}

	var spans []DateSpan
	last := msgs[0].Date()
	for _, m := range msgs[1:] {
		d := m.Date()
		next := last.AddDate(0, 0, 1)
		if d.After(next) {
			spans = append(spans, DateSpan{From: next, To: d})
		}
		if d.After(last) {
			last = d
		}
	}
	return spans
}

// ActiveDays counts the distinct calendar days that carry at least one message.
func ActiveDays(msgs []parse.Message) int {
	n := 0
	var last time.Time
	for i, m := range msgs {
		d := m.Date()
		if i == 0 || !d.Equal(last) {
			n++
			last = d
		}
	}
	return n
}
