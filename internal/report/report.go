// Package report runs the gap, identity and word consumers over a merged
// history and collects their output.
package report

import (
	"encoding/json"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/Zuo-Peng/chatlog/internal/history"
	"github.com/Zuo-Peng/chatlog/internal/parse"
	"github.com/Zuo-Peng/chatlog/internal/stats"
)

type Options struct {
	Aliases   *stats.AliasTable
	StopWords []string
	TopK      int
	MaxCount  int
	MinLength int
	Display   int
}

type Summary struct {
	Messages       int            `json:"messages"`
	First          time.Time      `json:"first,omitzero"`
	Last           time.Time      `json:"last,omitzero"`
	ActiveDays     int            `json:"active_days"`
	SilentDays     int            `json:"silent_days"`
	Kinds          map[string]int `json:"kinds"`
	Files          int            `json:"files"`
	EmptyFiles     int            `json:"empty_files"`
	OverlapDropped int            `json:"overlap_dropped"`
	SkippedHeaders int            `json:"skipped_headers"`
	Identities     int            `json:"identities"`
	DistinctWords  int            `json:"distinct_words"`
}

type IdentityRow struct {
	Name     string         `json:"name"`
	Aliases  []string       `json:"aliases"`
	Messages int            `json:"messages"`
	Words    int            `json:"words"`
	Kinds    map[string]int `json:"kinds"`
}

type Report struct {
	RunID      string                `json:"run_id"`
	Summary    Summary               `json:"summary"`
	Files      []history.FileSummary `json:"files"`
	Gaps       []stats.DateSpan      `json:"gaps"`
	Identities []IdentityRow         `json:"identities"`
	ByWords    []IdentityRow         `json:"by_words"`
	ByMessages []IdentityRow         `json:"by_messages"`
	TopWords   []stats.WordFrequency `json:"top_words"`
	LongWords  []stats.WordFrequency `json:"long_words"`

	// Messages is the merged stream; Words holds every counted word.
	Messages []parse.Message       `json:"-"`
	Words    []stats.WordFrequency `json:"-"`

	identities []*stats.UserIdentity
}

// Analyze runs the three independent consumers over h.Messages.
func Analyze(h *history.History, opts Options) *Report {
	msgs := h.Messages

	ids := stats.NewResolver(opts.Aliases).Resolve(msgs)
	words := stats.CountWords(stats.TextContents(msgs))
	gaps := stats.Gaps(msgs)

	r := &Report{
		RunID:      h.RunID,
		Files:      h.Files,
		Gaps:       gaps,
		Identities: rows(ids),
		ByWords:    rows(stats.RankByWords(ids)),
		ByMessages: rows(stats.RankByMessages(ids)),
		TopWords:   stats.TopWords(words, opts.StopWords, opts.TopK, opts.MaxCount),
		LongWords:  stats.LongWords(words, opts.MinLength, opts.Display),
		Messages:   msgs,
		Words:      words,
		identities: ids,
	}

	r.Summary = Summary{
		Messages:       len(msgs),
		ActiveDays:     stats.ActiveDays(msgs),
		Kinds:          kindCounts(msgs),
		Files:          len(h.Files),
		EmptyFiles:     h.Merge.EmptyFiles,
		OverlapDropped: h.Merge.Overlap,
		SkippedHeaders: h.Skipped(),
		Identities:     len(ids),
		DistinctWords:  len(words),
	}
	if len(msgs) > 0 {
		r.Summary.First = msgs[0].Timestamp
		r.Summary.Last = msgs[len(msgs)-1].Timestamp
	}
	for _, g := range gaps {
		r.Summary.SilentDays += g.Days()
	}
	return r
}

// UserIdentities returns the resolved identities in discovery order.
func (r *Report) UserIdentities() []*stats.UserIdentity {
	return r.identities
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Schema returns the JSON schema of the report document.
func Schema() ([]byte, error) {
	s := jsonschema.Reflect(&Report{})
	return json.MarshalIndent(s, "", "  ")
}

func rows(ids []*stats.UserIdentity) []IdentityRow {
	out := make([]IdentityRow, 0, len(ids))
	for _, u := range ids {
		kinds := make(map[string]int)
		for k, n := range u.KindCounts() {
			kinds[k.String()] = n
		}
		out = append(out, IdentityRow{
			Name:     u.Name(),
			Aliases:  u.Aliases,
			Messages: u.MessageCount(),
			Words:    u.WordCount(),
			Kinds:    kinds,
		})
	}
	return out
}

func kindCounts(msgs []parse.Message) map[string]int {
	counts := make(map[string]int)
	for _, m := range msgs {
		counts[m.Kind.String()]++
	}
	return counts
}
