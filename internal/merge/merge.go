// Package merge folds per-file message lists into one chronological history.
package merge

import (
	"sort"

	"github.com/Zuo-Peng/chatlog/internal/parse"
)

// Stats describes what a merge kept and dropped.
type Stats struct {
	Files      int // non-empty lists merged
	EmptyFiles int
	Kept       int
	Overlap    int // messages dropped as already-recorded prefixes
}

// Merge orders lists by their first message and appends each one after the
// last message already recorded. Empty lists contribute nothing.
func Merge(lists [][]parse.Message) []parse.Message {
	out, _ := MergeWithStats(lists)
	return out
}

func MergeWithStats(lists [][]parse.Message) ([]parse.Message, Stats) {
	var stats Stats

	nonEmpty := make([][]parse.Message, 0, len(lists))
	for _, l := range lists {
		if len(l) == 0 {
			stats.EmptyFiles++
			continue
		}
		nonEmpty = append(nonEmpty, l)
	}
	stats.Files = len(nonEmpty)

	sort.SliceStable(nonEmpty, func(i, j int) bool {
		return nonEmpty[i][0].Timestamp.Before(nonEmpty[j][0].Timestamp)
	})

	var out []parse.Message
	for _, l := range nonEmpty {
		if len(out) == 0 {
			out = append(out, l...)
			continue
		}
		last := out[len(out)-1]
		i := indexOf(l, last)
		if i < 0 {
			out = append(out, l...)
			continue
		}
		stats.Overlap += i + 1
		out = append(out, l[i+1:]...)
	}
	stats.Kept = len(out)
	return out, stats
}

func indexOf(l []parse.Message, m parse.Message) int {
	for i := range l {
		if l[i].Equal(m) {
			return i
		}
	}
	return -1
}
