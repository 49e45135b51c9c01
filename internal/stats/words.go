package stats

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Zuo-Peng/chatlog/internal/parse"
)

// WordFrequency is a normalized word and how often it occurs.
type WordFrequency struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

func normalizeWord(c cases.Caser, w string) string {
	w = strings.TrimFunc(w, func(r rune) bool { return !isWordRune(r) })
	return c.String(w)
}

// NormalizeWord strips leading and trailing characters other than letters,
// digits, '-' and '_', then lower-cases the rest.
func NormalizeWord(w string) string {
	return normalizeWord(cases.Lower(language.Und), w)
}

// TextContents returns the content of every Text message.
func TextContents(msgs []parse.Message) []string {
	var out []string
	for _, m := range msgs {
		if m.Kind == parse.KindText {
			out = append(out, m.Content)
		}
	}
	return out
}

// CountWords splits contents on single spaces, normalizes each token and
// returns counts sorted by frequency. Ties keep first-encounter order.
func CountWords(contents []string) []WordFrequency {
	caser := cases.Lower(language.Und)

	var freqs []WordFrequency
	pos := make(map[string]int)
	for _, c := range contents {
		for _, raw := range strings.Split(c, " ") {
			w := normalizeWord(caser, raw)
			i, ok := pos[w]
			if !ok {
				i = len(freqs)
				pos[w] = i
				freqs = append(freqs, WordFrequency{Word: w})
			}
			freqs[i].Count++
		}
	}

	sort.SliceStable(freqs, func(i, j int) bool {
		return freqs[i].Count > freqs[j].Count
	})
	return freqs
}

// TopWords returns up to k ranked words not in stop. When maxCount is
// positive only words counted strictly fewer times are kept. k <= 0 means no
// limit.
func TopWords(freqs []WordFrequency, stop []string, k, maxCount int) []WordFrequency {
	skip := make(map[string]struct{}, len(stop))
	for _, s := range stop {
		skip[s] = struct{}{}
	}

	var out []WordFrequency
	for _, f := range freqs {
		if k > 0 && len(out) >= k {
			break
		}
		if _, ok := skip[f.Word]; ok {
			continue
		}
		if maxCount > 0 && f.Count >= maxCount {
			continue
		}
		out = append(out, f)
	}
	return out
}

// LongWords returns ranked words longer than minLength runes, truncated to
// display entries. display <= 0 means no limit.
func LongWords(freqs []WordFrequency, minLength, display int) []WordFrequency {
	var out []WordFrequency
	for _, f := range freqs {
		if display > 0 && len(out) >= display {
			break
		}
		if utf8.RuneCountInString(f.Word) > minLength {
			out = append(out, f)
		}
	}
	return out
}
