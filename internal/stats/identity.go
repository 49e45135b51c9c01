package stats

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Zuo-Peng/chatlog/internal/parse"
)

var (
	ErrEmptyAliasClass    = errors.New("empty alias class")
	ErrOverlappingAliases = errors.New("sender listed in more than one alias class")
)

// AliasTable holds configured equivalence classes of raw sender strings.
type AliasTable struct {
	classes [][]string
	index   map[string]int
}

// NewAliasTable validates classes and builds a table. A sender may appear in
// at most one class; duplicates inside a single class are tolerated.
func NewAliasTable(classes [][]string) (*AliasTable, error) {
	t := &AliasTable{index: make(map[string]int)}
	for i, class := range classes {
		if len(class) == 0 {
			return nil, fmt.Errorf("alias class %d: %w", i, ErrEmptyAliasClass)
		}
		for _, name := range class {
			if j, ok := t.index[name]; ok && j != i {
				return nil, fmt.Errorf("%q in classes %d and %d: %w", name, j, i, ErrOverlappingAliases)
			}
			t.index[name] = i
		}
		t.classes = append(t.classes, append([]string(nil), class...))
	}
	return t, nil
}

// Same reports whether a and b are listed in the same class.
func (t *AliasTable) Same(a, b string) bool {
	if t == nil {
		return false
	}
	i, ok := t.index[a]
	if !ok {
		return false
	}
	j, ok := t.index[b]
	return ok && i == j
}

// Classes returns a copy of the configured classes.
func (t *AliasTable) Classes() [][]string {
	if t == nil {
		return nil
	}
	out := make([][]string, len(t.classes))
	for i, c := range t.classes {
		out[i] = append([]string(nil), c...)
	}
	return out
}

// UserIdentity is one real participant and every raw sender merged into it.
type UserIdentity struct {
	Aliases  []string        `json:"aliases"`
	Messages []parse.Message `json:"-"`

	tokens map[string]struct{}
}

// Name is the first alias discovered for the identity.
func (u *UserIdentity) Name() string {
	return u.Aliases[0]
}

func (u *UserIdentity) MessageCount() int {
	return len(u.Messages)
}

// WordCount counts whitespace-separated words across Text messages.
func (u *UserIdentity) WordCount() int {
	n := 0
	for _, m := range u.Messages {
		if m.Kind == parse.KindText {
			n += len(strings.Fields(m.Content))
		}
	}
	return n
}

func (u *UserIdentity) KindCounts() map[parse.Kind]int {
	counts := make(map[parse.Kind]int)
	for _, m := range u.Messages {
		counts[m.Kind]++
	}
	return counts
}

// Resolver groups messages into identities using an alias table and
// name-token equivalence.
type Resolver struct {
	aliases *AliasTable
	lower   cases.Caser
}

func NewResolver(aliases *AliasTable) *Resolver {
	return &Resolver{aliases: aliases, lower: cases.Lower(language.Und)}
}

type senderGroup struct {
	sender string
	msgs   []parse.Message
}

// Resolve folds raw-sender groups, in order of first appearance, into
// identities. The first matching identity wins. Messages without a sender
// are status lines and belong to no identity.
func (r *Resolver) Resolve(msgs []parse.Message) []*UserIdentity {
	var identities []*UserIdentity
	for _, g := range groupBySender(msgs) {
		tokens := r.tokenSet(g.sender)
		if u := r.match(identities, g.sender, tokens); u != nil {
			u.Aliases = append(u.Aliases, g.sender)
			u.Messages = mergeChronological(u.Messages, g.msgs)
			continue
		}
		identities = append(identities, &UserIdentity{
			Aliases:  []string{g.sender},
			Messages: g.msgs,
			tokens:   tokens,
		})
	}
	return identities
}

// match scans identities in accumulation order. Input size is bounded by the
// number of distinct senders, so the quadratic scan stays.
func (r *Resolver) match(identities []*UserIdentity, sender string, tokens map[string]struct{}) *UserIdentity {
	for _, u := range identities {
		if r.aliases.Same(sender, u.Name()) {
			return u
		}
		if sameTokens(tokens, u.tokens) {
			return u
		}
	}
	return nil
}

func (r *Resolver) tokenSet(name string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(r.lower.String(name)) {
		set[tok] = struct{}{}
	}
	return set
}

func sameTokens(a, b map[string]struct{}) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func groupBySender(msgs []parse.Message) []senderGroup {
	var groups []senderGroup
	pos := make(map[string]int)
	for _, m := range msgs {
		if m.Sender == "" {
			continue
		}
		i, ok := pos[m.Sender]
		if !ok {
			i = len(groups)
			pos[m.Sender] = i
			groups = append(groups, senderGroup{sender: m.Sender})
		}
		groups[i].msgs = append(groups[i].msgs, m)
	}
	return groups
}

// mergeChronological merges two chronological lists; on equal timestamps
// messages from a come first.
func mergeChronological(a, b []parse.Message) []parse.Message {
	out := make([]parse.Message, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if b[j].Timestamp.Before(a[i].Timestamp) {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// RankByWords returns identities ordered by Text word count, highest first.
func RankByWords(ids []*UserIdentity) []*UserIdentity {
	return rankBy(ids, (*UserIdentity).WordCount)
}

// RankByMessages returns identities ordered by message count, highest first.
func RankByMessages(ids []*UserIdentity) []*UserIdentity {
	return rankBy(ids, (*UserIdentity).MessageCount)
}

func rankBy(ids []*UserIdentity, score func(*UserIdentity) int) []*UserIdentity {
	out := append([]*UserIdentity(nil), ids...)
	sort.SliceStable(out, func(i, j int) bool {
		return score(out[i]) > score(out[j])
	})
	return out
}
