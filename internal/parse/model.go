package parse

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a message.
type Kind int

const (
	KindText Kind = iota
	KindCall
	KindCallEnd
	KindFile
	KindRemoved
	KindStatus
	KindSystem
)

var kindNames = [...]string{
	KindText:    "text",
	KindCall:    "call",
	KindCallEnd: "call_end",
	KindFile:    "file",
	KindRemoved: "removed",
	KindStatus:  "status",
	KindSystem:  "system",
}

// Kinds lists every kind in display order.
var Kinds = []Kind{KindText, KindStatus, KindFile, KindCall, KindCallEnd, KindSystem, KindRemoved}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown message kind %q", b)
}

// Source locates a message header inside its transcript file.
type Source struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// Message is one classified transcript message. Source is informational and
// does not take part in equality.
type Message struct {
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"kind"`
	Source    Source    `json:"source"`
}

// Equal reports whether m and o are the same message for deduplication
// purposes: same timestamp, sender and content.
func (m Message) Equal(o Message) bool {
	return m.Timestamp.Equal(o.Timestamp) && m.Sender == o.Sender && m.Content == o.Content
}

// Date returns the civil date of the message at midnight UTC.
func (m Message) Date() time.Time {
	return DateOf(m.Timestamp)
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// ErrSourceUnreadable marks a transcript that could not be read.
var ErrSourceUnreadable = errors.New("source unreadable")

// SourceError reports a transcript file that could not be read.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("read transcript %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrSourceUnreadable) hold for every SourceError.
func (e *SourceError) Is(target error) bool { return target == ErrSourceUnreadable }

// ParseResult is everything extracted from one transcript.
type ParseResult struct {
	FileID   string
	Messages []Message
	// Skipped counts header-looking lines that failed validation.
	Skipped int
}
