package parse

import (
	"strings"
	"testing"
	"time"
)

const sep = "----------------------------------------"

func transcript(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestTokenize_BasicBlock(t *testing.T) {
	text := transcript(
		"Wednesday, 01. January 2020",
		sep,
		"09:15 Alice:",
		"Good morning",
		"10:02 Bob:",
		"Hi there",
		"how are you?",
		"",
	)

	msgs, skipped := Tokenize(text, English)
	if skipped != 0 {
		t.Errorf("skipped=%d, want 0", skipped)
	}
	if len(msgs) != 2 {
		t.Fatalf("len(msgs)=%d, want 2", len(msgs))
	}

	want0 := time.Date(2020, 1, 1, 9, 15, 0, 0, time.UTC)
	if !msgs[0].Timestamp.Equal(want0) || msgs[0].Sender != "Alice" || msgs[0].Content != "Good morning" {
		t.Errorf("msg0=%+v", msgs[0])
	}
	if msgs[0].Line != 3 {
		t.Errorf("msg0 line=%d, want 3", msgs[0].Line)
	}
	if msgs[1].Content != "Hi there how are you?" {
		t.Errorf("msg1 content=%q, want collapsed line breaks", msgs[1].Content)
	}
	if msgs[1].Line != 5 {
		t.Errorf("msg1 line=%d, want 5", msgs[1].Line)
	}
}

func TestTokenize_MultipleBlocks(t *testing.T) {
	text := transcript(
		"Wednesday, 01. January 2020",
		sep,
		"23:59 Alice:",
		"late",
		"Thursday, 02. January 2020",
		sep,
		"00:01 Bob:",
		"early",
	)

	msgs, _ := Tokenize(text, English)
	if len(msgs) != 2 {
		t.Fatalf("len(msgs)=%d, want 2", len(msgs))
	}
	if msgs[0].Content != "late" {
		t.Errorf("msg0 content=%q, want block boundary to end content", msgs[0].Content)
	}
	if got, want := msgs[1].Timestamp, time.Date(2020, 1, 2, 0, 1, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("msg1 ts=%v, want %v", got, want)
	}
}

func TestTokenize_EmptySenderAndEmptyBlock(t *testing.T) {
	text := transcript(
		"Wednesday, 01. January 2020",
		sep,
		"Thursday, 02. January 2020",
		sep,
		"12:00 :",
		"Alice is away",
	)

	msgs, _ := Tokenize(text, English)
	if len(msgs) != 1 {
		t.Fatalf("len(msgs)=%d, want 1", len(msgs))
	}
	if msgs[0].Sender != "" {
		t.Errorf("sender=%q, want empty", msgs[0].Sender)
	}
	if msgs[0].Content != "Alice is away" {
		t.Errorf("content=%q", msgs[0].Content)
	}
}

func TestTokenize_SkipsMalformedHeaders(t *testing.T) {
	text := transcript(
		"Someday, 31. February 2020",
		sep,
		"10:00 Ghost:",
		"boo",
		"Wednesday, 01. Smarch 2020",
		sep,
		"Wednesday, 01. January 2020",
		sep,
		"25:00 Nobody:",
		"10:00 Alice:",
		"hello",
	)

	msgs, skipped := Tokenize(text, English)
	if skipped != 3 {
		t.Errorf("skipped=%d, want 3", skipped)
	}
	if len(msgs) != 1 {
		t.Fatalf("len(msgs)=%d, want 1", len(msgs))
	}
	if msgs[0].Sender != "Alice" || msgs[0].Content != "hello" {
		t.Errorf("msg=%+v", msgs[0])
	}
}

func TestTokenize_MalformedDateHeaderEndsPreviousBlock(t *testing.T) {
	text := transcript(
		"Wednesday, 01. January 2020",
		sep,
		"23:00 Alice:",
		"night",
		"Someday, 31. February 2020",
		sep,
		"10:00 Ghost:",
		"boo",
		"Friday, 03. January 2020",
		sep,
		"08:00 Bob:",
		"morning",
	)

	msgs, skipped := Tokenize(text, English)
	if skipped != 1 {
		t.Errorf("skipped=%d, want 1", skipped)
	}
	if len(msgs) != 2 {
		t.Fatalf("len(msgs)=%d, want 2: %+v", len(msgs), msgs)
	}
	if msgs[0].Sender != "Alice" || msgs[0].Content != "night" {
		t.Errorf("msgs[0]=%+v, want Alice \"night\"", msgs[0])
	}
	if msgs[1].Sender != "Bob" || !msgs[1].Timestamp.Equal(time.Date(2020, 1, 3, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("msgs[1]=%+v, want Bob on 2020-01-03", msgs[1])
	}
	for _, m := range msgs {
		if m.Sender == "Ghost" {
			t.Errorf("message under a malformed date header was kept: %+v", m)
		}
	}
}

func TestTokenize_MalformedMessageHeaderEndsPreviousContent(t *testing.T) {
	text := transcript(
		"Wednesday, 01. January 2020",
		sep,
		"09:00 Alice:",
		"hi",
		"25:00 Nobody:",
		"lost",
		"09:05 Bob:",
		"hey",
	)

	msgs, skipped := Tokenize(text, English)
	if skipped != 1 {
		t.Errorf("skipped=%d, want 1", skipped)
	}
	if len(msgs) != 2 {
		t.Fatalf("len(msgs)=%d, want 2: %+v", len(msgs), msgs)
	}
	if msgs[0].Content != "hi" {
		t.Errorf("content=%q, want \"hi\"", msgs[0].Content)
	}
	if msgs[1].Sender != "Bob" || msgs[1].Content != "hey" {
		t.Errorf("msgs[1]=%+v", msgs[1])
	}
}

func TestTokenize_NoDateHeaders(t *testing.T) {
	msgs, skipped := Tokenize("10:00 Alice:\nhello\n", English)
	if len(msgs) != 0 || skipped != 0 {
		t.Fatalf("got %d msgs, %d skipped; want none", len(msgs), skipped)
	}
}

func TestTokenize_CRLF(t *testing.T) {
	text := strings.Join([]string{
		"Wednesday, 01. January 2020",
		sep,
		"09:15 Alice:",
		"line one",
		"line two",
		"",
	}, "\r\n")

	msgs, _ := Tokenize(text, English)
	if len(msgs) != 1 {
		t.Fatalf("len(msgs)=%d, want 1", len(msgs))
	}
	if msgs[0].Content != "line one line two" {
		t.Errorf("content=%q", msgs[0].Content)
	}
}

func TestTokenize_GermanCalendar(t *testing.T) {
	text := transcript(
		"Montag, 02. März 2020",
		sep,
		"08:00 Jörg:",
		"Moin",
	)

	msgs, _ := Tokenize(text, German)
	if len(msgs) != 1 {
		t.Fatalf("len(msgs)=%d, want 1", len(msgs))
	}
	if got := msgs[0].Timestamp; got.Month() != time.March || got.Day() != 2 {
		t.Errorf("ts=%v, want 2 March", got)
	}

	if msgs, _ := Tokenize(text, English); len(msgs) != 0 {
		t.Errorf("english calendar parsed german header: %d msgs", len(msgs))
	}
}

func TestTokenize_SenderWithColon(t *testing.T) {
	text := transcript(
		"Wednesday, 01. January 2020",
		sep,
		"09:15 Bob: the builder:",
		"can we fix it",
	)

	msgs, _ := Tokenize(text, English)
	if len(msgs) != 1 || msgs[0].Sender != "Bob: the builder" {
		t.Fatalf("msgs=%+v", msgs)
	}
}
