package index

import (
	"testing"
	"time"

	"github.com/Zuo-Peng/chatlog/internal/parse"
)

func messages(n int) []parse.Message {
	base := time.Date(2021, 3, 1, 8, 0, 0, 0, time.UTC)
	out := make([]parse.Message, n)
	for i := range out {
		out[i] = parse.Message{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Sender:    "Alice",
			Kind:      parse.KindText,
			Content:   "message",
			Source:    parse.Source{File: "a.txt", Line: 3 + 2*i},
		}
	}
	return out
}

func TestBuild(t *testing.T) {
	db, err := Build(messages(5))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer db.Close()

	n, err := db.MessageCount()
	if err != nil {
		t.Fatalf("MessageCount: %v", err)
	}
	if n != 5 {
		t.Fatalf("MessageCount=%d, want 5", n)
	}

	var fts int
	if err := db.Raw().QueryRow("SELECT COUNT(*) FROM messages_fts WHERE messages_fts MATCH 'message'").Scan(&fts); err != nil {
		t.Fatalf("fts count: %v", err)
	}
	if fts != 5 {
		t.Errorf("fts rows=%d, want 5", fts)
	}
}

func TestInsert_ContinuesSeq(t *testing.T) {
	db, err := Build(messages(2))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer db.Close()

	if err := db.Insert(messages(1)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	rows, err := db.GetWindow(2, 0)
	if err != nil {
		t.Fatalf("GetWindow: %v", err)
	}
	if len(rows) != 1 || rows[0].Seq != 2 {
		t.Fatalf("rows=%+v, want seq 2", rows)
	}
}

func TestGetWindow(t *testing.T) {
	db, err := Build(messages(10))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer db.Close()

	rows, err := db.GetWindow(1, 2)
	if err != nil {
		t.Fatalf("GetWindow: %v", err)
	}
	if len(rows) != 4 || rows[0].Seq != 0 || rows[3].Seq != 3 {
		t.Fatalf("rows=%+v, want seq 0..3", rows)
	}
	r := rows[1]
	if r.Ts != "2021-03-01T08:01:00Z" || r.Kind != "text" || r.FilePath != "a.txt" || r.LineNumber != 5 {
		t.Errorf("row=%+v", r)
	}
}
