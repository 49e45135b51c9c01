package index

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Zuo-Peng/chatlog/internal/parse"
)

// The index lives in memory only and is rebuilt from transcripts each run.
const schema = `
CREATE TABLE messages (
    seq         INTEGER PRIMARY KEY,
    ts          TEXT NOT NULL,
    sender      TEXT NOT NULL DEFAULT '',
    kind        TEXT NOT NULL DEFAULT 'text',
    content     TEXT NOT NULL,
    file_path   TEXT NOT NULL DEFAULT '',
    line_number INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX messages_sender ON messages(sender);

CREATE VIRTUAL TABLE messages_fts USING fts5(
    content,
    content=messages,
    content_rowid=seq,
    tokenize='unicode61'
);

CREATE TRIGGER messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, content) VALUES (new.seq, new.content);
END;
`

// TimeLayout is how timestamps are stored in the ts column.
const TimeLayout = "2006-01-02T15:04:05Z"

type DB struct {
	db *sql.DB
}

// OpenMemory creates an empty in-memory index.
func OpenMemory() (*DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// every pooled connection would get its own empty :memory: database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Build opens an index and loads msgs into it.
func Build(msgs []parse.Message) (*DB, error) {
	d, err := OpenMemory()
	if err != nil {
		return nil, err
	}
	if err := d.Insert(msgs); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

// Insert appends msgs in order; seq continues from the current count.
func (d *DB) Insert(msgs []parse.Message) error {
	n, err := d.MessageCount()
	if err != nil {
		return err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO messages (seq, ts, sender, kind, content, file_path, line_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range msgs {
		_, err := stmt.Exec(
			n+i,
			m.Timestamp.UTC().Format(TimeLayout),
			m.Sender,
			m.Kind.String(),
			m.Content,
			m.Source.File,
			m.Source.Line,
		)
		if err != nil {
			return fmt.Errorf("insert message %d: %w", n+i, err)
		}
	}
	return tx.Commit()
}

func (d *DB) MessageCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}

type MessageRow struct {
	Seq        int
	Ts         string
	Sender     string
	Kind       string
	Content    string
	FilePath   string
	LineNumber int
}

// GetWindow returns up to context rows on each side of seq, in order.
func (d *DB) GetWindow(seq, context int) ([]MessageRow, error) {
	rows, err := d.db.Query(
		`SELECT seq, ts, sender, kind, content, file_path, line_number
		 FROM messages WHERE seq BETWEEN ? AND ? ORDER BY seq`,
		seq-context, seq+context,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MessageRow
	for rows.Next() {
		var r MessageRow
		if err := rows.Scan(&r.Seq, &r.Ts, &r.Sender, &r.Kind, &r.Content, &r.FilePath, &r.LineNumber); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
