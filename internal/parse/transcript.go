package parse

import (
	"os"
)

// Parser turns transcript text into classified messages.
type Parser struct {
	cal Calendar
}

func NewParser(cal Calendar) *Parser {
	return &Parser{cal: cal}
}

// Parse tokenizes and classifies one transcript. It never fails: unrecognized
// lines are dropped.
func (p *Parser) Parse(fileID, text string) *ParseResult {
	raw, skipped := Tokenize(text, p.cal)

	result := &ParseResult{
		FileID:  fileID,
		Skipped: skipped,
	}
	if len(raw) == 0 {
		return result
	}

	result.Messages = make([]Message, 0, len(raw))
	for _, r := range raw {
		kind, content := Classify(r.Sender, r.Content)
		result.Messages = append(result.Messages, Message{
			Content:   content,
			Sender:    r.Sender,
			Timestamp: r.Timestamp,
			Kind:      kind,
			Source:    Source{File: fileID, Line: r.Line},
		})
	}
	return result
}

// ParseFile reads and parses the transcript at path. Read failures are
// returned as *SourceError.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	return p.Parse(path, string(data)), nil
}
