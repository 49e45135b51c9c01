// Package history loads transcript exports and merges them into one
// chronological, duplicate-free message stream.
package history

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Zuo-Peng/chatlog/internal/logger"
	"github.com/Zuo-Peng/chatlog/internal/merge"
	"github.com/Zuo-Peng/chatlog/internal/parse"
)

type Options struct {
	Calendar parse.Calendar
	// Workers bounds concurrent file reads; 0 means one per CPU.
	Workers int
	Logger  *logger.Logger
}

// Document is one transcript already in memory.
type Document struct {
	ID   string
	Text string
}

type FileSummary struct {
	Path     string    `json:"path"`
	Messages int       `json:"messages"`
	Skipped  int       `json:"skipped_headers"`
	First    time.Time `json:"first,omitzero"`
	Last     time.Time `json:"last,omitzero"`
}

type History struct {
	RunID    string
	Files    []FileSummary
	Messages []parse.Message
	Merge    merge.Stats
}

// Skipped sums malformed headers across all files.
func (h *History) Skipped() int {
	n := 0
	for _, f := range h.Files {
		n += f.Skipped
	}
	return n
}

// Load reads and parses every path concurrently, then merges the results.
// Any unreadable file fails the whole load with a *parse.SourceError.
func Load(ctx context.Context, paths []string, opts Options) (*History, error) {
	runID := uuid.NewString()
	log := opts.logger().With().Str("run_id", runID).Logger()

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	parser := parse.NewParser(opts.Calendar)
	results := make([]*parse.ParseResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := parser.ParseFile(p)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("load transcripts")
		return nil, err
	}

	return assemble(runID, results, &log), nil
}

// Build parses in-memory documents sequentially and merges them.
func Build(docs []Document, opts Options) *History {
	runID := uuid.NewString()
	log := opts.logger().With().Str("run_id", runID).Logger()

	parser := parse.NewParser(opts.Calendar)
	results := make([]*parse.ParseResult, len(docs))
	for i, d := range docs {
		results[i] = parser.Parse(d.ID, d.Text)
	}
	return assemble(runID, results, &log)
}

func assemble(runID string, results []*parse.ParseResult, log *logger.Logger) *History {
	h := &History{RunID: runID}

	lists := make([][]parse.Message, len(results))
	for i, res := range results {
		fs := FileSummary{Path: res.FileID, Messages: len(res.Messages), Skipped: res.Skipped}
		if n := len(res.Messages); n > 0 {
			fs.First = res.Messages[0].Timestamp
			fs.Last = res.Messages[n-1].Timestamp
		}
		h.Files = append(h.Files, fs)
		lists[i] = res.Messages

		log.Debug().
			Str("file", res.FileID).
			Int("messages", fs.Messages).
			Int("skipped_headers", fs.Skipped).
			Msg("parsed transcript")
	}

	h.Messages, h.Merge = merge.MergeWithStats(lists)

	log.Info().
		Int("files", len(results)).
		Int("empty_files", h.Merge.EmptyFiles).
		Int("messages", h.Merge.Kept).
		Int("overlap_dropped", h.Merge.Overlap).
		Msg("merged transcripts")
	return h
}

func (o Options) logger() *logger.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logger.Get()
}
