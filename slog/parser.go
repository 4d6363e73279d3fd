package slog

import (
	"log/slog"
	"time"

	"github.com/factex/blocktree"
)

// Ensure LoggingParser implements blocktree.Parser.
var _ blocktree.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with debug logging.
type LoggingParser struct {
	next   blocktree.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next blocktree.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the operation.
func (p *LoggingParser) Parse(markup []byte) (raw *blocktree.RawNode, err error) {
	defer func(begin time.Time) {
		p.logger.Info("parse",
			"bytes", len(markup),
			"nodes", countNodes(raw),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Parse(markup)
}

func countNodes(raw *blocktree.RawNode) int {
	if raw == nil {
		return 0
	}
	n := 1
	for _, c := range raw.Children {
		n += countNodes(c)
	}
	return n
}
