// Package errlog implements the batch's append-only error log.
//
// Appends are asynchronous: callers hand over an entry and a completion
// callback and continue immediately. A single writer goroutine serializes
// the actual file writes, which is the only ordering guarantee the log
// gives. Callers that must not release the log while writes are in flight
// track their own pending count and call Close once it reaches zero.
package errlog

import (
	"fmt"
	"os"
)

// Mode controls how an existing log file is treated on open.
type Mode int

const (
	// Overwrite truncates an existing file.
	Overwrite Mode = iota
	// FailIfExists refuses to open when the file is already present.
	FailIfExists
)

// DefaultSeparator is the entry separator used when none is configured.
const DefaultSeparator = "\n"

type entry struct {
	text string
	done func(error)
}

// Log is an append-only text sink.
type Log struct {
	f         *os.File
	separator string
	entries   chan entry
	drained   chan struct{}
}

// Open creates or opens the log file at path. separator is inserted after
// every entry; pass "" for the default line terminator.
func Open(path string, mode Mode, separator string) (*Log, error) {
	flags := os.O_WRONLY | os.O_CREATE
	switch mode {
	case Overwrite:
		flags |= os.O_TRUNC
	case FailIfExists:
		flags |= os.O_EXCL
	default:
		return nil, fmt.Errorf("unknown log mode %d", mode)
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}

	if separator == "" {
		separator = DefaultSeparator
	}

	l := &Log{
		f:         f,
		separator: separator,
		entries:   make(chan entry, 64),
		drained:   make(chan struct{}),
	}
	go l.writeLoop()
	return l, nil
}

func (l *Log) writeLoop() {
	defer close(l.drained)
	for e := range l.entries {
		_, err := l.f.WriteString(e.text + l.separator)
		if e.done != nil {
			e.done(err)
		}
	}
}

// Append queues text for writing and returns immediately. done, if
// non-nil, is invoked exactly once from the writer goroutine when this
// entry's write settles. Appending after Close panics; the caller owns
// that ordering.
func (l *Log) Append(text string, done func(error)) {
	l.entries <- entry{text: text, done: done}
}

// Close stops accepting entries, waits for queued writes to settle, and
// closes the file.
func (l *Log) Close() error {
	close(l.entries)
	<-l.drained
	if err := l.f.Close(); err != nil {
		return fmt.Errorf("failed to close error log: %w", err)
	}
	return nil
}
