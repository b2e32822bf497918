package console

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Verbosity tags a log message by severity. Lower values are shown more
// readily; Output and NewOutput's maxVerbosity filters by "include
// everything at or below this value".
type Verbosity uint8

const (
	VerbosityError Verbosity = iota
	VerbosityWarning
	VerbosityNormal
	VerbosityDebug
)

func (v Verbosity) String() string {
	switch v {
	case VerbosityError:
		return "error"
	case VerbosityWarning:
		return "warning"
	case VerbosityNormal:
		return "normal"
	case VerbosityDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// Message is one entry in the log sink.
type Message struct {
	Text      string
	Verbosity Verbosity
	Timestamp time.Time
	Location  string

	seq int64
}

const (
	logBufferMax      = 800
	logBufferTrimTo   = 500
)

// Log is the process-wide append-only log sink (§4.C). new_output/Output
// give the console overlay (outside the core) something to render; the
// buffer is bounded so a long session doesn't grow it unboundedly.
type Log struct {
	mu       sync.Mutex
	messages []Message
	nextSeq  int64
}

// NewLog constructs an empty log sink.
func NewLog() *Log {
	return &Log{}
}

// Write appends a message. Once the buffer exceeds logBufferMax entries it
// is trimmed back down to the most recent logBufferTrimTo.
func (l *Log) Write(text string, verbosity Verbosity, location string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextSeq++
	l.messages = append(l.messages, Message{
		Text:      text,
		Verbosity: verbosity,
		Timestamp: time.Now(),
		Location:  location,
		seq:       l.nextSeq,
	})
	if len(l.messages) > logBufferMax {
		drop := len(l.messages) - logBufferTrimTo
		l.messages = append([]Message(nil), l.messages[drop:]...)
	}
}

// Output returns the current retained window, filtered to verbosity <=
// maxVerbosity. It does not affect any consumer's cursor.
func (l *Log) Output(maxVerbosity Verbosity) []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, 0, len(l.messages))
	for _, m := range l.messages {
		if m.Verbosity <= maxVerbosity {
			out = append(out, m)
		}
	}
	return out
}

// Consumer tracks an independent "new since last read" cursor over a Log.
// Multiple consumers (e.g. the console overlay and a file tee) can read the
// same Log without interfering with each other.
type Consumer struct {
	log    *Log
	cursor atomic.Int64
}

// NewConsumer returns a cursor over log, starting before any message
// currently in the buffer.
func (l *Log) NewConsumer() *Consumer {
	return &Consumer{log: l}
}

// NewOutput returns messages written since this consumer's last call,
// filtered to verbosity <= maxVerbosity, and advances its cursor.
func (c *Consumer) NewOutput(maxVerbosity Verbosity) []Message {
	c.log.mu.Lock()
	defer c.log.mu.Unlock()
	since := c.cursor.Load()
	var out []Message
	for _, m := range c.log.messages {
		if m.seq > since && m.Verbosity <= maxVerbosity {
			out = append(out, m)
		}
	}
	if n := len(c.log.messages); n > 0 {
		c.cursor.Store(c.log.messages[n-1].seq)
	}
	return out
}

// --- process-wide sink ---

var sink atomic.Pointer[Log]

// SetLog installs the process-wide log sink. Passing nil makes Logf a
// no-op, matching "if unset, all calls are no-ops" (§4.C).
func SetLog(l *Log) { sink.Store(l) }

// SharedLog returns the installed sink, or nil.
func SharedLog() *Log { return sink.Load() }

// Logf formats and writes a message to the installed sink at the given
// verbosity. A nil sink makes this a no-op rather than a panic.
func Logf(verbosity Verbosity, location string, format string, args ...any) {
	l := sink.Load()
	if l == nil {
		return
	}
	l.Write(fmt.Sprintf(format, args...), verbosity, location)
}
