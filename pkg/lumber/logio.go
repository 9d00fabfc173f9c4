package lumber

import (
	"bytes"
	"strings"
	"sync"
)

// Writer adapts a Logger to an io.Writer so that libraries which only accept
// writers (gin's access log, the kafka client) end up in the structured log.
// Writer must be closed when finished to flush buffered data to the logger.
type Writer struct {
	// Log specifies the logger to which the Writer will write messages.
	// The Writer will panic if Log is unspecified.
	Log Logger
	// Level is one of Debug, Info, Warn or Error. Anything else logs at Debug.
	Level string
	buff  bytes.Buffer
	mu    sync.Mutex
}

// NewWriter returns a new Writer that writes to the provided Logger at Debug level.
func NewWriter(log Logger) *Writer {
	return &Writer{Log: log, Level: Debug}
}

// NewLevelWriter returns a new Writer that writes to the provided Logger at the given level.
func NewLevelWriter(log Logger, level string) *Writer {
	return &Writer{Log: log, Level: level}
}

// Write writes the provided bytes to the underlying logger at the configured
// log level and returns the length of the bytes.
//
// Write will split the input on newlines and post each line as a new log entry
// to the logger.
func (w *Writer) Write(bs []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n = len(bs)
	for len(bs) > 0 {
		bs = w.writeLine(bs)
	}
	return n, nil
}

// writeLine writes a single line from the input, returning the remaining,
// unconsumed bytes.
func (w *Writer) writeLine(line []byte) (remaining []byte) {
	idx := bytes.IndexByte(line, '\n')
	if idx < 0 {
		// If there are no newlines, buffer the entire string.
		w.buff.Write(line)
		return nil
	}

	// Split on the newline, buffer and flush the left.
	line, remaining = line[:idx], line[idx+1:]

	// Fast path: if we don't have a partial message from a previous write
	// in the buffer, skip the buffer and log directly.
	if w.buff.Len() == 0 {
		w.log(line)
		return
	}

	w.buff.Write(line)

	// Log empty messages in the middle of the stream so that we don't lose
	// information when the user writes "foo\n\nbar".
	w.flush(true /* allowEmpty */)

	return remaining
}

// Close closes the writer, flushing any buffered data in the process.
func (w *Writer) Close() error {
	return w.Sync()
}

// Sync flushes buffered data to the logger as a new log entry even if it
// doesn't contain a newline.
func (w *Writer) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	// Don't allow empty messages on explicit Sync calls or on Close
	// because we don't want an extraneous empty message at the end of the
	// stream -- it's common for files to end with a newline.
	w.flush(false)
	return nil
}

// flush flushes the buffered data to the logger, allowing empty messages only
// if the bool is set.
func (w *Writer) flush(allowEmpty bool) {
	if allowEmpty || w.buff.Len() > 0 {
		w.log(w.buff.Bytes())
	}
	w.buff.Reset()
}

func (w *Writer) log(b []byte) {
	msg := strings.TrimRight(string(b), "\r")
	switch w.Level {
	case Info:
		w.Log.Infof("%s", msg)
	case Warn:
		w.Log.Warnf("%s", msg)
	case Error:
		w.Log.Errorf("%s", msg)
	default:
		w.Log.Debugf("%s", msg)
	}
}
