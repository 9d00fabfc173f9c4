package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/pkg/lumber"
)

// StatusRecorder is a core.StatusSink keeping every status it receives.
type StatusRecorder struct {
	mu       sync.Mutex
	statuses []core.CommitStatus
	// Err is returned by the next Fails calls to Report.
	Err   error
	Fails int
}

// Report records the status, or fails while Fails is positive.
func (s *StatusRecorder) Report(ctx context.Context, commit *core.Commit, status *core.CommitStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fails > 0 {
		s.Fails--
		return s.Err
	}
	s.statuses = append(s.statuses, *status)
	return nil
}

// Statuses returns the recorded statuses in order.
func (s *StatusRecorder) Statuses() []core.CommitStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CommitStatus(nil), s.statuses...)
}

// ByContext returns the recorded statuses sent under statusContext.
func (s *StatusRecorder) ByContext(statusContext string) []core.CommitStatus {
	var out []core.CommitStatus
	for _, st := range s.Statuses() {
		if st.Context == statusContext {
			out = append(out, st)
		}
	}
	return out
}

// FileFetcher is a core.ContentFetcher serving files from a map keyed by sha then path.
type FileFetcher struct {
	Files map[string]map[string][]byte
	// Err, when set, is returned for every fetch.
	Err error
}

// FetchFile returns the stored file or errs.ErrNotFound.
func (f *FileFetcher) FetchFile(ctx context.Context, commit *core.Commit, path string) ([]byte, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	content, ok := f.Files[commit.Sha][path]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return content, nil
}

// LogEntry is one line captured by a LogRecorder.
type LogEntry struct {
	Level   string
	Message string
	Fields  lumber.Fields
}

type logBook struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogRecorder is a lumber.Logger keeping every entry with the fields in scope.
type LogRecorder struct {
	book   *logBook
	fields lumber.Fields
}

// NewLogRecorder returns an empty LogRecorder.
func NewLogRecorder() *LogRecorder {
	return &LogRecorder{book: &logBook{}, fields: lumber.Fields{}}
}

// Entries returns the captured entries of this logger and its children.
func (l *LogRecorder) Entries() []LogEntry {
	l.book.mu.Lock()
	defer l.book.mu.Unlock()
	return append([]LogEntry(nil), l.book.entries...)
}

func (l *LogRecorder) record(level, format string, args ...interface{}) {
	l.book.mu.Lock()
	defer l.book.mu.Unlock()
	l.book.entries = append(l.book.entries, LogEntry{Level: level, Message: fmt.Sprintf(format, args...), Fields: l.fields})
}

func (l *LogRecorder) Debugf(format string, args ...interface{}) { l.record(lumber.Debug, format, args...) }
func (l *LogRecorder) Infof(format string, args ...interface{})  { l.record(lumber.Info, format, args...) }
func (l *LogRecorder) Warnf(format string, args ...interface{})  { l.record(lumber.Warn, format, args...) }
func (l *LogRecorder) Errorf(format string, args ...interface{}) { l.record(lumber.Error, format, args...) }
func (l *LogRecorder) Fatalf(format string, args ...interface{}) { l.record(lumber.Fatal, format, args...) }

func (l *LogRecorder) Panicf(format string, args ...interface{}) {
	l.record("panic", format, args...)
	panic(fmt.Sprintf(format, args...))
}

// WithFields returns a child sharing the captured entries.
func (l *LogRecorder) WithFields(keyValues lumber.Fields) lumber.Logger {
	fields := make(lumber.Fields, len(l.fields)+len(keyValues))
	for k, v := range l.fields {
		fields[k] = v
	}
	for k, v := range keyValues {
		fields[k] = v
	}
	return &LogRecorder{book: l.book, fields: fields}
}
