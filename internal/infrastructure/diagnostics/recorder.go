package diagnostics

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/orderledger/backend/internal/domain"
)

// maxRetained bounds the in-memory history of a long-running process
const maxRetained = 10000

// Recorder is an append-only diagnostic sink. Every event is written as one
// log line and kept in memory; debug events are only written when debug is on.
// It is safe for concurrent use.
type Recorder struct {
	logger *log.Logger
	debug  bool

	mutex   sync.Mutex
	entries []domain.Diagnostic
	dropped int
}

// NewRecorder writes diagnostics to w
func NewRecorder(w io.Writer, debug bool) *Recorder {
	if w == nil {
		w = io.Discard
	}
	return &Recorder{
		logger: log.New(w, "[DIAG] ", log.Ldate|log.Ltime),
		debug:  debug,
	}
}

// OpenFile creates a recorder appending to path. The returned closer closes the file.
func OpenFile(path string, debug bool) (*Recorder, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening diagnostics file: %w", err)
	}
	return NewRecorder(f, debug), f, nil
}

// Report implements domain.DiagnosticReporter
func (r *Recorder) Report(d domain.Diagnostic) {
	if d.Severity != domain.SeverityDebug || r.debug {
		line := fmt.Sprintf("%s %s order=%s run=%s: %s", d.Severity, d.Kind, d.OrderID, d.RunID, d.Message)
		if d.Detail != "" {
			line += fmt.Sprintf(" | %q", d.Detail)
		}
		r.logger.Println(line)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if len(r.entries) >= maxRetained {
		r.entries = r.entries[1:]
		r.dropped++
	}
	r.entries = append(r.entries, d)
}

// Entries returns a copy of the retained diagnostics in report order
func (r *Recorder) Entries() []domain.Diagnostic {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]domain.Diagnostic, len(r.entries))
	copy(out, r.entries)
	return out
}

// Warnings returns the retained warning-severity diagnostics
func (r *Recorder) Warnings() []domain.Diagnostic {
	return r.Filter(func(d domain.Diagnostic) bool { return d.Severity == domain.SeverityWarning })
}

// Filter returns the retained diagnostics for which keep returns true
func (r *Recorder) Filter(keep func(domain.Diagnostic) bool) []domain.Diagnostic {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var out []domain.Diagnostic
	for _, d := range r.entries {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// Dropped returns how many old entries were evicted from memory
func (r *Recorder) Dropped() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.dropped
}
