package diagnostics

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderledger/backend/internal/domain"
)

func TestRecorder_Report(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf, false)

	rec.Report(domain.Diagnostic{Kind: domain.KindMatchMiss, Severity: domain.SeverityInfo, OrderID: "402-1", Message: "no match", Detail: `productId="B0X"`})
	rec.Report(domain.Diagnostic{Kind: domain.KindExtractionMiss, Severity: domain.SeverityDebug, OrderID: "402-1", Message: "fields not found: price"})
	rec.Report(domain.Diagnostic{Kind: domain.KindAllocationInconsistency, Severity: domain.SeverityWarning, OrderID: "402-2", Message: "known prices exceed total"})

	out := buf.String()
	assert.Contains(t, out, "match_miss order=402-1")
	assert.Contains(t, out, `productId=\"B0X\"`)
	assert.NotContains(t, out, "fields not found", "debug events are not written unless debug is on")
	assert.Contains(t, out, "warning allocation_inconsistency order=402-2")

	entries := rec.Entries()
	require.Len(t, entries, 3, "debug events are still retained")
	assert.Equal(t, domain.KindMatchMiss, entries[0].Kind)

	warnings := rec.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "402-2", warnings[0].OrderID)
}

func TestRecorder_DebugWritesEverything(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf, true)

	rec.Report(domain.Diagnostic{Kind: domain.KindExtractionMiss, Severity: domain.SeverityDebug, Message: "fields not found: price"})

	assert.Contains(t, buf.String(), "fields not found: price")
}

func TestRecorder_NilWriter(t *testing.T) {
	rec := NewRecorder(nil, true)
	rec.Report(domain.Diagnostic{Kind: domain.KindMatchMiss, Message: "m"})
	assert.Len(t, rec.Entries(), 1)
}

func TestRecorder_ConcurrentAppend(t *testing.T) {
	var buf safeBuffer
	rec := NewRecorder(&buf, true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rec.Report(domain.Diagnostic{Kind: domain.KindMatchMiss, Severity: domain.SeverityInfo, Message: "m"})
			}
		}()
	}
	wg.Wait()

	assert.Len(t, rec.Entries(), 1000)
	assert.Equal(t, 1000, strings.Count(buf.String(), "\n"))
}

func TestRecorder_BoundsRetention(t *testing.T) {
	rec := NewRecorder(nil, false)
	for i := 0; i < maxRetained+5; i++ {
		rec.Report(domain.Diagnostic{Kind: domain.KindMatchMiss, Message: "m"})
	}
	assert.Len(t, rec.Entries(), maxRetained)
	assert.Equal(t, 5, rec.Dropped())
}

func TestOpenFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagnostics.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

	rec, closer, err := OpenFile(path, false)
	require.NoError(t, err)
	rec.Report(domain.Diagnostic{Kind: domain.KindUnknownStatus, Severity: domain.SeverityInfo, Message: "status matched no keyword group"})
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "existing\n"))
	assert.Contains(t, string(data), "unknown_status")
}

// safeBuffer serializes writes so the test itself is race free
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
