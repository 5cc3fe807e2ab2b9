package inventory_test

import (
	"bytes"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// countingMetrics registra las llamadas para verificarlas en los tests.
type countingMetrics struct {
	mu           sync.Mutex
	recorded     map[string]int
	rejected     map[string]int
	largeFlagged int
	adjustments  int
	undoOutcomes map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{recorded: map[string]int{}, rejected: map[string]int{}, undoOutcomes: map[string]int{}}
}

func (m *countingMetrics) MovementRecorded(direction string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded[direction]++
}

func (m *countingMetrics) MovementRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[reason]++
}

func (m *countingMetrics) LargeDispatchFlagged() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.largeFlagged++
}

func (m *countingMetrics) AdjustmentRecorded(bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adjustments++
}

func (m *countingMetrics) UndoFinished(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undoOutcomes[outcome]++
}

// syncBuffer buffer seguro para el logger usado desde varias goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testLogger(w *syncBuffer) zerolog.Logger {
	return zerolog.New(w).Level(zerolog.DebugLevel)
}
