package memory

import (
	"context"
	"sync"
)

// Worksheet is an in-memory sheets.RowAPI. It backs unit tests and local
// development without a spreadsheet credential.
type Worksheet struct {
	mu   sync.RWMutex
	rows [][]string
}

// New creates a worksheet with the given header as row 1.
func New(header []string) *Worksheet {
	h := make([]string, len(header))
	copy(h, header)
	return &Worksheet{rows: [][]string{h}}
}

func (w *Worksheet) HeaderRow(ctx context.Context) ([]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return copyRow(w.rows[0]), nil
}

func (w *Worksheet) AllRows(ctx context.Context) ([][]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([][]string, len(w.rows))
	for i, r := range w.rows {
		out[i] = copyRow(r)
	}
	return out, nil
}

func (w *Worksheet) AppendRow(ctx context.Context, values []string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, copyRow(values))
	return len(w.rows), nil
}

func (w *Worksheet) GetCell(ctx context.Context, row, col int) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if row < 1 || row > len(w.rows) {
		return "", nil
	}
	r := w.rows[row-1]
	if col < 1 || col > len(r) {
		return "", nil
	}
	return r[col-1], nil
}

func (w *Worksheet) SetCell(ctx context.Context, row, col int, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for row > len(w.rows) {
		w.rows = append(w.rows, nil)
	}
	r := w.rows[row-1]
	for col > len(r) {
		r = append(r, "")
	}
	r[col-1] = value
	w.rows[row-1] = r
	return nil
}

func copyRow(r []string) []string {
	out := make([]string, len(r))
	copy(out, r)
	return out
}
