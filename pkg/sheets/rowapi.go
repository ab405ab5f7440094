package sheets

import (
	"context"
	"errors"
)

// RowAPI is the narrow wire contract against the remote worksheet. Rows and
// columns are 1-based; row 1 is the header row. All values are strings, the
// numeric interpretation belongs to the caller.
type RowAPI interface {
	HeaderRow(ctx context.Context) ([]string, error)
	AllRows(ctx context.Context) ([][]string, error)
	AppendRow(ctx context.Context, values []string) (int, error)
	GetCell(ctx context.Context, row, col int) (string, error)
	SetCell(ctx context.Context, row, col int, value string) error
}

var (
	// ErrRowNotFound is returned when no row matches a lookup key.
	ErrRowNotFound = errors.New("sheets: row not found")

	// ErrColumnNotFound is returned when a column name is absent from the
	// header snapshot.
	ErrColumnNotFound = errors.New("sheets: column not found")
)
