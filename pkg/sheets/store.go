package sheets

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// RowKey is the composite identity of a summary row. Item is ignored when the
// worksheet has no Item Description column.
type RowKey struct {
	Client  string
	Project string
	Item    string
}

func (k RowKey) String() string {
	return fmt.Sprintf("%s/%s/%s", Normalize(k.Client), Normalize(k.Project), Normalize(k.Item))
}

// Store adapts a RowAPI with a header snapshot taken once at Open (or on an
// explicit Reload). Remote header changes after the snapshot are not observed.
type Store struct {
	api     RowAPI
	headers []string
	index   map[string]int // normalized name -> 1-based column
}

// Open fetches the header row and builds the name index.
func Open(ctx context.Context, api RowAPI) (*Store, error) {
	s := &Store{api: api}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the header snapshot. Duplicate names keep the first column.
func (s *Store) Reload(ctx context.Context) error {
	headers, err := s.api.HeaderRow(ctx)
	if err != nil {
		return fmt.Errorf("sheets: read header: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		n := Normalize(h)
		if n == "" {
			continue
		}
		if _, dup := index[n]; !dup {
			index[n] = i + 1
		}
	}

	s.headers = headers
	s.index = index
	return nil
}

// Headers returns the snapshot in column order.
func (s *Store) Headers() []string {
	return s.headers
}

// Column resolves a header name to its 1-based index.
func (s *Store) Column(name string) (int, bool) {
	col, ok := s.index[Normalize(name)]
	return col, ok
}

func (s *Store) HasColumn(name string) bool {
	_, ok := s.Column(name)
	return ok
}

// FindRow scans for the first row matching the key. Identity comparison is
// case-insensitive and whitespace-trimmed; duplicates beyond the first match
// are a data-quality issue on the sheet, not an error here.
func (s *Store) FindRow(ctx context.Context, key RowKey) (int, error) {
	rows, err := s.api.AllRows(ctx)
	if err != nil {
		return 0, fmt.Errorf("sheets: read rows: %w", err)
	}

	clientCol, ok := s.Column("Client")
	if !ok {
		return 0, fmt.Errorf("%w: Client", ErrColumnNotFound)
	}
	projectCol, ok := s.Column("Project")
	if !ok {
		return 0, fmt.Errorf("%w: Project", ErrColumnNotFound)
	}
	itemCol, hasItem := s.Column("Item Description")

	for i := 1; i < len(rows); i++ { // row 0 is the header
		row := rows[i]
		if Normalize(cellAt(row, clientCol)) != Normalize(key.Client) {
			continue
		}
		if Normalize(cellAt(row, projectCol)) != Normalize(key.Project) {
			continue
		}
		if hasItem && Normalize(cellAt(row, itemCol)) != Normalize(key.Item) {
			continue
		}
		return i + 1, nil
	}

	return 0, ErrRowNotFound
}

// CreateRow appends a row with identity columns populated and everything else
// empty, returning its 1-based index from the append result.
func (s *Store) CreateRow(ctx context.Context, key RowKey) (int, error) {
	values := make([]string, len(s.headers))

	set := func(name, value string) error {
		col, ok := s.Column(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrColumnNotFound, name)
		}
		values[col-1] = strings.TrimSpace(value)
		return nil
	}

	if err := set("Client", key.Client); err != nil {
		return 0, err
	}
	if err := set("Project", key.Project); err != nil {
		return 0, err
	}
	if s.HasColumn("Item Description") {
		if err := set("Item Description", key.Item); err != nil {
			return 0, err
		}
	}

	row, err := s.api.AppendRow(ctx, values)
	if err != nil {
		return 0, fmt.Errorf("sheets: append row: %w", err)
	}
	return row, nil
}

// Cell reads a single cell by row index and header name.
func (s *Store) Cell(ctx context.Context, row int, column string) (string, error) {
	col, ok := s.Column(column)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}
	return s.api.GetCell(ctx, row, col)
}

// SetCell writes a single cell by row index and header name.
func (s *Store) SetCell(ctx context.Context, row int, column, value string) error {
	col, ok := s.Column(column)
	if !ok {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}
	return s.api.SetCell(ctx, row, col, value)
}

// DistinctValues returns the distinct non-empty values of a column over rows
// matching every filter (column name -> required value, compared folded).
// The first spelling encountered wins; the result is sorted by folded value
// so option lists render deterministically.
func (s *Store) DistinctValues(ctx context.Context, column string, filters map[string]string) ([]string, error) {
	col, ok := s.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}

	type filterCol struct {
		col  int
		want string
	}
	var resolved []filterCol
	for name, want := range filters {
		fc, ok := s.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
		}
		resolved = append(resolved, filterCol{col: fc, want: Normalize(want)})
	}

	rows, err := s.api.AllRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets: read rows: %w", err)
	}

	seen := make(map[string]string)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		matched := true
		for _, f := range resolved {
			if Normalize(cellAt(row, f.col)) != f.want {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		value := strings.TrimSpace(cellAt(row, col))
		if value == "" {
			continue
		}
		n := Normalize(value)
		if _, dup := seen[n]; !dup {
			seen[n] = value
		}
	}

	keys := make([]string, 0, len(seen))
	for n := range seen {
		keys = append(keys, n)
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, n := range keys {
		values = append(values, seen[n])
	}
	return values, nil
}

func cellAt(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return row[col-1]
}
