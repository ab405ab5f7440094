package sheets

import "strings"

// ColumnClass is inferred from a column's header name, never its position.
type ColumnClass int

const (
	ClassIdentity ColumnClass = iota // Client / Project / Item Description
	ClassProcess                     // a work-process actual count
	ClassPlan                        // "<process> Plan" target, read-only
	ClassMeta                        // Tasks / Completed / Status (%) summary fields
)

const planSuffix = " plan"

var identityColumns = map[string]bool{
	"client":           true,
	"project":          true,
	"item description": true,
}

var metaColumns = map[string]bool{
	"tasks":      true,
	"completed":  true,
	"status (%)": true,
}

// Normalize folds a value for tolerant comparison: trimmed, lower-cased.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Classify maps a header name to its column class. Empty names classify as
// meta so they are skipped by aggregation.
func Classify(name string) ColumnClass {
	n := Normalize(name)
	switch {
	case n == "":
		return ClassMeta
	case identityColumns[n]:
		return ClassIdentity
	case metaColumns[n]:
		return ClassMeta
	case strings.HasSuffix(n, planSuffix):
		return ClassPlan
	default:
		return ClassProcess
	}
}

// ProcessColumns returns the process column names in header order.
func ProcessColumns(headers []string) []string {
	var cols []string
	for _, h := range headers {
		if Classify(h) == ClassProcess {
			cols = append(cols, h)
		}
	}
	return cols
}

// PlanColumn returns the paired target column name for a process column.
// Existence is not checked here; Store.Column does that against the snapshot.
func PlanColumn(process string) string {
	return strings.TrimSpace(process) + " Plan"
}
