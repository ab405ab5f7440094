package sheets_test

import (
	"testing"

	"prodreport-be/pkg/sheets"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want sheets.ColumnClass
	}{
		{"Client", sheets.ClassIdentity},
		{" project ", sheets.ClassIdentity},
		{"Item Description", sheets.ClassIdentity},
		{"Tasks", sheets.ClassMeta},
		{"Completed", sheets.ClassMeta},
		{"Status (%)", sheets.ClassMeta},
		{"", sheets.ClassMeta},
		{"Rough Turning Plan", sheets.ClassPlan},
		{"welding plan", sheets.ClassPlan},
		{"Rough Turning", sheets.ClassProcess},
		{"Welding", sheets.ClassProcess},
		{"Planning", sheets.ClassProcess}, // no " Plan" suffix
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sheets.Classify(tt.name), "column %q", tt.name)
	}
}

func TestProcessColumnsKeepHeaderOrder(t *testing.T) {
	headers := []string{"Client", "Project", "Welding", "Welding Plan", "Rough Turning", "Tasks", ""}
	assert.Equal(t, []string{"Welding", "Rough Turning"}, sheets.ProcessColumns(headers))
}

func TestPlanColumn(t *testing.T) {
	assert.Equal(t, "Rough Turning Plan", sheets.PlanColumn(" Rough Turning "))
}
