package service_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"prodreport-be/internal/service"
	"prodreport-be/pkg/sheets"
	"prodreport-be/pkg/sheets/memory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopLogger keeps unit tests quiet; logging output is not under test.
type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

var summaryHeader = []string{"Client", "Project", "Item Description", "Rough Turning", "Rough Turning Plan", "Welding", "Welding Plan", "Tasks"}

func newLedger(t *testing.T, rows ...[]string) (service.ILedgerService, *memory.Worksheet) {
	t.Helper()

	ws := memory.New(summaryHeader)
	for _, row := range rows {
		_, err := ws.AppendRow(context.Background(), row)
		require.NoError(t, err)
	}
	store, err := sheets.Open(context.Background(), ws)
	require.NoError(t, err)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	publisher := service.NewPublisherService("LEDGER_TEST", pubSub)

	return service.NewLedgerService(store, publisher, nil, nopLogger{}), ws
}

func key(client, project, item string) sheets.RowKey {
	return sheets.RowKey{Client: client, Project: project, Item: item}
}

func TestAddQuantityCreatesRowOnce(t *testing.T) {
	ledger, ws := newLedger(t)

	value, err := ledger.AddQuantity(context.Background(), "u1", key("Acme", "Site1", "Widget"), "Rough Turning", 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, value)

	rows, err := ws.AllRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2) // header + one created row
	assert.Equal(t, "Acme", rows[1][0])
	assert.Equal(t, "Site1", rows[1][1])
	assert.Equal(t, "Widget", rows[1][2])
	assert.Equal(t, "4", rows[1][3])

	// Same key with different casing must reuse the row, not create another.
	_, err = ledger.AddQuantity(context.Background(), "u1", key("ACME", "site1", "WIDGET"), "Rough Turning", 1)
	require.NoError(t, err)

	rows, err = ws.AllRows(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "5", rows[1][3])
}

func TestAddQuantityAccumulates(t *testing.T) {
	ledger, _ := newLedger(t)
	k := key("Acme", "Site1", "Widget")

	_, err := ledger.AddQuantity(context.Background(), "u1", k, "Welding", 2.5)
	require.NoError(t, err)
	value, err := ledger.AddQuantity(context.Background(), "u1", k, "Welding", 3)
	require.NoError(t, err)
	assert.Equal(t, 5.5, value)
}

func TestAddQuantityTreatsGarbageAsZero(t *testing.T) {
	ledger, _ := newLedger(t, []string{"Acme", "Site1", "Widget", "n/a"})

	value, err := ledger.AddQuantity(context.Background(), "u1", key("Acme", "Site1", "Widget"), "Rough Turning", 3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, value)
}

func TestAddQuantityConcurrentSameRow(t *testing.T) {
	ledger, ws := newLedger(t)
	k := key("Acme", "Site1", "Widget")

	const workers = 8
	const perWorker = 5

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := ledger.AddQuantity(context.Background(), "u1", k, "Rough Turning", 1)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	rows, err := ws.AllRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2) // find-or-create must not race into duplicates
	assert.Equal(t, "40", rows[1][3])
}

func TestSetQuantityOverwrites(t *testing.T) {
	ledger, _ := newLedger(t, []string{"Acme", "Site1", "Widget", "9"})

	value, err := ledger.SetQuantity(context.Background(), "u1", key("Acme", "Site1", "Widget"), "Rough Turning", 3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, value)
}

func TestUndoLastProcessResetsHighestColumn(t *testing.T) {
	ledger, ws := newLedger(t, []string{"Acme", "Site1", "Widget", "4", "10", "7", "5"})
	k := key("Acme", "Site1", "Widget")

	column, err := ledger.UndoLastProcess(context.Background(), "u1", k)
	require.NoError(t, err)
	assert.Equal(t, "Welding", column) // highest column index, not write order

	rows, err := ws.AllRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4", rows[1][3])  // untouched
	assert.Equal(t, "0", rows[1][5])  // reset
	assert.Equal(t, "10", rows[1][4]) // plan column untouched

	column, err = ledger.UndoLastProcess(context.Background(), "u1", k)
	require.NoError(t, err)
	assert.Equal(t, "Rough Turning", column)

	_, err = ledger.UndoLastProcess(context.Background(), "u1", k)
	assert.ErrorIs(t, err, service.ErrNothingToUndo)
}

func TestUndoMissingRow(t *testing.T) {
	ledger, _ := newLedger(t)
	_, err := ledger.UndoLastProcess(context.Background(), "u1", key("Ghost", "Nowhere", ""))
	assert.ErrorIs(t, err, sheets.ErrRowNotFound)
}

func TestComputeStatusPlanScenario(t *testing.T) {
	ledger, _ := newLedger(t, []string{"Acme", "Site1", "", "0", "10"})
	k := key("Acme", "Site1", "")

	_, err := ledger.AddQuantity(context.Background(), "u1", k, "Rough Turning", 4)
	require.NoError(t, err)

	report, err := ledger.ComputeStatus(context.Background(), k)
	require.NoError(t, err)
	assert.True(t, report.Configured)
	assert.Equal(t, 0, report.Completed) // 4 < 10
	assert.InDelta(t, 40.0, report.Percentage, 0.001)

	_, err = ledger.AddQuantity(context.Background(), "u1", k, "Rough Turning", 6)
	require.NoError(t, err)

	report, err = ledger.ComputeStatus(context.Background(), k)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Completed)
	assert.InDelta(t, 100.0, report.Percentage, 0.001)
}

func TestComputeStatusTasksDenominator(t *testing.T) {
	ledger, _ := newLedger(t, []string{"Acme", "Site1", "Widget", "10", "10", "0", "5", "2"})

	report, err := ledger.ComputeStatus(context.Background(), key("Acme", "Site1", "Widget"))
	require.NoError(t, err)
	assert.True(t, report.Configured)
	assert.Equal(t, 1, report.Completed)
	assert.Equal(t, 2, report.TotalTasks)
	assert.InDelta(t, 50.0, report.Percentage, 0.001)
}

// ComputeStatus takes the same row lock as the write paths, so a status read
// never observes a row mid-write and never deadlocks against a writer.
func TestComputeStatusSerializedWithWrites(t *testing.T) {
	ledger, _ := newLedger(t, []string{"Acme", "Site1", "Widget", "0", "100"})
	k := key("Acme", "Site1", "Widget")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			_, err := ledger.AddQuantity(context.Background(), "u1", k, "Rough Turning", 5)
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			report, err := ledger.ComputeStatus(context.Background(), k)
			if assert.NoError(t, err) {
				// Quiesced snapshot: only whole deltas are visible.
				assert.InDelta(t, 0, math.Mod(report.ActualSum, 5), 1e-9)
			}
		}
	}()
	wg.Wait()

	report, err := ledger.ComputeStatus(context.Background(), k)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, report.Percentage, 0.001)
	assert.Equal(t, 1, report.Completed)
}

func TestComputeStatusUnconfigured(t *testing.T) {
	ledger, _ := newLedger(t)

	// Missing row: friendly zero report, no error.
	report, err := ledger.ComputeStatus(context.Background(), key("Ghost", "Nowhere", ""))
	require.NoError(t, err)
	assert.False(t, report.Configured)

	// Existing row without plan values: also unconfigured.
	_, err = ledger.AddQuantity(context.Background(), "u1", key("Acme", "Site1", "Widget"), "Rough Turning", 4)
	require.NoError(t, err)
	report, err = ledger.ComputeStatus(context.Background(), key("Acme", "Site1", "Widget"))
	require.NoError(t, err)
	assert.False(t, report.Configured)
}
