package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"prodreport-be/internal/constant"
	"prodreport-be/internal/dto"
	"prodreport-be/internal/pkg/logger"
	"prodreport-be/pkg/events"
	pktNats "prodreport-be/pkg/nats"
	"prodreport-be/pkg/sheets"

	"github.com/google/uuid"
)

// ErrNothingToUndo is returned when no process column holds a nonzero value.
var ErrNothingToUndo = errors.New("ledger: nothing to undo")

type ILedgerService interface {
	// AddQuantity adds delta to the process column, creating the row when
	// absent. Returns the new cell value.
	AddQuantity(ctx context.Context, userID string, key sheets.RowKey, column string, delta float64) (float64, error)

	// SetQuantity overwrites the process column with an absolute value.
	SetQuantity(ctx context.Context, userID string, key sheets.RowKey, column string, value float64) (float64, error)

	// UndoLastProcess resets the highest-index nonzero process column to 0
	// and returns its name. "Last" is column order: the store records no
	// write order, so this is an approximation kept from the original flow.
	UndoLastProcess(ctx context.Context, userID string, key sheets.RowKey) (string, error)

	// ComputeStatus derives the completion summary for a row. A missing row
	// or zero denominator yields Configured=false, never an error.
	ComputeStatus(ctx context.Context, key sheets.RowKey) (*dto.StatusReport, error)
}

type ledgerService struct {
	store            *sheets.Store
	publisherService IPublisherService
	natsPub          *pktNats.Publisher
	sysLogger        logger.ILogger

	// Per-row serialization. find-then-create and read-then-write are both
	// check-then-act against the remote sheet; without this two concurrent
	// commits to one row can drop a delta.
	mu       sync.Mutex
	rowLocks map[string]*sync.Mutex
}

func NewLedgerService(
	store *sheets.Store,
	publisherService IPublisherService,
	natsPub *pktNats.Publisher,
	sysLogger logger.ILogger,
) ILedgerService {
	return &ledgerService{
		store:            store,
		publisherService: publisherService,
		natsPub:          natsPub,
		sysLogger:        sysLogger,
		rowLocks:         make(map[string]*sync.Mutex),
	}
}

// lockRow returns the mutex for a normalized row key. Entries are never
// evicted; the map is bounded by the number of distinct rows touched.
func (l *ledgerService) lockRow(key sheets.RowKey) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := key.String()
	m, ok := l.rowLocks[k]
	if !ok {
		m = &sync.Mutex{}
		l.rowLocks[k] = m
	}
	return m
}

func (l *ledgerService) AddQuantity(ctx context.Context, userID string, key sheets.RowKey, column string, delta float64) (float64, error) {
	m := l.lockRow(key)
	m.Lock()
	defer m.Unlock()

	row, err := l.findOrCreateRow(ctx, key)
	if err != nil {
		return 0, err
	}

	raw, err := l.store.Cell(ctx, row, column)
	if err != nil {
		return 0, err
	}
	current := parseNumber(raw)
	next := current + delta

	if err := l.store.SetCell(ctx, row, column, formatNumber(next)); err != nil {
		return 0, err
	}

	l.sysLogger.Info("ledger", "Quantity added", map[string]interface{}{
		"user":    userID,
		"key":     key.String(),
		"column":  column,
		"delta":   delta,
		"current": next,
	})

	l.emitLogEntry(ctx, userID, key, column, delta, constant.ReportKindAdd, raw)
	l.emitSystemEvent(ctx, events.NewReportSubmitted(userID, key.Client, key.Project, key.Item, column, delta, false))

	return next, nil
}

func (l *ledgerService) SetQuantity(ctx context.Context, userID string, key sheets.RowKey, column string, value float64) (float64, error) {
	m := l.lockRow(key)
	m.Lock()
	defer m.Unlock()

	row, err := l.findOrCreateRow(ctx, key)
	if err != nil {
		return 0, err
	}

	previous, err := l.store.Cell(ctx, row, column)
	if err != nil {
		return 0, err
	}

	if err := l.store.SetCell(ctx, row, column, formatNumber(value)); err != nil {
		return 0, err
	}

	l.sysLogger.Info("ledger", "Quantity overwritten", map[string]interface{}{
		"user":     userID,
		"key":      key.String(),
		"column":   column,
		"value":    value,
		"previous": previous,
	})

	l.emitLogEntry(ctx, userID, key, column, value, constant.ReportKindSet, previous)
	l.emitSystemEvent(ctx, events.NewReportSubmitted(userID, key.Client, key.Project, key.Item, column, value, true))

	return value, nil
}

func (l *ledgerService) UndoLastProcess(ctx context.Context, userID string, key sheets.RowKey) (string, error) {
	m := l.lockRow(key)
	m.Lock()
	defer m.Unlock()

	row, err := l.store.FindRow(ctx, key)
	if err != nil {
		return "", err
	}

	processCols := sheets.ProcessColumns(l.store.Headers())
	for i := len(processCols) - 1; i >= 0; i-- {
		column := processCols[i]
		raw, err := l.store.Cell(ctx, row, column)
		if err != nil {
			return "", err
		}
		if parseNumber(raw) == 0 {
			continue
		}

		if err := l.store.SetCell(ctx, row, column, "0"); err != nil {
			return "", err
		}

		l.sysLogger.Info("ledger", "Process column undone", map[string]interface{}{
			"user":     userID,
			"key":      key.String(),
			"column":   column,
			"previous": raw,
		})

		l.emitLogEntry(ctx, userID, key, column, 0, constant.ReportKindUndo, raw)
		l.emitSystemEvent(ctx, events.NewReportUndone(userID, key.Client, key.Project, key.Item, column))

		return column, nil
	}

	return "", ErrNothingToUndo
}

func (l *ledgerService) ComputeStatus(ctx context.Context, key sheets.RowKey) (*dto.StatusReport, error) {
	// Reads span several cells; hold the row lock so a concurrent write
	// cannot interleave mid-report.
	m := l.lockRow(key)
	m.Lock()
	defer m.Unlock()

	row, err := l.store.FindRow(ctx, key)
	if errors.Is(err, sheets.ErrRowNotFound) {
		return &dto.StatusReport{}, nil
	}
	if err != nil {
		return nil, err
	}

	report := &dto.StatusReport{}
	for _, column := range sheets.ProcessColumns(l.store.Headers()) {
		raw, err := l.store.Cell(ctx, row, column)
		if err != nil {
			return nil, err
		}
		actual := parseNumber(raw)
		report.ActualSum += actual

		planColumn := sheets.PlanColumn(column)
		if !l.store.HasColumn(planColumn) {
			continue
		}
		planRaw, err := l.store.Cell(ctx, row, planColumn)
		if err != nil {
			return nil, err
		}
		plan := parseNumber(planRaw)
		if plan <= 0 {
			continue
		}
		report.PlanSum += plan
		if actual >= plan {
			report.Completed++
		}
	}

	// Denominator policy: a numeric Tasks column wins; otherwise fall back
	// to sum(actual)/sum(plan).
	if l.store.HasColumn(constant.ColumnTasks) {
		raw, err := l.store.Cell(ctx, row, constant.ColumnTasks)
		if err != nil {
			return nil, err
		}
		if tasks := parseNumber(raw); tasks > 0 {
			report.TotalTasks = int(tasks)
			report.Percentage = float64(report.Completed) / tasks * 100
			report.Configured = true
			return report, nil
		}
	}

	if report.PlanSum > 0 {
		report.Percentage = report.ActualSum / report.PlanSum * 100
		report.Configured = true
	}
	return report, nil
}

// findOrCreateRow resolves the row index, appending an identity-only row when
// no match exists. Callers must hold the row lock.
func (l *ledgerService) findOrCreateRow(ctx context.Context, key sheets.RowKey) (int, error) {
	row, err := l.store.FindRow(ctx, key)
	if errors.Is(err, sheets.ErrRowNotFound) {
		return l.store.CreateRow(ctx, key)
	}
	return row, err
}

// emitLogEntry queues the append-only log record. Failures are logged, not
// returned: the aggregate write already succeeded.
func (l *ledgerService) emitLogEntry(ctx context.Context, userID string, key sheets.RowKey, column string, delta float64, kind, rawText string) {
	msg := dto.PublishReportLogMessage{
		Id:         uuid.New().String(),
		OccurredAt: time.Now().Format(time.RFC3339),
		UserID:     userID,
		Client:     key.Client,
		Project:    key.Project,
		Item:       key.Item,
		Process:    column,
		Delta:      delta,
		Kind:       kind,
		RawText:    rawText,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		l.sysLogger.Error("ledger", "Failed to marshal log entry", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := l.publisherService.Publish(ctx, payload); err != nil {
		l.sysLogger.Error("ledger", "Failed to queue log entry", map[string]interface{}{"error": err.Error()})
	}
}

// emitSystemEvent publishes to NATS best effort; the bus being down never
// fails a commit.
func (l *ledgerService) emitSystemEvent(ctx context.Context, event events.Event) {
	if l.natsPub == nil {
		return
	}
	if err := l.natsPub.Publish(ctx, event); err != nil {
		l.sysLogger.Warn("ledger", "Failed to publish system event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

// parseNumber reads a cell as a number. Empty or non-numeric values count as
// 0 so a fresh or hand-edited sheet never breaks aggregation.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
