package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"prodreport-be/internal/dto"
	"prodreport-be/internal/service"
	"prodreport-be/pkg/sheets"
	memws "prodreport-be/pkg/sheets/memory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logHeader = []string{"Timestamp", "User", "Client", "Project", "Item", "Process", "Delta", "Kind", "Raw"}

func TestConsumerAppendsLogRow(t *testing.T) {
	logWS := memws.New(logHeader)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	consumer := service.NewConsumerService(pubSub, "LOG_TEST", logWS)
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := service.NewPublisherService("LOG_TEST", pubSub)
	payload, err := json.Marshal(dto.PublishReportLogMessage{
		Id:         uuid.NewString(),
		OccurredAt: "2026-08-26T10:00:00Z",
		UserID:     "u1",
		Client:     "Acme",
		Project:    "Site1",
		Item:       "Widget",
		Process:    "Rough Turning",
		Delta:      4,
		Kind:       "add",
		RawText:    "",
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), payload))

	assert.Eventually(t, func() bool {
		rows, err := logWS.AllRows(context.Background())
		return err == nil && len(rows) == 2
	}, 2*time.Second, 10*time.Millisecond)

	rows, err := logWS.AllRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"2026-08-26T10:00:00Z", "u1", "Acme", "Site1", "Widget", "Rough Turning", "4", "add", ""},
		rows[1])
}

// The ledger queues one log entry per successful write; the consumer turns
// each into exactly one appended row. Undoing does not remove entries.
func TestLedgerWritesFlowIntoLog(t *testing.T) {
	summaryWS := memws.New(summaryHeader)
	logWS := memws.New(logHeader)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	consumer := service.NewConsumerService(pubSub, "LOG_FLOW_TEST", logWS)
	require.NoError(t, consumer.Consume(context.Background()))

	store, err := sheets.Open(context.Background(), summaryWS)
	require.NoError(t, err)
	ledger := service.NewLedgerService(store, service.NewPublisherService("LOG_FLOW_TEST", pubSub), nil, nopLogger{})

	k := sheets.RowKey{Client: "Acme", Project: "Site1", Item: "Widget"}
	_, err = ledger.AddQuantity(context.Background(), "u1", k, "Rough Turning", 4)
	require.NoError(t, err)
	_, err = ledger.UndoLastProcess(context.Background(), "u1", k)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		rows, err := logWS.AllRows(context.Background())
		return err == nil && len(rows) == 3
	}, 2*time.Second, 10*time.Millisecond)

	rows, err := logWS.AllRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "add", rows[1][7])
	assert.Equal(t, "undo", rows[2][7])
}
