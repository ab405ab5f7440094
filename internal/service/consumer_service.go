package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"prodreport-be/internal/dto"
	"prodreport-be/internal/entity"
	"prodreport-be/pkg/sheets"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the report-log topic and appends each entry as a row
// on the log worksheet. A single subscriber goroutine keeps log appends
// serialized; the user already got their confirmation, so this append is a
// best-effort durable trail, not a commit barrier.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logSheet  sheets.RowAPI
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	logSheet sheets.RowAPI,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		logSheet:  logSheet,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishReportLogMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal report log message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	entry, err := toReportEntry(&payload)
	if err != nil {
		log.Printf("[ERROR] Malformed report log message %s: %v", payload.Id, err)
		msg.Ack()
		return
	}

	if _, err := cs.logSheet.AppendRow(ctx, entryRow(entry)); err != nil {
		log.Printf("[ERROR] Failed to append report log entry %s: %v", entry.Id, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	log.Printf("[INFO] Report log entry appended: %s %s/%s %s %s",
		entry.Kind, entry.Client, entry.Project, entry.Process, formatNumber(entry.Delta))
	msg.Ack()
}

// toReportEntry validates the queued payload into the write-once log record.
func toReportEntry(payload *dto.PublishReportLogMessage) (*entity.ReportEntry, error) {
	id, err := uuid.Parse(payload.Id)
	if err != nil {
		return nil, err
	}
	occurredAt, err := time.Parse(time.RFC3339, payload.OccurredAt)
	if err != nil {
		return nil, err
	}
	return &entity.ReportEntry{
		Id:         id,
		OccurredAt: occurredAt,
		UserID:     payload.UserID,
		Client:     payload.Client,
		Project:    payload.Project,
		Item:       payload.Item,
		Process:    payload.Process,
		Delta:      payload.Delta,
		Kind:       payload.Kind,
		RawText:    payload.RawText,
	}, nil
}

func entryRow(e *entity.ReportEntry) []string {
	return []string{
		e.OccurredAt.Format(time.RFC3339),
		e.UserID,
		e.Client,
		e.Project,
		e.Item,
		e.Process,
		formatNumber(e.Delta),
		e.Kind,
		e.RawText,
	}
}
