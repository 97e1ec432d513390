package service

import (
	"context"
	"encoding/json"
	"time"

	"hr-assistant-be/internal/constant"
	"hr-assistant-be/internal/dto"
	"hr-assistant-be/internal/model"
	"hr-assistant-be/internal/pkg/logger"
	"hr-assistant-be/internal/repository/contract"
	"hr-assistant-be/pkg/ai/router"
	"hr-assistant-be/pkg/events"
	pkgnats "hr-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditPublisher feeds answered turns onto the in-process bus. It satisfies
// the router's publisher contract, keeping audit I/O out of the request path.
type AuditPublisher struct {
	pubSub *gochannel.GoChannel
	topic  string
}

var _ router.AnswerPublisher = &AuditPublisher{}

func NewAuditPublisher(pubSub *gochannel.GoChannel) *AuditPublisher {
	return &AuditPublisher{
		pubSub: pubSub,
		topic:  constant.AnswerRecordedTopic,
	}
}

func (p *AuditPublisher) PublishAnswerRecorded(ctx context.Context, record router.AnswerRecord) error {
	payload, err := json.Marshal(dto.AnswerRecordedMessage{
		SessionId:  record.SessionID,
		Question:   record.Question,
		Intent:     record.Intent,
		Source:     record.Source,
		Sql:        record.SQL,
		RowCount:   record.RowCount,
		DurationMs: record.DurationMs,
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	return p.pubSub.Publish(p.topic, msg)
}

// IAuditConsumerService drains the bus into the activity_logs table and,
// when configured, forwards each record to NATS.
type IAuditConsumerService interface {
	Consume(ctx context.Context) error
}

type auditConsumerService struct {
	pubSub       *gochannel.GoChannel
	topic        string
	activityLogs contract.ActivityLogRepository
	natsPub      *pkgnats.Publisher // nil when NATS is not configured
	sysLogger    logger.ILogger
}

func NewAuditConsumerService(
	pubSub *gochannel.GoChannel,
	activityLogs contract.ActivityLogRepository,
	natsPub *pkgnats.Publisher,
	sysLogger logger.ILogger,
) IAuditConsumerService {
	return &auditConsumerService{
		pubSub:       pubSub,
		topic:        constant.AnswerRecordedTopic,
		activityLogs: activityLogs,
		natsPub:      natsPub,
		sysLogger:    sysLogger,
	}
}

func (cs *auditConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topic)
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

func (cs *auditConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.AnswerRecordedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.sysLogger.Error("Audit", "Failed to unmarshal answer record", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads would retry forever
		return
	}

	details, err := json.Marshal(payload)
	if err != nil {
		cs.sysLogger.Error("Audit", "Failed to marshal details", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	entry := &model.ActivityLog{
		Id:        uuid.New(),
		Module:    constant.ActivityLogModuleAssistant,
		Action:    "ANSWER_RECORDED",
		Details:   datatypes.JSON(details),
		CreatedAt: time.Now(),
	}
	if err := cs.activityLogs.Create(ctx, entry); err != nil {
		cs.sysLogger.Error("Audit", "Failed to write activity log", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		msg.Nack() // retriable
		return
	}

	// Forwarding is best-effort: the activity log row is the system of record
	if cs.natsPub != nil {
		event := events.NewEvent("answer_recorded", map[string]interface{}{
			"session_id":  payload.SessionId,
			"intent":      payload.Intent,
			"source":      payload.Source,
			"row_count":   payload.RowCount,
			"duration_ms": payload.DurationMs,
		})
		if err := cs.natsPub.Publish(ctx, event); err != nil {
			cs.sysLogger.Warn("Audit", "NATS forward failed", map[string]interface{}{
				"session_id": payload.SessionId,
				"error":      err.Error(),
			})
		}
	}

	msg.Ack()
}
