package auth

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/kochabx/authkit/log"
)

// EventType names an audited action.
type EventType string

const (
	EventSignIn       EventType = "sign_in"
	EventSignInFailed EventType = "sign_in_failed"
	EventRefresh      EventType = "refresh"
	EventLogout       EventType = "logout"
	EventLogoutAll    EventType = "logout_all"
	EventUserCreated  EventType = "user_created"
	EventUserUpdated  EventType = "user_updated"
	EventUserDeleted  EventType = "user_deleted"
)

// Event is one audit record. Tokens and passwords never appear in it.
type Event struct {
	Type   EventType `json:"type"`
	UserID int64     `json:"user_id,omitempty"`
	Reason string    `json:"reason,omitempty"`
	Time   time.Time `json:"time"`
}

// Auditor receives audit events. Publish must not block the caller for
// long and has no error result: audit delivery never fails an operation.
type Auditor interface {
	Publish(ctx context.Context, e Event)
}

// NopAuditor drops every event.
type NopAuditor struct{}

func (NopAuditor) Publish(context.Context, Event) {}

// MessageWriter is the part of *kafka.Writer the auditor needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaAuditor publishes events as JSON messages keyed by user id.
type KafkaAuditor struct {
	writer MessageWriter
	logger *log.Logger
}

// NewKafkaAuditor publishes through w. Pair it with an async writer so
// that Publish returns without waiting for the broker.
func NewKafkaAuditor(w MessageWriter, logger *log.Logger) *KafkaAuditor {
	if logger == nil {
		logger = log.G
	}
	return &KafkaAuditor{writer: w, logger: logger}
}

func (a *KafkaAuditor) Publish(ctx context.Context, e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	value, err := json.Marshal(e)
	if err != nil {
		a.logger.Error().Err(err).Str("type", string(e.Type)).Msg("encode audit event")
		return
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(e.UserID, 10)),
		Value: value,
		Time:  e.Time,
	}
	if err := a.writer.WriteMessages(ctx, msg); err != nil {
		a.logger.Warn().Err(err).Str("type", string(e.Type)).Int64("user_id", e.UserID).Msg("publish audit event")
	}
}
