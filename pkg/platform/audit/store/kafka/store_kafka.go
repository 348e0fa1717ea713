// Package kafka publishes audit events to a Kafka topic. It is a
// write-only sink; query paths are served by another store.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	id "govern/pkg/domain"
	audit "govern/pkg/platform/audit"
	"govern/pkg/platform/sentinel"
)

type Store struct {
	client *kgo.Client
	topic  string
}

// record is the JSON payload written to the topic. Field names are part of
// the consumer contract.
type record struct {
	ID        string `json:"ID"`
	Category  string `json:"Category"`
	Timestamp string `json:"Timestamp"`
	TenantID  string `json:"TenantID,omitempty"`
	Subject   string `json:"Subject"`
	Action    string `json:"Action"`
	Domain    string `json:"Domain,omitempty"`
	Decision  string `json:"Decision,omitempty"`
	Reason    string `json:"Reason,omitempty"`
	RequestID string `json:"RequestID,omitempty"`
	ActorID   string `json:"ActorID,omitempty"`
}

// New connects to the given brokers and ensures the topic exists.
func New(ctx context.Context, brokers []string, topic string) (*Store, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}

	admin := kadm.NewClient(client)
	resp, err := admin.CreateTopic(ctx, 1, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create audit topic: %w", err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		client.Close()
		return nil, fmt.Errorf("create audit topic: %w", resp.Err)
	}

	return &Store{client: client, topic: topic}, nil
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	category := event.Category
	if category == "" {
		category = audit.AuditEvent(event.Action).Category()
	}

	payload := record{
		ID:        uuid.NewString(),
		Category:  string(category),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Subject:   event.Subject,
		Action:    event.Action,
		Domain:    event.Domain,
		Decision:  event.Decision,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		ActorID:   event.ActorID,
	}
	if !event.TenantID.IsZero() {
		payload.TenantID = event.TenantID.String()
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	// Key by tenant so per-tenant ordering survives partitioning.
	rec := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(payload.TenantID),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce audit record: %w", err)
	}
	return nil
}

// ListByTenant is not served from Kafka.
func (s *Store) ListByTenant(context.Context, id.TenantID) ([]audit.Event, error) {
	return nil, fmt.Errorf("kafka audit store is write-only: %w", sentinel.ErrUnavailable)
}

// ListRecent is not served from Kafka.
func (s *Store) ListRecent(context.Context, int) ([]audit.Event, error) {
	return nil, fmt.Errorf("kafka audit store is write-only: %w", sentinel.ErrUnavailable)
}

func (s *Store) Close() {
	s.client.Close()
}
