package iac

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/bharath-123/cat-mint/types"
)

// ResultEvent is the record published for every broadcast transaction.
type ResultEvent struct {
	ChainID   string    `json:"chain_id"`
	Sender    string    `json:"sender"`
	Contract  string    `json:"contract"`
	TxHash    string    `json:"tx_hash"`
	Code      uint32    `json:"code"`
	Codespace string    `json:"codespace,omitempty"`
	RawLog    string    `json:"raw_log,omitempty"`
	Height    int64     `json:"height"`
	GasWanted int64     `json:"gas_wanted"`
	GasUsed   int64     `json:"gas_used"`
	Time      time.Time `json:"time"`
}

func NewResultEvent(chainID, sender, contract string, result *types.BroadcastResult, now time.Time) ResultEvent {
	return ResultEvent{
		ChainID:   chainID,
		Sender:    sender,
		Contract:  contract,
		TxHash:    result.TxHash,
		Code:      result.Code,
		Codespace: result.Codespace,
		RawLog:    result.RawLog,
		Height:    result.Height,
		GasWanted: result.GasWanted,
		GasUsed:   result.GasUsed,
		Time:      now.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, events ...ResultEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
}

// NewPublisher When automatically creating a topic is allowed, if the topic does not exist,
// the topic will be created for the first time, but the message will fail to be sent. Just try again.
func NewPublisher(brokers []string, topic string) (Publisher, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, errors.New("publisher needs at least one broker and a topic")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           time.Second,
		RequiredAcks:           kafka.RequireOne,
		MaxAttempts:            3,
		AllowAutoTopicCreation: true,
	}
	return &kafkaPublisher{writer: writer}, nil
}

// Publish writes events keyed by tx hash so one transaction always lands on one partition.
func (k *kafkaPublisher) Publish(ctx context.Context, events ...ResultEvent) error {
	msgs, err := encode(events)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, msgs...)
}

func (k *kafkaPublisher) Close() error {
	return k.writer.Close()
}

func encode(events []ResultEvent) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		value, err := json.Marshal(ev)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(ev.TxHash),
			Value: value,
			Time:  ev.Time,
		})
	}
	return msgs, nil
}
