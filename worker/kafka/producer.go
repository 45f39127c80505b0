package kafka

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
)

// JobEvent is published after every job lifecycle transition so downstream
// consumers (notifications, analytics) can react without polling the table.
type JobEvent struct {
	JobID     string `json:"job_id"`
	MediaID   string `json:"media_id"`
	WorkerID  string `json:"worker_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Producer interface {
	SendJobEvent(event *JobEvent) error
	Close() error
}

type producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(brokers []string, topic string) (Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	p, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &producer{producer: p, topic: topic}, nil
}

func (p *producer) SendJobEvent(event *JobEvent) error {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.JobID),
		Value: sarama.ByteEncoder(data),
	}

	_, _, err = p.producer.SendMessage(msg)
	return err
}

func (p *producer) Close() error {
	return p.producer.Close()
}
