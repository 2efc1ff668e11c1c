package mq

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "test-topic"

// fakeProducer 立即回 ack，failTopic 对应的消息回投递错误，silentTopic 永不回 ack，rejectTopic 直接拒绝 Produce
type fakeProducer struct {
	mu          sync.Mutex
	sent        []*kafka.Message
	failTopic   string
	silentTopic string
	rejectTopic string
}

func (p *fakeProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	topic := *msg.TopicPartition.Topic
	if topic == p.rejectTopic {
		return errors.New("queue full")
	}
	p.mu.Lock()
	p.sent = append(p.sent, msg)
	p.mu.Unlock()

	if topic == p.silentTopic {
		return nil
	}
	ack := &kafka.Message{TopicPartition: msg.TopicPartition}
	if topic == p.failTopic {
		ack.TopicPartition.Error = errors.New("broker rejected")
	}
	go func() { deliveryChan <- ack }()
	return nil
}

func TestSendKafkaJobs(t *testing.T) {
	p := &fakeProducer{failTopic: "bad", rejectTopic: "full"}
	jobs := []*KafkaJob{
		{Topic: testTopic, Value: []byte("test message 1")},
		{Topic: "bad", Value: []byte("test message 2")},
		{Topic: testTopic, Value: []byte("test message 3")},
		{Topic: "full", Value: []byte("test message 4")},
	}

	errs := SendKafkaJobs(context.Background(), p, jobs, time.Second)
	require.Len(t, errs, 4)
	assert.NoError(t, errs[0])
	assert.EqualError(t, errs[1], "broker rejected")
	assert.NoError(t, errs[2])
	assert.ErrorContains(t, errs[3], "produce error")

	// Produce 按输入顺序调用
	require.Len(t, p.sent, 3)
	assert.Equal(t, []byte("test message 1"), p.sent[0].Value)
	assert.Equal(t, []byte("test message 2"), p.sent[1].Value)
	assert.Equal(t, []byte("test message 3"), p.sent[2].Value)

	err := JoinSendErrors(jobs, errs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2/4 kafka messages failed")
	assert.Contains(t, err.Error(), "topic=bad")
	assert.Contains(t, err.Error(), "topic=full")
}

func TestSendKafkaJobsTimeout(t *testing.T) {
	p := &fakeProducer{silentTopic: testTopic}
	jobs := []*KafkaJob{{Topic: testTopic, Value: []byte("test message")}}

	errs := SendKafkaJobs(context.Background(), p, jobs, 20*time.Millisecond)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "delivery timeout")
}

func TestSendKafkaJobsCancelled(t *testing.T) {
	p := &fakeProducer{silentTopic: testTopic}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errs := SendKafkaJobs(ctx, p, []*KafkaJob{{Topic: testTopic}}, time.Minute)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
}

func TestSendKafkaJobsEmpty(t *testing.T) {
	errs := SendKafkaJobs(context.Background(), &fakeProducer{}, nil, time.Second)
	assert.Empty(t, errs)
	assert.NoError(t, JoinSendErrors(nil, errs))
}

// 需要本地 broker：KAFKA_BROKERS=127.0.0.1:9092
func TestSendKafkaJobs_RealKafka(t *testing.T) {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		t.Skip("KAFKA_BROKERS not set")
	}
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":        brokers,
		"client.id":                "test-producer",
		"acks":                     "all",
		"allow.auto.create.topics": true,
	})
	require.NoError(t, err)
	defer producer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errs := SendKafkaJobs(ctx, producer, []*KafkaJob{{Topic: testTopic, Value: []byte("ping")}}, 2*time.Second)
	assert.NoError(t, JoinSendErrors([]*KafkaJob{{Topic: testTopic}}, errs))
	producer.Flush(1000)
}
