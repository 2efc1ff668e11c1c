package mq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// Producer *kafka.Producer 的最小子集
type Producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
}

// KafkaJob 表示一条需要发送的 Kafka 消息
type KafkaJob struct {
	Topic     string
	Partition int32
	Key       []byte
	Value     []byte
}

// SendKafkaJobs 按 jobs 顺序依次 Produce（保证同分区内的先后），再并发等待 ack。
// 返回值与 jobs 下标一一对应，nil 表示已确认投递。
func SendKafkaJobs(ctx context.Context, producer Producer, jobs []*KafkaJob, perMessageTimeout time.Duration) []error {
	errs := make([]error, len(jobs))
	var wg sync.WaitGroup

	for i, job := range jobs {
		deliveryChan := make(chan kafka.Event, 1)
		err := producer.Produce(&kafka.Message{
			TopicPartition: kafka.TopicPartition{
				Topic:     &job.Topic,
				Partition: job.Partition,
			},
			Key:   job.Key,
			Value: job.Value,
		}, deliveryChan)
		if err != nil {
			errs[i] = fmt.Errorf("produce error: %w", err)
			continue
		}

		wg.Add(1)
		go func(i int, deliveryChan chan kafka.Event) {
			defer wg.Done()
			errs[i] = awaitDelivery(ctx, deliveryChan, perMessageTimeout)
		}(i, deliveryChan)
	}

	wg.Wait()
	return errs
}

func awaitDelivery(ctx context.Context, deliveryChan chan kafka.Event, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case e, ok := <-deliveryChan:
		if !ok {
			return errors.New("delivery channel closed unexpectedly")
		}
		msg, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("invalid message type: %T", e)
		}
		return msg.TopicPartition.Error
	case <-timer.C:
		go safeDrain(deliveryChan)
		return fmt.Errorf("delivery timeout (>%v)", timeout)
	case <-ctx.Done():
		go safeDrain(deliveryChan)
		return fmt.Errorf("ctx cancelled: %w", ctx.Err())
	}
}

// JoinSendErrors 汇总失败的消息，全部成功时返回 nil
func JoinSendErrors(jobs []*KafkaJob, errs []error) error {
	var failed []error
	for i, err := range errs {
		if err != nil {
			failed = append(failed, fmt.Errorf("topic=%s partition=%d key=%s: %w", jobs[i].Topic, jobs[i].Partition, jobs[i].Key, err))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d/%d kafka messages failed: %w", len(failed), len(jobs), errors.Join(failed...))
}

// safeDrain 确保 deliveryChan 被 drain，避免 Kafka 回调阻塞
func safeDrain(ch <-chan kafka.Event) {
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
	}
}
