package mq

import (
	"context"
	"fmt"
	"time"

	"s-controller-sol/internal/pkg/logger"
	"s-controller-sol/internal/pkg/utils"
	"s-controller-sol/internal/types"
)

// InstructionPublisher 把构造好的指令投递给下游签名服务
type InstructionPublisher struct {
	producer   Producer
	topic      string
	partitions uint32
	timeout    time.Duration
}

func NewInstructionPublisher(producer Producer, topic string, partitions int, timeout time.Duration) *InstructionPublisher {
	if partitions <= 0 {
		partitions = 1
	}
	return &InstructionPublisher{
		producer:   producer,
		topic:      topic,
		partitions: uint32(partitions),
		timeout:    timeout,
	}
}

// partitionFor 同一程序的指令落在同一分区，消费端按投递顺序提交
func (p *InstructionPublisher) partitionFor(job *InstructionJob) (int32, error) {
	program, err := types.TryPubkeyFromBase58(job.ProgramID)
	if err != nil {
		return 0, err
	}
	return int32(utils.PartitionHashBytes(program[:], p.partitions)), nil
}

func (p *InstructionPublisher) buildKafkaJobs(jobs []*InstructionJob) ([]*KafkaJob, error) {
	out := make([]*KafkaJob, 0, len(jobs))
	for _, job := range jobs {
		value, err := EncodeInstructionJob(job)
		if err != nil {
			return nil, err
		}
		partition, err := p.partitionFor(job)
		if err != nil {
			return nil, fmt.Errorf("instruction job %s: %w", job.Name, err)
		}
		out = append(out, &KafkaJob{
			Topic:     p.topic,
			Partition: partition,
			Key:       []byte(job.ProgramID),
			Value:     value,
		})
	}
	return out, nil
}

// Publish 任一消息失败即返回错误，已成功的消息不会回滚
func (p *InstructionPublisher) Publish(ctx context.Context, jobs ...*InstructionJob) error {
	kafkaJobs, err := p.buildKafkaJobs(jobs)
	if err != nil {
		return err
	}
	errs := SendKafkaJobs(ctx, p.producer, kafkaJobs, p.timeout)
	for i, err := range errs {
		if err != nil {
			logger.Errorf("[InstructionPublisher] 发送失败: name=%s partition=%d err=%v", jobs[i].Name, kafkaJobs[i].Partition, err)
		}
	}
	if err := JoinSendErrors(kafkaJobs, errs); err != nil {
		return err
	}
	logger.Infof("[InstructionPublisher] 已投递 %d 条指令到 %s", len(kafkaJobs), p.topic)
	return nil
}
