package svc

import (
	"fmt"
	"time"

	"s-controller-sol/internal/cache"
	"s-controller-sol/internal/chain"
	"s-controller-sol/internal/config"
	"s-controller-sol/internal/mq"
	"s-controller-sol/internal/pda"
	"s-controller-sol/internal/pkg/logger"
	pkgmq "s-controller-sol/internal/pkg/mq"
	"s-controller-sol/internal/types"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/redis/go-redis/v9"
)

// ServiceContext 进程级共享资源
type ServiceContext struct {
	Config        config.ControllerConfig
	ProgramID     types.Pubkey
	Pdas          pda.Pdas
	Redis         *redis.Client // 未配置时为 nil
	AccountCache  *cache.AccountCache
	RegistryCache *cache.RegistryCache
	Fetcher       *chain.Fetcher
	Producer      *kafka.Producer // 未配置时为 nil
	Publisher     *mq.InstructionPublisher
}

// NewServiceContext 初始化日志、缓存、RPC 与 Kafka；redis / kafka 未配置时跳过
func NewServiceContext(c config.ControllerConfig) (*ServiceContext, error) {
	if err := logger.InitLogger(c.LogConf.ToLogOption()); err != nil {
		return nil, err
	}

	programID, err := c.ProgramConf.ProgramID()
	if err != nil {
		return nil, fmt.Errorf("invalid s_controller_program: %w", err)
	}
	ctx := &ServiceContext{
		Config:        c,
		ProgramID:     programID,
		Pdas:          pda.FindPdasForProgram(programID),
		RegistryCache: cache.NewRegistryCache(),
	}

	if c.RedisConf.Addr != "" {
		ctx.Redis = redis.NewClient(&redis.Options{
			Addr:     c.RedisConf.Addr,
			Password: c.RedisConf.Password,
			DB:       c.RedisConf.DB,
		})
		ctx.AccountCache = cache.NewAccountCache(ctx.Redis, time.Duration(c.RedisConf.AccountTTLSec)*time.Second)
	}

	ctx.Fetcher = chain.NewFetcher(c.RpcConf.Endpoint, time.Duration(c.RpcConf.TimeoutMs)*time.Millisecond, ctx.AccountCache)

	if c.KafkaProducerConf.Brokers != "" {
		producer, err := pkgmq.NewKafkaProducer(c.KafkaProducerConf.ToKafkaOption())
		if err != nil {
			logger.Errorf("[ServiceContext] Kafka producer 初始化失败: %v", err)
			ctx.Close()
			return nil, err
		}
		ctx.Producer = producer
		ctx.Publisher = mq.NewInstructionPublisher(
			producer,
			c.KafkaProducerConf.Topics.Instruction,
			c.KafkaProducerConf.Partitions.Instruction,
			time.Duration(c.KafkaProducerConf.SendTimeoutMs)*time.Millisecond,
		)
	}

	logger.Infof("[ServiceContext] 初始化完成: program=%s pool_state=%s lst_state_list=%s",
		programID, ctx.Pdas.PoolState, ctx.Pdas.LstStateList)
	return ctx, nil
}

// Close 关闭服务上下文中的资源
func (ctx *ServiceContext) Close() {
	if ctx.Producer != nil {
		ctx.Producer.Flush(3000)
		ctx.Producer.Close()
	}
	if ctx.Redis != nil {
		_ = ctx.Redis.Close()
	}
	logger.Sync()
}
