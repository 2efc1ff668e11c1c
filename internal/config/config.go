package config

import (
	"fmt"
	"os"

	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/pkg/logger"
	"s-controller-sol/internal/pkg/mq"
	"s-controller-sol/internal/types"

	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// RpcConfig Solana RPC 节点
type RpcConfig struct {
	Endpoint  string `yaml:"endpoint"`   // 例如 https://api.mainnet-beta.solana.com
	TimeoutMs int    `yaml:"timeout_ms"` // 单次请求超时（毫秒）
}

// RedisConfig 账户快照缓存，Addr 为空时不启用
type RedisConfig struct {
	Addr          string `yaml:"addr"`
	Password      string `yaml:"password"`
	DB            int    `yaml:"db"`
	AccountTTLSec int    `yaml:"account_ttl_sec"` // 账户快照的过期时间（秒）
}

// KafkaProducerConfig 表示 Kafka 生产者相关配置
type KafkaProducerConfig struct {
	Brokers   string `yaml:"brokers"`    // Kafka broker 地址，多个用英文逗号分隔
	BatchSize int    `yaml:"batch_size"` // 批处理大小（单位字节）
	LingerMs  int    `yaml:"linger_ms"`  // 批处理最大延迟（毫秒）

	Topics struct {
		Instruction string `yaml:"instruction"` // 待签名指令的 topic
	} `yaml:"topics"`

	Partitions struct {
		Instruction int `yaml:"instruction"` // instruction topic 的分区数
	} `yaml:"partitions"`

	SendTimeoutMs int `yaml:"send_timeout_ms"` // 单条消息发送并等待 ack 的超时时间
}

func (c *KafkaProducerConfig) ToKafkaOption() mq.KafkaProducerOption {
	return mq.KafkaProducerOption{
		Brokers:   c.Brokers,
		BatchSize: c.BatchSize,
		LingerMs:  c.LingerMs,
		Topics: []mq.TopicOption{
			{Topic: c.Topics.Instruction, Partitions: c.Partitions.Instruction},
		},
	}
}

// GrpcConfig yellowstone geyser 连接
type GrpcConfig struct {
	Endpoint string `yaml:"endpoint"` // gRPC 服务端地址
	XToken   string `yaml:"x_token"`  // x-token 认证

	// 应用级逻辑心跳（ping）配置
	StreamPingIntervalSec int `yaml:"stream_ping_interval_sec"` // 应用层 ping 心跳间隔（秒）

	// gRPC Keepalive 底层连接检测配置
	KeepalivePingIntervalSec int `yaml:"keepalive_ping_interval_sec"` // 底层 keepalive 间隔（秒）
	KeepalivePingTimeoutSec  int `yaml:"keepalive_ping_timeout_sec"`  // 底层 keepalive 超时（秒）

	// 消息体大小限制
	MaxCallSendMsgSize int `yaml:"max_call_send_msg_size"` // 单条消息最大发送字节数
	MaxCallRecvMsgSize int `yaml:"max_call_recv_msg_size"` // 单条消息最大接收字节数

	// 超时与重连策略
	ReconnectIntervalSec int `yaml:"reconnect_interval_sec"` // 重连最小间隔（秒）
	ConnectTimeoutSec    int `yaml:"connect_timeout_sec"`    // 连接建立超时（秒）
	SendTimeoutSec       int `yaml:"send_timeout_sec"`       // 发送超时（秒）
	IdleTimeoutSec       int `yaml:"idle_timeout_sec"`       // 超过该时间没有任何更新则重连（秒）
}

// ProgramConfig 控制程序地址，留空使用主网部署
type ProgramConfig struct {
	SControllerProgram string `yaml:"s_controller_program"`
}

func (c *ProgramConfig) ProgramID() (types.Pubkey, error) {
	if c.SControllerProgram == "" {
		return consts.SControllerProgram, nil
	}
	return types.TryPubkeyFromBase58(c.SControllerProgram)
}

// ControllerConfig 是主配置结构体，CLI 与 watcher 共用
type ControllerConfig struct {
	LogConf           LogConfig           `yaml:"logger"`         // 日志配置
	RpcConf           RpcConfig           `yaml:"rpc"`            // RPC 配置
	RedisConf         RedisConfig         `yaml:"redis"`          // Redis 配置
	KafkaProducerConf KafkaProducerConfig `yaml:"kafka_producer"` // Kafka 生产者配置
	Grpc              GrpcConfig          `yaml:"grpc"`           // gRPC 客户端连接相关配置
	ProgramConf       ProgramConfig       `yaml:"program"`        // 程序地址
}

func Load(path string, c *ControllerConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.applyDefaults()
	return nil
}

// MustLoad 加载失败直接退出进程
func MustLoad(path string, c *ControllerConfig) {
	if err := Load(path, c); err != nil {
		logger.Errorf("[Config] %v", err)
		logger.Sync()
		os.Exit(1)
	}
}

func (c *ControllerConfig) applyDefaults() {
	if c.RpcConf.TimeoutMs <= 0 {
		c.RpcConf.TimeoutMs = 5000
	}
	if c.RedisConf.AccountTTLSec <= 0 {
		c.RedisConf.AccountTTLSec = 30
	}
	if c.KafkaProducerConf.Partitions.Instruction <= 0 {
		c.KafkaProducerConf.Partitions.Instruction = 1
	}
	if c.KafkaProducerConf.SendTimeoutMs <= 0 {
		c.KafkaProducerConf.SendTimeoutMs = 5000
	}
	if c.Grpc.ReconnectIntervalSec <= 0 {
		c.Grpc.ReconnectIntervalSec = 1
	}
	if c.Grpc.ConnectTimeoutSec <= 0 {
		c.Grpc.ConnectTimeoutSec = 10
	}
	if c.Grpc.SendTimeoutSec <= 0 {
		c.Grpc.SendTimeoutSec = 5
	}
	if c.Grpc.StreamPingIntervalSec <= 0 {
		c.Grpc.StreamPingIntervalSec = 10
	}
	if c.Grpc.IdleTimeoutSec <= 0 {
		c.Grpc.IdleTimeoutSec = 120
	}
}
