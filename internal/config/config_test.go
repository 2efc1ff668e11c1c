package config

import (
	"os"
	"path/filepath"
	"testing"

	"s-controller-sol/internal/consts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYaml = `
logger:
  format: json
  level: debug
rpc:
  endpoint: http://127.0.0.1:8899
redis:
  addr: 127.0.0.1:6379
kafka_producer:
  brokers: 127.0.0.1:9092
  topics:
    instruction: s-controller-ix
  partitions:
    instruction: 4
grpc:
  endpoint: geyser.local:443
  x_token: secret
program:
  s_controller_program: 11111111111111111111111111111111
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "controller.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYaml), 0o644))

	var c ControllerConfig
	require.NoError(t, Load(path, &c))

	assert.Equal(t, "json", c.LogConf.Format)
	assert.Equal(t, "http://127.0.0.1:8899", c.RpcConf.Endpoint)
	assert.Equal(t, 5000, c.RpcConf.TimeoutMs, "未配置时使用默认值")
	assert.Equal(t, 30, c.RedisConf.AccountTTLSec)
	assert.Equal(t, "geyser.local:443", c.Grpc.Endpoint)

	opt := c.KafkaProducerConf.ToKafkaOption()
	require.Len(t, opt.Topics, 1)
	assert.Equal(t, "s-controller-ix", opt.Topics[0].Topic)
	assert.Equal(t, 4, opt.Topics[0].Partitions)

	id, err := c.ProgramConf.ProgramID()
	require.NoError(t, err)
	assert.Equal(t, consts.SystemProgram, id)
}

func TestProgramIDDefault(t *testing.T) {
	var p ProgramConfig
	id, err := p.ProgramID()
	require.NoError(t, err)
	assert.Equal(t, consts.SControllerProgram, id)

	p.SControllerProgram = "not-base58-0OIl"
	_, err = p.ProgramID()
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	var c ControllerConfig
	assert.Error(t, Load(filepath.Join(t.TempDir(), "nope.yaml"), &c))
}
