package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionHashBytes(t *testing.T) {
	b := make([]byte, 32)
	for i := range b {
		b[i] = byte(i * 7)
	}

	assert.Equal(t, uint32(0), PartitionHashBytes(b[:10], 8), "长度不足时固定分区 0")
	assert.Equal(t, uint32(0), PartitionHashBytes(b, 1))
	assert.Equal(t, uint32(b[27])&7, PartitionHashBytes(b, 8))

	for _, mod := range []uint32{3, 5, 12} {
		got := PartitionHashBytes(b, mod)
		assert.Less(t, got, mod)
		assert.Equal(t, got, PartitionHashBytes(b, mod), "同输入同分区")
	}
}
