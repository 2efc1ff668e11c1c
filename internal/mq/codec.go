package mq

import (
	"encoding/binary"
	"fmt"

	"google.golang.org/protobuf/proto"
)

// 消息类型前缀
const (
	EventInstruction uint32 = 1
)

const eventPrefixLen = 4

// EncodeEvent 将 protobuf 消息编码为带事件类型前缀的二进制数据：
// - 前 4 字节为事件类型（uint32，小端序）
// - 后续为 protobuf 序列化数据（使用 MarshalAppend）
func EncodeEvent(eventType uint32, msg proto.Message) ([]byte, error) {
	const extraBuffer = 32

	size := proto.Size(msg)
	buf := make([]byte, eventPrefixLen, eventPrefixLen+size+extraBuffer)
	binary.LittleEndian.PutUint32(buf[:eventPrefixLen], eventType)

	opts := proto.MarshalOptions{Deterministic: true}
	result, err := opts.MarshalAppend(buf, msg)
	if err != nil {
		return nil, fmt.Errorf("EncodeEvent: marshal %T: %w", msg, err)
	}
	return result, nil
}

// DecodeEvent 校验事件类型前缀并解码 protobuf 部分
func DecodeEvent(data []byte, wantType uint32, msg proto.Message) error {
	if len(data) < eventPrefixLen {
		return fmt.Errorf("DecodeEvent: data too short: %d", len(data))
	}
	if got := binary.LittleEndian.Uint32(data[:eventPrefixLen]); got != wantType {
		return fmt.Errorf("DecodeEvent: event type %d, want %d", got, wantType)
	}
	if err := proto.Unmarshal(data[eventPrefixLen:], msg); err != nil {
		return fmt.Errorf("DecodeEvent: unmarshal %T: %w", msg, err)
	}
	return nil
}
