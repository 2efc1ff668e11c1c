package registry

import (
	"fmt"

	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/types"
)

// AppendLst 在列表末尾追加新条目，mint 重复时拒绝
func AppendLst(data []byte, entry LstState) ([]byte, error) {
	list, err := TryLstStateList(data)
	if err != nil {
		return nil, err
	}
	if _, _, err := TryFindLstMintOnList(entry.Mint, list); err == nil {
		return nil, fmt.Errorf("mint %s: %w", entry.Mint, types.ErrDuplicateLst)
	}
	b, err := SerializeLstState(&entry)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(data)+len(b))
	out = append(out, data...)
	return append(out, b...), nil
}

// RemoveLstAt 删除 index 处的条目，之后的条目整体前移一位。
// 删除后原来 index 之后的索引全部失效，离线缓存的索引需要重新按 mint 查找。
func RemoveLstAt(data []byte, index int) ([]byte, error) {
	list, err := TryLstStateList(data)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("index %d out of range, list len %d: %w", index, len(list), types.ErrInvalidLstIndex)
	}
	start := index * consts.LstStateSize
	out := make([]byte, 0, len(data)-consts.LstStateSize)
	out = append(out, data[:start]...)
	return append(out, data[start+consts.LstStateSize:]...), nil
}
