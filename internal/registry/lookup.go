package registry

import (
	"fmt"
	"math"

	"s-controller-sol/internal/types"
)

// TryMatchLstMintOnList 按索引取条目并校验 mint（链上路径，O(1)）。
// 调用方传入的 index 只有在校验通过后才可信。
func TryMatchLstMintOnList(mint types.Pubkey, list []LstState, index int) (*LstState, error) {
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("index %d out of range, list len %d: %w", index, len(list), types.ErrInvalidLstIndex)
	}
	entry := &list[index]
	if entry.Mint != mint {
		return nil, fmt.Errorf("mint mismatch at index %d: expected %s, found %s: %w",
			index, mint, entry.Mint, types.ErrInvalidLstIndex)
	}
	return entry, nil
}

// TryFindLstMintOnList 线性扫描查找 mint（客户端路径，调用方不知道索引）
func TryFindLstMintOnList(mint types.Pubkey, list []LstState) (int, *LstState, error) {
	for i := range list {
		if list[i].Mint == mint {
			return i, &list[i], nil
		}
	}
	return 0, nil, fmt.Errorf("mint %s: %w", mint, types.ErrLstNotFound)
}

// TryGetLstStateAt 只做越界检查，不校验 mint
func TryGetLstStateAt(list []LstState, index int) (*LstState, error) {
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("index %d out of range, list len %d: %w", index, len(list), types.ErrInvalidLstIndex)
	}
	return &list[index], nil
}

// IndexToU32 指令参数中的索引是 u32，超出范围返回 MathError 而不是截断
func IndexToU32(index int) (uint32, error) {
	if index < 0 || uint64(index) > math.MaxUint32 {
		return 0, fmt.Errorf("index %d does not fit u32: %w", index, types.ErrMathError)
	}
	return uint32(index), nil
}
