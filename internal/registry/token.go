package registry

import (
	"encoding/binary"
	"fmt"

	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/types"
)

// SPL Token 账户固定偏移
const (
	mintDecimalsOffset = 44
	tokenMintOffset    = 0
	tokenOwnerOffset   = 32
	tokenAmountOffset  = 64
)

// MintDecimals 读取 mint 的精度，Token-2022 扩展数据位于基础布局之后，不影响偏移
func MintDecimals(data []byte) (uint8, error) {
	if len(data) < consts.MintDataSize {
		return 0, fmt.Errorf("mint data too short: %d: %w", len(data), types.ErrInvalidAccountData)
	}
	return data[mintDecimalsOffset], nil
}

func TokenAccountAmount(data []byte) (uint64, error) {
	if len(data) < consts.TokenAccountSz {
		return 0, fmt.Errorf("token account data too short: %d: %w", len(data), types.ErrInvalidAccountData)
	}
	return binary.LittleEndian.Uint64(data[tokenAmountOffset : tokenAmountOffset+8]), nil
}

// TokenAccountMintOwner 返回 token 账户的 mint 与 owner
func TokenAccountMintOwner(data []byte) (mint types.Pubkey, owner types.Pubkey, err error) {
	if len(data) < consts.TokenAccountSz {
		return mint, owner, fmt.Errorf("token account data too short: %d: %w", len(data), types.ErrInvalidAccountData)
	}
	copy(mint[:], data[tokenMintOffset:tokenMintOffset+32])
	copy(owner[:], data[tokenOwnerOffset:tokenOwnerOffset+32])
	return mint, owner, nil
}
