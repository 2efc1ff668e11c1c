package pda

import (
	"fmt"

	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"
)

// CreatePoolReservesAddress 用条目中存储的 bump 重建储备金地址（规范程序）
func CreatePoolReservesAddress(lst *registry.LstState, tokenProgram types.Pubkey) (types.Pubkey, error) {
	return CreatePoolReservesAddressWithPoolStateID(canonical.PoolState, lst, tokenProgram)
}

func CreatePoolReservesAddressWithPoolStateID(poolState types.Pubkey, lst *registry.LstState, tokenProgram types.Pubkey) (types.Pubkey, error) {
	addr, err := CreateAssociatedTokenAddress(poolState, tokenProgram, lst.Mint, lst.PoolReservesBump)
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("pool reserves of %s bump %d: %v: %w", lst.Mint, lst.PoolReservesBump, err, types.ErrInvalidReserves)
	}
	return addr, nil
}

func CreateProtocolFeeAccumulatorAddress(lst *registry.LstState, tokenProgram types.Pubkey) (types.Pubkey, error) {
	return CreateProtocolFeeAccumulatorAddressWithProtocolFeeID(canonical.ProtocolFee, lst, tokenProgram)
}

func CreateProtocolFeeAccumulatorAddressWithProtocolFeeID(protocolFee types.Pubkey, lst *registry.LstState, tokenProgram types.Pubkey) (types.Pubkey, error) {
	addr, err := CreateAssociatedTokenAddress(protocolFee, tokenProgram, lst.Mint, lst.ProtocolFeeAccumulatorBump)
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("protocol fee accumulator of %s bump %d: %v: %w",
			lst.Mint, lst.ProtocolFeeAccumulatorBump, err, types.ErrIncorrectProtocolFeeAccum)
	}
	return addr, nil
}
