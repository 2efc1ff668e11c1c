package resolver

import (
	"errors"
	"fmt"

	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/instruction"
	"s-controller-sol/internal/pda"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"
)

type AddLstFreeArgs struct {
	Payer              types.Pubkey
	SolValueCalculator types.Pubkey
	PoolState          types.KeyedAccount
	LstStateList       types.KeyedAccount
	LstMint            types.KeyedAccount
}

// Resolve 返回指令账户以及链上将追加的条目（bump 由搜索得到）
func (a *AddLstFreeArgs) Resolve() (instruction.AddLstKeys, registry.LstState, error) {
	return a.ResolveForProgram(consts.SControllerProgram)
}

func (a *AddLstFreeArgs) ResolveForProgram(programID types.Pubkey) (instruction.AddLstKeys, registry.LstState, error) {
	pdas := pdasFor(programID)
	if err := verifySingletons(pdas, &a.PoolState, &a.LstStateList); err != nil {
		return instruction.AddLstKeys{}, registry.LstState{}, err
	}
	if _, _, err := findEntry(&a.LstStateList, a.LstMint.Pubkey); err == nil {
		return instruction.AddLstKeys{}, registry.LstState{}, fmt.Errorf("mint %s: %w", a.LstMint.Pubkey, types.ErrDuplicateLst)
	} else if !errors.Is(err, types.ErrLstNotFound) {
		return instruction.AddLstKeys{}, registry.LstState{}, err
	}
	poolState, err := registry.TryPoolState(a.PoolState.Data)
	if err != nil {
		return instruction.AddLstKeys{}, registry.LstState{}, err
	}

	tokenProgram := a.LstMint.Owner
	reserves, reservesBump := pda.FindPoolReservesAddress(pdas.PoolState, tokenProgram, a.LstMint.Pubkey)
	accum, accumBump := pda.FindProtocolFeeAccumulatorAddress(pdas.ProtocolFee, tokenProgram, a.LstMint.Pubkey)

	keys := instruction.AddLstKeys{
		Admin:                      poolState.Admin,
		Payer:                      a.Payer,
		LstMint:                    a.LstMint.Pubkey,
		PoolReserves:               reserves,
		ProtocolFeeAccumulator:     accum,
		ProtocolFeeAccumulatorAuth: pdas.ProtocolFee,
		SolValueCalculator:         a.SolValueCalculator,
		PoolState:                  pdas.PoolState,
		LstStateList:               pdas.LstStateList,
		AssociatedTokenProgram:     consts.AssociatedTokenProgram,
		SystemProgram:              consts.SystemProgram,
		LstTokenProgram:            tokenProgram,
	}
	entry := registry.LstState{
		PoolReservesBump:           reservesBump,
		ProtocolFeeAccumulatorBump: accumBump,
		Mint:                       a.LstMint.Pubkey,
		SolValueCalculator:         a.SolValueCalculator,
	}
	return keys, entry, nil
}
