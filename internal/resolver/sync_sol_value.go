package resolver

import (
	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/instruction"
	"s-controller-sol/internal/pda"
	"s-controller-sol/internal/types"
)

// SyncSolValueByMintFreeArgs 按 mint 解析 SyncSolValue
type SyncSolValueByMintFreeArgs struct {
	LstStateList types.KeyedAccount
	LstMint      types.KeyedAccount
}

type SyncSolValueResolved struct {
	Keys          instruction.SyncSolValueKeys
	LstIndex      int
	CalcProgramID types.Pubkey
}

func (a *SyncSolValueByMintFreeArgs) Resolve() (SyncSolValueResolved, error) {
	return a.ResolveForProgram(consts.SControllerProgram)
}

func (a *SyncSolValueByMintFreeArgs) ResolveForProgram(programID types.Pubkey) (SyncSolValueResolved, error) {
	pdas := pdasFor(programID)
	if err := verifyLstStateList(pdas.LstStateList, &a.LstStateList); err != nil {
		return SyncSolValueResolved{}, err
	}
	return a.ResolveWithPdas(pdas)
}

func (a *SyncSolValueByMintFreeArgs) ResolveWithPdas(pdas pda.Pdas) (SyncSolValueResolved, error) {
	idx, entry, err := findEntry(&a.LstStateList, a.LstMint.Pubkey)
	if err != nil {
		return SyncSolValueResolved{}, err
	}
	reserves, err := pda.CreatePoolReservesAddressWithPoolStateID(pdas.PoolState, entry, a.LstMint.Owner)
	if err != nil {
		return SyncSolValueResolved{}, err
	}
	return SyncSolValueResolved{
		Keys: instruction.SyncSolValueKeys{
			LstMint:      a.LstMint.Pubkey,
			PoolState:    pdas.PoolState,
			LstStateList: pdas.LstStateList,
			PoolReserves: reserves,
		},
		LstIndex:      idx,
		CalcProgramID: entry.SolValueCalculator,
	}, nil
}
