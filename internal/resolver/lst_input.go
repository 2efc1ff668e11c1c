package resolver

import (
	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/instruction"
	"s-controller-sol/internal/pda"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"
)

// LstInputByMintFreeArgs DisableLstInput / EnableLstInput 共用
type LstInputByMintFreeArgs struct {
	PoolState    types.KeyedAccount
	LstStateList types.KeyedAccount
	LstMint      types.KeyedAccount
}

func (a *LstInputByMintFreeArgs) Resolve() (instruction.LstInputKeys, instruction.LstIndexIxArgs, error) {
	return a.ResolveForProgram(consts.SControllerProgram)
}

func (a *LstInputByMintFreeArgs) ResolveForProgram(programID types.Pubkey) (instruction.LstInputKeys, instruction.LstIndexIxArgs, error) {
	pdas := pdasFor(programID)
	if err := verifySingletons(pdas, &a.PoolState, &a.LstStateList); err != nil {
		return instruction.LstInputKeys{}, instruction.LstIndexIxArgs{}, err
	}
	return a.ResolveWithPdas(pdas)
}

func (a *LstInputByMintFreeArgs) ResolveWithPdas(pdas pda.Pdas) (instruction.LstInputKeys, instruction.LstIndexIxArgs, error) {
	idx, _, err := findEntry(&a.LstStateList, a.LstMint.Pubkey)
	if err != nil {
		return instruction.LstInputKeys{}, instruction.LstIndexIxArgs{}, err
	}
	poolState, err := registry.TryPoolState(a.PoolState.Data)
	if err != nil {
		return instruction.LstInputKeys{}, instruction.LstIndexIxArgs{}, err
	}
	return instruction.LstInputKeys{
		Admin:        poolState.Admin,
		LstMint:      a.LstMint.Pubkey,
		PoolState:    pdas.PoolState,
		LstStateList: pdas.LstStateList,
	}, instruction.LstIndexIxArgs{LstIndex: mustU32(idx)}, nil
}
