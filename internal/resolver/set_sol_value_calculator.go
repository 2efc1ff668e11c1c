package resolver

import (
	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/instruction"
	"s-controller-sol/internal/pda"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"

	soltypes "github.com/blocto/solana-go-sdk/types"
)

type SetSolValueCalculatorFreeArgs struct {
	LstIndex     int
	PoolState    types.KeyedAccount
	LstStateList types.KeyedAccount
	LstMint      types.KeyedAccount
}

func (a *SetSolValueCalculatorFreeArgs) Resolve() (instruction.SetSolValueCalculatorKeys, error) {
	return a.ResolveForProgram(consts.SControllerProgram)
}

func (a *SetSolValueCalculatorFreeArgs) ResolveForProgram(programID types.Pubkey) (instruction.SetSolValueCalculatorKeys, error) {
	pdas := pdasFor(programID)
	if err := verifySingletons(pdas, &a.PoolState, &a.LstStateList); err != nil {
		return instruction.SetSolValueCalculatorKeys{}, err
	}
	if _, err := matchEntry(&a.LstStateList, a.LstMint.Pubkey, a.LstIndex); err != nil {
		return instruction.SetSolValueCalculatorKeys{}, err
	}
	return adminKeys(pdas, &a.PoolState, a.LstMint.Pubkey)
}

func adminKeys(pdas pda.Pdas, poolStateAcc *types.KeyedAccount, mint types.Pubkey) (instruction.SetSolValueCalculatorKeys, error) {
	poolState, err := registry.TryPoolState(poolStateAcc.Data)
	if err != nil {
		return instruction.SetSolValueCalculatorKeys{}, err
	}
	return instruction.SetSolValueCalculatorKeys{
		Admin:        poolState.Admin,
		LstMint:      mint,
		PoolState:    pdas.PoolState,
		LstStateList: pdas.LstStateList,
	}, nil
}

type SetSolValueCalculatorByMintFreeArgs struct {
	PoolState    types.KeyedAccount
	LstStateList types.KeyedAccount
	LstMint      types.KeyedAccount
}

func (a *SetSolValueCalculatorByMintFreeArgs) Resolve() (instruction.SetSolValueCalculatorKeys, int, error) {
	return a.ResolveForProgram(consts.SControllerProgram)
}

func (a *SetSolValueCalculatorByMintFreeArgs) ResolveForProgram(programID types.Pubkey) (instruction.SetSolValueCalculatorKeys, int, error) {
	pdas := pdasFor(programID)
	if err := verifySingletons(pdas, &a.PoolState, &a.LstStateList); err != nil {
		return instruction.SetSolValueCalculatorKeys{}, 0, err
	}
	return a.ResolveWithPdas(pdas)
}

func (a *SetSolValueCalculatorByMintFreeArgs) ResolveUnchecked() (instruction.SetSolValueCalculatorKeys, int, error) {
	return a.ResolveWithPdas(pda.CanonicalPdas())
}

func (a *SetSolValueCalculatorByMintFreeArgs) ResolveWithPdas(pdas pda.Pdas) (instruction.SetSolValueCalculatorKeys, int, error) {
	idx, _, err := findEntry(&a.LstStateList, a.LstMint.Pubkey)
	if err != nil {
		return instruction.SetSolValueCalculatorKeys{}, 0, err
	}
	keys, err := adminKeys(pdas, &a.PoolState, a.LstMint.Pubkey)
	if err != nil {
		return instruction.SetSolValueCalculatorKeys{}, 0, err
	}
	return keys, idx, nil
}

// BuildIx calcAccounts 为新计算器的账户列表（首个为 lst_mint）
func (a *SetSolValueCalculatorByMintFreeArgs) BuildIx(programID types.Pubkey, calcAccounts []soltypes.AccountMeta, calcProgramID types.Pubkey) (soltypes.Instruction, error) {
	keys, idx, err := a.ResolveForProgram(programID)
	if err != nil {
		return soltypes.Instruction{}, err
	}
	return instruction.SetSolValueCalculatorIxFull(programID, keys, idx, calcAccounts, calcProgramID)
}
