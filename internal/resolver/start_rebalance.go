package resolver

import (
	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/instruction"
	"s-controller-sol/internal/pda"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"

	soltypes "github.com/blocto/solana-go-sdk/types"
)

// StartRebalancePdas rebalance 额外需要 rebalance record
type StartRebalancePdas struct {
	pda.Pdas
	RebalanceRecord types.Pubkey
}

func FindStartRebalancePdas(programID types.Pubkey) StartRebalancePdas {
	record, _ := pda.FindRebalanceRecordAddress(programID)
	return StartRebalancePdas{Pdas: pdasFor(programID), RebalanceRecord: record}
}

type StartRebalanceResolved struct {
	Keys           instruction.StartRebalanceKeys
	Indexes        instruction.SrcDstLstIndexes
	CalcProgramIDs instruction.SrcDstLstSolValueCalcProgramIds
}

// StartRebalanceFreeArgs 调用方给出索引，索引处的 mint 必须与传入 mint 一致
type StartRebalanceFreeArgs struct {
	SrcLstIndex  int
	DstLstIndex  int
	WithdrawTo   types.Pubkey
	PoolState    types.KeyedAccount
	LstStateList types.KeyedAccount
	SrcLstMint   types.KeyedAccount
	DstLstMint   types.KeyedAccount
}

func (a *StartRebalanceFreeArgs) Resolve() (StartRebalanceResolved, error) {
	return a.ResolveForProgram(consts.SControllerProgram)
}

func (a *StartRebalanceFreeArgs) ResolveForProgram(programID types.Pubkey) (StartRebalanceResolved, error) {
	pdas := FindStartRebalancePdas(programID)
	if err := verifySingletons(pdas.Pdas, &a.PoolState, &a.LstStateList); err != nil {
		return StartRebalanceResolved{}, err
	}
	src, err := matchEntry(&a.LstStateList, a.SrcLstMint.Pubkey, a.SrcLstIndex)
	if err != nil {
		return StartRebalanceResolved{}, err
	}
	dst, err := matchEntry(&a.LstStateList, a.DstLstMint.Pubkey, a.DstLstIndex)
	if err != nil {
		return StartRebalanceResolved{}, err
	}
	return resolveStartRebalance(pdas, a.WithdrawTo, &a.PoolState, &a.SrcLstMint, &a.DstLstMint,
		instruction.SrcDstLstIndexes{Src: a.SrcLstIndex, Dst: a.DstLstIndex}, src, dst)
}

type StartRebalanceByMintsFreeArgs struct {
	WithdrawTo   types.Pubkey
	PoolState    types.KeyedAccount
	LstStateList types.KeyedAccount
	SrcLstMint   types.KeyedAccount
	DstLstMint   types.KeyedAccount
}

func (a *StartRebalanceByMintsFreeArgs) Resolve() (StartRebalanceResolved, error) {
	return a.ResolveForProgram(consts.SControllerProgram)
}

func (a *StartRebalanceByMintsFreeArgs) ResolveForProgram(programID types.Pubkey) (StartRebalanceResolved, error) {
	pdas := FindStartRebalancePdas(programID)
	if err := verifySingletons(pdas.Pdas, &a.PoolState, &a.LstStateList); err != nil {
		return StartRebalanceResolved{}, err
	}
	return a.ResolveWithPdas(pdas)
}

func (a *StartRebalanceByMintsFreeArgs) ResolveUnchecked() (StartRebalanceResolved, error) {
	return a.ResolveWithPdas(FindStartRebalancePdas(consts.SControllerProgram))
}

// ResolveWithPdas 不校验单例账户地址
func (a *StartRebalanceByMintsFreeArgs) ResolveWithPdas(pdas StartRebalancePdas) (StartRebalanceResolved, error) {
	srcIdx, src, err := findEntry(&a.LstStateList, a.SrcLstMint.Pubkey)
	if err != nil {
		return StartRebalanceResolved{}, err
	}
	dstIdx, dst, err := findEntry(&a.LstStateList, a.DstLstMint.Pubkey)
	if err != nil {
		return StartRebalanceResolved{}, err
	}
	return resolveStartRebalance(pdas, a.WithdrawTo, &a.PoolState, &a.SrcLstMint, &a.DstLstMint,
		instruction.SrcDstLstIndexes{Src: srcIdx, Dst: dstIdx}, src, dst)
}

func resolveStartRebalance(
	pdas StartRebalancePdas,
	withdrawTo types.Pubkey,
	poolStateAcc, srcMint, dstMint *types.KeyedAccount,
	indexes instruction.SrcDstLstIndexes,
	src, dst *registry.LstState,
) (StartRebalanceResolved, error) {
	srcReserves, err := pda.CreatePoolReservesAddressWithPoolStateID(pdas.PoolState, src, srcMint.Owner)
	if err != nil {
		return StartRebalanceResolved{}, err
	}
	dstReserves, err := pda.CreatePoolReservesAddressWithPoolStateID(pdas.PoolState, dst, dstMint.Owner)
	if err != nil {
		return StartRebalanceResolved{}, err
	}
	poolState, err := registry.TryPoolState(poolStateAcc.Data)
	if err != nil {
		return StartRebalanceResolved{}, err
	}
	return StartRebalanceResolved{
		Keys: instruction.StartRebalanceKeys{
			RebalanceAuthority: poolState.RebalanceAuthority,
			PoolState:          pdas.PoolState,
			LstStateList:       pdas.LstStateList,
			RebalanceRecord:    pdas.RebalanceRecord,
			SrcLstMint:         srcMint.Pubkey,
			DstLstMint:         dstMint.Pubkey,
			SrcPoolReserves:    srcReserves,
			DstPoolReserves:    dstReserves,
			WithdrawTo:         withdrawTo,
			Instructions:       consts.SysvarInstructions,
			SystemProgram:      consts.SystemProgram,
			SrcLstTokenProgram: srcMint.Owner,
			DstLstTokenProgram: dstMint.Owner,
		},
		Indexes: indexes,
		CalcProgramIDs: instruction.SrcDstLstSolValueCalcProgramIds{
			Src: src.SolValueCalculator,
			Dst: dst.SolValueCalculator,
		},
	}, nil
}

// BuildIx 解析后一次性构造含计算器后缀的完整指令
func (a *StartRebalanceByMintsFreeArgs) BuildIx(programID types.Pubkey, amount uint64, calcAccounts instruction.SrcDstLstSolValueCalcAccounts) (soltypes.Instruction, error) {
	resolved, err := a.ResolveForProgram(programID)
	if err != nil {
		return soltypes.Instruction{}, err
	}
	return instruction.StartRebalanceIxFull(programID, resolved.Keys, instruction.StartRebalanceIxFullArgs{
		Indexes:        resolved.Indexes,
		Amount:         amount,
		CalcProgramIDs: resolved.CalcProgramIDs,
		CalcAccounts:   calcAccounts,
	})
}
