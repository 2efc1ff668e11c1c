package resolver

import (
	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/instruction"
	"s-controller-sol/internal/pda"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"
)

// SwapFreeArgs 按索引解析（链上路径），pool state 不需要数据，只需地址
type SwapFreeArgs struct {
	SrcLstIndex  int
	DstLstIndex  int
	Signer       types.Pubkey
	SrcLstAcc    types.Pubkey
	DstLstAcc    types.Pubkey
	SrcLstMint   types.KeyedAccount
	DstLstMint   types.KeyedAccount
	LstStateList types.KeyedAccount
}

type swapComputedKeys struct {
	srcPoolReserves        types.Pubkey
	dstPoolReserves        types.Pubkey
	protocolFeeAccumulator types.Pubkey
}

// computeSwapKeys 协议费记在目标 LST 上
func computeSwapKeys(pdas pda.Pdas, srcMint, dstMint *types.KeyedAccount, src, dst *registry.LstState) (swapComputedKeys, error) {
	srcReserves, err := pda.CreatePoolReservesAddressWithPoolStateID(pdas.PoolState, src, srcMint.Owner)
	if err != nil {
		return swapComputedKeys{}, err
	}
	dstReserves, err := pda.CreatePoolReservesAddressWithPoolStateID(pdas.PoolState, dst, dstMint.Owner)
	if err != nil {
		return swapComputedKeys{}, err
	}
	accum, err := pda.CreateProtocolFeeAccumulatorAddressWithProtocolFeeID(pdas.ProtocolFee, dst, dstMint.Owner)
	if err != nil {
		return swapComputedKeys{}, err
	}
	return swapComputedKeys{
		srcPoolReserves:        srcReserves,
		dstPoolReserves:        dstReserves,
		protocolFeeAccumulator: accum,
	}, nil
}

func swapKeys(pdas pda.Pdas, signer, srcAcc, dstAcc types.Pubkey, srcMint, dstMint *types.KeyedAccount, c swapComputedKeys) instruction.SwapKeys {
	return instruction.SwapKeys{
		Signer:                 signer,
		SrcLstMint:             srcMint.Pubkey,
		DstLstMint:             dstMint.Pubkey,
		SrcLstAcc:              srcAcc,
		DstLstAcc:              dstAcc,
		ProtocolFeeAccumulator: c.protocolFeeAccumulator,
		SrcLstTokenProgram:     srcMint.Owner,
		DstLstTokenProgram:     dstMint.Owner,
		PoolState:              pdas.PoolState,
		LstStateList:           pdas.LstStateList,
		SrcPoolReserves:        c.srcPoolReserves,
		DstPoolReserves:        c.dstPoolReserves,
	}
}

func (a *SwapFreeArgs) resolve(programID types.Pubkey) (instruction.SwapKeys, error) {
	pdas := pdasFor(programID)
	if err := verifyLstStateList(pdas.LstStateList, &a.LstStateList); err != nil {
		return instruction.SwapKeys{}, err
	}
	src, err := matchEntry(&a.LstStateList, a.SrcLstMint.Pubkey, a.SrcLstIndex)
	if err != nil {
		return instruction.SwapKeys{}, err
	}
	dst, err := matchEntry(&a.LstStateList, a.DstLstMint.Pubkey, a.DstLstIndex)
	if err != nil {
		return instruction.SwapKeys{}, err
	}
	computed, err := computeSwapKeys(pdas, &a.SrcLstMint, &a.DstLstMint, src, dst)
	if err != nil {
		return instruction.SwapKeys{}, err
	}
	return swapKeys(pdas, a.Signer, a.SrcLstAcc, a.DstLstAcc, &a.SrcLstMint, &a.DstLstMint, computed), nil
}

func (a *SwapFreeArgs) ResolveExactIn() (instruction.SwapKeys, error) {
	return a.resolve(consts.SControllerProgram)
}

func (a *SwapFreeArgs) ResolveExactOut() (instruction.SwapKeys, error) {
	return a.resolve(consts.SControllerProgram)
}

func (a *SwapFreeArgs) ResolveExactInForProgram(programID types.Pubkey) (instruction.SwapKeys, error) {
	return a.resolve(programID)
}

func (a *SwapFreeArgs) ResolveExactOutForProgram(programID types.Pubkey) (instruction.SwapKeys, error) {
	return a.resolve(programID)
}

// SwapResolved 按 mint 解析的结果：调用方还需要计算器程序 id 来拼接 CPI 账户后缀
type SwapResolved struct {
	Keys           instruction.SwapKeys
	Indexes        instruction.SrcDstLstIndexes
	CalcProgramIDs instruction.SrcDstLstSolValueCalcProgramIds
}

// SwapByMintsFreeArgs 在列表中按 mint 查找源与目标索引
type SwapByMintsFreeArgs struct {
	Signer       types.Pubkey
	SrcLstAcc    types.Pubkey
	DstLstAcc    types.Pubkey
	SrcLstMint   types.KeyedAccount
	DstLstMint   types.KeyedAccount
	LstStateList types.KeyedAccount
}

func (a *SwapByMintsFreeArgs) ResolveExactIn() (SwapResolved, error) {
	return a.ResolveExactInForProgram(consts.SControllerProgram)
}

func (a *SwapByMintsFreeArgs) ResolveExactOut() (SwapResolved, error) {
	return a.ResolveExactOutForProgram(consts.SControllerProgram)
}

func (a *SwapByMintsFreeArgs) ResolveExactInForProgram(programID types.Pubkey) (SwapResolved, error) {
	pdas := pdasFor(programID)
	if err := verifyLstStateList(pdas.LstStateList, &a.LstStateList); err != nil {
		return SwapResolved{}, err
	}
	return a.ResolveExactInWithPdas(pdas)
}

func (a *SwapByMintsFreeArgs) ResolveExactOutForProgram(programID types.Pubkey) (SwapResolved, error) {
	return a.ResolveExactInForProgram(programID)
}

// ResolveExactInWithPdas 不校验 lst state list 地址
func (a *SwapByMintsFreeArgs) ResolveExactInWithPdas(pdas pda.Pdas) (SwapResolved, error) {
	srcIdx, src, err := findEntry(&a.LstStateList, a.SrcLstMint.Pubkey)
	if err != nil {
		return SwapResolved{}, err
	}
	dstIdx, dst, err := findEntry(&a.LstStateList, a.DstLstMint.Pubkey)
	if err != nil {
		return SwapResolved{}, err
	}
	computed, err := computeSwapKeys(pdas, &a.SrcLstMint, &a.DstLstMint, src, dst)
	if err != nil {
		return SwapResolved{}, err
	}
	return SwapResolved{
		Keys:    swapKeys(pdas, a.Signer, a.SrcLstAcc, a.DstLstAcc, &a.SrcLstMint, &a.DstLstMint, computed),
		Indexes: instruction.SrcDstLstIndexes{Src: srcIdx, Dst: dstIdx},
		CalcProgramIDs: instruction.SrcDstLstSolValueCalcProgramIds{
			Src: src.SolValueCalculator,
			Dst: dst.SolValueCalculator,
		},
	}, nil
}

func (a *SwapByMintsFreeArgs) ResolveExactOutWithPdas(pdas pda.Pdas) (SwapResolved, error) {
	return a.ResolveExactInWithPdas(pdas)
}

func (a *SwapByMintsFreeArgs) ResolveUnchecked() (SwapResolved, error) {
	return a.ResolveExactInWithPdas(pda.CanonicalPdas())
}
