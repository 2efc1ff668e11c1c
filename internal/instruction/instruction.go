// Package instruction 构造控制程序的指令：定长账户列表 + borsh 参数，
// 以及 SOL value calculator 的 CPI 账户后缀。
package instruction

import (
	"fmt"
	"math"

	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"

	soltypes "github.com/blocto/solana-go-sdk/types"
)

// SrcDstLstIndexes swap / rebalance 中源与目标 LST 在列表中的索引
type SrcDstLstIndexes struct {
	Src int
	Dst int
}

type SrcDstLstSolValueCalcProgramIds struct {
	Src types.Pubkey
	Dst types.Pubkey
}

// SrcDstLstSolValueCalcAccounts 计算器账户列表，首个元素必须是 lst_mint
type SrcDstLstSolValueCalcAccounts struct {
	Src []soltypes.AccountMeta
	Dst []soltypes.AccountMeta
}

func newIx(programID types.Pubkey, metas []soltypes.AccountMeta, discm uint8, args interface{}) (soltypes.Instruction, error) {
	data, err := encodeIxData(discm, args)
	if err != nil {
		return soltypes.Instruction{}, err
	}
	return soltypes.Instruction{
		ProgramID: programID.Common(),
		Accounts:  metas,
		Data:      data,
	}, nil
}

func RemoveLstIx(keys RemoveLstKeys, args RemoveLstIxArgs) (soltypes.Instruction, error) {
	return RemoveLstIxWithProgramID(consts.SControllerProgram, keys, args)
}

func RemoveLstIxWithProgramID(programID types.Pubkey, keys RemoveLstKeys, args RemoveLstIxArgs) (soltypes.Instruction, error) {
	return newIx(programID, keys.Metas(), consts.RemoveLstIx, args)
}

func SwapExactInIx(keys SwapKeys, args SwapExactInIxArgs) (soltypes.Instruction, error) {
	return SwapExactInIxWithProgramID(consts.SControllerProgram, keys, args)
}

func SwapExactInIxWithProgramID(programID types.Pubkey, keys SwapKeys, args SwapExactInIxArgs) (soltypes.Instruction, error) {
	return newIx(programID, keys.Metas(), consts.SwapExactInIx, args)
}

func SwapExactOutIx(keys SwapKeys, args SwapExactOutIxArgs) (soltypes.Instruction, error) {
	return SwapExactOutIxWithProgramID(consts.SControllerProgram, keys, args)
}

func SwapExactOutIxWithProgramID(programID types.Pubkey, keys SwapKeys, args SwapExactOutIxArgs) (soltypes.Instruction, error) {
	return newIx(programID, keys.Metas(), consts.SwapExactOutIx, args)
}

func StartRebalanceIx(keys StartRebalanceKeys, args StartRebalanceIxArgs) (soltypes.Instruction, error) {
	return StartRebalanceIxWithProgramID(consts.SControllerProgram, keys, args)
}

func StartRebalanceIxWithProgramID(programID types.Pubkey, keys StartRebalanceKeys, args StartRebalanceIxArgs) (soltypes.Instruction, error) {
	return newIx(programID, keys.Metas(), consts.StartRebalanceIx, args)
}

func SetSolValueCalculatorIx(keys SetSolValueCalculatorKeys, args SetSolValueCalculatorIxArgs) (soltypes.Instruction, error) {
	return SetSolValueCalculatorIxWithProgramID(consts.SControllerProgram, keys, args)
}

func SetSolValueCalculatorIxWithProgramID(programID types.Pubkey, keys SetSolValueCalculatorKeys, args SetSolValueCalculatorIxArgs) (soltypes.Instruction, error) {
	return newIx(programID, keys.Metas(), consts.SetSolValueCalculatorIx, args)
}

func AddLstIx(keys AddLstKeys) (soltypes.Instruction, error) {
	return AddLstIxWithProgramID(consts.SControllerProgram, keys)
}

func AddLstIxWithProgramID(programID types.Pubkey, keys AddLstKeys) (soltypes.Instruction, error) {
	return newIx(programID, keys.Metas(), consts.AddLstIx, nil)
}

func SyncSolValueIx(keys SyncSolValueKeys, args LstIndexIxArgs) (soltypes.Instruction, error) {
	return SyncSolValueIxWithProgramID(consts.SControllerProgram, keys, args)
}

func SyncSolValueIxWithProgramID(programID types.Pubkey, keys SyncSolValueKeys, args LstIndexIxArgs) (soltypes.Instruction, error) {
	return newIx(programID, keys.Metas(), consts.SyncSolValueIx, args)
}

func DisableLstInputIx(keys LstInputKeys, args LstIndexIxArgs) (soltypes.Instruction, error) {
	return DisableLstInputIxWithProgramID(consts.SControllerProgram, keys, args)
}

func DisableLstInputIxWithProgramID(programID types.Pubkey, keys LstInputKeys, args LstIndexIxArgs) (soltypes.Instruction, error) {
	return newIx(programID, keys.Metas(), consts.DisableLstInputIx, args)
}

func EnableLstInputIx(keys LstInputKeys, args LstIndexIxArgs) (soltypes.Instruction, error) {
	return EnableLstInputIxWithProgramID(consts.SControllerProgram, keys, args)
}

func EnableLstInputIxWithProgramID(programID types.Pubkey, keys LstInputKeys, args LstIndexIxArgs) (soltypes.Instruction, error) {
	return newIx(programID, keys.Metas(), consts.EnableLstInputIx, args)
}

// SolValueCalculatorSuffixLen 追加后缀的账户数：程序 id + calcAccounts[1:]
func SolValueCalculatorSuffixLen(calcAccounts []soltypes.AccountMeta) (uint8, error) {
	n := 1
	if len(calcAccounts) > 1 {
		n += len(calcAccounts) - 1
	}
	if n > math.MaxUint8 {
		return 0, fmt.Errorf("calculator suffix of %d accounts: %w", n, types.ErrMathError)
	}
	return uint8(n), nil
}

// ExtendWithSolValueCalculatorAccounts 追加计算器程序（只读）与其余账户，lst_mint 已在指令主体中，跳过
func ExtendWithSolValueCalculatorAccounts(ix *soltypes.Instruction, calcAccounts []soltypes.AccountMeta, calcProgramID types.Pubkey) (uint8, error) {
	n, err := SolValueCalculatorSuffixLen(calcAccounts)
	if err != nil {
		return 0, err
	}
	ix.Accounts = append(ix.Accounts, types.ReadonlyMeta(calcProgramID))
	if len(calcAccounts) > 1 {
		ix.Accounts = append(ix.Accounts, calcAccounts[1:]...)
	}
	return n, nil
}

// ExtendWithPricingProgramAccounts 定价程序账户直接追加（首个为定价程序本身）
func ExtendWithPricingProgramAccounts(ix *soltypes.Instruction, pricingProgramID types.Pubkey, pricingAccounts []soltypes.AccountMeta) {
	ix.Accounts = append(ix.Accounts, types.ReadonlyMeta(pricingProgramID))
	ix.Accounts = append(ix.Accounts, pricingAccounts...)
}

func suffixLens(calcs SrcDstLstSolValueCalcAccounts) (uint8, uint8, error) {
	src, err := SolValueCalculatorSuffixLen(calcs.Src)
	if err != nil {
		return 0, 0, err
	}
	dst, err := SolValueCalculatorSuffixLen(calcs.Dst)
	if err != nil {
		return 0, 0, err
	}
	return src, dst, nil
}

func extendSrcDst(ix *soltypes.Instruction, calcs SrcDstLstSolValueCalcAccounts, programIDs SrcDstLstSolValueCalcProgramIds) error {
	if _, err := ExtendWithSolValueCalculatorAccounts(ix, calcs.Src, programIDs.Src); err != nil {
		return err
	}
	_, err := ExtendWithSolValueCalculatorAccounts(ix, calcs.Dst, programIDs.Dst)
	return err
}

// SwapIxFullArgs 完整 swap 指令参数，calc 账户数由构造函数填写
type SwapIxFullArgs struct {
	Indexes SrcDstLstIndexes
	// ExactIn 时为 min_amount_out，ExactOut 时为 max_amount_in
	Limit           uint64
	Amount          uint64
	CalcProgramIDs  SrcDstLstSolValueCalcProgramIds
	CalcAccounts    SrcDstLstSolValueCalcAccounts
	PricingProgram  types.Pubkey
	PricingAccounts []soltypes.AccountMeta
}

func (a *SwapIxFullArgs) indexes() (uint32, uint32, error) {
	src, err := registry.IndexToU32(a.Indexes.Src)
	if err != nil {
		return 0, 0, err
	}
	dst, err := registry.IndexToU32(a.Indexes.Dst)
	if err != nil {
		return 0, 0, err
	}
	return src, dst, nil
}

func (a *SwapIxFullArgs) extend(ix *soltypes.Instruction) error {
	if err := extendSrcDst(ix, a.CalcAccounts, a.CalcProgramIDs); err != nil {
		return err
	}
	if !a.PricingProgram.IsZero() {
		ExtendWithPricingProgramAccounts(ix, a.PricingProgram, a.PricingAccounts)
	}
	return nil
}

func SwapExactInIxFull(programID types.Pubkey, keys SwapKeys, args SwapIxFullArgs) (soltypes.Instruction, error) {
	srcIdx, dstIdx, err := args.indexes()
	if err != nil {
		return soltypes.Instruction{}, err
	}
	srcN, dstN, err := suffixLens(args.CalcAccounts)
	if err != nil {
		return soltypes.Instruction{}, err
	}
	ix, err := SwapExactInIxWithProgramID(programID, keys, SwapExactInIxArgs{
		SrcLstValueCalcAccs: srcN,
		DstLstValueCalcAccs: dstN,
		SrcLstIndex:         srcIdx,
		DstLstIndex:         dstIdx,
		MinAmountOut:        args.Limit,
		Amount:              args.Amount,
	})
	if err != nil {
		return soltypes.Instruction{}, err
	}
	return ix, args.extend(&ix)
}

func SwapExactOutIxFull(programID types.Pubkey, keys SwapKeys, args SwapIxFullArgs) (soltypes.Instruction, error) {
	srcIdx, dstIdx, err := args.indexes()
	if err != nil {
		return soltypes.Instruction{}, err
	}
	srcN, dstN, err := suffixLens(args.CalcAccounts)
	if err != nil {
		return soltypes.Instruction{}, err
	}
	ix, err := SwapExactOutIxWithProgramID(programID, keys, SwapExactOutIxArgs{
		SrcLstValueCalcAccs: srcN,
		DstLstValueCalcAccs: dstN,
		SrcLstIndex:         srcIdx,
		DstLstIndex:         dstIdx,
		MaxAmountIn:         args.Limit,
		Amount:              args.Amount,
	})
	if err != nil {
		return soltypes.Instruction{}, err
	}
	return ix, args.extend(&ix)
}

type StartRebalanceIxFullArgs struct {
	Indexes        SrcDstLstIndexes
	Amount         uint64
	CalcProgramIDs SrcDstLstSolValueCalcProgramIds
	CalcAccounts   SrcDstLstSolValueCalcAccounts
}

// StartRebalanceIxFull 先算出源计算器后缀长度再序列化参数，参数只序列化一次
func StartRebalanceIxFull(programID types.Pubkey, keys StartRebalanceKeys, args StartRebalanceIxFullArgs) (soltypes.Instruction, error) {
	srcIdx, err := registry.IndexToU32(args.Indexes.Src)
	if err != nil {
		return soltypes.Instruction{}, err
	}
	dstIdx, err := registry.IndexToU32(args.Indexes.Dst)
	if err != nil {
		return soltypes.Instruction{}, err
	}
	srcN, _, err := suffixLens(args.CalcAccounts)
	if err != nil {
		return soltypes.Instruction{}, err
	}
	ix, err := StartRebalanceIxWithProgramID(programID, keys, StartRebalanceIxArgs{
		SrcLstCalcAccs: srcN,
		SrcLstIndex:    srcIdx,
		DstLstIndex:    dstIdx,
		Amount:         args.Amount,
	})
	if err != nil {
		return soltypes.Instruction{}, err
	}
	return ix, extendSrcDst(&ix, args.CalcAccounts, args.CalcProgramIDs)
}

// SetSolValueCalculatorIxFull 新计算器的账户后缀追加在主体之后，供程序校验新计算器可用
func SetSolValueCalculatorIxFull(programID types.Pubkey, keys SetSolValueCalculatorKeys, lstIndex int, calcAccounts []soltypes.AccountMeta, calcProgramID types.Pubkey) (soltypes.Instruction, error) {
	idx, err := registry.IndexToU32(lstIndex)
	if err != nil {
		return soltypes.Instruction{}, err
	}
	ix, err := SetSolValueCalculatorIxWithProgramID(programID, keys, SetSolValueCalculatorIxArgs{LstIndex: idx})
	if err != nil {
		return soltypes.Instruction{}, err
	}
	_, err = ExtendWithSolValueCalculatorAccounts(&ix, calcAccounts, calcProgramID)
	return ix, err
}

func SyncSolValueIxFull(programID types.Pubkey, keys SyncSolValueKeys, lstIndex int, calcAccounts []soltypes.AccountMeta, calcProgramID types.Pubkey) (soltypes.Instruction, error) {
	idx, err := registry.IndexToU32(lstIndex)
	if err != nil {
		return soltypes.Instruction{}, err
	}
	ix, err := SyncSolValueIxWithProgramID(programID, keys, LstIndexIxArgs{LstIndex: idx})
	if err != nil {
		return soltypes.Instruction{}, err
	}
	_, err = ExtendWithSolValueCalculatorAccounts(&ix, calcAccounts, calcProgramID)
	return ix, err
}
