package instruction

import (
	"s-controller-sol/internal/types"

	soltypes "github.com/blocto/solana-go-sdk/types"
)

// 各指令的定长账户列表，Metas() 输出顺序即链上期望的顺序

type RemoveLstKeys struct {
	Admin                      types.Pubkey
	RefundRentTo               types.Pubkey
	LstMint                    types.Pubkey
	PoolReserves               types.Pubkey
	ProtocolFeeAccumulator     types.Pubkey
	ProtocolFeeAccumulatorAuth types.Pubkey
	PoolState                  types.Pubkey
	LstStateList               types.Pubkey
	LstTokenProgram            types.Pubkey
}

func (k RemoveLstKeys) Metas() []soltypes.AccountMeta {
	return []soltypes.AccountMeta{
		types.SignerMeta(k.Admin, false),
		types.WritableMeta(k.RefundRentTo),
		types.ReadonlyMeta(k.LstMint),
		types.WritableMeta(k.PoolReserves),
		types.WritableMeta(k.ProtocolFeeAccumulator),
		types.ReadonlyMeta(k.ProtocolFeeAccumulatorAuth),
		types.WritableMeta(k.PoolState),
		types.WritableMeta(k.LstStateList),
		types.ReadonlyMeta(k.LstTokenProgram),
	}
}

// SwapKeys SwapExactIn 与 SwapExactOut 共用
type SwapKeys struct {
	Signer                 types.Pubkey
	SrcLstMint             types.Pubkey
	DstLstMint             types.Pubkey
	SrcLstAcc              types.Pubkey
	DstLstAcc              types.Pubkey
	ProtocolFeeAccumulator types.Pubkey
	SrcLstTokenProgram     types.Pubkey
	DstLstTokenProgram     types.Pubkey
	PoolState              types.Pubkey
	LstStateList           types.Pubkey
	SrcPoolReserves        types.Pubkey
	DstPoolReserves        types.Pubkey
}

func (k SwapKeys) Metas() []soltypes.AccountMeta {
	return []soltypes.AccountMeta{
		types.SignerMeta(k.Signer, false),
		types.ReadonlyMeta(k.SrcLstMint),
		types.ReadonlyMeta(k.DstLstMint),
		types.WritableMeta(k.SrcLstAcc),
		types.WritableMeta(k.DstLstAcc),
		types.WritableMeta(k.ProtocolFeeAccumulator),
		types.ReadonlyMeta(k.SrcLstTokenProgram),
		types.ReadonlyMeta(k.DstLstTokenProgram),
		types.WritableMeta(k.PoolState),
		types.WritableMeta(k.LstStateList),
		types.WritableMeta(k.SrcPoolReserves),
		types.WritableMeta(k.DstPoolReserves),
	}
}

type StartRebalanceKeys struct {
	RebalanceAuthority types.Pubkey
	PoolState          types.Pubkey
	LstStateList       types.Pubkey
	RebalanceRecord    types.Pubkey
	SrcLstMint         types.Pubkey
	DstLstMint         types.Pubkey
	SrcPoolReserves    types.Pubkey
	DstPoolReserves    types.Pubkey
	WithdrawTo         types.Pubkey
	Instructions       types.Pubkey
	SystemProgram      types.Pubkey
	SrcLstTokenProgram types.Pubkey
	DstLstTokenProgram types.Pubkey
}

func (k StartRebalanceKeys) Metas() []soltypes.AccountMeta {
	return []soltypes.AccountMeta{
		types.SignerMeta(k.RebalanceAuthority, false),
		types.WritableMeta(k.PoolState),
		types.WritableMeta(k.LstStateList),
		types.WritableMeta(k.RebalanceRecord),
		types.ReadonlyMeta(k.SrcLstMint),
		types.ReadonlyMeta(k.DstLstMint),
		types.WritableMeta(k.SrcPoolReserves),
		types.WritableMeta(k.DstPoolReserves),
		types.WritableMeta(k.WithdrawTo),
		types.ReadonlyMeta(k.Instructions),
		types.ReadonlyMeta(k.SystemProgram),
		types.ReadonlyMeta(k.SrcLstTokenProgram),
		types.ReadonlyMeta(k.DstLstTokenProgram),
	}
}

type SetSolValueCalculatorKeys struct {
	Admin        types.Pubkey
	LstMint      types.Pubkey
	PoolState    types.Pubkey
	LstStateList types.Pubkey
}

func (k SetSolValueCalculatorKeys) Metas() []soltypes.AccountMeta {
	return []soltypes.AccountMeta{
		types.SignerMeta(k.Admin, false),
		types.ReadonlyMeta(k.LstMint),
		types.WritableMeta(k.PoolState),
		types.WritableMeta(k.LstStateList),
	}
}

type AddLstKeys struct {
	Admin                      types.Pubkey
	Payer                      types.Pubkey
	LstMint                    types.Pubkey
	PoolReserves               types.Pubkey
	ProtocolFeeAccumulator     types.Pubkey
	ProtocolFeeAccumulatorAuth types.Pubkey
	SolValueCalculator         types.Pubkey
	PoolState                  types.Pubkey
	LstStateList               types.Pubkey
	AssociatedTokenProgram     types.Pubkey
	SystemProgram              types.Pubkey
	LstTokenProgram            types.Pubkey
}

func (k AddLstKeys) Metas() []soltypes.AccountMeta {
	return []soltypes.AccountMeta{
		types.SignerMeta(k.Admin, false),
		types.SignerMeta(k.Payer, true),
		types.ReadonlyMeta(k.LstMint),
		types.WritableMeta(k.PoolReserves),
		types.WritableMeta(k.ProtocolFeeAccumulator),
		types.ReadonlyMeta(k.ProtocolFeeAccumulatorAuth),
		types.ReadonlyMeta(k.SolValueCalculator),
		types.WritableMeta(k.PoolState),
		types.WritableMeta(k.LstStateList),
		types.ReadonlyMeta(k.AssociatedTokenProgram),
		types.ReadonlyMeta(k.SystemProgram),
		types.ReadonlyMeta(k.LstTokenProgram),
	}
}

type SyncSolValueKeys struct {
	LstMint      types.Pubkey
	PoolState    types.Pubkey
	LstStateList types.Pubkey
	PoolReserves types.Pubkey
}

func (k SyncSolValueKeys) Metas() []soltypes.AccountMeta {
	return []soltypes.AccountMeta{
		types.ReadonlyMeta(k.LstMint),
		types.WritableMeta(k.PoolState),
		types.WritableMeta(k.LstStateList),
		types.ReadonlyMeta(k.PoolReserves),
	}
}

// LstInputKeys DisableLstInput 与 EnableLstInput 共用
type LstInputKeys struct {
	Admin        types.Pubkey
	LstMint      types.Pubkey
	PoolState    types.Pubkey
	LstStateList types.Pubkey
}

func (k LstInputKeys) Metas() []soltypes.AccountMeta {
	return []soltypes.AccountMeta{
		types.SignerMeta(k.Admin, false),
		types.ReadonlyMeta(k.LstMint),
		types.ReadonlyMeta(k.PoolState),
		types.WritableMeta(k.LstStateList),
	}
}
