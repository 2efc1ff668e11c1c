package resolver

import (
	"testing"

	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/instruction"
	"s-controller-sol/internal/pda"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin      = types.PubkeyFromBase58("9S3avfRxH9RYbMHbvxnhwiwpdF9iuXG7uWiatqWvQskT")
	rebalancer = types.PubkeyFromBase58(consts.ComputeBudgetProgramIdStr)
)

type fixture struct {
	pdas      pda.Pdas
	poolState types.KeyedAccount
	list      types.KeyedAccount
	mints     map[types.Pubkey]types.KeyedAccount
}

// newFixture 按给定顺序构造规范程序下的 pool state 与 LST 列表
func newFixture(t *testing.T, entries ...registry.LstState) *fixture {
	t.Helper()
	pdas := pda.CanonicalPdas()
	psData, err := registry.SerializePoolState(&registry.PoolState{
		Admin:              admin,
		RebalanceAuthority: rebalancer,
		Version:            consts.CurrentProgramVersion,
	})
	require.NoError(t, err)

	f := &fixture{
		pdas:      pdas,
		poolState: types.KeyedAccount{Pubkey: pdas.PoolState, Owner: consts.SControllerProgram, Data: psData},
		mints:     map[types.Pubkey]types.KeyedAccount{},
	}
	var listData []byte
	for _, e := range entries {
		_, e.PoolReservesBump = pda.FindPoolReservesAddress(pdas.PoolState, consts.TokenProgram, e.Mint)
		_, e.ProtocolFeeAccumulatorBump = pda.FindProtocolFeeAccumulatorAddress(pdas.ProtocolFee, consts.TokenProgram, e.Mint)
		listData, err = registry.AppendLst(listData, e)
		require.NoError(t, err)
		f.mints[e.Mint] = types.KeyedAccount{Pubkey: e.Mint, Owner: consts.TokenProgram}
	}
	f.list = types.KeyedAccount{Pubkey: pdas.LstStateList, Owner: consts.SControllerProgram, Data: listData}
	return f
}

func defaultFixture(t *testing.T) *fixture {
	return newFixture(t,
		registry.LstState{Mint: consts.WSOLMint, SolValueCalculator: consts.WsolCalculatorProgram},
		registry.LstState{Mint: consts.MSOLMint, SolValueCalculator: consts.MarinadeCalculatorProgram},
		registry.LstState{Mint: consts.JitoSOLMint, SolValueCalculator: consts.SplCalculatorProgram},
	)
}

func reservesOf(f *fixture, mint types.Pubkey) types.Pubkey {
	addr, _ := pda.FindPoolReservesAddress(f.pdas.PoolState, consts.TokenProgram, mint)
	return addr
}

func accumOf(f *fixture, mint types.Pubkey) types.Pubkey {
	addr, _ := pda.FindProtocolFeeAccumulatorAddress(f.pdas.ProtocolFee, consts.TokenProgram, mint)
	return addr
}

func TestRemoveLstByIndexAndByMintAgree(t *testing.T) {
	f := defaultFixture(t)
	refund := consts.SystemProgram

	byMint := &RemoveLstByMintFreeArgs{RefundRentTo: refund, PoolState: f.poolState, LstStateList: f.list, LstMint: f.mints[consts.MSOLMint]}
	keys, args, err := byMint.Resolve()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), args.LstIndex)
	assert.Equal(t, admin, keys.Admin)
	assert.Equal(t, reservesOf(f, consts.MSOLMint), keys.PoolReserves)
	assert.Equal(t, accumOf(f, consts.MSOLMint), keys.ProtocolFeeAccumulator)
	assert.Equal(t, f.pdas.ProtocolFee, keys.ProtocolFeeAccumulatorAuth)
	assert.Equal(t, consts.TokenProgram, keys.LstTokenProgram)

	byIndex := &RemoveLstFreeArgs{LstIndex: 1, RefundRentTo: refund, PoolState: f.poolState, LstStateList: f.list, LstMint: f.mints[consts.MSOLMint]}
	keysByIndex, err := byIndex.Resolve()
	require.NoError(t, err)
	assert.Equal(t, keys, keysByIndex)

	byIndex.LstIndex = 0
	_, err = byIndex.Resolve()
	assert.ErrorIs(t, err, types.ErrInvalidLstIndex)

	ix, err := byMint.BuildIx(consts.SControllerProgram)
	require.NoError(t, err)
	assert.Equal(t, []byte{consts.RemoveLstIx, 1, 0, 0, 0}, ix.Data)
}

func TestRemoveLstStaleIndexAfterCompaction(t *testing.T) {
	a, b := consts.JupSOLMint, consts.BSOLMint
	f := newFixture(t, registry.LstState{Mint: a}, registry.LstState{Mint: b})

	data, err := registry.RemoveLstAt(f.list.Data, 0)
	require.NoError(t, err)
	f.list.Data = data

	stale := &RemoveLstFreeArgs{LstIndex: 1, PoolState: f.poolState, LstStateList: f.list, LstMint: f.mints[b]}
	_, err = stale.Resolve()
	assert.ErrorIs(t, err, types.ErrInvalidLstIndex)

	byMint := &RemoveLstByMintFreeArgs{PoolState: f.poolState, LstStateList: f.list, LstMint: f.mints[b]}
	_, args, err := byMint.Resolve()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), args.LstIndex)

	removed := &RemoveLstByMintFreeArgs{PoolState: f.poolState, LstStateList: f.list, LstMint: f.mints[a]}
	_, _, err = removed.Resolve()
	assert.ErrorIs(t, err, types.ErrLstNotFound)
}

func TestIdentityCheckAndUncheckedOptIn(t *testing.T) {
	f := defaultFixture(t)
	forged := f.list
	forged.Pubkey = consts.SystemProgram

	args := &RemoveLstByMintFreeArgs{PoolState: f.poolState, LstStateList: forged, LstMint: f.mints[consts.WSOLMint]}
	_, _, err := args.Resolve()
	assert.ErrorIs(t, err, types.ErrIncorrectLstStateList)

	// 显式跳过校验时使用规范 PDA 输出
	keys, _, err := args.ResolveUnchecked()
	require.NoError(t, err)
	assert.Equal(t, f.pdas.LstStateList, keys.LstStateList)

	forgedPool := f.poolState
	forgedPool.Pubkey = consts.SystemProgram
	args = &RemoveLstByMintFreeArgs{PoolState: forgedPool, LstStateList: f.list, LstMint: f.mints[consts.WSOLMint]}
	_, _, err = args.Resolve()
	assert.ErrorIs(t, err, types.ErrIncorrectPoolState)

	// 其它程序的 PDA 与规范账户不一致
	_, _, err = (&RemoveLstByMintFreeArgs{PoolState: f.poolState, LstStateList: f.list, LstMint: f.mints[consts.WSOLMint]}).
		ResolveForProgram(consts.FlatFeePricingProgram)
	assert.ErrorIs(t, err, types.ErrIncorrectPoolState)
}

func TestSwapByMints(t *testing.T) {
	f := defaultFixture(t)
	args := &SwapByMintsFreeArgs{
		Signer:       admin,
		SrcLstAcc:    consts.SystemProgram,
		DstLstAcc:    consts.SysvarInstructions,
		SrcLstMint:   f.mints[consts.JitoSOLMint],
		DstLstMint:   f.mints[consts.MSOLMint],
		LstStateList: f.list,
	}
	res, err := args.ResolveExactIn()
	require.NoError(t, err)
	assert.Equal(t, instruction.SrcDstLstIndexes{Src: 2, Dst: 1}, res.Indexes)
	assert.Equal(t, consts.SplCalculatorProgram, res.CalcProgramIDs.Src)
	assert.Equal(t, consts.MarinadeCalculatorProgram, res.CalcProgramIDs.Dst)
	assert.Equal(t, reservesOf(f, consts.JitoSOLMint), res.Keys.SrcPoolReserves)
	assert.Equal(t, reservesOf(f, consts.MSOLMint), res.Keys.DstPoolReserves)
	// 协议费按目标 LST 计
	assert.Equal(t, accumOf(f, consts.MSOLMint), res.Keys.ProtocolFeeAccumulator)

	out, err := args.ResolveExactOut()
	require.NoError(t, err)
	assert.Equal(t, res, out)

	byIndex := &SwapFreeArgs{
		SrcLstIndex: 2, DstLstIndex: 1,
		Signer: admin, SrcLstAcc: args.SrcLstAcc, DstLstAcc: args.DstLstAcc,
		SrcLstMint: args.SrcLstMint, DstLstMint: args.DstLstMint, LstStateList: f.list,
	}
	keys, err := byIndex.ResolveExactIn()
	require.NoError(t, err)
	assert.Equal(t, res.Keys, keys)

	byIndex.DstLstIndex = 5
	_, err = byIndex.ResolveExactOut()
	assert.ErrorIs(t, err, types.ErrInvalidLstIndex)
}

func TestSwapSameLst(t *testing.T) {
	f := defaultFixture(t)
	mint := f.mints[consts.MSOLMint]
	args := &SwapByMintsFreeArgs{Signer: admin, SrcLstMint: mint, DstLstMint: mint, LstStateList: f.list}
	res, err := args.ResolveExactIn()
	require.NoError(t, err)
	assert.Equal(t, res.Indexes.Src, res.Indexes.Dst)
	assert.Equal(t, res.Keys.SrcPoolReserves, res.Keys.DstPoolReserves)
	assert.Equal(t, res.CalcProgramIDs.Src, res.CalcProgramIDs.Dst)

	byIndex := &SwapFreeArgs{SrcLstIndex: 1, DstLstIndex: 1, Signer: admin, SrcLstMint: mint, DstLstMint: mint, LstStateList: f.list}
	keys, err := byIndex.ResolveExactIn()
	require.NoError(t, err)
	assert.Equal(t, res.Keys, keys)
}

func TestSwapMintNotFound(t *testing.T) {
	f := defaultFixture(t)
	args := &SwapByMintsFreeArgs{
		SrcLstMint:   types.KeyedAccount{Pubkey: consts.BSOLMint, Owner: consts.TokenProgram},
		DstLstMint:   f.mints[consts.MSOLMint],
		LstStateList: f.list,
	}
	_, err := args.ResolveExactIn()
	assert.ErrorIs(t, err, types.ErrLstNotFound)
}

func TestStartRebalanceBuildIx(t *testing.T) {
	f := defaultFixture(t)
	args := &StartRebalanceByMintsFreeArgs{
		WithdrawTo:   consts.SystemProgram,
		PoolState:    f.poolState,
		LstStateList: f.list,
		SrcLstMint:   f.mints[consts.MSOLMint],
		DstLstMint:   f.mints[consts.WSOLMint],
	}
	res, err := args.Resolve()
	require.NoError(t, err)
	record, _ := pda.FindRebalanceRecordAddress(consts.SControllerProgram)
	assert.Equal(t, record, res.Keys.RebalanceRecord)
	assert.Equal(t, rebalancer, res.Keys.RebalanceAuthority)
	assert.Equal(t, consts.SysvarInstructions, res.Keys.Instructions)

	srcCalc, err := SolValueCalcAccounts(res.CalcProgramIDs.Src, consts.MSOLMint, types.Pubkey{})
	require.NoError(t, err)
	dstCalc, err := SolValueCalcAccounts(res.CalcProgramIDs.Dst, consts.WSOLMint, types.Pubkey{})
	require.NoError(t, err)

	ix, err := args.BuildIx(consts.SControllerProgram, 500, instruction.SrcDstLstSolValueCalcAccounts{Src: srcCalc, Dst: dstCalc})
	require.NoError(t, err)
	var decoded instruction.StartRebalanceIxArgs
	require.NoError(t, instruction.DecodeIxArgs(ix.Data, consts.StartRebalanceIx, &decoded))
	assert.Equal(t, instruction.StartRebalanceIxArgs{SrcLstCalcAccs: 5, SrcLstIndex: 1, DstLstIndex: 0, Amount: 500}, decoded)
	assert.Len(t, ix.Accounts, 13+5+1)
}

func TestStartRebalanceByIndexAndByMintAgree(t *testing.T) {
	f := defaultFixture(t)
	byMint := &StartRebalanceByMintsFreeArgs{
		WithdrawTo:   consts.SystemProgram,
		PoolState:    f.poolState,
		LstStateList: f.list,
		SrcLstMint:   f.mints[consts.JitoSOLMint],
		DstLstMint:   f.mints[consts.MSOLMint],
	}
	want, err := byMint.Resolve()
	require.NoError(t, err)

	byIndex := &StartRebalanceFreeArgs{
		SrcLstIndex:  2,
		DstLstIndex:  1,
		WithdrawTo:   consts.SystemProgram,
		PoolState:    f.poolState,
		LstStateList: f.list,
		SrcLstMint:   f.mints[consts.JitoSOLMint],
		DstLstMint:   f.mints[consts.MSOLMint],
	}
	got, err := byIndex.Resolve()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	byIndex.DstLstIndex = 0
	_, err = byIndex.Resolve()
	assert.ErrorIs(t, err, types.ErrInvalidLstIndex)

	forged := *byIndex
	forged.DstLstIndex = 1
	forged.PoolState.Pubkey = consts.SystemProgram
	_, err = forged.Resolve()
	assert.ErrorIs(t, err, types.ErrIncorrectPoolState)
}

func TestStartRebalanceStaleIndexAfterCompaction(t *testing.T) {
	a, b, c := consts.JupSOLMint, consts.BSOLMint, consts.WSOLMint
	f := newFixture(t, registry.LstState{Mint: a}, registry.LstState{Mint: b}, registry.LstState{Mint: c})

	data, err := registry.RemoveLstAt(f.list.Data, 0)
	require.NoError(t, err)
	f.list.Data = data

	stale := &StartRebalanceFreeArgs{
		SrcLstIndex:  1,
		DstLstIndex:  2,
		PoolState:    f.poolState,
		LstStateList: f.list,
		SrcLstMint:   f.mints[b],
		DstLstMint:   f.mints[c],
	}
	_, err = stale.Resolve()
	assert.ErrorIs(t, err, types.ErrInvalidLstIndex)

	stale.SrcLstIndex, stale.DstLstIndex = 0, 1
	res, err := stale.Resolve()
	require.NoError(t, err)
	assert.Equal(t, instruction.SrcDstLstIndexes{Src: 0, Dst: 1}, res.Indexes)
}

func TestSetSolValueCalculator(t *testing.T) {
	f := defaultFixture(t)
	byMint := &SetSolValueCalculatorByMintFreeArgs{PoolState: f.poolState, LstStateList: f.list, LstMint: f.mints[consts.JitoSOLMint]}
	keys, idx, err := byMint.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, admin, keys.Admin)

	byIndex := &SetSolValueCalculatorFreeArgs{LstIndex: 2, PoolState: f.poolState, LstStateList: f.list, LstMint: f.mints[consts.JitoSOLMint]}
	keysByIndex, err := byIndex.Resolve()
	require.NoError(t, err)
	assert.Equal(t, keys, keysByIndex)

	calcAccs, err := SolValueCalcAccounts(consts.SanctumSplCalculatorProgram, consts.JitoSOLMint, consts.BSOLMint)
	require.NoError(t, err)
	ix, err := byMint.BuildIx(consts.SControllerProgram, calcAccs, consts.SanctumSplCalculatorProgram)
	require.NoError(t, err)
	assert.Equal(t, []byte{consts.SetSolValueCalculatorIx, 2, 0, 0, 0}, ix.Data)
	assert.Len(t, ix.Accounts, 4+5)
}

func TestAddLst(t *testing.T) {
	f := defaultFixture(t)
	args := &AddLstFreeArgs{
		Payer:              admin,
		SolValueCalculator: consts.SplCalculatorProgram,
		PoolState:          f.poolState,
		LstStateList:       f.list,
		LstMint:            types.KeyedAccount{Pubkey: consts.BSOLMint, Owner: consts.TokenProgram},
	}
	keys, entry, err := args.Resolve()
	require.NoError(t, err)
	assert.Equal(t, reservesOf(f, consts.BSOLMint), keys.PoolReserves)

	// 追加后按 mint 解析得到的储备金地址与 AddLst 一致
	data, err := registry.AppendLst(f.list.Data, entry)
	require.NoError(t, err)
	f.list.Data = data
	f.mints[consts.BSOLMint] = args.LstMint
	res, err := (&SyncSolValueByMintFreeArgs{LstStateList: f.list, LstMint: args.LstMint}).Resolve()
	require.NoError(t, err)
	assert.Equal(t, 3, res.LstIndex)
	assert.Equal(t, keys.PoolReserves, res.Keys.PoolReserves)
	assert.Equal(t, consts.SplCalculatorProgram, res.CalcProgramID)

	args.LstStateList = f.list
	_, _, err = args.Resolve()
	assert.ErrorIs(t, err, types.ErrDuplicateLst)

	// 列表损坏时不能当作"不存在"继续追加
	args.LstStateList.Data = append(append([]byte{}, f.list.Data...), 0x01)
	args.LstMint = types.KeyedAccount{Pubkey: consts.JupSOLMint, Owner: consts.TokenProgram}
	_, _, err = args.Resolve()
	assert.ErrorIs(t, err, types.ErrInvalidLstStateListData)
	assert.NotErrorIs(t, err, types.ErrDuplicateLst)
}

func TestLstInput(t *testing.T) {
	f := defaultFixture(t)
	keys, args, err := (&LstInputByMintFreeArgs{PoolState: f.poolState, LstStateList: f.list, LstMint: f.mints[consts.JitoSOLMint]}).Resolve()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), args.LstIndex)
	assert.Equal(t, admin, keys.Admin)
}

func TestSolValueCalcAccounts(t *testing.T) {
	accs, err := SolValueCalcAccounts(consts.WsolCalculatorProgram, consts.WSOLMint, types.Pubkey{})
	require.NoError(t, err)
	assert.Len(t, accs, 1)

	accs, err = SolValueCalcAccounts(consts.MarinadeCalculatorProgram, consts.MSOLMint, types.Pubkey{})
	require.NoError(t, err)
	require.Len(t, accs, 5)
	assert.Equal(t, consts.MarinadeState.Common(), accs[2].PubKey)

	_, err = SolValueCalcAccounts(consts.SystemProgram, consts.MSOLMint, types.Pubkey{})
	assert.ErrorIs(t, err, types.ErrIncorrectSolValueCalculator)
}
