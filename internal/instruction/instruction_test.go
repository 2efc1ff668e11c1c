package instruction

import (
	"encoding/binary"
	"testing"

	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/types"

	soltypes "github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(n byte) types.Pubkey {
	var p types.Pubkey
	p[0] = n
	p[1] = 0x5C
	return p
}

func calcAccounts(mint types.Pubkey, extra ...types.Pubkey) []soltypes.AccountMeta {
	out := []soltypes.AccountMeta{types.ReadonlyMeta(mint)}
	for _, k := range extra {
		out = append(out, types.ReadonlyMeta(k))
	}
	return out
}

func TestRemoveLstIxLayout(t *testing.T) {
	keys := RemoveLstKeys{Admin: key(1), RefundRentTo: key(2), LstMint: key(3), PoolReserves: key(4),
		ProtocolFeeAccumulator: key(5), ProtocolFeeAccumulatorAuth: key(6), PoolState: key(7),
		LstStateList: key(8), LstTokenProgram: consts.TokenProgram}
	ix, err := RemoveLstIx(keys, RemoveLstIxArgs{LstIndex: 0x01020304})
	require.NoError(t, err)

	assert.Equal(t, consts.SControllerProgram.Common(), ix.ProgramID)
	assert.Equal(t, []byte{consts.RemoveLstIx, 0x04, 0x03, 0x02, 0x01}, ix.Data)
	require.Len(t, ix.Accounts, 9)
	assert.True(t, ix.Accounts[0].IsSigner)
	assert.False(t, ix.Accounts[0].IsWritable)
	assert.True(t, ix.Accounts[1].IsWritable)
	assert.False(t, ix.Accounts[2].IsWritable)
	assert.Equal(t, key(7).Common(), ix.Accounts[6].PubKey)

	other := key(99)
	ix, err = RemoveLstIxWithProgramID(other, keys, RemoveLstIxArgs{})
	require.NoError(t, err)
	assert.Equal(t, other.Common(), ix.ProgramID)
}

func TestExtendWithSolValueCalculatorAccounts(t *testing.T) {
	ix := soltypes.Instruction{Accounts: []soltypes.AccountMeta{types.ReadonlyMeta(key(1))}}
	calc := key(50)
	n, err := ExtendWithSolValueCalculatorAccounts(&ix, calcAccounts(key(1), key(2), key(3)), calc)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), n)
	require.Len(t, ix.Accounts, 4)
	assert.Equal(t, calc.Common(), ix.Accounts[1].PubKey)
	assert.False(t, ix.Accounts[1].IsWritable)
	assert.Equal(t, key(2).Common(), ix.Accounts[2].PubKey)

	// 只有 lst_mint 时仅追加程序 id
	n, err = ExtendWithSolValueCalculatorAccounts(&ix, calcAccounts(key(1)), consts.WsolCalculatorProgram)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), n)

	tooMany := make([]soltypes.AccountMeta, 300)
	_, err = SolValueCalculatorSuffixLen(tooMany)
	assert.ErrorIs(t, err, types.ErrMathError)
}

func TestSwapExactInIxFull(t *testing.T) {
	keys := SwapKeys{Signer: key(1), SrcLstMint: key(2), DstLstMint: key(3), PoolState: key(9), LstStateList: key(10)}
	args := SwapIxFullArgs{
		Indexes: SrcDstLstIndexes{Src: 2, Dst: 0},
		Limit:   95,
		Amount:  100,
		CalcProgramIDs: SrcDstLstSolValueCalcProgramIds{
			Src: consts.SplCalculatorProgram,
			Dst: consts.WsolCalculatorProgram,
		},
		CalcAccounts: SrcDstLstSolValueCalcAccounts{
			Src: calcAccounts(key(2), key(20), key(21), key(22), key(23)),
			Dst: calcAccounts(key(3)),
		},
		PricingProgram:  consts.FlatFeePricingProgram,
		PricingAccounts: calcAccounts(key(30)),
	}
	ix, err := SwapExactInIxFull(consts.SControllerProgram, keys, args)
	require.NoError(t, err)

	var decoded SwapExactInIxArgs
	require.NoError(t, DecodeIxArgs(ix.Data, consts.SwapExactInIx, &decoded))
	assert.Equal(t, SwapExactInIxArgs{
		SrcLstValueCalcAccs: 5,
		DstLstValueCalcAccs: 1,
		SrcLstIndex:         2,
		DstLstIndex:         0,
		MinAmountOut:        95,
		Amount:              100,
	}, decoded)
	assert.Len(t, ix.Data, 1+1+1+4+4+8+8)
	// 12 个主体账户 + 5 + 1 + 定价程序 + 1
	assert.Len(t, ix.Accounts, 12+5+1+2)
	assert.Equal(t, consts.SplCalculatorProgram.Common(), ix.Accounts[12].PubKey)
	assert.Equal(t, consts.WsolCalculatorProgram.Common(), ix.Accounts[17].PubKey)
	assert.Equal(t, consts.FlatFeePricingProgram.Common(), ix.Accounts[18].PubKey)

	out, err := SwapExactOutIxFull(consts.SControllerProgram, keys, args)
	require.NoError(t, err)
	var decodedOut SwapExactOutIxArgs
	require.NoError(t, DecodeIxArgs(out.Data, consts.SwapExactOutIx, &decodedOut))
	assert.Equal(t, uint64(95), decodedOut.MaxAmountIn)

	args.Indexes.Src = -1
	_, err = SwapExactInIxFull(consts.SControllerProgram, keys, args)
	assert.ErrorIs(t, err, types.ErrMathError)
}

func TestStartRebalanceIxFullSerializesCountOnce(t *testing.T) {
	keys := StartRebalanceKeys{RebalanceAuthority: key(1), SrcLstMint: key(2), DstLstMint: key(3)}
	ix, err := StartRebalanceIxFull(consts.SControllerProgram, keys, StartRebalanceIxFullArgs{
		Indexes: SrcDstLstIndexes{Src: 1, Dst: 3},
		Amount:  1_000,
		CalcProgramIDs: SrcDstLstSolValueCalcProgramIds{
			Src: consts.MarinadeCalculatorProgram,
			Dst: consts.SplCalculatorProgram,
		},
		CalcAccounts: SrcDstLstSolValueCalcAccounts{
			Src: calcAccounts(key(2), key(20), key(21), key(22), key(23)),
			Dst: calcAccounts(key(3), key(30), key(31), key(32), key(33)),
		},
	})
	require.NoError(t, err)

	require.Len(t, ix.Data, 1+1+4+4+8)
	assert.Equal(t, consts.StartRebalanceIx, ix.Data[0])
	assert.Equal(t, uint8(5), ix.Data[1])
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(ix.Data[2:6]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(ix.Data[6:10]))
	assert.Equal(t, uint64(1_000), binary.LittleEndian.Uint64(ix.Data[10:]))
	assert.Len(t, ix.Accounts, 13+5+5)
}

func TestSetSolValueCalculatorIxFull(t *testing.T) {
	keys := SetSolValueCalculatorKeys{Admin: key(1), LstMint: key(2), PoolState: key(3), LstStateList: key(4)}
	ix, err := SetSolValueCalculatorIxFull(consts.SControllerProgram, keys, 7, calcAccounts(key(2), key(5)), consts.SplCalculatorProgram)
	require.NoError(t, err)
	assert.Equal(t, []byte{consts.SetSolValueCalculatorIx, 7, 0, 0, 0}, ix.Data)
	assert.Len(t, ix.Accounts, 4+2)

	_, err = SetSolValueCalculatorIxFull(consts.SControllerProgram, keys, 1<<40, nil, consts.SplCalculatorProgram)
	assert.ErrorIs(t, err, types.ErrMathError)
}

func TestAddLstAndLstInputIx(t *testing.T) {
	ix, err := AddLstIx(AddLstKeys{Admin: key(1), Payer: key(2)})
	require.NoError(t, err)
	assert.Equal(t, []byte{consts.AddLstIx}, ix.Data)
	assert.True(t, ix.Accounts[1].IsSigner)
	assert.True(t, ix.Accounts[1].IsWritable)

	ix, err = DisableLstInputIx(LstInputKeys{Admin: key(1)}, LstIndexIxArgs{LstIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, []byte{consts.DisableLstInputIx, 2, 0, 0, 0}, ix.Data)

	ix, err = EnableLstInputIx(LstInputKeys{Admin: key(1)}, LstIndexIxArgs{LstIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, consts.EnableLstInputIx, ix.Data[0])

	ix, err = SyncSolValueIxFull(consts.SControllerProgram, SyncSolValueKeys{LstMint: key(3)}, 0, calcAccounts(key(3)), consts.WsolCalculatorProgram)
	require.NoError(t, err)
	assert.Equal(t, []byte{consts.SyncSolValueIx, 0, 0, 0, 0}, ix.Data)
	assert.Len(t, ix.Accounts, 5)
}

func TestDecodeIxArgsWrongDiscm(t *testing.T) {
	var args RemoveLstIxArgs
	err := DecodeIxArgs([]byte{consts.AddLstIx, 0, 0, 0, 0}, consts.RemoveLstIx, &args)
	assert.ErrorIs(t, err, types.ErrInvalidInstructionData)
	err = DecodeIxArgs(nil, consts.RemoveLstIx, &args)
	assert.ErrorIs(t, err, types.ErrInvalidInstructionData)
}

func TestVerifyAccountKeys(t *testing.T) {
	expected := RemoveLstKeys{Admin: key(1), PoolState: key(7), LstStateList: key(8)}.Metas()
	actual := append([]soltypes.AccountMeta{}, expected...)
	require.NoError(t, VerifyAccountKeys(actual, expected))
	require.NoError(t, VerifyAccountKeys(append(actual, types.ReadonlyMeta(key(9))), expected))

	actual[6] = types.WritableMeta(key(70))
	err := VerifyAccountKeys(actual, expected)
	assert.ErrorIs(t, err, types.ErrWrongAccount)
	assert.Contains(t, err.Error(), "account 6")

	actual[6] = types.ReadonlyMeta(key(7))
	assert.ErrorIs(t, VerifyAccountKeys(actual, expected), types.ErrWrongAccount)

	assert.ErrorIs(t, VerifyAccountKeys(actual[:3], expected), types.ErrNotEnoughAccountKeys)
}
