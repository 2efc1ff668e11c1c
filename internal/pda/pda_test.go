package pda

import (
	"testing"

	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDeterministic(t *testing.T) {
	a, bumpA := FindPoolStateAddress(consts.SControllerProgram)
	b, bumpB := FindPoolStateAddress(consts.SControllerProgram)
	assert.Equal(t, a, b)
	assert.Equal(t, bumpA, bumpB)

	other, _ := FindPoolStateAddress(consts.FlatFeePricingProgram)
	assert.NotEqual(t, a, other, "不同程序得到不同地址")
}

func TestCanonicalPdas(t *testing.T) {
	pdas := CanonicalPdas()
	assert.Equal(t, FindPdasForProgram(consts.SControllerProgram), pdas)
	assert.NotEqual(t, pdas.PoolState, pdas.LstStateList)
	assert.NotEqual(t, pdas.PoolState, pdas.ProtocolFee)
	assert.NotEqual(t, pdas.LstStateList, pdas.ProtocolFee)
}

func TestCreateWithStoredBumpMatchesFind(t *testing.T) {
	pdas := CanonicalPdas()
	mint := consts.JitoSOLMint

	reserves, reservesBump := FindPoolReservesAddress(pdas.PoolState, consts.TokenProgram, mint)
	accum, accumBump := FindProtocolFeeAccumulatorAddress(pdas.ProtocolFee, consts.TokenProgram, mint)

	lst := &registry.LstState{
		PoolReservesBump:           reservesBump,
		ProtocolFeeAccumulatorBump: accumBump,
		Mint:                       mint,
	}
	got, err := CreatePoolReservesAddress(lst, consts.TokenProgram)
	require.NoError(t, err)
	assert.Equal(t, reserves, got)

	got, err = CreateProtocolFeeAccumulatorAddress(lst, consts.TokenProgram)
	require.NoError(t, err)
	assert.Equal(t, accum, got)

	// token program 不同地址也不同
	got2022, _ := FindPoolReservesAddress(pdas.PoolState, consts.TokenProgram2022, mint)
	assert.NotEqual(t, reserves, got2022)
}

func TestCreateWithWrongBump(t *testing.T) {
	pdas := CanonicalPdas()
	mint := consts.MSOLMint
	reserves, bump := FindPoolReservesAddress(pdas.PoolState, consts.TokenProgram, mint)

	// 其它 bump 要么落在曲线上报错，要么得到不同地址
	lst := &registry.LstState{PoolReservesBump: bump - 1, Mint: mint}
	got, err := CreatePoolReservesAddress(lst, consts.TokenProgram)
	if err != nil {
		assert.ErrorIs(t, err, types.ErrInvalidReserves)
		return
	}
	assert.NotEqual(t, reserves, got)
}

func TestAssociatedTokenAddressKnownValue(t *testing.T) {
	// 主网 wSOL 在 system program 下的 ATA 不依赖任何链上状态，仅用于交叉校验 seeds 顺序
	owner := consts.SystemProgram
	addr, _ := FindAssociatedTokenAddress(owner, consts.TokenProgram, consts.WSOLMint)
	again, _ := FindAssociatedTokenAddress(owner, consts.TokenProgram, consts.WSOLMint)
	assert.Equal(t, addr, again)
	swapped, _ := FindAssociatedTokenAddress(owner, consts.WSOLMint, consts.TokenProgram)
	assert.NotEqual(t, addr, swapped)
}

func TestProgramDataAndCalculatorState(t *testing.T) {
	pd, _ := FindProgramDataAddress(consts.SplStakePoolProgram)
	assert.False(t, pd.IsZero())
	st, _ := FindCalculatorStateAddress(consts.SplCalculatorProgram)
	poolState, _ := FindPoolStateAddress(consts.SplCalculatorProgram)
	assert.Equal(t, st, poolState, "seed 相同且程序相同")
}
