package cpi

import (
	"testing"

	"s-controller-sol/internal/calculator"
	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"

	soltypes "github.com/blocto/solana-go-sdk/types"
	"github.com/near/borsh-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProcessor struct {
	out []byte
}

func (s stubProcessor) Process([]types.AccountInfo, []byte) ([]byte, error) {
	return s.out, nil
}

// foreignRuntime 返回来自其它程序的 return data
type foreignRuntime struct {
	from types.Pubkey
}

func (f foreignRuntime) Invoke(soltypes.Instruction, []types.AccountInfo) error { return nil }

func (f foreignRuntime) GetReturnData() (types.Pubkey, []byte, bool) {
	return f.from, []byte{1, 0, 0, 0, 0, 0, 0, 0}, true
}

func borshMarinade(s *calculator.MarinadeState) ([]byte, error) {
	b, err := borsh.Serialize(*s)
	if err != nil {
		return nil, err
	}
	// anchor discriminator
	return append(make([]byte, 8), b...), nil
}

func wsolCpi() *SolValueCalculatorCpi {
	return &SolValueCalculatorCpi{
		Program: types.AccountInfo{Key: consts.WsolCalculatorProgram},
		LstMint: types.AccountInfo{Key: consts.WSOLMint},
	}
}

func TestInvokeWsol(t *testing.T) {
	rt := NewMemRuntime()
	rt.Register(consts.WsolCalculatorProgram, calculator.WsolProcessor{})

	c := wsolCpi()
	v, err := c.InvokeLstToSol(rt, 1_234)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_234), v)

	v, err = c.InvokeSolToLst(rt, 99)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), v)
}

func TestInvokeFaultyCalculator(t *testing.T) {
	rt := NewMemRuntime()
	c := wsolCpi()

	rt.Register(consts.WsolCalculatorProgram, stubProcessor{out: nil})
	_, err := c.InvokeLstToSol(rt, 1)
	assert.ErrorIs(t, err, types.ErrFaultySolValueCalculator)

	rt.Register(consts.WsolCalculatorProgram, stubProcessor{out: []byte{1, 2, 3}})
	_, err = c.InvokeLstToSol(rt, 1)
	assert.ErrorIs(t, err, types.ErrFaultySolValueCalculator)

	_, err = c.InvokeLstToSol(foreignRuntime{from: consts.SplCalculatorProgram}, 1)
	assert.ErrorIs(t, err, types.ErrFaultySolValueCalculator)

	v, err := c.InvokeLstToSol(foreignRuntime{from: consts.WsolCalculatorProgram}, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
}

func TestReturnDataClearedBetweenCalls(t *testing.T) {
	rt := NewMemRuntime()
	rt.Register(consts.WsolCalculatorProgram, calculator.WsolProcessor{})
	rt.Register(consts.SplCalculatorProgram, stubProcessor{out: nil})

	_, err := wsolCpi().InvokeLstToSol(rt, 5)
	require.NoError(t, err)

	// 上一次调用残留的 return data 不能被当作本次结果
	silent := &SolValueCalculatorCpi{
		Program: types.AccountInfo{Key: consts.SplCalculatorProgram},
		LstMint: types.AccountInfo{Key: consts.JitoSOLMint},
	}
	_, err = silent.InvokeLstToSol(rt, 5)
	assert.ErrorIs(t, err, types.ErrFaultySolValueCalculator)
}

func TestInvokeMarinadeThroughRuntime(t *testing.T) {
	s := &calculator.MarinadeState{MsolMint: consts.MSOLMint, MsolSupply: 1_000}
	s.ValidatorSystem.TotalActiveBalance = 2_000
	raw, err := borshMarinade(s)
	require.NoError(t, err)
	stateData, err := calculator.SerializeCalculatorState(&calculator.CalculatorState{LastUpgradeSlot: 3})
	require.NoError(t, err)

	cfg := calculator.MarinadeConfig
	suffix := []types.AccountInfo{
		{Key: cfg.CalculatorProgram},
		{Key: cfg.CalculatorState, Data: stateData},
		{Key: consts.MarinadeState, Data: raw},
		{Key: cfg.PoolProgram},
		{Key: cfg.PoolProgramData, Data: calculator.EncodeProgramData(&calculator.ProgramData{Slot: 3})},
	}
	c, err := FromIxAccounts(types.AccountInfo{Key: consts.MSOLMint}, suffix)
	require.NoError(t, err)
	assert.Len(t, c.RemainingAccounts, 4)

	rt := NewMemRuntime()
	rt.RegisterKnownCalculators(func() uint64 { return 0 })
	v, err := c.InvokeLstToSol(rt, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), v)
	v, err = c.InvokeSolToLst(rt, 20)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), v)
}

func TestVerifyCorrectSolValueCalculatorProgram(t *testing.T) {
	data, err := registry.AppendLst(nil, registry.LstState{Mint: consts.WSOLMint, SolValueCalculator: consts.WsolCalculatorProgram})
	require.NoError(t, err)

	c := wsolCpi()
	require.NoError(t, c.VerifyCorrectSolValueCalculatorProgram(data, 0))
	assert.ErrorIs(t, c.VerifyCorrectSolValueCalculatorProgram(data, 1), types.ErrInvalidLstIndex)

	c.Program.Key = consts.SplCalculatorProgram
	assert.ErrorIs(t, c.VerifyCorrectSolValueCalculatorProgram(data, 0), types.ErrIncorrectSolValueCalculator)
}

func TestFromIxAccountsAndSplit(t *testing.T) {
	_, err := FromIxAccounts(types.AccountInfo{}, nil)
	assert.ErrorIs(t, err, types.ErrNotEnoughAccountKeys)

	suffix := []types.AccountInfo{
		{Key: consts.WsolCalculatorProgram},
		{Key: consts.SplCalculatorProgram},
		{Key: consts.JitoSOLMint},
	}
	pair, err := NewSrcDstCpis(types.AccountInfo{Key: consts.WSOLMint}, types.AccountInfo{Key: consts.JitoSOLMint}, suffix, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, consts.WsolCalculatorProgram, pair.Src.Program.Key)
	assert.Empty(t, pair.Src.RemainingAccounts)
	assert.Equal(t, consts.SplCalculatorProgram, pair.Dst.Program.Key)
	assert.Len(t, pair.Dst.RemainingAccounts, 1)

	_, err = NewSrcDstCpis(types.AccountInfo{}, types.AccountInfo{}, suffix, 2, 2)
	assert.ErrorIs(t, err, types.ErrNotEnoughAccountKeys)
}

func TestMemRuntimeUnknownProgram(t *testing.T) {
	rt := NewMemRuntime()
	_, err := wsolCpi().InvokeLstToSol(rt, 1)
	assert.ErrorIs(t, err, types.ErrWrongAccount)
	_, _, ok := rt.GetReturnData()
	assert.False(t, ok)
}
