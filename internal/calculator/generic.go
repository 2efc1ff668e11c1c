package calculator

import (
	"fmt"

	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/pda"
	"s-controller-sol/internal/pkg/tokenratio"
	"s-controller-sol/internal/types"

	soltypes "github.com/blocto/solana-go-sdk/types"
)

// PoolCalcConfig 通用池计算器程序的静态配置：计算器程序 + 它所服务的 backing pool 程序
type PoolCalcConfig struct {
	Name              string
	CalculatorProgram types.Pubkey
	CalculatorState   types.Pubkey
	PoolProgram       types.Pubkey
	PoolProgramData   types.Pubkey
}

func NewPoolCalcConfig(name string, calculatorProgram, poolProgram types.Pubkey) PoolCalcConfig {
	state, _ := pda.FindCalculatorStateAddress(calculatorProgram)
	progData, _ := pda.FindProgramDataAddress(poolProgram)
	return PoolCalcConfig{
		Name:              name,
		CalculatorProgram: calculatorProgram,
		CalculatorState:   state,
		PoolProgram:       poolProgram,
		PoolProgramData:   progData,
	}
}

var (
	MarinadeConfig   = NewPoolCalcConfig(consts.CalcName(consts.CalcMarinade), consts.MarinadeCalculatorProgram, consts.MarinadeProgram)
	SplConfig        = NewPoolCalcConfig(consts.CalcName(consts.CalcSpl), consts.SplCalculatorProgram, consts.SplStakePoolProgram)
	SanctumSplConfig = NewPoolCalcConfig(consts.CalcName(consts.CalcSanctumSpl), consts.SanctumSplCalculatorProgram, consts.SanctumSplStakePoolProgram)
)

// ConfigForCalculator 按计算器程序查找通用配置，wSOL 等非通用计算器返回 false
func ConfigForCalculator(program types.Pubkey) (PoolCalcConfig, bool) {
	switch consts.CalcKindOf(program) {
	case consts.CalcMarinade:
		return MarinadeConfig, true
	case consts.CalcSpl:
		return SplConfig, true
	case consts.CalcSanctumSpl:
		return SanctumSplConfig, true
	default:
		return PoolCalcConfig{}, false
	}
}

// LstSolCommonKeys 通用计算器 LstToSol / SolToLst 指令的账户
type LstSolCommonKeys struct {
	LstMint         types.Pubkey
	State           types.Pubkey
	PoolState       types.Pubkey
	PoolProgram     types.Pubkey
	PoolProgramData types.Pubkey
}

const LstSolCommonKeysLen = 5

func (k LstSolCommonKeys) Metas() []soltypes.AccountMeta {
	return []soltypes.AccountMeta{
		types.ReadonlyMeta(k.LstMint),
		types.ReadonlyMeta(k.State),
		types.ReadonlyMeta(k.PoolState),
		types.ReadonlyMeta(k.PoolProgram),
		types.ReadonlyMeta(k.PoolProgramData),
	}
}

// LstSolCommonIntermediateArgs 需要拉取 pool program 账户以读出 programdata 地址
type LstSolCommonIntermediateArgs struct {
	LstMint     types.Pubkey
	PoolState   types.Pubkey
	PoolProgram types.KeyedAccount
}

func (a LstSolCommonIntermediateArgs) Resolve(cfg PoolCalcConfig) (LstSolCommonKeys, error) {
	if a.PoolProgram.Pubkey != cfg.PoolProgram {
		return LstSolCommonKeys{}, fmt.Errorf("pool program %s, expected %s: %w", a.PoolProgram.Pubkey, cfg.PoolProgram, types.ErrWrongPoolProgram)
	}
	progData, err := ReadProgramDataAddress(a.PoolProgram.Data)
	if err != nil {
		return LstSolCommonKeys{}, err
	}
	return LstSolCommonKeys{
		LstMint:         a.LstMint,
		State:           cfg.CalculatorState,
		PoolState:       a.PoolState,
		PoolProgram:     cfg.PoolProgram,
		PoolProgramData: progData,
	}, nil
}

// LstSolCommonIntermediateKeys 直接使用配置中推导好的 programdata 地址，无需拉取账户
type LstSolCommonIntermediateKeys struct {
	LstMint   types.Pubkey
	PoolState types.Pubkey
}

func (k LstSolCommonIntermediateKeys) Resolve(cfg PoolCalcConfig) LstSolCommonKeys {
	return LstSolCommonKeys{
		LstMint:         k.LstMint,
		State:           cfg.CalculatorState,
		PoolState:       k.PoolState,
		PoolProgram:     cfg.PoolProgram,
		PoolProgramData: cfg.PoolProgramData,
	}
}

// GenericPoolCalc 在内部计算器之上校验 backing pool 程序身份与升级状态
type GenericPoolCalc struct {
	Inner SolValueCalculator
}

// NewGenericPoolCalc pool 程序被升级后（programdata slot 与记录不一致），在管理员确认前拒绝换算
func NewGenericPoolCalc(cfg PoolCalcConfig, poolProgram types.Pubkey, state *CalculatorState, progData *ProgramData, inner SolValueCalculator) (*GenericPoolCalc, error) {
	if poolProgram != cfg.PoolProgram {
		return nil, fmt.Errorf("pool program %s, expected %s: %w", poolProgram, cfg.PoolProgram, types.ErrWrongPoolProgram)
	}
	if progData.Slot != state.LastUpgradeSlot {
		return nil, fmt.Errorf("pool program upgraded at slot %d, recorded %d: %w",
			progData.Slot, state.LastUpgradeSlot, types.ErrPoolProgramUpgraded)
	}
	return &GenericPoolCalc{Inner: inner}, nil
}

func (g *GenericPoolCalc) CalcLstToSol(lstAmount uint64) (tokenratio.U64ValueRange, error) {
	return g.Inner.CalcLstToSol(lstAmount)
}

func (g *GenericPoolCalc) CalcSolToLst(lamports uint64) (tokenratio.U64ValueRange, error) {
	return g.Inner.CalcSolToLst(lamports)
}
