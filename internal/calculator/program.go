package calculator

import (
	"encoding/binary"
	"fmt"

	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/types"

	soltypes "github.com/blocto/solana-go-sdk/types"
)

// 计算器接口指令：1 字节 discriminator + u64 LE 数量
const calcIxDataLen = 9

func EncodeCalcIxData(discm uint8, amount uint64) []byte {
	data := make([]byte, calcIxDataLen)
	data[0] = discm
	binary.LittleEndian.PutUint64(data[1:], amount)
	return data
}

func DecodeCalcIxData(data []byte) (uint8, uint64, error) {
	if len(data) != calcIxDataLen {
		return 0, 0, fmt.Errorf("calculator ix data len %d: %w", len(data), types.ErrInvalidInstructionData)
	}
	discm := data[0]
	if discm != consts.LstToSolIx && discm != consts.SolToLstIx {
		return 0, 0, fmt.Errorf("unknown calculator ix %d: %w", discm, types.ErrInvalidInstructionData)
	}
	return discm, binary.LittleEndian.Uint64(data[1:]), nil
}

func LstToSolIx(program types.Pubkey, metas []soltypes.AccountMeta, lstAmount uint64) soltypes.Instruction {
	return soltypes.Instruction{
		ProgramID: program.Common(),
		Accounts:  metas,
		Data:      EncodeCalcIxData(consts.LstToSolIx, lstAmount),
	}
}

func SolToLstIx(program types.Pubkey, metas []soltypes.AccountMeta, lamports uint64) soltypes.Instruction {
	return soltypes.Instruction{
		ProgramID: program.Common(),
		Accounts:  metas,
		Data:      EncodeCalcIxData(consts.SolToLstIx, lamports),
	}
}

// Processor 计算器程序的指令处理入口，返回值即 return data（u64 LE）
type Processor interface {
	Process(accounts []types.AccountInfo, data []byte) ([]byte, error)
}

// execute LstToSol 返回区间下界，SolToLst 返回区间上界，调用方拿到的都是对池子不利的一侧
func execute(calc SolValueCalculator, data []byte) ([]byte, error) {
	discm, amount, err := DecodeCalcIxData(data)
	if err != nil {
		return nil, err
	}
	var result uint64
	switch discm {
	case consts.LstToSolIx:
		rng, err := calc.CalcLstToSol(amount)
		if err != nil {
			return nil, err
		}
		result = rng.Min
	default:
		rng, err := calc.CalcSolToLst(amount)
		if err != nil {
			return nil, err
		}
		result = rng.Max
	}
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, result)
	return out, nil
}

// WsolProcessor 只需要 lst_mint 一个账户
type WsolProcessor struct{}

func (WsolProcessor) Process(accounts []types.AccountInfo, data []byte) ([]byte, error) {
	if len(accounts) < 1 {
		return nil, types.ErrNotEnoughAccountKeys
	}
	if accounts[0].Key != consts.WSOLMint {
		return nil, fmt.Errorf("lst mint %s is not wsol: %w", accounts[0].Key, types.ErrWrongAccount)
	}
	return execute(WsolCalc{}, data)
}

// InnerCalcBuilder 根据 lst mint 与 backing pool 账户构造具体计算器
type InnerCalcBuilder func(lstMint types.Pubkey, poolState types.AccountInfo) (SolValueCalculator, error)

// GenericProcessor 通用池计算器程序，账户顺序与 LstSolCommonKeys 一致
type GenericProcessor struct {
	Config   PoolCalcConfig
	NewInner InnerCalcBuilder
}

func (p *GenericProcessor) Process(accounts []types.AccountInfo, data []byte) ([]byte, error) {
	if len(accounts) < LstSolCommonKeysLen {
		return nil, fmt.Errorf("%s calculator got %d accounts: %w", p.Config.Name, len(accounts), types.ErrNotEnoughAccountKeys)
	}
	lstMint, state, poolState, poolProgram, poolProgramData := accounts[0], accounts[1], accounts[2], accounts[3], accounts[4]

	if state.Key != p.Config.CalculatorState {
		return nil, fmt.Errorf("calculator state %s, expected %s: %w", state.Key, p.Config.CalculatorState, types.ErrWrongAccount)
	}
	if poolProgramData.Key != p.Config.PoolProgramData {
		return nil, fmt.Errorf("pool programdata %s, expected %s: %w", poolProgramData.Key, p.Config.PoolProgramData, types.ErrWrongAccount)
	}
	calcState, err := ParseCalculatorState(state.Data)
	if err != nil {
		return nil, err
	}
	progData, err := ParseProgramData(poolProgramData.Data)
	if err != nil {
		return nil, err
	}
	inner, err := p.NewInner(lstMint.Key, poolState)
	if err != nil {
		return nil, err
	}
	calc, err := NewGenericPoolCalc(p.Config, poolProgram.Key, calcState, progData, inner)
	if err != nil {
		return nil, err
	}
	return execute(calc, data)
}

func NewMarinadeProcessor() *GenericProcessor {
	return &GenericProcessor{
		Config: MarinadeConfig,
		NewInner: func(lstMint types.Pubkey, poolState types.AccountInfo) (SolValueCalculator, error) {
			if poolState.Key != consts.MarinadeState {
				return nil, fmt.Errorf("marinade state %s: %w", poolState.Key, types.ErrWrongAccount)
			}
			s, err := ParseMarinadeState(poolState.Data)
			if err != nil {
				return nil, err
			}
			if s.MsolMint != lstMint {
				return nil, fmt.Errorf("lst mint %s, marinade mint %s: %w", lstMint, s.MsolMint, types.ErrWrongAccount)
			}
			return NewMarinadeStateCalc(s), nil
		},
	}
}

// NewSplProcessor currentEpoch 由运行时提供（链上即 Clock sysvar）
func NewSplProcessor(cfg PoolCalcConfig, currentEpoch func() uint64) *GenericProcessor {
	return &GenericProcessor{
		Config: cfg,
		NewInner: func(lstMint types.Pubkey, poolState types.AccountInfo) (SolValueCalculator, error) {
			if poolState.Owner != cfg.PoolProgram {
				return nil, fmt.Errorf("stake pool owner %s, expected %s: %w", poolState.Owner, cfg.PoolProgram, types.ErrInvalidPoolAccount)
			}
			pool, err := ParseSplStakePool(poolState.Data)
			if err != nil {
				return nil, err
			}
			if pool.PoolMint != lstMint {
				return nil, fmt.Errorf("lst mint %s, pool mint %s: %w", lstMint, pool.PoolMint, types.ErrWrongAccount)
			}
			return NewSplStakePoolCalc(pool, currentEpoch()), nil
		},
	}
}
