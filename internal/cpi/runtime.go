package cpi

import (
	"fmt"
	"sync"

	"s-controller-sol/internal/calculator"
	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/types"

	soltypes "github.com/blocto/solana-go-sdk/types"
)

type returnData struct {
	program types.Pubkey
	data    []byte
}

// MemRuntime 进程内运行时，把 CPI 分发给已注册的计算器 Processor，用于本地模拟与测试
type MemRuntime struct {
	mu         sync.Mutex
	processors map[types.Pubkey]calculator.Processor
	ret        *returnData
}

func NewMemRuntime() *MemRuntime {
	return &MemRuntime{processors: make(map[types.Pubkey]calculator.Processor)}
}

func (r *MemRuntime) Register(program types.Pubkey, p calculator.Processor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processors[program] = p
}

// Invoke 每次调用前清空 return data，被调程序未写入时调用方读不到数据
func (r *MemRuntime) Invoke(ix soltypes.Instruction, accounts []types.AccountInfo) error {
	program := types.PubkeyFromCommon(ix.ProgramID)

	r.mu.Lock()
	r.ret = nil
	p, ok := r.processors[program]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("program %s not registered: %w", program, types.ErrWrongAccount)
	}
	if len(accounts) < len(ix.Accounts) {
		return fmt.Errorf("ix has %d metas, %d accounts given: %w", len(ix.Accounts), len(accounts), types.ErrNotEnoughAccountKeys)
	}
	for i, meta := range ix.Accounts {
		if meta.PubKey != accounts[i].Key.Common() {
			return fmt.Errorf("account %d: meta %s, info %s: %w", i, meta.PubKey.ToBase58(), accounts[i].Key, types.ErrWrongAccount)
		}
	}

	out, err := p.Process(accounts, ix.Data)
	if err != nil {
		return err
	}
	if out != nil {
		r.mu.Lock()
		r.ret = &returnData{program: program, data: out}
		r.mu.Unlock()
	}
	return nil
}

func (r *MemRuntime) GetReturnData() (types.Pubkey, []byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ret == nil {
		return types.Pubkey{}, nil, false
	}
	return r.ret.program, r.ret.data, true
}

// RegisterKnownCalculators 注册 wSOL / Marinade / SPL / Sanctum SPL 计算器
func (r *MemRuntime) RegisterKnownCalculators(currentEpoch func() uint64) {
	r.Register(consts.WsolCalculatorProgram, calculator.WsolProcessor{})
	r.Register(calculator.MarinadeConfig.CalculatorProgram, calculator.NewMarinadeProcessor())
	r.Register(calculator.SplConfig.CalculatorProgram, calculator.NewSplProcessor(calculator.SplConfig, currentEpoch))
	r.Register(calculator.SanctumSplConfig.CalculatorProgram, calculator.NewSplProcessor(calculator.SanctumSplConfig, currentEpoch))
}
