// Package cpi 对 SOL value calculator 程序发起跨程序调用并读取 return data。
//
// 调用方必须先用 VerifyCorrectSolValueCalculatorProgram 确认被调程序就是列表中记录的计算器，
// CPI 本身不做这项校验。
package cpi

import (
	"encoding/binary"
	"fmt"

	"s-controller-sol/internal/calculator"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"

	soltypes "github.com/blocto/solana-go-sdk/types"
)

// Runtime 链上运行时的最小抽象：同步调用 + return data 通道
type Runtime interface {
	Invoke(ix soltypes.Instruction, accounts []types.AccountInfo) error
	GetReturnData() (programID types.Pubkey, data []byte, ok bool)
}

type SolValueCalculatorCpi struct {
	// 被调用的计算器程序
	Program types.AccountInfo
	// 计算器所服务的 LST mint
	LstMint types.AccountInfo
	// 计算器需要的其余账户（不含 lst_mint）
	RemainingAccounts []types.AccountInfo
}

// FromIxAccounts suffix 为指令账户中的计算器后缀：首个为计算器程序，其后为其余账户
func FromIxAccounts(lstMint types.AccountInfo, suffix []types.AccountInfo) (*SolValueCalculatorCpi, error) {
	if len(suffix) == 0 {
		return nil, fmt.Errorf("empty calculator suffix: %w", types.ErrNotEnoughAccountKeys)
	}
	return &SolValueCalculatorCpi{
		Program:           suffix[0],
		LstMint:           lstMint,
		RemainingAccounts: suffix[1:],
	}, nil
}

// VerifyCorrectSolValueCalculatorProgram 被调程序必须与 index 处记录的计算器一致
func (c *SolValueCalculatorCpi) VerifyCorrectSolValueCalculatorProgram(lstStateListData []byte, index int) error {
	list, err := registry.TryLstStateList(lstStateListData)
	if err != nil {
		return err
	}
	entry, err := registry.TryGetLstStateAt(list, index)
	if err != nil {
		return err
	}
	if c.Program.Key != entry.SolValueCalculator {
		return fmt.Errorf("calculator %s, registry has %s: %w", c.Program.Key, entry.SolValueCalculator, types.ErrIncorrectSolValueCalculator)
	}
	return nil
}

func (c *SolValueCalculatorCpi) InvokeSolToLst(rt Runtime, lamports uint64) (uint64, error) {
	return c.invoke(rt, calculator.SolToLstIx(c.Program.Key, c.accountMetas(), lamports))
}

func (c *SolValueCalculatorCpi) InvokeLstToSol(rt Runtime, lstAmount uint64) (uint64, error) {
	return c.invoke(rt, calculator.LstToSolIx(c.Program.Key, c.accountMetas(), lstAmount))
}

func (c *SolValueCalculatorCpi) invoke(rt Runtime, ix soltypes.Instruction) (uint64, error) {
	if err := rt.Invoke(ix, c.accountInfos()); err != nil {
		return 0, err
	}
	return leU64ReturnData(rt, c.Program.Key)
}

// leU64ReturnData return data 必须来自被调程序且恰好 8 字节
func leU64ReturnData(rt Runtime, program types.Pubkey) (uint64, error) {
	from, data, ok := rt.GetReturnData()
	if !ok {
		return 0, fmt.Errorf("no return data from %s: %w", program, types.ErrFaultySolValueCalculator)
	}
	if from != program {
		return 0, fmt.Errorf("return data from %s, invoked %s: %w", from, program, types.ErrFaultySolValueCalculator)
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("return data len %d from %s: %w", len(data), program, types.ErrFaultySolValueCalculator)
	}
	return binary.LittleEndian.Uint64(data), nil
}

func (c *SolValueCalculatorCpi) accountInfos() []types.AccountInfo {
	out := make([]types.AccountInfo, 0, 1+len(c.RemainingAccounts))
	out = append(out, c.LstMint)
	return append(out, c.RemainingAccounts...)
}

// accountMetas lst_mint 固定只读非签名，其余账户沿用调用方的权限
func (c *SolValueCalculatorCpi) accountMetas() []soltypes.AccountMeta {
	out := make([]soltypes.AccountMeta, 0, 1+len(c.RemainingAccounts))
	out = append(out, types.ReadonlyMeta(c.LstMint.Key))
	for _, acc := range c.RemainingAccounts {
		out = append(out, acc.Meta())
	}
	return out
}

type SrcDstLstSolValueCalculatorCpis struct {
	Src *SolValueCalculatorCpi
	Dst *SolValueCalculatorCpi
}

// NewSrcDstCpis 按指令参数中的账户数切分后缀：先源计算器，后目标计算器
func NewSrcDstCpis(srcMint, dstMint types.AccountInfo, suffix []types.AccountInfo, srcCount, dstCount uint8) (*SrcDstLstSolValueCalculatorCpis, error) {
	need := int(srcCount) + int(dstCount)
	if srcCount == 0 || dstCount == 0 || len(suffix) < need {
		return nil, fmt.Errorf("suffix len %d, src %d dst %d: %w", len(suffix), srcCount, dstCount, types.ErrNotEnoughAccountKeys)
	}
	src, err := FromIxAccounts(srcMint, suffix[:srcCount])
	if err != nil {
		return nil, err
	}
	dst, err := FromIxAccounts(dstMint, suffix[srcCount:need])
	if err != nil {
		return nil, err
	}
	return &SrcDstLstSolValueCalculatorCpis{Src: src, Dst: dst}, nil
}
