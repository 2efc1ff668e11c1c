// Package calculator 实现 SOL value calculator 接口：LST 数量与 SOL 数量之间的双向换算。
//
// 每个 backing pool（Marinade、SPL stake pool、wSOL）对应一个实现。
// 换算一律向下取整，结果以闭区间表示，反向换算给出所有可能的原像。
package calculator

import "s-controller-sol/internal/pkg/tokenratio"

type SolValueCalculator interface {
	// CalcLstToSol LST 数量 -> 可兑出的 lamports 区间
	CalcLstToSol(lstAmount uint64) (tokenratio.U64ValueRange, error)
	// CalcSolToLst lamports -> 兑出该 lamports 所需的 LST 数量区间
	CalcSolToLst(lamports uint64) (tokenratio.U64ValueRange, error)
}

// WsolCalc wSOL 与 SOL 1:1
type WsolCalc struct{}

func (WsolCalc) CalcLstToSol(lstAmount uint64) (tokenratio.U64ValueRange, error) {
	return tokenratio.Single(lstAmount), nil
}

func (WsolCalc) CalcSolToLst(lamports uint64) (tokenratio.U64ValueRange, error) {
	return tokenratio.Single(lamports), nil
}
