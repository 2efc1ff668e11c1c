package resolver

import (
	"fmt"

	"s-controller-sol/internal/calculator"
	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/types"

	soltypes "github.com/blocto/solana-go-sdk/types"
)

// SolValueCalcAccounts 某个 LST 的计算器账户列表（首个为 lst_mint）。
// poolState 为 backing pool 账户：Marinade 固定为主状态账户，SPL 类为该 LST 的 stake pool。
func SolValueCalcAccounts(calcProgram, lstMint, poolState types.Pubkey) ([]soltypes.AccountMeta, error) {
	if calcProgram == consts.WsolCalculatorProgram {
		return []soltypes.AccountMeta{types.ReadonlyMeta(lstMint)}, nil
	}
	cfg, ok := calculator.ConfigForCalculator(calcProgram)
	if !ok {
		return nil, fmt.Errorf("unknown calculator %s: %w", calcProgram, types.ErrIncorrectSolValueCalculator)
	}
	if calcProgram == consts.MarinadeCalculatorProgram {
		poolState = consts.MarinadeState
	}
	keys := calculator.LstSolCommonIntermediateKeys{LstMint: lstMint, PoolState: poolState}.Resolve(cfg)
	return keys.Metas(), nil
}
