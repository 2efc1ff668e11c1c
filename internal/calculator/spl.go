package calculator

import (
	"fmt"

	"s-controller-sol/internal/pkg/tokenratio"
	"s-controller-sol/internal/types"
)

// SplStakePoolCalc SPL stake pool 换算：先扣 stake withdrawal fee（以池代币计），再按 total_lamports / pool_token_supply 折算
type SplStakePoolCalc struct {
	LastUpdateEpoch    uint64
	TotalLamports      uint64
	PoolTokenSupply    uint64
	StakeWithdrawalFee tokenratio.U64FeeFloor
	CurrentEpoch       uint64
}

func NewSplStakePoolCalc(pool *SplStakePool, currentEpoch uint64) *SplStakePoolCalc {
	return &SplStakePoolCalc{
		LastUpdateEpoch: pool.LastUpdateEpoch,
		TotalLamports:   pool.TotalLamports,
		PoolTokenSupply: pool.PoolTokenSupply,
		StakeWithdrawalFee: tokenratio.U64FeeFloor{
			FeeNum:   pool.StakeWithdrawalFee.Numerator,
			FeeDenom: pool.StakeWithdrawalFee.Denominator,
		},
		CurrentEpoch: currentEpoch,
	}
}

// VerifyPoolUpdated 本 epoch 尚未 update 的池子汇率不可信
func (c *SplStakePoolCalc) VerifyPoolUpdated() error {
	if c.LastUpdateEpoch != c.CurrentEpoch {
		return fmt.Errorf("last update epoch %d, current %d: %w", c.LastUpdateEpoch, c.CurrentEpoch, types.ErrPoolNotUpdated)
	}
	return nil
}

func (c *SplStakePoolCalc) lamportsPerPoolToken() tokenratio.U64RatioFloor {
	return tokenratio.U64RatioFloor{Num: c.TotalLamports, Denom: c.PoolTokenSupply}
}

func (c *SplStakePoolCalc) CalcLstToSol(poolTokens uint64) (tokenratio.U64ValueRange, error) {
	if err := c.VerifyPoolUpdated(); err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	afterFee, err := c.StakeWithdrawalFee.Apply(poolTokens)
	if err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	lamports, err := c.lamportsPerPoolToken().Apply(afterFee.AmtAfterFee)
	if err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	return tokenratio.Single(lamports), nil
}

func (c *SplStakePoolCalc) CalcSolToLst(lamports uint64) (tokenratio.U64ValueRange, error) {
	if err := c.VerifyPoolUpdated(); err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	afterFee, err := c.lamportsPerPoolToken().Reverse(lamports)
	if err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	if afterFee.Min > afterFee.Max {
		return tokenratio.U64ValueRange{}, fmt.Errorf("lamports %d unreachable: %w", lamports, types.ErrMathError)
	}
	lo, err := c.StakeWithdrawalFee.ReverseFromAmtAfterFee(afterFee.Min)
	if err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	hi, err := c.StakeWithdrawalFee.ReverseFromAmtAfterFee(afterFee.Max)
	if err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	if lo.Min > hi.Max {
		return tokenratio.U64ValueRange{}, fmt.Errorf("empty pool token range [%d, %d]: %w", lo.Min, hi.Max, types.ErrMathError)
	}
	return tokenratio.U64ValueRange{Min: lo.Min, Max: hi.Max}, nil
}
