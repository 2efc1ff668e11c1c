// Package tokenratio 提供 u64 代币数量的比例换算与手续费计算。
// 所有除法向下取整，中间结果使用 128 位整数，溢出一律返回 types.ErrMathError。
package tokenratio

import (
	"fmt"
	"math"

	"s-controller-sol/internal/types"

	"lukechampine.com/uint128"
)

// U64ValueRange 闭区间 [Min, Max]
type U64ValueRange struct {
	Min uint64
	Max uint64
}

var FullRange = U64ValueRange{Min: 0, Max: math.MaxUint64}

func Single(v uint64) U64ValueRange {
	return U64ValueRange{Min: v, Max: v}
}

func (r U64ValueRange) IsSingle() bool {
	return r.Min == r.Max
}

func (r U64ValueRange) Contains(v uint64) bool {
	return r.Min <= v && v <= r.Max
}

func (r U64ValueRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.Min, r.Max)
}

// AmtsAfterFee 扣费前后的数量
type AmtsAfterFee struct {
	AmtAfterFee uint64
	FeeCharged  uint64
}

// U64RatioFloor 表示 amt * Num / Denom（向下取整）
type U64RatioFloor struct {
	Num   uint64
	Denom uint64
}

// Apply 返回 floor(amt * Num / Denom)，Denom 为 0 时返回 0
func (r U64RatioFloor) Apply(amt uint64) (uint64, error) {
	if r.Denom == 0 {
		return 0, nil
	}
	res := uint128.From64(amt).Mul64(r.Num).Div64(r.Denom)
	return toU64(res)
}

// Reverse 返回所有经 Apply 后得到 amtAfterApply 的输入区间。
// Num 或 Denom 为 0 时任意输入都映射为 0：amtAfterApply 为 0 返回 FullRange，否则无原像。
//
//	y = floor(x*n/d)  <=>  y*d <= x*n < (y+1)*d
//	min = ceil(y*d/n), max = floor((y*d + d - 1)/n)
func (r U64RatioFloor) Reverse(amtAfterApply uint64) (U64ValueRange, error) {
	if r.Num == 0 || r.Denom == 0 {
		if amtAfterApply == 0 {
			return FullRange, nil
		}
		return U64ValueRange{}, fmt.Errorf("ratio %d/%d never yields %d: %w", r.Num, r.Denom, amtAfterApply, types.ErrMathError)
	}
	dy := uint128.From64(amtAfterApply).Mul64(r.Denom)
	n := uint128.From64(r.Num)

	minQ, minR := dy.QuoRem(n)
	if !minR.IsZero() {
		minQ = minQ.Add64(1)
	}
	min, err := toU64(minQ)
	if err != nil {
		return U64ValueRange{}, err
	}

	maxNum := dy.Add64(r.Denom - 1)
	max := saturateU64(maxNum.Div(n))
	return U64ValueRange{Min: min, Max: max}, nil
}

// U64FeeFloor 手续费 floor(amt * FeeNum / FeeDenom)，FeeNum 必须 <= FeeDenom
type U64FeeFloor struct {
	FeeNum   uint64
	FeeDenom uint64
}

func (f U64FeeFloor) validate() error {
	if f.FeeDenom != 0 && f.FeeNum > f.FeeDenom {
		return fmt.Errorf("fee %d/%d exceeds 100%%: %w", f.FeeNum, f.FeeDenom, types.ErrMathError)
	}
	return nil
}

func (f U64FeeFloor) isZero() bool {
	return f.FeeNum == 0 || f.FeeDenom == 0
}

// Apply 扣除手续费，返回扣费后数量与手续费
func (f U64FeeFloor) Apply(amt uint64) (AmtsAfterFee, error) {
	if err := f.validate(); err != nil {
		return AmtsAfterFee{}, err
	}
	if f.isZero() {
		return AmtsAfterFee{AmtAfterFee: amt}, nil
	}
	// fee <= amt，因为 FeeNum <= FeeDenom
	fee := uint128.From64(amt).Mul64(f.FeeNum).Div64(f.FeeDenom).Lo
	return AmtsAfterFee{AmtAfterFee: amt - fee, FeeCharged: fee}, nil
}

// ReverseFromAmtAfterFee 返回扣费后得到 amtAfterFee 的所有扣费前数量。
// 向下取整有损，因此结果是区间而不是单点。
//
//	after = amt - floor(amt*n/d) = ceil(amt*(d-n)/d)
//	min = floor((after-1)*d/(d-n)) + 1, max = floor(after*d/(d-n))
func (f U64FeeFloor) ReverseFromAmtAfterFee(amtAfterFee uint64) (U64ValueRange, error) {
	if err := f.validate(); err != nil {
		return U64ValueRange{}, err
	}
	if f.isZero() {
		return Single(amtAfterFee), nil
	}
	keep := f.FeeDenom - f.FeeNum
	if keep == 0 {
		// 100% 手续费：任何输入都得到 0
		if amtAfterFee == 0 {
			return FullRange, nil
		}
		return U64ValueRange{}, fmt.Errorf("nothing left after 100%% fee: %w", types.ErrMathError)
	}
	if amtAfterFee == 0 {
		return Single(0), nil
	}

	max := saturateU64(uint128.From64(amtAfterFee).Mul64(f.FeeDenom).Div64(keep))
	minQ := uint128.From64(amtAfterFee - 1).Mul64(f.FeeDenom).Div64(keep).Add64(1)
	min, err := toU64(minQ)
	if err != nil {
		return U64ValueRange{}, err
	}
	return U64ValueRange{Min: min, Max: max}, nil
}

func toU64(v uint128.Uint128) (uint64, error) {
	if v.Hi != 0 {
		return 0, fmt.Errorf("u128 %s does not fit u64: %w", v.String(), types.ErrMathError)
	}
	return v.Lo, nil
}

func saturateU64(v uint128.Uint128) uint64 {
	if v.Hi != 0 {
		return math.MaxUint64
	}
	return v.Lo
}
