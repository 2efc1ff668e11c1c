package calculator

import (
	"fmt"
	"math/bits"

	"s-controller-sol/internal/pkg/tokenratio"
	"s-controller-sol/internal/types"
)

// MaxBpCents 费率单位：万分之一的百分之一
const MaxBpCents uint32 = 1_000_000

// MarinadeStateCalc Marinade 状态中参与换算的字段
type MarinadeStateCalc struct {
	Paused                    bool
	DelayedUnstakeCoolingDown uint64
	EmergencyCoolingDown      uint64
	TotalActiveBalance        uint64
	AvailableReserveBalance   uint64
	CirculatingTicketBalance  uint64
	MsolSupply                uint64
	DelayedUnstakeFeeBpCents  uint32
}

func NewMarinadeStateCalc(s *MarinadeState) *MarinadeStateCalc {
	return &MarinadeStateCalc{
		Paused:                    s.Paused,
		DelayedUnstakeCoolingDown: s.StakeSystem.DelayedUnstakeCoolingDown,
		EmergencyCoolingDown:      s.EmergencyCoolingDown,
		TotalActiveBalance:        s.ValidatorSystem.TotalActiveBalance,
		AvailableReserveBalance:   s.AvailableReserveBalance,
		CirculatingTicketBalance:  s.CirculatingTicketBalance,
		MsolSupply:                s.MsolSupply,
		DelayedUnstakeFeeBpCents:  s.DelayedUnstakeFee.BpCents,
	}
}

func (c *MarinadeStateCalc) VerifyNotPaused() error {
	if c.Paused {
		return types.ErrMarinadePaused
	}
	return nil
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%d + %d overflows u64: %w", a, b, types.ErrMathError)
	}
	return sum, nil
}

// TotalLamportsUnderControl = active + 两类冷却中 + reserve
func (c *MarinadeStateCalc) TotalLamportsUnderControl() (uint64, error) {
	coolingDown, err := checkedAdd(c.DelayedUnstakeCoolingDown, c.EmergencyCoolingDown)
	if err != nil {
		return 0, err
	}
	total, err := checkedAdd(c.TotalActiveBalance, coolingDown)
	if err != nil {
		return 0, err
	}
	return checkedAdd(total, c.AvailableReserveBalance)
}

// TotalVirtualStakedLamports 扣除已发出的 ticket，不足时取 0
func (c *MarinadeStateCalc) TotalVirtualStakedLamports() (uint64, error) {
	tluc, err := c.TotalLamportsUnderControl()
	if err != nil {
		return 0, err
	}
	if tluc < c.CirculatingTicketBalance {
		return 0, nil
	}
	return tluc - c.CirculatingTicketBalance, nil
}

func (c *MarinadeStateCalc) MsolToSolRatio() (tokenratio.U64RatioFloor, error) {
	virtual, err := c.TotalVirtualStakedLamports()
	if err != nil {
		return tokenratio.U64RatioFloor{}, err
	}
	return tokenratio.U64RatioFloor{Num: virtual, Denom: c.MsolSupply}, nil
}

func (c *MarinadeStateCalc) DelayedUnstakeFee() tokenratio.U64FeeFloor {
	return tokenratio.U64FeeFloor{
		FeeNum:   uint64(c.DelayedUnstakeFeeBpCents),
		FeeDenom: uint64(MaxBpCents),
	}
}

func (c *MarinadeStateCalc) CalcLstToSol(msolAmount uint64) (tokenratio.U64ValueRange, error) {
	if err := c.VerifyNotPaused(); err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	ratio, err := c.MsolToSolRatio()
	if err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	solValue, err := ratio.Apply(msolAmount)
	if err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	afterFee, err := c.DelayedUnstakeFee().Apply(solValue)
	if err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	return tokenratio.Single(afterFee.AmtAfterFee), nil
}

func (c *MarinadeStateCalc) CalcSolToLst(lamports uint64) (tokenratio.U64ValueRange, error) {
	if err := c.VerifyNotPaused(); err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	beforeFee, err := c.DelayedUnstakeFee().ReverseFromAmtAfterFee(lamports)
	if err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	ratio, err := c.MsolToSolRatio()
	if err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	lo, err := ratio.Reverse(beforeFee.Min)
	if err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	hi, err := ratio.Reverse(beforeFee.Max)
	if err != nil {
		return tokenratio.U64ValueRange{}, err
	}
	if lo.Min > hi.Max {
		return tokenratio.U64ValueRange{}, fmt.Errorf("empty msol range [%d, %d]: %w", lo.Min, hi.Max, types.ErrMathError)
	}
	return tokenratio.U64ValueRange{Min: lo.Min, Max: hi.Max}, nil
}
