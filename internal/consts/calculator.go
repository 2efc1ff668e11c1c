package consts

import "s-controller-sol/internal/types"

const (
	CalcWsol       = iota + 1 // 1
	CalcMarinade              // 2
	CalcSpl                   // 3
	CalcSanctumSpl            // 4
)

var CalcNames = []string{
	"Unknown",    // 0 (保留)
	"Wsol",       // 1
	"Marinade",   // 2
	"Spl",        // 3
	"SanctumSpl", // 4
}

func CalcName(kind int) string {
	if kind >= 1 && kind < len(CalcNames) {
		return CalcNames[kind]
	}
	return CalcNames[0] // Unknown
}

// CalcKindOf 根据计算器程序地址判断类型，未知返回 0
func CalcKindOf(program types.Pubkey) int {
	switch program {
	case WsolCalculatorProgram:
		return CalcWsol
	case MarinadeCalculatorProgram:
		return CalcMarinade
	case SplCalculatorProgram:
		return CalcSpl
	case SanctumSplCalculatorProgram:
		return CalcSanctumSpl
	default:
		return 0
	}
}
