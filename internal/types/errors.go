package types

import "fmt"

// ControllerError 带编号的错误码，链上以 custom error code 形式出现在交易日志里
type ControllerError struct {
	Code uint32
	Name string
}

func (e *ControllerError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Name, e.Code)
}

func newErr(code uint32, name string) *ControllerError {
	return &ControllerError{Code: code, Name: name}
}

// 控制程序错误
var (
	ErrInvalidPoolStateData          = newErr(0, "InvalidPoolStateData")
	ErrInvalidLstStateListData       = newErr(1, "InvalidLstStateListData")
	ErrIncorrectPoolState            = newErr(2, "IncorrectPoolState")
	ErrIncorrectLstStateList         = newErr(3, "IncorrectLstStateList")
	ErrInvalidLstIndex               = newErr(4, "InvalidLstIndex")
	ErrLstNotFound                   = newErr(5, "LstNotFound")
	ErrMathError                     = newErr(6, "MathError")
	ErrFaultySolValueCalculator      = newErr(7, "FaultySolValueCalculator")
	ErrIncorrectSolValueCalculator   = newErr(8, "IncorrectSolValueCalculator")
	ErrInvalidReserves               = newErr(9, "InvalidReserves")
	ErrIncorrectProtocolFeeAccum     = newErr(10, "IncorrectProtocolFeeAccumulator")
	ErrDuplicateLst                  = newErr(11, "DuplicateLst")
	ErrWrongAccount                  = newErr(12, "WrongAccount")
	ErrNotEnoughAccountKeys          = newErr(13, "NotEnoughAccountKeys")
	ErrInvalidAccountData            = newErr(14, "InvalidAccountData")
	ErrIncorrectRebalanceRecord      = newErr(15, "IncorrectRebalanceRecord")
	ErrNonEmptyReserves              = newErr(16, "NonEmptyReserves")
	ErrInvalidInstructionData        = newErr(17, "InvalidInstructionData")
)

// 计算器程序错误（各 backing pool 独立编号段）
var (
	ErrMarinadePaused      = newErr(100, "MarinadePaused")
	ErrPoolNotUpdated      = newErr(101, "PoolNotUpdated")
	ErrWrongPoolProgram    = newErr(102, "WrongPoolProgram")
	ErrPoolProgramUpgraded = newErr(103, "PoolProgramUpgraded")
	ErrInvalidPoolAccount  = newErr(104, "InvalidPoolAccount")
)
