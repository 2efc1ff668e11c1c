package instruction

import (
	"fmt"

	"s-controller-sol/internal/types"

	"github.com/near/borsh-go"
)

type RemoveLstIxArgs struct {
	LstIndex uint32
}

// LstIndexIxArgs 只带一个索引的指令（SyncSolValue / SetSolValueCalculator / Disable|EnableLstInput）
type LstIndexIxArgs struct {
	LstIndex uint32
}

type SetSolValueCalculatorIxArgs = LstIndexIxArgs

type SwapExactInIxArgs struct {
	SrcLstValueCalcAccs uint8
	DstLstValueCalcAccs uint8
	SrcLstIndex         uint32
	DstLstIndex         uint32
	MinAmountOut        uint64
	Amount              uint64
}

type SwapExactOutIxArgs struct {
	SrcLstValueCalcAccs uint8
	DstLstValueCalcAccs uint8
	SrcLstIndex         uint32
	DstLstIndex         uint32
	MaxAmountIn         uint64
	Amount              uint64
}

type StartRebalanceIxArgs struct {
	SrcLstCalcAccs uint8
	SrcLstIndex    uint32
	DstLstIndex    uint32
	Amount         uint64
}

// encodeIxData discriminator + borsh(args)，args 为 nil 时只有 discriminator
func encodeIxData(discm uint8, args interface{}) ([]byte, error) {
	if args == nil {
		return []byte{discm}, nil
	}
	body, err := borsh.Serialize(args)
	if err != nil {
		return nil, fmt.Errorf("serialize ix %d args: %w", discm, err)
	}
	return append([]byte{discm}, body...), nil
}

// DecodeIxArgs 校验 discriminator 后反序列化参数
func DecodeIxArgs(data []byte, discm uint8, dst interface{}) (err error) {
	if len(data) == 0 || data[0] != discm {
		return fmt.Errorf("expected discriminator %d: %w", discm, types.ErrInvalidInstructionData)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("borsh.Deserialize panic: %v: %w", r, types.ErrInvalidInstructionData)
		}
	}()
	if err := borsh.Deserialize(dst, data[1:]); err != nil {
		return fmt.Errorf("%v: %w", err, types.ErrInvalidInstructionData)
	}
	return nil
}
