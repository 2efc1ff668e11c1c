package registry

import (
	"fmt"

	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/types"

	"github.com/near/borsh-go"
)

// PoolState 控制程序单例账户
type PoolState struct {
	TotalSolValue          uint64
	TradingProtocolFeeBps  uint16
	LpProtocolFeeBps       uint16
	Version                uint8
	IsDisabled             uint8
	IsRebalancing          uint8
	Padding                [1]uint8
	Admin                  types.Pubkey
	RebalanceAuthority     types.Pubkey
	ProtocolFeeBeneficiary types.Pubkey
	PricingProgram         types.Pubkey
	LpTokenMint            types.Pubkey
}

func (p *PoolState) Disabled() bool {
	return p.IsDisabled != 0
}

func (p *PoolState) Rebalancing() bool {
	return p.IsRebalancing != 0
}

// LstState LST 列表中的单个条目
type LstState struct {
	IsInputDisabled            uint8
	PoolReservesBump           uint8
	ProtocolFeeAccumulatorBump uint8
	Padding                    [5]uint8
	SolValue                   uint64
	Mint                       types.Pubkey
	SolValueCalculator         types.Pubkey
}

func (l *LstState) InputDisabled() bool {
	return l.IsInputDisabled != 0
}

// decodeBorsh borsh.Deserialize 遇到畸形数据可能 panic，这里统一转成 error
func decodeBorsh(dst interface{}, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("borsh.Deserialize panic: %v", r)
		}
	}()
	return borsh.Deserialize(dst, data)
}

// TryPoolState 解析 pool state 账户数据
func TryPoolState(data []byte) (*PoolState, error) {
	if len(data) != consts.PoolStateSize {
		return nil, fmt.Errorf("pool state size %d, want %d: %w", len(data), consts.PoolStateSize, types.ErrInvalidPoolStateData)
	}
	var ps PoolState
	if err := decodeBorsh(&ps, data); err != nil {
		return nil, fmt.Errorf("%v: %w", err, types.ErrInvalidPoolStateData)
	}
	return &ps, nil
}

func SerializePoolState(ps *PoolState) ([]byte, error) {
	return borsh.Serialize(*ps)
}

// TryLstStateList 解析 LST 列表账户，数据长度必须是条目大小的整数倍
func TryLstStateList(data []byte) ([]LstState, error) {
	if len(data)%consts.LstStateSize != 0 {
		return nil, fmt.Errorf("lst state list size %d not a multiple of %d: %w",
			len(data), consts.LstStateSize, types.ErrInvalidLstStateListData)
	}
	n := len(data) / consts.LstStateSize
	list := make([]LstState, n)
	for i := 0; i < n; i++ {
		chunk := data[i*consts.LstStateSize : (i+1)*consts.LstStateSize]
		if err := decodeBorsh(&list[i], chunk); err != nil {
			return nil, fmt.Errorf("entry %d: %v: %w", i, err, types.ErrInvalidLstStateListData)
		}
	}
	return list, nil
}

func SerializeLstState(l *LstState) ([]byte, error) {
	return borsh.Serialize(*l)
}

func SerializeLstStateList(list []LstState) ([]byte, error) {
	out := make([]byte, 0, len(list)*consts.LstStateSize)
	for i := range list {
		b, err := SerializeLstState(&list[i])
		if err != nil {
			return nil, fmt.Errorf("serialize entry %d: %w", i, err)
		}
		out = append(out, b...)
	}
	return out, nil
}
