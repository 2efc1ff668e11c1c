package chain

import (
	"context"
	"fmt"

	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/pda"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"

	"github.com/near/borsh-go"
)

// Clock sysvar
type Clock struct {
	Slot                uint64
	EpochStartTimestamp int64
	Epoch               uint64
	LeaderScheduleEpoch uint64
	UnixTimestamp       int64
}

const clockLen = 40

func ParseClock(data []byte) (*Clock, error) {
	if len(data) < clockLen {
		return nil, fmt.Errorf("clock sysvar too short: %d: %w", len(data), types.ErrInvalidAccountData)
	}
	var c Clock
	if err := borsh.Deserialize(&c, data[:clockLen]); err != nil {
		return nil, fmt.Errorf("decode clock: %v: %w", err, types.ErrInvalidAccountData)
	}
	return &c, nil
}

// FetchClock 不走缓存，clock 每个 slot 都在变
func (f *Fetcher) FetchClock(ctx context.Context) (*Clock, error) {
	infos, err := f.getMultipleAccounts(ctx, []string{consts.SysvarClockStr})
	if err != nil {
		return nil, err
	}
	return ParseClock(infos[0].Data)
}

// RegistrySnapshot 控制程序两个单例账户的同一批次快照
type RegistrySnapshot struct {
	PoolState    types.KeyedAccount
	LstStateList types.KeyedAccount
}

func (s *RegistrySnapshot) Decode() (*registry.PoolState, []registry.LstState, error) {
	ps, err := registry.TryPoolState(s.PoolState.Data)
	if err != nil {
		return nil, nil, err
	}
	list, err := registry.TryLstStateList(s.LstStateList.Data)
	if err != nil {
		return nil, nil, err
	}
	return ps, list, nil
}

func (f *Fetcher) LoadRegistry(ctx context.Context, pdas pda.Pdas) (*RegistrySnapshot, error) {
	accs, err := f.FetchAccounts(ctx, []types.Pubkey{pdas.PoolState, pdas.LstStateList})
	if err != nil {
		return nil, err
	}
	return &RegistrySnapshot{PoolState: accs[0], LstStateList: accs[1]}, nil
}

// VerifyRemovable 读取最新余额后检查，不使用缓存
func (f *Fetcher) VerifyRemovable(ctx context.Context, reserves, protocolFeeAccumulator types.Pubkey) error {
	accs, err := f.FetchAccountsFresh(ctx, []types.Pubkey{reserves, protocolFeeAccumulator})
	if err != nil {
		return err
	}
	return VerifyRemovableBalances(accs[0], accs[1])
}

// VerifyRemovableBalances RemoveLst 的前置条件：储备金与协议费累积账户必须已清空
func VerifyRemovableBalances(reserves, protocolFeeAccumulator types.KeyedAccount) error {
	for _, acc := range []types.KeyedAccount{reserves, protocolFeeAccumulator} {
		amount, err := registry.TokenAccountAmount(acc.Data)
		if err != nil {
			return fmt.Errorf("token account %s: %w", acc.Pubkey, err)
		}
		if amount != 0 {
			return fmt.Errorf("token account %s still holds %d: %w", acc.Pubkey, amount, types.ErrNonEmptyReserves)
		}
	}
	return nil
}
