package watcher

import (
	"context"
	"fmt"
	"time"

	"s-controller-sol/internal/cache"
	"s-controller-sol/internal/pda"
	"s-controller-sol/internal/pkg/logger"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

const cacheWriteTimeout = 2 * time.Second

// RegistryHandler 处理 pool state 与 LST 列表的账户更新
type RegistryHandler struct {
	pdas          pda.Pdas
	registryCache *cache.RegistryCache
	accountCache  *cache.AccountCache // 可为 nil
}

func NewRegistryHandler(pdas pda.Pdas, registryCache *cache.RegistryCache, accountCache *cache.AccountCache) *RegistryHandler {
	return &RegistryHandler{
		pdas:          pdas,
		registryCache: registryCache,
		accountCache:  accountCache,
	}
}

// WatchedAccounts 订阅的账户地址
func (h *RegistryHandler) WatchedAccounts() []string {
	return []string{h.pdas.PoolState.String(), h.pdas.LstStateList.String()}
}

func (h *RegistryHandler) HandleAccount(update *pb.SubscribeUpdateAccount) error {
	info := update.GetAccount()
	if info == nil {
		return nil
	}
	key, err := types.PubkeyFromBytes(info.GetPubkey())
	if err != nil {
		return err
	}
	owner, err := types.PubkeyFromBytes(info.GetOwner())
	if err != nil {
		return err
	}
	acc := types.KeyedAccount{
		Pubkey:   key,
		Owner:    owner,
		Lamports: info.GetLamports(),
		Data:     info.GetData(),
		Slot:     update.GetSlot(),
	}

	switch key {
	case h.pdas.PoolState:
		err = h.onPoolState(&acc)
	case h.pdas.LstStateList:
		err = h.onLstStateList(&acc)
	default:
		return fmt.Errorf("unexpected account %s", key)
	}
	if err != nil {
		return err
	}

	if h.accountCache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()
		if err := h.accountCache.Set(ctx, acc); err != nil {
			logger.Warnf("[RegistryHandler] 回写缓存失败: account=%s err=%v", key, err)
		}
	}
	return nil
}

func (h *RegistryHandler) onPoolState(acc *types.KeyedAccount) error {
	ps, err := registry.TryPoolState(acc.Data)
	if err != nil {
		return err
	}
	if !h.registryCache.UpdatePoolState(acc.Slot, ps) {
		logger.Debugf("[RegistryHandler] 丢弃过期 pool state: slot=%d", acc.Slot)
		return nil
	}
	logger.Infof("[RegistryHandler] pool state @%d: total_sol_value=%d disabled=%v rebalancing=%v",
		acc.Slot, ps.TotalSolValue, ps.Disabled(), ps.Rebalancing())
	return nil
}

func (h *RegistryHandler) onLstStateList(acc *types.KeyedAccount) error {
	list, err := registry.TryLstStateList(acc.Data)
	if err != nil {
		return err
	}
	diff, ok := h.registryCache.UpdateLstList(acc.Slot, list)
	if !ok {
		logger.Debugf("[RegistryHandler] 丢弃过期 lst state list: slot=%d", acc.Slot)
		return nil
	}
	if diff.Empty() {
		return nil
	}
	for _, mint := range diff.Added {
		logger.Infof("[RegistryHandler] @%d LST 新增: %s", acc.Slot, mint)
	}
	for _, mint := range diff.Removed {
		logger.Infof("[RegistryHandler] @%d LST 移除: %s", acc.Slot, mint)
	}
	// 按索引构造的指令在此之后全部失效
	for _, s := range diff.Shifted {
		logger.Warnf("[RegistryHandler] @%d LST 索引变化: %s %d -> %d", acc.Slot, s.Mint, s.OldIndex, s.NewIndex)
	}
	for _, mint := range diff.CalculatorChanged {
		logger.Warnf("[RegistryHandler] @%d LST 计算器变更: %s", acc.Slot, mint)
	}
	return nil
}
