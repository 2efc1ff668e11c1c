package cache

import (
	"sync"

	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"
)

// RegistryCache 保存最近一次观察到的 pool state 与 LST 列表，按 slot 单调推进
type RegistryCache struct {
	mu            sync.RWMutex
	poolState     *registry.PoolState
	poolStateSlot uint64
	lstList       []registry.LstState
	lstListSlot   uint64
	listSeen      bool
}

func NewRegistryCache() *RegistryCache {
	return &RegistryCache{}
}

// UpdatePoolState 旧 slot 的更新直接丢弃，返回是否生效
func (c *RegistryCache) UpdatePoolState(slot uint64, ps *registry.PoolState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.poolState != nil && slot < c.poolStateSlot {
		return false
	}
	cp := *ps
	c.poolState = &cp
	c.poolStateSlot = slot
	return true
}

// UpdateLstList 返回与上一快照的差异；首次写入时全部视为新增
func (c *RegistryCache) UpdateLstList(slot uint64, list []registry.LstState) (registry.ListDiff, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.listSeen && slot < c.lstListSlot {
		return registry.ListDiff{}, false
	}
	cp := make([]registry.LstState, len(list))
	copy(cp, list)

	diff := registry.DiffLstStateLists(c.lstList, cp)
	c.lstList = cp
	c.lstListSlot = slot
	c.listSeen = true
	return diff, true
}

func (c *RegistryCache) PoolState() (registry.PoolState, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.poolState == nil {
		return registry.PoolState{}, 0, false
	}
	return *c.poolState, c.poolStateSlot, true
}

// LstList 返回副本，调用方可随意修改
func (c *RegistryCache) LstList() ([]registry.LstState, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]registry.LstState, len(c.lstList))
	copy(out, c.lstList)
	return out, c.lstListSlot, c.listSeen
}

func (c *RegistryCache) FindLst(mint types.Pubkey) (int, registry.LstState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, entry, err := registry.TryFindLstMintOnList(mint, c.lstList)
	if err != nil {
		return 0, registry.LstState{}, false
	}
	return idx, *entry, true
}
