// Package chain 通过 RPC 读取账户快照，可选经 redis 读穿透。
package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"s-controller-sol/internal/cache"
	"s-controller-sol/internal/pkg/logger"
	"s-controller-sol/internal/pkg/utils"
	"s-controller-sol/internal/types"

	"github.com/blocto/solana-go-sdk/client"
)

// getMultipleAccounts 单次请求上限
const (
	maxAccountsPerRequest = 100
	maxConcurrentRequests = 4
)

var ErrAccountNotFound = errors.New("account not found")

// AccountRPC *client.Client 的子集
type AccountRPC interface {
	GetMultipleAccounts(ctx context.Context, addrs []string) ([]client.AccountInfo, error)
}

// AccountStore 账户快照缓存，*cache.AccountCache 实现
type AccountStore interface {
	Get(ctx context.Context, keys []types.Pubkey) (map[types.Pubkey]types.KeyedAccount, error)
	Set(ctx context.Context, accounts ...types.KeyedAccount) error
}

type Fetcher struct {
	rpc     AccountRPC
	cache   AccountStore // nil 表示不走缓存
	timeout time.Duration
}

func NewFetcher(endpoint string, timeout time.Duration, accountCache *cache.AccountCache) *Fetcher {
	var store AccountStore
	if accountCache != nil {
		store = accountCache
	}
	return NewFetcherWithRPC(client.NewClient(endpoint), timeout, store)
}

func NewFetcherWithRPC(rpc AccountRPC, timeout time.Duration, store AccountStore) *Fetcher {
	return &Fetcher{rpc: rpc, cache: store, timeout: timeout}
}

// FetchAccounts 结果与 keys 一一对应；任一账户不存在返回 ErrAccountNotFound
func (f *Fetcher) FetchAccounts(ctx context.Context, keys []types.Pubkey) ([]types.KeyedAccount, error) {
	return f.fetch(ctx, keys, true)
}

// FetchAccountsFresh 跳过缓存读取直接走 RPC，结果仍回写缓存。
// 余额类前置检查必须用它，watcher 只刷新两个单例账户。
func (f *Fetcher) FetchAccountsFresh(ctx context.Context, keys []types.Pubkey) ([]types.KeyedAccount, error) {
	return f.fetch(ctx, keys, false)
}

func (f *Fetcher) fetch(ctx context.Context, keys []types.Pubkey, readCache bool) ([]types.KeyedAccount, error) {
	out := make([]types.KeyedAccount, len(keys))
	missing := make([]int, 0, len(keys))

	if readCache && f.cache != nil {
		hits, err := f.cache.Get(ctx, keys)
		if err != nil {
			logger.Warnf("[Fetcher] 读取缓存失败，回退 RPC: %v", err)
			hits = nil
		}
		for i, k := range keys {
			if acc, ok := hits[k]; ok {
				out[i] = acc
				continue
			}
			missing = append(missing, i)
		}
	} else {
		for i := range keys {
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	chunks := make([][]int, 0, (len(missing)+maxAccountsPerRequest-1)/maxAccountsPerRequest)
	for start := 0; start < len(missing); start += maxAccountsPerRequest {
		chunks = append(chunks, missing[start:min(start+maxAccountsPerRequest, len(missing))])
	}

	// 分块并发请求，任一块失败整体失败
	errs := utils.ParallelMap(chunks, maxConcurrentRequests, func(chunk []int) error {
		addrs := make([]string, len(chunk))
		for j, idx := range chunk {
			addrs[j] = keys[idx].String()
		}
		infos, err := f.getMultipleAccounts(ctx, addrs)
		if err != nil {
			return err
		}
		for j, idx := range chunk {
			acc, err := toKeyedAccount(keys[idx], infos[j])
			if err != nil {
				return err
			}
			out[idx] = acc
		}
		return nil
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	fetched := make([]types.KeyedAccount, 0, len(missing))
	for _, idx := range missing {
		fetched = append(fetched, out[idx])
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, fetched...); err != nil {
			logger.Warnf("[Fetcher] 回写缓存失败: %v", err)
		}
	}
	return out, nil
}

func (f *Fetcher) FetchAccount(ctx context.Context, key types.Pubkey) (types.KeyedAccount, error) {
	accs, err := f.FetchAccounts(ctx, []types.Pubkey{key})
	if err != nil {
		return types.KeyedAccount{}, err
	}
	return accs[0], nil
}

func (f *Fetcher) getMultipleAccounts(ctx context.Context, addrs []string) ([]client.AccountInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	infos, err := f.rpc.GetMultipleAccounts(ctx, addrs)
	if err != nil {
		return nil, fmt.Errorf("GetMultipleAccounts failed: %w", err)
	}
	if len(infos) != len(addrs) {
		return nil, fmt.Errorf("返回账户数与请求不一致: got=%d want=%d", len(infos), len(addrs))
	}
	logger.Debugf("[Fetcher] GetMultipleAccounts 成功, 账户数: %d, 耗时: %v", len(addrs), time.Since(start))
	return infos, nil
}

func toKeyedAccount(key types.Pubkey, info client.AccountInfo) (types.KeyedAccount, error) {
	owner := types.PubkeyFromCommon(info.Owner)
	if owner.IsZero() && info.Lamports == 0 && len(info.Data) == 0 {
		return types.KeyedAccount{}, fmt.Errorf("%s: %w", key, ErrAccountNotFound)
	}
	return types.KeyedAccount{
		Pubkey:   key,
		Owner:    owner,
		Lamports: info.Lamports,
		Data:     info.Data,
	}, nil
}
