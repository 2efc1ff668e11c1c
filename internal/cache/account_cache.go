package cache

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"s-controller-sol/internal/types"

	"github.com/redis/go-redis/v9"
)

const accountKeyPrefix = "s-controller:account"

// owner(32) + lamports(8) + slot(8) + data
const accountHeaderLen = types.PubkeyLength + 8 + 8

// AccountCache 账户快照的 redis 缓存，供 RPC 读穿透与 watcher 回写
type AccountCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewAccountCache(rdb redis.Cmdable, ttl time.Duration) *AccountCache {
	return &AccountCache{rdb: rdb, ttl: ttl}
}

func accountKey(pk types.Pubkey) string {
	return fmt.Sprintf("%s:%s", accountKeyPrefix, pk)
}

func encodeAccount(acc *types.KeyedAccount) []byte {
	out := make([]byte, accountHeaderLen+len(acc.Data))
	copy(out, acc.Owner[:])
	binary.LittleEndian.PutUint64(out[32:], acc.Lamports)
	binary.LittleEndian.PutUint64(out[40:], acc.Slot)
	copy(out[accountHeaderLen:], acc.Data)
	return out
}

func decodeAccount(pk types.Pubkey, raw []byte) (types.KeyedAccount, error) {
	if len(raw) < accountHeaderLen {
		return types.KeyedAccount{}, fmt.Errorf("cached account %s too short: %d", pk, len(raw))
	}
	acc := types.KeyedAccount{
		Pubkey:   pk,
		Lamports: binary.LittleEndian.Uint64(raw[32:]),
		Slot:     binary.LittleEndian.Uint64(raw[40:]),
		Data:     append([]byte(nil), raw[accountHeaderLen:]...),
	}
	copy(acc.Owner[:], raw[:32])
	return acc, nil
}

// Get 未命中的 key 不出现在结果中
func (c *AccountCache) Get(ctx context.Context, keys []types.Pubkey) (map[types.Pubkey]types.KeyedAccount, error) {
	if len(keys) == 0 {
		return map[types.Pubkey]types.KeyedAccount{}, nil
	}
	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		redisKeys[i] = accountKey(k)
	}
	vals, err := c.rdb.MGet(ctx, redisKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget error: %w", err)
	}

	out := make(map[types.Pubkey]types.KeyedAccount, len(keys))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		acc, err := decodeAccount(keys[i], []byte(s))
		if err != nil {
			// 损坏的条目当作未命中
			continue
		}
		out[keys[i]] = acc
	}
	return out, nil
}

// Set 较旧 slot 的快照也会覆盖，写入方负责顺序
func (c *AccountCache) Set(ctx context.Context, accounts ...types.KeyedAccount) error {
	if len(accounts) == 0 {
		return nil
	}
	_, err := c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i := range accounts {
			pipe.Set(ctx, accountKey(accounts[i].Pubkey), encodeAccount(&accounts[i]), c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis pipeline set error: %w", err)
	}
	return nil
}

func (c *AccountCache) Invalidate(ctx context.Context, keys ...types.Pubkey) error {
	if len(keys) == 0 {
		return nil
	}
	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		redisKeys[i] = accountKey(k)
	}
	return c.rdb.Del(ctx, redisKeys...).Err()
}
