// Package resolver 把调用方给出的账户快照与 mint 组合成指令所需的有序账户列表与参数。
//
// 每类指令提供两种解析方式：
//   - 按索引（FreeArgs）：调用方给出索引，解析时校验单例账户身份并比对索引处的 mint，与链上处理一致；
//   - 按 mint（ByMint / ByMints）：在列表中线性查找索引，适合客户端。默认的 Resolve / ResolveForProgram
//     同样校验单例账户地址，只有显式调用 ResolveWithPdas / ResolveUnchecked 才跳过校验。
package resolver

import (
	"fmt"

	"s-controller-sol/internal/pda"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"
)

func verifyPoolState(expected types.Pubkey, acc *types.KeyedAccount) error {
	if acc.Pubkey != expected {
		return fmt.Errorf("pool state %s, expected %s: %w", acc.Pubkey, expected, types.ErrIncorrectPoolState)
	}
	return nil
}

func verifyLstStateList(expected types.Pubkey, acc *types.KeyedAccount) error {
	if acc.Pubkey != expected {
		return fmt.Errorf("lst state list %s, expected %s: %w", acc.Pubkey, expected, types.ErrIncorrectLstStateList)
	}
	return nil
}

func verifySingletons(pdas pda.Pdas, poolState, lstStateList *types.KeyedAccount) error {
	if poolState != nil {
		if err := verifyPoolState(pdas.PoolState, poolState); err != nil {
			return err
		}
	}
	if lstStateList != nil {
		if err := verifyLstStateList(pdas.LstStateList, lstStateList); err != nil {
			return err
		}
	}
	return nil
}

// findEntry 按 mint 查找，同时返回 u32 形式的索引
func findEntry(listAcc *types.KeyedAccount, mint types.Pubkey) (int, *registry.LstState, error) {
	list, err := registry.TryLstStateList(listAcc.Data)
	if err != nil {
		return 0, nil, err
	}
	idx, entry, err := registry.TryFindLstMintOnList(mint, list)
	if err != nil {
		return 0, nil, err
	}
	if _, err := registry.IndexToU32(idx); err != nil {
		return 0, nil, err
	}
	return idx, entry, nil
}

// matchEntry 按索引取条目并比对 mint
func matchEntry(listAcc *types.KeyedAccount, mint types.Pubkey, index int) (*registry.LstState, error) {
	list, err := registry.TryLstStateList(listAcc.Data)
	if err != nil {
		return nil, err
	}
	return registry.TryMatchLstMintOnList(mint, list, index)
}

func mustU32(index int) uint32 {
	v, _ := registry.IndexToU32(index)
	return v
}
