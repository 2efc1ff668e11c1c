package registry

import "s-controller-sol/internal/types"

// IndexShift 某个 mint 在新旧列表中的位置变化
type IndexShift struct {
	Mint     types.Pubkey
	OldIndex int
	NewIndex int
}

type ListDiff struct {
	Added   []types.Pubkey
	Removed []types.Pubkey
	Shifted []IndexShift
	// 计算器程序被替换的 mint
	CalculatorChanged []types.Pubkey
}

func (d *ListDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Shifted) == 0 && len(d.CalculatorChanged) == 0
}

// DiffLstStateLists 比较两个快照，结果按新列表顺序输出（Removed 按旧列表顺序）
func DiffLstStateLists(oldList, newList []LstState) ListDiff {
	oldIdx := make(map[types.Pubkey]int, len(oldList))
	for i := range oldList {
		oldIdx[oldList[i].Mint] = i
	}
	newIdx := make(map[types.Pubkey]int, len(newList))
	for i := range newList {
		newIdx[newList[i].Mint] = i
	}

	var diff ListDiff
	for i := range newList {
		mint := newList[i].Mint
		oi, ok := oldIdx[mint]
		if !ok {
			diff.Added = append(diff.Added, mint)
			continue
		}
		if oi != i {
			diff.Shifted = append(diff.Shifted, IndexShift{Mint: mint, OldIndex: oi, NewIndex: i})
		}
		if oldList[oi].SolValueCalculator != newList[i].SolValueCalculator {
			diff.CalculatorChanged = append(diff.CalculatorChanged, mint)
		}
	}
	for i := range oldList {
		if _, ok := newIdx[oldList[i].Mint]; !ok {
			diff.Removed = append(diff.Removed, oldList[i].Mint)
		}
	}
	return diff
}
