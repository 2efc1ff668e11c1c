package instruction

import (
	"fmt"

	"s-controller-sol/internal/types"

	soltypes "github.com/blocto/solana-go-sdk/types"
)

// VerifyAccountKeys 按位置比较实际账户与重新推导出的期望账户，返回第一个不一致的位置。
// actual 可以比 expected 长（后缀账户由各指令自行校验）。
func VerifyAccountKeys(actual, expected []soltypes.AccountMeta) error {
	if len(actual) < len(expected) {
		return fmt.Errorf("got %d accounts, need %d: %w", len(actual), len(expected), types.ErrNotEnoughAccountKeys)
	}
	for i, want := range expected {
		got := actual[i]
		if got.PubKey != want.PubKey {
			return fmt.Errorf("account %d: expected %s, got %s: %w", i, want.PubKey.ToBase58(), got.PubKey.ToBase58(), types.ErrWrongAccount)
		}
		if want.IsSigner && !got.IsSigner {
			return fmt.Errorf("account %d (%s) must sign: %w", i, want.PubKey.ToBase58(), types.ErrWrongAccount)
		}
		if want.IsWritable && !got.IsWritable {
			return fmt.Errorf("account %d (%s) must be writable: %w", i, want.PubKey.ToBase58(), types.ErrWrongAccount)
		}
	}
	return nil
}
