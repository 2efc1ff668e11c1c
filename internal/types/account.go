package types

import (
	soltypes "github.com/blocto/solana-go-sdk/types"
)

// KeyedAccount 表示某一时刻的账户快照（地址 + owner + 原始数据）
type KeyedAccount struct {
	Pubkey   Pubkey
	Owner    Pubkey
	Lamports uint64
	Data     []byte
	Slot     uint64 // 快照所在 slot，0 表示未知
}

// AccountInfo 表示指令执行期间可见的账户（链上语义）
type AccountInfo struct {
	Key        Pubkey
	Owner      Pubkey
	IsSigner   bool
	IsWritable bool
	Lamports   uint64
	Data       []byte
}

func (a AccountInfo) Meta() soltypes.AccountMeta {
	return soltypes.AccountMeta{
		PubKey:     a.Key.Common(),
		IsSigner:   a.IsSigner,
		IsWritable: a.IsWritable,
	}
}

func ReadonlyMeta(key Pubkey) soltypes.AccountMeta {
	return soltypes.AccountMeta{PubKey: key.Common()}
}

func WritableMeta(key Pubkey) soltypes.AccountMeta {
	return soltypes.AccountMeta{PubKey: key.Common(), IsWritable: true}
}

func SignerMeta(key Pubkey, writable bool) soltypes.AccountMeta {
	return soltypes.AccountMeta{PubKey: key.Common(), IsSigner: true, IsWritable: writable}
}
