package resolver

import (
	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/instruction"
	"s-controller-sol/internal/pda"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"

	soltypes "github.com/blocto/solana-go-sdk/types"
)

// RemoveLstFreeArgs 调用前必须确认储备金与协议费账户余额为 0（见 chain.VerifyRemovableBalances）
type RemoveLstFreeArgs struct {
	LstIndex     int
	RefundRentTo types.Pubkey
	PoolState    types.KeyedAccount
	LstStateList types.KeyedAccount
	// LstMint.Owner 即 token program
	LstMint types.KeyedAccount
}

func (a *RemoveLstFreeArgs) Resolve() (instruction.RemoveLstKeys, error) {
	return a.ResolveForProgram(consts.SControllerProgram)
}

func (a *RemoveLstFreeArgs) ResolveForProgram(programID types.Pubkey) (instruction.RemoveLstKeys, error) {
	pdas := pdasFor(programID)
	if err := verifySingletons(pdas, &a.PoolState, &a.LstStateList); err != nil {
		return instruction.RemoveLstKeys{}, err
	}
	entry, err := matchEntry(&a.LstStateList, a.LstMint.Pubkey, a.LstIndex)
	if err != nil {
		return instruction.RemoveLstKeys{}, err
	}
	return buildRemoveLstKeys(pdas, a.RefundRentTo, &a.PoolState, &a.LstMint, entry)
}

// RemoveLstByMintFreeArgs 在列表中按 mint 查找索引
type RemoveLstByMintFreeArgs struct {
	RefundRentTo types.Pubkey
	PoolState    types.KeyedAccount
	LstStateList types.KeyedAccount
	LstMint      types.KeyedAccount
}

func (a *RemoveLstByMintFreeArgs) Resolve() (instruction.RemoveLstKeys, instruction.RemoveLstIxArgs, error) {
	return a.ResolveForProgram(consts.SControllerProgram)
}

func (a *RemoveLstByMintFreeArgs) ResolveForProgram(programID types.Pubkey) (instruction.RemoveLstKeys, instruction.RemoveLstIxArgs, error) {
	pdas := pdasFor(programID)
	if err := verifySingletons(pdas, &a.PoolState, &a.LstStateList); err != nil {
		return instruction.RemoveLstKeys{}, instruction.RemoveLstIxArgs{}, err
	}
	return a.ResolveWithPdas(pdas)
}

// ResolveUnchecked 使用规范 PDA，不校验传入账户的地址
func (a *RemoveLstByMintFreeArgs) ResolveUnchecked() (instruction.RemoveLstKeys, instruction.RemoveLstIxArgs, error) {
	return a.ResolveWithPdas(pda.CanonicalPdas())
}

// ResolveWithPdas 不校验 pool state / lst state list 的地址，由调用方负责
func (a *RemoveLstByMintFreeArgs) ResolveWithPdas(pdas pda.Pdas) (instruction.RemoveLstKeys, instruction.RemoveLstIxArgs, error) {
	idx, entry, err := findEntry(&a.LstStateList, a.LstMint.Pubkey)
	if err != nil {
		return instruction.RemoveLstKeys{}, instruction.RemoveLstIxArgs{}, err
	}
	keys, err := buildRemoveLstKeys(pdas, a.RefundRentTo, &a.PoolState, &a.LstMint, entry)
	if err != nil {
		return instruction.RemoveLstKeys{}, instruction.RemoveLstIxArgs{}, err
	}
	return keys, instruction.RemoveLstIxArgs{LstIndex: mustU32(idx)}, nil
}

// BuildIx 解析并构造完整指令
func (a *RemoveLstByMintFreeArgs) BuildIx(programID types.Pubkey) (soltypes.Instruction, error) {
	keys, args, err := a.ResolveForProgram(programID)
	if err != nil {
		return soltypes.Instruction{}, err
	}
	return instruction.RemoveLstIxWithProgramID(programID, keys, args)
}

func buildRemoveLstKeys(pdas pda.Pdas, refundRentTo types.Pubkey, poolStateAcc, lstMint *types.KeyedAccount, entry *registry.LstState) (instruction.RemoveLstKeys, error) {
	tokenProgram := lstMint.Owner
	reserves, err := pda.CreatePoolReservesAddressWithPoolStateID(pdas.PoolState, entry, tokenProgram)
	if err != nil {
		return instruction.RemoveLstKeys{}, err
	}
	accum, err := pda.CreateProtocolFeeAccumulatorAddressWithProtocolFeeID(pdas.ProtocolFee, entry, tokenProgram)
	if err != nil {
		return instruction.RemoveLstKeys{}, err
	}
	poolState, err := registry.TryPoolState(poolStateAcc.Data)
	if err != nil {
		return instruction.RemoveLstKeys{}, err
	}
	return instruction.RemoveLstKeys{
		Admin:                      poolState.Admin,
		RefundRentTo:               refundRentTo,
		LstMint:                    lstMint.Pubkey,
		PoolReserves:               reserves,
		ProtocolFeeAccumulator:     accum,
		ProtocolFeeAccumulatorAuth: pdas.ProtocolFee,
		PoolState:                  pdas.PoolState,
		LstStateList:               pdas.LstStateList,
		LstTokenProgram:            tokenProgram,
	}, nil
}

// pdasFor 规范程序直接使用缓存结果
func pdasFor(programID types.Pubkey) pda.Pdas {
	if programID == consts.SControllerProgram {
		return pda.CanonicalPdas()
	}
	return pda.FindPdasForProgram(programID)
}
