// Package pda 负责所有程序派生地址（PDA）的计算。
// 所有函数均为纯函数：相同输入必然得到相同地址，链上程序会用同样的 seeds 重新推导并比对。
package pda

import (
	"fmt"

	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/types"

	"github.com/blocto/solana-go-sdk/common"
)

// Pdas 控制程序的单例账户地址集合
type Pdas struct {
	PoolState    types.Pubkey
	LstStateList types.Pubkey
	ProtocolFee  types.Pubkey
}

var canonical = FindPdasForProgram(consts.SControllerProgram)

// CanonicalPdas 返回主网控制程序对应的单例地址
func CanonicalPdas() Pdas {
	return canonical
}

func FindPdasForProgram(programID types.Pubkey) Pdas {
	poolState, _ := FindPoolStateAddress(programID)
	lstStateList, _ := FindLstStateListAddress(programID)
	protocolFee, _ := FindProtocolFeeAddress(programID)
	return Pdas{
		PoolState:    poolState,
		LstStateList: lstStateList,
		ProtocolFee:  protocolFee,
	}
}

// mustFind bump 搜索耗尽只可能出现在被篡改的输入上，直接 panic
func mustFind(programID types.Pubkey, seeds ...[]byte) (types.Pubkey, uint8) {
	addr, bump, err := common.FindProgramAddress(seeds, programID.Common())
	if err != nil {
		panic(fmt.Sprintf("failed to find program address, program=%s seeds=%q: %v", programID, seeds, err))
	}
	return types.PubkeyFromCommon(addr), bump
}

func create(programID types.Pubkey, seeds ...[]byte) (types.Pubkey, error) {
	addr, err := common.CreateProgramAddress(seeds, programID.Common())
	if err != nil {
		return types.Pubkey{}, err
	}
	return types.PubkeyFromCommon(addr), nil
}

func FindPoolStateAddress(programID types.Pubkey) (types.Pubkey, uint8) {
	return mustFind(programID, []byte(consts.PoolStateSeed))
}

func FindLstStateListAddress(programID types.Pubkey) (types.Pubkey, uint8) {
	return mustFind(programID, []byte(consts.LstStateListSeed))
}

func FindProtocolFeeAddress(programID types.Pubkey) (types.Pubkey, uint8) {
	return mustFind(programID, []byte(consts.ProtocolFeeSeed))
}

func FindRebalanceRecordAddress(programID types.Pubkey) (types.Pubkey, uint8) {
	return mustFind(programID, []byte(consts.RebalanceRecordSeed))
}

func FindDisablePoolAuthorityListAddress(programID types.Pubkey) (types.Pubkey, uint8) {
	return mustFind(programID, []byte(consts.DisablePoolAuthorityListSeed))
}

// FindCalculatorStateAddress 计算器程序自身的 state 账户
func FindCalculatorStateAddress(calculatorProgram types.Pubkey) (types.Pubkey, uint8) {
	return mustFind(calculatorProgram, []byte(consts.CalculatorStateSeed))
}

// FindProgramDataAddress 可升级程序的 programdata 账户
func FindProgramDataAddress(program types.Pubkey) (types.Pubkey, uint8) {
	return mustFind(consts.BpfLoaderUpgradeable, program[:])
}

// FindAssociatedTokenAddress ATA: seeds = [owner, token_program, mint]
func FindAssociatedTokenAddress(owner, tokenProgram, mint types.Pubkey) (types.Pubkey, uint8) {
	return mustFind(consts.AssociatedTokenProgram, owner[:], tokenProgram[:], mint[:])
}

// FindPoolReservesAddress 储备金账户即 pool state 持有的 ATA
func FindPoolReservesAddress(poolState, tokenProgram, mint types.Pubkey) (types.Pubkey, uint8) {
	return FindAssociatedTokenAddress(poolState, tokenProgram, mint)
}

// FindProtocolFeeAccumulatorAddress 协议费累积账户即 protocol fee PDA 持有的 ATA
func FindProtocolFeeAccumulatorAddress(protocolFee, tokenProgram, mint types.Pubkey) (types.Pubkey, uint8) {
	return FindAssociatedTokenAddress(protocolFee, tokenProgram, mint)
}

// CreateAssociatedTokenAddress 使用已知 bump 重建 ATA，免去 bump 搜索
func CreateAssociatedTokenAddress(owner, tokenProgram, mint types.Pubkey, bump uint8) (types.Pubkey, error) {
	return create(consts.AssociatedTokenProgram, owner[:], tokenProgram[:], mint[:], []byte{bump})
}
