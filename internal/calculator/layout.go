package calculator

import (
	"encoding/binary"
	"fmt"

	"s-controller-sol/internal/types"

	"github.com/near/borsh-go"
)

// anchor 账户前 8 字节为 discriminator
const anchorDiscmLen = 8

func decodeBorsh(dst interface{}, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("borsh.Deserialize panic: %v", r)
		}
	}()
	return borsh.Deserialize(dst, data)
}

// ------------------------------ Marinade ------------------------------

type MarinadeFee struct {
	BasisPoints uint32
}

type MarinadeFeeCents struct {
	BpCents uint32
}

type MarinadeList struct {
	Account   types.Pubkey
	ItemSize  uint32
	Count     uint32
	Reserved1 types.Pubkey
	Reserved2 uint32
}

type MarinadeStakeSystem struct {
	StakeList                 MarinadeList
	DelayedUnstakeCoolingDown uint64
	StakeDepositBumpSeed      uint8
	StakeWithdrawBumpSeed     uint8
	SlotsForStakeDelta        uint64
	LastStakeDeltaEpoch       uint64
	MinStake                  uint64
	ExtraStakeDeltaRuns       uint32
}

type MarinadeValidatorSystem struct {
	ValidatorList           MarinadeList
	ManagerAuthority        types.Pubkey
	TotalValidatorScore     uint32
	TotalActiveBalance      uint64
	AutoAddValidatorEnabled uint8
}

type MarinadeLiqPool struct {
	LpMint                   types.Pubkey
	LpMintAuthorityBumpSeed  uint8
	SolLegBumpSeed           uint8
	MsolLegAuthorityBumpSeed uint8
	MsolLeg                  types.Pubkey
	LpLiquidityTarget        uint64
	LpMaxFee                 MarinadeFee
	LpMinFee                 MarinadeFee
	TreasuryCut              MarinadeFee
	LpSupply                 uint64
	LentFromSolLeg           uint64
	LiquiditySolCap          uint64
}

// MarinadeState Marinade 主状态账户（去掉 anchor discriminator 后的 borsh 布局）
type MarinadeState struct {
	MsolMint                    types.Pubkey
	AdminAuthority              types.Pubkey
	OperationalSolAccount       types.Pubkey
	TreasuryMsolAccount         types.Pubkey
	ReserveBumpSeed             uint8
	MsolMintAuthorityBumpSeed   uint8
	RentExemptForTokenAcc       uint64
	RewardFee                   MarinadeFee
	StakeSystem                 MarinadeStakeSystem
	ValidatorSystem             MarinadeValidatorSystem
	LiqPool                     MarinadeLiqPool
	AvailableReserveBalance     uint64
	MsolSupply                  uint64
	MsolPrice                   uint64
	CirculatingTicketCount      uint64
	CirculatingTicketBalance    uint64
	LentFromReserve             uint64
	MinDeposit                  uint64
	MinWithdraw                 uint64
	StakingSolCap               uint64
	EmergencyCoolingDown        uint64
	PauseAuthority              types.Pubkey
	Paused                      bool
	DelayedUnstakeFee           MarinadeFeeCents
	WithdrawStakeAccountFee     MarinadeFeeCents
	WithdrawStakeAccountEnabled bool
	LastStakeMoveEpoch          uint64
	StakeMoved                  uint64
	MaxStakeMovedPerEpoch       MarinadeFee
}

func ParseMarinadeState(data []byte) (*MarinadeState, error) {
	if len(data) <= anchorDiscmLen {
		return nil, fmt.Errorf("marinade state too short: %d: %w", len(data), types.ErrInvalidPoolAccount)
	}
	var s MarinadeState
	if err := decodeBorsh(&s, data[anchorDiscmLen:]); err != nil {
		return nil, fmt.Errorf("decode marinade state: %v: %w", err, types.ErrInvalidPoolAccount)
	}
	return &s, nil
}

// ------------------------------ SPL stake pool ------------------------------

const splAccountTypeStakePool uint8 = 1

// SplFee 注意字段顺序：分母在前
type SplFee struct {
	Denominator uint64
	Numerator   uint64
}

type SplLockup struct {
	UnixTimestamp int64
	Epoch         uint64
	Custodian     types.Pubkey
}

// splStakePoolHead 定长前缀，之后是变长的 FutureEpoch / Option 字段
type splStakePoolHead struct {
	AccountType           uint8
	Manager               types.Pubkey
	Staker                types.Pubkey
	StakeDepositAuthority types.Pubkey
	StakeWithdrawBumpSeed uint8
	ValidatorList         types.Pubkey
	ReserveStake          types.Pubkey
	PoolMint              types.Pubkey
	ManagerFeeAccount     types.Pubkey
	TokenProgramID        types.Pubkey
	TotalLamports         uint64
	PoolTokenSupply       uint64
	LastUpdateEpoch       uint64
	Lockup                SplLockup
	EpochFee              SplFee
}

// splStakePoolHeadLen 1 + 32*3 + 1 + 32*5 + 8*3 + (8+8+32) + 16
const splStakePoolHeadLen = 346

// SplStakePool 换算需要的字段
type SplStakePool struct {
	PoolMint                 types.Pubkey
	TokenProgramID           types.Pubkey
	TotalLamports            uint64
	PoolTokenSupply          uint64
	LastUpdateEpoch          uint64
	StakeWithdrawalFee       SplFee
	NextStakeWithdrawalFee   *SplFee
	SolWithdrawalFee         SplFee
	LastEpochPoolTokenSupply uint64
	LastEpochTotalLamports   uint64
}

func ParseSplStakePool(data []byte) (*SplStakePool, error) {
	if len(data) < splStakePoolHeadLen {
		return nil, fmt.Errorf("stake pool too short: %d: %w", len(data), types.ErrInvalidPoolAccount)
	}
	var head splStakePoolHead
	if err := decodeBorsh(&head, data[:splStakePoolHeadLen]); err != nil {
		return nil, fmt.Errorf("decode stake pool: %v: %w", err, types.ErrInvalidPoolAccount)
	}
	if head.AccountType != splAccountTypeStakePool {
		return nil, fmt.Errorf("account type %d is not a stake pool: %w", head.AccountType, types.ErrInvalidPoolAccount)
	}

	r := &layoutReader{buf: data, off: splStakePoolHeadLen}
	r.futureEpochFee() // next_epoch_fee
	r.optionPubkey()   // preferred_deposit_validator_vote_address
	r.optionPubkey()   // preferred_withdraw_validator_vote_address
	r.fee()            // stake_deposit_fee
	stakeWithdrawalFee := r.fee()
	nextStakeWithdrawalFee := r.futureEpochFee()
	r.u8()           // stake_referral_fee
	r.optionPubkey() // sol_deposit_authority
	r.fee()          // sol_deposit_fee
	r.u8()           // sol_referral_fee
	r.optionPubkey() // sol_withdraw_authority
	solWithdrawalFee := r.fee()
	r.futureEpochFee() // next_sol_withdrawal_fee
	lastEpochSupply := r.u64()
	lastEpochLamports := r.u64()
	if r.err != nil {
		return nil, fmt.Errorf("decode stake pool tail: %v: %w", r.err, types.ErrInvalidPoolAccount)
	}

	return &SplStakePool{
		PoolMint:                 head.PoolMint,
		TokenProgramID:           head.TokenProgramID,
		TotalLamports:            head.TotalLamports,
		PoolTokenSupply:          head.PoolTokenSupply,
		LastUpdateEpoch:          head.LastUpdateEpoch,
		StakeWithdrawalFee:       stakeWithdrawalFee,
		NextStakeWithdrawalFee:   nextStakeWithdrawalFee,
		SolWithdrawalFee:         solWithdrawalFee,
		LastEpochPoolTokenSupply: lastEpochSupply,
		LastEpochTotalLamports:   lastEpochLamports,
	}, nil
}

// layoutReader 顺序读取变长字段，首个错误之后的读取全部返回零值
type layoutReader struct {
	buf []byte
	off int
	err error
}

func (r *layoutReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = fmt.Errorf("need %d bytes at offset %d, have %d", n, r.off, len(r.buf))
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *layoutReader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *layoutReader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *layoutReader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *layoutReader) pubkey() types.Pubkey {
	var p types.Pubkey
	if b := r.take(types.PubkeyLength); b != nil {
		copy(p[:], b)
	}
	return p
}

func (r *layoutReader) optionPubkey() *types.Pubkey {
	switch tag := r.u8(); tag {
	case 0:
		return nil
	case 1:
		p := r.pubkey()
		return &p
	default:
		if r.err == nil {
			r.err = fmt.Errorf("invalid option tag %d at offset %d", tag, r.off-1)
		}
		return nil
	}
}

func (r *layoutReader) fee() SplFee {
	return SplFee{Denominator: r.u64(), Numerator: r.u64()}
}

// futureEpochFee FutureEpoch<Fee>: 0=None 1=One 2=Two
func (r *layoutReader) futureEpochFee() *SplFee {
	switch tag := r.u8(); tag {
	case 0:
		return nil
	case 1, 2:
		f := r.fee()
		return &f
	default:
		if r.err == nil {
			r.err = fmt.Errorf("invalid future epoch tag %d at offset %d", tag, r.off-1)
		}
		return nil
	}
}

// ------------------------------ 通用计算器程序 ------------------------------

// CalculatorState 通用计算器程序的 state 账户
type CalculatorState struct {
	Manager         types.Pubkey
	LastUpgradeSlot uint64
}

const calculatorStateLen = 40

func ParseCalculatorState(data []byte) (*CalculatorState, error) {
	if len(data) < calculatorStateLen {
		return nil, fmt.Errorf("calculator state too short: %d: %w", len(data), types.ErrInvalidAccountData)
	}
	var s CalculatorState
	if err := decodeBorsh(&s, data[:calculatorStateLen]); err != nil {
		return nil, fmt.Errorf("decode calculator state: %v: %w", err, types.ErrInvalidAccountData)
	}
	return &s, nil
}

func SerializeCalculatorState(s *CalculatorState) ([]byte, error) {
	return borsh.Serialize(*s)
}

// ------------------------------ upgradeable loader ------------------------------

// UpgradeableLoaderState 的 bincode 标签（u32 LE）
const (
	loaderTagProgram     uint32 = 2
	loaderTagProgramData uint32 = 3
)

// ProgramData programdata 账户头部
type ProgramData struct {
	Slot                    uint64
	UpgradeAuthorityAddress *types.Pubkey
}

// ProgramDataHeaderLen 4 + 8 + 1 + 32，之后才是 ELF
const ProgramDataHeaderLen = 45

func ParseProgramData(data []byte) (*ProgramData, error) {
	r := &layoutReader{buf: data}
	if tag := r.u32(); r.err == nil && tag != loaderTagProgramData {
		return nil, fmt.Errorf("loader state tag %d is not programdata: %w", tag, types.ErrInvalidAccountData)
	}
	pd := &ProgramData{Slot: r.u64()}
	pd.UpgradeAuthorityAddress = r.optionPubkey()
	if r.err != nil {
		return nil, fmt.Errorf("decode programdata: %v: %w", r.err, types.ErrInvalidAccountData)
	}
	return pd, nil
}

// ReadProgramDataAddress 从可升级程序账户中读出 programdata 地址
func ReadProgramDataAddress(programAccountData []byte) (types.Pubkey, error) {
	r := &layoutReader{buf: programAccountData}
	tag := r.u32()
	addr := r.pubkey()
	if r.err != nil {
		return types.Pubkey{}, fmt.Errorf("decode program account: %v: %w", r.err, types.ErrInvalidAccountData)
	}
	if tag != loaderTagProgram {
		return types.Pubkey{}, fmt.Errorf("loader state tag %d is not program: %w", tag, types.ErrInvalidAccountData)
	}
	return addr, nil
}

// EncodeProgramAccount / EncodeProgramData 构造 loader 账户数据，用于本地模拟
func EncodeProgramAccount(programData types.Pubkey) []byte {
	out := make([]byte, 4+types.PubkeyLength)
	binary.LittleEndian.PutUint32(out, loaderTagProgram)
	copy(out[4:], programData[:])
	return out
}

func EncodeProgramData(pd *ProgramData) []byte {
	out := make([]byte, ProgramDataHeaderLen)
	binary.LittleEndian.PutUint32(out, loaderTagProgramData)
	binary.LittleEndian.PutUint64(out[4:], pd.Slot)
	if pd.UpgradeAuthorityAddress != nil {
		out[12] = 1
		copy(out[13:], pd.UpgradeAuthorityAddress[:])
	}
	return out
}
