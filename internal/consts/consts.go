package consts

// 控制程序版本与默认费率
const (
	CurrentProgramVersion uint8 = 1

	DefaultTradingProtocolFeeBps uint16 = 1_000 // 交易手续费的 10%
	DefaultLpProtocolFeeBps      uint16 = 1_000 // LP 提取手续费的 10%

	MaxBps uint16 = 10_000
)

// PDA seeds
const (
	PoolStateSeed                = "state"
	LstStateListSeed             = "lst-state-list"
	ProtocolFeeSeed              = "protocol-fee"
	RebalanceRecordSeed          = "rebalance-record"
	DisablePoolAuthorityListSeed = "disable-pool-authority-list"

	// 计算器程序自身的状态账户
	CalculatorStateSeed = "state"
)

// 账户布局大小（字节）
const (
	PoolStateSize  = 176
	LstStateSize   = 80
	MintDataSize   = 82
	TokenAccountSz = 165
)
