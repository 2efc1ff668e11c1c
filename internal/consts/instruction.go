package consts

// 控制程序指令 discriminator（单字节）
const (
	SyncSolValueIx uint8 = iota
	SwapExactInIx
	SwapExactOutIx
	AddLiquidityIx
	RemoveLiquidityIx
	DisableLstInputIx
	EnableLstInputIx
	AddLstIx
	RemoveLstIx
	SetSolValueCalculatorIx
	SetAdminIx
	SetProtocolFeeIx
	SetProtocolFeeBeneficiaryIx
	SetPricingProgramIx
	WithdrawProtocolFeesIx
	AddDisablePoolAuthorityIx
	RemoveDisablePoolAuthorityIx
	DisablePoolIx
	EnablePoolIx
	StartRebalanceIx
	EndRebalanceIx
	SetRebalanceAuthorityIx
	InitializeIx
)

var ixNames = []string{
	"SyncSolValue",
	"SwapExactIn",
	"SwapExactOut",
	"AddLiquidity",
	"RemoveLiquidity",
	"DisableLstInput",
	"EnableLstInput",
	"AddLst",
	"RemoveLst",
	"SetSolValueCalculator",
	"SetAdmin",
	"SetProtocolFee",
	"SetProtocolFeeBeneficiary",
	"SetPricingProgram",
	"WithdrawProtocolFees",
	"AddDisablePoolAuthority",
	"RemoveDisablePoolAuthority",
	"DisablePool",
	"EnablePool",
	"StartRebalance",
	"EndRebalance",
	"SetRebalanceAuthority",
	"Initialize",
}

func IxName(discm uint8) string {
	if int(discm) < len(ixNames) {
		return ixNames[discm]
	}
	return "Unknown"
}

// SOL value calculator 接口指令 discriminator
const (
	LstToSolIx uint8 = 0
	SolToLstIx uint8 = 1
)
