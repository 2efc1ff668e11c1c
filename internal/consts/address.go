package consts

import "s-controller-sol/internal/types"

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	//  Programs
	SystemProgramStr           = "11111111111111111111111111111111"
	TokenProgramStr            = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	TokenProgram2022Str        = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"
	AssociatedTokenProgramStr  = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	BpfLoaderUpgradeableStr    = "BPFLoaderUpgradeab1e11111111111111111111111"
	SysvarInstructionsStr      = "Sysvar1nstructions1111111111111111111111111"
	SysvarClockStr             = "SysvarC1ock11111111111111111111111111111111"
	ComputeBudgetProgramIdStr  = "ComputeBudget111111111111111111111111111111"
	SControllerProgramStr      = "5ocnV1qiCgaQR8Jb8xWnVbApfaygJ8tNoZfgPwsgx9kx"
	FlatFeePricingProgramStr   = "f1tUoNEKrDp1oeGn4zxr7bh41eN6VcfHjfrL3ZqQday"
	WsolCalculatorProgramStr   = "wsoGmxQLSvwWpuaidCApxN5kEowLe2HLQLJhCQnj4bE"
	MarinadeCalculatorStr      = "mare3SCyfZkAndpBRBeonETmkCCB3TJTTrz8ZN2dnhP"
	SplCalculatorProgramStr    = "sp1V4h2gWorkGhVcazBc22Hfo2f5sd7jcjT4EDPrWFF"
	SanctumSplCalculatorStr    = "sspUE1vrh7xRoXxGsg7vR1zde2WdGtJRbyK9uRumBDy"
	MarinadeProgramStr         = "MarBmsSgKXdrN1egZf5sqe1TMai9K1rChYNDJgjq7aD"
	MarinadeStateStr           = "8szGkuLTAux9XMgZ2vtY39jVSowEcpBfFfD8hXSEqdGC"
	SplStakePoolProgramStr     = "SPoo1Ku8WFXoNDMHPsrGSTSG1Y47rzgn41SLUNakuHy"
	SanctumSplStakePoolProgStr = "SP12tWFxD9oJsVWNavTTBZvMbA6gkAmxtVgxdqvyvhY"

	// LST mints
	WSOLMintStr    = "So11111111111111111111111111111111111111112"
	MSOLMintStr    = "mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So"
	JitoSOLMintStr = "J1toso1uCk3RLmjorhTtrVwY9HJ7X8V9yYac6Y7kGCPn"
	JupSOLMintStr  = "jupSoLaHXQiZZTSfEWMTRRgpnyFm8f6sZdosWBjx93v"
	BSOLMintStr    = "bSo13r4TkiE4KumL71LsHTPpL2euBYLFx6h9HP3piy1"
)

var (
	// 特殊语义地址
	NativeSOLMint  = types.Pubkey{} // 原生 SOL（非 SPL）
	InvalidAddress = types.Pubkey{  // 表示无效地址（全 0xFF）
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	}

	// Programs
	SystemProgram          = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram           = types.PubkeyFromBase58(TokenProgramStr)
	TokenProgram2022       = types.PubkeyFromBase58(TokenProgram2022Str)
	AssociatedTokenProgram = types.PubkeyFromBase58(AssociatedTokenProgramStr)
	BpfLoaderUpgradeable   = types.PubkeyFromBase58(BpfLoaderUpgradeableStr)
	SysvarInstructions     = types.PubkeyFromBase58(SysvarInstructionsStr)
	SysvarClock            = types.PubkeyFromBase58(SysvarClockStr)

	// 控制程序与定价程序
	SControllerProgram    = types.PubkeyFromBase58(SControllerProgramStr)
	FlatFeePricingProgram = types.PubkeyFromBase58(FlatFeePricingProgramStr)

	// SOL value calculator programs
	WsolCalculatorProgram       = types.PubkeyFromBase58(WsolCalculatorProgramStr)
	MarinadeCalculatorProgram   = types.PubkeyFromBase58(MarinadeCalculatorStr)
	SplCalculatorProgram        = types.PubkeyFromBase58(SplCalculatorProgramStr)
	SanctumSplCalculatorProgram = types.PubkeyFromBase58(SanctumSplCalculatorStr)

	// Backing pools
	MarinadeProgram            = types.PubkeyFromBase58(MarinadeProgramStr)
	MarinadeState              = types.PubkeyFromBase58(MarinadeStateStr)
	SplStakePoolProgram        = types.PubkeyFromBase58(SplStakePoolProgramStr)
	SanctumSplStakePoolProgram = types.PubkeyFromBase58(SanctumSplStakePoolProgStr)

	// LST mints
	WSOLMint    = types.PubkeyFromBase58(WSOLMintStr)
	MSOLMint    = types.PubkeyFromBase58(MSOLMintStr)
	JitoSOLMint = types.PubkeyFromBase58(JitoSOLMintStr)
	JupSOLMint  = types.PubkeyFromBase58(JupSOLMintStr)
	BSOLMint    = types.PubkeyFromBase58(BSOLMintStr)
)
