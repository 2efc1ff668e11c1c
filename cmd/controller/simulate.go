package main

import (
	"context"
	"fmt"

	"s-controller-sol/internal/chain"
	"s-controller-sol/internal/cpi"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/resolver"
	"s-controller-sol/internal/types"

	"github.com/spf13/cobra"
)

func toAccountInfo(acc types.KeyedAccount) types.AccountInfo {
	return types.AccountInfo{
		Key:      acc.Pubkey,
		Owner:    acc.Owner,
		Lamports: acc.Lamports,
		Data:     acc.Data,
	}
}

// runSolValue 用链上最新账户在本地执行计算器，得到与 SyncSolValue 相同的结果
func runSolValue(cmd *cobra.Command, _ []string) error {
	mint, err := pubkeyFlag(cmd, "mint")
	if err != nil {
		return err
	}
	poolAccount, err := pubkeyFlag(cmd, "pool-account")
	if err != nil {
		return err
	}
	amountStr, _ := cmd.Flags().GetString("amount")

	sc, err := loadServiceContext(cmd)
	if err != nil {
		return err
	}
	defer sc.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	_, listAcc, mintAcc, err := fetchRegistryAndMint(ctx, sc, mint)
	if err != nil {
		return err
	}
	list, err := registry.TryLstStateList(listAcc.Data)
	if err != nil {
		return err
	}
	index, entry, err := registry.TryFindLstMintOnList(mint, list)
	if err != nil {
		return err
	}
	decimals, err := registry.MintDecimals(mintAcc.Data)
	if err != nil {
		return err
	}
	amount, err := uiAmountToAtomics(amountStr, decimals)
	if err != nil {
		return err
	}

	calcCpi, err := loadCalculatorCpi(ctx, sc.Fetcher, entry.SolValueCalculator, mintAcc, poolAccount)
	if err != nil {
		return err
	}
	if err := calcCpi.VerifyCorrectSolValueCalculatorProgram(listAcc.Data, index); err != nil {
		return err
	}

	clock, err := sc.Fetcher.FetchClock(ctx)
	if err != nil {
		return err
	}
	rt := cpi.NewMemRuntime()
	rt.RegisterKnownCalculators(func() uint64 { return clock.Epoch })

	lamports, err := calcCpi.InvokeLstToSol(rt, amount)
	if err != nil {
		return err
	}
	back, err := calcCpi.InvokeSolToLst(rt, lamports)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "mint=%s index=%d calculator=%s epoch=%d\n", mint, index, entry.SolValueCalculator, clock.Epoch)
	fmt.Fprintf(out, "%s (%d atomics) -> %s SOL\n", amountStr, amount, formatSol(lamports))
	fmt.Fprintf(out, "%s SOL -> %d atomics\n", formatSol(lamports), back)
	fmt.Fprintf(out, "recorded sol_value=%s SOL\n", formatSol(entry.SolValue))
	return nil
}

// loadCalculatorCpi 按指令后缀的形状组装：[calculator program, 其余账户...]
func loadCalculatorCpi(ctx context.Context, fetcher *chain.Fetcher, calcProgram types.Pubkey, mintAcc types.KeyedAccount, poolAccount types.Pubkey) (*cpi.SolValueCalculatorCpi, error) {
	metas, err := resolver.SolValueCalcAccounts(calcProgram, mintAcc.Pubkey, poolAccount)
	if err != nil {
		return nil, err
	}
	// metas[0] 为 lst_mint，已取回
	keys := make([]types.Pubkey, 0, len(metas))
	keys = append(keys, calcProgram)
	for _, meta := range metas[1:] {
		keys = append(keys, types.PubkeyFromCommon(meta.PubKey))
	}
	accs, err := fetcher.FetchAccounts(ctx, keys)
	if err != nil {
		return nil, err
	}
	suffix := make([]types.AccountInfo, 0, len(accs))
	for _, acc := range accs {
		suffix = append(suffix, toAccountInfo(acc))
	}
	return cpi.FromIxAccounts(toAccountInfo(mintAcc), suffix)
}
