package main

import (
	"context"
	"fmt"

	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/instruction"
	"s-controller-sol/internal/pda"
	"s-controller-sol/internal/resolver"
	"s-controller-sol/internal/svc"
	"s-controller-sol/internal/types"

	"github.com/spf13/cobra"
)

func runPdas(cmd *cobra.Command, _ []string) error {
	programID, err := pubkeyFlag(cmd, "program")
	if err != nil {
		return err
	}
	if programID.IsZero() {
		programID = consts.SControllerProgram
	}
	pdas := pda.FindPdasForProgram(programID)
	rebalanceRecord, _ := pda.FindRebalanceRecordAddress(programID)
	disableAuthList, _ := pda.FindDisablePoolAuthorityListAddress(programID)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "program:                     %s\n", programID)
	fmt.Fprintf(out, "pool_state:                  %s\n", pdas.PoolState)
	fmt.Fprintf(out, "lst_state_list:              %s\n", pdas.LstStateList)
	fmt.Fprintf(out, "protocol_fee:                %s\n", pdas.ProtocolFee)
	fmt.Fprintf(out, "rebalance_record:            %s\n", rebalanceRecord)
	fmt.Fprintf(out, "disable_pool_authority_list: %s\n", disableAuthList)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	sc, err := loadServiceContext(cmd)
	if err != nil {
		return err
	}
	defer sc.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	snap, err := sc.Fetcher.LoadRegistry(ctx, sc.Pdas)
	if err != nil {
		return err
	}
	ps, list, err := snap.Decode()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i := range list {
		lst := &list[i]
		fmt.Fprintf(out, "%3d %-44s calc=%-44s input_disabled=%-5v sol_value=%s\n",
			i, lst.Mint, lst.SolValueCalculator, lst.InputDisabled(), formatSol(lst.SolValue))
	}
	fmt.Fprintf(out, "total_sol_value=%s disabled=%v rebalancing=%v slot=%d\n",
		formatSol(ps.TotalSolValue), ps.Disabled(), ps.Rebalancing(), snap.LstStateList.Slot)
	if sum := sumSolValues(list); !sum.Equals64(ps.TotalSolValue) {
		fmt.Fprintf(out, "warning: entries sum to %s, pool state records %s\n",
			formatSol128(sum), formatSol(ps.TotalSolValue))
	}
	return nil
}

// fetchRegistryAndMint 一次 RPC 取回 pool state / lst state list / mint
func fetchRegistryAndMint(ctx context.Context, sc *svc.ServiceContext, mint types.Pubkey) (poolState, list, mintAcc types.KeyedAccount, err error) {
	accs, err := sc.Fetcher.FetchAccounts(ctx, []types.Pubkey{sc.Pdas.PoolState, sc.Pdas.LstStateList, mint})
	if err != nil {
		return
	}
	return accs[0], accs[1], accs[2], nil
}

func runRemoveLst(cmd *cobra.Command, _ []string) error {
	mint, err := pubkeyFlag(cmd, "mint")
	if err != nil {
		return err
	}
	refundRentTo, err := pubkeyFlag(cmd, "refund-rent-to")
	if err != nil {
		return err
	}
	sc, err := loadServiceContext(cmd)
	if err != nil {
		return err
	}
	defer sc.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	poolState, list, mintAcc, err := fetchRegistryAndMint(ctx, sc, mint)
	if err != nil {
		return err
	}
	args := resolver.RemoveLstByMintFreeArgs{
		RefundRentTo: refundRentTo,
		PoolState:    poolState,
		LstStateList: list,
		LstMint:      mintAcc,
	}
	keys, ixArgs, err := args.ResolveForProgram(sc.ProgramID)
	if err != nil {
		return err
	}

	if err := sc.Fetcher.VerifyRemovable(ctx, keys.PoolReserves, keys.ProtocolFeeAccumulator); err != nil {
		return err
	}

	ix, err := instruction.RemoveLstIxWithProgramID(sc.ProgramID, keys, ixArgs)
	if err != nil {
		return err
	}
	return emit(ctx, cmd, sc, "remove_lst", ix)
}

func runSyncSolValue(cmd *cobra.Command, _ []string) error {
	mint, err := pubkeyFlag(cmd, "mint")
	if err != nil {
		return err
	}
	poolAccount, err := pubkeyFlag(cmd, "pool-account")
	if err != nil {
		return err
	}
	sc, err := loadServiceContext(cmd)
	if err != nil {
		return err
	}
	defer sc.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	_, list, mintAcc, err := fetchRegistryAndMint(ctx, sc, mint)
	if err != nil {
		return err
	}
	args := resolver.SyncSolValueByMintFreeArgs{LstStateList: list, LstMint: mintAcc}
	res, err := args.ResolveForProgram(sc.ProgramID)
	if err != nil {
		return err
	}
	calcAccounts, err := resolver.SolValueCalcAccounts(res.CalcProgramID, mint, poolAccount)
	if err != nil {
		return err
	}
	ix, err := instruction.SyncSolValueIxFull(sc.ProgramID, res.Keys, res.LstIndex, calcAccounts, res.CalcProgramID)
	if err != nil {
		return err
	}
	return emit(ctx, cmd, sc, "sync_sol_value", ix)
}

func runSetSolValueCalculator(cmd *cobra.Command, _ []string) error {
	mint, err := pubkeyFlag(cmd, "mint")
	if err != nil {
		return err
	}
	calcProgram, err := pubkeyFlag(cmd, "calculator")
	if err != nil {
		return err
	}
	poolAccount, err := pubkeyFlag(cmd, "pool-account")
	if err != nil {
		return err
	}
	calcAccounts, err := resolver.SolValueCalcAccounts(calcProgram, mint, poolAccount)
	if err != nil {
		return err
	}

	sc, err := loadServiceContext(cmd)
	if err != nil {
		return err
	}
	defer sc.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	poolState, list, mintAcc, err := fetchRegistryAndMint(ctx, sc, mint)
	if err != nil {
		return err
	}
	args := resolver.SetSolValueCalculatorByMintFreeArgs{PoolState: poolState, LstStateList: list, LstMint: mintAcc}
	ix, err := args.BuildIx(sc.ProgramID, calcAccounts, calcProgram)
	if err != nil {
		return err
	}
	return emit(ctx, cmd, sc, "set_sol_value_calculator", ix)
}

func lstInputRunner(enable bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		mint, err := pubkeyFlag(cmd, "mint")
		if err != nil {
			return err
		}
		sc, err := loadServiceContext(cmd)
		if err != nil {
			return err
		}
		defer sc.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		poolState, list, mintAcc, err := fetchRegistryAndMint(ctx, sc, mint)
		if err != nil {
			return err
		}
		args := resolver.LstInputByMintFreeArgs{PoolState: poolState, LstStateList: list, LstMint: mintAcc}
		keys, ixArgs, err := args.ResolveForProgram(sc.ProgramID)
		if err != nil {
			return err
		}
		if enable {
			ix, err := instruction.EnableLstInputIxWithProgramID(sc.ProgramID, keys, ixArgs)
			if err != nil {
				return err
			}
			return emit(ctx, cmd, sc, "enable_lst_input", ix)
		}
		ix, err := instruction.DisableLstInputIxWithProgramID(sc.ProgramID, keys, ixArgs)
		if err != nil {
			return err
		}
		return emit(ctx, cmd, sc, "disable_lst_input", ix)
	}
}
