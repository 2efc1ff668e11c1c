package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "controller",
		Short:        "S controller LST pool admin tooling",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringP("config", "f", "etc/controller.yaml", "config file path")
	root.PersistentFlags().Bool("publish", false, "publish built instructions to kafka instead of printing them")

	pdasCmd := &cobra.Command{
		Use:   "pdas",
		Short: "Print the controller program's derived addresses",
		RunE:  runPdas,
	}
	pdasCmd.Flags().String("program", "", "controller program id (default mainnet deployment)")
	root.AddCommand(pdasCmd)

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the LST state list and pool SOL value",
		RunE:  runList,
	})

	removeCmd := &cobra.Command{
		Use:   "remove-lst",
		Short: "Build a RemoveLst instruction for a mint",
		RunE:  runRemoveLst,
	}
	removeCmd.Flags().String("mint", "", "LST mint")
	removeCmd.Flags().String("refund-rent-to", "", "account receiving the reclaimed rent")
	_ = removeCmd.MarkFlagRequired("mint")
	_ = removeCmd.MarkFlagRequired("refund-rent-to")
	root.AddCommand(removeCmd)

	syncCmd := &cobra.Command{
		Use:   "sync-sol-value",
		Short: "Build a SyncSolValue instruction for a mint",
		RunE:  runSyncSolValue,
	}
	syncCmd.Flags().String("mint", "", "LST mint")
	syncCmd.Flags().String("pool-account", "", "backing stake pool account (spl calculators)")
	_ = syncCmd.MarkFlagRequired("mint")
	root.AddCommand(syncCmd)

	setCalcCmd := &cobra.Command{
		Use:   "set-sol-value-calculator",
		Short: "Build a SetSolValueCalculator instruction for a mint",
		RunE:  runSetSolValueCalculator,
	}
	setCalcCmd.Flags().String("mint", "", "LST mint")
	setCalcCmd.Flags().String("calculator", "", "new SOL value calculator program")
	setCalcCmd.Flags().String("pool-account", "", "backing stake pool account (spl calculators)")
	_ = setCalcCmd.MarkFlagRequired("mint")
	_ = setCalcCmd.MarkFlagRequired("calculator")
	root.AddCommand(setCalcCmd)

	for _, enable := range []bool{false, true} {
		use, short := "disable-lst-input", "Build a DisableLstInput instruction for a mint"
		if enable {
			use, short = "enable-lst-input", "Build an EnableLstInput instruction for a mint"
		}
		c := &cobra.Command{
			Use:   use,
			Short: short,
			RunE:  lstInputRunner(enable),
		}
		c.Flags().String("mint", "", "LST mint")
		_ = c.MarkFlagRequired("mint")
		root.AddCommand(c)
	}

	simCmd := &cobra.Command{
		Use:   "sol-value",
		Short: "Simulate the mint's SOL value calculator locally",
		RunE:  runSolValue,
	}
	simCmd.Flags().String("mint", "", "LST mint")
	simCmd.Flags().String("amount", "1", "LST amount in UI units")
	simCmd.Flags().String("pool-account", "", "backing stake pool account (spl calculators)")
	_ = simCmd.MarkFlagRequired("mint")
	root.AddCommand(simCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
