package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"s-controller-sol/internal/config"
	"s-controller-sol/internal/mq"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/svc"
	"s-controller-sol/internal/types"

	soltypes "github.com/blocto/solana-go-sdk/types"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"lukechampine.com/uint128"
)

const (
	commandTimeout = 30 * time.Second
	solDecimals    = 9
)

func loadServiceContext(cmd *cobra.Command) (*svc.ServiceContext, error) {
	path, _ := cmd.Flags().GetString("config")
	var c config.ControllerConfig
	if err := config.Load(path, &c); err != nil {
		return nil, err
	}
	// 只打印时不连 kafka
	if publish, _ := cmd.Flags().GetBool("publish"); !publish {
		c.KafkaProducerConf.Brokers = ""
	}
	return svc.NewServiceContext(c)
}

func pubkeyFlag(cmd *cobra.Command, name string) (types.Pubkey, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return types.Pubkey{}, nil
	}
	pk, err := types.TryPubkeyFromBase58(s)
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("--%s: %w", name, err)
	}
	return pk, nil
}

// emit 默认打印指令，--publish 时投递到 kafka
func emit(ctx context.Context, cmd *cobra.Command, sc *svc.ServiceContext, name string, ix soltypes.Instruction) error {
	job := mq.NewInstructionJob(name, ix)
	publish, _ := cmd.Flags().GetBool("publish")
	if publish {
		if sc.Publisher == nil {
			return errors.New("kafka_producer.brokers not configured")
		}
		return sc.Publisher.Publish(ctx, job)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "instruction: %s\nprogram:     %s\naccounts:\n", job.Name, job.ProgramID)
	for i, acc := range job.Accounts {
		fmt.Fprintf(out, "  %2d %-44s signer=%-5v writable=%v\n", i, acc.Pubkey, acc.IsSigner, acc.IsWritable)
	}
	fmt.Fprintf(out, "data:        %s\n", job.DataBase58)
	return nil
}

func lamportsToSol(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -solDecimals)
}

func formatSol(lamports uint64) string {
	return lamportsToSol(lamports).StringFixed(solDecimals)
}

func formatSol128(lamports uint128.Uint128) string {
	return decimal.NewFromBigInt(lamports.Big(), -solDecimals).StringFixed(solDecimals)
}

// sumSolValues 128 位累加，条目之和可能超过 u64
func sumSolValues(list []registry.LstState) uint128.Uint128 {
	var sum uint128.Uint128
	for i := range list {
		sum = sum.Add64(list[i].SolValue)
	}
	return sum
}

// uiAmountToAtomics "1.5" + 9 位精度 -> 1_500_000_000，超出精度的小数位拒绝
func uiAmountToAtomics(s string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative amount %q", s)
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has more than %d decimals", s, decimals)
	}
	bi := scaled.BigInt()
	if !bi.IsUint64() {
		return 0, fmt.Errorf("amount %q overflows u64: %w", s, types.ErrMathError)
	}
	return bi.Uint64(), nil
}
