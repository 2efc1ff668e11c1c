package main

import (
	"bytes"
	"testing"

	"s-controller-sol/internal/consts"
	"s-controller-sol/internal/pda"
	"s-controller-sol/internal/registry"
	"s-controller-sol/internal/types"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUiAmountToAtomics(t *testing.T) {
	v, err := uiAmountToAtomics("1.5", 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500_000_000), v)

	v, err = uiAmountToAtomics("42", 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	_, err = uiAmountToAtomics("0.0000000001", 9)
	assert.Error(t, err)

	_, err = uiAmountToAtomics("-1", 9)
	assert.Error(t, err)

	_, err = uiAmountToAtomics("abc", 9)
	assert.Error(t, err)

	_, err = uiAmountToAtomics("18446744073709551616", 0)
	assert.ErrorIs(t, err, types.ErrMathError)
}

func TestFormatSol(t *testing.T) {
	assert.Equal(t, "1.000000000", formatSol(1_000_000_000))
	assert.Equal(t, "0.000000001", formatSol(1))
	assert.Equal(t, "18446744073.709551615", formatSol(^uint64(0)))
}

func TestSumSolValuesDoesNotWrap(t *testing.T) {
	list := []registry.LstState{{SolValue: ^uint64(0)}, {SolValue: 2}}
	sum := sumSolValues(list)
	assert.False(t, sum.Equals64(1))
	assert.Equal(t, "18446744073.709551617", formatSol128(sum))

	assert.True(t, sumSolValues([]registry.LstState{{SolValue: 3}, {SolValue: 4}}).Equals64(7))
}

func TestPdasCommand(t *testing.T) {
	cmd := &cobra.Command{Use: "pdas", RunE: runPdas}
	cmd.Flags().String("program", "", "")
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	want := pda.CanonicalPdas()
	assert.Contains(t, buf.String(), consts.SControllerProgramStr)
	assert.Contains(t, buf.String(), want.PoolState.String())
	assert.Contains(t, buf.String(), want.LstStateList.String())

	buf.Reset()
	cmd.SetArgs([]string{"--program", "not-base58-0OIl"})
	assert.Error(t, cmd.Execute())
}
