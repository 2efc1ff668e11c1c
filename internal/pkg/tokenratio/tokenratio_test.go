package tokenratio

import (
	"math"
	"math/rand"
	"testing"

	"s-controller-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatioFloorApply(t *testing.T) {
	r := U64RatioFloor{Num: 3, Denom: 2}
	v, err := r.Apply(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)

	v, err = U64RatioFloor{Num: 3, Denom: 0}.Apply(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v, "denom 为 0 时返回 0")

	_, err = U64RatioFloor{Num: math.MaxUint64, Denom: 1}.Apply(2)
	assert.ErrorIs(t, err, types.ErrMathError)
}

func TestRatioFloorReverse(t *testing.T) {
	up := U64RatioFloor{Num: 3, Denom: 2}
	rng, err := up.Reverse(7)
	require.NoError(t, err)
	assert.Equal(t, U64ValueRange{Min: 5, Max: 5}, rng)

	// 8 不可达：比例 > 1 时部分输出值没有原像，区间倒置
	rng, err = up.Reverse(8)
	require.NoError(t, err)
	assert.Greater(t, rng.Min, rng.Max)

	down := U64RatioFloor{Num: 2, Denom: 3}
	rng, err = down.Reverse(2)
	require.NoError(t, err)
	assert.Equal(t, U64ValueRange{Min: 3, Max: 4}, rng)

	rng, err = U64RatioFloor{Num: 0, Denom: 3}.Reverse(0)
	require.NoError(t, err)
	assert.Equal(t, FullRange, rng)

	// 退化比例只能得到 0，非 0 输出没有原像
	_, err = U64RatioFloor{Num: 0, Denom: 5}.Reverse(7)
	assert.ErrorIs(t, err, types.ErrMathError)
	_, err = U64RatioFloor{Num: 5, Denom: 0}.Reverse(1)
	assert.ErrorIs(t, err, types.ErrMathError)
}

func TestFeeFloorApply(t *testing.T) {
	f := U64FeeFloor{FeeNum: 1, FeeDenom: 10}

	res, err := f.Apply(100)
	require.NoError(t, err)
	assert.Equal(t, AmtsAfterFee{AmtAfterFee: 90, FeeCharged: 10}, res)

	res, err = f.Apply(99)
	require.NoError(t, err)
	assert.Equal(t, AmtsAfterFee{AmtAfterFee: 90, FeeCharged: 9}, res)

	_, err = U64FeeFloor{FeeNum: 11, FeeDenom: 10}.Apply(1)
	assert.ErrorIs(t, err, types.ErrMathError)

	res, err = U64FeeFloor{}.Apply(42)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), res.AmtAfterFee)
}

func TestFeeFloorReverse(t *testing.T) {
	f := U64FeeFloor{FeeNum: 1, FeeDenom: 10}
	rng, err := f.ReverseFromAmtAfterFee(90)
	require.NoError(t, err)
	assert.Equal(t, U64ValueRange{Min: 99, Max: 100}, rng)

	rng, err = f.ReverseFromAmtAfterFee(0)
	require.NoError(t, err)
	assert.Equal(t, Single(0), rng)

	full := U64FeeFloor{FeeNum: 10, FeeDenom: 10}
	rng, err = full.ReverseFromAmtAfterFee(0)
	require.NoError(t, err)
	assert.Equal(t, FullRange, rng)

	_, err = full.ReverseFromAmtAfterFee(1)
	assert.ErrorIs(t, err, types.ErrMathError)
}

func TestReverseContainsOriginal(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		amt := rnd.Uint64() >> uint(rnd.Intn(64))
		denom := rnd.Uint64()>>uint(rnd.Intn(64)) | 1
		num := rnd.Uint64() >> uint(rnd.Intn(64))

		ratio := U64RatioFloor{Num: num, Denom: denom}
		out, err := ratio.Apply(amt)
		if err != nil {
			continue
		}
		rng, err := ratio.Reverse(out)
		require.NoError(t, err)
		assert.True(t, rng.Contains(amt), "ratio %d/%d amt %d out %d range %s", num, denom, amt, out, rng)

		fee := U64FeeFloor{FeeNum: num % denom, FeeDenom: denom}
		after, err := fee.Apply(amt)
		require.NoError(t, err)
		rng, err = fee.ReverseFromAmtAfterFee(after.AmtAfterFee)
		require.NoError(t, err)
		assert.True(t, rng.Contains(amt), "fee %d/%d amt %d after %d range %s", fee.FeeNum, denom, amt, after.AmtAfterFee, rng)
	}
}
