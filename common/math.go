package common

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

func FloatToInt(amount float64) int64 {
	s := fmt.Sprintf("%.0f", amount)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	} else {
		panic(err)
	}
}

// FloatToBigInt converts a float to a big int with specific decimal
// Example:
// - FloatToBigInt(1, 4) = 10000
// - FloatToBigInt(1.234, 4) = 12340
func FloatToBigInt(amount float64, decimal uint64) *big.Int {
	// 9 is our smallest precision, if amount is < 0.000000001 there will be
	// precision loss, the return value will be less than amount * 10^decimal
	if decimal < 9 {
		return big.NewInt(FloatToInt(amount * math.Pow10(int(decimal))))
	}
	result := big.NewInt(FloatToInt(amount * math.Pow10(9)))
	return result.Mul(result, big.NewInt(0).Exp(big.NewInt(10), big.NewInt(int64(decimal-9)), nil))
}

// BigToFloat converts a big int to float according to its number of decimal digits
// Example:
// - BigToFloat(1100, 3) = 1.1
// - BigToFloat(1100, 2) = 11
// - BigToFloat(1100, 5) = 0.11
func BigToFloat(b *big.Int, decimal uint64) float64 {
	f := new(big.Float).SetInt(b)
	power := new(big.Float).SetInt(new(big.Int).Exp(
		big.NewInt(10), big.NewInt(int64(decimal)), nil,
	))
	res := new(big.Float).Quo(f, power)
	result, _ := res.Float64()
	return result
}

// GweiToWei converts Gwei as a float to Wei as a big int
func GweiToWei(n float64) *big.Int {
	return FloatToBigInt(n, 9)
}

// BigToBoundedInt64 converts b to an int64, refusing values outside the
// int32 range. Foreign contract data can carry arbitrarily large uint256
// fields and those must never be silently wrapped into a small int.
func BigToBoundedInt64(b *big.Int) (int64, error) {
	if b == nil {
		return 0, nil
	}
	if !b.IsInt64() {
		return 0, &NumericOverflowError{Value: b.String()}
	}
	v := b.Int64()
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, &NumericOverflowError{Value: b.String()}
	}
	return v, nil
}
