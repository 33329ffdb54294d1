package common

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
)

func TestGasCost(t *testing.T) {
	info := TxInfo{
		Status: "done",
		Tx: &Transaction{
			Transaction: types.NewTx(&types.LegacyTx{
				GasPrice: big.NewInt(2000000000),
				Gas:      100000,
			}),
		},
		Receipt: &types.Receipt{GasUsed: 21000},
	}

	want := big.NewInt(0).Mul(big.NewInt(21000), big.NewInt(2000000000))
	if got := info.GasCost(); got.Cmp(want) != 0 {
		t.Errorf("GasCost() = %s, want %s", got, want)
	}
}
