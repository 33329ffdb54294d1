package txexec

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/jobverify/jobverify/common"
	"github.com/jobverify/jobverify/config"
	"github.com/jobverify/jobverify/contracts"
	"github.com/jobverify/jobverify/networks"
	"github.com/jobverify/jobverify/ui"
)

type countingCaller struct {
	reads int
}

func (c *countingCaller) GetCode(address string) ([]byte, error) {
	c.reads++
	return []byte{0x60}, nil
}

func (c *countingCaller) ReadContractWithABI(
	result interface{}, caddr string, a *abi.ABI, method string, args ...interface{},
) error {
	c.reads++
	return nil
}

type fakeSigner struct{}

func (fakeSigner) Address() ethcommon.Address {
	return ethcommon.HexToAddress("0x1111111111111111111111111111111111111111")
}

func (fakeSigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return tx, nil
}

// the reader, broadcaster and monitor stay nil in these tests: preflight
// failures must end the call before any of them is touched, and a nil
// dereference panic here would mean they were not.
func newPreflightExecutor(caller *countingCaller) (*Executor, *contracts.Resolver) {
	cfg := config.NewStatic(networks.Hardhat, map[config.ContractName]string{
		config.JobPosting: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
	})
	resolver := contracts.NewResolver(cfg, caller)
	return NewExecutor(resolver, nil, nil, nil, ui.NewRecordingUI()), resolver
}

func TestExecuteWithoutWalletFailsSynchronously(t *testing.T) {
	caller := &countingCaller{}
	executor, resolver := newPreflightExecutor(caller)
	handle, err := resolver.GetReadHandle(config.JobPosting)
	if err != nil {
		t.Fatal(err)
	}

	var gotErr error
	succeeded := false
	executor.Execute(handle, "createJobPosting", nil, Callbacks{
		OnSuccess: func(common.TxInfo) { succeeded = true },
		OnError:   func(err error) { gotErr = err },
	}, "T", "D", [][32]byte{}, big.NewInt(42))

	if succeeded {
		t.Fatal("OnSuccess fired with no wallet connected")
	}
	if !errors.Is(gotErr, common.ErrWalletNotConnected) {
		t.Fatalf("expected ErrWalletNotConnected, got %v", gotErr)
	}
	if caller.reads != 0 {
		t.Errorf("expected no contract interaction, saw %d reads", caller.reads)
	}
}

func TestExecuteOnWrongNetworkNeverSubmits(t *testing.T) {
	caller := &countingCaller{}
	executor, resolver := newPreflightExecutor(caller)
	resolver.AttachWallet(fakeSigner{}, 1)
	handle, err := resolver.GetReadHandle(config.JobPosting)
	if err != nil {
		t.Fatal(err)
	}

	var gotErr error
	callbacks := 0
	executor.Execute(handle, "createJobPosting", nil, Callbacks{
		OnSuccess: func(common.TxInfo) { callbacks++ },
		OnError: func(err error) {
			callbacks++
			gotErr = err
		},
	}, "T", "D", [][32]byte{}, big.NewInt(42))

	if callbacks != 1 {
		t.Fatalf("expected exactly one callback, got %d", callbacks)
	}
	var mismatch *common.NetworkMismatchError
	if !errors.As(gotErr, &mismatch) {
		t.Fatalf("expected a NetworkMismatchError, got %v", gotErr)
	}
	if mismatch.Actual != 1 || mismatch.Expected != 31337 {
		t.Errorf("got mismatch (%d, %d), want (1, 31337)", mismatch.Actual, mismatch.Expected)
	}
	if caller.reads != 0 {
		t.Errorf("expected no contract interaction, saw %d reads", caller.reads)
	}
}

func TestExecuteRejectsUnpackableCall(t *testing.T) {
	caller := &countingCaller{}
	executor, resolver := newPreflightExecutor(caller)
	resolver.AttachWallet(fakeSigner{}, 31337)
	handle, err := resolver.GetReadHandle(config.JobPosting)
	if err != nil {
		t.Fatal(err)
	}

	var gotErr error
	executor.Execute(handle, "noSuchMethod", nil, Callbacks{
		OnError: func(err error) { gotErr = err },
	})
	if gotErr == nil {
		t.Fatal("packing an unknown method should fail")
	}
}
