// Package txexec turns a contract method call into a mined transaction:
// preflight the wallet and network, pack the calldata, fill nonce and gas,
// sign, broadcast to every node and wait for the receipt. Exactly one of
// the result callbacks fires per Execute call, and the in-flight indicator
// is released no matter how the call ends.
package txexec

import (
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/jobverify/jobverify/broadcaster"
	"github.com/jobverify/jobverify/common"
	"github.com/jobverify/jobverify/contracts"
	"github.com/jobverify/jobverify/monitor"
	"github.com/jobverify/jobverify/reader"
	"github.com/jobverify/jobverify/ui"
)

// extra headroom on top of the node's estimate, same cushion for every
// write since the contracts are small
const GAS_LIMIT_HEADROOM = 50000

// Callbacks receive the terminal outcome of one Execute call. Exactly one
// of them is invoked.
type Callbacks struct {
	OnSuccess func(info common.TxInfo)
	OnError   func(err error)
}

// Executor submits state-changing calls against resolved contract handles.
type Executor struct {
	resolver    *contracts.Resolver
	reader      *reader.EthReader
	broadcaster *broadcaster.Broadcaster
	monitor     *monitor.TxMonitor
	ui          ui.UI
}

func NewExecutor(
	resolver *contracts.Resolver,
	r *reader.EthReader,
	b *broadcaster.Broadcaster,
	m *monitor.TxMonitor,
	u ui.UI,
) *Executor {
	return &Executor{
		resolver:    resolver,
		reader:      r,
		broadcaster: b,
		monitor:     m,
		ui:          u,
	}
}

// Execute runs method(args...) on the contract behind handle as a signed
// transaction and blocks until it is mined, lost or rejected. Preflight
// failures (no wallet, wrong network) are reported through cb.OnError
// before anything touches the chain.
func (e *Executor) Execute(
	handle *contracts.ContractHandle,
	method string,
	value *big.Int,
	cb Callbacks,
	args ...interface{},
) {
	stopSpinner := func() {}
	done := false
	fail := func(err error) {
		stopSpinner()
		if !done {
			done = true
			if cb.OnError != nil {
				cb.OnError(err)
			}
		}
	}

	writeCtx, err := e.resolver.GetWriteContext()
	if err != nil {
		fail(err)
		return
	}
	if err = e.resolver.CheckNetwork(e.resolver.ExpectedChainID()); err != nil {
		fail(err)
		return
	}

	data, err := handle.ABI.Pack(method, args...)
	if err != nil {
		fail(fmt.Errorf("packing %s calldata failed: %w", method, err))
		return
	}

	from := writeCtx.Signer.Address()
	nonce, err := e.reader.GetPendingNonce(from.Hex())
	if err != nil {
		fail(fmt.Errorf("querying nonce for %s failed: %w", from.Hex(), err))
		return
	}

	maxGasPriceGwei, maxTipGwei, err := e.reader.SuggestedGasSettings()
	if err != nil {
		fail(fmt.Errorf("querying gas settings failed: %w", err))
		return
	}

	if value == nil {
		value = big.NewInt(0)
	}
	gasLimit, err := e.reader.EstimateExactGas(
		from.Hex(), handle.Address,
		maxGasPriceGwei, value, data,
	)
	if err != nil {
		fail(fmt.Errorf("estimating gas for %s failed: %w", method, err))
		return
	}

	tx := e.buildTx(
		nonce, ethcommon.HexToAddress(handle.Address), value,
		gasLimit+GAS_LIMIT_HEADROOM,
		maxGasPriceGwei, maxTipGwei,
		data,
	)

	signedTx, err := writeCtx.Signer.SignTx(tx, big.NewInt(writeCtx.ChainID))
	if err != nil {
		fail(fmt.Errorf("signing %s tx failed: %w", method, err))
		return
	}

	hash, broadcasted, err := e.broadcaster.BroadcastTx(signedTx)
	if err != nil && !broadcasted {
		fail(fmt.Errorf("broadcasting tx failed on all nodes: %w", err))
		return
	}

	stopSpinner = e.ui.Spinner(fmt.Sprintf("Waiting for tx %s to be mined", hash))
	info := e.monitor.BlockingWait(hash)
	stopSpinner()

	switch info.Status {
	case "done":
		done = true
		e.ui.Info("Tx %s mined, gas cost %s wei", hash, info.GasCost())
		if cb.OnSuccess != nil {
			cb.OnSuccess(info)
		}
	case "reverted":
		reason := e.revertReason(signedTx, info)
		fail(fmt.Errorf("tx %s reverted: %s", hash, reason))
	case "lost":
		fail(fmt.Errorf("tx %s was not seen by any node, considered lost", hash))
	default:
		fail(fmt.Errorf("tx %s ended in unexpected state %q", hash, info.Status))
	}
}

func (e *Executor) buildTx(
	nonce uint64,
	to ethcommon.Address,
	value *big.Int,
	gasLimit uint64,
	maxGasPriceGwei, maxTipGwei float64,
	data []byte,
) *types.Transaction {
	if maxTipGwei > 0 {
		return types.NewTx(&types.DynamicFeeTx{
			Nonce:     nonce,
			GasFeeCap: common.GweiToWei(maxGasPriceGwei),
			GasTipCap: common.GweiToWei(maxTipGwei),
			Gas:       gasLimit,
			To:        &to,
			Value:     value,
			Data:      data,
		})
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: common.GweiToWei(maxGasPriceGwei),
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	})
}

// revertReason replays the reverted tx as an eth_call at its mined block to
// recover the revert string. Falls back to a generic message when the node
// doesn't cooperate.
func (e *Executor) revertReason(tx *types.Transaction, info common.TxInfo) string {
	if info.Receipt == nil || tx.To() == nil {
		return "execution reverted"
	}
	from := ethcommon.Address{}
	if info.Tx != nil && info.Tx.Extra.From != nil {
		from = *info.Tx.Extra.From
	}
	_, err := e.reader.CallContractAtBlock(
		from, *tx.To(), tx.Value(), tx.Data(),
		info.Receipt.BlockNumber,
	)
	if err == nil {
		return "execution reverted"
	}
	if reason := common.RevertReason(err); reason != "" {
		return reason
	}
	return err.Error()
}
