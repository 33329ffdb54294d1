// Package reader fans chain reads out to every canonical node of a network
// and returns the first success. The read path is deliberately independent
// of any wallet state: public browsing must work with no wallet at all.
package reader

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	jvcommon "github.com/jobverify/jobverify/common"
	"github.com/jobverify/jobverify/networks"
)

var DEFAULT_ADDRESS string = "0x0000000000000000000000000000000000000000"

type EthReader struct {
	nodes map[string]EthereumNode
}

func NewEthReaderGeneric(nodes map[string]string) *EthReader {
	ns := map[string]EthereumNode{}
	for name, c := range nodes {
		ns[name] = NewOneNodeReader(name, c)
	}
	return &EthReader{
		nodes: ns,
	}
}

// NewEthReader builds a reader bound to the canonical nodes of network,
// honoring the node env var override.
func NewEthReader(network networks.Network) *EthReader {
	return NewEthReaderGeneric(networks.GetNodes(network))
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type getCodeResponse struct {
	Code  []byte
	Error error
}

func (er *EthReader) GetCode(address string) (code []byte, err error) {
	resCh := make(chan getCodeResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			code, err := n.GetCode(address)
			resCh <- getCodeResponse{
				Code:  code,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Code, result.Error
		}
		errs = append(errs, result.Error)
	}
	return nil, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

type chainIDResponse struct {
	ChainID *big.Int
	Error   error
}

func (er *EthReader) ChainID() (*big.Int, error) {
	resCh := make(chan chainIDResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			id, err := n.ChainID()
			resCh <- chainIDResponse{
				ChainID: id,
				Error:   wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.ChainID, result.Error
		}
		errs = append(errs, result.Error)
	}
	return nil, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

type getBalanceResponse struct {
	Balance *big.Int
	Error   error
}

func (er *EthReader) GetBalance(address string) (balance *big.Int, err error) {
	resCh := make(chan getBalanceResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			balance, err := n.GetBalance(address)
			resCh <- getBalanceResponse{
				Balance: balance,
				Error:   wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Balance, result.Error
		}
		errs = append(errs, result.Error)
	}
	return nil, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

type getNonceResponse struct {
	Nonce uint64
	Error error
}

func (er *EthReader) GetMinedNonce(address string) (nonce uint64, err error) {
	resCh := make(chan getNonceResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			nonce, err := n.GetMinedNonce(address)
			resCh <- getNonceResponse{
				Nonce: nonce,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Nonce, result.Error
		}
		errs = append(errs, result.Error)
	}
	return 0, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (er *EthReader) GetPendingNonce(address string) (nonce uint64, err error) {
	resCh := make(chan getNonceResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			nonce, err := n.GetPendingNonce(address)
			resCh <- getNonceResponse{
				Nonce: nonce,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Nonce, result.Error
		}
		errs = append(errs, result.Error)
	}
	return 0, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

type estimateGasResult struct {
	Gas   uint64
	Error error
}

func (er *EthReader) EstimateExactGas(
	from, to string,
	priceGwei float64,
	value *big.Int,
	data []byte,
) (uint64, error) {
	resCh := make(chan estimateGasResult, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			gas, err := n.EstimateGas(from, to, priceGwei, value, data)
			resCh <- estimateGasResult{
				Gas:   gas,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Gas, result.Error
		}
		errs = append(errs, result.Error)
	}
	return 0, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

type transactionReceiptResponse struct {
	Receipt *types.Receipt
	Error   error
}

func (er *EthReader) TransactionReceipt(txHash string) (receipt *types.Receipt, err error) {
	resCh := make(chan transactionReceiptResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			receipt, err := n.TransactionReceipt(txHash)
			resCh <- transactionReceiptResponse{
				Receipt: receipt,
				Error:   wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Receipt, result.Error
		}
		errs = append(errs, result.Error)
	}
	return nil, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

type transactionByHashResponse struct {
	Tx        *jvcommon.Transaction
	IsPending bool
	Error     error
}

func (er *EthReader) TransactionByHash(
	txHash string,
) (tx *jvcommon.Transaction, isPending bool, err error) {
	resCh := make(chan transactionByHashResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			tx, ispending, err := n.TransactionByHash(txHash)
			resCh <- transactionByHashResponse{
				Tx:        tx,
				IsPending: ispending,
				Error:     wrapError(err, n.NodeName()),
			}
		}()
	}

	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Tx, result.IsPending, result.Error
		}
		errs = append(errs, result.Error)
	}
	return nil, false, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (er *EthReader) TxInfoFromHash(tx string) (jvcommon.TxInfo, error) {
	txObj, isPending, err := er.TransactionByHash(tx)
	if err != nil {
		return jvcommon.TxInfo{Status: "error"}, err
	}
	if txObj == nil {
		return jvcommon.TxInfo{Status: "notfound"}, nil
	}
	if isPending {
		return jvcommon.TxInfo{Status: "pending", Tx: txObj}, nil
	}

	receipt, err := er.TransactionReceipt(tx)
	if receipt == nil {
		return jvcommon.TxInfo{Status: "pending", Tx: txObj}, err
	}

	// if PostState is a hash, it is pre-byzantium and all txs with
	// PostState are considered done
	if len(receipt.PostState) == len(ethcommon.Hash{}) {
		return jvcommon.TxInfo{Status: "done", Tx: txObj, Receipt: receipt}, nil
	}
	if receipt.Status == 1 {
		return jvcommon.TxInfo{Status: "done", Tx: txObj, Receipt: receipt}, nil
	}
	return jvcommon.TxInfo{Status: "reverted", Tx: txObj, Receipt: receipt}, nil
}

type readContractToBytesResponse struct {
	Data  []byte
	Error error
}

func (er *EthReader) ReadContractToBytes(
	atBlock int64,
	from string,
	caddr string,
	abi *abi.ABI,
	method string,
	args ...interface{},
) ([]byte, error) {
	resCh := make(chan readContractToBytesResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			data, err := n.ReadContractToBytes(atBlock, from, caddr, abi, method, args...)
			resCh <- readContractToBytesResponse{
				Data:  data,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Data, result.Error
		}
		errs = append(errs, result.Error)
	}
	// all nodes agreeing on a revert is a revert, not a connectivity problem
	joined := errors.Join(errs...)
	if jvcommon.IsRevert(joined) {
		return nil, joined
	}
	return nil, fmt.Errorf("couldn't read from any nodes: %w", joined)
}

func (er *EthReader) ReadContractWithABI(
	result interface{},
	caddr string,
	abi *abi.ABI,
	method string,
	args ...interface{},
) error {
	responseBytes, err := er.ReadContractToBytes(-1, DEFAULT_ADDRESS, caddr, abi, method, args...)
	if err != nil {
		return err
	}
	return abi.UnpackIntoInterface(result, method, responseBytes)
}

type callContractResponse struct {
	Data  []byte
	Error error
}

// CallContractAtBlock replays a call at a specific block. It is used to
// recover revert reasons from already mined transactions.
func (er *EthReader) CallContractAtBlock(
	from, to ethcommon.Address,
	value *big.Int,
	data []byte,
	block *big.Int,
) ([]byte, error) {
	resCh := make(chan callContractResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			res, err := n.CallContractAtBlock(from, to, value, data, block)
			resCh <- callContractResponse{
				Data:  res,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Data, result.Error
		}
		errs = append(errs, result.Error)
	}
	joined := errors.Join(errs...)
	if jvcommon.IsRevert(joined) {
		return nil, joined
	}
	return nil, fmt.Errorf("couldn't read from any nodes: %w", joined)
}

type headerByNumberResponse struct {
	Header *types.Header
	Error  error
}

func (er *EthReader) HeaderByNumber(number int64) (*types.Header, error) {
	resCh := make(chan headerByNumberResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			header, err := n.HeaderByNumber(number)
			resCh <- headerByNumberResponse{
				Header: header,
				Error:  wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Header, result.Error
		}
		errs = append(errs, result.Error)
	}
	return nil, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

type getSuggestedGasResponse struct {
	Gas   *big.Int
	Error error
}

// add 20% tip to miners compared to what returned from the node to improve
// inclusion time a bit
func (er *EthReader) GetSuggestedGasTipCap() (float64, error) {
	resCh := make(chan getSuggestedGasResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			gasTip, err := n.SuggestedGasTipCap()
			resCh <- getSuggestedGasResponse{
				Gas:   gasTip,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}

	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return jvcommon.BigToFloat(result.Gas, 9) * 1.2, result.Error
		}
		errs = append(errs, result.Error)
	}
	return 0, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

// add 50% to max gas price because the next blocks based price can be
// increased according to ethereum protocol
func (er *EthReader) RecommendedGasPrice() (float64, error) {
	resCh := make(chan getSuggestedGasResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			gasPrice, err := n.SuggestedGasPrice()
			resCh <- getSuggestedGasResponse{
				Gas:   gasPrice,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}

	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return jvcommon.BigToFloat(result.Gas, 9) * 1.5, result.Error
		}
		errs = append(errs, result.Error)
	}
	return 0, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

// CheckDynamicFeeTxAvailable detects 1559 support by checking if the latest
// block carries a baseFee > 0. Not bulletproof but good enough here.
func (er *EthReader) CheckDynamicFeeTxAvailable() (bool, error) {
	header, err := er.HeaderByNumber(-1)
	if err != nil {
		return false, err
	}
	return header.BaseFee != nil && header.BaseFee.Cmp(ethcommon.Big0) > 0, nil
}

func (er *EthReader) SuggestedGasSettings() (maxGasPriceGwei, maxTipGwei float64, err error) {
	isDynamicFeeAvailable, err := er.CheckDynamicFeeTxAvailable()
	if err != nil {
		return 0, 0, err
	}

	maxGasPriceGwei, err = er.RecommendedGasPrice()
	if err != nil {
		return 0, 0, err
	}

	if isDynamicFeeAvailable {
		maxTipGwei, err = er.GetSuggestedGasTipCap()
		if err != nil {
			return 0, 0, err
		}
	}

	return maxGasPriceGwei, maxTipGwei, nil
}

type getBlockResponse struct {
	Block uint64
	Error error
}

func (er *EthReader) CurrentBlock() (uint64, error) {
	resCh := make(chan getBlockResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			block, err := n.CurrentBlock()
			resCh <- getBlockResponse{
				Block: block,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Block, result.Error
		}
		errs = append(errs, result.Error)
	}
	return 0, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}
