package monitor

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/jobverify/jobverify/common"
	"github.com/jobverify/jobverify/networks"
	"github.com/jobverify/jobverify/reader"
)

// txReader is the read surface the monitor polls. *reader.EthReader
// implements it; tests plug in fakes.
type txReader interface {
	TxInfoFromHash(tx string) (common.TxInfo, error)
	HeaderByNumber(number int64) (*types.Header, error)
}

// TxMonitor polls the nodes until a broadcasted tx settles. A tx that
// never shows up on any node within lostAfter is reported as lost.
type TxMonitor struct {
	reader        txReader
	checkInterval time.Duration
	lostAfter     time.Duration
}

func NewGenericTxMonitor(r *reader.EthReader) *TxMonitor {
	return &TxMonitor{
		reader:        r,
		checkInterval: 5 * time.Second,
		lostAfter:     3 * time.Minute,
	}
}

func NewTxMonitor(network networks.Network) *TxMonitor {
	return &TxMonitor{
		reader:        reader.NewEthReader(network),
		checkInterval: 5 * time.Second,
		lostAfter:     3 * time.Minute,
	}
}

func (m TxMonitor) periodicCheck(tx string, info chan common.TxInfo) {
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()
	startTime := time.Now()
	isOnNode := false
	for {
		t := <-ticker.C
		txinfo, _ := m.reader.TxInfoFromHash(tx)
		st, txObj, receipt := txinfo.Status, txinfo.Tx, txinfo.Receipt
		switch st {
		case "error":
			continue
		case "notfound":
			if t.Sub(startTime) > m.lostAfter && !isOnNode {
				info <- common.TxInfo{Status: "lost", Tx: txObj, Receipt: receipt}
				return
			} else {
				continue
			}
		case "pending":
			isOnNode = true
			continue
		case "reverted":
			block, _ := m.reader.HeaderByNumber(receipt.BlockNumber.Int64())
			info <- common.TxInfo{Status: "reverted", Tx: txObj, Receipt: receipt, Block: block}
			return
		case "done":
			block, _ := m.reader.HeaderByNumber(receipt.BlockNumber.Int64())
			info <- common.TxInfo{Status: "done", Tx: txObj, Receipt: receipt, Block: block}
			return
		}
	}
}

func (m TxMonitor) MakeWaitChannel(tx string) <-chan common.TxInfo {
	result := make(chan common.TxInfo)
	go m.periodicCheck(tx, result)
	return result
}

func (m TxMonitor) BlockingWait(tx string) common.TxInfo {
	wChannel := m.MakeWaitChannel(tx)
	return <-wChannel
}

func (m TxMonitor) MakeWaitChannelForMultipleTxs(txs ...string) []<-chan common.TxInfo {
	result := [](<-chan common.TxInfo){}
	for _, tx := range txs {
		ch := make(chan common.TxInfo)
		go m.periodicCheck(tx, ch)
		result = append(result, ch)
	}
	return result
}

func waitForChannel(wg *sync.WaitGroup, channel <-chan common.TxInfo, result *sync.Map) {
	defer wg.Done()
	info := <-channel
	result.Store(info.Tx.Hash().Hex(), info)
}

func (m TxMonitor) BlockingWaitForMultipleTxs(txs ...string) map[string]common.TxInfo {
	resultMap := sync.Map{}
	wg := sync.WaitGroup{}
	channels := m.MakeWaitChannelForMultipleTxs(txs...)
	for _, channel := range channels {
		wg.Add(1)
		go waitForChannel(&wg, channel, &resultMap)
	}
	wg.Wait()
	result := map[string]common.TxInfo{}
	resultMap.Range(func(key, value interface{}) bool {
		result[key.(string)] = value.(common.TxInfo)
		return true
	})
	return result
}
