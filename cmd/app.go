package cmd

import (
	"fmt"

	"github.com/jobverify/jobverify/aggregator"
	"github.com/jobverify/jobverify/broadcaster"
	"github.com/jobverify/jobverify/config"
	"github.com/jobverify/jobverify/contracts"
	"github.com/jobverify/jobverify/monitor"
	"github.com/jobverify/jobverify/networks"
	"github.com/jobverify/jobverify/reader"
	"github.com/jobverify/jobverify/txexec"
	"github.com/jobverify/jobverify/wallet"
)

// DeploymentDir is where the deployment artifact is looked up. Set by the
// persistent flag on the root command.
var DeploymentDir string

// app bundles the read-path wiring every command starts from.
type app struct {
	network  networks.Network
	cfg      *config.Config
	reader   *reader.EthReader
	resolver *contracts.Resolver
	agg      *aggregator.Aggregator
}

func newApp() (*app, error) {
	network := networks.CurrentNetwork()
	cfg, err := config.Load(network, DeploymentDir)
	if err != nil {
		return nil, err
	}
	r := reader.NewEthReader(network)
	resolver := contracts.NewResolver(cfg, r)
	return &app{
		network:  network,
		cfg:      cfg,
		reader:   r,
		resolver: resolver,
		agg:      aggregator.NewAggregator(resolver),
	}, nil
}

// connectWallet unlocks the account matching hint, attaches it to the
// resolver and returns an executor ready to submit transactions. The
// wallet's chain id is read once here; a wallet left on another network
// surfaces as a NetworkMismatchError at execution time, before any tx is
// signed.
func (a *app) connectWallet(hint string) (*txexec.Executor, *wallet.Account, error) {
	accDesc, err := wallet.GetAccount(hint)
	if err != nil {
		return nil, nil, err
	}
	acc, err := wallet.UnlockAccount(accDesc)
	if err != nil {
		return nil, nil, err
	}

	walletReader := a.reader
	bcast := broadcaster.NewBroadcaster(a.network)
	mon := monitor.NewTxMonitor(a.network)
	if a.cfg.WalletNode != "" {
		nodes := map[string]string{"wallet": a.cfg.WalletNode}
		walletReader = reader.NewEthReaderGeneric(nodes)
		bcast = broadcaster.NewGenericBroadcaster(nodes)
		mon = monitor.NewGenericTxMonitor(walletReader)
	}
	chainID, err := walletReader.ChainID()
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't query the wallet node's chain id: %w", err)
	}

	a.resolver.AttachWallet(acc, chainID.Int64())
	return txexec.NewExecutor(a.resolver, walletReader, bcast, mon, appUI), acc, nil
}
