// Package contracts binds the deployed JobVerify contracts to read and
// write endpoints. Reads always go through the canonical nodes of the
// network the contracts are deployed on, no matter what the wallet is
// connected to; writes are only allowed when the wallet's chain matches.
package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/jobverify/jobverify/common"
	"github.com/jobverify/jobverify/config"
)

// Signer signs transactions for one wallet address. The keystore account
// implements it.
type Signer interface {
	Address() ethcommon.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// WriteContext is what a state-changing call needs: the signer and the
// chain id the wallet is actually connected to.
type WriteContext struct {
	Signer  Signer
	ChainID int64
}

var contractABIs = map[config.ContractName]*abi.ABI{
	config.JobPosting:          jobPostingParsedABI,
	config.UserVerification:    userVerificationParsedABI,
	config.CompanyVerification: companyVerificationParsedABI,
	config.CredentialRegistry:  credentialRegistryParsedABI,
	config.DisputeResolution:   disputeResolutionParsedABI,
}

// Resolver hands out contract handles and the current wallet context.
type Resolver struct {
	cfg    *config.Config
	caller ContractCaller

	signer        Signer
	walletChainID int64
}

func NewResolver(cfg *config.Config, caller ContractCaller) *Resolver {
	return &Resolver{
		cfg:    cfg,
		caller: caller,
	}
}

// AttachWallet connects a signer. walletChainID is the chain id of the
// node the wallet talks to, captured once at attach time so later
// GetWriteContext and CheckNetwork calls never block.
func (r *Resolver) AttachWallet(signer Signer, walletChainID int64) {
	r.signer = signer
	r.walletChainID = walletChainID
}

// GetReadHandle returns a handle bound to the canonical read endpoint.
// It never depends on wallet state; the only failure is a missing address.
func (r *Resolver) GetReadHandle(name config.ContractName) (*ContractHandle, error) {
	addr, err := r.cfg.Address(name)
	if err != nil {
		return nil, err
	}
	return &ContractHandle{
		Name:    string(name),
		Address: addr,
		ABI:     contractABIs[name],
		caller:  r.caller,
	}, nil
}

// GetWriteContext returns the connected signer and its chain id, or
// ErrWalletNotConnected. It performs no network round trip.
func (r *Resolver) GetWriteContext() (*WriteContext, error) {
	if r.signer == nil {
		return nil, common.ErrWalletNotConnected
	}
	return &WriteContext{
		Signer:  r.signer,
		ChainID: r.walletChainID,
	}, nil
}

// CheckNetwork compares the wallet's chain against expectedChainID. It is
// a pure comparison; callers decide whether a mismatch blocks the action.
func (r *Resolver) CheckNetwork(expectedChainID int64) error {
	if r.walletChainID == expectedChainID {
		return nil
	}
	return &common.NetworkMismatchError{
		Actual:   r.walletChainID,
		Expected: expectedChainID,
	}
}

// ExpectedChainID is the chain the contracts are deployed on.
func (r *Resolver) ExpectedChainID() int64 {
	return r.cfg.Network.GetChainID()
}
