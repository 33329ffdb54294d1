package wallet

import (
	"crypto/ecdsa"
	"math/big"
	"os"

	gethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Account is an unlocked keystore wallet. It holds the decrypted key in
// memory and signs transactions for whatever chain the caller passes in.
type Account struct {
	address ethcommon.Address
	key     *ecdsa.PrivateKey
}

func NewAccountFromKeystore(path string, passphrase string) (*Account, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := gethkeystore.DecryptKey(content, passphrase)
	if err != nil {
		return nil, err
	}
	return &Account{
		address: key.Address,
		key:     key.PrivateKey,
	}, nil
}

func NewAccountFromPrivateKey(key *ecdsa.PrivateKey, address ethcommon.Address) *Account {
	return &Account{address: address, key: key}
}

func (a *Account) Address() ethcommon.Address {
	return a.address
}

func (a *Account) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), a.key)
}
