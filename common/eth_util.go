package common

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const ZeroAddress string = "0x0000000000000000000000000000000000000000"

func HexToAddress(hex string) common.Address {
	return common.HexToAddress(hex)
}

func HexToAddresses(hexes []string) []common.Address {
	result := []common.Address{}
	for _, h := range hexes {
		result = append(result, common.HexToAddress(h))
	}
	return result
}

func HexToHash(hex string) common.Hash {
	return common.HexToHash(hex)
}

// IsZeroAddress reports whether addr is the all-zero account. An on-chain
// record whose company field is the zero address is an unpopulated slot,
// not a valid company.
func IsZeroAddress(addr common.Address) bool {
	return addr == (common.Address{})
}

func RawTxToHash(data string) string {
	return crypto.Keccak256Hash(hexutil.MustDecode(data)).Hex()
}

// NameHash hashes an off-chain name the way the registration path does on
// chain: keccak256 of the utf8 bytes.
func NameHash(name string) common.Hash {
	return crypto.Keccak256Hash([]byte(name))
}
