package contracts

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ContractCaller is the read surface a handle needs. *reader.EthReader
// implements it; tests plug in fakes.
type ContractCaller interface {
	GetCode(address string) ([]byte, error)
	ReadContractWithABI(result interface{}, caddr string, a *abi.ABI, method string, args ...interface{}) error
}

// ContractHandle binds one deployed contract to the endpoint its calls go
// through. Handles are cheap: created fresh per session, never persisted.
type ContractHandle struct {
	Name    string
	Address string
	ABI     *abi.ABI

	caller ContractCaller
}

// Call invokes a view method and unpacks the reply into result.
func (h *ContractHandle) Call(result interface{}, method string, args ...interface{}) error {
	return h.caller.ReadContractWithABI(result, h.Address, h.ABI, method, args...)
}

// HasCode reports whether any contract code is deployed at the handle's
// address. No code means the chain was reset or the deployment file is
// stale.
func (h *ContractHandle) HasCode() (bool, error) {
	code, err := h.caller.GetCode(h.Address)
	if err != nil {
		return false, err
	}
	return len(code) > 0, nil
}
