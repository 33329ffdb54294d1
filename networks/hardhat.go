package networks

import (
	"time"
)

// Hardhat is the local development chain the contracts are deployed on by
// default. A wallet left on mainnet (chain id 1) against this network is the
// canonical mismatch case.
var Hardhat Network = NewHardhat()

type hardhat struct{}

func NewHardhat() *hardhat {
	return &hardhat{}
}

func (self *hardhat) GetName() string {
	return "hardhat"
}

func (self *hardhat) GetChainID() int64 {
	return 31337
}

func (self *hardhat) GetAlternativeNames() []string {
	return []string{"localhost", "local"}
}

func (self *hardhat) GetNativeTokenSymbol() string {
	return "ETH"
}

func (self *hardhat) GetNativeTokenDecimal() int64 {
	return 18
}

func (self *hardhat) GetBlockTime() time.Duration {
	return 1 * time.Second
}

func (self *hardhat) GetNodeVariableName() string {
	return "JOBVERIFY_HARDHAT_NODE"
}

func (self *hardhat) GetDefaultNodes() map[string]string {
	return map[string]string{
		"hardhat-local": "http://127.0.0.1:8545",
	}
}

func (self *hardhat) GetDeploymentFile() string {
	return "deployed-contracts-localhost.json"
}
