package networks

import (
	"time"
)

var Sepolia Network = NewSepolia()

type sepolia struct{}

func NewSepolia() *sepolia {
	return &sepolia{}
}

func (self *sepolia) GetName() string {
	return "sepolia"
}

func (self *sepolia) GetChainID() int64 {
	return 11155111
}

func (self *sepolia) GetAlternativeNames() []string {
	return []string{}
}

func (self *sepolia) GetNativeTokenSymbol() string {
	return "ETH"
}

func (self *sepolia) GetNativeTokenDecimal() int64 {
	return 18
}

func (self *sepolia) GetBlockTime() time.Duration {
	return 12 * time.Second
}

func (self *sepolia) GetNodeVariableName() string {
	return "JOBVERIFY_SEPOLIA_NODE"
}

func (self *sepolia) GetDefaultNodes() map[string]string {
	return map[string]string{
		"sepolia-public": "https://ethereum-sepolia-rpc.publicnode.com",
	}
}

func (self *sepolia) GetDeploymentFile() string {
	return "deployed-contracts-sepolia.json"
}
