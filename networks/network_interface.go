package networks

import (
	"time"
)

// Network describes one chain the JobVerify contracts can be deployed on.
// Reads always go to the network's canonical nodes, never to whatever node
// the wallet happens to be connected to.
type Network interface {
	GetName() string
	GetChainID() int64
	GetAlternativeNames() []string
	GetNativeTokenSymbol() string
	GetNativeTokenDecimal() int64
	GetBlockTime() time.Duration

	// GetNodeVariableName returns the env var that overrides the default
	// node urls with a custom one.
	GetNodeVariableName() string
	GetDefaultNodes() map[string]string

	// GetDeploymentFile returns the deployment artifact holding contract
	// addresses for this network.
	GetDeploymentFile() string
}
